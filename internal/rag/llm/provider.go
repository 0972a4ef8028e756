package llm

import "context"

// Provider makes exactly one chat-completion call: no retry, no streaming.
type Provider interface {
	Generate(ctx context.Context, systemInstruction string, userQuery string) (string, error)
}
