package openaiLLM

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/rag/llm"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		openaiClient = &llmClient{
			client:    openai.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
		}
		logger.Info("OpenAI chat client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, userQuery string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userQuery),
		},
	})
	if err != nil {
		log.Error("Error generating completion", "error", err)
		return "", faults.New(faults.Generation, c.modelName, err)
	}
	if len(completion.Choices) == 0 {
		return "", faults.Newf(faults.Generation, c.modelName, "completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
