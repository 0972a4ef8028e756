package openaiEmbedding

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/rag/embedding"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	openAi openai.Client
	model  string
}

func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		embeddingClient = &client{
			openAi: openai.NewClient(option.WithAPIKey(apikey)),
			model:  modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{openAi: embeddingClient.openAi, model: embeddingClient.model}
}

func (c *client) ModelName() string {
	return c.model
}

func (c *client) Dimension() int32 {
	return config.OpenAIEmbeddingDimension
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding embeds all texts in one request, order-preserving. Either
// every text gets a vector or the whole batch fails - there is no partial
// result to persist.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, faults.New(faults.Embedding, c.model, err)
	}
	if len(res.Data) != len(chunks) {
		return nil, faults.Newf(faults.Embedding, c.model, "got %d embeddings for %d texts", len(res.Data), len(chunks))
	}

	vectors := make([][]float32, len(res.Data))
	for i, e := range res.Data {
		vec := make([]float32, len(e.Embedding))
		for j, v := range e.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
