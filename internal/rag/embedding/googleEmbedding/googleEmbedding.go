package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/rag/embedding"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.GoogleEmbeddingDimension

type client struct {
	genAi *genai.Client
	model string
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Info("Google Embedding client created", "model", modelName)
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func (c *client) ModelName() string {
	return c.model
}

func (c *client) Dimension() int32 {
	return dimension
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding embeds the whole batch in one call, retrying once after a
// rate-limit response. All-or-nothing: a failed batch yields no vectors.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil && doRetry(err, log) {
		time.Sleep(config.EmbeddingRateLimitRetryDelay)
		log.Debug("Retrying embedding batch after rate limit")
		res, err = c.doCall(ctx, getContent(chunks))
	}
	if err != nil {
		log.Error("Error getting embeddings from Google", "error", err)
		return nil, faults.New(faults.Embedding, c.model, err)
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, faults.Newf(faults.Embedding, c.model, "got %d embeddings for %d texts", len(res.Embeddings), len(chunks))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, r := range res.Embeddings {
		vectors[i] = r.Values
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}
