package rag

import (
	"context"
	"time"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/registry"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/metrics"
	"github.com/akolanti/lexicon/internal/rag/loader"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

func (s *service) executeLoadStep(ctx context.Context, log *logger_i.Logger, req IngestRequest) ([]commonModels.Document, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_load", time.Since(start)) }()

	log.Debug("Loading source", "kind", req.Kind, "source", req.Source)
	return loader.Load(req.Kind, req.Source)
}

// executeEmbeddingBatches embeds every chunk before anything is written.
// Batches bound the per-request payload size; a failure in any batch aborts
// the whole ingestion with zero vectors persisted.
func (s *service) executeEmbeddingBatches(ctx context.Context, log *logger_i.Logger, chunks []commonModels.DocChunk) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += config.EmbeddingBatchSize {
		end := i + config.EmbeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, c.Text)
		}

		log.Debug("Embedding batch", "from", i, "to", end)
		batchVectors, err := s.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batchVectors...)
	}
	return vectors, nil
}

func (s *service) executeUpsertStep(ctx context.Context, log *logger_i.Logger, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()

	created, err := s.vectorDB.UpsertBatch(ctx, collection, chunks, vectors)
	if err != nil {
		log.Error("Upsert failed", "error", err)
		return created, err
	}
	log.Info("Upserted chunks", "count", len(chunks), "created", created)
	return created, nil
}

func (s *service) executeQueryEmbeddingStep(ctx context.Context, log *logger_i.Logger, message string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, message)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, queryVector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, _ := s.vectorDB.GetCachedAnswer(ctx, queryVector)
	return answer, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, collection string, queryVector []float32) ([]commonModels.RetrievedChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, collection, queryVector, config.RetrievalK)
}

func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, message string, chunks []commonModels.RetrievedChunk) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, buildSystemInstruction(chunks), message)
}

// validateCollectionForWrite records the collection's embedding space on
// first write and rejects writes from a different embedder afterwards.
func (s *service) validateCollectionForWrite(ctx context.Context, collection string) error {
	record, found, err := s.registry.Get(ctx, collection)
	if err != nil {
		return faults.New(faults.VectorStore, collection, err)
	}
	if !found {
		err := s.registry.Save(ctx, collection, registry.CollectionRecord{
			EmbeddingModel: s.embedder.ModelName(),
			Dimension:      s.embedder.Dimension(),
			CreatedAt:      time.Now(),
		})
		if err != nil {
			return faults.New(faults.VectorStore, collection, err)
		}
		return nil
	}
	return s.checkRecord(collection, record)
}

// validateCollectionForRead rejects queries embedded with a different model
// than the collection was written with. Collections with no record (created
// before the registry existed, or by another tool) are let through.
func (s *service) validateCollectionForRead(ctx context.Context, collection string) error {
	record, found, err := s.registry.Get(ctx, collection)
	if err != nil || !found {
		return nil
	}
	return s.checkRecord(collection, record)
}

func (s *service) checkRecord(collection string, record registry.CollectionRecord) error {
	if record.EmbeddingModel != s.embedder.ModelName() || record.Dimension != s.embedder.Dimension() {
		return faults.Newf(faults.VectorStore, collection,
			"collection was embedded with %s (dim %d), active embedder is %s (dim %d)",
			record.EmbeddingModel, record.Dimension, s.embedder.ModelName(), s.embedder.Dimension())
	}
	return nil
}
