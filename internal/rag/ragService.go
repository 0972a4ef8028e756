package rag

import (
	"context"
	"time"

	"github.com/akolanti/lexicon/internal/adapter/utils"
	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/registry"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/metrics"
	"github.com/akolanti/lexicon/internal/rag/embedding"
	"github.com/akolanti/lexicon/internal/rag/llm"
	"github.com/akolanti/lexicon/internal/rag/splitter"
	"github.com/akolanti/lexicon/internal/rag/vectorDB"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

// IngestRequest points the pipeline at one source. ExtraMetadata is merged
// into every chunk's metadata and wins on key collision.
type IngestRequest struct {
	Kind          commonModels.SourceKind
	Source        string
	Collection    string
	ExtraMetadata map[string]any
}

// Service is the public contract of the ingestion and retrieval pipelines.
// The façade only ever talks to this; the vector store, embedder and LLM
// stay private so tests can swap them for mocks.
type Service interface {
	Ingest(ctx context.Context, req IngestRequest) (commonModels.IngestResult, error)
	Chat(ctx context.Context, message string, collection string) (commonModels.ChatResult, error)
	Collections(ctx context.Context) ([]string, error)
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	registry    registry.Registry
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llmProvider llm.Provider, em embedding.Embedder, reg registry.Registry) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llmProvider,
		embedder:    em,
		registry:    reg,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// Ingest runs load -> split -> embed -> upsert. All chunks are embedded
// before anything touches the store, so a failed embedding batch leaves the
// collection exactly as it was.
func (s *service) Ingest(ctx context.Context, req IngestRequest) (commonModels.IngestResult, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("ingest", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collection", req.Collection)

	ingestCtx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	docs, err := s.executeLoadStep(ingestCtx, log, req)
	if err != nil {
		return commonModels.IngestResult{}, err
	}

	chunks := splitter.SplitDocuments(docs, req.ExtraMetadata)
	if len(chunks) == 0 {
		return commonModels.IngestResult{}, faults.Newf(faults.Validation, req.Source, "no documents to index for %s", req.Collection)
	}
	log.Debug("Prepared chunks", "documents", len(docs), "chunks", len(chunks))

	if err := s.validateCollectionForWrite(ingestCtx, req.Collection); err != nil {
		return commonModels.IngestResult{}, err
	}

	vectors, err := s.executeEmbeddingBatches(ingestCtx, log, chunks)
	if err != nil {
		return commonModels.IngestResult{}, err
	}

	created, err := s.executeUpsertStep(ingestCtx, log, req.Collection, chunks, vectors)
	if err != nil {
		return commonModels.IngestResult{}, err
	}

	metrics.CountChunksIndexed(req.Collection, len(chunks))
	return commonModels.IngestResult{
		DocumentsLoaded: len(docs),
		ChunksIndexed:   len(chunks),
		Collection:      req.Collection,
		Created:         created,
	}, nil
}

// Chat embeds the question, retrieves top-k chunks with MMR and composes a
// cited answer. An empty retrieval is a normal outcome and short-circuits
// without calling the generation provider.
func (s *service) Chat(ctx context.Context, message string, collection string) (commonModels.ChatResult, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("chat", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collection", collection)

	chatCtx, cancel := context.WithTimeout(ctx, config.ChatTimeout)
	defer cancel()

	if err := s.validateCollectionForRead(chatCtx, collection); err != nil {
		return commonModels.ChatResult{}, err
	}

	queryVector, err := s.executeQueryEmbeddingStep(chatCtx, log, message)
	if err != nil {
		return commonModels.ChatResult{}, err
	}

	if config.CacheEnabled {
		if answer, found := s.executeCacheCheckStep(chatCtx, log, queryVector); found {
			return commonModels.ChatResult{Answer: answer, Sources: []commonModels.SourceCitation{}}, nil
		}
	}

	chunks, err := s.executeVectorSearchStep(chatCtx, log, collection, queryVector)
	if err != nil {
		return commonModels.ChatResult{}, err
	}

	if len(chunks) == 0 {
		log.Debug("No relevant chunks retrieved")
		metrics.CountEmptyRetrieval()
		return commonModels.ChatResult{
			Answer:  NoInformationResponse,
			Sources: []commonModels.SourceCitation{},
		}, nil
	}

	answer, err := s.executeGenerationStep(chatCtx, log, message, chunks)
	if err != nil {
		return commonModels.ChatResult{}, err
	}

	if config.CacheEnabled {
		go func() {
			if err := s.vectorDB.SaveToCache(context.WithoutCancel(ctx), utils.GetNewUUID(), queryVector, answer); err != nil {
				s.logger.Error("Failed to save answer to cache", "error", err)
			}
		}()
	}

	return commonModels.ChatResult{
		Answer:  answer,
		Sources: buildCitations(chunks),
	}, nil
}

// Collections merges the live store listing with the configured defaults.
// A listing failure degrades to the defaults; it never fails the request.
func (s *service) Collections(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(config.KnownCollections))
	seen := make(map[string]bool)
	for _, name := range config.KnownCollections {
		names = append(names, name)
		seen[name] = true
	}

	live, err := s.vectorDB.ListCollections(ctx)
	if err != nil {
		s.logger.Warn("Could not list live collections, using defaults", "error", err)
		return names, nil
	}
	for _, name := range live {
		if name == config.CacheCollection || seen[name] {
			continue
		}
		names = append(names, name)
		seen[name] = true
	}
	return names, nil
}
