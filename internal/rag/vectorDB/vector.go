package vectorDB

import (
	"context"

	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// DataProcessor is everything the ingestion and retrieval pipelines need from
// the vector database. Collection names partition the store; a name uniquely
// determines the embedding space written into it.
type DataProcessor interface {
	// UpsertBatch writes (vector, text, metadata) tuples, creating the
	// collection on first use and retrying the write once. Returns whether
	// the collection was created by this call.
	UpsertBatch(ctx context.Context, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (created bool, err error)

	// Search returns up to k chunks re-ranked with maximal marginal
	// relevance. A missing collection is a normal empty result, not an error.
	Search(ctx context.Context, collection string, queryVector []float32, k int) ([]commonModels.RetrievedChunk, error)

	ListCollections(ctx context.Context) ([]string, error)

	// Semantic answer cache, keyed by query vector.
	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error
}
