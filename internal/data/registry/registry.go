package registry

import (
	"context"
	"time"
)

// CollectionRecord pins a collection to the embedding space it was written
// with. Embedding vectors from a different model are meaningless against it,
// so every write and read validates the active embedder against this record.
type CollectionRecord struct {
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int32     `json:"dimension"`
	CreatedAt      time.Time `json:"created_at"`
}

type Registry interface {
	Get(ctx context.Context, collection string) (CollectionRecord, bool, error)
	Save(ctx context.Context, collection string, record CollectionRecord) error
}
