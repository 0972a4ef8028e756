package embedding

import "context"

// Embedder maps texts to fixed-length vectors. One embedding model per
// collection: ModelName and Dimension feed the collection registry so a
// mismatched embedder is rejected before any read or write.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
	ModelName() string
	Dimension() int32
}
