package rag_test

import (
	"context"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch          func(ctx context.Context, collection string, queryVector []float32, k int) ([]commonModels.RetrievedChunk, error)
	OnUpsertBatch     func(ctx context.Context, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error)
	OnListCollections func(ctx context.Context) ([]string, error)
	OnGetCachedAnswer func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache     func(ctx context.Context, id string, vector []float32, answer string) error

	UpsertCalls int
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error) {
	m.UpsertCalls++
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, collection, chunks, vectors)
	}
	return false, nil
}

func (m *MockVectorDB) Search(ctx context.Context, collection string, queryVector []float32, k int) ([]commonModels.RetrievedChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, collection, queryVector, k)
	}
	return []commonModels.RetrievedChunk{{Text: "default context", Metadata: map[string]any{}}}, nil
}

func (m *MockVectorDB) ListCollections(ctx context.Context) ([]string, error) {
	if m.OnListCollections != nil {
		return m.OnListCollections(ctx)
	}
	return nil, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)

	Model string
	Dim   int32
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk count
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) ModelName() string {
	if m.Model != "" {
		return m.Model
	}
	return config.OpenAIEmbeddingModel
}

func (m *MockEmbedder) Dimension() int32 {
	if m.Dim != 0 {
		return m.Dim
	}
	return config.OpenAIEmbeddingDimension
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, systemInstruction string, userQuery string) (string, error)

	GenerateCalls int
}

func (m *MockLLM) Generate(ctx context.Context, systemInstruction string, userQuery string) (string, error) {
	m.GenerateCalls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemInstruction, userQuery)
	}
	return "mocked llm response", nil
}
