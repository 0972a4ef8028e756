package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/registry"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/internal/rag"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	content := "name,role\nalice,developer\nbob,operator\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestChat_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		setupMocks      func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer  string
		expectedSources int
		expectedKind    faults.Kind
		wantGeneration  bool
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, collection string, qv []float32, k int) ([]commonModels.RetrievedChunk, error) {
					return []commonModels.RetrievedChunk{
						{Text: "relevant chunk", Metadata: map[string]any{commonModels.MetaSource: "https://example.com"}},
					}, nil
				}
				l.OnGenerate = func(ctx context.Context, sys string, q string) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer:  "final answer",
			expectedSources: 1,
			wantGeneration:  true,
		},
		{
			name: "Empty_Retrieval_Short_Circuits",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, collection string, qv []float32, k int) ([]commonModels.RetrievedChunk, error) {
					return nil, nil
				}
			},
			expectedAnswer:  rag.NoInformationResponse,
			expectedSources: 0,
		},
		{
			name: "Failure_Query_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, faults.New(faults.Embedding, "model", errors.New("api limit"))
				}
			},
			expectedKind: faults.Embedding,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, collection string, qv []float32, k int) ([]commonModels.RetrievedChunk, error) {
					return nil, faults.New(faults.VectorStore, collection, errors.New("db timeout"))
				}
			},
			expectedKind: faults.VectorStore,
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, sys string, q string) (string, error) {
					return "", faults.New(faults.Generation, "model", errors.New("provider down"))
				}
			},
			expectedKind:   faults.Generation,
			wantGeneration: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}
			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, registry.InitInMemoryRegistry())

			result, err := s.Chat(testContext(), "test question", "test-collection")

			if tt.expectedKind != "" {
				if err == nil {
					t.Fatalf("expected a %s fault", tt.expectedKind)
				}
				if faults.KindOf(err) != tt.expectedKind {
					t.Errorf("fault kind got %s, want %s", faults.KindOf(err), tt.expectedKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", result.Answer, tt.expectedAnswer)
			}
			if len(result.Sources) != tt.expectedSources {
				t.Errorf("Sources got %d, want %d", len(result.Sources), tt.expectedSources)
			}
			if result.Sources == nil {
				t.Errorf("Sources must never be nil")
			}
			if !tt.wantGeneration && mLLM.GenerateCalls != 0 {
				t.Errorf("generation should not run, got %d calls", mLLM.GenerateCalls)
			}
		})
	}
}

func TestChat_RejectsMismatchedEmbedder(t *testing.T) {
	reg := registry.InitInMemoryRegistry()
	reg.Save(testContext(), "test-collection", registry.CollectionRecord{
		EmbeddingModel: "some-other-model",
		Dimension:      42,
		CreatedAt:      time.Now(),
	})

	mLLM := &MockLLM{}
	s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{}, reg)

	_, err := s.Chat(testContext(), "question", "test-collection")
	if faults.KindOf(err) != faults.VectorStore {
		t.Fatalf("expected a vector store fault, got %v", err)
	}
	if mLLM.GenerateCalls != 0 {
		t.Errorf("generation should not run after a registry rejection")
	}
}

func TestIngest_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB)
		expectedChunks int
		expectedKind   faults.Kind
		wantUpserts    int
	}{
		{
			name:           "Ingestion_Success",
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB) {},
			expectedChunks: 2,
			wantUpserts:    1,
		},
		{
			name: "Failure_Embedding_Leaves_Store_Untouched",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string) ([][]float32, error) {
					return nil, faults.New(faults.Embedding, "model", errors.New("api limit"))
				}
			},
			expectedKind: faults.Embedding,
			wantUpserts:  0,
		},
		{
			name: "Failure_Batch_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnUpsertBatch = func(ctx context.Context, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error) {
					return false, faults.New(faults.VectorStore, collection, errors.New("disk full"))
				}
			},
			expectedKind: faults.VectorStore,
			wantUpserts:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			tt.setupMocks(mEmbed, mVec)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed, registry.InitInMemoryRegistry())

			result, err := s.Ingest(testContext(), rag.IngestRequest{
				Kind:       commonModels.SourceCSV,
				Source:     writeCSV(t),
				Collection: "ingest-collection",
			})

			if mVec.UpsertCalls != tt.wantUpserts {
				t.Errorf("UpsertBatch calls got %d, want %d", mVec.UpsertCalls, tt.wantUpserts)
			}

			if tt.expectedKind != "" {
				if faults.KindOf(err) != tt.expectedKind {
					t.Fatalf("fault kind got %s, want %s (err: %v)", faults.KindOf(err), tt.expectedKind, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ChunksIndexed != tt.expectedChunks {
				t.Errorf("ChunksIndexed got %d, want %d", result.ChunksIndexed, tt.expectedChunks)
			}
			if result.DocumentsLoaded != 2 {
				t.Errorf("DocumentsLoaded got %d, want 2", result.DocumentsLoaded)
			}
			if result.Collection != "ingest-collection" {
				t.Errorf("Collection got %s", result.Collection)
			}
		})
	}
}

func TestIngest_RegistersCollectionOnFirstWrite(t *testing.T) {
	reg := registry.InitInMemoryRegistry()
	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, reg)

	_, err := s.Ingest(testContext(), rag.IngestRequest{
		Kind:       commonModels.SourceCSV,
		Source:     writeCSV(t),
		Collection: "fresh-collection",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, found, err := reg.Get(testContext(), "fresh-collection")
	if err != nil || !found {
		t.Fatalf("expected a registry record after first write (found=%v err=%v)", found, err)
	}
	if record.EmbeddingModel != config.OpenAIEmbeddingModel || record.Dimension != config.OpenAIEmbeddingDimension {
		t.Errorf("record holds %s/%d", record.EmbeddingModel, record.Dimension)
	}
}

func TestIngest_RejectsMismatchedEmbedder(t *testing.T) {
	reg := registry.InitInMemoryRegistry()
	reg.Save(testContext(), "locked-collection", registry.CollectionRecord{
		EmbeddingModel: "some-other-model",
		Dimension:      42,
	})

	mEmbed := &MockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string) ([][]float32, error) {
			t.Error("embedding should not run after a registry rejection")
			return nil, nil
		},
	}
	mVec := &MockVectorDB{}
	s := rag.NewService(mVec, &MockLLM{}, mEmbed, reg)

	_, err := s.Ingest(testContext(), rag.IngestRequest{
		Kind:       commonModels.SourceCSV,
		Source:     writeCSV(t),
		Collection: "locked-collection",
	})
	if faults.KindOf(err) != faults.VectorStore {
		t.Fatalf("expected a vector store fault, got %v", err)
	}
	if mVec.UpsertCalls != 0 {
		t.Errorf("upsert should not run after a registry rejection")
	}
}

func TestIngest_ExtraMetadataReachesChunks(t *testing.T) {
	var captured []commonModels.DocChunk
	mVec := &MockVectorDB{
		OnUpsertBatch: func(ctx context.Context, collection string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error) {
			captured = chunks
			return true, nil
		},
	}
	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, registry.InitInMemoryRegistry())

	result, err := s.Ingest(testContext(), rag.IngestRequest{
		Kind:          commonModels.SourceCSV,
		Source:        writeCSV(t),
		Collection:    "meta-collection",
		ExtraMetadata: map[string]any{commonModels.MetaFile: "visitor-name.csv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created {
		t.Errorf("Created flag should pass through from the store")
	}
	if len(captured) != 2 {
		t.Fatalf("expected 2 chunks upserted, got %d", len(captured))
	}
	for i, chunk := range captured {
		if chunk.Metadata[commonModels.MetaFile] != "visitor-name.csv" {
			t.Errorf("chunk %d kept the spooled file name: %v", i, chunk.Metadata[commonModels.MetaFile])
		}
		if chunk.Metadata[commonModels.MetaRow] != i+1 {
			t.Errorf("chunk %d row metadata lost", i)
		}
	}
}

func TestIngest_MissingSourceIsLoadFault(t *testing.T) {
	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, registry.InitInMemoryRegistry())

	_, err := s.Ingest(testContext(), rag.IngestRequest{
		Kind:       commonModels.SourceCSV,
		Source:     filepath.Join(t.TempDir(), "missing.csv"),
		Collection: "any",
	})
	if faults.KindOf(err) != faults.Load {
		t.Fatalf("expected a load fault, got %v", err)
	}
}

func TestCollections_MergesDefaultsWithLiveListing(t *testing.T) {
	mVec := &MockVectorDB{
		OnListCollections: func(ctx context.Context) ([]string, error) {
			return []string{"custom-collection", config.DefaultPDFCollection, config.CacheCollection}, nil
		},
	}
	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, registry.InitInMemoryRegistry())

	collections, err := s.Collections(testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(collections, ",")
	for _, want := range config.KnownCollections {
		if !strings.Contains(joined, want) {
			t.Errorf("default %s missing from %v", want, collections)
		}
	}
	if !strings.Contains(joined, "custom-collection") {
		t.Errorf("live collection missing from %v", collections)
	}
	if strings.Contains(joined, config.CacheCollection) {
		t.Errorf("cache collection must not be listed: %v", collections)
	}

	seen := map[string]int{}
	for _, c := range collections {
		seen[c]++
	}
	if seen[config.DefaultPDFCollection] != 1 {
		t.Errorf("duplicate listing for %s", config.DefaultPDFCollection)
	}
}

func TestCollections_DegradesToDefaultsOnError(t *testing.T) {
	mVec := &MockVectorDB{
		OnListCollections: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("store offline")
		},
	}
	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, registry.InitInMemoryRegistry())

	collections, err := s.Collections(testContext())
	if err != nil {
		t.Fatalf("listing failure must not fail the request: %v", err)
	}
	if len(collections) != len(config.KnownCollections) {
		t.Errorf("expected just the defaults, got %v", collections)
	}
}
