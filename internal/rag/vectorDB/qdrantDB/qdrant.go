package qdrantDB

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
	"github.com/akolanti/lexicon/internal/domain/faults"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, qdrantInstance)
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		APIKey:   config.QdrantAPIKey(),
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// UpsertBatch writes the whole batch in one call. The collection is created
// lazily on first write, its dimensionality taken from the vectors being
// written, and the write retried once after creation.
func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) (bool, error) {
	if len(chunks) != len(vectors) {
		return false, faults.Newf(faults.VectorStore, collectionName, "mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return false, faults.Newf(faults.VectorStore, collectionName, "no documents to index")
	}

	created := false
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return false, faults.New(faults.VectorStore, collectionName, err)
	}
	if !exists {
		if err := db.createCollection(ctx, collectionName, uint64(len(vectors[0]))); err != nil {
			return false, faults.New(faults.VectorStore, collectionName, err)
		}
		created = true
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]any{
			"content":  chunk.Text,
			"chunk_id": chunk.ChunkId,
		}
		for k, v := range chunk.Metadata {
			payload[k] = v
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	upsert := &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	}

	_, err = db.QObj.Upsert(ctx, upsert)
	if err != nil && isMissingCollection(err) && !created {
		// Collection vanished between the existence check and the write;
		// create it and retry exactly once.
		if cerr := db.createCollection(ctx, collectionName, uint64(len(vectors[0]))); cerr != nil {
			return false, faults.New(faults.VectorStore, collectionName, cerr)
		}
		created = true
		_, err = db.QObj.Upsert(ctx, upsert)
	}
	if err != nil {
		return created, faults.New(faults.VectorStore, collectionName, err)
	}
	return created, nil
}

// Search fetches a wider candidate pool with payloads and vectors, then
// re-ranks it with maximal marginal relevance down to k results. A missing
// collection yields an empty result.
func (db *ClientHolder) Search(ctx context.Context, collectionName string, queryVector []float32, k int) ([]commonModels.RetrievedChunk, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, faults.New(faults.VectorStore, collectionName, err)
	}
	if !exists {
		log.Debug("collection does not exist, returning empty result", "collection", collectionName)
		return nil, nil
	}

	fetchK := config.MMRFetchK
	if fetchK < k {
		fetchK = k
	}
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(fetchK)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant: ", "error:", err)
		return nil, faults.New(faults.VectorStore, collectionName, err)
	}

	candidates := make([]candidate, 0, len(result))
	for _, hit := range result {
		candidates = append(candidates, candidate{
			score:  hit.Score,
			vector: hit.GetVectors().GetVector().GetData(),
			text:   hit.Payload["content"].GetStringValue(),
			meta:   payloadToMetadata(hit.Payload),
		})
	}

	selected := mmrRerank(candidates, k, config.MMRLambda)

	chunks := make([]commonModels.RetrievedChunk, len(selected))
	for rank, idx := range selected {
		chunks[rank] = commonModels.RetrievedChunk{
			Text:     candidates[idx].text,
			Metadata: candidates[idx].meta,
			Rank:     rank + 1,
		}
	}
	return chunks, nil
}

func (db *ClientHolder) ListCollections(ctx context.Context) ([]string, error) {
	names, err := db.QObj.ListCollections(ctx)
	if err != nil {
		return nil, faults.New(faults.VectorStore, "", err)
	}
	return names, nil
}

func (db *ClientHolder) createCollection(ctx context.Context, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	logger.Info("Creating collection", "collection", collectionName, "dimension", dimension)
	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func isMissingCollection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "doesn't exist") || strings.Contains(msg, "does not exist")
}

// payloadToMetadata converts the stored payload back into chunk metadata,
// dropping the content/chunk_id fields that live beside it.
func payloadToMetadata(payload map[string]*qdrant.Value) map[string]any {
	meta := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "content" || k == "chunk_id" {
			continue
		}
		if converted, ok := valueToAny(v); ok {
			meta[k] = converted
		}
	}
	return meta
}

func valueToAny(v *qdrant.Value) (any, bool) {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue, true
	case *qdrant.Value_IntegerValue:
		return int(kind.IntegerValue), true
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue, true
	case *qdrant.Value_BoolValue:
		return kind.BoolValue, true
	default:
		return nil, false
	}
}
