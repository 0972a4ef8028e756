package qdrantDB

import (
	"context"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/lexicon/internal/config"
)

// Near-duplicate questions skip retrieval and generation entirely when the
// cache is enabled. Answers are keyed by query vector in a dedicated
// collection.

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	if !config.CacheEnabled {
		return
	}
	exists, err := client.CollectionExists(ctx, config.CacheCollection)
	if err != nil || exists {
		return
	}
	holder := &ClientHolder{QObj: client}
	if err := holder.createCollection(ctx, config.CacheCollection, uint64(cacheDimension())); err != nil {
		logger.Error("Semantic cache collection creation failed", "error", err)
	}
}

func cacheDimension() int32 {
	if config.EmbeddingProvider() == "gemini" {
		return config.GoogleEmbeddingDimension
	}
	return config.OpenAIEmbeddingDimension
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.CacheCollection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false, nil
	}

	log.Info("Semantic cache hit", "score", searchResult[0].Score)
	answer := searchResult[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.CacheCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		logger.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
