package registry

import (
	"context"
	"encoding/json"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/data/redisStore"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

const keyPrefix = "collection:"

type RedisRegistry struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisRegistry(ctx context.Context) *RedisRegistry {
	store := redisStore.GetRedisStore(ctx)
	if store == nil {
		return nil
	}
	return &RedisRegistry{
		store:  store,
		logger: logger_i.NewLogger("CollectionRegistry"),
	}
}

func (r *RedisRegistry) Get(ctx context.Context, collection string) (CollectionRecord, bool, error) {
	var record CollectionRecord
	val, err := r.store.Get(ctx, keyPrefix+collection)
	if r.store.IsNil(err) {
		return record, false, nil
	}
	if err != nil {
		return record, false, err
	}
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, false, err
	}
	return record, true, nil
}

func (r *RedisRegistry) Save(ctx context.Context, collection string, record CollectionRecord) error {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collection", collection)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = r.store.Set(ctx, keyPrefix+collection, data, config.RegistryStoreTTL)
	if err == nil {
		log.Debug("Saved collection record", "model", record.EmbeddingModel, "dimension", record.Dimension)
	}
	return err
}

// TestRegistry wires a test store, for miniredis-backed tests.
func TestRegistry(store *redisStore.Store) *RedisRegistry {
	return &RedisRegistry{
		store:  store,
		logger: logger_i.NewLogger("test registry"),
	}
}
