package redisStore

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/pkg/logger_i"
)

var (
	instance *Store
	mu       sync.Mutex
	logger   *logger_i.Logger
)

type Store struct {
	client *redis.Client
}

func GetRedisStore(ctx context.Context) *Store {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}
	return createNewStore(ctx)
}

func createNewStore(ctx context.Context) *Store {
	if logger == nil {
		logger = logger_i.NewLogger("Redis Store")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = config.RedisAddr
	}
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              config.RedisPassword,
		DB:                    config.RedisRegistryDB,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline: ", "error", err.Error())
		return nil
	}

	logger.Info("Redis store init successfully")

	instance = &Store{client: newClient}
	go closeRedisStore(ctx, instance)
	return instance
}

func closeRedisStore(ctx context.Context, store *Store) {
	<-ctx.Done()
	logger.Info("Closing Redis store")
	if err := store.client.Close(); err != nil {
		logger.Error("Error closing redis client", "error", err)
	}
}

// NewTestStore wraps an externally constructed client, for tests only.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
