package registry

import (
	"context"
	"sync"
)

// InMemoryRegistry is the fallback when Redis is offline. Records survive
// only as long as the process does.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]CollectionRecord
}

func InitInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		records: make(map[string]CollectionRecord),
	}
}

func (r *InMemoryRegistry) Get(ctx context.Context, collection string) (CollectionRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, found := r.records[collection]
	return record, found, nil
}

func (r *InMemoryRegistry) Save(ctx context.Context, collection string, record CollectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[collection] = record
	return nil
}
