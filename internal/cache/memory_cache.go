package cache

import (
	"sync"
	"time"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is a map backed Cache without eviction, used in tests and by the CLI.
type MemoryCache struct {
	entries map[string][]byte
	mutex   sync.Mutex
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

func (mc *MemoryCache) Get(key string) ([]byte, bool) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	val, ok := mc.entries[key]
	return val, ok
}

// Set ignores ttl.
func (mc *MemoryCache) Set(key string, value []byte, _ time.Duration) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.entries[key] = value
	return nil
}

func (mc *MemoryCache) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.entries = make(map[string][]byte)
}

func (mc *MemoryCache) Len() int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return len(mc.entries)
}
