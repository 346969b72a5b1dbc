// Package cache holds the snapshot store backed by Redis and the in-process
// reference-data cache backed by ristretto.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Local is an in-process cache for small reference data such as districts.
type Local struct {
	c *ristretto.Cache[string, []byte]
}

// NewLocal creates a ristretto-backed cache. maxCostBytes is the maximum total
// size of cached values in bytes.
func NewLocal(maxCostBytes int64) (*Local, error) {
	counters := maxCostBytes / 100 * 10 // ~10x expected items
	if counters < 1000 {
		counters = 1000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Local{c: c}, nil
}

// Get decodes the cached value for key into out.
func (l *Local) Get(_ context.Context, key string, out interface{}) (bool, error) {
	val, found := l.c.Get(key)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(val, out); err != nil {
		l.c.Del(key)
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key for ttl. The write is visible to Get once Set returns.
func (l *Local) Set(_ context.Context, key string, v interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	l.c.SetWithTTL(key, payload, int64(len(payload)), ttl)
	l.c.Wait()
	return nil
}

func (l *Local) Delete(_ context.Context, key string) {
	l.c.Del(key)
}

// Close shuts down the cache and releases resources.
func (l *Local) Close() {
	l.c.Close()
}
