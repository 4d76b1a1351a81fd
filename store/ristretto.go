package store

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"

	"github.com/on-the-ground/autocache/autocache"
)

// entry keeps the full key next to the value so that two keys sharing a
// 64-bit fingerprint never serve each other's results.
type entry struct {
	key   autocache.CallKey
	value any
}

// Ristretto is a bounded autocache.Store. Every entry costs 1, so maxEntries
// bounds the number of stored results.
type Ristretto struct {
	cache *ristretto.Cache[uint64, entry]
}

func NewRistretto(maxEntries int64) (*Ristretto, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("ristretto store: maxEntries must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, entry]{
		NumCounters:        maxEntries * 10, // number of keys to track frequency of.
		MaxCost:            maxEntries,
		BufferItems:        64, // number of keys per Get buffer.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: cache}, nil
}

func (r *Ristretto) Load(key autocache.CallKey) (any, bool) {
	e, ok := r.cache.Get(key.Hash())
	if !ok || e.key != key {
		return nil, false
	}
	return e.value, true
}

// Store waits for the write buffer so the value is visible to the next Load.
func (r *Ristretto) Store(key autocache.CallKey, value any) error {
	r.cache.Set(key.Hash(), entry{key: key, value: value}, 1)
	r.cache.Wait()
	return nil
}

func (r *Ristretto) Clear() error {
	r.cache.Clear()
	return nil
}

// Close stops the cache's background goroutines.
func (r *Ristretto) Close() {
	r.cache.Close()
}

var _ autocache.Store = (*Ristretto)(nil)
