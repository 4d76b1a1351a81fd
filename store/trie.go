package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/autocache/autocache"
)

// Trie is a bounded autocache.Store made of two generations of nested maps.
// Entries are filed under the key's fingerprint and then under the full key.
//
// Writes go to the head generation. Once it holds maxSize entries the
// generations rotate: the older one is dropped and a fresh head takes its
// place, so at most 2*maxSize results are kept. Loads check the head first,
// then the previous generation.
type Trie struct {
	memos   [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

func NewTrie(maxSize uint32) (*Trie, error) {
	if maxSize == 0 {
		return nil, fmt.Errorf("trie store: maxSize should be greater than 0")
	}
	t := &Trie{maxSize: maxSize}
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	return t, nil
}

func (t *Trie) Load(key autocache.CallKey) (any, bool) {
	headIdx := t.headIdx.Load()
	if v, ok := lookup(t.memos[headIdx].Load(), key); ok {
		return v, true
	}
	return lookup(t.memos[1-headIdx].Load(), key)
}

func (t *Trie) Store(key autocache.CallKey, value any) error {
	if swapped := t.size.CompareAndSwap(t.maxSize, 0); swapped {
		next := 1 - t.headIdx.Load()
		t.memos[next].Store(&sync.Map{})
		t.headIdx.Store(next)
	}
	m := traverse(t.memos[t.headIdx.Load()].Load(), key)
	if _, loaded := m.Swap(key, value); !loaded {
		t.size.Add(1)
	}
	return nil
}

// Clear drops both generations.
func (t *Trie) Clear() error {
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	t.headIdx.Store(0)
	t.size.Store(0)
	return nil
}

// traverse returns the leaf map for key, creating it when missing.
func traverse(root *sync.Map, key autocache.CallKey) *sync.Map {
	v, _ := root.LoadOrStore(key.Hash(), &sync.Map{})
	return v.(*sync.Map)
}

func lookup(root *sync.Map, key autocache.CallKey) (any, bool) {
	leaf, ok := root.Load(key.Hash())
	if !ok {
		return nil, false
	}
	return leaf.(*sync.Map).Load(key)
}

var _ autocache.Store = (*Trie)(nil)
