// Package store provides autocache.Store implementations beyond the default
// unbounded map.
//
//   - Ristretto: a bounded store on dgraph-io/ristretto. Admission may drop an
//     entry, in which case the engine simply recomputes it on the next call.
//   - Trie: a bounded store of two rotating map generations. Filling the head
//     generation drops the older one.
//   - MemDB: a transactional in-memory store on hashicorp/go-memdb.
//
// No store is shared between engines: an engine clears its store at the
// start of every with-cache benchmarking pass.
package store
