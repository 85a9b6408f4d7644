// Package cmap provides a sharded concurrent map with string keys.
//
// Keys are spread over a power-of-two number of shards with murmur3; each
// shard has its own RWMutex, so writers to different shards do not contend.
//
// Usage:
//
//	m := cmap.New[string, *Conn]()
//	m.Set(id, conn)
//	defer m.Delete(id)
//
// Range visits shards one at a time and holds each shard's read lock only
// while visiting it. The view is not a consistent snapshot.
package cmap
