// Package memory provides the in-memory key-value store for respkv.
//
// A Store keeps two structures under one lock:
//
//   - entries: key -> value and optional deadline
//   - expirations: a B-tree of (deadline, key) ordered by deadline
//
// Expiration:
//
// Each Store runs exactly one reclamation goroutine. It removes every key
// whose deadline has passed, then sleeps until the next deadline or until
// Set signals that the schedule changed. The signal is a single-slot
// channel, so any number of Set calls between two wakeups cost one wakeup.
//
// Thread Safety:
//
// All operations are thread-safe. Get and the stats methods take the read
// lock; Set and the reclamation pass take the write lock. The lock is never
// held while sleeping or doing I/O.
package memory
