// Package redisserver provides a Redis protocol compatible server for respkv.
//
// This package implements the connection loop and command layer on top of
// the frame codec in pkg/resp:
//
//   - conn.go: per-connection receive buffer, ReadFrame and WriteFrame
//   - command.go: request decoding and command execution
//   - server.go: listener, accept loop and connection registry
//
// Supported commands:
//   - PING [message]
//   - ECHO message
//   - GET key
//   - SET key value [PX milliseconds]
//
// One goroutine serves each accepted connection; the only state shared
// between them is the Store. Malformed frames and malformed commands close
// the offending connection only; other connections and the store are
// unaffected.
package redisserver
