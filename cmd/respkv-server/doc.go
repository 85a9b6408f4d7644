// Package main provides the entry point for respkv-server.
//
// The server keeps string keys in memory, optionally with a millisecond
// expiry, and serves PING, ECHO, GET and SET over RESP. Prometheus metrics
// are exposed on a separate HTTP listener when metrics.addr is set.
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /etc/respkv/respkv.yaml
//	respkv-server --addr 0.0.0.0:6379 --metrics-addr 127.0.0.1:9121
//	respkv-server --print-config
//
// Configuration comes from defaults, the YAML file, RESPKV_* environment
// variables and flags, in that order. When a file is given, edits to its
// log.level take effect without a restart.
package main
