// Package main provides the entry point for respkv-cli.
//
// Usage:
//
//	respkv-cli [--server HOST:PORT] ping [MESSAGE]
//	respkv-cli echo MESSAGE
//	respkv-cli get KEY
//	respkv-cli set [--px MS] KEY VALUE
//	respkv-cli SET k v PX 1000     # any other words are sent verbatim
//	respkv-cli                     # interactive mode
package main
