// Package config provides server configuration for respkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address syntax, log settings, rate limits)
//   - marshal.go: YAML rendering of the effective configuration
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// RESPKV_* environment variables and command-line flags. Keys contain no
// underscores so that RESPKV_SERVER_REDIS_RATELIMIT maps to
// server.redis.ratelimit.
package config
