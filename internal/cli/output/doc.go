// Package output renders server replies for respkv-cli.
//
//   - formatter.go: Formatter interface and factory
//   - raw.go: redis-cli style text ("PONG", "\"hello\"", "(nil)")
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//
// Bulk strings are shown as text when they are valid UTF-8 and quoted
// with Go escapes otherwise.
package output
