// Package command defines the respkv-cli commands using urfave/cli/v2.
//
//   - root.go: App, global flags, client and output plumbing
//   - kv.go: ping, echo, get and set subcommands
//   - interactive.go: raw commands and the interactive REPL
//
// With no arguments respkv-cli starts the REPL; with arguments that are not
// a subcommand it sends them verbatim as one request, as redis-cli does.
package command
