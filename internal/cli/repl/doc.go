// Package repl provides the interactive mode of respkv-cli.
//
// Each input line is split into arguments (double quotes group words and
// accept Go escapes), sent to the server as one command and the reply is
// printed with the configured formatter. Lines are kept in a history file
// between sessions.
package repl
