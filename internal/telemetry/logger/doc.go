// Package logger builds the process-wide log/slog logger for respkv.
//
// The level lives in a shared slog.LevelVar, so SetLevel changes the
// verbosity of every logger created by New, including ones already handed
// out to the server and store. The config watcher uses this to apply
// log.level changes without a restart.
//
// Formats:
//
//   - json (default)
//   - text, or its alias console
package logger
