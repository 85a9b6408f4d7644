// Package confloader loads respkv configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults (WithDefaults)
//  2. YAML configuration file (WithConfigFile)
//  3. Environment variables (RESPKV_ prefix by default)
//  4. Overrides, typically set command-line flags (WithOverrides)
//
// Environment names map to keys by dropping the prefix, lower-casing and
// turning underscores into dots: RESPKV_LOG_LEVEL sets log.level.
//
// Watcher reports changes to a configuration file through fsnotify so the
// server can reload it.
package confloader
