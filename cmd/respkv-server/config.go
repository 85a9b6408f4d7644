package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"addr":         "server.redis.addr",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"metrics-addr": "metrics.addr",
}

func newLoader(c *cli.Context) *confloader.Loader {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}

	return confloader.NewLoader(
		confloader.WithDefaults(config.DefaultMap()),
		confloader.WithConfigFile(c.String("config")),
		confloader.WithOverrides(overrides),
	)
}

func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// reloader applies configuration file changes to a running server. Only
// log.level can change at runtime; other changes are reported and ignored.
type reloader struct {
	loader  *confloader.Loader
	current *config.ServerConfig
	log     *slog.Logger
}

func (r *reloader) reload(path string) {
	next, err := loadConfig(r.loader)
	if err != nil {
		r.log.Error("config reload failed, keeping current settings", "file", path, "error", err)
		return
	}

	if next.Log.Level != r.current.Log.Level {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			r.log.Error("config reload failed", "error", err)
			return
		}
		r.log.Info("log level changed", "from", r.current.Log.Level, "to", next.Log.Level)
		r.current.Log.Level = next.Log.Level
	}

	if next.Server != r.current.Server || next.Metrics != r.current.Metrics || next.Log.Format != r.current.Log.Format {
		r.log.Warn("configuration changes other than log.level need a restart", "file", path)
	}
}

func watchConfig(loader *confloader.Loader, cfg *config.ServerConfig, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	current := *cfg
	r := &reloader{loader: loader, current: &current, log: log}
	w.OnChange(r.reload)
	w.StartAsync()
	return w, nil
}
