package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address (server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (log.level)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "json or text (log.format)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Prometheus listen address, empty to disable (metrics.addr)",
			},
			&cli.BoolFlag{
				Name:  "print-config",
				Usage: "print the effective configuration as YAML and exit",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	loader := newLoader(c)
	cfg, err := loadConfig(loader)
	if err != nil {
		return err
	}

	if c.Bool("print-config") {
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(out)
		return err
	}

	log, err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting respkv-server",
		"version", buildinfo.Get().Version,
		"commit", buildinfo.Get().Commit,
		"config", loader.FilePath())

	reg := metric.Global()
	store := memory.New(memory.WithLogger(log), memory.WithMetrics(reg))
	reg.MustRegister(metric.NewStoreCollector(store))

	ctx, cancel := context.WithCancelCause(c.Context)
	defer cancel(nil)

	h := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))
	h.OnShutdown("store", func(context.Context) error {
		return store.Close()
	})

	srv := redisserver.New(&redisserver.Config{
		Address:   cfg.Server.Redis.Addr,
		RateLimit: cfg.Server.Redis.RateLimit,
		RateBurst: cfg.Server.Redis.RateBurst,
	}, store, log, redisserver.WithMetrics(reg))
	if err := srv.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("start redis server: %w", err)
	}
	h.OnShutdown("redis server", srv.Shutdown)

	if cfg.Metrics.Addr != "" {
		metricsSrv, err := startMetrics(cfg.Metrics.Addr, reg, log, cancel)
		if err != nil {
			cancel(err)
		} else {
			h.OnShutdown("metrics server", metricsSrv.Shutdown)
		}
	}

	if loader.FilePath() != "" {
		w, err := watchConfig(loader, cfg, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			h.OnShutdown("config watcher", func(context.Context) error { return w.Stop() })
		}
	}

	if err := h.Wait(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return context.Cause(ctx)
}

// startMetrics serves /metrics on addr. A serve failure after startup
// cancels the process context so the server shuts down.
func startMetrics(addr string, reg *metric.Registry, log *slog.Logger, cancel context.CancelCauseFunc) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
			cancel(fmt.Errorf("metrics server: %w", err))
		}
	}()
	return srv, nil
}
