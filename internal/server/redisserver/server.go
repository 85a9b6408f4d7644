package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/cmap"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrServerClosed is returned by Serve after Shutdown has been called.
var ErrServerClosed = errors.New("redisserver: server closed")

// Accept backoff bounds after a failed accept.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Config holds the server configuration.
type Config struct {
	// Address is the TCP address to listen on.
	Address string
	// RateLimit is the maximum number of commands per second per
	// connection. Commands above the limit are delayed, not rejected.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// RateBurst is the burst size for RateLimit (default: RateLimit).
	RateBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:   "127.0.0.1:6379",
		RateLimit: 0,
	}
}

// Server accepts RESP connections and serves commands against a Store.
type Server struct {
	cfg     *Config
	store   Store
	logger  *slog.Logger
	metrics *metric.Registry

	// lnMu guards ln and orders wg.Add in Serve against Shutdown.
	lnMu sync.Mutex
	ln   net.Listener

	conns    *cmap.Map[string, *Conn]
	shutdown atomic.Bool
	wg       sync.WaitGroup
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records connection and command metrics in r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// New creates a server. The same store is shared by every connection.
func New(cfg *Config, store Store, logger *slog.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		conns:  cmap.New[string, *Conn](),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.Serve(ctx, ln); err != nil && !errors.Is(err, ErrServerClosed) {
			s.logger.Error("redis server error", "error", err)
		}
	}()

	return nil
}

// Serve accepts connections on ln until the listener is closed, Shutdown
// is called or ctx is done. A failed accept is logged and retried.
//
// Serve returns ErrServerClosed, and closes ln, if Shutdown has already
// been called.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.lnMu.Lock()
	if s.shutdown.Load() {
		s.lnMu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.wg.Add(1)
	s.lnMu.Unlock()
	defer s.wg.Done()

	stop := context.AfterFunc(ctx, func() {
		_ = s.closeListener()
	})
	defer stop()

	s.logger.Info("redis server listening", "addr", ln.Addr().String())

	var backoff time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(2*backoff, maxAcceptBackoff)
			}
			s.metrics.IncAcceptErrors()
			s.logger.Error("accept failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		conn := newConn(c)
		if s.cfg.RateLimit > 0 {
			burst := s.cfg.RateBurst
			if burst <= 0 {
				burst = s.cfg.RateLimit
			}
			conn.limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), burst)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ActiveConnections returns the number of connections being served.
func (s *Server) ActiveConnections() int {
	return s.conns.Count()
}

// Shutdown stops accepting, closes every open connection and waits for
// their goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.lnMu.Lock()
	s.shutdown.Store(true)
	s.lnMu.Unlock()

	firstErr := s.closeListener()

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) closeListener() error {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	s.conns.Set(c.ID(), c)
	s.metrics.IncConnections()
	defer func() {
		s.conns.Delete(c.ID())
		s.metrics.DecConnections()
		_ = c.Close()
	}()
	if s.shutdown.Load() {
		return
	}

	log := s.logger.With("conn_id", c.ID(), "remote", c.RemoteAddr().String())
	log.Debug("connection opened")

	for {
		frame, err := c.ReadFrame()
		if err != nil {
			s.logReadError(log, err)
			return
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
		}

		cmd, err := ParseCommand(frame)
		if err != nil {
			s.metrics.RecordCommand(rejectedName(err), "error")
			log.Warn("rejecting command", "error", err)
			return
		}

		start := time.Now()
		err = cmd.Apply(s.store, c)
		s.metrics.ObserveCommandDuration(cmd.Name(), time.Since(start).Seconds())
		if err != nil {
			s.metrics.RecordCommand(cmd.Name(), "error")
			log.Debug("write failed", "command", cmd.Name(), "error", err)
			return
		}
		s.metrics.RecordCommand(cmd.Name(), "ok")
	}
}

// rejectedName labels a request ParseCommand refused: the command name when
// the command was recognized, "unknown" otherwise.
func rejectedName(err error) string {
	var ce *CommandError
	if errors.As(err, &ce) && ce.Command != "" {
		return ce.Command
	}
	return "unknown"
}

func (s *Server) logReadError(log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrConnClosed):
		log.Debug("connection closed")
	case errors.Is(err, resp.ErrInvalid):
		s.metrics.RecordProtocolError("invalid")
		log.Warn("protocol error", "error", err)
	case errors.Is(err, resp.ErrBadLength):
		s.metrics.RecordProtocolError("bad_length")
		log.Warn("protocol error", "error", err)
	case errors.Is(err, net.ErrClosed):
		log.Debug("connection closed locally")
	default:
		log.Debug("connection read error", "error", err)
	}
}
