package server

import (
	"context"
	stderrors "errors"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/semaphore"

	"github.com/kbukum/gourde/config"
	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/logger"
	"github.com/kbukum/gourde/server/middleware"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Options tune how a Server is built. The zero value is usable.
type Options struct {
	// Listener, when set, is served instead of binding cfg.Address().
	Listener net.Listener
	// Reactor is the worker pool of the reactor strategy. A pool of
	// DefaultReactorSize is created when nil.
	Reactor *Reactor
	// Logger defaults to the global logger.
	Logger *logger.Logger
	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Server serves one handler on the strategy selected by its configuration.
type Server struct {
	httpServer *http.Server
	strategy   Strategy
	config     config.ServiceConfig
	opts       Options
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// Dispatch builds a Server for cfg and runs it until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func Dispatch(ctx context.Context, h http.Handler, cfg config.ServiceConfig, opts Options) error {
	return New(h, cfg, opts).Run(ctx)
}

// New creates a Server. cfg is copied and never read again by the caller's
// pointer.
func New(h http.Handler, cfg config.ServiceConfig, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.GetGlobalLogger()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		strategy: StrategyFor(&cfg),
		config:   cfg,
		log:      opts.Logger.WithComponent("server"),
		serveErr: make(chan error, 1),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	switch s.strategy {
	case ReactorBased:
		if opts.Reactor == nil {
			opts.Reactor = NewReactor(DefaultReactorSize)
		}
		if cfg.Threads > 0 {
			opts.Reactor.Resize(cfg.Threads)
		}
		h2s := &http2.Server{
			MaxConcurrentStreams: 250,
			IdleTimeout:          120 * time.Second,
		}
		s.httpServer.Handler = h2c.NewHandler(h, h2s)
		if cfg.LogLevel != "" {
			s.httpServer.ErrorLog = stdlog.New(s.log.Writer(zerolog.ErrorLevel), "", 0)
		}
	default:
		s.httpServer.Handler = middleware.Chain(
			middleware.ConcurrencyLimit(semaphore.NewWeighted(slots(&cfg))),
		)(h)
	}

	s.opts = opts
	return s
}

// Strategy returns the strategy resolved from the configuration.
func (s *Server) Strategy() Strategy { return s.strategy }

// Reactor returns the worker pool, or nil unless the strategy is ReactorBased.
func (s *Server) Reactor() *Reactor { return s.opts.Reactor }

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	ln := s.opts.Listener
	if ln == nil {
		var err error
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", s.httpServer.Addr)
		if err != nil {
			return errors.BindFailed(s.httpServer.Addr, err)
		}
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
			s.serveErr <- err
		}
	}()

	s.log.Info("HTTP server started", logger.Fields(
		"addr", ln.Addr().String(),
		"strategy", s.strategy.String(),
		"threads", s.config.Threads,
	))
	return nil
}

// Stop gracefully shuts down the server and drains the reactor.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if s.strategy == ReactorBased {
		if rerr := s.opts.Reactor.Stop(shutdownCtx); rerr != nil && err == nil {
			err = rerr
		}
	}
	if err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return err
	}
	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Run starts the server and blocks until ctx is done, a termination
// signal arrives or serving fails, then shuts down. A serving failure is
// returned in preference to any shutdown error.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-s.serveErr:
		_ = s.Stop(context.WithoutCancel(ctx))
		return err
	}
	return s.Stop(context.WithoutCancel(ctx))
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
