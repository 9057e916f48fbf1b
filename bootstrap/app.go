package bootstrap

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/gourde/config"
	"github.com/kbukum/gourde/logger"
	"github.com/kbukum/gourde/observability"
	"github.com/kbukum/gourde/server"
	"github.com/kbukum/gourde/server/middleware"
	"github.com/kbukum/gourde/version"
)

// App wraps a gin engine with the operational surface every service
// exposes: status page, liveness and readiness probes, metrics, logging
// and error monitoring.
//
// Example:
//
//	app, err := bootstrap.New("my-service", bootstrap.WithProbes(myProbes))
//	app.AddRoute("/hello", "hello", func(c *gin.Context) (string, int) {
//	    return "hello", http.StatusOK
//	})
//	err = app.Run(context.Background())
type App struct {
	Name string

	engine  *gin.Engine
	metrics *observability.Metrics
	monitor observability.ErrorMonitor
	reactor *server.Reactor
	opts    *appOptions

	mu         sync.RWMutex
	cfg        config.ServiceConfig
	configured bool
	monitored  bool
	tracer     *sdktrace.TracerProvider

	routesMu sync.Mutex
	routes   []Route
	names    map[string]bool

	onStart []Hook
	onStop  []Hook
}

// New creates an App with a fresh gin engine.
func New(name string, opts ...Option) (*App, error) {
	return NewWithEngine(gin.New(), name, opts...)
}

// NewWithEngine creates an App around an existing engine. Metrics, the
// error monitor and the built-in routes are attached immediately, so they
// exist even if Setup is never called. Routes the engine already had are
// not instrumented.
func NewWithEngine(engine *gin.Engine, name string, opts ...Option) (*App, error) {
	o := resolveOptions(opts)

	a := &App{
		Name:    name,
		engine:  engine,
		opts:    o,
		cfg:     config.Default(),
		reactor: server.NewReactor(server.DefaultReactorSize),
		names:   make(map[string]bool),
	}
	a.cfg.Name = name

	metrics, err := observability.BindMetrics(engine, o.registry, name)
	if err != nil {
		return nil, err
	}
	a.metrics = metrics
	a.log().Info("Prometheus is enabled.", logger.Fields("version", metrics.Version()))

	engine.Use(
		middleware.Recovery(nil),
		middleware.RequestID(),
		middleware.RequestLogger(nil),
		observability.TracingMiddleware(),
	)

	if o.monitorSet {
		a.monitor = o.monitor
	} else {
		a.monitor = observability.NewSentryMonitor(metrics.Version())
	}
	a.attachMonitor(o.sentryDSN)

	if err := a.registerDefaultRoutes(); err != nil {
		return nil, err
	}
	return a, nil
}

// Setup resolves the configuration and initializes logging.
//
// A non-nil cfg is used exactly as given; nil parses the command line
// (see WithArgs) layered over the environment. Setup may be called again;
// the last call wins.
func (a *App) Setup(cfg *config.ServiceConfig) error {
	var resolved config.ServiceConfig
	if cfg == nil {
		loaded, err := config.Load(a.Name, a.opts.args, a.opts.loaderOpts...)
		if err != nil {
			return err
		}
		resolved = *loaded
	} else {
		resolved = *cfg
		if err := resolved.Validate(); err != nil {
			return err
		}
	}
	if resolved.Name == "" {
		resolved.Name = a.Name
	}

	if err := logger.Setup(resolved.LogLevel, a.Name); err != nil {
		return err
	}

	if resolved.SentryDSN != "" {
		a.attachMonitor(resolved.SentryDSN)
	}
	if resolved.OTLPEndpoint != "" {
		a.initTracing(resolved)
	}

	a.mu.Lock()
	a.cfg = resolved
	a.configured = true
	a.mu.Unlock()
	return nil
}

// IsConfigured reports whether Setup has completed.
func (a *App) IsConfigured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.configured
}

// Config returns a copy of the current configuration.
func (a *App) Config() config.ServiceConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Strategy returns the strategy Run would dispatch to.
func (a *App) Strategy() server.Strategy {
	cfg := a.Config()
	return server.StrategyFor(&cfg)
}

// Engine returns the gin engine for registering business routes and middleware.
func (a *App) Engine() *gin.Engine { return a.engine }

// Metrics returns the metrics binding.
func (a *App) Metrics() *observability.Metrics { return a.metrics }

// Reactor returns the worker pool handlers may use for blocking work when
// the app runs on the reactor strategy.
func (a *App) Reactor() *server.Reactor { return a.reactor }

// Run ensures Setup has happened, then serves on the configured strategy
// until ctx is cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	if !a.IsConfigured() {
		if err := a.Setup(nil); err != nil {
			return err
		}
	}
	cfg := a.Config()
	start := time.Now()

	if err := runHooks(ctx, a.onStart); err != nil {
		return err
	}

	srv := server.New(a.engine, cfg, server.Options{
		Listener:        a.opts.listener,
		Reactor:         a.reactor,
		Logger:          logger.GetGlobalLogger(),
		ShutdownTimeout: a.opts.gracefulTimeout,
	})

	summary := NewSummary(a.Name, version.Short(a.Name))
	summary.SetConfig(cfg, srv.Strategy())
	summary.SetRoutes(server.RouteTable(a.engine))
	summary.SetStartupDuration(time.Since(start))
	summary.Display(a.summaryOut())

	runErr := srv.Run(ctx)
	stopErr := a.stop()
	if runErr != nil {
		return runErr
	}
	return stopErr
}

// stop runs OnStop hooks and flushes observability exporters.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.opts.gracefulTimeout)
	defer cancel()

	err := runHooks(ctx, a.onStop)
	if err != nil {
		a.log().Error("OnStop hook error", logger.ErrorFields("stop", err))
	}

	a.mu.RLock()
	tp, monitored := a.tracer, a.monitored
	a.mu.RUnlock()
	if tp != nil {
		if terr := tp.Shutdown(ctx); terr != nil {
			a.log().Warn("Tracer shutdown error", logger.ErrorFields("stop", terr))
		}
	}
	if monitored {
		a.monitor.Flush(2 * time.Second)
	}
	return err
}

// attachMonitor attaches the error monitor once.
func (a *App) attachMonitor(dsn string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.monitored {
		return
	}
	if observability.AttachMonitor(a.engine, a.monitor, dsn) {
		a.monitored = true
		a.log().Info("Sentry is enabled.")
	}
}

func (a *App) initTracing(cfg config.ServiceConfig) {
	a.mu.RLock()
	running := a.tracer != nil
	a.mu.RUnlock()
	if running {
		return
	}

	tc := observability.DefaultTracerConfig(a.Name, cfg.OTLPEndpoint)
	tc.ServiceVersion = a.metrics.Version()
	tp, err := observability.InitTracer(context.Background(), tc)
	if err != nil {
		a.log().Warn("Tracing disabled", logger.ErrorFields("tracer", err))
		return
	}
	a.mu.Lock()
	a.tracer = tp
	a.mu.Unlock()
}

func (a *App) summaryOut() io.Writer {
	if a.opts.summaryOut != nil {
		return a.opts.summaryOut
	}
	return os.Stdout
}

// log returns the component logger. It is resolved on each call so that
// a later Setup is picked up.
func (a *App) log() *logger.Logger {
	return logger.WithComponent(a.Name)
}
