package bootstrap

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/kbukum/gourde/config"
	"github.com/kbukum/gourde/observability"
)

// Option configures the App during creation.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	probes          Probes
	probeDetail     bool
	registry        observability.Registry
	sentryDSN       string
	monitor         observability.ErrorMonitor
	monitorSet      bool
	staticDir       string
	args            []string
	loaderOpts      []config.LoaderOption
	listener        net.Listener
	gracefulTimeout time.Duration
	summaryOut      io.Writer
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{
		probes:          DefaultProbes{},
		probeDetail:     true,
		gracefulTimeout: 15 * time.Second,
	}
	if len(os.Args) > 1 {
		o.args = os.Args[1:]
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.probes == nil {
		o.probes = DefaultProbes{}
	}
	return o
}

// WithProbes sets the liveness and readiness checks.
func WithProbes(p Probes) Option {
	return func(o *appOptions) {
		o.probes = p
	}
}

// WithProbeDetail controls whether a probe error's text is sent as the
// response body. When disabled, failing probes always answer "FAIL".
func WithProbeDetail(enabled bool) Option {
	return func(o *appOptions) {
		o.probeDetail = enabled
	}
}

// WithRegistry sets the metrics registry. By default each App gets a fresh one.
func WithRegistry(reg observability.Registry) Option {
	return func(o *appOptions) {
		o.registry = reg
	}
}

// WithSentryDSN sets the error monitor DSN. SENTRY_DSN is used when empty.
func WithSentryDSN(dsn string) Option {
	return func(o *appOptions) {
		o.sentryDSN = dsn
	}
}

// WithMonitor replaces the Sentry monitor. A nil monitor disables error
// monitoring.
func WithMonitor(m observability.ErrorMonitor) Option {
	return func(o *appOptions) {
		o.monitor = m
		o.monitorSet = true
	}
}

// WithStaticDir enables /favicon.ico, served from dir.
func WithStaticDir(dir string) Option {
	return func(o *appOptions) {
		o.staticDir = dir
	}
}

// WithArgs sets the arguments parsed by Setup(nil). Defaults to os.Args[1:].
func WithArgs(args []string) Option {
	return func(o *appOptions) {
		o.args = args
	}
}

// WithLoaderOptions passes options to config.Load when Setup parses arguments.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) {
		o.loaderOpts = append(o.loaderOpts, opts...)
	}
}

// WithListener serves on ln instead of binding host:port.
func WithListener(ln net.Listener) Option {
	return func(o *appOptions) {
		o.listener = ln
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = d
	}
}

// WithSummaryWriter sets where the startup summary is printed. Defaults to stdout.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
