package observability

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/version"
)

// MetricsPath is the route serving the Prometheus exposition format.
const MetricsPath = "/metrics"

// unmatchedPath labels requests that did not match any registered route.
const unmatchedPath = "<unmatched>"

// Registry is a collector registry that can also be scraped.
// *prometheus.Registry satisfies it.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Metrics is the metrics binding of one application.
type Metrics struct {
	registry Registry
	version  string

	info     *prometheus.GaugeVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewRegistry returns a fresh registry. The process-wide default registry
// is never used so that two applications in one process do not collide.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// BindMetrics registers the request collectors, the Go and process
// collectors and app_info{version,appname} on reg, instruments engine and
// exposes GET /metrics. A nil reg gets a fresh registry.
//
// Routes added to engine before BindMetrics is called are not instrumented.
func BindMetrics(engine *gin.Engine, reg Registry, appName string) (*Metrics, error) {
	m, err := NewMetrics(reg, appName)
	if err != nil {
		return nil, err
	}
	engine.Use(m.Middleware())
	engine.GET(MetricsPath, gin.WrapH(m.Handler()))
	return m, nil
}

// NewMetrics creates and registers the collectors without touching an engine.
func NewMetrics(reg Registry, appName string) (*Metrics, error) {
	if reg == nil {
		reg = NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		version:  version.Resolve(appName),
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "app_info",
				Help: "Application info.",
			},
			[]string{"version", "appname"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_total",
				Help: "Total number of HTTP requests by method, path and status.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "path", "status"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
	}

	var err error
	if m.info, err = register(reg, m.info); err != nil {
		return nil, err
	}
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.inFlight, err = register(reg, m.inFlight); err != nil {
		return nil, err
	}
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if _, err := register(reg, c); err != nil {
			return nil, err
		}
	}

	m.info.WithLabelValues(m.version, appName).Set(1)
	return m, nil
}

// register adds c to reg. A collector that is already registered under the
// same descriptor is reused, so several applications may share a registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if stderrors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, errors.MetricsBindFailed(err)
}

// Version returns the resolved version reported in app_info.
func (m *Metrics) Version() string { return m.version }

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, duration and in-flight requests.
// Requests are labelled by route template to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.duration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
