package observability

import (
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/kbukum/gourde/logger"
)

// EnvSentryDSN is read when no DSN is passed explicitly.
const EnvSentryDSN = "SENTRY_DSN"

// ErrorMonitor reports unhandled request errors to an external service.
type ErrorMonitor interface {
	// Init connects the monitor to the project identified by dsn.
	Init(dsn string) error
	// Middleware captures panics raised by later handlers.
	Middleware() gin.HandlerFunc
	// Flush waits for buffered events to be delivered.
	Flush(timeout time.Duration) bool
}

// SentryMonitor is the default ErrorMonitor.
type SentryMonitor struct {
	Release     string
	Environment string
	Debug       bool
}

// NewSentryMonitor returns a monitor tagging events with the release.
func NewSentryMonitor(release string) *SentryMonitor {
	return &SentryMonitor{Release: release}
}

func (m *SentryMonitor) Init(dsn string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          m.Release,
		Environment:      m.Environment,
		Debug:            m.Debug,
		AttachStacktrace: true,
	})
}

func (m *SentryMonitor) Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

func (m *SentryMonitor) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// ResolveDSN returns dsn, or the SENTRY_DSN environment variable when dsn
// is empty.
func ResolveDSN(dsn string) string {
	if dsn = strings.TrimSpace(dsn); dsn != "" {
		return dsn
	}
	return strings.TrimSpace(os.Getenv(EnvSentryDSN))
}

// AttachMonitor initializes m with the resolved DSN and attaches its
// middleware to engine. It reports whether the monitor was attached.
// A nil monitor or an empty DSN is skipped silently; an init failure is
// logged and skipped, never returned.
func AttachMonitor(engine *gin.Engine, m ErrorMonitor, dsn string) bool {
	if m == nil {
		return false
	}
	dsn = ResolveDSN(dsn)
	if dsn == "" {
		return false
	}

	if err := m.Init(dsn); err != nil {
		logger.WithComponent("monitor").Warn("error monitor disabled", logger.ErrorFields("init", err))
		return false
	}
	engine.Use(m.Middleware())
	return true
}
