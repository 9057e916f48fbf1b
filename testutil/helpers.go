package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/gourde/bootstrap"
	"github.com/kbukum/gourde/config"
	"github.com/kbukum/gourde/logger"
	"github.com/kbukum/gourde/observability"
)

// NewApp creates an App suitable for tests. Options passed by the caller
// are applied after the test defaults and may override them.
func NewApp(t testing.TB, name string, opts ...bootstrap.Option) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	defaults := []bootstrap.Option{
		bootstrap.WithRegistry(observability.NewRegistry()),
		bootstrap.WithMonitor(nil),
		bootstrap.WithArgs([]string{}),
		bootstrap.WithSummaryWriter(io.Discard),
	}
	app, err := bootstrap.New(name, append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("bootstrap.New(%q): %v", name, err)
	}
	return app
}

// Config returns the default configuration with logging setup disabled,
// so tests keep control of the global logger.
func Config() *config.ServiceConfig {
	cfg := config.Default()
	cfg.LogLevel = ""
	return &cfg
}

// Setup configures app with Config.
func Setup(t testing.TB, app *bootstrap.App) {
	t.Helper()
	if err := app.Setup(Config()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
}

// Get issues a GET request against the app's engine and returns the status
// code and body.
func Get(app *bootstrap.App, path string) (int, string) {
	rr := httptest.NewRecorder()
	app.Engine().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rr.Code, rr.Body.String()
}

// LogBuffer is a concurrency-safe buffer of captured log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CountLevel returns how many lines were logged at level (e.g. "ERROR").
func (b *LogBuffer) CountLevel(level string) int {
	n := 0
	for _, line := range bytes.Split([]byte(b.String()), []byte("\n")) {
		if bytes.Contains(line, []byte("] "+level+" ")) {
			n++
		}
	}
	return n
}

// CaptureLogs installs a global logger writing to the returned buffer at
// debug level. The previous logger and threshold are restored on cleanup.
func CaptureLogs(t testing.TB) *LogBuffer {
	t.Helper()
	orig := logger.GetGlobalLogger()
	origLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logger.SetGlobalLogger(orig)
		zerolog.SetGlobalLevel(origLevel)
	})

	buf := &LogBuffer{}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger.SetGlobalLogger(logger.NewWithWriter(buf, zerolog.DebugLevel, "test"))
	return buf
}
