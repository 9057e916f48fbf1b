package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/kbukum/gourde/errors"
)

// mockFileSystem is a mock implementation of FileSystem for testing.
type mockFileSystem struct {
	files  map[string]bool
	env    map[string]map[string]string
	loaded []string
}

func (m *mockFileSystem) Exists(path string) bool {
	return m.files[path]
}

func (m *mockFileSystem) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	for k, v := range m.env[path] {
		if _, set := os.LookupEnv(k); !set {
			os.Setenv(k, v)
		}
	}
	return nil
}

func emptyFS() *mockFileSystem {
	return &mockFileSystem{files: map[string]bool{}}
}

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOURDE_HOST", "GOURDE_PORT", "GOURDE_DEBUG", "GOURDE_LOG_LEVEL",
		"GOURDE_TWISTED", "GOURDE_THREADS", "GOURDE_CONFIG",
		"GOURDE_SENTRY_DSN", "GOURDE_OTLP_ENDPOINT", "GOURDE_MODE",
		EnvSentryDSN, EnvOTLPEndpoint,
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("svc", nil, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "svc" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Host != "" || cfg.Port != DefaultPort {
		t.Errorf("address = %q:%d, want :%d", cfg.Host, cfg.Port, DefaultPort)
	}
	if cfg.Debug {
		t.Error("debug should default to false")
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
	if cfg.Mode != SingleThreaded || cfg.Threads != 0 || cfg.Threaded() {
		t.Errorf("unexpected concurrency: mode=%v threads=%d", cfg.Mode, cfg.Threads)
	}
	if cfg.Address() != ":9050" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadFlags(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("svc", []string{
		"--host", "127.0.0.1", "-p", "8081", "-d", "-l", "debug", "--threads", "4",
	}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 8081 || !cfg.Debug || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Mode != ThreadPooled || cfg.Threads != 4 || !cfg.Threaded() {
		t.Errorf("expected pooled mode with 4 threads, got %v/%d", cfg.Mode, cfg.Threads)
	}
	if cfg.Address() != "127.0.0.1:8081" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadTwistedWins(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("svc", []string{"--twisted", "--threads", "8"}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ReactorBased || cfg.Threads != 8 {
		t.Errorf("expected reactor with 8 workers, got %v/%d", cfg.Mode, cfg.Threads)
	}
}

func TestLoadEmptyLogLevel(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("svc", []string{"--log-level", ""}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty", cfg.LogLevel)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOURDE_PORT", "7000")
	t.Setenv("GOURDE_LOG_LEVEL", "WARNING")
	t.Setenv(EnvSentryDSN, "https://key@sentry.example.com/1")
	t.Setenv(EnvOTLPEndpoint, "http://collector:4318/")

	cfg, err := Load("svc", nil, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7000 || cfg.LogLevel != "WARNING" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.SentryDSN != "https://key@sentry.example.com/1" {
		t.Errorf("SentryDSN = %q", cfg.SentryDSN)
	}
	if cfg.OTLPEndpoint != "collector:4318" {
		t.Errorf("OTLPEndpoint = %q", cfg.OTLPEndpoint)
	}
}

func TestLoadFlagBeatsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOURDE_PORT", "7000")
	cfg, err := Load("svc", []string{"--port", "7001"}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7001 {
		t.Errorf("Port = %d, want 7001", cfg.Port)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	fs := &mockFileSystem{
		files: map[string]bool{"custom.env": true},
		env:   map[string]map[string]string{"custom.env": {"GOURDE_THREADS": "3"}},
	}
	t.Cleanup(func() { os.Unsetenv("GOURDE_THREADS") })

	cfg, err := Load("svc", nil, WithFileSystem(fs), WithEnvFile("custom.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "custom.env" {
		t.Errorf("expected custom.env to be loaded, got %v", fs.loaded)
	}
	if cfg.Threads != 3 || cfg.Mode != ThreadPooled {
		t.Errorf("expected 3 pooled threads, got %v/%d", cfg.Mode, cfg.Threads)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gourde.yaml")
	content := "host: 0.0.0.0\nport: 9100\nthreads: 2\nlog_level: DEBUG\nsentry_dsn: https://k@example.com/1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("svc", []string{"--config", path}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != 9100 || cfg.Threads != 2 {
		t.Errorf("file not applied: %+v", cfg)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG from log_level", cfg.LogLevel)
	}
	if cfg.SentryDSN != "https://k@example.com/1" {
		t.Errorf("SentryDSN = %q", cfg.SentryDSN)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoadConfigFileLosesToFlags(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gourde.yaml")
	if err := os.WriteFile(path, []byte("log_level: DEBUG\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("svc", []string{"--config", path, "-l", "ERROR"}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("LogLevel = %q, want the flag value", cfg.LogLevel)
	}
}

func TestLoadModeKey(t *testing.T) {
	tests := []struct {
		name string
		file string
		args []string
		want ConcurrencyMode
	}{
		{"file names reactor", "mode: reactor\n", nil, ReactorBased},
		{"file names pooled", "mode: pooled\nthreads: 3\n", nil, ThreadPooled},
		{"threads flag overrides", "mode: reactor\n", []string{"--threads", "2"}, ThreadPooled},
		{"twisted flag overrides", "mode: single\n", []string{"--twisted"}, ReactorBased},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "gourde.yaml")
			if err := os.WriteFile(path, []byte(tc.file), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load("svc", append([]string{"--config", path}, tc.args...), WithFileSystem(emptyFS()))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Errorf("Mode = %v, want %v", cfg.Mode, tc.want)
			}
		})
	}
}

func TestLoadModeFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOURDE_MODE", "reactor")
	cfg, err := Load("svc", nil, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ReactorBased {
		t.Errorf("Mode = %v, want reactor", cfg.Mode)
	}
}

func TestLoadUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOURDE_MODE", "fork")
	_, err := Load("svc", nil, WithFileSystem(emptyFS()))
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConfigInvalid {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}
	if appErr.Details["field"] != KeyMode {
		t.Errorf("field = %v, want %q", appErr.Details["field"], KeyMode)
	}
}

func TestLoadEphemeralPort(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("svc", []string{"--port", "0"}, WithFileSystem(emptyFS()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 0 {
		t.Errorf("Port = %d, want the explicit 0", cfg.Port)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	_, err := Load("svc", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, WithFileSystem(emptyFS()))
	if !errors.HasCode(err, errors.ErrCodeConfigInvalid) {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non numeric port", []string{"--port", "abc"}},
		{"port out of range", []string{"--port", "70000"}},
		{"negative threads", []string{"--threads", "-1"}},
		{"unknown level", []string{"--log-level", "LOUD"}},
		{"unknown flag", []string{"--nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load("svc", tc.args, WithFileSystem(emptyFS()))
			if !errors.HasCode(err, errors.ErrCodeConfigInvalid) {
				t.Fatalf("expected CONFIG_INVALID, got %v", err)
			}
		})
	}
}

func TestLoadHelp(t *testing.T) {
	clearEnv(t)
	fs := NewFlagSet("svc")
	fs.SetOutput(&discard{})
	_, err := Load("svc", []string{"--help"}, WithFileSystem(emptyFS()), WithFlagSet(fs))
	if !stderrors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected pflag.ErrHelp, got %v", err)
	}
}

func TestLoadWithCallerFlagSet(t *testing.T) {
	clearEnv(t)
	fs := pflag.NewFlagSet("svc", pflag.ContinueOnError)
	extra := fs.String("region", "eu", "deployment region")

	cfg, err := Load("svc", []string{"--region", "us", "-p", "9999"}, WithFileSystem(emptyFS()), WithFlagSet(fs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *extra != "us" || cfg.Port != 9999 {
		t.Errorf("region=%q port=%d", *extra, cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ServiceConfig)
		wantField string
	}{
		{"default", func(*ServiceConfig) {}, ""},
		{"hostname", func(c *ServiceConfig) { c.Host = "localhost" }, ""},
		{"bad port", func(c *ServiceConfig) { c.Port = -1 }, "port"},
		{"bad mode", func(c *ServiceConfig) { c.Mode = ConcurrencyMode(9) }, "mode"},
		{"bad level", func(c *ServiceConfig) { c.LogLevel = "chatty" }, "log_level"},
		{"bad dsn", func(c *ServiceConfig) { c.SentryDSN = "not a url" }, "sentry_dsn"},
		{"bad otlp", func(c *ServiceConfig) { c.OTLPEndpoint = "collector" }, "otlp_endpoint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeConfigInvalid {
				t.Fatalf("expected CONFIG_INVALID, got %v", err)
			}
			if appErr.Details["field"] != tc.wantField {
				t.Errorf("field = %v, want %s", appErr.Details["field"], tc.wantField)
			}
		})
	}
}

func TestModeFromFlags(t *testing.T) {
	tests := []struct {
		twisted bool
		threads int
		want    ConcurrencyMode
	}{
		{false, 0, SingleThreaded},
		{false, 1, ThreadPooled},
		{false, 16, ThreadPooled},
		{true, 0, ReactorBased},
		{true, 4, ReactorBased},
	}
	for _, tc := range tests {
		if got := ModeFromFlags(tc.twisted, tc.threads); got != tc.want {
			t.Errorf("ModeFromFlags(%v, %d) = %v, want %v", tc.twisted, tc.threads, got, tc.want)
		}
	}
}

func TestParseConcurrencyMode(t *testing.T) {
	for _, m := range []ConcurrencyMode{SingleThreaded, ThreadPooled, ReactorBased} {
		got, err := ParseConcurrencyMode(m.String())
		if err != nil || got != m {
			t.Errorf("round trip of %v gave %v, %v", m, got, err)
		}
	}
	if _, err := ParseConcurrencyMode("fork"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
