package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/gourde/errors"
)

// EnvPrefix prefixes the environment variable of every flag (GOURDE_LOG_LEVEL).
const EnvPrefix = "GOURDE"

// KeyMode names the concurrency mode in the YAML file and the environment.
const KeyMode = "mode"

// Environment variables read outside the GOURDE_ prefix.
const (
	EnvSentryDSN    = "SENTRY_DSN"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	EnvFile    string
	FlagSet    *pflag.FlagSet
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithEnvFile sets an explicit .env file path. The default is ./.env.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithFlagSet parses args with a caller-owned flag set. The gourde flags
// are added to it when missing.
func WithFlagSet(fs *pflag.FlagSet) LoaderOption {
	return func(lc *LoaderConfig) { lc.FlagSet = fs }
}

// Load parses args and resolves a ServiceConfig for the named service.
//
// Precedence, highest first: flags set on the command line, GOURDE_*
// environment variables (after loading the .env file), the YAML file named
// by --config, flag defaults. SENTRY_DSN and OTEL_EXPORTER_OTLP_ENDPOINT are
// read as well. The YAML file and GOURDE_MODE may name the mode directly
// ("single", "pooled", "reactor"); --twisted or --threads on the command
// line override it. Malformed input yields an errors.ErrCodeConfigInvalid error.
func Load(serviceName string, args []string, opts ...LoaderOption) (*ServiceConfig, error) {
	lc := LoaderConfig{EnvFile: ".env"}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	fs := lc.FlagSet
	if fs == nil {
		fs = NewFlagSet(serviceName)
	} else if fs.Lookup(FlagPort) == nil {
		AddFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, errors.ConfigInvalid("", err.Error()).WithCause(err)
	}

	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			return nil, errors.ConfigInvalid("", "failed to load "+lc.EnvFile).WithCause(err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.ConfigInvalid("", err.Error()).WithCause(err)
	}
	_ = v.BindEnv("sentry_dsn", EnvPrefix+"_SENTRY_DSN", EnvSentryDSN)
	_ = v.BindEnv("otlp_endpoint", EnvPrefix+"_OTLP_ENDPOINT", EnvOTLPEndpoint)

	if file := v.GetString(FlagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.ConfigInvalid(FlagConfig, "failed to read "+file).WithCause(err)
		}
	}
	// The file uses the struct keys (log_level); flags are bound as log-level.
	// Registering after ReadInConfig moves the file value onto the flag key.
	fs.VisitAll(func(f *pflag.Flag) {
		if key := strings.ReplaceAll(f.Name, "-", "_"); key != f.Name {
			v.RegisterAlias(key, f.Name)
		}
	})

	twisted := v.GetBool(FlagTwisted)
	threads := v.GetInt(FlagThreads)
	mode := ModeFromFlags(twisted, threads)
	if name := v.GetString(KeyMode); name != "" && !fs.Changed(FlagTwisted) && !fs.Changed(FlagThreads) {
		parsed, err := ParseConcurrencyMode(name)
		if err != nil {
			return nil, errors.ConfigInvalid(KeyMode, err.Error()).WithCause(err)
		}
		mode = parsed
	}

	cfg := &ServiceConfig{
		Name:         serviceName,
		Host:         v.GetString(FlagHost),
		Port:         v.GetInt(FlagPort),
		Debug:        v.GetBool(FlagDebug),
		LogLevel:     v.GetString(FlagLogLevel),
		Mode:         mode,
		Threads:      threads,
		SentryDSN:    v.GetString("sentry_dsn"),
		OTLPEndpoint: stripScheme(v.GetString("otlp_endpoint")),
		ConfigFile:   v.GetString(FlagConfig),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stripScheme turns "http://collector:4318" into "collector:4318".
func stripScheme(endpoint string) string {
	if idx := strings.Index(endpoint, "://"); idx >= 0 {
		endpoint = endpoint[idx+3:]
	}
	return strings.TrimRight(endpoint, "/")
}
