package config

import (
	"net"
	"strconv"
)

const (
	// DefaultPort is the listen port used when --port is not given.
	DefaultPort = 9050
	// DefaultLogLevel is the logging threshold used when --log-level is not given.
	DefaultLogLevel = "INFO"
)

// ServiceConfig holds the resolved runtime configuration of a service.
// It is treated as immutable once the service starts running.
type ServiceConfig struct {
	Name     string          `yaml:"name" mapstructure:"name"`
	Host     string          `yaml:"host" mapstructure:"host" validate:"omitempty,hostname|ip"`
	Port     int             `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	Debug    bool            `yaml:"debug" mapstructure:"debug"`
	LogLevel string          `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,loglevel"`
	Mode     ConcurrencyMode `yaml:"mode" mapstructure:"mode" validate:"concurrencymode"`
	// Threads is 0 when absent. It bounds concurrent requests for
	// ThreadPooled and sizes the worker pool for ReactorBased.
	Threads int `yaml:"threads" mapstructure:"threads" validate:"gte=0"`

	SentryDSN    string `yaml:"sentry_dsn" mapstructure:"sentry_dsn" validate:"omitempty,url"`
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint" validate:"omitempty,hostname_port"`
	ConfigFile   string `yaml:"-" mapstructure:"config"`
}

// Default returns the configuration produced by an empty command line.
func Default() ServiceConfig {
	return ServiceConfig{
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
		Mode:     SingleThreaded,
	}
}

// Threaded reports whether requests may be serviced concurrently.
func (c *ServiceConfig) Threaded() bool {
	return c.Threads > 0
}

// Address returns the host:port listen address.
func (c *ServiceConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
