package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/gourde/config"
	"github.com/kbukum/gourde/server"
)

// Summary collects what a service is about to serve and prints it once
// at startup.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	address         string
	strategy        server.Strategy
	threads         int
	debug           bool
	logLevel        string
	routes          []server.RouteInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetConfig records the resolved configuration and strategy.
func (s *Summary) SetConfig(cfg config.ServiceConfig, strategy server.Strategy) {
	s.address = cfg.Address()
	s.strategy = strategy
	s.threads = cfg.Threads
	s.debug = cfg.Debug
	s.logLevel = cfg.LogLevel
}

// SetRoutes records the route table.
func (s *Summary) SetRoutes(routes []server.RouteInfo) {
	s.routes = routes
}

// Display writes the summary to w.
func (s *Summary) Display(w io.Writer) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s %s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	fmt.Fprintf(w, "📊 Server\n")
	fmt.Fprintf(w, "   ├── Address: %s\n", s.address)
	strategy := s.strategy.String()
	if s.threads > 0 {
		strategy = fmt.Sprintf("%s (%d threads)", strategy, s.threads)
	}
	fmt.Fprintf(w, "   ├── Strategy: %s\n", strategy)
	level := s.logLevel
	if level == "" {
		level = "disabled"
	}
	fmt.Fprintf(w, "   ├── Log level: %s\n", level)
	fmt.Fprintf(w, "   └── Debug: %t\n", s.debug)

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			prefix := "├──"
			if i == len(s.routes)-1 {
				prefix = "└──"
			}
			handler := r.Handler
			if r.System {
				handler = handler + " ⚙️"
			}
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", prefix, r.Method, r.Path, handler)
		}
	}

	fmt.Fprintf(w, "\n")
}
