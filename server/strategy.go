package server

import (
	"github.com/kbukum/gourde/config"
)

// Strategy is the execution path a service runs on.
type Strategy int

const (
	// SingleThreaded serves one request at a time.
	SingleThreaded Strategy = iota
	// ThreadPooled serves up to ServiceConfig.Threads requests at a time.
	ThreadPooled
	// ReactorBased serves on an h2c server backed by a sized worker pool.
	ReactorBased
)

func (s Strategy) String() string {
	switch s {
	case SingleThreaded:
		return "single-threaded"
	case ThreadPooled:
		return "thread-pooled"
	case ReactorBased:
		return "reactor"
	default:
		return "unknown"
	}
}

// StrategyFor resolves the strategy once from the configuration.
// The reactor is chosen by mode; otherwise requests are threaded exactly
// when Threads is positive.
func StrategyFor(cfg *config.ServiceConfig) Strategy {
	if cfg.Mode == config.ReactorBased {
		return ReactorBased
	}
	if cfg.Threaded() {
		return ThreadPooled
	}
	return SingleThreaded
}

// slots returns how many requests the default server runs concurrently.
func slots(cfg *config.ServiceConfig) int64 {
	if cfg.Threaded() {
		return int64(cfg.Threads)
	}
	return 1
}
