package config

import (
	"fmt"
	"strings"
)

// ConcurrencyMode selects how the server executes requests.
type ConcurrencyMode int

const (
	// SingleThreaded services one request at a time.
	SingleThreaded ConcurrencyMode = iota
	// ThreadPooled services up to Threads requests concurrently.
	ThreadPooled
	// ReactorBased multiplexes connections on an event-loop style server
	// backed by a sized worker pool.
	ReactorBased
)

var modeNames = map[ConcurrencyMode]string{
	SingleThreaded: "single",
	ThreadPooled:   "pooled",
	ReactorBased:   "reactor",
}

func (m ConcurrencyMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ConcurrencyMode(%d)", int(m))
}

// Valid reports whether m is one of the declared modes.
func (m ConcurrencyMode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseConcurrencyMode parses the names produced by String.
func ParseConcurrencyMode(s string) (ConcurrencyMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return SingleThreaded, fmt.Errorf("unknown concurrency mode %q", s)
}

// ModeFromFlags derives the mode from the --twisted and --threads flags.
// --twisted always wins; a positive thread count selects the pooled mode.
func ModeFromFlags(twisted bool, threads int) ConcurrencyMode {
	switch {
	case twisted:
		return ReactorBased
	case threads > 0:
		return ThreadPooled
	default:
		return SingleThreaded
	}
}
