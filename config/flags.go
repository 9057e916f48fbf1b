package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by the flag set, the environment and the YAML file.
const (
	FlagHost     = "host"
	FlagPort     = "port"
	FlagDebug    = "debug"
	FlagLogLevel = "log-level"
	FlagTwisted  = "twisted"
	FlagThreads  = "threads"
	FlagConfig   = "config"
)

// NewFlagSet returns the documented flag set of a gourde service.
// Services may add their own flags to it before calling Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	AddFlags(fs)
	return fs
}

// AddFlags registers the gourde flags on an existing flag set.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(FlagHost, "", "Host listen address")
	fs.IntP(FlagPort, "p", DefaultPort, "Listen port")
	fs.BoolP(FlagDebug, "d", false, "Enable debug mode")
	fs.StringP(FlagLogLevel, "l", DefaultLogLevel, "Log Level, empty string to disable.")
	fs.Bool(FlagTwisted, false, "Use the reactor server to serve requests.")
	fs.Int(FlagThreads, 0, "Number of threads to use.")
	fs.String(FlagConfig, "", "Optional YAML configuration file")
}
