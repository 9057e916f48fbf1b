// Package config resolves the runtime configuration of a gourde service.
//
// Values come from command-line flags, GOURDE_* environment variables, an
// optional .env file and an optional YAML file, in that order of precedence.
//
//	cfg, err := config.Load("billing", os.Args[1:])
//
// A ServiceConfig built by hand is used as-is: no defaults are applied to
// fields the caller set.
package config
