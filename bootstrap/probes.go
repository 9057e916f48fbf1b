package bootstrap

import (
	"context"

	"github.com/kbukum/gourde/server/endpoint"
)

// Probes decide the outcome of the liveness and readiness endpoints.
// Returning an error is reported as a failed probe with the error text
// as the body.
type Probes interface {
	IsHealthy(ctx context.Context) (bool, error)
	IsReady(ctx context.Context) (bool, error)
}

// DefaultProbes is always healthy and ready.
type DefaultProbes struct{}

func (DefaultProbes) IsHealthy(context.Context) (bool, error) { return true, nil }
func (DefaultProbes) IsReady(context.Context) (bool, error)   { return true, nil }

// ProbeFuncs adapts plain functions to Probes. A nil field behaves like
// DefaultProbes.
type ProbeFuncs struct {
	Healthy func(ctx context.Context) (bool, error)
	Ready   func(ctx context.Context) (bool, error)
}

func (p ProbeFuncs) IsHealthy(ctx context.Context) (bool, error) {
	if p.Healthy == nil {
		return true, nil
	}
	return p.Healthy(ctx)
}

func (p ProbeFuncs) IsReady(ctx context.Context) (bool, error) {
	if p.Ready == nil {
		return true, nil
	}
	return p.Ready(ctx)
}

// probeHandler builds the handler of one probe route. The App's logger is
// resolved per failure so that Setup's logger is picked up.
func (a *App) probeHandler(name string, check endpoint.Check) RouteHandler {
	return endpoint.Probe(check, endpoint.ProbeConfig{
		Name:   name,
		Detail: a.opts.probeDetail,
		Logger: a.log,
	})
}
