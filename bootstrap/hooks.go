package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs around serving.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after Setup, before the server binds.
// A failing hook aborts Run.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the server has shut down.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes a slice of hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
