// Command gourde-demo is a minimal service built on gourde.
//
//	gourde-demo --port 9050 --threads 4
//	gourde-demo --twisted --threads 8
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/kbukum/gourde/bootstrap"
	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/logger"
)

const name = "gourde-demo"

// warmupProbes reports ready once the warmup has finished. Until then
// readiness answers "FAIL" without logging an error.
type warmupProbes struct {
	ready atomic.Bool
}

func (p *warmupProbes) IsHealthy(context.Context) (bool, error) { return true, nil }

func (p *warmupProbes) IsReady(context.Context) (bool, error) {
	return p.ready.Load(), nil
}

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitStartup = 2
)

func main() {
	err := run()
	if code := exitCode(err); code != exitOK {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}

// exitCode maps run's result to the process exit code. Startup errors
// (bad configuration, route conflicts, bind failures) exit with 2.
func exitCode(err error) int {
	if err == nil || stderrors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if appErr, ok := errors.AsAppError(err); ok && appErr.Fatal() {
		logger.Error("Startup failed", logger.Fields(
			"code", appErr.Code,
			logger.FieldError, err.Error(),
		))
		return exitStartup
	}
	logger.Error("Service failed", logger.ErrorFields("run", err))
	return exitRuntime
}

func run() error {
	probes := &warmupProbes{}
	opts := []bootstrap.Option{bootstrap.WithProbes(probes)}
	if _, err := os.Stat("static/favicon.ico"); err == nil {
		opts = append(opts, bootstrap.WithStaticDir("static"))
	}

	app, err := bootstrap.New(name, opts...)
	if err != nil {
		return err
	}
	if err := app.Setup(nil); err != nil {
		return err
	}

	if err := app.AddRoute("/hello", "hello", func(c *gin.Context) (string, int) {
		who := c.DefaultQuery("name", "world")
		return "hello " + who, http.StatusOK
	}); err != nil {
		return err
	}

	if err := app.AddRoute("/slow", "slow", func(c *gin.Context) (string, int) {
		err := app.Reactor().Call(c.Request.Context(), func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return err.Error(), http.StatusServiceUnavailable
		}
		return "done", http.StatusOK
	}); err != nil {
		return err
	}

	app.OnStart(func(context.Context) error {
		go func() {
			time.Sleep(time.Second)
			probes.ready.Store(true)
			logger.Info("Warmup complete")
		}()
		return nil
	})

	return app.Run(context.Background())
}
