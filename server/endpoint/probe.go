package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/logger"
)

// Probe bodies.
const (
	BodyOK   = "OK"
	BodyFail = "FAIL"
)

// Probe names used in log lines.
const (
	Liveness  = "liveness"
	Readiness = "readiness"
)

// Check reports whether a probe passes. An error counts as a failure and
// its text becomes the body.
type Check func(ctx context.Context) (bool, error)

// ProbeConfig tunes a probe handler.
type ProbeConfig struct {
	// Name identifies the probe in log lines.
	Name string
	// Detail sends the error text as the body. Otherwise errors answer "FAIL".
	Detail bool
	// Logger is resolved on every failure so that a logger installed after
	// the route was registered is used. Defaults to the global logger.
	Logger func() *logger.Logger
}

// Probe turns a check into a handler:
//
//	true  -> "OK", 200
//	false -> "FAIL", 500
//	error -> error text, 500, logged once at error level
//
// It always answers. A panicking check counts as an error, and a failure
// to render or log the error falls back to "FAIL".
func Probe(check Check, cfg ProbeConfig) TextHandler {
	return func(c *gin.Context) (string, int) {
		ok, err := evaluate(c.Request.Context(), check)
		switch {
		case err != nil:
			cfg.report(err)
			if !cfg.Detail {
				return BodyFail, http.StatusInternalServerError
			}
			return describe(err), http.StatusInternalServerError
		case ok:
			return BodyOK, http.StatusOK
		default:
			return BodyFail, http.StatusInternalServerError
		}
	}
}

func evaluate(ctx context.Context, check Check) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return check(ctx)
}

// describe renders err for the response body.
func describe(err error) (text string) {
	defer func() {
		if recover() != nil {
			text = BodyFail
		}
	}()
	if text = err.Error(); text == "" {
		text = BodyFail
	}
	return text
}

func (cfg ProbeConfig) report(err error) {
	defer func() { _ = recover() }()
	log := logger.GetGlobalLogger()
	if cfg.Logger != nil {
		log = cfg.Logger()
	}
	log.Error("Probe failed", logger.Fields(
		logger.FieldOperation, cfg.Name,
		logger.FieldError, describe(errors.ProbeFailed(cfg.Name, err)),
	))
}
