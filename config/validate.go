package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/logger"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report mapstructure names so errors match flag/env/yaml keys.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			_, err := logger.ParseLevel(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("concurrencymode", func(fl validator.FieldLevel) bool {
			return ConcurrencyMode(fl.Field().Int()).Valid()
		})
	})
	return validate
}

// Validate checks the configuration for invalid values. The first failing
// field is reported as an errors.ErrCodeConfigInvalid error.
func (c *ServiceConfig) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.ConfigInvalid("", err.Error()).WithCause(err)
	}

	e := validationErrors[0]
	return errors.ConfigInvalid(e.Field(), formatValidationError(e)).WithCause(err)
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got: %v)", e.Field(), e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got: %v)", e.Field(), e.Param(), e.Value())
	case "loglevel":
		return fmt.Sprintf("%s must be a known log level (got: %v)", e.Field(), e.Value())
	case "concurrencymode":
		return fmt.Sprintf("%s must be single, pooled or reactor (got: %v)", e.Field(), e.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", e.Field())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port (got: %v)", e.Field(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (got: %v)", e.Field(), e.Tag(), e.Value())
	}
}
