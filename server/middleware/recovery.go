package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the
// stack and answers with an errors.ErrCodeInternal body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l := log
				if l == nil {
					l = logger.GetGlobalLogger()
				}
				appErr := errors.Internal(fmt.Errorf("panic: %v", rec))
				l.Error("Panic recovered", map[string]interface{}{
					"code":   appErr.Code,
					"error":  appErr.Cause.Error(),
					"stack":  string(debug.Stack()),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})
				c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
					"code":  appErr.Code,
					"error": appErr.Message,
				})
			}
		}()
		c.Next()
	}
}
