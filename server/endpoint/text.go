package endpoint

import (
	"github.com/gin-gonic/gin"
)

// TextHandler produces a plain-text body and a status code.
type TextHandler func(c *gin.Context) (body string, status int)

// Text adapts h to a gin handler answering text/plain.
func Text(h TextHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, code := h(c)
		c.Data(code, "text/plain; charset=utf-8", []byte(body))
	}
}
