package endpoint

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// FaviconType is the MIME type the favicon is served with.
const FaviconType = "image/vnd.microsoft.icon"

// Favicon serves favicon.ico from dir. A missing file answers 404.
func Favicon(dir string) gin.HandlerFunc {
	file := filepath.Join(dir, "favicon.ico")
	return func(c *gin.Context) {
		c.Header("Content-Type", FaviconType)
		c.File(file)
	}
}
