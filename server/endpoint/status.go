package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusBody is the body of the status page.
const StatusBody = "status"

// Status answers the status page.
func Status(*gin.Context) (string, int) {
	return StatusBody, http.StatusOK
}
