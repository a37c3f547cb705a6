package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Bind decodes the JSON body into out. A malformed body writes a 400 and
// returns an error for the handler to short-circuit; semantic validation is
// the pipeline's job, not the transport's.
func Bind(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_request_body",
			"details": err.Error(),
		})
		return err
	}
	return nil
}
