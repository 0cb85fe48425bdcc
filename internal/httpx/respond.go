// Package httpx holds the small pieces shared by every service's gin
// surface.
package httpx

import (
	"github.com/gin-gonic/gin"

	"fulfillment/internal/apperr"
)

// Error writes the error with the status mapped from the taxonomy.
// Internal detail (compensation activity, SQL errors) stays in the logs;
// the caller gets one consolidated message.
func Error(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
