// internal/errors/respond.go
package errors

import (
	"github.com/gin-gonic/gin"
)

// Respond writes the mapped status and {"error": ...} body for err.
func Respond(c *gin.Context, err error) {
	c.JSON(HTTPStatus(err), gin.H{"error": Message(err)})
}
