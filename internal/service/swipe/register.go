package swipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/auth"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

// Registrar ties the swipe service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the swipe service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type putSwipeRequest struct {
	SwipedID string `json:"swiped_id" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=like pass superlike"`
}

// Register attaches the swipe endpoints to the authenticated route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	g.PUT("/swipes", func(c *gin.Context) {
		var req putSwipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "swiped_id and a valid action are required"})
			return
		}

		result, err := svc.Put(c.Request.Context(), auth.CallerID(c), req.SwipedID, req.Action)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}
