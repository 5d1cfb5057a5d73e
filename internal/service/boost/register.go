package boost

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/auth"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

// Registrar ties the boost allocator into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the boost service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type activateRequest struct {
	Minutes int `json:"minutes" binding:"required,min=5,max=180"`
}

// Register attaches the boost endpoints to the authenticated route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	g.POST("/boosts", func(c *gin.Context) {
		var req activateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minutes must be between 5 and 180"})
			return
		}
		result, err := svc.Activate(c.Request.Context(), auth.CallerID(c), req.Minutes)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}
