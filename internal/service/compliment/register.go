package compliment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/auth"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

// Registrar ties the compliment service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the compliment service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type sendRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"required,max=512"`
}

type resolveRequest struct {
	SenderID string `json:"sender_id" binding:"required"`
}

// Register attaches the compliment endpoints to the authenticated route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	g.POST("/compliments", func(c *gin.Context) {
		var req sendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id and message are required"})
			return
		}
		if err := svc.Send(c.Request.Context(), auth.CallerID(c), req.RecipientID, req.Message); err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true})
	})

	g.POST("/compliments/accept", func(c *gin.Context) {
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sender_id is required"})
			return
		}
		result, err := svc.Accept(c.Request.Context(), auth.CallerID(c), req.SenderID)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	g.POST("/compliments/decline", func(c *gin.Context) {
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sender_id is required"})
			return
		}
		if err := svc.Decline(c.Request.Context(), auth.CallerID(c), req.SenderID); err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"declined": true})
	})
}
