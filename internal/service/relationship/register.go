package relationship

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/auth"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

// Registrar ties the relationship state machine into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the relationship service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type blockRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

type rematchRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

// Register attaches the state-machine endpoints to the authenticated route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	g.DELETE("/matches/:id", func(c *gin.Context) {
		if err := svc.Unmatch(c.Request.Context(), auth.CallerID(c), c.Param("id")); err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unmatched": true})
	})

	g.POST("/blocks", func(c *gin.Context) {
		var req blockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		err := svc.Block(c.Request.Context(), auth.CallerID(c), BlockInput{
			TargetID: req.UserID,
			MatchID:  req.MatchID,
			Reason:   req.Reason,
			Details:  req.Details,
		})
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"blocked": true})
	})

	g.POST("/rematches/request", rematchHandler(svc.RequestRematch))
	g.POST("/rematches/accept", rematchHandler(svc.AcceptRematch))
	g.POST("/rematches/reject", rematchHandler(svc.RejectRematch))
}

// rematchHandler adapts the three handshake transitions, which share a
// payload and response shape.
func rematchHandler(fn func(ctx context.Context, callerID, otherID string) (*RematchResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rematchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "other_user_id is required"})
			return
		}
		result, err := fn(c.Request.Context(), auth.CallerID(c), req.OtherUserID)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
