package views

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/auth"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Registrar ties the read models into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the views service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type recordViewRequest struct {
	ViewedID string `json:"viewed_id" binding:"required"`
}

// Register attaches the read-model endpoints to the authenticated route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	g.GET("/likes/received", func(c *gin.Context) {
		page, err := svc.LikesReceived(c.Request.Context(), auth.CallerID(c), tokenParam(c), limitParam(c))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	g.GET("/likes/sent", func(c *gin.Context) {
		page, err := svc.LikesSent(c.Request.Context(), auth.CallerID(c), tokenParam(c), limitParam(c))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	g.GET("/likes/received/count", func(c *gin.Context) {
		count, err := svc.CountLikesReceived(c.Request.Context(), auth.CallerID(c))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})

	g.GET("/viewers", func(c *gin.Context) {
		entries, err := svc.Viewers(c.Request.Context(), auth.CallerID(c))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"viewers": entries})
	})

	g.POST("/views", func(c *gin.Context) {
		var req recordViewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "viewed_id is required"})
			return
		}
		if err := svc.RecordView(c.Request.Context(), auth.CallerID(c), req.ViewedID); err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recorded": true})
	})

	g.GET("/chats", func(c *gin.Context) {
		entries, err := svc.ChatList(c.Request.Context(), auth.CallerID(c))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chats": entries})
	})
}

func tokenParam(c *gin.Context) *string {
	if token := c.Query("pagination_token"); token != "" {
		return &token
	}
	return nil
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
