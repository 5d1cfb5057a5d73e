package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/auth"
	"github.com/kindlingapp/kindling/internal/config"
	"github.com/kindlingapp/kindling/internal/logger"
)

// NewRouter builds the gin engine: authenticated services register under
// /v1, public ones (webhooks) at the root group.
func NewRouter(cfg *config.Config, protected []Registrar, public []Registrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := router.Group("/v1")
	for _, r := range public {
		r.Register(root)
	}

	v1 := router.Group("/v1", auth.RequireAuth(cfg.Auth.JWTSecret))
	for _, r := range protected {
		r.Register(v1)
	}

	return router
}

// StartHTTPServer boots the HTTP server on the configured address.
func StartHTTPServer(cfg *config.Config, router *gin.Engine) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// requestLogger emits one structured log line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
