package billing

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling/internal/app"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
)

// Registrar ties the billing webhook into the HTTP router. It registers on
// the public group: the provider authenticates with a shared secret, not a
// user token.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the billing webhook
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type webhookRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	IsPremium  bool   `json:"is_premium"`
	BoostGrant int    `json:"boost_grant" binding:"min=0"`
}

// Register attaches the webhook endpoint to the public route group.
func (r *Registrar) Register(g *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	secret := r.appCtx.Config.Billing.WebhookSecret

	g.POST("/webhooks/billing", func(c *gin.Context) {
		got := c.GetHeader("X-Billing-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}

		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		if err := svc.Apply(c.Request.Context(), req.UserID, req.IsPremium, req.BoostGrant); err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applied": true})
	})
}
