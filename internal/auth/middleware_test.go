package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling/internal/auth"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", auth.RequireAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": auth.CallerID(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newRouter("test-secret")

	token, err := auth.SignToken("test-secret", "u1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"caller":"u1"`)
}

func TestRequireAuth_Rejections(t *testing.T) {
	r := newRouter("test-secret")

	expired, err := auth.SignToken("test-secret", "u1", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := auth.SignToken("other-secret", "u1", time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"no header":    "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not-a-jwt",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + wrongKey,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
