package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/pages", ok)
	r.GET("/health", ok)
	return r
}

func get(r *gin.Engine, path, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitKeysPerClientIP(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "2")
	r := limitedRouter()

	assert.Equal(t, http.StatusOK, get(r, "/pages", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, get(r, "/pages", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/pages", "10.0.0.1:1000"))

	// A different client IP gets its own bucket
	assert.Equal(t, http.StatusOK, get(r, "/pages", "10.0.0.2:1000"))
}

func TestRateLimitExemptsHealth(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "1")
	r := limitedRouter()

	assert.Equal(t, http.StatusOK, get(r, "/pages", "10.0.0.3:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/pages", "10.0.0.3:1000"))
	assert.Equal(t, http.StatusOK, get(r, "/health", "10.0.0.3:1000"))
}

func TestRateLimitDisabledByEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "1")
	r := limitedRouter()

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/pages", "10.0.0.4:1000"))
	}
}
