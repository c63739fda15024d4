package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/utils"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	c.Request.RemoteAddr = "203.0.113.7:51234"
	return c
}

func TestBuildRateKeyUnauthenticatedUsesIP(t *testing.T) {
	c := testContext(t)

	key := buildRateKey("rl", "secret", c)
	assert.Equal(t, "rl:ip:203.0.113.7", key)
}

func TestBuildRateKeyContextUserWins(t *testing.T) {
	c := testContext(t)
	c.Set("userID", "user-1")

	key := buildRateKey("rl", "secret", c)
	assert.Equal(t, "rl:user:user-1", key)
}

func TestBuildRateKeyBearerToken(t *testing.T) {
	// Ahead of AuthMiddleware there is no context user yet; a valid bearer
	// token must still land in the per-user bucket.
	cfg := &config.Config{JWTSecret: "secret", JWTRefreshSecret: "refresh", JWTExpirationMinutes: 15, JWTRefreshExpirationHours: 24}
	user := &models.User{Role: models.RoleUser}
	user.ID = "user-2"
	access, _, err := utils.GenerateTokens(user, cfg)
	require.NoError(t, err)

	c := testContext(t)
	c.Request.Header.Set("Authorization", "Bearer "+access)

	key := buildRateKey("rl", cfg.JWTSecret, c)
	assert.Equal(t, "rl:user:user-2", key)
}

func TestBuildRateKeyInvalidBearerFallsBackToIP(t *testing.T) {
	c := testContext(t)
	c.Request.Header.Set("Authorization", "Bearer not-a-token")

	key := buildRateKey("rl", "secret", c)
	assert.Equal(t, "rl:ip:203.0.113.7", key)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Enabled: true}}
	// nil Redis client means the limiter must fail open.
	router.Use(RateLimit(cfg, nil))
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
