package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/backend/internal/infrastructure/auth"
	"github.com/vendora/backend/internal/infrastructure/config"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		Issuer:                 "vendora-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func newProtectedRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(svc))
	engine.GET("/api/v1/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "role": GetJWTRole(c)})
	})
	engine.GET("/api/v1/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestJWTAuthMiddleware_RejectsMissingToken(t *testing.T) {
	engine := newProtectedRouter(newTestJWTService(t))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	engine := newProtectedRouter(newTestJWTService(t))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set(AuthHeaderKey, "Basic abc123")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_AcceptsValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	engine := newProtectedRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "user"))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user")
}

func TestJWTAuthMiddleware_SkipsConfiguredPaths(t *testing.T) {
	engine := newProtectedRouter(newTestJWTService(t))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(OptionalJWTAuthMiddleware(svc))
	engine.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	t.Run("guest passes through without claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "user"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("garbage token is ignored rather than rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(t)
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(svc))
	admin := engine.Group("/admin")
	admin.Use(RequireRole("admin"))
	admin.GET("/requests", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("admin allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin/requests", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "admin"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin/requests", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "user"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestJWTAuthMiddleware_OptionalPathPrefixes(t *testing.T) {
	svc := newTestJWTService(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:           svc,
		OptionalPathPrefixes: []string{"/api/v1/cart"},
	}))
	engine.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	engine.GET("/api/v1/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("guest passes without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "user"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("garbage token is ignored, not rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other paths stay strict", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/protected", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
