package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apex/backoffice/internal/infrastructure/auth"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-that-is-long-enough-123456",
		TokenExpiration: expiration,
		Issuer:          "backoffice-test",
	})
}

func setupProtectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/clients", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetJWTUserID(c),
			"username": GetJWTUsername(c),
			"role":     GetJWTRole(c),
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/v1/webhooks/mercadopago", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "some-token"},
		{"empty bearer", "Bearer "},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			req.Header.Set(AuthHeaderKey, tt.header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	userID := uuid.New()
	token, err := svc.GenerateToken(userID, "admin", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "admin")
	assert.Contains(t, w.Body.String(), "ADMIN")
}

func TestJWTAuthMiddleware_CookieFallback(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)
	cfg.CookieName = "session"
	router := setupProtectedRouter(cfg)

	token, err := svc.GenerateToken(uuid.New(), "admin", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token.Value})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	token, err := svc.GenerateToken(uuid.New(), "admin", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_SkipPathPrefixes(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	// Webhook endpoints authenticate by signature, not session
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/mercadopago", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_TamperedToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	other := auth.NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-secret-key-654321",
		TokenExpiration: time.Hour,
		Issuer:          "backoffice-test",
	})
	router := setupProtectedRouter(DefaultJWTConfig(svc))

	token, err := other.GenerateToken(uuid.New(), "admin", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_OnErrorCallback(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)
	called := false
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatus(http.StatusTeapot)
	}
	router := setupProtectedRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	router.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(DefaultJWTConfig(svc)))
	router.GET("/api/v1/users", RequireRole("ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("admin allowed", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), "admin", "ADMIN")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), "clerk", "USER")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token.Value)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetJWTClaims_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
}
