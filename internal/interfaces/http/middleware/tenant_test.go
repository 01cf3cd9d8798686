package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantTestRouter(cfg TenantMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TenantMiddlewareWithConfig(cfg))
	r.GET("/api/v1/finance/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant": GetTenantID(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTenantMiddleware(t *testing.T) {
	t.Run("accepts valid tenant header", func(t *testing.T) {
		r := newTenantTestRouter(DefaultTenantConfig())
		tenantID := uuid.NewString()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil)
		req.Header.Set(TenantHeaderKey, tenantID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID)
	})

	t.Run("rejects missing tenant when required", func(t *testing.T) {
		r := newTenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed tenant ID", func(t *testing.T) {
		r := newTenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips health endpoints", func(t *testing.T) {
		r := newTenantTestRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional tenant passes through when absent", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.Required = false
		r := newTenantTestRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetTenantUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	tenantID := uuid.New()
	c.Set(TenantIDKey, tenantID.String())

	got, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
}
