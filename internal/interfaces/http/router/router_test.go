package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	appfinance "github.com/wms/backend/internal/application/finance"
	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

type noopDashboard struct{}

func (noopDashboard) Dashboard(ctx context.Context, tenantID uuid.UUID, snapshotVersion string, opts appfinance.RunOptions) (*appfinance.ReconciliationResult, error) {
	return &appfinance.ReconciliationResult{
		Balances: map[finance.ReferenceKey]finance.BalanceView{},
		Accounts: map[uuid.UUID]finance.AccountView{},
	}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(Dependencies{
		Finance: handler.NewFinanceHandler(noopDashboard{}),
		System:  handler.NewSystemHandler(nil, "test"),
		CORS:    middleware.DefaultCORSConfig(),
		Tenant:  middleware.DefaultTenantConfig(),
	})
}

func TestRouter_HealthNeedsNoTenant(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_FinanceRoutesRequireTenant(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_FinanceRoutesWithTenant(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{
		"/api/v1/finance/balances",
		"/api/v1/finance/accounts/standings",
		"/api/v1/finance/cashflow",
		"/api/v1/finance/summary",
		"/api/v1/finance/dashboard",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(middleware.TenantHeaderKey, uuid.NewString())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
