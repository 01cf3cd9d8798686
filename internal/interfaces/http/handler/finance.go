package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfinance "github.com/wms/backend/internal/application/finance"
	"github.com/wms/backend/internal/domain/finance"
)

// DashboardProvider produces reconciliation results for a tenant snapshot.
// Satisfied by application/finance.DashboardService.
type DashboardProvider interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID, snapshotVersion string, opts appfinance.RunOptions) (*appfinance.ReconciliationResult, error)
}

// FinanceHandler handles credit and cash-flow reconciliation endpoints
type FinanceHandler struct {
	BaseHandler
	dashboard DashboardProvider
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(dashboard DashboardProvider) *FinanceHandler {
	return &FinanceHandler{dashboard: dashboard}
}

// snapshotVersion identifies the tenant data snapshot a request reads from.
// Stale or missing versions simply bypass the result cache.
func snapshotVersion(c *gin.Context) string {
	if v := c.Query("snapshot"); v != "" {
		return v
	}
	return c.GetHeader("X-Snapshot-Version")
}

// CashFlowQuery holds the cash-flow ledger query parameters
type CashFlowQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Method   string `form:"method"`
	Category string `form:"category" binding:"omitempty,oneof=income expense"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// toLedgerFilter converts query parameters to a domain ledger filter.
// Dates accept both YYYY-MM-DD and RFC 3339.
func (q CashFlowQuery) toLedgerFilter() (finance.LedgerFilter, error) {
	filter := finance.LedgerFilter{
		Method:   q.Method,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if q.Category != "" {
		category := finance.CashFlowCategory(q.Category)
		filter.Category = &category
	}
	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GetBalances returns the per-obligation settlement view
// GET /api/v1/finance/balances
func (h *FinanceHandler) GetBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, snapshotVersion(c), appfinance.RunOptions{Now: time.Now()})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"balances":      result.Balances,
		"rejected":      result.Rejected,
		"source_errors": result.SourceErrors,
	})
}

// GetAccountStandings returns the per-counterparty credit standing view
// GET /api/v1/finance/accounts/standings
func (h *FinanceHandler) GetAccountStandings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	opts := appfinance.RunOptions{Now: time.Now()}
	if raw := c.Query("kind"); raw != "" {
		kind := finance.AccountKind(raw)
		if kind != finance.AccountKindCustomer && kind != finance.AccountKindSupplier {
			h.BadRequest(c, "kind must be customer or supplier")
			return
		}
		opts.Accounts.Kind = &kind
	}

	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, snapshotVersion(c), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"accounts":      result.Accounts,
		"source_errors": result.SourceErrors,
	})
}

// GetCashFlow returns the chronological cash-flow ledger
// GET /api/v1/finance/cashflow
func (h *FinanceHandler) GetCashFlow(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var query CashFlowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toLedgerFilter()
	if err != nil {
		h.BadRequest(c, "invalid date, use YYYY-MM-DD or RFC 3339")
		return
	}

	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, snapshotVersion(c), appfinance.RunOptions{
		Ledger: filter,
		Now:    time.Now(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.PageSize > 0 {
		h.SuccessWithMeta(c, result.Ledger, result.Ledger.Total, filter.Page, filter.PageSize)
		return
	}
	h.Success(c, result.Ledger)
}

// GetSummary returns the tenant-level financial summary
// GET /api/v1/finance/summary
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, snapshotVersion(c), appfinance.RunOptions{Now: time.Now()})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"summary":       result.Summary,
		"source_errors": result.SourceErrors,
	})
}

// GetDashboard returns the full reconciliation result in one call
// GET /api/v1/finance/dashboard
func (h *FinanceHandler) GetDashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var query CashFlowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toLedgerFilter()
	if err != nil {
		h.BadRequest(c, "invalid date, use YYYY-MM-DD or RFC 3339")
		return
	}

	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, snapshotVersion(c), appfinance.RunOptions{
		Ledger: filter,
		Now:    time.Now(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
