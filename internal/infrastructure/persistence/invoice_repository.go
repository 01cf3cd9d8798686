package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceQuery using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindForTenant fetches invoice snapshots for a tenant with filtering.
// Results are ordered by issue date then ID so repeated fetches of the same
// snapshot return records in the same order.
func (r *GormInvoiceRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.From != nil {
		query = query.Where("issue_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("issue_date <= ?", *filter.To)
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("issue_date ASC, id ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = model.ToDomain()
	}
	return invoices, nil
}

// applyPagination adds offset/limit to a query. Page is 1-based; a
// non-positive page size returns everything.
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// Ensure GormInvoiceRepository implements InvoiceQuery
var _ finance.InvoiceQuery = (*GormInvoiceRepository)(nil)
