package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements PaymentQuery using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindForTenant fetches payment snapshots for a tenant with filtering.
// Ordered by payment date then ID for stable snapshot reads.
func (r *GormPaymentRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.PaymentFilter) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.PartyType != nil {
		query = query.Where("party_type = ?", *filter.PartyType)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.MethodID != nil {
		query = query.Where("method_id = ?", *filter.MethodID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("date ASC, id ASC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]finance.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	return payments, nil
}

// Ensure GormPaymentRepository implements PaymentQuery
var _ finance.PaymentQuery = (*GormPaymentRepository)(nil)
