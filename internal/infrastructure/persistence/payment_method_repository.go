package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormPaymentMethodRepository implements PaymentMethodQuery using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindForTenant fetches the payment-method lookup table for a tenant.
func (r *GormPaymentMethodRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.PaymentMethod, error) {
	var methodModels []models.PaymentMethodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&methodModels).Error; err != nil {
		return nil, err
	}

	methods := make([]finance.PaymentMethod, len(methodModels))
	for i, model := range methodModels {
		methods[i] = model.ToDomain()
	}
	return methods, nil
}

// Ensure GormPaymentMethodRepository implements PaymentMethodQuery
var _ finance.PaymentMethodQuery = (*GormPaymentMethodRepository)(nil)
