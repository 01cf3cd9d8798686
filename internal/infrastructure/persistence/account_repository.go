package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormAccountRepository implements AccountQuery using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindForTenant fetches counterparty credit accounts for a tenant.
func (r *GormAccountRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) ([]finance.Account, error) {
	var accountModels []models.AccountModel
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	if err := query.Order("name ASC, id ASC").Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]finance.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// Ensure GormAccountRepository implements AccountQuery
var _ finance.AccountQuery = (*GormAccountRepository)(nil)
