package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormExpenseRepository implements ExpenseQuery using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindForTenant fetches expense snapshots for a tenant with filtering.
func (r *GormExpenseRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("date ASC, id ASC").Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	expenses := make([]finance.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = model.ToDomain()
	}
	return expenses, nil
}

// Ensure GormExpenseRepository implements ExpenseQuery
var _ finance.ExpenseQuery = (*GormExpenseRepository)(nil)
