package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/finance"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormInvoiceRepository_FindForTenant(t *testing.T) {
	t.Run("fetches invoices for tenant", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		tenantID := uuid.New()
		invoiceID := uuid.New()
		customerID := uuid.New()
		issued := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "kind", "counterparty_id", "total_amount", "issue_date", "due_date", "declared_status"}).
			AddRow(invoiceID, tenantID, "sales", customerID, decimal.NewFromInt(1000), issued, nil, "pending")

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 ORDER BY issue_date ASC, id ASC`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		invoices, err := repo.FindForTenant(context.Background(), tenantID, finance.InvoiceFilter{})

		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, invoiceID, invoices[0].ID)
		assert.Equal(t, finance.InvoiceKindSales, invoices[0].Kind)
		assert.Equal(t, "1000.00", invoices[0].TotalAmount.String())
		assert.True(t, invoices[0].DueDate.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies kind filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		tenantID := uuid.New()
		kind := finance.InvoiceKindPurchase

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND kind = \$2 ORDER BY issue_date ASC, id ASC`).
			WithArgs(tenantID, kind).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		invoices, err := repo.FindForTenant(context.Background(), tenantID, finance.InvoiceFilter{Kind: &kind})

		require.NoError(t, err)
		assert.Empty(t, invoices)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies date range filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		tenantID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND issue_date >= \$2 AND issue_date <= \$3 ORDER BY issue_date ASC, id ASC`).
			WithArgs(tenantID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindForTenant(context.Background(), tenantID, finance.InvoiceFilter{From: &from, To: &to})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 ORDER BY issue_date ASC, id ASC LIMIT .* OFFSET .*`).
			WithArgs(tenantID, 10, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindForTenant(context.Background(), tenantID, finance.InvoiceFilter{Page: 2, PageSize: 10})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WillReturnError(gorm.ErrInvalidDB)

		invoices, err := repo.FindForTenant(context.Background(), tenantID, finance.InvoiceFilter{})

		assert.Error(t, err)
		assert.Nil(t, invoices)
	})
}
