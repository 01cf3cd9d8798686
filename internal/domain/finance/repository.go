package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	Kind           *InvoiceKind
	CounterpartyID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	PartyType *PartyType
	PartyID   *uuid.UUID
	MethodID  *uuid.UUID
	Status    *PaymentStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	Kind *AccountKind
}

// The engine does not own persistence. These query interfaces are implemented
// by the storage layer; the engine consumes already-fetched record sets and
// never writes anything back.

// InvoiceQuery fetches invoice snapshots for a tenant
type InvoiceQuery interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
}

// PaymentQuery fetches payment snapshots for a tenant
type PaymentQuery interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) ([]Payment, error)
}

// ExpenseQuery fetches expense snapshots for a tenant
type ExpenseQuery interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]Expense, error)
}

// AccountQuery fetches customer/supplier credit accounts for a tenant
type AccountQuery interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) ([]Account, error)
}

// PaymentMethodQuery fetches the payment-method lookup table for a tenant
type PaymentMethodQuery interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID) ([]PaymentMethod, error)
}
