package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for invoice snapshots.
type InvoiceModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Kind           finance.InvoiceKind  `gorm:"type:varchar(20);not null;index"`
	CounterpartyID uuid.UUID            `gorm:"type:uuid;not null;index"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	IssueDate      time.Time            `gorm:"not null;index"`
	DueDate        *time.Time           `gorm:"index"`
	DeclaredStatus finance.PaymentState `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time            `gorm:"not null"`
	UpdatedAt      time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice snapshot.
func (m *InvoiceModel) ToDomain() finance.Invoice {
	inv := finance.Invoice{
		ID:             m.ID,
		Kind:           m.Kind,
		CounterpartyID: m.CounterpartyID,
		TotalAmount:    valueobject.NewMoney(m.TotalAmount),
		IssueDate:      m.IssueDate,
		DeclaredStatus: m.DeclaredStatus,
	}
	if m.DueDate != nil {
		inv.DueDate = *m.DueDate
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(tenantID uuid.UUID, inv finance.Invoice) {
	m.ID = inv.ID
	m.TenantID = tenantID
	m.Kind = inv.Kind
	m.CounterpartyID = inv.CounterpartyID
	m.TotalAmount = inv.TotalAmount.Amount()
	m.IssueDate = inv.IssueDate
	if !inv.DueDate.IsZero() {
		due := inv.DueDate
		m.DueDate = &due
	}
	m.DeclaredStatus = inv.DeclaredStatus
}

// ExpenseModel is the persistence model for expense snapshots.
type ExpenseModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Date           time.Time            `gorm:"not null;index"`
	DeclaredStatus finance.PaymentState `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time            `gorm:"not null"`
	UpdatedAt      time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense snapshot.
func (m *ExpenseModel) ToDomain() finance.Expense {
	return finance.Expense{
		ID:             m.ID,
		TotalAmount:    valueobject.NewMoney(m.TotalAmount),
		Date:           m.Date,
		DeclaredStatus: m.DeclaredStatus,
	}
}

// FromDomain populates the persistence model from a domain Expense.
func (m *ExpenseModel) FromDomain(tenantID uuid.UUID, exp finance.Expense) {
	m.ID = exp.ID
	m.TenantID = tenantID
	m.TotalAmount = exp.TotalAmount.Amount()
	m.Date = exp.Date
	m.DeclaredStatus = exp.DeclaredStatus
}

// PaymentModel is the persistence model for payment snapshots. The optional
// reference is stored as a (kind, id) column pair rather than a composite key.
type PaymentModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type          finance.PaymentType    `gorm:"type:varchar(30);not null;index"`
	ReferenceKind *finance.ReferenceKind `gorm:"type:varchar(30);index:idx_payment_reference"`
	ReferenceID   *uuid.UUID             `gorm:"type:uuid;index:idx_payment_reference"`
	PartyType     finance.PartyType      `gorm:"type:varchar(20);not null"`
	PartyID       *uuid.UUID             `gorm:"type:uuid;index"`
	MethodID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Date          time.Time              `gorm:"not null;index"`
	Status        finance.PaymentStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time              `gorm:"not null"`
	UpdatedAt     time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment snapshot.
func (m *PaymentModel) ToDomain() finance.Payment {
	p := finance.Payment{
		ID:        m.ID,
		Type:      m.Type,
		PartyType: m.PartyType,
		PartyID:   m.PartyID,
		MethodID:  m.MethodID,
		Amount:    valueobject.NewMoney(m.Amount),
		Date:      m.Date,
		Status:    m.Status,
	}
	if m.ReferenceKind != nil && m.ReferenceID != nil {
		p.Reference = &finance.ReferenceKey{Kind: *m.ReferenceKind, ID: *m.ReferenceID}
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(tenantID uuid.UUID, p finance.Payment) {
	m.ID = p.ID
	m.TenantID = tenantID
	m.Type = p.Type
	if p.Reference != nil {
		kind := p.Reference.Kind
		id := p.Reference.ID
		m.ReferenceKind = &kind
		m.ReferenceID = &id
	}
	m.PartyType = p.PartyType
	m.PartyID = p.PartyID
	m.MethodID = p.MethodID
	m.Amount = p.Amount.Amount()
	m.Date = p.Date
	m.Status = p.Status
}

// AccountModel is the persistence model for counterparty credit accounts.
type AccountModel struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind           finance.AccountKind `gorm:"type:varchar(20);not null;index"`
	Name           string              `gorm:"type:varchar(200);not null"`
	CreditLimit    *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	RawOutstanding decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time           `gorm:"not null"`
	UpdatedAt      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account snapshot.
func (m *AccountModel) ToDomain() finance.Account {
	acc := finance.Account{
		ID:             m.ID,
		Kind:           m.Kind,
		Name:           m.Name,
		RawOutstanding: valueobject.NewMoney(m.RawOutstanding),
	}
	if m.CreditLimit != nil {
		limit := valueobject.NewMoney(*m.CreditLimit)
		acc.CreditLimit = &limit
	}
	return acc
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(tenantID uuid.UUID, acc finance.Account) {
	m.ID = acc.ID
	m.TenantID = tenantID
	m.Kind = acc.Kind
	m.Name = acc.Name
	if acc.CreditLimit != nil {
		limit := acc.CreditLimit.Amount()
		m.CreditLimit = &limit
	}
	m.RawOutstanding = acc.RawOutstanding.Amount()
}

// PaymentMethodModel is the persistence model for the payment-method lookup table.
type PaymentMethodModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() finance.PaymentMethod {
	return finance.PaymentMethod{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain PaymentMethod.
func (m *PaymentMethodModel) FromDomain(tenantID uuid.UUID, pm finance.PaymentMethod) {
	m.ID = pm.ID
	m.TenantID = tenantID
	m.Name = pm.Name
	m.Description = pm.Description
}
