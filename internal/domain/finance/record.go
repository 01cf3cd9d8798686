package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// InvoiceKind distinguishes sales invoices (money owed to the tenant) from
// purchase invoices (money the tenant owes).
type InvoiceKind string

const (
	InvoiceKindSales    InvoiceKind = "sales"
	InvoiceKindPurchase InvoiceKind = "purchase"
)

// IsValid checks if the invoice kind is valid
func (k InvoiceKind) IsValid() bool {
	return k == InvoiceKindSales || k == InvoiceKindPurchase
}

// PaymentState is the derived settlement state of an invoice or expense
type PaymentState string

const (
	PaymentStatePending       PaymentState = "pending"
	PaymentStatePartiallyPaid PaymentState = "partially_paid"
	PaymentStatePaid          PaymentState = "paid"
)

// PaymentType classifies a payment by the business flow that produced it
type PaymentType string

const (
	PaymentTypeSales    PaymentType = "sales_payment"
	PaymentTypePurchase PaymentType = "purchase_payment"
	PaymentTypeAdvance  PaymentType = "advance_payment"
	PaymentTypeRefund   PaymentType = "refund"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeSales, PaymentTypePurchase, PaymentTypeAdvance, PaymentTypeRefund:
		return true
	}
	return false
}

// CashFlowCategory returns whether payments of this type count as incoming or
// outgoing cash. Sales and advance payments bring money in; purchase payments
// and refunds send money out.
func (t PaymentType) CashFlowCategory() CashFlowCategory {
	switch t {
	case PaymentTypeSales, PaymentTypeAdvance:
		return CashFlowIncome
	default:
		return CashFlowExpense
	}
}

// PaymentStatus is the processing status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// IsCompleted returns true if the payment participates in financial math.
// Pending, failed and cancelled payments may still be displayed elsewhere but
// are never counted.
func (s PaymentStatus) IsCompleted() bool {
	return s == PaymentStatusCompleted
}

// PartyType identifies the counterpart of a payment
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
	PartyTypeExpense  PartyType = "expense"
)

// RequiresParty returns true when a payment of this party type must carry a
// party ID.
func (p PartyType) RequiresParty() bool {
	return p == PartyTypeCustomer || p == PartyTypeSupplier
}

// ReferenceKind identifies which kind of obligation a payment settles.
// Modeled as an enum rather than a raw reference-type string so new kinds
// force explicit handling at every switch.
type ReferenceKind string

const (
	ReferenceSalesInvoice    ReferenceKind = "SALES_INVOICE"
	ReferencePurchaseInvoice ReferenceKind = "PURCHASE_INVOICE"
	ReferenceExpense         ReferenceKind = "EXPENSE"
	ReferenceAdvance         ReferenceKind = "ADVANCE"
)

// IsValid checks if the reference kind is valid
func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceSalesInvoice, ReferencePurchaseInvoice, ReferenceExpense, ReferenceAdvance:
		return true
	}
	return false
}

// ReferenceKey is the discriminated lookup key from a payment to the
// obligation it settles. Kind and ID together form the key: record IDs are not
// globally unique across invoice kinds and expenses, so a sales invoice and an
// expense with the same ID are distinct keys.
type ReferenceKey struct {
	Kind ReferenceKind `json:"kind"`
	ID   uuid.UUID     `json:"id"`
}

// MarshalText implements encoding.TextMarshaler so ReferenceKey can serve as
// a JSON map key in derived views.
func (k ReferenceKey) MarshalText() ([]byte, error) {
	return []byte(string(k.Kind) + ":" + k.ID.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ReferenceKey) UnmarshalText(text []byte) error {
	parts := strings.SplitN(string(text), ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid reference key %q", text)
	}
	kind := ReferenceKind(parts[0])
	if !kind.IsValid() {
		return fmt.Errorf("invalid reference kind %q", parts[0])
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return fmt.Errorf("invalid reference id: %w", err)
	}
	k.Kind = kind
	k.ID = id
	return nil
}

// InvoiceReference builds the reference key for an invoice of the given kind
func InvoiceReference(kind InvoiceKind, id uuid.UUID) ReferenceKey {
	if kind == InvoiceKindPurchase {
		return ReferenceKey{Kind: ReferencePurchaseInvoice, ID: id}
	}
	return ReferenceKey{Kind: ReferenceSalesInvoice, ID: id}
}

// ExpenseReference builds the reference key for an expense
func ExpenseReference(id uuid.UUID) ReferenceKey {
	return ReferenceKey{Kind: ReferenceExpense, ID: id}
}

// Invoice is an immutable input record for one reconciliation run. The engine
// never mutates source records; it produces derived views only.
type Invoice struct {
	ID             uuid.UUID          `json:"id"`
	Kind           InvoiceKind        `json:"kind"`
	CounterpartyID uuid.UUID          `json:"counterparty_id"`
	TotalAmount    valueobject.Money  `json:"total_amount"`
	IssueDate      time.Time          `json:"issue_date"`
	DueDate        time.Time          `json:"due_date"`
	DeclaredStatus PaymentState       `json:"declared_status"`
}

// Key returns the reference key payments use to point at this invoice
func (i Invoice) Key() ReferenceKey {
	return InvoiceReference(i.Kind, i.ID)
}

// Expense is an invoice-like obligation owed by the tenant
type Expense struct {
	ID             uuid.UUID         `json:"id"`
	TotalAmount    valueobject.Money `json:"total_amount"`
	Date           time.Time         `json:"date"`
	DeclaredStatus PaymentState      `json:"declared_status"`
}

// Key returns the reference key payments use to point at this expense
func (e Expense) Key() ReferenceKey {
	return ExpenseReference(e.ID)
}

// Payment is a single money movement. Reference is nil for payments that do
// not settle a specific obligation (e.g. standalone advances); PartyID is nil
// only when PartyType does not require one.
type Payment struct {
	ID        uuid.UUID         `json:"id"`
	Type      PaymentType       `json:"type"`
	Reference *ReferenceKey     `json:"reference,omitempty"`
	PartyType PartyType         `json:"party_type"`
	PartyID   *uuid.UUID        `json:"party_id,omitempty"`
	MethodID  uuid.UUID         `json:"method_id"`
	Amount    valueobject.Money `json:"amount"`
	Date      time.Time         `json:"date"`
	Status    PaymentStatus     `json:"status"`
}

// AccountKind distinguishes customer accounts from supplier accounts
type AccountKind string

const (
	AccountKindCustomer AccountKind = "customer"
	AccountKindSupplier AccountKind = "supplier"
)

// Account is a credit account for a customer or supplier. Only customers
// carry a credit limit; RawOutstanding is the balance the upstream system
// last recorded, used when the snapshot carries no invoices for the account.
type Account struct {
	ID             uuid.UUID          `json:"id"`
	Kind           AccountKind        `json:"kind"`
	Name           string             `json:"name"`
	CreditLimit    *valueobject.Money `json:"credit_limit,omitempty"`
	RawOutstanding valueobject.Money  `json:"raw_outstanding"`
}

// PaymentMethod is a lookup record, immutable within a run
type PaymentMethod struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// RecordError reports a record rejected from aggregation for violating an
// input invariant. Rejections are surfaced to callers as a side channel so a
// warning can be shown without failing the whole computation.
type RecordError struct {
	RecordID uuid.UUID `json:"record_id"`
	Field    string    `json:"field"`
	Reason   string    `json:"reason"`
}
