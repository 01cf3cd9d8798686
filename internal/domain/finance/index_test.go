package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

func completedPayment(ref *ReferenceKey, amount float64) Payment {
	partyID := uuid.New()
	return Payment{
		ID:        uuid.New(),
		Type:      PaymentTypeSales,
		Reference: ref,
		PartyType: PartyTypeCustomer,
		PartyID:   &partyID,
		MethodID:  uuid.New(),
		Amount:    valueobject.NewMoneyFromFloat(amount),
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:    PaymentStatusCompleted,
	}
}

func TestBuildPaymentIndex_GroupsByReference(t *testing.T) {
	invoiceID := uuid.New()
	salesKey := InvoiceReference(InvoiceKindSales, invoiceID)
	// Same ID as the sales invoice: ids are not globally unique across kinds.
	expenseKey := ExpenseReference(invoiceID)

	payments := []Payment{
		completedPayment(&salesKey, 400),
		completedPayment(&salesKey, 600),
		completedPayment(&expenseKey, 150),
	}

	idx := BuildPaymentIndex(payments, nil)

	assert.Len(t, idx.PaymentsFor(salesKey), 2)
	assert.Len(t, idx.PaymentsFor(expenseKey), 1)
	assert.Equal(t, 2, idx.ReferenceCount())
	assert.Empty(t, idx.Rejected())
}

func TestBuildPaymentIndex_ExcludesNonCompleted(t *testing.T) {
	key := InvoiceReference(InvoiceKindSales, uuid.New())

	pending := completedPayment(&key, 700)
	pending.Status = PaymentStatusPending
	failed := completedPayment(&key, 100)
	failed.Status = PaymentStatusFailed
	cancelled := completedPayment(&key, 50)
	cancelled.Status = PaymentStatusCancelled

	idx := BuildPaymentIndex([]Payment{
		completedPayment(&key, 300),
		pending,
		failed,
		cancelled,
	}, nil)

	attributed := idx.PaymentsFor(key)
	require.Len(t, attributed, 1)
	assert.Equal(t, "300.00", attributed[0].Amount.String())
}

func TestBuildPaymentIndex_RejectsInvariantViolations(t *testing.T) {
	key := InvoiceReference(InvoiceKindSales, uuid.New())

	zeroAmount := completedPayment(&key, 0)
	noParty := completedPayment(&key, 100)
	noParty.PartyID = nil
	badKind := completedPayment(&ReferenceKey{Kind: "MYSTERY", ID: uuid.New()}, 100)

	idx := BuildPaymentIndex([]Payment{zeroAmount, noParty, badKind}, nil)

	assert.Empty(t, idx.PaymentsFor(key))
	require.Len(t, idx.Rejected(), 3)
	fields := []string{idx.Rejected()[0].Field, idx.Rejected()[1].Field, idx.Rejected()[2].Field}
	assert.Equal(t, []string{"amount", "party_id", "reference"}, fields)
}

func TestBuildPaymentIndex_ExpensePartyNeedsNoPartyID(t *testing.T) {
	p := completedPayment(nil, 80)
	p.PartyType = PartyTypeExpense
	p.PartyID = nil
	p.Type = PaymentTypePurchase

	idx := BuildPaymentIndex([]Payment{p}, nil)
	assert.Empty(t, idx.Rejected())
}

func TestBuildPaymentIndex_MethodLookup(t *testing.T) {
	cash := PaymentMethod{ID: uuid.New(), Name: "Cash", Description: "Cash on delivery"}
	cheque := PaymentMethod{ID: uuid.New(), Name: "Cheque"}

	idx := BuildPaymentIndex(nil, []PaymentMethod{cash, cheque})

	m, ok := idx.Method(cash.ID)
	require.True(t, ok)
	assert.Equal(t, "Cash", m.Name)
	assert.Equal(t, "Cheque", idx.MethodName(cheque.ID))
	assert.Equal(t, "", idx.MethodName(uuid.New()))

	_, ok = idx.Method(uuid.New())
	assert.False(t, ok)
}
