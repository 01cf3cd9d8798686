package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

func ledgerPayment(t PaymentType, amount float64, date time.Time, methodID uuid.UUID) Payment {
	partyID := uuid.New()
	p := Payment{
		ID:        uuid.New(),
		Type:      t,
		PartyType: PartyTypeCustomer,
		PartyID:   &partyID,
		MethodID:  methodID,
		Amount:    valueobject.NewMoneyFromFloat(amount),
		Date:      date,
		Status:    PaymentStatusCompleted,
	}
	if t == PaymentTypePurchase || t == PaymentTypeRefund {
		p.PartyType = PartyTypeSupplier
	}
	return p
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildLedger_SortsAndBalances(t *testing.T) {
	cash := PaymentMethod{ID: uuid.New(), Name: "Cash"}
	idx := BuildPaymentIndex(nil, []PaymentMethod{cash})

	// Deliberately out of order: Jan 1 (+500), Jan 3 (-200), Jan 2 (+100).
	payments := []Payment{
		ledgerPayment(PaymentTypeSales, 500, day(1), cash.ID),
		ledgerPayment(PaymentTypePurchase, 200, day(3), cash.ID),
		ledgerPayment(PaymentTypeSales, 100, day(2), cash.ID),
	}

	result := BuildLedger(payments, idx, LedgerFilter{})

	require.Len(t, result.Entries, 3)
	assert.Equal(t, day(1), result.Entries[0].Date)
	assert.Equal(t, "500.00", result.Entries[0].RunningBalance.String())
	assert.Equal(t, day(2), result.Entries[1].Date)
	assert.Equal(t, "600.00", result.Entries[1].RunningBalance.String())
	assert.Equal(t, day(3), result.Entries[2].Date)
	assert.Equal(t, "400.00", result.Entries[2].RunningBalance.String())

	assert.Equal(t, "600.00", result.TotalIncome.String())
	assert.Equal(t, "200.00", result.TotalExpense.String())
	assert.Equal(t, "400.00", result.NetCashFlow.String())
}

func TestBuildLedger_Classification(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	tests := []struct {
		paymentType PaymentType
		want        CashFlowCategory
		signed      string
	}{
		{PaymentTypeSales, CashFlowIncome, "100.00"},
		{PaymentTypeAdvance, CashFlowIncome, "100.00"},
		{PaymentTypePurchase, CashFlowExpense, "-100.00"},
		{PaymentTypeRefund, CashFlowExpense, "-100.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.paymentType), func(t *testing.T) {
			result := BuildLedger([]Payment{
				ledgerPayment(tt.paymentType, 100, day(1), methodID),
			}, idx, LedgerFilter{})

			require.Len(t, result.Entries, 1)
			assert.Equal(t, tt.want, result.Entries[0].Category)
			assert.Equal(t, tt.signed, result.Entries[0].SignedAmount.String())
		})
	}
}

func TestBuildLedger_StableTieBreak(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	first := ledgerPayment(PaymentTypeSales, 10, day(5), methodID)
	second := ledgerPayment(PaymentTypeSales, 20, day(5), methodID)
	third := ledgerPayment(PaymentTypeSales, 30, day(5), methodID)

	result := BuildLedger([]Payment{first, second, third}, idx, LedgerFilter{})

	require.Len(t, result.Entries, 3)
	assert.Equal(t, first.ID, result.Entries[0].SourceID)
	assert.Equal(t, second.ID, result.Entries[1].SourceID)
	assert.Equal(t, third.ID, result.Entries[2].SourceID)
	assert.Equal(t, "60.00", result.Entries[2].RunningBalance.String())
}

// Filters are applied before the running balance so the balance reflects the
// filtered subset, not a slice of a global balance.
func TestBuildLedger_FilterBeforeBalance(t *testing.T) {
	cash := PaymentMethod{ID: uuid.New(), Name: "Cash"}
	card := PaymentMethod{ID: uuid.New(), Name: "Credit Card"}
	idx := BuildPaymentIndex(nil, []PaymentMethod{cash, card})

	payments := []Payment{
		ledgerPayment(PaymentTypeSales, 500, day(1), cash.ID),
		ledgerPayment(PaymentTypeSales, 300, day(2), card.ID),
		ledgerPayment(PaymentTypePurchase, 100, day(3), cash.ID),
	}

	result := BuildLedger(payments, idx, LedgerFilter{Method: "cash"})

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "500.00", result.Entries[0].RunningBalance.String())
	// 500 - 100, ignoring the card payment entirely.
	assert.Equal(t, "400.00", result.Entries[1].RunningBalance.String())
	assert.Equal(t, "500.00", result.TotalIncome.String())
	assert.Equal(t, "100.00", result.TotalExpense.String())
}

func TestBuildLedger_DateAndCategoryFilters(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	undated := ledgerPayment(PaymentTypeSales, 50, time.Time{}, methodID)
	payments := []Payment{
		ledgerPayment(PaymentTypeSales, 100, day(1), methodID),
		ledgerPayment(PaymentTypePurchase, 40, day(5), methodID),
		ledgerPayment(PaymentTypeSales, 200, day(10), methodID),
		undated,
	}

	from, to := day(2), day(10)
	result := BuildLedger(payments, idx, LedgerFilter{From: &from, To: &to})
	// Jan 1 is before the range; the undated entry is excluded from
	// date-filtered views.
	assert.EqualValues(t, 2, result.Total)

	income := CashFlowIncome
	result = BuildLedger(payments, idx, LedgerFilter{Category: &income})
	assert.EqualValues(t, 3, result.Total)
	assert.Equal(t, "0.00", result.TotalExpense.String())

	// Unfiltered totals keep the undated entry.
	result = BuildLedger(payments, idx, LedgerFilter{})
	assert.EqualValues(t, 4, result.Total)
	assert.Equal(t, "350.00", result.TotalIncome.String())
}

func TestBuildLedger_TotalsByMethodBucket(t *testing.T) {
	cash := PaymentMethod{ID: uuid.New(), Name: "Petty CASH"}
	cheque := PaymentMethod{ID: uuid.New(), Name: "Bank cheque"}
	card := PaymentMethod{ID: uuid.New(), Name: "Credit Card"}
	wire := PaymentMethod{ID: uuid.New(), Name: "Wire Transfer"}
	idx := BuildPaymentIndex(nil, []PaymentMethod{cash, cheque, card, wire})

	payments := []Payment{
		ledgerPayment(PaymentTypeSales, 100, day(1), cash.ID),
		ledgerPayment(PaymentTypePurchase, 30, day(2), cash.ID),
		ledgerPayment(PaymentTypeSales, 200, day(3), cheque.ID),
		ledgerPayment(PaymentTypeSales, 400, day(4), card.ID),
		ledgerPayment(PaymentTypeSales, 800, day(5), wire.ID),
	}

	result := BuildLedger(payments, idx, LedgerFilter{})

	assert.Equal(t, "100.00", result.TotalsByMethod[MethodBucketCash].Income.String())
	assert.Equal(t, "30.00", result.TotalsByMethod[MethodBucketCash].Outgoing.String())
	assert.Equal(t, "200.00", result.TotalsByMethod[MethodBucketCheque].Income.String())
	assert.Equal(t, "400.00", result.TotalsByMethod[MethodBucketCredit].Income.String())
	assert.Equal(t, "800.00", result.TotalsByMethod[MethodBucketOther].Income.String())
}

func TestBuildLedger_PaginationDoesNotChangeBalances(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	payments := make([]Payment, 0, 10)
	for d := 1; d <= 10; d++ {
		payments = append(payments, ledgerPayment(PaymentTypeSales, float64(d*10), day(d), methodID))
	}

	full := BuildLedger(payments, idx, LedgerFilter{})
	page2 := BuildLedger(payments, idx, LedgerFilter{Page: 2, PageSize: 3})

	require.Len(t, page2.Entries, 3)
	assert.EqualValues(t, 10, page2.Total)
	for i, e := range page2.Entries {
		assert.True(t, e.RunningBalance.Equals(full.Entries[3+i].RunningBalance),
			"page slice altered running balance at offset %d", i)
	}

	// Out-of-range page yields an empty slice, totals untouched.
	page99 := BuildLedger(payments, idx, LedgerFilter{Page: 99, PageSize: 3})
	assert.Empty(t, page99.Entries)
	assert.True(t, page99.TotalIncome.Equals(full.TotalIncome))
}

// runningBalance[i] = runningBalance[i-1] + signed[i], and the last balance
// equals the sum of all signed amounts.
func TestBuildLedger_RunningBalanceRecurrence(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	payments := []Payment{
		ledgerPayment(PaymentTypeSales, 120.50, day(1), methodID),
		ledgerPayment(PaymentTypeRefund, 20.25, day(2), methodID),
		ledgerPayment(PaymentTypeAdvance, 300, day(2), methodID),
		ledgerPayment(PaymentTypePurchase, 99.99, day(4), methodID),
	}

	result := BuildLedger(payments, idx, LedgerFilter{})

	sum := valueobject.ZeroMoney()
	prev := valueobject.ZeroMoney()
	for i, e := range result.Entries {
		sum = sum.Add(e.SignedAmount)
		assert.True(t, e.RunningBalance.Equals(prev.Add(e.SignedAmount)), "recurrence broken at %d", i)
		prev = e.RunningBalance
	}
	assert.True(t, result.Entries[len(result.Entries)-1].RunningBalance.Equals(sum))
	assert.True(t, result.NetCashFlow.Equals(sum))
}

func TestBuildLedger_RejectsInvalidAndSkipsIncomplete(t *testing.T) {
	methodID := uuid.New()
	idx := BuildPaymentIndex(nil, nil)

	bad := ledgerPayment(PaymentTypeSales, 0, day(1), methodID)
	pending := ledgerPayment(PaymentTypeSales, 75, day(2), methodID)
	pending.Status = PaymentStatusPending

	result := BuildLedger([]Payment{bad, pending, ledgerPayment(PaymentTypeSales, 10, day(3), methodID)}, idx, LedgerFilter{})

	assert.EqualValues(t, 1, result.Total)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "amount", result.Rejected[0].Field)
}

func TestBuildLedger_EntryLabels(t *testing.T) {
	cash := PaymentMethod{ID: uuid.New(), Name: "Cash"}
	idx := BuildPaymentIndex(nil, []PaymentMethod{cash})

	ref := InvoiceReference(InvoiceKindSales, uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	p := ledgerPayment(PaymentTypeSales, 100, day(1), cash.ID)
	p.Reference = &ref

	result := BuildLedger([]Payment{p}, idx, LedgerFilter{})

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "sales_invoice/11111111", result.Entries[0].Reference)
	assert.Equal(t, "sales payment via Cash", result.Entries[0].Description)
	assert.Equal(t, "Cash", result.Entries[0].MethodName)
}
