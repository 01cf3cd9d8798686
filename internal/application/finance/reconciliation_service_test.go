package finance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/finance"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// stubSources implements all five query interfaces over fixed slices, with
// optional per-source failures.
type stubSources struct {
	invoices []finance.Invoice
	payments []finance.Payment
	expenses []finance.Expense
	accounts []finance.Account
	methods  []finance.PaymentMethod
	fail     map[string]error
}

func (s *stubSources) FindForTenant(ctx context.Context, tenantID uuid.UUID, _ finance.InvoiceFilter) ([]finance.Invoice, error) {
	if err := s.fail["invoices"]; err != nil {
		return nil, err
	}
	return s.invoices, nil
}

type stubPayments struct{ *stubSources }

func (s stubPayments) FindForTenant(ctx context.Context, tenantID uuid.UUID, _ finance.PaymentFilter) ([]finance.Payment, error) {
	if err := s.fail["payments"]; err != nil {
		return nil, err
	}
	return s.payments, nil
}

type stubExpenses struct{ *stubSources }

func (s stubExpenses) FindForTenant(ctx context.Context, tenantID uuid.UUID, _ finance.ExpenseFilter) ([]finance.Expense, error) {
	if err := s.fail["expenses"]; err != nil {
		return nil, err
	}
	return s.expenses, nil
}

type stubAccounts struct{ *stubSources }

func (s stubAccounts) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) ([]finance.Account, error) {
	if err := s.fail["accounts"]; err != nil {
		return nil, err
	}
	if filter.Kind == nil {
		return s.accounts, nil
	}
	matched := make([]finance.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if acc.Kind == *filter.Kind {
			matched = append(matched, acc)
		}
	}
	return matched, nil
}

type stubMethods struct{ *stubSources }

func (s stubMethods) FindForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.PaymentMethod, error) {
	if err := s.fail["payment_methods"]; err != nil {
		return nil, err
	}
	return s.methods, nil
}

func newTestService(src *stubSources) *ReconciliationService {
	return NewReconciliationService(
		src,
		stubPayments{src},
		stubExpenses{src},
		stubAccounts{src},
		stubMethods{src},
		nil,
	)
}

func snapshotFixture() *stubSources {
	customerID := uuid.New()
	limit := valueobject.NewMoneyFromInt(1000)
	cash := finance.PaymentMethod{ID: uuid.New(), Name: "Cash"}

	invoice := finance.Invoice{
		ID:             uuid.New(),
		Kind:           finance.InvoiceKindSales,
		CounterpartyID: customerID,
		TotalAmount:    valueobject.NewMoneyFromInt(1000),
		IssueDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	key := invoice.Key()

	payment := func(amount float64, d int) finance.Payment {
		partyID := customerID
		return finance.Payment{
			ID:        uuid.New(),
			Type:      finance.PaymentTypeSales,
			Reference: &key,
			PartyType: finance.PartyTypeCustomer,
			PartyID:   &partyID,
			MethodID:  cash.ID,
			Amount:    valueobject.NewMoneyFromFloat(amount),
			Date:      time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC),
			Status:    finance.PaymentStatusCompleted,
		}
	}

	return &stubSources{
		invoices: []finance.Invoice{invoice},
		payments: []finance.Payment{payment(400, 5), payment(200, 10)},
		expenses: []finance.Expense{{
			ID:          uuid.New(),
			TotalAmount: valueobject.NewMoneyFromFloat(150),
			Date:        time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		}},
		accounts: []finance.Account{{
			ID:          customerID,
			Kind:        finance.AccountKindCustomer,
			Name:        "Acme",
			CreditLimit: &limit,
		}},
		methods: []finance.PaymentMethod{cash},
		fail:    map[string]error{},
	}
}

func TestReconciliationService_Run(t *testing.T) {
	src := snapshotFixture()
	svc := newTestService(src)

	result, err := svc.Run(context.Background(), uuid.New(), RunOptions{
		Now: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	invoiceKey := src.invoices[0].Key()
	view := result.Balances[invoiceKey]
	assert.Equal(t, "600.00", view.PaidAmount.String())
	assert.Equal(t, "400.00", view.Outstanding.String())
	assert.Equal(t, finance.PaymentStatePartiallyPaid, view.Status)

	account := result.Accounts[src.accounts[0].ID]
	assert.Equal(t, "400.00", account.Outstanding.String())
	assert.Equal(t, finance.StandingHasBalance, account.Standing)

	require.Len(t, result.Ledger.Entries, 2)
	assert.Equal(t, "400.00", result.Ledger.Entries[0].RunningBalance.String())
	assert.Equal(t, "600.00", result.Ledger.Entries[1].RunningBalance.String())

	assert.Equal(t, "400.00", result.Summary.Receivables.String())
	assert.Equal(t, "150.00", result.Summary.Payables.String())
	assert.Equal(t, "250.00", result.Summary.NetPosition.String())
	assert.Equal(t, 2, result.Summary.PaymentCount)
	assert.Empty(t, result.SourceErrors)
	assert.Empty(t, result.Rejected)
}

func TestReconciliationService_Run_RejectsReportedOnce(t *testing.T) {
	src := snapshotFixture()
	bad := src.payments[0]
	bad.ID = uuid.New()
	bad.PartyID = nil
	src.payments = append(src.payments, bad)
	svc := newTestService(src)

	result, err := svc.Run(context.Background(), uuid.New(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, bad.ID, result.Rejected[0].RecordID)
	assert.Empty(t, result.Ledger.Rejected, "ledger must not repeat the run-level rejects")
}

// Two runs over the same snapshot produce byte-identical output.
func TestReconciliationService_Run_Idempotent(t *testing.T) {
	src := snapshotFixture()
	svc := newTestService(src)
	opts := RunOptions{Now: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)}

	first, err := svc.Run(context.Background(), uuid.Nil, opts)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), uuid.Nil, opts)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestReconciliationService_Run_PartialResults(t *testing.T) {
	src := snapshotFixture()
	src.fail["invoices"] = errors.New("connection refused")
	src.fail["accounts"] = errors.New("timeout")
	svc := newTestService(src)

	result, err := svc.Run(context.Background(), uuid.New(), RunOptions{})
	require.NoError(t, err)

	// Cash flow still renders from payments even though invoices are gone.
	assert.Len(t, result.Ledger.Entries, 2)
	assert.NotContains(t, result.Balances, src.invoices[0].Key())
	assert.Contains(t, result.Balances, src.expenses[0].Key())
	assert.Empty(t, result.Accounts)

	require.Len(t, result.SourceErrors, 2)
	sources := map[string]bool{}
	for _, e := range result.SourceErrors {
		sources[e.Source] = true
	}
	assert.True(t, sources["invoices"])
	assert.True(t, sources["accounts"])
}

func TestReconciliationService_Run_CancelledContext(t *testing.T) {
	svc := newTestService(snapshotFixture())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, uuid.New(), RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
