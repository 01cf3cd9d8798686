package finance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/finance"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SourceError reports one upstream source that failed to fetch. The engine
// does not retry; retry policy belongs to the data layer. A failed source
// contributes an empty record set so the dashboard can render partial results
// instead of failing outright.
type SourceError struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// RunOptions configures one reconciliation run
type RunOptions struct {
	Invoices finance.InvoiceFilter
	Payments finance.PaymentFilter
	Expenses finance.ExpenseFilter
	Accounts finance.AccountFilter
	Ledger   finance.LedgerFilter
	// Now anchors overdue calculations; zero means time.Now at run time.
	Now time.Time
}

// ReconciliationResult is the full derived output of one run: per-obligation
// balances, per-account standings, the cash-flow ledger and the dashboard
// summary, plus the rejected-record and failed-source side channels.
type ReconciliationResult struct {
	Balances     map[finance.ReferenceKey]finance.BalanceView `json:"balances"`
	Accounts     map[uuid.UUID]finance.AccountView            `json:"accounts"`
	Ledger       finance.LedgerResult                         `json:"ledger"`
	Summary      finance.Summary                              `json:"summary"`
	Rejected     []finance.RecordError                        `json:"rejected,omitempty"`
	SourceErrors []SourceError                                `json:"source_errors,omitempty"`
}

// ReconciliationService runs the credit and cash-flow reconciliation pipeline.
// Each run fetches its input snapshot up front, builds a fresh attribution
// index and derives all views synchronously. Runs share no state: concurrent
// dashboard refreshes each get their own maps.
type ReconciliationService struct {
	invoices finance.InvoiceQuery
	payments finance.PaymentQuery
	expenses finance.ExpenseQuery
	accounts finance.AccountQuery
	methods  finance.PaymentMethodQuery
	logger   *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	invoices finance.InvoiceQuery,
	payments finance.PaymentQuery,
	expenses finance.ExpenseQuery,
	accounts finance.AccountQuery,
	methods finance.PaymentMethodQuery,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		invoices: invoices,
		payments: payments,
		expenses: expenses,
		accounts: accounts,
		methods:  methods,
		logger:   logger,
	}
}

// Run executes one reconciliation for a tenant. The five upstream queries are
// issued concurrently and awaited together; once all fetches settle the
// aggregation itself runs to completion synchronously with no further
// suspension. Cancellation only applies to the fetch phase.
//
// A source that fails yields an empty record set and a SourceError entry
// rather than aborting the run, so one broken upstream does not blank the
// whole dashboard. Run returns an error only when the context is cancelled.
func (s *ReconciliationService) Run(ctx context.Context, tenantID uuid.UUID, opts RunOptions) (*ReconciliationResult, error) {
	var (
		invoices []finance.Invoice
		payments []finance.Payment
		expenses []finance.Expense
		accounts []finance.Account
		methods  []finance.PaymentMethod
	)

	errs := make([]SourceError, 0)
	record := func(source string, err error) {
		s.logger.Warn("upstream fetch failed",
			zap.String("source", source),
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		errs = append(errs, SourceError{Source: source, Reason: err.Error()})
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	g.Go(func() error {
		rows, err := s.invoices.FindForTenant(gctx, tenantID, opts.Invoices)
		if err != nil {
			mu.Lock()
			record("invoices", err)
			mu.Unlock()
			return nil
		}
		invoices = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.payments.FindForTenant(gctx, tenantID, opts.Payments)
		if err != nil {
			mu.Lock()
			record("payments", err)
			mu.Unlock()
			return nil
		}
		payments = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.expenses.FindForTenant(gctx, tenantID, opts.Expenses)
		if err != nil {
			mu.Lock()
			record("expenses", err)
			mu.Unlock()
			return nil
		}
		expenses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.accounts.FindForTenant(gctx, tenantID, opts.Accounts)
		if err != nil {
			mu.Lock()
			record("accounts", err)
			mu.Unlock()
			return nil
		}
		accounts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.methods.FindForTenant(gctx, tenantID)
		if err != nil {
			mu.Lock()
			record("payment_methods", err)
			mu.Unlock()
			return nil
		}
		methods = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	idx := finance.BuildPaymentIndex(payments, methods)
	views := finance.AggregateBalances(invoices, expenses, idx)
	accountViews := finance.AggregateAccounts(accounts, invoices, views)
	ledger := finance.BuildLedger(payments, idx, opts.Ledger)
	// Rejects appear once per run, at the result level. The ledger recomputes
	// the same set for standalone callers; inside a full run that copy would
	// double-report every rejected payment.
	ledger.Rejected = nil
	summary := finance.Summarize(invoices, expenses, views, payments, now)

	if len(idx.Rejected()) > 0 {
		s.logger.Warn("records rejected from aggregation",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("rejected", len(idx.Rejected())),
		)
	}

	return &ReconciliationResult{
		Balances:     views,
		Accounts:     accountViews,
		Ledger:       ledger,
		Summary:      summary,
		Rejected:     idx.Rejected(),
		SourceErrors: errs,
	}, nil
}
