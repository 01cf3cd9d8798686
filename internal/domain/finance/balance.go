package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// BalanceView is the derived settlement view attached to one invoice or
// expense: how much has been paid against it and what remains outstanding.
type BalanceView struct {
	TotalAmount valueobject.Money `json:"total_amount"`
	PaidAmount  valueobject.Money `json:"paid_amount"`
	Outstanding valueobject.Money `json:"outstanding"`
	Status      PaymentState      `json:"status"`
}

// AccountStanding is the credit-risk tier of an account. Customers with a
// credit limit get three tiers above clear; suppliers are binary
// clear/has_balance.
type AccountStanding string

const (
	StandingClear      AccountStanding = "clear"
	StandingHasBalance AccountStanding = "has_balance"
	StandingNearLimit  AccountStanding = "near_limit"
	StandingOverLimit  AccountStanding = "over_limit"
)

// creditWarningRatio is the fraction of the credit limit above which a
// customer account is flagged near_limit.
var creditWarningRatio = decimal.NewFromFloat(0.8)

// AccountView is the derived per-account view: computed outstanding balance
// and credit standing.
type AccountView struct {
	AccountID   uuid.UUID          `json:"account_id"`
	Name        string             `json:"name"`
	Kind        AccountKind        `json:"kind"`
	Outstanding valueobject.Money  `json:"outstanding"`
	CreditLimit *valueobject.Money `json:"credit_limit,omitempty"`
	Standing    AccountStanding    `json:"standing"`
}

// AggregateBalances computes the settlement view for every invoice and
// expense in the snapshot. For each obligation, paid is the sum over all
// completed payments attributed to its key and outstanding is floored at
// zero. Payments whose reference matches no known obligation are simply
// absent here; they still count in the cash-flow ledger. The inputs are
// never mutated.
func AggregateBalances(invoices []Invoice, expenses []Expense, idx *PaymentIndex) map[ReferenceKey]BalanceView {
	views := make(map[ReferenceKey]BalanceView, len(invoices)+len(expenses))

	for _, inv := range invoices {
		views[inv.Key()] = balanceFor(inv.TotalAmount, idx.PaymentsFor(inv.Key()))
	}
	for _, exp := range expenses {
		views[exp.Key()] = balanceFor(exp.TotalAmount, idx.PaymentsFor(exp.Key()))
	}

	return views
}

func balanceFor(total valueobject.Money, payments []Payment) BalanceView {
	paid := valueobject.ZeroMoney()
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return BalanceView{
		TotalAmount: total,
		PaidAmount:  paid,
		Outstanding: total.Subtract(paid).ClampNonNegative(),
		Status:      ResolvePaymentState(total, paid),
	}
}

// AggregateAccounts derives the outstanding balance and credit standing for
// each account. The balance is the sum of outstanding amounts over the
// account's invoices in the snapshot; an account with no invoices in the
// snapshot falls back to the upstream RawOutstanding figure so a partially
// fetched dashboard still renders a standing.
func AggregateAccounts(accounts []Account, invoices []Invoice, views map[ReferenceKey]BalanceView) map[uuid.UUID]AccountView {
	outstandingByParty := make(map[uuid.UUID]valueobject.Money)
	seen := make(map[uuid.UUID]bool)
	for _, inv := range invoices {
		view, ok := views[inv.Key()]
		if !ok {
			continue
		}
		seen[inv.CounterpartyID] = true
		current, exists := outstandingByParty[inv.CounterpartyID]
		if !exists {
			current = valueobject.ZeroMoney()
		}
		outstandingByParty[inv.CounterpartyID] = current.Add(view.Outstanding)
	}

	result := make(map[uuid.UUID]AccountView, len(accounts))
	for _, acc := range accounts {
		balance := acc.RawOutstanding
		if seen[acc.ID] {
			balance = outstandingByParty[acc.ID]
		}
		result[acc.ID] = AccountView{
			AccountID:   acc.ID,
			Name:        acc.Name,
			Kind:        acc.Kind,
			Outstanding: balance,
			CreditLimit: acc.CreditLimit,
			Standing:    ResolveAccountStanding(acc, balance),
		}
	}
	return result
}

// ResolveAccountStanding maps an account balance to its credit tier:
//
//	balance <= 0                                   -> clear
//	customer, limit set, balance > limit           -> over_limit
//	customer, limit set, balance > 0.8 * limit     -> near_limit
//	otherwise                                      -> has_balance
//
// Suppliers never carry a limit, so they only ever resolve to clear or
// has_balance.
func ResolveAccountStanding(acc Account, balance valueobject.Money) AccountStanding {
	if balance.LessThanOrEqual(valueobject.ZeroMoney()) {
		return StandingClear
	}
	if acc.Kind == AccountKindCustomer && acc.CreditLimit != nil {
		limit := *acc.CreditLimit
		if balance.GreaterThan(limit) {
			return StandingOverLimit
		}
		if balance.GreaterThan(limit.Multiply(creditWarningRatio)) {
			return StandingNearLimit
		}
	}
	return StandingHasBalance
}
