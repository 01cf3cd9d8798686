package finance

import "github.com/wms/backend/internal/domain/shared/valueobject"

// ResolvePaymentState derives the settlement state of an obligation from its
// total and paid amounts. The rules are evaluated in this exact order:
//
//  1. paid == 0           -> pending
//  2. paid >= total       -> paid (overpayment clamps, never negative outstanding)
//  3. otherwise           -> partially_paid
//
// Total is assumed non-negative. A zero total with zero paid resolves to
// pending; the function is total and never errors.
func ResolvePaymentState(total, paid valueobject.Money) PaymentState {
	if paid.IsZero() {
		return PaymentStatePending
	}
	if paid.GreaterThanOrEqual(total) {
		return PaymentStatePaid
	}
	return PaymentStatePartiallyPaid
}
