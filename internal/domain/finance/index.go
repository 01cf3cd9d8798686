package finance

import (
	"github.com/google/uuid"
)

// PaymentIndex is the per-run attribution index: completed payments grouped by
// the obligation they settle, plus payment-method metadata by ID. Built once
// per reconciliation run and never shared between runs.
type PaymentIndex struct {
	byReference map[ReferenceKey][]Payment
	byMethod    map[uuid.UUID]PaymentMethod
	rejected    []RecordError
}

// BuildPaymentIndex filters payments down to completed ones, validates input
// invariants and groups the survivors by reference key. Invariant violations
// go to the rejected side channel; they are excluded from all financial math
// but never silently dropped.
func BuildPaymentIndex(payments []Payment, methods []PaymentMethod) *PaymentIndex {
	idx := &PaymentIndex{
		byReference: make(map[ReferenceKey][]Payment),
		byMethod:    make(map[uuid.UUID]PaymentMethod, len(methods)),
	}

	for _, m := range methods {
		idx.byMethod[m.ID] = m
	}

	for _, p := range payments {
		if !p.Status.IsCompleted() {
			continue
		}
		if recErr := ValidatePayment(p); recErr != nil {
			idx.rejected = append(idx.rejected, *recErr)
			continue
		}
		if p.Reference == nil {
			continue
		}
		key := *p.Reference
		idx.byReference[key] = append(idx.byReference[key], p)
	}

	return idx
}

// ValidatePayment checks the input invariants a payment must satisfy to enter
// aggregation. Returns nil when the payment is acceptable.
func ValidatePayment(p Payment) *RecordError {
	if !p.Amount.IsPositive() {
		return &RecordError{
			RecordID: p.ID,
			Field:    "amount",
			Reason:   "amount must be strictly positive",
		}
	}
	if p.PartyType.RequiresParty() && p.PartyID == nil {
		return &RecordError{
			RecordID: p.ID,
			Field:    "party_id",
			Reason:   "party id is required for " + string(p.PartyType) + " payments",
		}
	}
	if p.Reference != nil && !p.Reference.Kind.IsValid() {
		return &RecordError{
			RecordID: p.ID,
			Field:    "reference",
			Reason:   "unknown reference kind " + string(p.Reference.Kind),
		}
	}
	return nil
}

// PaymentsFor returns all completed payments attributed to the given key.
// Multiple payments may reference the same obligation (partial payments); all
// of them are returned, in input order.
func (idx *PaymentIndex) PaymentsFor(key ReferenceKey) []Payment {
	return idx.byReference[key]
}

// Method looks up payment-method metadata by ID
func (idx *PaymentIndex) Method(id uuid.UUID) (PaymentMethod, bool) {
	m, ok := idx.byMethod[id]
	return m, ok
}

// MethodName returns the method name for an ID, or empty when unknown
func (idx *PaymentIndex) MethodName(id uuid.UUID) string {
	return idx.byMethod[id].Name
}

// Rejected returns the records excluded from aggregation for invariant
// violations
func (idx *PaymentIndex) Rejected() []RecordError {
	return idx.rejected
}

// ReferenceCount returns the number of distinct obligations with at least one
// attributed payment
func (idx *PaymentIndex) ReferenceCount() int {
	return len(idx.byReference)
}
