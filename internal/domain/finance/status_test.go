package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

func TestResolvePaymentState(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		paid  float64
		want  PaymentState
	}{
		{"nothing paid", 1000, 0, PaymentStatePending},
		{"partially paid", 1000, 300, PaymentStatePartiallyPaid},
		{"exactly paid", 1000, 1000, PaymentStatePaid},
		{"overpaid clamps to paid", 1000, 1200, PaymentStatePaid},
		{"one cent short", 1000, 999.99, PaymentStatePartiallyPaid},
		{"zero total zero paid", 0, 0, PaymentStatePending},
		{"zero total with payment", 0, 10, PaymentStatePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePaymentState(
				valueobject.NewMoneyFromFloat(tt.total),
				valueobject.NewMoneyFromFloat(tt.paid),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

// State is non-decreasing in paidness: pending -> partially_paid -> paid,
// never reversing as paid grows from zero past total.
func TestResolvePaymentState_Monotonic(t *testing.T) {
	total := valueobject.NewMoneyFromInt(500)
	rank := map[PaymentState]int{
		PaymentStatePending:       0,
		PaymentStatePartiallyPaid: 1,
		PaymentStatePaid:          2,
	}

	prev := -1
	for paid := int64(0); paid <= 700; paid += 50 {
		state := ResolvePaymentState(total, valueobject.NewMoneyFromInt(paid))
		assert.GreaterOrEqual(t, rank[state], prev, "state regressed at paid=%d", paid)
		prev = rank[state]
	}
}
