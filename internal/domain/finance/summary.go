package finance

import (
	"time"

	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// Summary rolls the derived views into dashboard totals. Receivables is the
// money owed to the tenant (outstanding on sales invoices); payables is the
// money the tenant owes (outstanding on purchase invoices plus expenses).
type Summary struct {
	Receivables  valueobject.Money `json:"receivables"`
	Payables     valueobject.Money `json:"payables"`
	NetPosition  valueobject.Money `json:"net_position"`
	InvoiceCount int               `json:"invoice_count"`
	PaymentCount int               `json:"payment_count"`
	OverdueCount int               `json:"overdue_count"`
}

// Summarize rolls balance views into dashboard totals. An invoice is overdue
// when its due date is before now and the derived status is not paid;
// invoices without a due date never count as overdue. PaymentCount counts
// completed payments in the snapshot.
func Summarize(invoices []Invoice, expenses []Expense, views map[ReferenceKey]BalanceView, payments []Payment, now time.Time) Summary {
	s := Summary{
		Receivables: valueobject.ZeroMoney(),
		Payables:    valueobject.ZeroMoney(),
	}

	for _, inv := range invoices {
		view, ok := views[inv.Key()]
		if !ok {
			continue
		}
		if inv.Kind == InvoiceKindSales {
			s.Receivables = s.Receivables.Add(view.Outstanding)
		} else {
			s.Payables = s.Payables.Add(view.Outstanding)
		}
		s.InvoiceCount++
		if !inv.DueDate.IsZero() && inv.DueDate.Before(now) && view.Status != PaymentStatePaid {
			s.OverdueCount++
		}
	}

	for _, exp := range expenses {
		view, ok := views[exp.Key()]
		if !ok {
			continue
		}
		s.Payables = s.Payables.Add(view.Outstanding)
	}

	for _, p := range payments {
		if p.Status.IsCompleted() {
			s.PaymentCount++
		}
	}

	s.NetPosition = s.Receivables.Subtract(s.Payables)
	return s
}
