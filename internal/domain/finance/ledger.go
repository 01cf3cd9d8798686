package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared/valueobject"
)

// CashFlowCategory classifies a ledger entry as incoming or outgoing cash
type CashFlowCategory string

const (
	CashFlowIncome  CashFlowCategory = "income"
	CashFlowExpense CashFlowCategory = "expense"
)

// IsValid checks if the category is valid
func (c CashFlowCategory) IsValid() bool {
	return c == CashFlowIncome || c == CashFlowExpense
}

// Method buckets for per-method totals. Methods are matched by
// case-insensitive substring on their name; anything unmatched lands in
// MethodBucketOther.
const (
	MethodBucketCash   = "cash"
	MethodBucketCheque = "cheque"
	MethodBucketCredit = "credit"
	MethodBucketOther  = "other"
)

// LedgerEntry is one row of the chronological cash-flow ledger
type LedgerEntry struct {
	SourceID       uuid.UUID         `json:"source_id"`
	Reference      string            `json:"reference,omitempty"`
	Date           time.Time         `json:"date"`
	Description    string            `json:"description"`
	Category       CashFlowCategory  `json:"category"`
	MethodName     string            `json:"method_name"`
	Amount         valueobject.Money `json:"amount"`
	SignedAmount   valueobject.Money `json:"signed_amount"`
	RunningBalance valueobject.Money `json:"running_balance"`
}

// LedgerFilter narrows the ledger before the running balance is computed, so
// the balance answers "what would my balance look like under this filter"
// rather than slicing a global balance after the fact. Pagination is applied
// last and never affects balance values.
type LedgerFilter struct {
	From     *time.Time
	To       *time.Time
	Method   string
	Category *CashFlowCategory
	Page     int
	PageSize int
}

// MethodTotals is the income/outgoing split for one method bucket
type MethodTotals struct {
	Income   valueobject.Money `json:"income"`
	Outgoing valueobject.Money `json:"outgoing"`
}

// LedgerResult is the filtered, balanced, paginated cash-flow view
type LedgerResult struct {
	Entries        []LedgerEntry           `json:"entries"`
	Total          int64                   `json:"total"`
	TotalIncome    valueobject.Money       `json:"total_income"`
	TotalExpense   valueobject.Money       `json:"total_expense"`
	NetCashFlow    valueobject.Money       `json:"net_cash_flow"`
	TotalsByMethod map[string]MethodTotals `json:"totals_by_method"`
	Rejected       []RecordError           `json:"rejected,omitempty"`
}

// BuildLedger merges completed payments into a single time-ordered cash-flow
// stream. Order of operations matters and is fixed:
//
//  1. filter to completed payments, rejecting invariant violations
//  2. classify each as income or expense by payment type
//  3. stable sort ascending by date, ties kept in input order
//  4. apply caller filters
//  5. fold the running balance over the filtered stream
//  6. paginate as a pure slice of the balanced entries
//
// Orphaned payments (no matching obligation) are included here even though
// the balance aggregator excluded them. Entries with a zero date are dropped
// from date-filtered views only.
func BuildLedger(payments []Payment, idx *PaymentIndex, filter LedgerFilter) LedgerResult {
	result := LedgerResult{
		TotalIncome:    valueobject.ZeroMoney(),
		TotalExpense:   valueobject.ZeroMoney(),
		NetCashFlow:    valueobject.ZeroMoney(),
		TotalsByMethod: make(map[string]MethodTotals),
	}

	entries := make([]LedgerEntry, 0, len(payments))
	for _, p := range payments {
		if !p.Status.IsCompleted() {
			continue
		}
		if recErr := ValidatePayment(p); recErr != nil {
			result.Rejected = append(result.Rejected, *recErr)
			continue
		}
		category := p.Type.CashFlowCategory()
		signed := p.Amount
		if category == CashFlowExpense {
			signed = p.Amount.Negate()
		}
		methodName := idx.MethodName(p.MethodID)
		entries = append(entries, LedgerEntry{
			SourceID:     p.ID,
			Reference:    referenceLabel(p.Reference),
			Date:         p.Date,
			Description:  describePayment(p.Type, methodName),
			Category:     category,
			MethodName:   methodName,
			Amount:       p.Amount,
			SignedAmount: signed,
		})
	}

	// Stable sort keeps insertion order on equal dates, which keeps the
	// running balance deterministic.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	filtered := entries[:0:0]
	for _, e := range entries {
		if !matchesFilter(e, filter) {
			continue
		}
		filtered = append(filtered, e)
	}

	balance := valueobject.ZeroMoney()
	for i := range filtered {
		balance = balance.Add(filtered[i].SignedAmount)
		filtered[i].RunningBalance = balance

		bucket := methodBucket(filtered[i].MethodName)
		totals, ok := result.TotalsByMethod[bucket]
		if !ok {
			totals = MethodTotals{Income: valueobject.ZeroMoney(), Outgoing: valueobject.ZeroMoney()}
		}
		if filtered[i].Category == CashFlowIncome {
			totals.Income = totals.Income.Add(filtered[i].Amount)
			result.TotalIncome = result.TotalIncome.Add(filtered[i].Amount)
		} else {
			totals.Outgoing = totals.Outgoing.Add(filtered[i].Amount)
			result.TotalExpense = result.TotalExpense.Add(filtered[i].Amount)
		}
		result.TotalsByMethod[bucket] = totals
	}
	result.NetCashFlow = result.TotalIncome.Subtract(result.TotalExpense)
	result.Total = int64(len(filtered))
	result.Entries = paginate(filtered, filter.Page, filter.PageSize)

	return result
}

func matchesFilter(e LedgerEntry, filter LedgerFilter) bool {
	dateFiltered := filter.From != nil || filter.To != nil
	if dateFiltered && e.Date.IsZero() {
		// Unparseable dates stay out of date-scoped views but still count
		// in unfiltered totals.
		return false
	}
	if filter.From != nil && e.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.Date.After(*filter.To) {
		return false
	}
	if filter.Method != "" && !strings.Contains(strings.ToLower(e.MethodName), strings.ToLower(filter.Method)) {
		return false
	}
	if filter.Category != nil && e.Category != *filter.Category {
		return false
	}
	return true
}

// paginate slices the already-ordered, already-balanced entries. Page numbers
// start at 1; a zero page size means no pagination.
func paginate(entries []LedgerEntry, page, pageSize int) []LedgerEntry {
	if pageSize <= 0 {
		return entries
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []LedgerEntry{}
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

func methodBucket(methodName string) string {
	lowered := strings.ToLower(methodName)
	switch {
	case strings.Contains(lowered, MethodBucketCash):
		return MethodBucketCash
	case strings.Contains(lowered, MethodBucketCheque):
		return MethodBucketCheque
	case strings.Contains(lowered, MethodBucketCredit):
		return MethodBucketCredit
	default:
		return MethodBucketOther
	}
}

func referenceLabel(ref *ReferenceKey) string {
	if ref == nil {
		return ""
	}
	return strings.ToLower(string(ref.Kind)) + "/" + shortID(ref.ID)
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func describePayment(t PaymentType, methodName string) string {
	label := strings.ReplaceAll(string(t), "_", " ")
	if methodName == "" {
		return label
	}
	return label + " via " + methodName
}
