// Package allocation distributes income over expense categories.
//
// Every consumer that shows allocated amounts, percentages or the unallocated
// remainder computes them here. The functions are pure: they never modify their
// inputs and return the same result for the same inputs regardless of order.
package allocation

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleType is the way a rule derives its contribution from its income source.
type RuleType string

const (
	Percentage RuleType = "percentage"
	Fixed      RuleType = "fixed"
)

// Valid reports if the type is one the engine knows.
func (t RuleType) Valid() bool {
	return t == Percentage || t == Fixed
}

// Uncategorized is the key for income that has no category.
var Uncategorized = uuid.Nil

var hundred = decimal.NewFromInt(100)

// Income is a single income entry as seen by the engine.
type Income struct {
	CategoryID uuid.UUID // Uncategorized if the entry has no category
	Amount     decimal.Decimal
	Currency   string
}

// Rule routes a share of one income category to one expense category.
type Rule struct {
	ID                uuid.UUID
	ExpenseCategoryID uuid.UUID
	IncomeCategoryID  uuid.UUID
	Type              RuleType
	Value             decimal.Decimal
}

// Contribution is the amount a single rule adds to its expense category.
type Contribution struct {
	Rule   Rule
	Amount decimal.Decimal
}

// Allocation is the result for one expense category.
type Allocation struct {
	ExpenseCategoryID uuid.UUID
	Amount            decimal.Decimal
	Percent           decimal.Decimal // 0-100 scale, share of the total income
	Contributions     []Contribution
}

// Summary is the complete result of a computation.
type Summary struct {
	TotalIncome      decimal.Decimal
	IncomeByCategory map[uuid.UUID]decimal.Decimal
	Allocations      []Allocation
	Allocated        decimal.Decimal
	AllocatedPercent decimal.Decimal
	Remainder        decimal.Decimal
}

// SumIncomeByCategory sums all entries per income category. Entries without
// a category are summed under Uncategorized.
func SumIncomeByCategory(entries []Income) map[uuid.UUID]decimal.Decimal {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range entries {
		sums[e.CategoryID] = sums[e.CategoryID].Add(e.Amount)
	}
	return sums
}

// SumIncomeTotal sums all entries.
func SumIncomeTotal(entries []Income) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// SumIncomeByCurrency sums all entries per currency code.
//
// Amounts in different currencies are never converted, the result is for display only.
func SumIncomeByCurrency(entries []Income) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		code := strings.ToUpper(e.Currency)
		sums[code] = sums[code].Add(e.Amount)
	}
	return sums
}

// FilterCurrency returns the entries in the given currency.
func FilterCurrency(entries []Income, currency string) []Income {
	filtered := make([]Income, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(e.Currency, currency) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Contribute returns the amount a single rule contributes.
//
// The source is the income of the rule's income category, zero if there is none.
// Percentage rules yield source * value / 100 and may exceed the source. Fixed
// rules yield the value, capped at the source.
func Contribute(rule Rule, incomeByCategory map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	source := decimal.Zero
	if rule.IncomeCategoryID != Uncategorized {
		source = incomeByCategory[rule.IncomeCategoryID]
	}

	switch rule.Type {
	case Percentage:
		return source.Mul(rule.Value).Div(hundred)
	case Fixed:
		return decimal.Min(rule.Value, source)
	}

	return decimal.Zero
}

// CategoryAllocation sums the contributions of all rules for the expense category.
// Rules for the same income category add up.
func CategoryAllocation(expenseCategoryID uuid.UUID, rules []Rule, incomeByCategory map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	for _, r := range rules {
		if r.ExpenseCategoryID != expenseCategoryID {
			continue
		}
		amount = amount.Add(Contribute(r, incomeByCategory))
	}
	return amount
}

// PercentOfTotal returns the amount as percentage of the total, 0 if the total is not positive.
func PercentOfTotal(amount, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(hundred).Div(total)
}

// UnallocatedRemainder returns the part of the total not covered by the allocations.
// It is negative when more is allocated than earned.
func UnallocatedRemainder(total decimal.Decimal, allocations []Allocation) decimal.Decimal {
	remainder := total
	for _, a := range allocations {
		remainder = remainder.Sub(a.Amount)
	}
	return remainder
}

// Compute allocates the income entries to the expense categories.
//
// Allocations are returned in the order of expenseCategoryIDs. Categories that
// only appear in rules are appended, sorted by ID, so that the remainder always
// accounts for every rule.
func Compute(expenseCategoryIDs []uuid.UUID, rules []Rule, entries []Income) Summary {
	byCategory := SumIncomeByCategory(entries)
	total := SumIncomeTotal(entries)

	ids := make([]uuid.UUID, 0, len(expenseCategoryIDs))
	seen := make(map[uuid.UUID]bool, len(expenseCategoryIDs))
	for _, id := range expenseCategoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	var extra []uuid.UUID
	for _, r := range rules {
		if !seen[r.ExpenseCategoryID] {
			seen[r.ExpenseCategoryID] = true
			extra = append(extra, r.ExpenseCategoryID)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return extra[i].String() < extra[j].String()
	})
	ids = append(ids, extra...)

	allocations := make([]Allocation, 0, len(ids))
	allocated := decimal.Zero
	for _, id := range ids {
		a := Allocation{ExpenseCategoryID: id, Contributions: []Contribution{}, Amount: decimal.Zero}
		for _, r := range rules {
			if r.ExpenseCategoryID != id {
				continue
			}
			amount := Contribute(r, byCategory)
			a.Contributions = append(a.Contributions, Contribution{Rule: r, Amount: amount})
			a.Amount = a.Amount.Add(amount)
		}

		a.Percent = PercentOfTotal(a.Amount, total)
		allocated = allocated.Add(a.Amount)
		allocations = append(allocations, a)
	}

	return Summary{
		TotalIncome:      total,
		IncomeByCategory: byCategory,
		Allocations:      allocations,
		Allocated:        allocated,
		AllocatedPercent: PercentOfTotal(allocated, total),
		Remainder:        UnallocatedRemainder(total, allocations),
	}
}
