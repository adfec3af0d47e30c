package service

import (
	"fmt"
	"strings"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
)

// MonthlyEquivalent normalises a cost to a per-month amount.
// An unknown frequency is a caller bug and panics.
func MonthlyEquivalent(cost domain.FixedCost) decimal.Decimal {
	switch cost.Frequency {
	case domain.FrequencyMonthly:
		return cost.Amount
	case domain.FrequencyQuarterly:
		return cost.Amount.Div(three)
	case domain.FrequencyYearly:
		return cost.Amount.Div(twelve)
	}
	panic(fmt.Sprintf("monthly equivalent: unknown frequency %q", cost.Frequency))
}

// TotalMonthly sums the monthly equivalents of the ledger, zero when empty
func TotalMonthly(ledger []domain.FixedCost) decimal.Decimal {
	total := decimal.Zero
	for _, c := range ledger {
		total = total.Add(MonthlyEquivalent(c))
	}
	return total
}

// TotalMonthlyByKind splits TotalMonthly into fixed and variable costs
func TotalMonthlyByKind(ledger []domain.FixedCost) map[domain.CostKind]decimal.Decimal {
	totals := map[domain.CostKind]decimal.Decimal{
		domain.CostKindFixed:    decimal.Zero,
		domain.CostKindVariable: decimal.Zero,
	}
	for _, c := range ledger {
		totals[c.Kind] = totals[c.Kind].Add(MonthlyEquivalent(c))
	}
	return totals
}

// AddCost returns a new ledger with cost appended. An invalid cost is
// rejected with a validation error and the input ledger is returned as is.
func AddCost(ledger []domain.FixedCost, cost domain.FixedCost) ([]domain.FixedCost, error) {
	if err := cost.Validate(); err != nil {
		return ledger, err
	}
	cost.Name = strings.TrimSpace(cost.Name)
	cost.Account = strings.TrimSpace(cost.Account)

	out := make([]domain.FixedCost, len(ledger), len(ledger)+1)
	copy(out, ledger)
	return append(out, cost), nil
}

// RemoveCost returns a new ledger without the entry at index
func RemoveCost(ledger []domain.FixedCost, index int) ([]domain.FixedCost, error) {
	if index < 0 || index >= len(ledger) {
		return ledger, domain.NewValidationError("index", domain.ErrIndexOutOfRange)
	}
	out := make([]domain.FixedCost, 0, len(ledger)-1)
	out = append(out, ledger[:index]...)
	return append(out, ledger[index+1:]...), nil
}
