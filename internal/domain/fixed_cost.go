package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring cost is billed
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IsValid reports whether f is one of the billing frequencies
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// CostKind separates fixed bills from variable ones
type CostKind string

const (
	CostKindFixed    CostKind = "fixed"
	CostKindVariable CostKind = "variable"
)

// IsValid reports whether k is a known cost kind
func (k CostKind) IsValid() bool {
	return k == CostKindFixed || k == CostKindVariable
}

// FixedCost is one entry of the recurring-cost ledger
type FixedCost struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
	Account   string          `json:"account,omitempty"`
	Kind      CostKind        `json:"kind"`
}

// Validate checks the ledger invariants for a single cost
func (c *FixedCost) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return NewValidationError("name", ErrNameRequired)
	}
	if len(name) > MaxCostNameLength {
		return NewValidationError("name", ErrNameTooLong)
	}
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", ErrInvalidAmount)
	}
	if !c.Frequency.IsValid() {
		return NewValidationError("frequency", ErrInvalidFrequency)
	}
	if !c.Kind.IsValid() {
		return NewValidationError("kind", ErrInvalidCostKind)
	}
	return nil
}
