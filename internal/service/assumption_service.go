package service

import (
	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SetAssumption returns a copy of a with name set to value. Negative values
// are clamped to zero; an unknown name is a validation error.
func SetAssumption(a domain.Assumptions, name domain.AssumptionName, value decimal.Decimal) (domain.Assumptions, error) {
	value = decimal.Max(decimal.Zero, value)

	switch name {
	case domain.AssumptionMonthlyIncome:
		a.EstimatedMonthlyIncome = value
	case domain.AssumptionYearlySavingsTarget:
		a.YearlySavingsTarget = value
	case domain.AssumptionGoalAmount:
		a.GoalAmount = value
	case domain.AssumptionEmergencyFundMonths:
		a.EmergencyFundMonths = value
	default:
		return a, domain.NewValidationError("name", domain.ErrUnknownAssumption)
	}
	return a, nil
}

// NormalizeAssumptions clamps every negative field to zero
func NormalizeAssumptions(a domain.Assumptions) domain.Assumptions {
	a.EstimatedMonthlyIncome = decimal.Max(decimal.Zero, a.EstimatedMonthlyIncome)
	a.YearlySavingsTarget = decimal.Max(decimal.Zero, a.YearlySavingsTarget)
	a.GoalAmount = decimal.Max(decimal.Zero, a.GoalAmount)
	a.EmergencyFundMonths = decimal.Max(decimal.Zero, a.EmergencyFundMonths)
	return a
}
