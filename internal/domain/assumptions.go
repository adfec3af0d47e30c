package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AssumptionName identifies one user-editable scalar
type AssumptionName string

const (
	AssumptionMonthlyIncome       AssumptionName = "estimatedMonthlyIncome"
	AssumptionYearlySavingsTarget AssumptionName = "yearlySavingsTarget"
	AssumptionGoalAmount          AssumptionName = "goalAmount"
	AssumptionEmergencyFundMonths AssumptionName = "emergencyFundMonths"
)

// Assumptions are the user-editable inputs to the metrics, all non-negative
type Assumptions struct {
	EstimatedMonthlyIncome decimal.Decimal `json:"estimatedMonthlyIncome"`
	YearlySavingsTarget    decimal.Decimal `json:"yearlySavingsTarget"`
	GoalAmount             decimal.Decimal `json:"goalAmount"`
	EmergencyFundMonths    decimal.Decimal `json:"emergencyFundMonths"`
}

// DefaultAssumptions are the values a fresh dashboard starts with
func DefaultAssumptions() Assumptions {
	return Assumptions{
		EstimatedMonthlyIncome: decimal.NewFromInt(5000),
		YearlySavingsTarget:    decimal.NewFromInt(10000),
		GoalAmount:             decimal.NewFromInt(400000),
		EmergencyFundMonths:    decimal.NewFromInt(6),
	}
}

// ParseAssumptionName resolves a name case-insensitively
func ParseAssumptionName(s string) (AssumptionName, error) {
	for _, name := range []AssumptionName{
		AssumptionMonthlyIncome,
		AssumptionYearlySavingsTarget,
		AssumptionGoalAmount,
		AssumptionEmergencyFundMonths,
	} {
		if strings.EqualFold(string(name), strings.TrimSpace(s)) {
			return name, nil
		}
	}
	return "", NewValidationError("name", ErrUnknownAssumption)
}

// Get returns the value stored under name
func (a Assumptions) Get(name AssumptionName) (decimal.Decimal, error) {
	switch name {
	case AssumptionMonthlyIncome:
		return a.EstimatedMonthlyIncome, nil
	case AssumptionYearlySavingsTarget:
		return a.YearlySavingsTarget, nil
	case AssumptionGoalAmount:
		return a.GoalAmount, nil
	case AssumptionEmergencyFundMonths:
		return a.EmergencyFundMonths, nil
	}
	return decimal.Zero, NewValidationError("name", ErrUnknownAssumption)
}
