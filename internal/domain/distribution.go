package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DistributionSlice is one named share of the current net worth
type DistributionSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Account-type labels used by the account distribution
const (
	AccountTypeChecking    = "Zicht"
	AccountTypeSavings     = "Spaar"
	AccountTypeInvestments = "Beleggingen"
	AccountTypeCash        = "Cash"
)

var liquidAccountTypes = map[string]struct{}{
	"zicht":    {},
	"spaar":    {},
	"cash":     {},
	"checking": {},
	"savings":  {},
}

var investmentAccountTypes = map[string]struct{}{
	"beleggingen": {},
	"investments": {},
}

// IsLiquidAccountType reports whether the label counts as liquid money
func IsLiquidAccountType(name string) bool {
	_, ok := liquidAccountTypes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsInvestmentAccountType reports whether the label counts as invested money
func IsInvestmentAccountType(name string) bool {
	_, ok := investmentAccountTypes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
