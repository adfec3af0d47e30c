package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Dataset is everything the dashboard loads once at startup
type Dataset struct {
	Series       []NetWorthPoint     `json:"series"`
	Notes        []MonthNote         `json:"notes"`
	Costs        []FixedCost         `json:"costs"`
	AccountTypes []DistributionSlice `json:"accountTypes"`
	Banks        []DistributionSlice `json:"banks"`
	Assumptions  *Assumptions        `json:"assumptions,omitempty"`
}

// Validate checks the series, notes and every ledger entry
func (d *Dataset) Validate() error {
	if err := ValidateSeries(d.Series); err != nil {
		return err
	}
	if err := ValidateNotes(d.Notes); err != nil {
		return err
	}
	for i := range d.Costs {
		if err := d.Costs[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DatasetSource loads the startup dataset from wherever it is persisted
type DatasetSource interface {
	Load(ctx context.Context) (*Dataset, error)
}

// SavingsAverage is the mean month-over-month change over a window
type SavingsAverage struct {
	MonthlyAverage decimal.Decimal `json:"monthlyAverage"`
	YearlyAverage  decimal.Decimal `json:"yearlyAverage"`
	Periods        int             `json:"periods"`
}

// YTDChange is the change since the first point of the last point's year
type YTDChange struct {
	Change    decimal.Decimal `json:"change"`
	Pct       decimal.Decimal `json:"pct"`
	BaseMonth *YearMonth      `json:"baseMonth,omitempty"`
}

// TrendDirection classifies the slope of monthly savings
type TrendDirection string

const (
	TrendStable    TrendDirection = "stable"
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
)

// SavingsTrend is the least-squares slope of monthly deltas
type SavingsTrend struct {
	Slope     decimal.Decimal `json:"slope"`
	Direction TrendDirection  `json:"direction"`
}

// GoalStatus is the terminal or active state of a goal projection
type GoalStatus string

const (
	GoalReached     GoalStatus = "reached"
	GoalUnreachable GoalStatus = "unreachable"
	GoalReachable   GoalStatus = "reachable"
)

// GoalProjection estimates when the goal amount is reached
type GoalProjection struct {
	GoalAmount   decimal.Decimal `json:"goalAmount"`
	Remaining    decimal.Decimal `json:"remaining"`
	Status       GoalStatus      `json:"status"`
	MonthsToGoal decimal.Decimal `json:"monthsToGoal"`
	YearsToGoal  decimal.Decimal `json:"yearsToGoal"`
	TargetMonth  *YearMonth      `json:"targetMonth,omitempty"`
}

// Projection12M extrapolates the current savings rate one year ahead
type Projection12M struct {
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
	ProjectedGrowth  decimal.Decimal `json:"projectedGrowth"`
}

// Liquidity splits the current value into liquid and invested money
type Liquidity struct {
	Liquid         decimal.Decimal `json:"liquid"`
	LiquidPct      decimal.Decimal `json:"liquidPct"`
	Investments    decimal.Decimal `json:"investments"`
	InvestmentsPct decimal.Decimal `json:"investmentsPct"`
}

// SpendingRunway is the implied spending and how long liquid money lasts
type SpendingRunway struct {
	AvgMonthlySpending decimal.Decimal `json:"avgMonthlySpending"`
	RunwayMonths       decimal.Decimal `json:"runwayMonths"`
}

// EmergencyFundStatus tiers emergency-fund coverage
type EmergencyFundStatus string

const (
	EmergencyFundExcellent    EmergencyFundStatus = "excellent"
	EmergencyFundGood         EmergencyFundStatus = "good"
	EmergencyFundFair         EmergencyFundStatus = "fair"
	EmergencyFundInsufficient EmergencyFundStatus = "insufficient"
)

// EmergencyFund compares liquid money with months of spending
type EmergencyFund struct {
	Months decimal.Decimal     `json:"months"`
	Target decimal.Decimal     `json:"target"`
	Pct    decimal.Decimal     `json:"pct"`
	Status EmergencyFundStatus `json:"status"`
}

// FinancialIndependence projects reaching 25x yearly spending
type FinancialIndependence struct {
	YearlySpending decimal.Decimal `json:"yearlySpending"`
	Target         decimal.Decimal `json:"target"`
	Pct            decimal.Decimal `json:"pct"`
	MonthsToFI     decimal.Decimal `json:"monthsToFI"`
	YearsToFI      decimal.Decimal `json:"yearsToFI"`
	TargetMonth    *YearMonth      `json:"targetMonth,omitempty"`
}

// IncomeAllocation splits income into savings, fixed costs and other costs
type IncomeAllocation struct {
	Income             decimal.Decimal `json:"income"`
	MonthlySavings     decimal.Decimal `json:"monthlySavings"`
	SavingsPctOfIncome decimal.Decimal `json:"savingsPctOfIncome"`
	CostsPctOfIncome   decimal.Decimal `json:"costsPctOfIncome"`
	TotalCosts         decimal.Decimal `json:"totalCosts"`
	FixedCosts         decimal.Decimal `json:"fixedCosts"`
	FixedPctOfCosts    decimal.Decimal `json:"fixedPctOfCosts"`
	OtherCosts         decimal.Decimal `json:"otherCosts"`
	OtherPctOfCosts    decimal.Decimal `json:"otherPctOfCosts"`
}

// TargetProgress measures this year's change against the yearly target
type TargetProgress struct {
	Target      decimal.Decimal `json:"target"`
	Progress    decimal.Decimal `json:"progress"`
	ProgressPct decimal.Decimal `json:"progressPct"`
}

// MetricsSnapshot holds every derived indicator for one read
type MetricsSnapshot struct {
	LatestMonth            *YearMonth            `json:"latestMonth,omitempty"`
	LastPointYear          int                   `json:"lastPointYear"`
	CurrentValue           decimal.Decimal       `json:"currentValue"`
	PreviousValue          decimal.Decimal       `json:"previousValue"`
	Delta                  decimal.Decimal       `json:"delta"`
	Savings                SavingsAverage        `json:"savings"`
	YTD                    YTDChange             `json:"ytd"`
	SavingsStreak          int                   `json:"savingsStreak"`
	Trend                  SavingsTrend          `json:"trend"`
	Goal                   GoalProjection        `json:"goal"`
	Projection             Projection12M         `json:"projection"`
	Liquidity              Liquidity             `json:"liquidity"`
	Spending               SpendingRunway        `json:"spending"`
	EmergencyFund          EmergencyFund         `json:"emergencyFund"`
	FinancialIndependence  FinancialIndependence `json:"financialIndependence"`
	Allocation             IncomeAllocation      `json:"allocation"`
	TargetProgress         TargetProgress        `json:"targetProgress"`
	TotalFixedMonthlyCosts decimal.Decimal       `json:"totalFixedMonthlyCosts"`
}

// DistributionShare is a slice with its share of the distribution total
type DistributionShare struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Pct   decimal.Decimal `json:"pct"`
}

// DistributionBreakdown is a distribution with its total and shares
type DistributionBreakdown struct {
	Total  decimal.Decimal     `json:"total"`
	Slices []DistributionShare `json:"slices"`
}
