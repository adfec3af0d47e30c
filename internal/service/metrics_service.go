package service

import (
	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// savingsWindowMonths is how far before the last point the savings window reaches
	savingsWindowMonths = 11
	// minTrendDeltas is the fewest monthly deltas a trend is fitted on
	minTrendDeltas = 3
	// fiMultiplier turns yearly spending into an FI target (4% withdrawal rule)
	fiMultiplier = 25
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultTrendThreshold is the slope, in currency units per month, below
	// which the savings trend is reported as stable
	DefaultTrendThreshold = decimal.NewFromInt(50)

	emergencyTiers = []struct {
		minPct decimal.Decimal
		status domain.EmergencyFundStatus
	}{
		{decimal.NewFromInt(100), domain.EmergencyFundExcellent},
		{decimal.NewFromInt(75), domain.EmergencyFundGood},
		{decimal.NewFromInt(50), domain.EmergencyFundFair},
	}
)

// MetricsService derives the dashboard indicators. It holds no dataset state;
// every call recomputes from the values passed in.
type MetricsService struct {
	clock          util.Clock
	trendThreshold decimal.Decimal
}

// NewMetricsService creates a new MetricsService. A negative threshold falls
// back to DefaultTrendThreshold; zero is kept and reports every non-zero slope.
func NewMetricsService(clock util.Clock, trendThreshold decimal.Decimal) *MetricsService {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if trendThreshold.IsNegative() {
		trendThreshold = DefaultTrendThreshold
	}
	return &MetricsService{clock: clock, trendThreshold: trendThreshold}
}

// TrendThreshold returns the stable/improving/declining cut-off in use
func (s *MetricsService) TrendThreshold() decimal.Decimal {
	return s.trendThreshold
}

// ComputeAll derives every indicator from the full, unfiltered series
func (s *MetricsService) ComputeAll(
	series []domain.NetWorthPoint,
	ledger []domain.FixedCost,
	assumptions domain.Assumptions,
	accountTypes []domain.DistributionSlice,
) domain.MetricsSnapshot {
	today := domain.YearMonthOf(s.clock.Now())

	current := CurrentValue(series)
	savings := Trailing12MonthSavings(series)
	monthly := savings.MonthlyAverage
	ytd := YTDChangeOf(series)
	totalFixed := TotalMonthly(ledger)
	liquidity := LiquidityOf(accountTypes, current)
	spending := SpendingAndRunway(assumptions.EstimatedMonthlyIncome, monthly, liquidity.Liquid)

	snapshot := domain.MetricsSnapshot{
		LastPointYear:          LastPointYear(series, today),
		CurrentValue:           current,
		PreviousValue:          PreviousValue(series),
		Delta:                  Delta(series),
		Savings:                savings,
		YTD:                    ytd,
		SavingsStreak:          SavingsStreak(series),
		Trend:                  SavingsTrendOf(series, s.trendThreshold),
		Goal:                   GoalProjectionOf(current, assumptions.GoalAmount, monthly, today),
		Projection:             Projection12MOf(current, monthly),
		Liquidity:              liquidity,
		Spending:               spending,
		EmergencyFund:          EmergencyFundOf(spending.AvgMonthlySpending, assumptions.EmergencyFundMonths, liquidity.Liquid),
		FinancialIndependence:  FinancialIndependenceOf(spending.AvgMonthlySpending, current, monthly, today),
		Allocation:             IncomeAllocationOf(assumptions.EstimatedMonthlyIncome, monthly, spending.AvgMonthlySpending, totalFixed),
		TargetProgress:         TargetProgressOf(ytd, assumptions.YearlySavingsTarget),
		TotalFixedMonthlyCosts: totalFixed,
	}
	if len(series) > 0 {
		latest := series[len(series)-1].Month
		snapshot.LatestMonth = &latest
	}
	return snapshot
}

// CurrentValue is the last point's value, zero for an empty series
func CurrentValue(series []domain.NetWorthPoint) decimal.Decimal {
	if len(series) == 0 {
		return decimal.Zero
	}
	return series[len(series)-1].Value
}

// PreviousValue is the second-to-last point's value, zero with fewer than two points
func PreviousValue(series []domain.NetWorthPoint) decimal.Decimal {
	if len(series) < 2 {
		return decimal.Zero
	}
	return series[len(series)-2].Value
}

// Delta is CurrentValue minus PreviousValue
func Delta(series []domain.NetWorthPoint) decimal.Decimal {
	return CurrentValue(series).Sub(PreviousValue(series))
}

// LastPointYear is the year of the last point, or today's year for an empty series
func LastPointYear(series []domain.NetWorthPoint, today domain.YearMonth) int {
	if len(series) == 0 {
		return today.Year
	}
	return series[len(series)-1].Month.Year
}

// Trailing12MonthSavings averages the monthly deltas over the 12 calendar
// months ending at the last point. Display ranges never feed into it.
func Trailing12MonthSavings(series []domain.NetWorthPoint) domain.SavingsAverage {
	return averageSavings(trailingWindow(series, savingsWindowMonths))
}

// SavingsAverageForWindow averages monthly deltas over a selectable window
func SavingsAverageForWindow(series []domain.NetWorthPoint, window domain.SavingsWindow) domain.SavingsAverage {
	switch window {
	case domain.SavingsWindowAll:
		return averageSavings(series)
	case domain.SavingsWindowSixMonths:
		return averageSavings(FilterSeries(series, domain.RangeSixMonths))
	default:
		return Trailing12MonthSavings(series)
	}
}

func averageSavings(window []domain.NetWorthPoint) domain.SavingsAverage {
	deltas := monthlyDeltas(window)
	if len(deltas) == 0 {
		return domain.SavingsAverage{MonthlyAverage: decimal.Zero, YearlyAverage: decimal.Zero}
	}
	monthly := decimal.Sum(decimal.Zero, deltas...).Div(decimal.NewFromInt(int64(len(deltas))))
	return domain.SavingsAverage{
		MonthlyAverage: monthly,
		YearlyAverage:  monthly.Mul(twelve),
		Periods:        len(deltas),
	}
}

func monthlyDeltas(window []domain.NetWorthPoint) []decimal.Decimal {
	if len(window) < 2 {
		return nil
	}
	deltas := make([]decimal.Decimal, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		deltas = append(deltas, window[i].Value.Sub(window[i-1].Value))
	}
	return deltas
}

// YTDChangeOf compares the last point with the first point of the same year
func YTDChangeOf(series []domain.NetWorthPoint) domain.YTDChange {
	result := domain.YTDChange{Change: decimal.Zero, Pct: decimal.Zero}
	if len(series) == 0 {
		return result
	}
	last := series[len(series)-1]
	for _, p := range series {
		if !p.Month.SameYear(last.Month) {
			continue
		}
		base := p.Month
		result.BaseMonth = &base
		result.Change = last.Value.Sub(p.Value)
		if !p.Value.IsZero() {
			result.Pct = percentOf(result.Change, p.Value)
		}
		break
	}
	return result
}

// SavingsStreak counts consecutive strictly positive monthly deltas ending at the last point
func SavingsStreak(series []domain.NetWorthPoint) int {
	streak := 0
	for i := len(series) - 1; i > 0; i-- {
		if !series[i].Value.GreaterThan(series[i-1].Value) {
			break
		}
		streak++
	}
	return streak
}

// SavingsTrendOf fits an ordinary least-squares line through the monthly
// deltas of the savings window and classifies its slope against threshold
func SavingsTrendOf(series []domain.NetWorthPoint, threshold decimal.Decimal) domain.SavingsTrend {
	stable := domain.SavingsTrend{Slope: decimal.Zero, Direction: domain.TrendStable}

	deltas := monthlyDeltas(trailingWindow(series, savingsWindowMonths))
	n := len(deltas)
	if n < minTrendDeltas {
		return stable
	}

	count := decimal.NewFromInt(int64(n))
	xMean := decimal.NewFromInt(int64(n - 1)).Div(decimal.NewFromInt(2))
	yMean := decimal.Sum(decimal.Zero, deltas...).Div(count)

	numerator := decimal.Zero
	denominator := decimal.Zero
	for i, y := range deltas {
		xDiff := decimal.NewFromInt(int64(i)).Sub(xMean)
		numerator = numerator.Add(xDiff.Mul(y.Sub(yMean)))
		denominator = denominator.Add(xDiff.Mul(xDiff))
	}
	if denominator.IsZero() {
		return stable
	}

	slope := numerator.Div(denominator)
	var direction domain.TrendDirection
	switch {
	case slope.Abs().LessThan(threshold):
		direction = domain.TrendStable
	case slope.IsPositive():
		direction = domain.TrendImproving
	case slope.IsNegative():
		direction = domain.TrendDeclining
	default:
		direction = domain.TrendStable
	}
	return domain.SavingsTrend{Slope: slope, Direction: direction}
}

// GoalProjectionOf estimates when current reaches goal at monthlySavings per month
func GoalProjectionOf(current, goal, monthlySavings decimal.Decimal, today domain.YearMonth) domain.GoalProjection {
	result := domain.GoalProjection{
		GoalAmount:   goal,
		Remaining:    goal.Sub(current),
		MonthsToGoal: decimal.Zero,
		YearsToGoal:  decimal.Zero,
	}

	switch {
	case result.Remaining.LessThanOrEqual(decimal.Zero):
		result.Status = domain.GoalReached
	case monthlySavings.LessThanOrEqual(decimal.Zero):
		result.Status = domain.GoalUnreachable
	default:
		result.Status = domain.GoalReachable
		result.MonthsToGoal = result.Remaining.Div(monthlySavings)
		result.YearsToGoal = result.MonthsToGoal.Div(twelve)
		target := monthsFrom(today, result.MonthsToGoal)
		result.TargetMonth = &target
	}
	return result
}

// Projection12MOf extrapolates twelve months of savings
func Projection12MOf(current, monthlySavings decimal.Decimal) domain.Projection12M {
	growth := monthlySavings.Mul(twelve)
	return domain.Projection12M{
		ProjectedBalance: current.Add(growth),
		ProjectedGrowth:  growth,
	}
}

// LiquidityOf sums the liquid and investment slices of the account distribution
func LiquidityOf(accountTypes []domain.DistributionSlice, current decimal.Decimal) domain.Liquidity {
	liquid := decimal.Zero
	investments := decimal.Zero
	for _, slice := range accountTypes {
		switch {
		case domain.IsLiquidAccountType(slice.Name):
			liquid = liquid.Add(slice.Value)
		case domain.IsInvestmentAccountType(slice.Name):
			investments = investments.Add(slice.Value)
		}
	}

	result := domain.Liquidity{
		Liquid:         liquid,
		LiquidPct:      decimal.Zero,
		Investments:    investments,
		InvestmentsPct: decimal.Zero,
	}
	if current.IsPositive() {
		result.LiquidPct = percentOf(liquid, current)
		result.InvestmentsPct = percentOf(investments, current)
	}
	return result
}

// SpendingAndRunway derives spending as income minus savings (not clamped)
// and how many months liquid money covers it
func SpendingAndRunway(income, monthlySavings, liquid decimal.Decimal) domain.SpendingRunway {
	spending := income.Sub(monthlySavings)
	runway := decimal.Zero
	if spending.IsPositive() {
		runway = liquid.Div(spending)
	}
	return domain.SpendingRunway{AvgMonthlySpending: spending, RunwayMonths: runway}
}

// EmergencyFundOf compares liquid money with the given months of spending
func EmergencyFundOf(avgMonthlySpending, months, liquid decimal.Decimal) domain.EmergencyFund {
	target := avgMonthlySpending.Mul(months)
	pct := decimal.Zero
	if target.IsPositive() {
		pct = percentOf(liquid, target)
	}
	return domain.EmergencyFund{
		Months: months,
		Target: target,
		Pct:    pct,
		Status: emergencyFundStatus(pct),
	}
}

func emergencyFundStatus(pct decimal.Decimal) domain.EmergencyFundStatus {
	for _, tier := range emergencyTiers {
		if pct.GreaterThanOrEqual(tier.minPct) {
			return tier.status
		}
	}
	return domain.EmergencyFundInsufficient
}

// FinancialIndependenceOf projects reaching 25 times yearly spending. The
// target month is only set while FI is still ahead and savings are positive.
func FinancialIndependenceOf(avgMonthlySpending, current, monthlySavings decimal.Decimal, today domain.YearMonth) domain.FinancialIndependence {
	yearly := avgMonthlySpending.Mul(twelve)
	target := yearly.Mul(decimal.NewFromInt(fiMultiplier))

	result := domain.FinancialIndependence{
		YearlySpending: yearly,
		Target:         target,
		Pct:            decimal.Zero,
		MonthsToFI:     decimal.Zero,
		YearsToFI:      decimal.Zero,
	}
	if target.IsPositive() {
		result.Pct = percentOf(current, target)
	}
	if monthlySavings.IsPositive() {
		result.MonthsToFI = target.Sub(current).Div(monthlySavings)
		result.YearsToFI = result.MonthsToFI.Div(twelve)
		if target.IsPositive() && result.Pct.LessThan(hundred) {
			month := monthsFrom(today, result.MonthsToFI)
			result.TargetMonth = &month
		}
	}
	return result
}

// IncomeAllocationOf splits income into savings and costs, and costs into
// fixed and other. OtherCosts is left unclamped.
func IncomeAllocationOf(income, monthlySavings, avgMonthlySpending, totalFixed decimal.Decimal) domain.IncomeAllocation {
	savingsPct := decimal.Zero
	if income.IsPositive() {
		savingsPct = clampPct(percentOf(monthlySavings, income))
	}
	fixedPct := decimal.Zero
	if avgMonthlySpending.IsPositive() {
		fixedPct = clampPct(percentOf(totalFixed, avgMonthlySpending))
	}

	return domain.IncomeAllocation{
		Income:             income,
		MonthlySavings:     monthlySavings,
		SavingsPctOfIncome: savingsPct,
		CostsPctOfIncome:   clampPct(hundred.Sub(savingsPct)),
		TotalCosts:         avgMonthlySpending,
		FixedCosts:         totalFixed,
		FixedPctOfCosts:    fixedPct,
		OtherCosts:         avgMonthlySpending.Sub(totalFixed),
		OtherPctOfCosts:    clampPct(hundred.Sub(fixedPct)),
	}
}

// TargetProgressOf reuses the year-to-date change as progress toward the yearly target
func TargetProgressOf(ytd domain.YTDChange, yearlyTarget decimal.Decimal) domain.TargetProgress {
	pct := decimal.Zero
	if yearlyTarget.IsPositive() {
		pct = clampPct(percentOf(ytd.Change, yearlyTarget))
	}
	return domain.TargetProgress{
		Target:      yearlyTarget,
		Progress:    ytd.Change,
		ProgressPct: pct,
	}
}

// DistributionBreakdownOf totals a distribution and gives each slice's share
func DistributionBreakdownOf(slices []domain.DistributionSlice) domain.DistributionBreakdown {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Value)
	}

	shares := make([]domain.DistributionShare, 0, len(slices))
	for _, s := range slices {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = percentOf(s.Value, total)
		}
		shares = append(shares, domain.DistributionShare{Name: s.Name, Value: s.Value, Pct: pct})
	}
	return domain.DistributionBreakdown{Total: total, Slices: shares}
}

// percentOf returns part/whole*100; whole must be non-zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(hundred).Div(whole)
}

func clamp(lo, hi, x decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(hi, x))
}

func clampPct(x decimal.Decimal) decimal.Decimal {
	return clamp(decimal.Zero, hundred, x)
}

// monthsFrom is today plus ceil(months) calendar months
func monthsFrom(today domain.YearMonth, months decimal.Decimal) domain.YearMonth {
	return today.AddMonths(int(months.Ceil().IntPart()))
}
