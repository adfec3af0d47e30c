package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// SavingsResponse represents an average-savings figure in API responses
type SavingsResponse struct {
	Window         string `json:"window,omitempty"`
	MonthlyAverage string `json:"monthlyAverage"`
	YearlyAverage  string `json:"yearlyAverage"`
	Periods        int    `json:"periods"`
}

// YTDResponse represents the year-to-date change
type YTDResponse struct {
	Change    string  `json:"change"`
	Pct       string  `json:"pct"`
	BaseMonth *string `json:"baseMonth"`
}

// TrendResponse represents the savings trend
type TrendResponse struct {
	Slope     string `json:"slope"`
	Direction string `json:"direction"`
	Threshold string `json:"threshold"`
}

// GoalResponse represents the goal projection
type GoalResponse struct {
	GoalAmount   string  `json:"goalAmount"`
	Remaining    string  `json:"remaining"`
	Status       string  `json:"status"`
	MonthsToGoal string  `json:"monthsToGoal"`
	YearsToGoal  string  `json:"yearsToGoal"`
	TargetMonth  *string `json:"targetMonth"`
}

// ProjectionResponse represents the twelve-month projection
type ProjectionResponse struct {
	ProjectedBalance string `json:"projectedBalance"`
	ProjectedGrowth  string `json:"projectedGrowth"`
}

// LiquidityResponse represents the liquid/investment split
type LiquidityResponse struct {
	Liquid         string `json:"liquid"`
	LiquidPct      string `json:"liquidPct"`
	Investments    string `json:"investments"`
	InvestmentsPct string `json:"investmentsPct"`
}

// SpendingResponse represents implied spending and runway
type SpendingResponse struct {
	AvgMonthlySpending string `json:"avgMonthlySpending"`
	RunwayMonths       string `json:"runwayMonths"`
}

// EmergencyFundResponse represents emergency-fund coverage
type EmergencyFundResponse struct {
	Months string `json:"months"`
	Target string `json:"target"`
	Pct    string `json:"pct"`
	Status string `json:"status"`
}

// FinancialIndependenceResponse represents the FI projection
type FinancialIndependenceResponse struct {
	YearlySpending string  `json:"yearlySpending"`
	Target         string  `json:"target"`
	Pct            string  `json:"pct"`
	MonthsToFI     string  `json:"monthsToFI"`
	YearsToFI      string  `json:"yearsToFI"`
	TargetMonth    *string `json:"targetMonth"`
}

// AllocationResponse represents the income allocation
type AllocationResponse struct {
	Income             string `json:"income"`
	MonthlySavings     string `json:"monthlySavings"`
	SavingsPctOfIncome string `json:"savingsPctOfIncome"`
	CostsPctOfIncome   string `json:"costsPctOfIncome"`
	TotalCosts         string `json:"totalCosts"`
	FixedCosts         string `json:"fixedCosts"`
	FixedPctOfCosts    string `json:"fixedPctOfCosts"`
	OtherCosts         string `json:"otherCosts"`
	OtherPctOfCosts    string `json:"otherPctOfCosts"`
}

// TargetProgressResponse represents progress toward the yearly target
type TargetProgressResponse struct {
	Target      string `json:"target"`
	Progress    string `json:"progress"`
	ProgressPct string `json:"progressPct"`
}

// MetricsResponse represents the full metrics snapshot API response
type MetricsResponse struct {
	LatestMonth            *string                       `json:"latestMonth"`
	LastPointYear          int                           `json:"lastPointYear"`
	CurrentValue           string                        `json:"currentValue"`
	PreviousValue          string                        `json:"previousValue"`
	Delta                  string                        `json:"delta"`
	Savings                SavingsResponse               `json:"savings"`
	YTD                    YTDResponse                   `json:"ytd"`
	SavingsStreak          int                           `json:"savingsStreak"`
	Trend                  TrendResponse                 `json:"trend"`
	Goal                   GoalResponse                  `json:"goal"`
	Projection             ProjectionResponse            `json:"projection"`
	Liquidity              LiquidityResponse             `json:"liquidity"`
	Spending               SpendingResponse              `json:"spending"`
	EmergencyFund          EmergencyFundResponse         `json:"emergencyFund"`
	FinancialIndependence  FinancialIndependenceResponse `json:"financialIndependence"`
	Allocation             AllocationResponse            `json:"allocation"`
	TargetProgress         TargetProgressResponse        `json:"targetProgress"`
	TotalFixedMonthlyCosts string                        `json:"totalFixedMonthlyCosts"`
}

// PointResponse represents one net-worth point
type PointResponse struct {
	Month string `json:"month"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// NoteResponse represents one month annotation
type NoteResponse struct {
	Month string `json:"month"`
	Text  string `json:"text"`
}

// NetWorthResponse represents the chart series for a range
type NetWorthResponse struct {
	Range  string          `json:"range"`
	Points []PointResponse `json:"points"`
	Notes  []NoteResponse  `json:"notes"`
}

// ShareResponse represents one distribution slice with its share
type ShareResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Pct   string `json:"pct"`
}

// BreakdownResponse represents one distribution
type BreakdownResponse struct {
	Total  string          `json:"total"`
	Slices []ShareResponse `json:"slices"`
}

// DistributionsResponse represents both distributions
type DistributionsResponse struct {
	AccountTypes BreakdownResponse `json:"accountTypes"`
	Banks        BreakdownResponse `json:"banks"`
}

// PointRequest represents one point in a series replacement
type PointRequest struct {
	Month string `json:"month"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// NoteRequest represents one note in a series replacement
type NoteRequest struct {
	Month string `json:"month"`
	Text  string `json:"text"`
}

// ReplaceSeriesRequest represents the replace series request body
type ReplaceSeriesRequest struct {
	Points []PointRequest `json:"points"`
	Notes  []NoteRequest  `json:"notes"`
}

// GetMetrics handles GET /api/v1/dashboard/metrics
func (h *DashboardHandler) GetMetrics(c echo.Context) error {
	snapshot := h.dashboardService.GetMetrics()
	return c.JSON(http.StatusOK, toMetricsResponse(snapshot, h.dashboardService.TrendThreshold()))
}

// GetNetWorth handles GET /api/v1/dashboard/networth?range=
// Range defaults to all
func (h *DashboardHandler) GetNetWorth(c echo.Context) error {
	r := domain.RangeAll
	if raw := c.QueryParam("range"); raw != "" {
		parsed, err := domain.ParseRange(raw)
		if err != nil {
			return NewValidationError(c, "Invalid range", []ValidationError{
				{Field: "range", Message: "Must be one of: all, ytd, 1y, 6m"},
			})
		}
		r = parsed
	}

	points, notes := h.dashboardService.GetSeries(r)
	return c.JSON(http.StatusOK, toNetWorthResponse(r, points, notes))
}

// GetSavings handles GET /api/v1/dashboard/savings?window=
// Window defaults to 12m
func (h *DashboardHandler) GetSavings(c echo.Context) error {
	window := domain.SavingsWindowTwelveMonths
	if raw := c.QueryParam("window"); raw != "" {
		parsed, err := domain.ParseSavingsWindow(raw)
		if err != nil {
			return NewValidationError(c, "Invalid window", []ValidationError{
				{Field: "window", Message: "Must be one of: all, 12m, 6m"},
			})
		}
		window = parsed
	}

	avg := h.dashboardService.GetSavingsAverage(window)
	resp := toSavingsResponse(avg)
	resp.Window = string(window)
	return c.JSON(http.StatusOK, resp)
}

// GetDistributions handles GET /api/v1/dashboard/distributions
func (h *DashboardHandler) GetDistributions(c echo.Context) error {
	accountTypes, banks := h.dashboardService.GetDistributions()
	return c.JSON(http.StatusOK, DistributionsResponse{
		AccountTypes: toBreakdownResponse(accountTypes),
		Banks:        toBreakdownResponse(banks),
	})
}

// ReplaceSeries handles PUT /api/v1/dashboard/series
func (h *DashboardHandler) ReplaceSeries(c echo.Context) error {
	var req ReplaceSeriesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	points := make([]domain.NetWorthPoint, 0, len(req.Points))
	for _, p := range req.Points {
		month, err := domain.ParseYearMonth(p.Month)
		if err != nil {
			return NewValidationError(c, "Invalid point", []ValidationError{
				{Field: "points.month", Message: "Must be formatted YYYY-MM"},
			})
		}
		value, err := decimal.NewFromString(p.Value)
		if err != nil {
			return NewValidationError(c, "Invalid point", []ValidationError{
				{Field: "points.value", Message: "Must be a valid decimal number"},
			})
		}
		points = append(points, domain.NetWorthPoint{Month: month, Label: p.Label, Value: value})
	}

	notes := make([]domain.MonthNote, 0, len(req.Notes))
	for _, n := range req.Notes {
		month, err := domain.ParseYearMonth(n.Month)
		if err != nil {
			return NewValidationError(c, "Invalid note", []ValidationError{
				{Field: "notes.month", Message: "Must be formatted YYYY-MM"},
			})
		}
		notes = append(notes, domain.MonthNote{Month: month, Text: n.Text})
	}

	if err := h.dashboardService.ReplaceSeries(points, notes); err != nil {
		return respondError(c, err, "Failed to replace series")
	}

	stored, storedNotes := h.dashboardService.GetSeries(domain.RangeAll)
	return c.JSON(http.StatusOK, toNetWorthResponse(domain.RangeAll, stored, storedNotes))
}

func toSavingsResponse(avg domain.SavingsAverage) SavingsResponse {
	return SavingsResponse{
		MonthlyAverage: money(avg.MonthlyAverage),
		YearlyAverage:  money(avg.YearlyAverage),
		Periods:        avg.Periods,
	}
}

func toNetWorthResponse(r domain.Range, points []domain.NetWorthPoint, notes []domain.MonthNote) NetWorthResponse {
	resp := NetWorthResponse{
		Range:  string(r),
		Points: make([]PointResponse, len(points)),
		Notes:  make([]NoteResponse, len(notes)),
	}
	for i, p := range points {
		resp.Points[i] = PointResponse{Month: p.Month.String(), Label: p.Label, Value: money(p.Value)}
	}
	for i, n := range notes {
		resp.Notes[i] = NoteResponse{Month: n.Month.String(), Text: n.Text}
	}
	return resp
}

func toBreakdownResponse(b domain.DistributionBreakdown) BreakdownResponse {
	resp := BreakdownResponse{
		Total:  money(b.Total),
		Slices: make([]ShareResponse, len(b.Slices)),
	}
	for i, s := range b.Slices {
		resp.Slices[i] = ShareResponse{Name: s.Name, Value: money(s.Value), Pct: percent(s.Pct)}
	}
	return resp
}

func toMetricsResponse(m domain.MetricsSnapshot, threshold decimal.Decimal) MetricsResponse {
	return MetricsResponse{
		LatestMonth:   monthPtr(m.LatestMonth),
		LastPointYear: m.LastPointYear,
		CurrentValue:  money(m.CurrentValue),
		PreviousValue: money(m.PreviousValue),
		Delta:         money(m.Delta),
		Savings:       toSavingsResponse(m.Savings),
		YTD: YTDResponse{
			Change:    money(m.YTD.Change),
			Pct:       percent(m.YTD.Pct),
			BaseMonth: monthPtr(m.YTD.BaseMonth),
		},
		SavingsStreak: m.SavingsStreak,
		Trend: TrendResponse{
			Slope:     money(m.Trend.Slope),
			Direction: string(m.Trend.Direction),
			Threshold: money(threshold),
		},
		Goal: GoalResponse{
			GoalAmount:   money(m.Goal.GoalAmount),
			Remaining:    money(m.Goal.Remaining),
			Status:       string(m.Goal.Status),
			MonthsToGoal: duration(m.Goal.MonthsToGoal),
			YearsToGoal:  duration(m.Goal.YearsToGoal),
			TargetMonth:  monthPtr(m.Goal.TargetMonth),
		},
		Projection: ProjectionResponse{
			ProjectedBalance: money(m.Projection.ProjectedBalance),
			ProjectedGrowth:  money(m.Projection.ProjectedGrowth),
		},
		Liquidity: LiquidityResponse{
			Liquid:         money(m.Liquidity.Liquid),
			LiquidPct:      percent(m.Liquidity.LiquidPct),
			Investments:    money(m.Liquidity.Investments),
			InvestmentsPct: percent(m.Liquidity.InvestmentsPct),
		},
		Spending: SpendingResponse{
			AvgMonthlySpending: money(m.Spending.AvgMonthlySpending),
			RunwayMonths:       duration(m.Spending.RunwayMonths),
		},
		EmergencyFund: EmergencyFundResponse{
			Months: duration(m.EmergencyFund.Months),
			Target: money(m.EmergencyFund.Target),
			Pct:    percent(m.EmergencyFund.Pct),
			Status: string(m.EmergencyFund.Status),
		},
		FinancialIndependence: FinancialIndependenceResponse{
			YearlySpending: money(m.FinancialIndependence.YearlySpending),
			Target:         money(m.FinancialIndependence.Target),
			Pct:            percent(m.FinancialIndependence.Pct),
			MonthsToFI:     duration(m.FinancialIndependence.MonthsToFI),
			YearsToFI:      duration(m.FinancialIndependence.YearsToFI),
			TargetMonth:    monthPtr(m.FinancialIndependence.TargetMonth),
		},
		Allocation: AllocationResponse{
			Income:             money(m.Allocation.Income),
			MonthlySavings:     money(m.Allocation.MonthlySavings),
			SavingsPctOfIncome: percent(m.Allocation.SavingsPctOfIncome),
			CostsPctOfIncome:   percent(m.Allocation.CostsPctOfIncome),
			TotalCosts:         money(m.Allocation.TotalCosts),
			FixedCosts:         money(m.Allocation.FixedCosts),
			FixedPctOfCosts:    percent(m.Allocation.FixedPctOfCosts),
			OtherCosts:         money(m.Allocation.OtherCosts),
			OtherPctOfCosts:    percent(m.Allocation.OtherPctOfCosts),
		},
		TargetProgress: TargetProgressResponse{
			Target:      money(m.TargetProgress.Target),
			Progress:    money(m.TargetProgress.Progress),
			ProgressPct: percent(m.TargetProgress.ProgressPct),
		},
		TotalFixedMonthlyCosts: money(m.TotalFixedMonthlyCosts),
	}
}
