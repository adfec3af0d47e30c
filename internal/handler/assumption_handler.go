package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AssumptionHandler handles assumption HTTP requests
type AssumptionHandler struct {
	dashboardService *service.DashboardService
}

// NewAssumptionHandler creates a new AssumptionHandler
func NewAssumptionHandler(dashboardService *service.DashboardService) *AssumptionHandler {
	return &AssumptionHandler{
		dashboardService: dashboardService,
	}
}

// UpdateAssumptionRequest represents the update assumption request body
type UpdateAssumptionRequest struct {
	Value string `json:"value"`
}

// AssumptionsResponse represents the assumptions in API responses
type AssumptionsResponse struct {
	EstimatedMonthlyIncome string `json:"estimatedMonthlyIncome"`
	YearlySavingsTarget    string `json:"yearlySavingsTarget"`
	GoalAmount             string `json:"goalAmount"`
	EmergencyFundMonths    string `json:"emergencyFundMonths"`
}

// GetAssumptions handles GET /api/v1/assumptions
func (h *AssumptionHandler) GetAssumptions(c echo.Context) error {
	return c.JSON(http.StatusOK, toAssumptionsResponse(h.dashboardService.GetAssumptions()))
}

// UpdateAssumption handles PUT /api/v1/assumptions/:name
// Negative values are stored as zero
func (h *AssumptionHandler) UpdateAssumption(c echo.Context) error {
	name, err := domain.ParseAssumptionName(c.Param("name"))
	if err != nil {
		return NewValidationError(c, "Unknown assumption", []ValidationError{
			{Field: "name", Message: "Must be one of: estimatedMonthlyIncome, yearlySavingsTarget, goalAmount, emergencyFundMonths"},
		})
	}

	var req UpdateAssumptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(req.Value))
	if err != nil {
		return NewValidationError(c, "Invalid value", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
	}

	updated, err := h.dashboardService.SetAssumption(name, value)
	if err != nil {
		return respondError(c, err, "Failed to update assumption")
	}

	return c.JSON(http.StatusOK, toAssumptionsResponse(updated))
}

func toAssumptionsResponse(a domain.Assumptions) AssumptionsResponse {
	return AssumptionsResponse{
		EstimatedMonthlyIncome: money(a.EstimatedMonthlyIncome),
		YearlySavingsTarget:    money(a.YearlySavingsTarget),
		GoalAmount:             money(a.GoalAmount),
		EmergencyFundMonths:    duration(a.EmergencyFundMonths),
	}
}
