package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CostHandler handles recurring-cost ledger HTTP requests
type CostHandler struct {
	dashboardService *service.DashboardService
}

// NewCostHandler creates a new CostHandler
func NewCostHandler(dashboardService *service.DashboardService) *CostHandler {
	return &CostHandler{
		dashboardService: dashboardService,
	}
}

// CreateCostRequest represents the create cost request body
type CreateCostRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	Account   string `json:"account,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// CostResponse represents a ledger entry in API responses
type CostResponse struct {
	Index             int    `json:"index"`
	Name              string `json:"name"`
	Amount            string `json:"amount"`
	Frequency         string `json:"frequency"`
	Account           string `json:"account,omitempty"`
	Kind              string `json:"kind"`
	MonthlyEquivalent string `json:"monthlyEquivalent"`
}

// CostListResponse represents the ledger with its monthly totals
type CostListResponse struct {
	Costs           []CostResponse `json:"costs"`
	TotalMonthly    string         `json:"totalMonthly"`
	FixedMonthly    string         `json:"fixedMonthly"`
	VariableMonthly string         `json:"variableMonthly"`
}

// GetCosts handles GET /api/v1/costs
func (h *CostHandler) GetCosts(c echo.Context) error {
	ledger := h.dashboardService.ListCosts()
	byKind := service.TotalMonthlyByKind(ledger)

	resp := CostListResponse{
		Costs:           make([]CostResponse, len(ledger)),
		TotalMonthly:    money(service.TotalMonthly(ledger)),
		FixedMonthly:    money(byKind[domain.CostKindFixed]),
		VariableMonthly: money(byKind[domain.CostKindVariable]),
	}
	for i, cost := range ledger {
		resp.Costs[i] = toCostResponse(i, cost)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateCost handles POST /api/v1/costs
// Kind defaults to fixed
func (h *CostHandler) CreateCost(c echo.Context) error {
	var req CreateCostRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	kind := domain.CostKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind == "" {
		kind = domain.CostKindFixed
	}

	cost, index, err := h.dashboardService.AddCost(domain.FixedCost{
		Name:      req.Name,
		Amount:    amount,
		Frequency: domain.Frequency(strings.ToLower(strings.TrimSpace(req.Frequency))),
		Account:   req.Account,
		Kind:      kind,
	})
	if err != nil {
		return respondError(c, err, "Failed to add cost")
	}

	return c.JSON(http.StatusCreated, toCostResponse(index, *cost))
}

// DeleteCost handles DELETE /api/v1/costs/:index
func (h *CostHandler) DeleteCost(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return NewValidationError(c, "Invalid index", []ValidationError{
			{Field: "index", Message: "Must be a valid integer"},
		})
	}

	if _, err := h.dashboardService.RemoveCost(index); err != nil {
		return respondError(c, err, "Failed to remove cost")
	}

	return c.NoContent(http.StatusNoContent)
}

func toCostResponse(index int, cost domain.FixedCost) CostResponse {
	return CostResponse{
		Index:             index,
		Name:              cost.Name,
		Amount:            money(cost.Amount),
		Frequency:         string(cost.Frequency),
		Account:           cost.Account,
		Kind:              string(cost.Kind),
		MonthlyEquivalent: money(service.MonthlyEquivalent(cost)),
	}
}
