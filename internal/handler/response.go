package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://networth.app/errors/validation"
	ErrorTypeNotFound   = "https://networth.app/errors/not-found"
	ErrorTypeHTTP       = "https://networth.app/errors/http"
	ErrorTypeInternal   = "https://networth.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// ProblemErrorHandler replaces echo's default error handler so router and
// middleware errors (unknown route, wrong method, panics) share the
// problem-details body used by the handlers.
func ProblemErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "An unexpected error occurred"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	}

	errType := ErrorTypeHTTP
	switch status {
	case http.StatusNotFound:
		errType = ErrorTypeNotFound
	case http.StatusInternalServerError:
		errType = ErrorTypeInternal
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
	}

	problem := ProblemDetails{
		Type:     errType,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, problem)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}

// respondError answers a domain.ValidationError with a 400 naming the
// rejected field and anything else with a logged 500
func respondError(c echo.Context, err error, failure string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: ve.Field, Message: ve.Err.Error()},
		})
	}
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(failure)
	return NewInternalError(c, failure)
}

// money formats a currency amount with two decimals
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// percent formats a percentage with one decimal
func percent(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// duration formats a month or year count with one decimal
func duration(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// monthPtr formats an optional month as YYYY-MM
func monthPtr(m *domain.YearMonth) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}
