package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemErrorHandler_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	p := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeNotFound, p.Type)
	assert.Equal(t, "/nope", p.Instance)
}

func TestProblemErrorHandler_WrongMethod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/ws", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	p := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeHTTP, p.Type)
	assert.Equal(t, "Method Not Allowed", p.Title)
}

func TestProblemErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/costs", nil), rec)

	ProblemErrorHandler(errors.New("boom"), c)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	p := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeInternal, p.Type)
	assert.NotContains(t, p.Detail, "boom")
}

func TestRespondError_ValidationNamesField(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/costs", nil), rec)

	err := respondError(c, domain.NewValidationError("amount", domain.ErrInvalidAmount), "Failed to add cost")
	require.NoError(t, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	p := decode[ProblemDetails](t, rec)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "amount", p.Errors[0].Field)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1250.00", money(decimal.NewFromInt(1250)))
	assert.Equal(t, "41.7", percent(decimal.RequireFromString("41.6666")))
	assert.Equal(t, "60.0", duration(decimal.NewFromInt(60)))
	assert.Nil(t, monthPtr(nil))

	m := domain.MustYearMonth(2030, 11)
	require.NotNil(t, monthPtr(&m))
	assert.Equal(t, "2030-11", *monthPtr(&m))
}
