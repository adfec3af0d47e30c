package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const errorTypeRateLimit = "https://networth.app/errors/rate-limit"

// problemDetails mirrors the handler package's RFC 7807 body
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeProblem(c echo.Context, status int, errType, title, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func rateLimitError(c echo.Context, retryAfterSeconds int) error {
	return writeProblem(c, http.StatusTooManyRequests, errorTypeRateLimit, "Rate Limit Exceeded",
		fmt.Sprintf("Too many changes. Retry after %d seconds.", retryAfterSeconds))
}
