// Package handler exposes the entity store over a JSON HTTP API. Errors
// are returned as {"error": "..."} with a 4xx or 5xx status.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

// queryDecimal parses an optional decimal query parameter. The second
// result is false when the value is present but malformed.
func queryDecimal(c echo.Context, name string) (*decimal.Decimal, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, false
	}
	return &d, true
}
