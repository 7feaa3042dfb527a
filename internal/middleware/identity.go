package middleware

import "github.com/labstack/echo/v4"

// UserIDHeader carries the caller's user id. It is trusted as sent and
// only used to partition rate limits and logs.
const UserIDHeader = "X-User-ID"

// userID returns the caller id from the request header, or "guest".
func userID(c echo.Context) string {
	if v := c.Request().Header.Get(UserIDHeader); v != "" {
		return v
	}
	return "guest"
}
