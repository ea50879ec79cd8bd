package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderCallerID = "Ax-Caller-Id"
	callerKey      = "ax.caller_id"
)

var reIdentity = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func ValidIdentity(s string) bool { return reIdentity.MatchString(s) }

// Identity resolves the caller from Ax-Caller-Id and stores it on the context.
// There is no authentication: the header is trusted as given.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderCallerID))
			if id == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderCallerID})
			}
			if !ValidIdentity(id) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderCallerID})
			}
			c.Set(callerKey, id)
			return next(c)
		}
	}
}

// CallerID returns the identity set by Identity, or "" outside of it.
func CallerID(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}
