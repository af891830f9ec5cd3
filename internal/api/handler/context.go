package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cts/user-auth-service/internal/api/middleware"
	"github.com/cts/user-auth-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// user id means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	r, _ := c.Get(middleware.ContextRole).(string)
	return userID, domain.Role(r), nil
}
