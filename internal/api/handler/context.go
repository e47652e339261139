package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ddfinv/backoffice/internal/api/middleware"
	"github.com/ddfinv/backoffice/internal/core/domain"
)

// ctxCaller extracts the authenticated account injected by the Auth
// middleware. Its presence proves the middleware ran; a protected route wired
// without it rejects every request with 401 instead of proceeding with a nil
// caller.
func ctxCaller(c echo.Context) (*domain.Account, error) {
	caller, _ := c.Get(middleware.CallerKey).(*domain.Account)
	if caller == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return caller, nil
}

// ctxTokenID returns the session token id injected by the Auth middleware,
// or "" when the route is unauthenticated.
func ctxTokenID(c echo.Context) string {
	id, _ := c.Get(middleware.TokenIDKey).(string)
	return id
}
