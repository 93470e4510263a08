package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// Context keys written by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// callerFrom extracts the identity injected by the Auth middleware. A missing
// user id means the route was registered outside the protected group.
func callerFrom(c echo.Context) (domain.Caller, error) {
	userID, _ := c.Get(CtxUserID).(string)
	role, _ := c.Get(CtxRole).(domain.Role)
	if userID == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Caller{UserID: userID, Role: role}, nil
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
