package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/api/middleware"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// ctxSession extracts the snapshot injected by RequireSession. Its absence
// means the route was mounted without the middleware.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := c.Get(middleware.SessionKey).(domain.Session)
	if !ok || !s.IsAuthenticated() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return s, nil
}
