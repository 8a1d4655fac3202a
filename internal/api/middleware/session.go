package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// SessionKey is the echo context key holding the domain.Session snapshot.
const SessionKey = "session"

// LoginPath is the redirect hint sent with 401 answers.
const LoginPath = "/login"

type unauthorizedResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// RequireState lets a request through only when the session is in one of
// the allowed states, and injects the snapshot into the context.
func RequireState(session ports.SessionService, allowed ...domain.SessionState) echo.MiddlewareFunc {
	set := make(map[domain.SessionState]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := session.Session()
			if _, ok := set[snap.State]; !ok {
				if snap.IsAuthenticated() {
					return c.JSON(http.StatusConflict, map[string]string{"error": "already logged in"})
				}
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse{
					Error:    "authentication required",
					Redirect: LoginPath,
				})
			}
			c.Set(SessionKey, snap)
			return next(c)
		}
	}
}

// RequireSession admits authenticated sessions only.
func RequireSession(session ports.SessionService) echo.MiddlewareFunc {
	return RequireState(session, domain.SessionAuthenticated)
}

// RequireAnonymous admits requests without an authenticated session, as
// login and registration do.
func RequireAnonymous(session ports.SessionService) echo.MiddlewareFunc {
	return RequireState(session, domain.SessionAnonymous, domain.SessionUnknown)
}
