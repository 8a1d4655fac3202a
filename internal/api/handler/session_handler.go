package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/navigation"
)

// RedirectSource hands out the pending login redirect, if any.
type RedirectSource interface {
	Take() *navigation.Redirect
}

type SessionHandler struct {
	session   ports.SessionService
	account   ports.AccountService
	redirects RedirectSource
}

func NewSessionHandler(session ports.SessionService, account ports.AccountService, redirects RedirectSource) *SessionHandler {
	return &SessionHandler{session: session, account: account, redirects: redirects}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	domain.Session
	Redirect *navigation.Redirect `json:"redirect,omitempty"`
}

// Get returns the current session and any redirect the client still owes.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	resp := sessionResponse{Session: h.session.Session()}
	if h.redirects != nil {
		resp.Redirect = h.redirects.Take()
	}
	return c.JSON(http.StatusOK, resp)
}

// Login authenticates against the remote API and stores the token.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Session
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.account.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.SessionAuthenticated)).Inc()
	return c.JSON(http.StatusOK, sess)
}

// Logout clears the stored token.
//
// @Summary      Logout
// @Tags         session
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return err
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.SessionAnonymous)).Inc()
	return c.NoContent(http.StatusNoContent)
}
