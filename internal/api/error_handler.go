package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/api/handler"
	"github.com/notastartupanymore/companywatch/internal/api/middleware"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to HTTP status codes.
//   - Adds a login redirect hint when the session ended or a redirect is pending.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, redirects handler.RedirectSource) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if redirects != nil {
			if r := redirects.Take(); r != nil {
				resp.Redirect = r.To
			}
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Code: ve.Code}
	}

	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized, errorResponse{Error: "session expired", Redirect: middleware.LoginPath}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Redirect: middleware.LoginPath}
	case errors.Is(err, domain.ErrNetworkFailure):
		return http.StatusServiceUnavailable, errorResponse{Error: "remote service unreachable"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Error: "request cancelled"}
	}

	var se *domain.ServerError
	if errors.As(err, &se) {
		return serverStatus(se.Status), errorResponse{Error: se.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// serverStatus keeps upstream client errors visible and reports upstream
// failures as a bad gateway. An upstream 401 on an unauthenticated call is
// a refused login, not a session problem.
func serverStatus(upstream int) int {
	switch {
	case upstream == http.StatusUnauthorized:
		return http.StatusForbidden
	case upstream >= 400 && upstream < 500:
		return upstream
	default:
		return http.StatusBadGateway
	}
}
