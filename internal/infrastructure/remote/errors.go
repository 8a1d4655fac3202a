package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// transportError wraps a failed round trip. A cancelled or expired caller
// context is reported as such so callers can tell it from a dead network.
func transportError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", name, ctxErr)
	}
	return fmt.Errorf("%s: %w: %v", name, domain.ErrNetworkFailure, err)
}

// classify maps a non-2xx response. 401 only means an expired session when
// the call carried a token; on login it is a plain rejection.
func classify(in call, resp *response) error {
	if resp.status >= 200 && resp.status < 300 {
		return nil
	}
	if resp.status == http.StatusUnauthorized && in.token != "" {
		return fmt.Errorf("%s: %w", in.name, domain.ErrAuthExpired)
	}
	return fmt.Errorf("%s: %w", in.name, &domain.ServerError{Status: resp.status, Detail: detail(resp.body)})
}

// detail extracts the server message from {"detail": ...} or {"error": ...}.
// Validation bodies carry a list of {"msg": ...} entries.
func detail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return envelope.Error
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		return "unauthorized"
	case errors.Is(err, domain.ErrNetworkFailure):
		return "network"
	default:
		return "rejected"
	}
}
