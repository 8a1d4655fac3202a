package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// SessionService is the session context object injected into every consumer.
type SessionService interface {
	Session() domain.Session
	Start(ctx context.Context) (domain.Session, error)
	Login(username string)
	Logout(ctx context.Context) error
	// Expire drives the session to anonymous after an opportunistic
	// expiry signal. Repeated signals redirect only once.
	Expire(ctx context.Context, cause domain.ExpiryCause)
	// Token returns the stored token or domain.ErrNotAuthenticated after
	// expiring the session.
	Token(ctx context.Context) (string, error)
}
