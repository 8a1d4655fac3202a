package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// AccountService covers the account lifecycle around the session.
type AccountService interface {
	Register(ctx context.Context, reg domain.Registration) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Profile(ctx context.Context) (*domain.Profile, error)
	DeleteAccount(ctx context.Context) error
	Contact(ctx context.Context, msg domain.ContactMessage) error
}
