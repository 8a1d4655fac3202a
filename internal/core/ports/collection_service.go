package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// CollectionService manages one server-synchronised set of keys
// (subscriptions or filters).
type CollectionService interface {
	Name() string
	Items() []string
	Contains(item string) bool
	Load(profile *domain.Profile)
	// Ensure fetches the set unless it is already loaded for the current
	// session user.
	Ensure(ctx context.Context) error
	Refresh(ctx context.Context) ([]string, error)
	Add(ctx context.Context, item string) ([]string, error)
	Remove(ctx context.Context, item string) ([]string, error)
	Toggle(ctx context.Context, item string) ([]string, error)
}
