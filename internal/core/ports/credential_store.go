package ports

import "context"

// CredentialStore persists the single access token. An empty token means
// none is stored. Implementations do no validation.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
