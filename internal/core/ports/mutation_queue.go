package ports

import "context"

// MutationQueue runs fn on the single writer responsible for key and waits
// for its result. Functions submitted under one key run in submission order.
type MutationQueue interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
