package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// TokenStore keeps the access token in Redis.
// Key format: companywatch:token:<profile>
//
// Keys carry no TTL; the server decides when a token expires.
type TokenStore struct {
	client  redis.Cmdable
	profile string
}

// NewTokenStore creates a TokenStore for the named profile.
func NewTokenStore(client redis.Cmdable, profile string) ports.CredentialStore {
	if profile == "" {
		profile = "default"
	}
	return &TokenStore{client: client, profile: profile}
}

func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token get: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(), token, 0).Err(); err != nil {
		return fmt.Errorf("token set: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("token clear: %w", err)
	}
	return nil
}

func (s *TokenStore) key() string {
	return "companywatch:token:" + s.profile
}
