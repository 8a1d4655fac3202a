// Package credstore holds the local credential store backends: an in-memory
// store and an encrypted file under the user's home directory. The Redis
// backend lives in the redis infrastructure package.
package credstore

import (
	"context"
	"sync"

	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// Memory keeps the token for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() ports.CredentialStore {
	return &Memory{}
}

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
