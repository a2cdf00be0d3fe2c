package session

import (
	"errors"
	"sync"
)

// TokenKey is the fixed key the bearer token is persisted under
const TokenKey = "token"

// ErrNoToken is returned when no token has been persisted
var ErrNoToken = errors.New("no persisted token")

// TokenStore defines the interface for persisting the bearer token between runs
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	DeleteToken() error
}

// MemoryTokenStore keeps the token for the lifetime of the process only
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// LoadToken returns the stored token or ErrNoToken
func (m *MemoryTokenStore) LoadToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

// SaveToken replaces the stored token
func (m *MemoryTokenStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// DeleteToken forgets the stored token
func (m *MemoryTokenStore) DeleteToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
