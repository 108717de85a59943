package auth

import (
	"context"
	"sync"
)

// MemoryTokenStore is the single-node default and the test double.
type MemoryTokenStore struct {
	mu      sync.Mutex
	byToken map[string]string
	byUser  map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		byToken: make(map[string]string),
		byUser:  make(map[string]string),
	}
}

func (m *MemoryTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byUser[userID]; ok {
		return token, nil
	}

	token, err := newKey()
	if err != nil {
		return "", err
	}

	m.byToken[token] = userID
	m.byUser[userID] = token
	return token, nil
}

func (m *MemoryTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, ok := m.byToken[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	return userID, nil
}

func (m *MemoryTokenStore) RevokeUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byUser[userID]; ok {
		delete(m.byToken, token)
		delete(m.byUser, userID)
	}
	return nil
}
