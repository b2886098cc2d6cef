package mocks

import (
	"context"
	"sync"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ChatSession
	turns    map[string][]*domain.ChatTurn
	costs    map[string][]*domain.ExchangeCost
	failErr  error
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*domain.ChatSession),
		turns:    make(map[string][]*domain.ChatTurn),
		costs:    make(map[string][]*domain.ExchangeCost),
	}
}

// SetError makes every subsequent call fail with err
func (m *MockSessionStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MockSessionStore) SaveSession(ctx context.Context, session *domain.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionStore) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.turns[turn.SessionID] = append(m.turns[turn.SessionID], turn)
	return nil
}

func (m *MockSessionStore) RecentTurns(ctx context.Context, sessionID string, n int) ([]*domain.ChatTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	turns := m.turns[sessionID]
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns, nil
}

func (m *MockSessionStore) SaveCost(ctx context.Context, cost *domain.ExchangeCost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.costs[cost.SessionID] = append(m.costs[cost.SessionID], cost)
	return nil
}

func (m *MockSessionStore) SessionCosts(ctx context.Context, sessionID string) ([]*domain.ExchangeCost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.costs[sessionID], nil
}
