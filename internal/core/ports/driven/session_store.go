package driven

import (
	"context"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// SessionStore persists chat sessions, turns and exchange costs
// (PostgreSQL)
type SessionStore interface {
	// SaveSession creates or updates a session
	SaveSession(ctx context.Context, session *domain.ChatSession) error

	// GetSession retrieves a session by ID, domain.ErrSessionNotFound if absent
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)

	// SaveTurn appends a turn to a session
	SaveTurn(ctx context.Context, turn *domain.ChatTurn) error

	// RecentTurns returns the last n turns of a session in chronological order
	RecentTurns(ctx context.Context, sessionID string, n int) ([]*domain.ChatTurn, error)

	// SaveCost records one exchange's token and dollar cost
	SaveCost(ctx context.Context, cost *domain.ExchangeCost) error

	// SessionCosts returns all cost records for a session
	SessionCosts(ctx context.Context, sessionID string) ([]*domain.ExchangeCost, error)
}
