package driving

import (
	"context"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// SessionService tracks conversational state and per-exchange cost.
// Consumed by the search orchestrator's callers, never by the
// orchestrator itself.
type SessionService interface {
	// StartSession creates a new chat session for a user
	StartSession(ctx context.Context, userID, courseID string) (*domain.ChatSession, error)

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)

	// AppendTurn records a user or assistant message
	AppendTurn(ctx context.Context, sessionID string, role domain.TurnRole, content string) (*domain.ChatTurn, error)

	// RecentTurns returns the last n turns in chronological order
	RecentTurns(ctx context.Context, sessionID string, n int) ([]*domain.ChatTurn, error)

	// RecordExchange records the token usage of one exchange and returns
	// the cost entry with its dollar amount filled in
	RecordExchange(ctx context.Context, sessionID, model string, promptTokens, completionTokens int) (*domain.ExchangeCost, error)

	// TotalCost sums the dollar cost of every exchange in a session
	TotalCost(ctx context.Context, sessionID string) (float64, error)
}
