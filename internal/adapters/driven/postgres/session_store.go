package postgres

import (
	"context"
	"database/sql"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore implements driven.SessionStore using PostgreSQL
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// SaveSession creates or updates a session
func (s *SessionStore) SaveSession(ctx context.Context, session *domain.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, course_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.CourseID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

// GetSession retrieves a session by ID
func (s *SessionStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	query := `
		SELECT id, user_id, course_id, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1
	`

	session := &domain.ChatSession{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.CourseID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// SaveTurn appends a turn to a session
func (s *SessionStore) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	query := `
		INSERT INTO chat_turns (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		turn.ID,
		turn.SessionID,
		turn.Role,
		turn.Content,
		turn.CreatedAt,
	)
	return err
}

// RecentTurns returns the last n turns of a session in chronological order
func (s *SessionStore) RecentTurns(ctx context.Context, sessionID string, n int) ([]*domain.ChatTurn, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_turns
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*domain.ChatTurn
	for rows.Next() {
		turn := &domain.ChatTurn{}
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return turns, nil
}

// SaveCost records one exchange's token and dollar cost
func (s *SessionStore) SaveCost(ctx context.Context, cost *domain.ExchangeCost) error {
	query := `
		INSERT INTO exchange_costs (id, session_id, model, prompt_tokens, completion_tokens, cost_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		cost.ID,
		cost.SessionID,
		cost.Model,
		cost.PromptTokens,
		cost.CompletionTokens,
		cost.CostUSD,
		cost.CreatedAt,
	)
	return err
}

// SessionCosts returns all cost records for a session
func (s *SessionStore) SessionCosts(ctx context.Context, sessionID string) ([]*domain.ExchangeCost, error) {
	query := `
		SELECT id, session_id, model, prompt_tokens, completion_tokens, cost_usd, created_at
		FROM exchange_costs
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costs []*domain.ExchangeCost
	for rows.Next() {
		cost := &domain.ExchangeCost{}
		err := rows.Scan(
			&cost.ID,
			&cost.SessionID,
			&cost.Model,
			&cost.PromptTokens,
			&cost.CompletionTokens,
			&cost.CostUSD,
			&cost.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return costs, nil
}
