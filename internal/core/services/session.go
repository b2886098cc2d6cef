package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
	"github.com/lumenlearn/recall-core/internal/core/ports/driving"
)

// Ensure sessionService implements SessionService
var _ driving.SessionService = (*sessionService)(nil)

// modelPricing maps a model name to its per-million-token prices in USD
// (prompt, completion). Unknown models fall back to defaultPricing.
type modelPricing struct {
	PromptUSD     float64
	CompletionUSD float64
}

var pricingTable = map[string]modelPricing{
	"claude-sonnet-4-5": {PromptUSD: 3.00, CompletionUSD: 15.00},
	"claude-haiku-4-5":  {PromptUSD: 1.00, CompletionUSD: 5.00},
	"claude-opus-4-1":   {PromptUSD: 15.00, CompletionUSD: 75.00},
}

var defaultPricing = modelPricing{PromptUSD: 3.00, CompletionUSD: 15.00}

// sessionService implements the SessionService interface
type sessionService struct {
	store driven.SessionStore
}

// NewSessionService creates a new SessionService
func NewSessionService(store driven.SessionStore) driving.SessionService {
	return &sessionService{store: store}
}

// StartSession creates a new chat session for a user
func (s *sessionService) StartSession(ctx context.Context, userID, courseID string) (*domain.ChatSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	session := &domain.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by ID
func (s *sessionService) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	return s.store.GetSession(ctx, id)
}

// AppendTurn records a user or assistant message
func (s *sessionService) AppendTurn(ctx context.Context, sessionID string, role domain.TurnRole, content string) (*domain.ChatTurn, error) {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turn := &domain.ChatTurn{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("failed to save turn: %w", err)
	}

	session.UpdatedAt = turn.CreatedAt
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	return turn, nil
}

// RecentTurns returns the last n turns in chronological order
func (s *sessionService) RecentTurns(ctx context.Context, sessionID string, n int) ([]*domain.ChatTurn, error) {
	if n <= 0 {
		n = defaultConversationWindow
	}
	return s.store.RecentTurns(ctx, sessionID, n)
}

// RecordExchange records one exchange's token usage and computes its
// dollar cost from the pricing table
func (s *sessionService) RecordExchange(ctx context.Context, sessionID, model string, promptTokens, completionTokens int) (*domain.ExchangeCost, error) {
	if promptTokens < 0 || completionTokens < 0 {
		return nil, fmt.Errorf("%w: negative token counts", domain.ErrInvalidInput)
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pricing, ok := pricingTable[model]
	if !ok {
		pricing = defaultPricing
	}

	cost := &domain.ExchangeCost{
		ID:               uuid.NewString(),
		SessionID:        session.ID,
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD: float64(promptTokens)/1_000_000*pricing.PromptUSD +
			float64(completionTokens)/1_000_000*pricing.CompletionUSD,
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveCost(ctx, cost); err != nil {
		return nil, fmt.Errorf("failed to record exchange cost: %w", err)
	}
	return cost, nil
}

// TotalCost sums the dollar cost of every exchange in a session
func (s *sessionService) TotalCost(ctx context.Context, sessionID string) (float64, error) {
	costs, err := s.store.SessionCosts(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, c := range costs {
		total += c.CostUSD
	}
	return total, nil
}
