package driving

import (
	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// ContextService assembles ranked results into prompts and citations.
// It performs no I/O; truncation at the token budget is a designed
// outcome, not an error.
type ContextService interface {
	// Build turns a ranked result list into a token-budgeted context block
	// plus structured source metadata
	Build(results []*domain.RankedResult, opts domain.ContextOptions) *domain.FormattedContext

	// ExtractCitations projects every result into the UI-facing citation
	// shape. Pure per-element projection - output length equals input
	// length, regardless of what Build included.
	ExtractCitations(results []*domain.RankedResult) []domain.Citation

	// BuildConversationPrompt prepends a bounded window of prior turns,
	// verbatim, ahead of a freshly built context
	BuildConversationPrompt(history []*domain.ChatTurn, contextText string, window int) string
}
