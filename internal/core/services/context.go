package services

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
	"github.com/lumenlearn/recall-core/internal/core/ports/driving"
)

// Ensure contextService implements ContextService
var _ driving.ContextService = (*contextService)(nil)

const (
	// charsPerToken approximates subword tokenization. Deliberately
	// pessimistic so the built context never silently exceeds the
	// caller's real budget.
	charsPerToken = 3.5

	// citationPreviewLength bounds the preview text on citations
	citationPreviewLength = 200

	// textFingerprintLength is how many normalized characters the
	// cross-video text dedup compares
	textFingerprintLength = 100

	// defaultConversationWindow bounds how many prior turns a
	// conversation prompt carries
	defaultConversationWindow = 5

	// emptyContextSentinel is returned when there is nothing to build from
	emptyContextSentinel = "No relevant course content was found for this question."
)

// contextService assembles ranked results into token-budgeted prompts
// and UI citations. It performs no I/O; hitting the token budget is a
// designed outcome, not an error.
type contextService struct {
	observer driven.SearchObserver
	logger   *slog.Logger
}

// NewContextService creates a new ContextService. The observer is
// optional; pass nil to disable truncation metrics.
func NewContextService(observer driven.SearchObserver, logger *slog.Logger) driving.ContextService {
	if logger == nil {
		logger = slog.Default()
	}
	return &contextService{observer: observer, logger: logger}
}

// Build turns a ranked result list into a formatted, token-budgeted
// context block. Chunks are appended in rank order until the next one
// would exceed the budget; the cutoff is hard - no reordering or
// partial-chunk inclusion is attempted.
func (c *contextService) Build(results []*domain.RankedResult, opts domain.ContextOptions) *domain.FormattedContext {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 8000
	}
	if opts.Format == "" {
		opts.Format = domain.FormatDetailed
	}

	if len(results) == 0 {
		return &domain.FormattedContext{
			Context: emptyContextSentinel,
			Sources: []*domain.ContextSource{},
		}
	}

	if opts.DeduplicateText {
		results = dedupeByTextFingerprint(results)
	}

	var b strings.Builder
	header := contextHeader(opts.Format)
	footer := contextFooter(opts.Format)
	b.WriteString(header)
	// The footer's cost is reserved up front so the final estimate can
	// never exceed the budget
	totalTokens := estimateTokens(header) + estimateTokens(footer)

	sources := make([]*domain.ContextSource, 0)
	sourceIndex := make(map[string]*domain.ContextSource)
	included := 0
	truncated := false

	for i, res := range results {
		block := c.formatChunk(res, opts)
		blockTokens := estimateTokens(block)

		if totalTokens+blockTokens > opts.MaxTokens {
			truncated = true
			dropped := len(results) - i
			c.logger.Warn("context budget exhausted, dropping remaining chunks",
				"included", included, "dropped", dropped, "budget", opts.MaxTokens)
			if c.observer != nil {
				c.observer.ContextTruncated(dropped)
			}
			break
		}

		b.WriteString(block)
		totalTokens += blockTokens
		included++

		video := res.Candidate.Video
		src, ok := sourceIndex[video.ID]
		if !ok {
			src = &domain.ContextSource{
				VideoID: video.ID,
				Title:   video.Title,
				URL:     video.URL,
			}
			sourceIndex[video.ID] = src
			sources = append(sources, src)
		}
		src.ChunksUsed++
		src.Timestamps = append(src.Timestamps, domain.TimestampRange{
			StartSeconds: res.Candidate.Chunk.StartSeconds,
			EndSeconds:   res.Candidate.Chunk.EndSeconds,
		})
	}

	b.WriteString(footer)

	return &domain.FormattedContext{
		Context:     b.String(),
		Sources:     sources,
		TotalChunks: included,
		TotalTokens: totalTokens,
		Truncated:   truncated,
	}
}

// ExtractCitations projects every result into the citation shape,
// independent of whether Build actually included it. Output length
// always equals input length.
func (c *contextService) ExtractCitations(results []*domain.RankedResult) []domain.Citation {
	citations := make([]domain.Citation, 0, len(results))
	for _, res := range results {
		preview := res.Candidate.Chunk.Text
		if len(preview) > citationPreviewLength {
			// Back up to a rune boundary so multi-byte characters are
			// never split mid-sequence
			cut := citationPreviewLength
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}
		citations = append(citations, domain.Citation{
			VideoID:      res.Candidate.Video.ID,
			Title:        res.Candidate.Video.Title,
			URL:          res.Candidate.Video.URL,
			StartSeconds: res.Candidate.Chunk.StartSeconds,
			Timestamp:    formatTimestamp(res.Candidate.Chunk.StartSeconds),
			Preview:      preview,
			Relevance:    res.RankScore,
		})
	}
	return citations
}

// BuildConversationPrompt prepends the last `window` turns of history,
// verbatim, ahead of the context text. Pure concatenation with a
// fixed-size sliding window - history is never re-ranked or re-filtered.
func (c *contextService) BuildConversationPrompt(history []*domain.ChatTurn, contextText string, window int) string {
	if window <= 0 {
		window = defaultConversationWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString(contextText)
	return b.String()
}

// formatChunk renders one chunk per the chosen layout
func (c *contextService) formatChunk(res *domain.RankedResult, opts domain.ContextOptions) string {
	chunk := res.Candidate.Chunk
	video := res.Candidate.Video

	var annotations []string
	if opts.IncludeTimestamps {
		annotations = append(annotations, formatTimestamp(chunk.StartSeconds))
	}
	if opts.IncludeScores {
		annotations = append(annotations, fmt.Sprintf("score %.3f", res.RankScore))
	}

	switch opts.Format {
	case domain.FormatTagged:
		attrs := fmt.Sprintf(`video=%q`, video.Title)
		if opts.IncludeTimestamps {
			attrs += fmt.Sprintf(` start=%q`, formatTimestamp(chunk.StartSeconds))
		}
		if opts.IncludeScores {
			attrs += fmt.Sprintf(` score="%.3f"`, res.RankScore)
		}
		return fmt.Sprintf("<chunk %s>\n%s\n</chunk>\n", attrs, chunk.Text)

	case domain.FormatCompact:
		label := video.Title
		if len(annotations) > 0 {
			label += " @ " + strings.Join(annotations, ", ")
		}
		return fmt.Sprintf("[%s] %s\n", label, chunk.Text)

	default: // FormatDetailed
		heading := "### " + video.Title
		if len(annotations) > 0 {
			heading += " (" + strings.Join(annotations, ", ") + ")"
		}
		return heading + "\n" + chunk.Text + "\n\n"
	}
}

func contextHeader(format domain.ContextFormat) string {
	switch format {
	case domain.FormatTagged:
		return "<context>\n"
	case domain.FormatCompact:
		return "Course content:\n"
	default:
		return "Relevant course content:\n\n"
	}
}

func contextFooter(format domain.ContextFormat) string {
	if format == domain.FormatTagged {
		return "</context>\n"
	}
	return ""
}

// dedupeByTextFingerprint drops chunks whose normalized text prefix
// matches an already-kept chunk, across all videos. Keeps the first
// occurrence, which is the higher-ranked one.
func dedupeByTextFingerprint(results []*domain.RankedResult) []*domain.RankedResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]*domain.RankedResult, 0, len(results))
	for _, res := range results {
		fp := textFingerprint(res.Candidate.Chunk.Text)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		deduped = append(deduped, res)
	}
	return deduped
}

func textFingerprint(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(normalized) > textFingerprintLength {
		normalized = normalized[:textFingerprintLength]
	}
	return normalized
}

// estimateTokens approximates token count from character length
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / charsPerToken))
}

// formatTimestamp renders seconds as MM:SS, or H:MM:SS past the hour
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
