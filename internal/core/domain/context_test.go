package domain

import "testing"

func TestContextFormatConstants(t *testing.T) {
	if FormatDetailed != "detailed" {
		t.Errorf("expected FormatDetailed = 'detailed', got %s", FormatDetailed)
	}
	if FormatTagged != "tagged" {
		t.Errorf("expected FormatTagged = 'tagged', got %s", FormatTagged)
	}
	if FormatCompact != "compact" {
		t.Errorf("expected FormatCompact = 'compact', got %s", FormatCompact)
	}
}

func TestDefaultContextOptions(t *testing.T) {
	opts := DefaultContextOptions()

	if opts.MaxTokens != 8000 {
		t.Errorf("expected default budget 8000, got %d", opts.MaxTokens)
	}
	if opts.Format != FormatDetailed {
		t.Errorf("expected default format detailed, got %s", opts.Format)
	}
	if !opts.IncludeTimestamps {
		t.Error("expected timestamps included by default")
	}
	if opts.IncludeScores {
		t.Error("expected scores excluded by default")
	}
	if !opts.DeduplicateText {
		t.Error("expected text dedup enabled by default")
	}
}

func TestExchangeCost_TotalTokens(t *testing.T) {
	cost := &ExchangeCost{
		PromptTokens:     1200,
		CompletionTokens: 300,
	}

	if cost.TotalTokens() != 1500 {
		t.Errorf("expected 1500 total tokens, got %d", cost.TotalTokens())
	}
}
