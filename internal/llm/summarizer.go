package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/gutensent/internal/model"
)

// Summarizer attaches an optional prose summary to a report.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer builds a summarizer from configuration. With no
// provider configured the summarizer is disabled, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary asks the provider to restate the report's statistics.
func (s *Summarizer) GenerateSummary(ctx context.Context, report *model.Report) (*model.NarrativeSummary, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	if !s.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("LLM provider %s is not available", s.provider.Name())
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	return &model.NarrativeSummary{
		Provider: s.provider.Name(),
		Model:    resp.Model,
		Text:     resp.Summary,
	}, nil
}
