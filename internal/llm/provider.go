// Package llm turns a finished report into a short prose summary using
// an optional language model provider. The summary is generated after
// the statistics and can never change them.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/gutensent/internal/model"
)

// Provider is a chat-capable model backend.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a prose summary of the report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for summarization
type SummarizeRequest struct {
	// Report is the analysis report to restate
	Report *model.Report

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the model's output
type SummarizeResponse struct {
	// Summary is the generated prose
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults with the summarizer disabled.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   60,
		MaxTokens: 1000,
	}
}

const systemPrompt = "You are a research assistant restating statistical results in plain prose. Use only the numbers given to you. Do not add historical claims, citations, or numbers that are not in the input."

// BuildPrompt constructs the default prompt. The model gets only the
// numbers already in the report, so it has nothing external to cite.
func BuildPrompt(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("Summarize the following sentiment analysis of Project Gutenberg books published around the First World War.\n\n")
	fmt.Fprintf(&sb, "Books analyzed: %d\n\nPeriods:\n", report.Books)

	for _, p := range report.Periods {
		fmt.Fprintf(&sb, "- %s: %d books, mean polarity %.4f, weighted mean %.4f, variance %.4f\n",
			p.Name, p.Books, p.Mean, p.WeightedMean, p.Variance)
	}

	if report.ANOVA != nil {
		fmt.Fprintf(&sb, "\nOne-way ANOVA across periods: F(%d, %d) = %.4f, p = %.4f\n",
			report.ANOVA.DFB, report.ANOVA.DFW, report.ANOVA.F, report.ANOVA.PValue)
	}
	for _, tt := range report.TTests {
		fmt.Fprintf(&sb, "Welch t-test %s vs %s: t = %.4f, df = %.1f, p = %.4f\n",
			tt.A, tt.B, tt.T, tt.DF, tt.PValue)
	}

	sb.WriteString("\nRULES:\n")
	sb.WriteString("1. Use ONLY the numbers above. Do not invent or look up any others.\n")
	sb.WriteString("2. Polarity ranges from -1 (negative tone) to +1 (positive tone).\n")
	sb.WriteString("3. Describe what the statistics show, not what history says.\n")
	sb.WriteString("4. Call a difference significant only if its p-value is below 0.05.\n")
	sb.WriteString("\nWrite a 3-4 sentence summary.")

	return sb.String()
}
