package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer computes a polarity score for a whole book. VADER operates on
// short passages, so the book is scored paragraph by paragraph and the
// compound scores averaged.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a scorer with the standard VADER lexicon.
func NewScorer() *Scorer {
	return &Scorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score returns the book's polarity in [-1, 1]. Empty or marker-only
// text scores 0.
func (s *Scorer) Score(text string) float64 {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return 0
	}

	var sum float64
	for _, p := range paragraphs {
		sum += s.analyzer.PolarityScores(p).Compound
	}
	return sum / float64(len(paragraphs))
}

// splitParagraphs splits on blank lines, dropping whitespace-only blocks.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
