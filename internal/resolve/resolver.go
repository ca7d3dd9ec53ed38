// Package resolve reconciles publication years across the three metadata
// sources. The order is fixed: the year printed on the Gutenberg bibrec
// page wins, then the Library of Congress record behind the book's LCCN,
// then the book's Wikipedia article. Whichever source answers first is
// recorded as the year's provenance.
package resolve

import (
	"context"

	"github.com/ppiankov/gutensent/internal/model"
)

// LCCNSource resolves a year from a Library of Congress Control Number.
type LCCNSource interface {
	Year(ctx context.Context, lccn string) (int, bool)
}

// ArticleSource resolves a year from a Wikipedia article URL.
type ArticleSource interface {
	Year(ctx context.Context, articleURL string) (int, bool)
}

// Resolver performs the priority-ordered lookup.
type Resolver struct {
	loc  LCCNSource
	wiki ArticleSource
}

// NewResolver creates a resolver over the two fallback sources. Either
// may be nil, which simply disables that fallback.
func NewResolver(loc LCCNSource, wiki ArticleSource) *Resolver {
	return &Resolver{loc: loc, wiki: wiki}
}

// Resolve determines the publication year for a book from its scraped
// details. Returns (0, "", false) when no source can answer; such books
// keep a NULL year and never reach sentiment scoring or analysis.
func (r *Resolver) Resolve(ctx context.Context, d model.Details) (int, model.YearSource, bool) {
	if d.Year > 0 {
		return d.Year, model.YearSourceGutenberg, true
	}

	if r.loc != nil && d.LCCN != "" {
		if year, ok := r.loc.Year(ctx, d.LCCN); ok {
			return year, model.YearSourceLoC, true
		}
	}

	if r.wiki != nil && d.WikipediaURL != "" {
		if year, ok := r.wiki.Year(ctx, d.WikipediaURL); ok {
			return year, model.YearSourceWikipedia, true
		}
	}

	return 0, "", false
}
