package resolve

import (
	"context"
	"testing"

	"github.com/ppiankov/gutensent/internal/model"
)

type stubLCCN struct {
	year  int
	calls int
}

func (s *stubLCCN) Year(ctx context.Context, lccn string) (int, bool) {
	s.calls++
	return s.year, s.year > 0
}

type stubArticle struct {
	year  int
	calls int
}

func (s *stubArticle) Year(ctx context.Context, articleURL string) (int, bool) {
	s.calls++
	return s.year, s.year > 0
}

func TestResolver_GutenbergWins(t *testing.T) {
	loc := &stubLCCN{year: 1920}
	wiki := &stubArticle{year: 1925}
	r := NewResolver(loc, wiki)

	year, source, ok := r.Resolve(context.Background(), model.Details{
		Year:         1915,
		LCCN:         "15001234",
		WikipediaURL: "https://en.wikipedia.org/wiki/Some_Book",
	})

	if !ok || year != 1915 || source != model.YearSourceGutenberg {
		t.Fatalf("expected (1915, gutenberg, true), got (%d, %q, %v)", year, source, ok)
	}
	if loc.calls != 0 || wiki.calls != 0 {
		t.Error("fallback sources must not be consulted when the page has a year")
	}
}

func TestResolver_LoCBeforeWikipedia(t *testing.T) {
	loc := &stubLCCN{year: 1917}
	wiki := &stubArticle{year: 1925}
	r := NewResolver(loc, wiki)

	year, source, ok := r.Resolve(context.Background(), model.Details{
		LCCN:         "17001234",
		WikipediaURL: "https://en.wikipedia.org/wiki/Some_Book",
	})

	if !ok || year != 1917 || source != model.YearSourceLoC {
		t.Fatalf("expected (1917, loc, true), got (%d, %q, %v)", year, source, ok)
	}
	if wiki.calls != 0 {
		t.Error("wikipedia must not be consulted when LoC answers")
	}
}

func TestResolver_WikipediaFallback(t *testing.T) {
	loc := &stubLCCN{year: 0}
	wiki := &stubArticle{year: 1919}
	r := NewResolver(loc, wiki)

	year, source, ok := r.Resolve(context.Background(), model.Details{
		LCCN:         "unresolvable",
		WikipediaURL: "https://en.wikipedia.org/wiki/Some_Book",
	})

	if !ok || year != 1919 || source != model.YearSourceWikipedia {
		t.Fatalf("expected (1919, wikipedia, true), got (%d, %q, %v)", year, source, ok)
	}
	if loc.calls != 1 {
		t.Errorf("expected LoC to be tried first, calls=%d", loc.calls)
	}
}

func TestResolver_SkipsEmptyIdentifiers(t *testing.T) {
	loc := &stubLCCN{year: 1917}
	wiki := &stubArticle{year: 1919}
	r := NewResolver(loc, wiki)

	_, _, ok := r.Resolve(context.Background(), model.Details{Title: "No identifiers"})
	if ok {
		t.Fatal("expected no resolution without identifiers")
	}
	if loc.calls != 0 || wiki.calls != 0 {
		t.Error("sources must not be called without identifiers")
	}
}

func TestResolver_NilSources(t *testing.T) {
	r := NewResolver(nil, nil)

	_, _, ok := r.Resolve(context.Background(), model.Details{
		LCCN:         "17001234",
		WikipediaURL: "https://en.wikipedia.org/wiki/Some_Book",
	})
	if ok {
		t.Fatal("expected no resolution with nil sources")
	}
}
