package model

// YearSource identifies which data source a publication year was resolved from
type YearSource string

const (
	YearSourceGutenberg YearSource = "gutenberg" // Original Publication row on the bibrec page
	YearSourceLoC       YearSource = "loc"       // Library of Congress item API via LCCN
	YearSourceWikipedia YearSource = "wikipedia" // Wikipedia article wikitext
)

// Book represents a single Project Gutenberg ebook and everything the
// pipeline knows about it. A book has at most one resolved publication
// year; YearSource records where it came from.
type Book struct {
	GutenbergID  int        `json:"gutenberg_id"`
	Title        string     `json:"title,omitempty"`
	Author       string     `json:"author,omitempty"`
	Kind         string     `json:"kind"`     // Type column from pg_catalog.csv ("Text", "Sound", ...)
	Language     string     `json:"language"` // Language column from pg_catalog.csv
	LCCN         string     `json:"lccn,omitempty"`
	WikipediaURL string     `json:"wikipedia_url,omitempty"`
	Year         *int       `json:"year,omitempty"`
	YearSource   YearSource `json:"year_source,omitempty"`
	Polarity     *float64   `json:"polarity,omitempty"`
}

// Eligible reports whether the book enters the pipeline at all.
// Only English text ebooks are studied.
func (b *Book) Eligible() bool {
	return b.Kind == "Text" && b.Language == "en"
}

// HasYear reports whether a publication year was resolved for the book.
func (b *Book) HasYear() bool {
	return b.Year != nil && *b.Year > 0
}

// Details holds the fields scraped from a Gutenberg bibrec page.
type Details struct {
	Title        string
	Author       string
	LCCN         string
	WikipediaURL string
	Year         int // 0 when the page carries no Original Publication year
}

// SeedRow is one row of the pg_catalog.csv feed.
type SeedRow struct {
	GutenbergID int
	Kind        string
	Language    string
	Title       string
	Author      string
}
