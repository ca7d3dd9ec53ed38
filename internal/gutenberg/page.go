package gutenberg

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/gutensent/internal/fetch"
	"github.com/ppiankov/gutensent/internal/model"
	"github.com/ppiankov/gutensent/internal/util"
)

// DefaultBaseURL is the canonical Project Gutenberg host.
const DefaultBaseURL = "https://www.gutenberg.org"

var wikipediaURLPattern = regexp.MustCompile(`https://en\.wikipedia\.org/wiki/\S+`)

// Authors the original dataset treats as "no author".
var anonymousAuthors = map[string]bool{
	"Anonymous": true,
	"Various":   true,
	"Unknown":   true,
}

// PageScraper scrapes bibliographic details from a book's ebook page.
type PageScraper struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// NewPageScraper creates a scraper against the given base URL
// (DefaultBaseURL in production, an httptest server in tests).
func NewPageScraper(fetcher *fetch.Fetcher, baseURL string) *PageScraper {
	return &PageScraper{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BookURL returns the ebook page URL for a Gutenberg ID.
func (s *PageScraper) BookURL(id int) string {
	return fmt.Sprintf("%s/ebooks/%d", s.baseURL, id)
}

// FetchDetails downloads and parses the bibrec page for a book.
func (s *PageScraper) FetchDetails(ctx context.Context, id int) (model.Details, error) {
	result, err := s.fetcher.FetchWithRetry(ctx, s.BookURL(id))
	if err != nil {
		return model.Details{}, fmt.Errorf("fetch ebook page %d: %w", id, err)
	}

	return ParseDetails(result.Body)
}

// ParseDetails extracts title, author, LCCN, Wikipedia URL, and the
// Original Publication year from a bibrec page.
//
// The page h1 reads "Title by Author". Books titled "No title" carry no
// usable metadata; authors listed as Anonymous/Various/Unknown are
// treated as absent, matching the study's dataset rules.
func ParseDetails(pageHTML string) (model.Details, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return model.Details{}, fmt.Errorf("parse ebook page: %w", err)
	}

	var details model.Details

	content := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && getAttribute(n, "id") == "content"
	})
	if content == nil {
		content = doc
	}

	h1 := findFirst(content, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "h1"
	})
	if h1 == nil {
		return details, nil
	}

	title, author := splitTitle(extractText(h1))
	if title == "No title" {
		return model.Details{}, nil
	}
	details.Title = title
	if !anonymousAuthors[author] {
		details.Author = author
	}

	bibrec := findFirst(content, func(n *html.Node) bool {
		return n.Type == html.ElementNode && getAttribute(n, "id") == "bibrec"
	})
	if bibrec == nil {
		return details, nil
	}

	rows := findAll(bibrec, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	})

	for _, row := range rows {
		th := findFirst(row, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "th"
		})
		td := findFirst(row, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "td"
		})
		if th == nil || td == nil {
			continue
		}

		value := extractText(td)
		switch strings.TrimSpace(extractText(th)) {
		case "Note":
			if details.WikipediaURL == "" {
				details.WikipediaURL = wikipediaURLPattern.FindString(value)
			}
		case "LoC No.":
			details.LCCN = strings.TrimSpace(value)
		case "Original Publication":
			details.Year = util.FindYear(value)
		}
	}

	return details, nil
}

// splitTitle splits a bibrec h1 of the form "Title by Author".
func splitTitle(heading string) (title, author string) {
	parts := strings.SplitN(heading, " by ", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		author = strings.TrimSpace(parts[1])
	}
	return title, author
}

// HTML tree helpers shared by the page scraper.

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(extractText(c))
		buf.WriteString(" ")
	}
	return strings.TrimSpace(buf.String())
}

func getAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
