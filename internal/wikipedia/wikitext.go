package wikipedia

import (
	"regexp"
	"strings"

	"github.com/ppiankov/gutensent/internal/util"
)

// Infobox parameters that carry a publication date.
var dateParams = map[string]bool{
	"release_date": true,
	"date_created": true,
	"pub_date":     true,
	"published":    true,
}

var categoryPattern = regexp.MustCompile(`\[\[Category:([^\]|]+)`)

// YearFromWikitext extracts a publication year from raw article wikitext.
// Sources are tried in decreasing order of reliability:
//  1. infobox date parameters (release_date, date_created, pub_date, published)
//  2. any parameter of a "Short description" template
//  3. [[Category:...]] titles (e.g. "1915 British novels")
//
// Returns (0, false) when nothing matches.
func YearFromWikitext(text string) (int, bool) {
	templates := parseTemplates(text)

	for _, tmpl := range templates {
		for _, p := range tmpl.params {
			if dateParams[p.name] {
				if year := util.FindYear(p.value); year > 0 {
					return year, true
				}
			}
		}
	}

	for _, tmpl := range templates {
		if strings.Contains(tmpl.name, "Short description") {
			for _, p := range tmpl.params {
				if year := util.FindYear(p.value); year > 0 {
					return year, true
				}
			}
		}
	}

	for _, match := range categoryPattern.FindAllStringSubmatch(text, -1) {
		if year := util.FindYear(match[1]); year > 0 {
			return year, true
		}
	}

	return 0, false
}

type template struct {
	name   string
	params []param
}

type param struct {
	name  string // empty for positional parameters
	value string
}

// parseTemplates scans wikitext for {{...}} spans, including nested ones,
// and splits each into a name and parameters. It is not a full MediaWiki
// parser; it only needs to be good enough to find date parameters.
func parseTemplates(text string) []template {
	var templates []template

	for i := 0; i+1 < len(text); i++ {
		if text[i] != '{' || text[i+1] != '{' {
			continue
		}

		end := matchBraces(text, i)
		if end < 0 {
			continue
		}

		body := text[i+2 : end]
		templates = append(templates, splitTemplate(body))
	}

	return templates
}

// matchBraces returns the index of the first byte of the "}}" that closes
// the "{{" at start, or -1 when unbalanced.
func matchBraces(text string, start int) int {
	depth := 0
	for i := start; i+1 < len(text); i++ {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && text[i+1] == '}':
			depth--
			if depth == 0 {
				return i
			}
			i++
		}
	}
	return -1
}

// splitTemplate splits a template body on top-level pipes.
func splitTemplate(body string) template {
	var segments []string
	depth := 0
	last := 0

	for i := 0; i < len(body); i++ {
		switch {
		case i+1 < len(body) && (body[i:i+2] == "{{" || body[i:i+2] == "[["):
			depth++
			i++
		case i+1 < len(body) && (body[i:i+2] == "}}" || body[i:i+2] == "]]"):
			depth--
			i++
		case body[i] == '|' && depth == 0:
			segments = append(segments, body[last:i])
			last = i + 1
		}
	}
	segments = append(segments, body[last:])

	tmpl := template{name: strings.TrimSpace(segments[0])}
	for _, seg := range segments[1:] {
		if key, value, found := strings.Cut(seg, "="); found {
			tmpl.params = append(tmpl.params, param{
				name:  strings.TrimSpace(key),
				value: strings.TrimSpace(value),
			})
		} else {
			tmpl.params = append(tmpl.params, param{value: strings.TrimSpace(seg)})
		}
	}

	return tmpl
}
