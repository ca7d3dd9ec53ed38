// Package sentiment turns raw Project Gutenberg text files into polarity
// scores.
package sentiment

import (
	"errors"
	"regexp"
	"strings"
)

// Project Gutenberg wraps every text in boilerplate. Modern files carry
// "*** START/END OF THE PROJECT GUTENBERG EBOOK ... ***" markers; very
// old ones additionally embed the legal "SMALL PRINT" block.
var (
	startPattern      = regexp.MustCompile(`(?s)\*\*\*\s?START OF TH(IS|E) PROJECT GUTENBERG EBOOK.*?\*\*\*`)
	endPattern        = regexp.MustCompile(`(?s)\*\*\*\s?END OF TH(IS|E) PROJECT GUTENBERG EBOOK.*?\*\*\*`)
	smallPrintPattern = regexp.MustCompile(`\*\s?END\s?\*THE SMALL PRINT! FOR PUBLIC DOMAIN ETEXTS.*\*\s?END\s?\*`)
)

var legacyEndings = []string{
	"End of the Project Gutenberg EBook of ",
	"End of Project Gutenberg's ",
}

// ErrNoMarkers is returned for files without recognizable start/end
// markers. Very old etexts predate them; the small-print and
// legacy-ending passes still run, and callers score the cleaned text.
var ErrNoMarkers = errors.New("gutenberg start/end markers not found")

// Preprocess strips the Project Gutenberg header, footer, and legacy
// small-print block, leaving only the book's own text. When the
// start/end markers are missing, the remaining passes still apply and
// the cleaned text is returned alongside ErrNoMarkers.
func Preprocess(raw string) (string, error) {
	var err error
	text := raw

	start := startPattern.FindStringIndex(raw)
	end := endPattern.FindStringIndex(raw)
	if start != nil && end != nil && start[1] <= end[0] {
		text = raw[start[1]:end[0]]
	} else {
		err = ErrNoMarkers
	}

	text = strings.TrimLeft(text, "\n")
	text = strings.TrimRight(text, " \t\r\n")

	if strings.HasPrefix(text, "This file was produced from images") {
		if _, rest, found := strings.Cut(text, "\n"); found {
			text = strings.TrimLeft(rest, "\n")
		} else {
			text = ""
		}
	}

	if loc := smallPrintPattern.FindStringIndex(text); loc != nil {
		text = strings.TrimLeft(text[loc[1]:], "\n")
	}

	for _, ending := range legacyEndings {
		if idx := strings.LastIndex(text, ending); idx != -1 {
			text = strings.TrimRight(text[:idx], " \t\r\n")
			break
		}
	}

	return text, err
}
