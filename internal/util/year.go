package util

import (
	"regexp"
	"strconv"
)

// yearPattern matches a plausible publication year (1000-2999). All three
// metadata sources bury the year in free text, so extraction is the same
// everywhere.
var yearPattern = regexp.MustCompile(`\b[12]\d{3}\b`)

// FindYear returns the first four-digit year in s, or 0 when none.
func FindYear(s string) int {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}
