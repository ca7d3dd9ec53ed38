package util

import "testing"

func TestFindYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain year", "1914", 1914},
		{"year in text", "First published in 1851 by Harper", 1851},
		{"first of several", "1913, reprinted 1922", 1913},
		{"lccn-style date", "[c1917]", 1917},
		{"no year", "no date given", 0},
		{"too short", "914", 0},
		{"part of longer number", "catalog 190213", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindYear(tt.input); got != tt.want {
				t.Errorf("FindYear(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
