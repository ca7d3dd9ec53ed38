// Package gutenberg talks to Project Gutenberg: the pg_catalog.csv feed,
// the per-book bibliographic pages, and the plain-text ebook files.
package gutenberg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ppiankov/gutensent/internal/model"
)

// Feed columns we care about. The feed is published at
// https://www.gutenberg.org/cache/epub/feeds/pg_catalog.csv
const (
	colID       = "Text#"
	colKind     = "Type"
	colLanguage = "Language"
	colTitle    = "Title"
	colAuthors  = "Authors"
)

// ReadFeed parses a pg_catalog.csv file into seed rows. Rows with a
// malformed ID are skipped.
func ReadFeed(path string) ([]model.SeedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog feed: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseFeed(f)
}

func parseFeed(r io.Reader) ([]model.SeedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read feed header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{colID, colKind, colLanguage} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("catalog feed missing column %q", required)
		}
	}

	var rows []model.SeedRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feed row: %w", err)
		}

		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		id, err := strconv.Atoi(field(colID))
		if err != nil {
			continue
		}

		rows = append(rows, model.SeedRow{
			GutenbergID: id,
			Kind:        field(colKind),
			Language:    field(colLanguage),
			Title:       field(colTitle),
			Author:      field(colAuthors),
		})
	}

	return rows, nil
}
