// Package catalog persists book metadata between pipeline stages.
// It replaces a pile of per-field dictionaries with a single SQLite
// table keyed by Gutenberg ID.
package catalog

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/gutensent/internal/model"
)

// ErrNotFound is returned when a book is not in the catalog.
var ErrNotFound = errors.New("book not found")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("ensure catalog dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS books (
    gutenberg_id    INTEGER PRIMARY KEY,
    title           TEXT,
    author          TEXT,
    kind            TEXT NOT NULL,
    language        TEXT NOT NULL,
    lccn            TEXT,
    wikipedia_url   TEXT,
    year            INTEGER,
    year_source     TEXT,
    polarity        REAL,
    details_fetched INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_year ON books(year) WHERE year IS NOT NULL;
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertSeed inserts a book from the pg_catalog feed, or refreshes its
// kind/language if it already exists. Title and author from the feed are
// kept only until the bibrec page supplies better ones.
func (s *Store) UpsertSeed(ctx context.Context, row model.SeedRow) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO books (gutenberg_id, title, author, kind, language, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(gutenberg_id) DO UPDATE SET
             kind = excluded.kind,
             language = excluded.language,
             updated_at = excluded.updated_at`,
		row.GutenbergID,
		nullableString(row.Title),
		nullableString(row.Author),
		row.Kind,
		row.Language,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert seed %d: %w", row.GutenbergID, err)
	}
	return nil
}

// SaveDetails records the fields scraped from the bibrec page and marks
// the book as detailed. A non-zero year is stored with gutenberg
// provenance.
func (s *Store) SaveDetails(ctx context.Context, id int, d model.Details) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var year interface{}
	var source interface{}
	if d.Year > 0 {
		year = d.Year
		source = string(model.YearSourceGutenberg)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET
             title = COALESCE(?, title),
             author = COALESCE(?, author),
             lccn = ?,
             wikipedia_url = ?,
             year = COALESCE(?, year),
             year_source = COALESCE(?, year_source),
             details_fetched = 1,
             updated_at = ?
         WHERE gutenberg_id = ?`,
		nullableString(d.Title),
		nullableString(d.Author),
		nullableString(d.LCCN),
		nullableString(d.WikipediaURL),
		year,
		source,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("save details %d: %w", id, err)
	}
	return requireRow(res, id)
}

// SaveYear records a resolved publication year and its source.
func (s *Store) SaveYear(ctx context.Context, id int, year int, source model.YearSource) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET year = ?, year_source = ?, updated_at = ? WHERE gutenberg_id = ?`,
		year, string(source), now, id,
	)
	if err != nil {
		return fmt.Errorf("save year %d: %w", id, err)
	}
	return requireRow(res, id)
}

// SavePolarity records the sentiment polarity score for a book.
func (s *Store) SavePolarity(ctx context.Context, id int, polarity float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET polarity = ?, updated_at = ? WHERE gutenberg_id = ?`,
		polarity, now, id,
	)
	if err != nil {
		return fmt.Errorf("save polarity %d: %w", id, err)
	}
	return requireRow(res, id)
}

// Get fetches a single book by Gutenberg ID.
func (s *Store) Get(ctx context.Context, id int) (*model.Book, error) {
	row := s.db.QueryRowContext(ctx, selectBooks+` WHERE gutenberg_id = ?`, id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return book, err
}

// Delete removes a book from the catalog entirely. Used when Project
// Gutenberg no longer serves the text (404).
func (s *Store) Delete(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE gutenberg_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

const selectBooks = `SELECT gutenberg_id, title, author, kind, language, lccn,
    wikipedia_url, year, year_source, polarity FROM books`

// Only English text ebooks ever leave the seed state.
const eligible = `kind = 'Text' AND language = 'en'`

// BooksNeedingDetails returns eligible books whose bibrec page has not
// been scraped yet.
func (s *Store) BooksNeedingDetails(ctx context.Context) ([]*model.Book, error) {
	return s.queryBooks(ctx, selectBooks+` WHERE `+eligible+` AND details_fetched = 0 ORDER BY gutenberg_id`)
}

// BooksNeedingYear returns detailed books without a year that still have
// an unexplored fallback source (LCCN or Wikipedia URL).
func (s *Store) BooksNeedingYear(ctx context.Context) ([]*model.Book, error) {
	return s.queryBooks(ctx, selectBooks+` WHERE `+eligible+`
        AND details_fetched = 1 AND year IS NULL
        AND (lccn IS NOT NULL OR wikipedia_url IS NOT NULL)
        ORDER BY gutenberg_id`)
}

// BooksNeedingText returns books with a resolved year, in ID order.
// The content stage checks the books directory for which of these still
// need a download.
func (s *Store) BooksNeedingText(ctx context.Context) ([]*model.Book, error) {
	return s.queryBooks(ctx, selectBooks+` WHERE `+eligible+` AND year IS NOT NULL ORDER BY gutenberg_id`)
}

// BooksNeedingPolarity returns books with a year but no sentiment score.
func (s *Store) BooksNeedingPolarity(ctx context.Context) ([]*model.Book, error) {
	return s.queryBooks(ctx, selectBooks+` WHERE `+eligible+`
        AND year IS NOT NULL AND polarity IS NULL ORDER BY gutenberg_id`)
}

// ScoredBooks returns the final dataset: every book with both a resolved
// year and a polarity score.
func (s *Store) ScoredBooks(ctx context.Context) ([]*model.Book, error) {
	return s.queryBooks(ctx, selectBooks+` WHERE `+eligible+`
        AND year IS NOT NULL AND polarity IS NOT NULL ORDER BY gutenberg_id`)
}

// Counts returns coarse progress numbers for status output.
func (s *Store) Counts(ctx context.Context) (total, detailed, withYear, scored int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT
        COUNT(*),
        COUNT(CASE WHEN details_fetched = 1 THEN 1 END),
        COUNT(year),
        COUNT(polarity)
        FROM books WHERE `+eligible)
	err = row.Scan(&total, &detailed, &withYear, &scored)
	return
}

// ExportCSV writes the dataset CSV: one row per book with a resolved
// year, all fields quoted.
func (s *Store) ExportCSV(ctx context.Context, path string) (int, error) {
	books, err := s.queryBooks(ctx, selectBooks+` WHERE `+eligible+` AND year IS NOT NULL ORDER BY gutenberg_id`)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create dataset csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	header := []string{"gutenberg_id", "title", "author", "lccn", "wikipedia_url", "publication_year"}
	if err := writeQuotedRow(w, header); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range books {
		record := []string{
			strconv.Itoa(b.GutenbergID),
			b.Title,
			b.Author,
			b.LCCN,
			b.WikipediaURL,
			strconv.Itoa(*b.Year),
		}
		if err := writeQuotedRow(w, record); err != nil {
			return 0, fmt.Errorf("write csv row %d: %w", b.GutenbergID, err)
		}
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	return len(books), nil
}

// writeQuotedRow emits one CSV record with every field quoted and CRLF
// line endings, matching the published dataset format. encoding/csv
// only quotes fields that need it, so rows are written by hand.
func writeQuotedRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		quoted := `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		if _, err := w.WriteString(quoted); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...interface{}) ([]*model.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []*model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		book       model.Book
		title      sql.NullString
		author     sql.NullString
		lccn       sql.NullString
		wikiURL    sql.NullString
		year       sql.NullInt64
		yearSource sql.NullString
		polarity   sql.NullFloat64
	)

	err := row.Scan(
		&book.GutenbergID,
		&title,
		&author,
		&book.Kind,
		&book.Language,
		&lccn,
		&wikiURL,
		&year,
		&yearSource,
		&polarity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}

	book.Title = title.String
	book.Author = author.String
	book.LCCN = lccn.String
	book.WikipediaURL = wikiURL.String
	if year.Valid {
		y := int(year.Int64)
		book.Year = &y
	}
	book.YearSource = model.YearSource(yearSource.String)
	if polarity.Valid {
		p := polarity.Float64
		book.Polarity = &p
	}

	return &book, nil
}

func requireRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
