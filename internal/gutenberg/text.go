package gutenberg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/gutensent/internal/fetch"
)

// ErrGone marks a book whose text Project Gutenberg no longer serves.
// The content stage removes such books from the catalog.
var ErrGone = errors.New("book no longer available")

// TextDownloader downloads plain-text ebook files into a local directory,
// one {id}.txt file per book.
type TextDownloader struct {
	fetcher *fetch.Fetcher
	baseURL string
	dir     string
}

// NewTextDownloader creates a downloader writing into dir.
func NewTextDownloader(fetcher *fetch.Fetcher, baseURL, dir string) *TextDownloader {
	return &TextDownloader{
		fetcher: fetcher,
		baseURL: baseURL,
		dir:     dir,
	}
}

// TextURL returns the plain-text download URL for a Gutenberg ID.
func (d *TextDownloader) TextURL(id int) string {
	return fmt.Sprintf("%s/cache/epub/%d/pg%d.txt", d.baseURL, id, id)
}

// Path returns the local file path for a book's text.
func (d *TextDownloader) Path(id int) string {
	return filepath.Join(d.dir, fmt.Sprintf("%d.txt", id))
}

// Has reports whether the book text is already on disk.
func (d *TextDownloader) Has(id int) bool {
	info, err := os.Stat(d.Path(id))
	return err == nil && info.Size() > 0
}

// Download fetches a book's text and stores it locally. Returns ErrGone
// on 404 so the caller can drop the book from the catalog; other errors
// leave the book for a later run.
func (d *TextDownloader) Download(ctx context.Context, id int) error {
	if d.Has(id) {
		return nil
	}

	result, err := d.fetcher.FetchWithRetry(ctx, d.TextURL(id))
	if err != nil {
		var nf *fetch.NotFoundError
		if errors.As(err, &nf) {
			return fmt.Errorf("book %d: %w", id, ErrGone)
		}
		return fmt.Errorf("download book %d: %w", id, err)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create books dir: %w", err)
	}

	if err := os.WriteFile(d.Path(id), []byte(result.Body), 0644); err != nil {
		return fmt.Errorf("write book %d: %w", id, err)
	}

	return nil
}

// Read loads a previously downloaded book text.
func (d *TextDownloader) Read(id int) (string, error) {
	data, err := os.ReadFile(d.Path(id))
	if err != nil {
		return "", fmt.Errorf("read book %d: %w", id, err)
	}
	return string(data), nil
}
