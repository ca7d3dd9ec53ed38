package gutenberg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ppiankov/gutensent/internal/fetch"
)

func newTestDownloader(t *testing.T, handler http.Handler) *TextDownloader {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := fetch.NewFetcher(5*time.Second, "test-agent", 1<<20, 0)
	return NewTextDownloader(fetcher, server.URL, t.TempDir())
}

func TestTextDownloader_Download(t *testing.T) {
	d := newTestDownloader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cache/epub/84/pg84.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, "Frankenstein; or, the Modern Prometheus")
	}))

	if err := d.Download(context.Background(), 84); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if !d.Has(84) {
		t.Fatal("expected book on disk after download")
	}

	text, err := d.Read(84)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if text != "Frankenstein; or, the Modern Prometheus" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestTextDownloader_GoneOn404(t *testing.T) {
	d := newTestDownloader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := d.Download(context.Background(), 9999)
	if !errors.Is(err, ErrGone) {
		t.Errorf("expected ErrGone for 404, got %v", err)
	}
}

func TestTextDownloader_SkipsExisting(t *testing.T) {
	var hits int
	d := newTestDownloader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = fmt.Fprint(w, "text")
	}))

	if err := os.WriteFile(d.Path(42), []byte("already here"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := d.Download(context.Background(), 42); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if hits != 0 {
		t.Errorf("expected no HTTP requests for cached book, got %d", hits)
	}

	text, err := d.Read(42)
	if err != nil {
		t.Fatal(err)
	}
	if text != "already here" {
		t.Errorf("existing file overwritten: %q", text)
	}
}
