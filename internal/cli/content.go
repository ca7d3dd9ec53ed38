package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gutensent/internal/gutenberg"
	"github.com/ppiankov/gutensent/internal/worker"
)

// contentCmd represents the content command
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Download the plain-text ebooks",
	Long: `Content downloads the plain text of every book that has a resolved
publication year. Downloads are rate limited per domain and already
downloaded books are skipped, so interrupted runs resume cleanly.

A book whose text file is gone from Project Gutenberg (HTTP 404) is
removed from the catalog; transient errors leave it for the next run.`,
	RunE: runContent,
}

func init() {
	rootCmd.AddCommand(contentCmd)
}

func runContent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.BooksNeedingText(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.BooksDir, 0o755); err != nil {
		return fmt.Errorf("create books directory: %w", err)
	}

	downloader := gutenberg.NewTextDownloader(newFetcher(cfg), gutenberg.DefaultBaseURL, cfg.Paths.BooksDir)
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	fmt.Fprintf(os.Stderr, "Downloading %d book texts to %s\n", len(books), cfg.Paths.BooksDir)

	var downloaded, skipped, gone, failed int
	for _, b := range books {
		if downloader.Has(b.GutenbergID) {
			skipped++
			continue
		}

		if err := limiter.Wait(ctx, downloader.TextURL(b.GutenbergID)); err != nil {
			return err
		}

		err := downloader.Download(ctx, b.GutenbergID)
		switch {
		case err == nil:
			downloaded++
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "book %d: downloaded\n", b.GutenbergID)
			}
		case errors.Is(err, gutenberg.ErrGone):
			// The ebook no longer exists; drop it from the catalog.
			if delErr := store.Delete(ctx, b.GutenbergID); delErr != nil {
				fmt.Fprintf(os.Stderr, "book %d: delete: %v\n", b.GutenbergID, delErr)
			}
			gone++
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			failed++
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "book %d: %v\n", b.GutenbergID, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "Downloaded %d texts (%d already present, %d gone, %d failed)\n",
		downloaded, skipped, gone, failed)
	printCounts(ctx, store)
	return nil
}
