package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gutensent/internal/fetch"
	"github.com/ppiankov/gutensent/internal/gutenberg"
	"github.com/ppiankov/gutensent/internal/loc"
	"github.com/ppiankov/gutensent/internal/model"
	"github.com/ppiankov/gutensent/internal/resolve"
	"github.com/ppiankov/gutensent/internal/wikipedia"
	"github.com/ppiankov/gutensent/internal/worker"
)

var (
	feedPath        string
	skipSeed        bool
	metadataWorkers int
	metadataTimeout time.Duration
)

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Seed the catalog and scrape bibliographic records",
	Long: `Metadata runs the first pipeline stage:
- Seed the catalog from the pg_catalog.csv feed
- Scrape each book's bibliographic page for title, author, LCCN,
  Wikipedia link, and the original publication year
- Resolve missing years through the Library of Congress, then Wikipedia

Only English-language text entries are processed. The stage is
resumable: already-scraped books are skipped on the next run.

Example:
  gutensent metadata --feed pg_catalog.csv
  gutensent metadata --concurrency 20`,
	RunE: runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().StringVar(&feedPath, "feed", "", "pg_catalog.csv path (default from config)")
	metadataCmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "skip feed seeding, only scrape")
	metadataCmd.Flags().IntVar(&metadataWorkers, "concurrency", 0, "number of concurrent scrapers (default from config)")
	metadataCmd.Flags().DurationVar(&metadataTimeout, "timeout", 0, "overall stage timeout (0 = no limit)")
}

// detailsResult carries one scraped bibliographic record.
type detailsResult struct {
	id      int
	details model.Details
	gone    bool
	err     error
}

func (r *detailsResult) GetError() error { return r.err }

// detailsJob scrapes one book's bibliographic page.
type detailsJob struct {
	id      int
	scraper *gutenberg.PageScraper
	limiter *worker.Limiter
	robots  *fetch.RobotsChecker
}

func (j *detailsJob) Execute(ctx context.Context) worker.Result {
	url := j.scraper.BookURL(j.id)

	allowed, delay, err := j.robots.CanFetch(ctx, url)
	if err == nil && !allowed {
		return &detailsResult{id: j.id, err: fmt.Errorf("robots.txt disallows %s", url)}
	}

	if err := j.limiter.WaitWithDelay(ctx, url, delay); err != nil {
		return &detailsResult{id: j.id, err: err}
	}

	details, err := j.scraper.FetchDetails(ctx, j.id)
	if err != nil {
		var notFound *fetch.NotFoundError
		if errors.As(err, &notFound) {
			return &detailsResult{id: j.id, gone: true}
		}
		return &detailsResult{id: j.id, err: err}
	}

	return &detailsResult{id: j.id, details: details}
}

func runMetadata(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if metadataTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, metadataTimeout)
		defer cancel()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if feedPath != "" {
		cfg.Paths.CatalogFeed = feedPath
	}
	if metadataWorkers > 0 {
		cfg.Concurrency.MetadataWorkers = metadataWorkers
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Stage 1: seed from the catalog feed.
	if !skipSeed {
		rows, err := gutenberg.ReadFeed(cfg.Paths.CatalogFeed)
		if err != nil {
			return fmt.Errorf("read catalog feed (download it from %s/cache/epub/feeds/pg_catalog.csv): %w",
				gutenberg.DefaultBaseURL, err)
		}
		for _, row := range rows {
			if err := store.UpsertSeed(ctx, row); err != nil {
				return fmt.Errorf("seed book %d: %w", row.GutenbergID, err)
			}
		}
		fmt.Fprintf(os.Stderr, "Seeded %d feed entries\n", len(rows))
	}

	// Stage 2: scrape bibliographic pages.
	books, err := store.BooksNeedingDetails(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Scraping %d bibliographic records with %d workers\n",
		len(books), cfg.Concurrency.MetadataWorkers)

	fetcher := newFetcher(cfg)
	scraper := gutenberg.NewPageScraper(fetcher, gutenberg.DefaultBaseURL)
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	robots := fetch.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)

	jobs := make([]worker.Job, len(books))
	for i, b := range books {
		jobs[i] = &detailsJob{id: b.GutenbergID, scraper: scraper, limiter: limiter, robots: robots}
	}

	pool := worker.NewPoolWithContext(ctx, cfg.Concurrency.MetadataWorkers)
	pool.Start()
	defer pool.Shutdown()

	var scraped, dropped, failed int
	pool.Process(jobs, func(r worker.Result) {
		res := r.(*detailsResult)
		switch {
		case res.err != nil:
			failed++
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "book %d: %v\n", res.id, res.err)
			}
		case res.gone, res.details.Title == "" && res.details.Author == "":
			// Removed ebooks and records without a usable heading leave
			// the catalog entirely.
			if err := store.Delete(ctx, res.id); err == nil {
				dropped++
			}
		default:
			if err := store.SaveDetails(ctx, res.id, res.details); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "book %d: save details: %v\n", res.id, err)
				return
			}
			scraped++
		}
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scraping aborted after %d records (%d dropped, %d failed): %w",
			scraped, dropped, failed, err)
	}
	fmt.Fprintf(os.Stderr, "Scraped %d records (%d dropped, %d failed)\n", scraped, dropped, failed)

	// Stage 3: resolve missing publication years.
	needYear, err := store.BooksNeedingYear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Resolving publication years for %d books\n", len(needYear))

	httpCache := newHTTPCache(cfg)
	locClient := loc.NewClient(loc.DefaultBaseURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout, httpCache)
	wikiClient := wikipedia.NewClient(wikipedia.DefaultBaseURL, cfg.Wikimedia.AccessToken,
		cfg.Wikimedia.UserAgent(), cfg.HTTP.Timeout, httpCache)
	resolver := resolve.NewResolver(locClient, wikiClient)

	var resolved int
	for _, b := range needYear {
		details := model.Details{LCCN: b.LCCN, WikipediaURL: b.WikipediaURL}
		year, source, ok := resolver.Resolve(ctx, details)
		if !ok {
			continue
		}
		if err := store.SaveYear(ctx, b.GutenbergID, year, source); err != nil {
			fmt.Fprintf(os.Stderr, "book %d: save year: %v\n", b.GutenbergID, err)
			continue
		}
		resolved++
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "book %d: year %d (%s)\n", b.GutenbergID, year, source)
		}
	}
	fmt.Fprintf(os.Stderr, "Resolved %d publication years\n", resolved)

	printCounts(ctx, store)
	return nil
}
