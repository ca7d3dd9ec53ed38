package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gutensent/internal/gutenberg"
	"github.com/ppiankov/gutensent/internal/sentiment"
	"github.com/ppiankov/gutensent/internal/worker"
)

var sentimentWorkers int

// sentimentCmd represents the sentiment command
var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Score the polarity of downloaded texts",
	Long: `Sentiment strips the Project Gutenberg boilerplate from each
downloaded text and scores the remaining prose, averaging the polarity
over paragraphs. Scores range from -1 (negative) to +1 (positive).

Scoring is CPU bound, so the default worker count is the CPU count.`,
	RunE: runSentiment,
}

func init() {
	rootCmd.AddCommand(sentimentCmd)

	sentimentCmd.Flags().IntVar(&sentimentWorkers, "concurrency", 0, "number of concurrent scorers (default: CPU count)")
}

// scoreResult carries one scored book.
type scoreResult struct {
	id       int
	polarity float64
	err      error
}

func (r *scoreResult) GetError() error { return r.err }

// scoreJob reads, cleans, and scores one book's text.
type scoreJob struct {
	id         int
	downloader *gutenberg.TextDownloader
	scorer     *sentiment.Scorer
}

func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	raw, err := j.downloader.Read(j.id)
	if err != nil {
		return &scoreResult{id: j.id, err: err}
	}

	// Marker-less old etexts come back with the small-print and legacy
	// footer passes already applied; score whatever text remains.
	text, err := sentiment.Preprocess(raw)
	if err != nil && !errors.Is(err, sentiment.ErrNoMarkers) {
		return &scoreResult{id: j.id, err: err}
	}

	return &scoreResult{id: j.id, polarity: j.scorer.Score(text)}
}

func runSentiment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sentimentWorkers > 0 {
		cfg.Concurrency.SentimentWorkers = sentimentWorkers
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.BooksNeedingPolarity(ctx)
	if err != nil {
		return err
	}

	downloader := gutenberg.NewTextDownloader(newFetcher(cfg), gutenberg.DefaultBaseURL, cfg.Paths.BooksDir)
	scorer := sentiment.NewScorer()

	workers := cfg.Concurrency.SentimentWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	fmt.Fprintf(os.Stderr, "Scoring %d books with %d workers\n", len(books), workers)

	jobs := make([]worker.Job, len(books))
	for i, b := range books {
		jobs[i] = &scoreJob{id: b.GutenbergID, downloader: downloader, scorer: scorer}
	}

	pool := worker.NewPoolWithContext(ctx, workers)
	pool.Start()
	defer pool.Shutdown()

	var scored, failed int
	pool.Process(jobs, func(r worker.Result) {
		res := r.(*scoreResult)
		if res.err != nil {
			failed++
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "book %d: %v\n", res.id, res.err)
			}
			return
		}
		if err := store.SavePolarity(ctx, res.id, res.polarity); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "book %d: save polarity: %v\n", res.id, err)
			return
		}
		scored++
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "book %d: polarity %+.4f\n", res.id, res.polarity)
		}
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scoring aborted after %d books (%d failed): %w", scored, failed, err)
	}
	fmt.Fprintf(os.Stderr, "Scored %d books (%d failed)\n", scored, failed)
	printCounts(ctx, store)
	return nil
}
