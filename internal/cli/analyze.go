package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gutensent/internal/analyze"
	"github.com/ppiankov/gutensent/internal/llm"
)

var (
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the statistics and emit the report",
	Long: `Analyze runs the statistical study over every scored book:
- Publication-year histogram and smoothed polarity-by-year curve
- Pre-War, War, and Post-War period comparison with proximity weights
- One-way ANOVA across the periods and Welch t-tests between them

The tables go to stdout; the full report (JSON) and the dataset (CSV)
go to the output directory. An LLM can optionally restate the numbers
in prose; it never changes them.

Example:
  gutensent analyze
  gutensent analyze --llm --llm-provider ollama --llm-model llama3.1:8b`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.ScoredBooks(ctx)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d scored books\n", len(books))
	}

	report, err := analyze.NewAnalyzer(cfg.Analysis).Run(books)
	if err != nil {
		return err
	}

	if llmEnabled {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return err
		}
		summary, err := summarizer.GenerateSummary(ctx, report)
		if err != nil {
			// The statistics stand on their own; a missing summary is
			// reported but not fatal.
			fmt.Fprintf(os.Stderr, "LLM summary failed: %v\n", err)
		} else {
			report.Summary = summary
		}
	}

	analyze.Render(os.Stdout, report)

	reportPath := filepath.Join(cfg.Paths.OutputDir, "report.json")
	if err := analyze.WriteJSON(reportPath, report); err != nil {
		return err
	}

	datasetPath := filepath.Join(cfg.Paths.OutputDir, "dataset.csv")
	rows, err := store.ExportCSV(ctx, datasetPath)
	if err != nil {
		return fmt.Errorf("export dataset: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nWrote %s and %s (%d rows)\n", reportPath, datasetPath, rows)
	return nil
}
