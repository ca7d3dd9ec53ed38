package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/gutensent/internal/cache"
	"github.com/ppiankov/gutensent/internal/catalog"
	"github.com/ppiankov/gutensent/internal/fetch"
	"github.com/ppiankov/gutensent/internal/model"
)

// loadConfig builds the effective configuration for a stage command.
func loadConfig() (*model.Config, error) {
	cfg, err := model.LoadConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// openStore opens the catalog database, creating parent directories.
func openStore(cfg *model.Config) (*catalog.Store, error) {
	if dir := filepath.Dir(cfg.Paths.CatalogDB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}
	return catalog.Open(cfg.Paths.CatalogDB)
}

// newHTTPCache builds the response cache for the fallback API clients.
func newHTTPCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.Nop{}
	}
	return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
}

func newFetcher(cfg *model.Config) *fetch.Fetcher {
	return fetch.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.MaxRetries)
}

func printCounts(ctx context.Context, store *catalog.Store) {
	total, detailed, withYear, scored, err := store.Counts(ctx)
	if err != nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\nCatalog: %d books, %d with details, %d with a year, %d scored\n",
		total, detailed, withYear, scored)
}
