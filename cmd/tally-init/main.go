package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"tally/internal/catalog"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/storage"
)

// One-shot initializer: creates the database (running any pending
// migrations) and optionally writes the default category catalog where
// CATEGORIES_PATH points. Run it once before wiring tally into an MCP
// client.
func main() {
	cli.LoadEnvFile()

	cfg := config.Load()

	// Write the default catalog first so a configured CATEGORIES_PATH
	// exists by the time the server validates it.
	if path := cfg.CategoriesPath; path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, catalog.DefaultJSON(), 0644); err != nil {
				log.Fatalf("write catalog: %v", err)
			}
			fmt.Printf("Wrote default categories to %s\n", path)
		} else if err != nil {
			log.Fatalf("stat catalog: %v", err)
		} else {
			fmt.Printf("Keeping existing categories at %s\n", path)
		}
	}

	cat, err := catalog.Load(cfg.CategoriesPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	fmt.Printf("Catalog valid: %d expense categories, %d credit categories\n",
		len(cat.Categories(core.KindExpense)), len(cat.Categories(core.KindCredit)))

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	expenses, err := store.Count(ctx, core.KindExpense)
	if err != nil {
		log.Fatalf("count expenses: %v", err)
	}
	credits, err := store.Count(ctx, core.KindCredit)
	if err != nil {
		log.Fatalf("count credits: %v", err)
	}

	fmt.Printf("Database ready at %s (%d expenses, %d credits)\n", cfg.SQLiteDBPath, expenses, credits)
}
