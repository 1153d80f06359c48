// Command almanacgen precomputes the almanac table for a range of years.
//
// Usage:
//
//	go run ./cmd/almanacgen -db data/almanac.db -start 1900 -end 2100
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Computes every civil day of the range and writes it, one transaction per year
//
// Generation is idempotent. Rerunning over an existing range refreshes
// the rows in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lunarapi/internal/config"
	"lunarapi/internal/database"
	"lunarapi/internal/lunar"
)

func main() {
	// Parse command line flags
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	startYear := flag.Int("start", lunar.MinYear, "First civil year to generate")
	endYear := flag.Int("end", lunar.MaxYear, "Last civil year to generate")
	tz := flag.String("tz", config.DefaultTimezone, "Timezone deciding civil day boundaries")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run generation
	if err := run(*dbPath, *startYear, *endYear, *tz, logger); err != nil {
		logger.Error("generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("generation complete")
}

func run(dbPath string, startYear, endYear int, tz string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	if startYear > endYear {
		return fmt.Errorf("start year %d after end year %d", startYear, endYear)
	}
	if startYear < lunar.MinYear || endYear > lunar.MaxYear {
		return fmt.Errorf("years %d-%d outside supported range %d-%d",
			startYear, endYear, lunar.MinYear, lunar.MaxYear)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}

	// =========================================================================
	// Step 1: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 2: Generate the range year by year
	// =========================================================================
	logger.Info("generating almanac days",
		slog.Int("start_year", startYear),
		slog.Int("end_year", endYear),
		slog.String("timezone", tz),
	)

	total := 0
	for year := startYear; year <= endYear; year++ {
		first := time.Date(year, time.January, 1, 12, 0, 0, 0, loc)
		last := time.Date(year, time.December, 31, 12, 0, 0, 0, loc)

		n, err := db.FillRange(ctx, first, last, loc)
		if err != nil {
			return fmt.Errorf("fill year %d: %w", year, err)
		}
		total += n

		logger.Debug("year generated", slog.Int("year", year), slog.Int("days", n))
	}

	// =========================================================================
	// Step 3: Verify coverage
	// =========================================================================
	stats, err := db.GetAlmanacStats(ctx)
	if err != nil {
		return fmt.Errorf("read almanac stats: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("generation verified",
		slog.Int("days_written", total),
		slog.Int("days_stored", stats.TotalDays),
		slog.String("earliest", stats.EarliestDate),
		slog.String("latest", stats.LatestDate),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Generation Summary ===")
	fmt.Printf("Years covered:     %d-%d\n", startYear, endYear)
	fmt.Printf("Days written:      %d\n", total)
	fmt.Printf("Days stored:       %d\n", stats.TotalDays)
	fmt.Printf("Date range:        %s to %s\n", stats.EarliestDate, stats.LatestDate)
	fmt.Printf("Time elapsed:      %v\n", elapsed.Round(time.Millisecond))

	return nil
}
