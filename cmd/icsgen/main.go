// Command icsgen writes the festival and solar term calendar feed to a file.
//
// Usage:
//
//	go run ./cmd/icsgen -from 2025 -to 2026 -o almanac.ics
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lunarapi/internal/config"
	"lunarapi/internal/ics"
)

func main() {
	thisYear := time.Now().Year()

	from := flag.Int("from", thisYear, "First civil year of the feed")
	to := flag.Int("to", thisYear+1, "Last civil year of the feed")
	tz := flag.String("tz", config.DefaultTimezone, "Timezone deciding solar term dates")
	outPath := flag.String("o", "almanac.ics", "Output file path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(*from, *to, *tz, *outPath, logger); err != nil {
		logger.Error("feed generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(from, to int, tz, outPath string, logger *slog.Logger) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}

	cal, err := ics.Build(from, to, loc)
	if err != nil {
		return fmt.Errorf("build feed: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(cal.Serialize()), 0644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	logger.Info("feed written",
		slog.String("path", outPath),
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int("events", len(cal.Events())),
	)

	return nil
}
