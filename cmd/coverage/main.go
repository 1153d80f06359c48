// Command coverage sweeps every civil day in a year range through the
// conversion engine and cross-checks any cached almanac rows against
// live computation. It exits non-zero when a day fails a check.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lunarapi/internal/config"
	"lunarapi/internal/database"
	"lunarapi/internal/lunar"
)

// Failure records one day that failed a check.
type Failure struct {
	Date   string `json:"date"`
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Summary aggregates the sweep results.
type Summary struct {
	DaysChecked     int
	RoundTripFails  int
	ChainFails      int
	StoreCompared   int
	StoreMismatches int
	StoreMissing    int
	FailedYears     map[int]int
	Failures        []Failure
}

func (s *Summary) record(f Failure, year int, verbose bool) {
	s.Failures = append(s.Failures, f)
	s.FailedYears[year]++
	if verbose {
		fmt.Printf("  ✗ %s [%s] %s\n", f.Date, f.Check, f.Detail)
	}
}

func main() {
	dbPath := flag.String("db", "", "Path to SQLite almanac database (optional)")
	startYear := flag.Int("start", lunar.MinYear, "First civil year to check")
	endYear := flag.Int("end", lunar.MaxYear, "Last civil year to check")
	tz := flag.String("tz", config.DefaultTimezone, "Timezone deciding civil day boundaries")
	verbose := flag.Bool("v", false, "Verbose output (show each failure as it is found)")
	outputFile := flag.String("o", "", "Output failures to JSON file")
	flag.Parse()

	if *startYear > *endYear || *startYear < lunar.MinYear || *endYear > lunar.MaxYear {
		fmt.Printf("Error: year range %d-%d outside supported range %d-%d\n",
			*startYear, *endYear, lunar.MinYear, lunar.MaxYear)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Printf("Error: cannot load timezone %q: %v\n", *tz, err)
		os.Exit(1)
	}

	var db *database.DB
	if *dbPath != "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		db, err = database.Open(database.DefaultConfig(*dbPath), logger)
		if err != nil {
			fmt.Printf("Error: cannot open almanac database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	fmt.Println("================================================================")
	fmt.Println("Lunar Calendar Engine - Full Coverage Check")
	fmt.Println("================================================================")
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, *endYear)
	fmt.Printf("Timezone:    %s\n", *tz)
	if db != nil {
		fmt.Printf("Almanac DB:  %s\n", *dbPath)
	} else {
		fmt.Println("Almanac DB:  (none, engine sweep only)")
	}
	fmt.Println()

	summary := sweep(db, *startYear, *endYear, loc, *verbose)

	printSummary(summary, *startYear, *endYear, db != nil)

	if *outputFile != "" {
		saveFailures(*outputFile, summary)
	}

	if len(summary.Failures) > 0 {
		os.Exit(1)
	}
}

// sweep walks every day of the range in order, checking that solar to
// lunar conversion round-trips and that the lunar dates chain day by
// day. With a database it also compares each stored row against the
// engine.
func sweep(db *database.DB, startYear, endYear int, loc *time.Location, verbose bool) *Summary {
	ctx := context.Background()
	summary := &Summary{FailedYears: make(map[int]int)}

	// Days before the first tracked lunar new year clamp to it, so the
	// sweep starts there.
	epoch, err := lunar.NewYear(lunar.MinYear)
	if err != nil {
		fmt.Printf("Error: resolve epoch: %v\n", err)
		os.Exit(1)
	}

	first := time.Date(startYear, time.January, 1, 12, 0, 0, 0, loc)
	if startYear == lunar.MinYear {
		first = time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 12, 0, 0, 0, loc)
	}
	last := time.Date(endYear, time.December, 31, 12, 0, 0, 0, loc)

	totalDays := int(last.Sub(first).Hours()/24) + 1
	fmt.Printf("Checking %d days...\n\n", totalDays)

	var (
		prev     lunar.Date
		havePrev bool
		stored   map[string]database.AlmanacDay
		loadedYr int
	)

	checked := 0
	lastProgress := -1

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format("2006-01-02")
		year := day.Year()

		// Fetch the year's stored rows in one query.
		if db != nil && (stored == nil || loadedYr != year) {
			rows, err := db.GetDaysByRange(ctx,
				fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-12-31", year))
			if err != nil {
				fmt.Printf("Error: load stored year %d: %v\n", year, err)
				os.Exit(1)
			}
			stored = make(map[string]database.AlmanacDay, len(rows))
			for _, r := range rows {
				stored[r.Date] = r
			}
			loadedYr = year
		}

		info := lunar.Info(day)

		// Round trip back to the civil date.
		back, err := lunar.ToSolar(info.Lunar)
		if err != nil {
			summary.RoundTripFails++
			summary.record(Failure{dateStr, "roundtrip", err.Error()}, year, verbose)
		} else if got := back.Format("2006-01-02"); got != dateStr {
			summary.RoundTripFails++
			summary.record(Failure{dateStr, "roundtrip",
				fmt.Sprintf("%s maps back to %s", info.Lunar, got)}, year, verbose)
		}

		// Each day advances the lunar date by exactly one step.
		if havePrev && !followsPrev(prev, info.Lunar) {
			summary.ChainFails++
			summary.record(Failure{dateStr, "chain",
				fmt.Sprintf("%s does not follow %s", info.Lunar, prev)}, year, verbose)
		}
		prev = info.Lunar
		havePrev = true

		// Stored rows must match live computation exactly.
		if db != nil {
			if row, ok := stored[dateStr]; ok {
				summary.StoreCompared++
				if row.Info() != info {
					summary.StoreMismatches++
					summary.record(Failure{dateStr, "store",
						fmt.Sprintf("stored %+v, computed %+v", row.Info(), info)}, year, verbose)
				}
			} else {
				summary.StoreMissing++
			}
		}

		checked++
		progress := (checked * 100) / totalDays
		if progress != lastProgress && progress%5 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n",
				progress, checked, totalDays, len(summary.Failures))
			lastProgress = progress
		}
	}

	summary.DaysChecked = checked
	fmt.Println()
	return summary
}

// followsPrev reports whether cur is the lunar day immediately after prev.
func followsPrev(prev, cur lunar.Date) bool {
	if cur.Year == prev.Year && cur.Month == prev.Month &&
		cur.IsLeapMonth == prev.IsLeapMonth && cur.Day == prev.Day+1 {
		return true
	}

	// A new month must start at day one, and the previous day must have
	// been the last of its month.
	if cur.Day != 1 {
		return false
	}
	last := lunar.MonthDays(prev.Year, prev.Month)
	if prev.IsLeapMonth {
		last = lunar.LeapDays(prev.Year)
	}
	return prev.Day == last
}

func printSummary(summary *Summary, startYear, endYear int, withStore bool) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Days checked:       %d\n", summary.DaysChecked)
	fmt.Printf("Round trip fails:   %d\n", summary.RoundTripFails)
	fmt.Printf("Chain fails:        %d\n", summary.ChainFails)
	if withStore {
		fmt.Printf("Stored compared:    %d\n", summary.StoreCompared)
		fmt.Printf("Stored mismatches:  %d\n", summary.StoreMismatches)
		fmt.Printf("Stored missing:     %d\n", summary.StoreMissing)
	}
	fmt.Println()

	if len(summary.Failures) == 0 {
		fmt.Println("No failures! 🎉")
		return
	}

	fmt.Println("Failures by year:")
	for year := startYear; year <= endYear; year++ {
		if n := summary.FailedYears[year]; n > 0 {
			fmt.Printf("  ✗ %d: %d failures\n", year, n)
		}
	}
	fmt.Println()

	shown := 0
	fmt.Println("================================================================")
	fmt.Println("FAILURES (Date | Check | Detail)")
	fmt.Println("================================================================")
	for _, f := range summary.Failures {
		if shown >= 50 {
			fmt.Printf("  ... and %d more\n", len(summary.Failures)-50)
			break
		}
		fmt.Printf("  %s | %s | %s\n", f.Date, f.Check, f.Detail)
		shown++
	}
	fmt.Println()
}

func saveFailures(filename string, summary *Summary) {
	output := struct {
		GeneratedAt string                 `json:"generated_at"`
		Summary     map[string]interface{} `json:"summary"`
		Failures    []Failure              `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]interface{}{
			"days_checked":     summary.DaysChecked,
			"roundtrip_fails":  summary.RoundTripFails,
			"chain_fails":      summary.ChainFails,
			"store_compared":   summary.StoreCompared,
			"store_mismatches": summary.StoreMismatches,
			"store_missing":    summary.StoreMissing,
		},
		Failures: summary.Failures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
