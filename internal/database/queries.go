package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	// Try ISO format with microseconds (no timezone)
	t, err = time.Parse("2006-01-02T15:04:05.999999", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// almanacDayColumns is the column list every day query selects, in the
// order scanDay expects.
const almanacDayColumns = `
	id, date, weekday,
	lunar_year, lunar_month, lunar_day, is_leap_month, lunar_text,
	stem_branch, zodiac, solar_term, festival, label,
	created_at, updated_at
`

// scanDay reads one almanac_days row.
func scanDay(s rowScanner) (*AlmanacDay, error) {
	var day AlmanacDay
	var solarTerm, festival, createdAt, updatedAt sql.NullString

	err := s.Scan(
		&day.ID,
		&day.Date,
		&day.Weekday,
		&day.LunarYear,
		&day.LunarMonth,
		&day.LunarDay,
		&day.IsLeapMonth,
		&day.LunarText,
		&day.StemBranch,
		&day.Zodiac,
		&solarTerm,
		&festival,
		&day.Label,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if solarTerm.Valid {
		day.SolarTerm = &solarTerm.String
	}
	if festival.Valid {
		day.Festival = &festival.String
	}
	if t := parseTimestamp(createdAt); t != nil {
		day.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		day.UpdatedAt = *t
	}

	return &day, nil
}

// =============================================================================
// Almanac Day Queries
// =============================================================================

// GetDayByDate retrieves the cached reading for a civil date
// (YYYY-MM-DD). Returns ErrNotFound if the date has not been generated.
//
// This is the most common query - used for /api/v1/day/{date}
func (db *DB) GetDayByDate(ctx context.Context, date string) (*AlmanacDay, error) {
	query := `SELECT ` + almanacDayColumns + ` FROM almanac_days WHERE date = ?`

	day, err := scanDay(db.QueryRowContext(ctx, query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query day by date: %w", err)
	}

	return day, nil
}

// GetDaysByRange retrieves cached readings for a date range
// (inclusive), ordered by date. Returns an empty slice if no rows
// fall in the range.
//
// Used for /api/v1/range?start=X&end=Y
func (db *DB) GetDaysByRange(ctx context.Context, startDate, endDate string) ([]AlmanacDay, error) {
	query := `SELECT ` + almanacDayColumns + `
		FROM almanac_days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC`

	rows, err := db.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query days by range: %w", err)
	}
	defer rows.Close()

	var days []AlmanacDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day row: %w", err)
		}
		days = append(days, *day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day rows: %w", err)
	}

	return days, nil
}

// upsertDaySQL inserts a day or refreshes it in place. Idempotent, so
// regeneration can overwrite old rows freely.
const upsertDaySQL = `
	INSERT INTO almanac_days (
		date, weekday,
		lunar_year, lunar_month, lunar_day, is_leap_month, lunar_text,
		stem_branch, zodiac, solar_term, festival, label, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT(date) DO UPDATE SET
		weekday = excluded.weekday,
		lunar_year = excluded.lunar_year,
		lunar_month = excluded.lunar_month,
		lunar_day = excluded.lunar_day,
		is_leap_month = excluded.is_leap_month,
		lunar_text = excluded.lunar_text,
		stem_branch = excluded.stem_branch,
		zodiac = excluded.zodiac,
		solar_term = excluded.solar_term,
		festival = excluded.festival,
		label = excluded.label,
		updated_at = datetime('now')
`

func upsertDayArgs(day *AlmanacDay) []any {
	return []any{
		day.Date,
		day.Weekday,
		day.LunarYear,
		day.LunarMonth,
		day.LunarDay,
		day.IsLeapMonth,
		day.LunarText,
		day.StemBranch,
		day.Zodiac,
		day.SolarTerm,
		day.Festival,
		day.Label,
	}
}

// UpsertDay inserts or updates a single cached day.
func (db *DB) UpsertDay(ctx context.Context, day *AlmanacDay) error {
	if _, err := db.ExecContext(ctx, upsertDaySQL, upsertDayArgs(day)...); err != nil {
		return fmt.Errorf("upsert almanac day: %w", err)
	}
	return nil
}

// UpsertDay inserts or updates a single cached day within a
// transaction. Used by bulk generation.
func (tx *Tx) UpsertDay(ctx context.Context, day *AlmanacDay) error {
	if _, err := tx.ExecContext(ctx, upsertDaySQL, upsertDayArgs(day)...); err != nil {
		return fmt.Errorf("upsert almanac day: %w", err)
	}
	return nil
}

// DeleteDay removes a cached day by civil date.
// Returns ErrNotFound if the date doesn't exist.
//
// Mainly for testing/debugging - regeneration overwrites in place.
func (db *DB) DeleteDay(ctx context.Context, date string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM almanac_days WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete almanac day: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// CountDays returns the number of cached days.
func (db *DB) CountDays(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM almanac_days`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count almanac days: %w", err)
	}
	return count, nil
}

// GetAlmanacStats returns coverage statistics for the cache.
//
// Useful for:
// - Health check endpoint
// - Verifying generator coverage
// - Deciding when to regenerate
func (db *DB) GetAlmanacStats(ctx context.Context) (*AlmanacStats, error) {
	query := `
		SELECT
			COUNT(*) as total_days,
			COALESCE(MIN(date), '') as earliest_date,
			COALESCE(MAX(date), '') as latest_date,
			MAX(updated_at) as generated_at
		FROM almanac_days
	`

	var stats AlmanacStats
	var generatedAt sql.NullString // SQLite stores as TEXT, not native time

	err := db.QueryRowContext(ctx, query).Scan(
		&stats.TotalDays,
		&stats.EarliestDate,
		&stats.LatestDate,
		&generatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query almanac stats: %w", err)
	}

	stats.GeneratedAt = parseTimestamp(generatedAt)

	return &stats, nil
}
