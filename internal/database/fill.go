package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lunarapi/internal/lunar"
)

// FillRange computes and caches every civil day from start through end
// inclusive. The civil dates are taken from start and end in their own
// locations; each day is resolved at noon in loc, which decides which
// side of midnight a solar term lands on.
//
// The whole range is written in one transaction, and rerunning over an
// existing range refreshes it in place.
func (db *DB) FillRange(ctx context.Context, start, end time.Time, loc *time.Location) (int, error) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	first := time.Date(sy, sm, sd, 12, 0, 0, 0, loc)
	last := time.Date(ey, em, ed, 12, 0, 0, 0, loc)
	if last.Before(first) {
		return 0, fmt.Errorf("range end %s before start %s",
			last.Format("2006-01-02"), first.Format("2006-01-02"))
	}

	count := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.UpsertDay(ctx, NewAlmanacDay(lunar.Info(day))); err != nil {
				return fmt.Errorf("fill %s: %w", day.Format("2006-01-02"), err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Debug("almanac range filled",
		slog.String("start", first.Format("2006-01-02")),
		slog.String("end", last.Format("2006-01-02")),
		slog.Int("days", count),
	)

	return count, nil
}
