// Package ics renders traditional festivals and solar terms as an
// iCalendar feed suitable for calendar subscriptions.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"lunarapi/internal/lunar"
)

// Build produces a calendar of all-day events covering the civil years
// from through to, inclusive: one event per solar term and one per
// traditional festival. Term dates are resolved in loc. Event UIDs are
// stable across rebuilds so subscribed clients update in place.
func Build(from, to int, loc *time.Location) (*ical.Calendar, error) {
	if from > to {
		return nil, fmt.Errorf("from year %d is after to year %d", from, to)
	}
	if from < lunar.MinYear || to > lunar.MaxYear {
		return nil, fmt.Errorf("years %d-%d outside supported range %d-%d", from, to, lunar.MinYear, lunar.MaxYear)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//lunarapi//almanac//CN")
	cal.SetXWRCalName("农历节日与节气")

	stamp := time.Now().UTC()

	for year := from; year <= to; year++ {
		for _, term := range lunar.SolarTerms(year, loc) {
			e := cal.AddEvent(fmt.Sprintf("term-%d-%02d@lunarapi", year, term.Index))
			e.SetDtStampTime(stamp)
			e.SetAllDayStartAt(term.Time)
			e.SetAllDayEndAt(term.Time.AddDate(0, 0, 1))
			e.SetSummary(term.Name)
			e.SetDescription("二十四节气")
		}
	}

	// A lunar year straddles two civil years, so the festivals of the
	// lunar year before the range can still land inside it.
	for year := from - 1; year <= to; year++ {
		if year < lunar.MinYear {
			continue
		}
		festivals, err := lunar.Festivals(year)
		if err != nil {
			return nil, fmt.Errorf("festivals of %d: %w", year, err)
		}
		for _, fest := range festivals {
			if cy := fest.Time.Year(); cy < from || cy > to {
				continue
			}
			uid := fmt.Sprintf("festival-%d-%d-%d@lunarapi", fest.Lunar.Year, fest.Lunar.Month, fest.Lunar.Day)
			e := cal.AddEvent(uid)
			e.SetDtStampTime(stamp)
			e.SetAllDayStartAt(fest.Time)
			e.SetAllDayEndAt(fest.Time.AddDate(0, 0, 1))
			e.SetSummary(fest.Name)
			e.SetDescription("农历" + fest.Lunar.String())
		}
	}

	return cal, nil
}
