// Package lunar converts between Gregorian civil dates and the Chinese
// lunisolar calendar for the years 1900 through 2100.
//
// Conversion is driven by a packed table of month lengths and leap
// months, anchored on 31 January 1900, which is the first day of lunar
// year 1900 (正月初一). Day offsets between civil dates are computed
// via Julian Day Numbers, so the arithmetic is independent of time
// zones and daylight saving rules.
package lunar

import (
	"fmt"
	"time"

	"github.com/carlosjhr64/jd"
)

// Date is a date on the Chinese lunisolar calendar. Month numbers run
// 1..12; a leap month carries the number of the regular month it
// follows with IsLeapMonth set.
type Date struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"`
	Day         int  `json:"day"`
	IsLeapMonth bool `json:"is_leap_month"`
}

// epochJDN is the Julian Day Number of 31 January 1900, the epoch of
// the year table.
var epochJDN = jd.YMD2J(1900, 1, 31)

// FromSolar converts a civil date to its lunisolar equivalent. The
// calendar date is taken from t in t's own location; the time of day
// is ignored. Dates before 31 January 1900 return the first supported
// day, and dates past the end of the table clamp to the last day of
// lunar year 2100.
func FromSolar(t time.Time) Date {
	y, m, d := t.Date()
	offset := jd.YMD2J(y, int(m), d) - epochJDN
	if offset < 0 {
		return Date{Year: MinYear, Month: 1, Day: 1}
	}

	year := MinYear
	for year < MaxYear {
		days := YearDays(year)
		if offset < days {
			break
		}
		offset -= days
		year++
	}

	// Walk the months in chronological order. The leap month comes
	// immediately after the regular month of the same number.
	leap := LeapMonth(year)
	for month := 1; month <= 12; month++ {
		days := MonthDays(year, month)
		if offset < days {
			return Date{Year: year, Month: month, Day: offset + 1}
		}
		offset -= days
		if month == leap {
			days = LeapDays(year)
			if offset < days {
				return Date{Year: year, Month: month, Day: offset + 1, IsLeapMonth: true}
			}
			offset -= days
		}
	}
	return Date{Year: MaxYear, Month: 12, Day: MonthDays(MaxYear, 12)}
}

// ToSolar converts a lunisolar date back to the civil calendar,
// returned as midnight UTC. It returns an error when d does not name a
// real day, such as day 30 of a 29-day month or a leap month the year
// does not have.
func ToSolar(d Date) (time.Time, error) {
	if d.Year < MinYear || d.Year > MaxYear {
		return time.Time{}, fmt.Errorf("lunar year %d out of range [%d, %d]", d.Year, MinYear, MaxYear)
	}
	if d.Month < 1 || d.Month > 12 {
		return time.Time{}, fmt.Errorf("lunar month %d out of range [1, 12]", d.Month)
	}
	if d.IsLeapMonth && LeapMonth(d.Year) != d.Month {
		return time.Time{}, fmt.Errorf("lunar year %d has no leap month %d", d.Year, d.Month)
	}
	length := MonthDays(d.Year, d.Month)
	if d.IsLeapMonth {
		length = LeapDays(d.Year)
	}
	if d.Day < 1 || d.Day > length {
		return time.Time{}, fmt.Errorf("day %d out of range for a %d-day month", d.Day, length)
	}

	offset := 0
	for y := MinYear; y < d.Year; y++ {
		offset += YearDays(y)
	}
	leap := LeapMonth(d.Year)
	for m := 1; m < d.Month; m++ {
		offset += MonthDays(d.Year, m)
		if m == leap {
			offset += LeapDays(d.Year)
		}
	}
	if d.IsLeapMonth {
		offset += MonthDays(d.Year, d.Month)
	}
	offset += d.Day - 1

	y, m, day := jd.J2YMD(epochJDN + offset)
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC), nil
}

// NewYear returns the civil date of 正月初一, the lunar new year, for
// the given lunar year.
func NewYear(year int) (time.Time, error) {
	return ToSolar(Date{Year: year, Month: 1, Day: 1})
}

// NextNewYear returns the first lunar new year strictly after t and
// the lunar year it begins. It fails once t falls in the last year of
// the table.
func NextNewYear(t time.Time) (time.Time, int, error) {
	year := FromSolar(t).Year + 1
	if year > MaxYear {
		return time.Time{}, 0, fmt.Errorf("no new year on record after lunar year %d", MaxYear)
	}
	ny, err := NewYear(year)
	if err != nil {
		return time.Time{}, 0, err
	}
	return ny, year, nil
}
