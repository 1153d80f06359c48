package database

import (
	"time"

	"lunarapi/internal/lunar"
)

// AlmanacDay is one civil day's cached lunisolar reading.
type AlmanacDay struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"` // ISO 8601 format: YYYY-MM-DD
	Weekday     string    `json:"weekday"`
	LunarYear   int       `json:"lunar_year"`
	LunarMonth  int       `json:"lunar_month"`
	LunarDay    int       `json:"lunar_day"`
	IsLeapMonth bool      `json:"is_leap_month"`
	LunarText   string    `json:"lunar_text"`
	StemBranch  string    `json:"stem_branch"`
	Zodiac      string    `json:"zodiac"`
	SolarTerm   *string   `json:"solar_term,omitempty"` // nullable
	Festival    *string   `json:"festival,omitempty"`   // nullable
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAlmanacDay builds a row from an engine-resolved day.
func NewAlmanacDay(info lunar.DayInfo) *AlmanacDay {
	day := &AlmanacDay{
		Date:        info.Date,
		Weekday:     info.Weekday,
		LunarYear:   info.Lunar.Year,
		LunarMonth:  info.Lunar.Month,
		LunarDay:    info.Lunar.Day,
		IsLeapMonth: info.Lunar.IsLeapMonth,
		LunarText:   info.LunarText,
		StemBranch:  info.StemBranch,
		Zodiac:      info.Zodiac,
		Label:       info.Label,
	}
	if info.SolarTerm != "" {
		day.SolarTerm = &info.SolarTerm
	}
	if info.Festival != "" {
		day.Festival = &info.Festival
	}
	return day
}

// Info converts a stored row back into the engine's day record.
func (d *AlmanacDay) Info() lunar.DayInfo {
	info := lunar.DayInfo{
		Date:    d.Date,
		Weekday: d.Weekday,
		Lunar: lunar.Date{
			Year:        d.LunarYear,
			Month:       d.LunarMonth,
			Day:         d.LunarDay,
			IsLeapMonth: d.IsLeapMonth,
		},
		LunarText:  d.LunarText,
		StemBranch: d.StemBranch,
		Zodiac:     d.Zodiac,
		Label:      d.Label,
	}
	if d.SolarTerm != nil {
		info.SolarTerm = *d.SolarTerm
	}
	if d.Festival != nil {
		info.Festival = *d.Festival
	}
	return info
}

// AlmanacStats describes the coverage of the cache.
type AlmanacStats struct {
	TotalDays    int        `json:"total_days"`
	EarliestDate string     `json:"earliest_date"`
	LatestDate   string     `json:"latest_date"`
	GeneratedAt  *time.Time `json:"generated_at,omitempty"` // most recent row update
}
