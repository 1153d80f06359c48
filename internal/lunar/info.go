package lunar

import "time"

// Summary is the lunisolar reading of a single civil day.
type Summary struct {
	Lunar     Date   `json:"lunar"`
	LunarText string `json:"lunar_text"`
	SolarTerm string `json:"solar_term,omitempty"`
	Festival  string `json:"festival,omitempty"`
}

// DayInfo is the full almanac record for one civil day.
type DayInfo struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	Lunar      Date   `json:"lunar"`
	LunarText  string `json:"lunar_text"`
	StemBranch string `json:"stem_branch"`
	Zodiac     string `json:"zodiac"`
	SolarTerm  string `json:"solar_term,omitempty"`
	Festival   string `json:"festival,omitempty"`
	Label      string `json:"label"`
}

// Summarize resolves the lunar date, solar term and festival for t's
// civil date.
func Summarize(t time.Time) Summary {
	d := FromSolar(t)
	term, _ := SolarTermOf(t)
	fest, _ := FestivalOf(d)
	return Summary{Lunar: d, LunarText: d.String(), SolarTerm: term, Festival: fest}
}

// Info resolves the full almanac record for t's civil date. The stem
// branch and zodiac are those of the lunar year, so they roll over at
// lunar new year rather than on 1 January.
func Info(t time.Time) DayInfo {
	d := FromSolar(t)
	term, _ := SolarTermOf(t)
	fest, _ := FestivalOf(d)
	return DayInfo{
		Date:       t.Format("2006-01-02"),
		Weekday:    t.Weekday().String(),
		Lunar:      d,
		LunarText:  d.String(),
		StemBranch: StemBranch(d.Year),
		Zodiac:     Zodiac(d.Year),
		SolarTerm:  term,
		Festival:   fest,
		Label:      label(d, term, fest),
	}
}

// Describe returns the single most salient name for a civil day with
// fixed precedence: its solar term if it falls on one, otherwise its
// festival, otherwise the full lunar date text such as 五月初七.
func Describe(t time.Time) string {
	d := FromSolar(t)
	if term, ok := SolarTermOf(t); ok {
		return term
	}
	if fest, ok := FestivalOf(d); ok {
		return fest
	}
	return d.String()
}

// DayLabel is the compact calendar-cell variant of Describe: the same
// term over festival precedence, but ordinary days fall back to the
// lunar day name alone, and the first day of a month is labeled with
// the month name itself, such as 正月 or 闰二月.
func DayLabel(t time.Time) string {
	d := FromSolar(t)
	term, _ := SolarTermOf(t)
	fest, _ := FestivalOf(d)
	return label(d, term, fest)
}

func label(d Date, term, fest string) string {
	switch {
	case term != "":
		return term
	case fest != "":
		return fest
	case d.Day == 1:
		return MonthName(d.Month, d.IsLeapMonth)
	default:
		return DayName(d.Day)
	}
}
