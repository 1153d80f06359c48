package lunar

import (
	"math"
	"time"
)

// TermCount is the number of solar terms in a year.
const TermCount = 24

// termEpoch is the instant of 小寒 1900, the start of the term cycle
// the offsets below are measured from.
var termEpoch = time.Date(1900, time.January, 6, 2, 5, 0, 0, time.UTC)

// tropicalYearMs is the mean tropical year in milliseconds.
const tropicalYearMs = 31556925974.7

// termMinutes holds each term's offset in minutes from the start of
// its year's cycle.
var termMinutes = [TermCount]int64{
	0, 21208, 42467, 63836, 85337, 107014,
	128867, 150921, 173149, 195551, 218072, 240693,
	263343, 285989, 308563, 331033, 353350, 375494,
	397447, 419210, 440795, 462224, 483532, 504758,
}

var termNames = [TermCount]string{
	"小寒", "大寒", "立春", "雨水", "惊蛰", "春分",
	"清明", "谷雨", "立夏", "小满", "芒种", "夏至",
	"小暑", "大暑", "立秋", "处暑", "白露", "秋分",
	"寒露", "霜降", "立冬", "小雪", "大雪", "冬至",
}

// TermDate is a named solar term with its resolved instant.
type TermDate struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	Time  time.Time `json:"time"`
}

// SolarTermName returns the name of term n, where 0 is 小寒 and 23 is
// 冬至.
func SolarTermName(n int) string {
	return termNames[n]
}

// SolarTermTime returns the approximate instant of term n (0..23) of
// the given year, expressed in loc. The approximation is mean-value
// based and reliable at day precision within the supported year range.
func SolarTermTime(year, n int, loc *time.Location) time.Time {
	ms := termEpoch.UnixMilli()
	ms += int64(math.Round(float64(year-1900) * tropicalYearMs))
	ms += termMinutes[n] * 60000
	return time.UnixMilli(ms).In(loc)
}

// SolarTermDate returns the civil date of term n of the given year as
// observed in loc.
func SolarTermDate(year, n int, loc *time.Location) (int, time.Month, int) {
	return SolarTermTime(year, n, loc).Date()
}

// SolarTermOf returns the name of the solar term falling on t's civil
// date, if any. The date is taken in t's location.
func SolarTermOf(t time.Time) (string, bool) {
	y, m, d := t.Date()
	for n := 0; n < TermCount; n++ {
		ty, tm, td := SolarTermDate(y, n, t.Location())
		if ty == y && tm == m && td == d {
			return termNames[n], true
		}
	}
	return "", false
}

// SolarTerms returns the 24 terms of a year in cycle order, resolved
// in loc.
func SolarTerms(year int, loc *time.Location) []TermDate {
	terms := make([]TermDate, TermCount)
	for n := 0; n < TermCount; n++ {
		terms[n] = TermDate{Index: n, Name: termNames[n], Time: SolarTermTime(year, n, loc)}
	}
	return terms
}
