package lunar

import (
	"testing"
	"time"
)

// cst is a fixed UTC+8 zone so tests do not depend on host tzdata.
var cst = time.FixedZone("CST", 8*3600)

// civil builds a civil date at noon, away from midnight boundaries.
func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, cst)
}

func TestYearTable_KnownYears(t *testing.T) {
	tests := []struct {
		year      int
		leapMonth int
		leapDays  int
		yearDays  int
	}{
		{1900, 8, 29, 384},
		{2020, 4, 29, 384},
		{2023, 2, 29, 384},
		{2024, 0, 0, 354},
		{2025, 6, 29, 384},
		{2033, 11, 29, 384},
		{2100, 0, 0, 354},
	}

	for _, tt := range tests {
		if got := LeapMonth(tt.year); got != tt.leapMonth {
			t.Errorf("LeapMonth(%d) = %d, want %d", tt.year, got, tt.leapMonth)
		}
		if tt.leapDays > 0 {
			if got := LeapDays(tt.year); got != tt.leapDays {
				t.Errorf("LeapDays(%d) = %d, want %d", tt.year, got, tt.leapDays)
			}
		}
		if tt.yearDays > 0 {
			if got := YearDays(tt.year); got != tt.yearDays {
				t.Errorf("YearDays(%d) = %d, want %d", tt.year, got, tt.yearDays)
			}
		}
	}
}

func TestYearTable_MonthLengths(t *testing.T) {
	// 1900: months 1..12 decoded from entry 0x04bd8.
	want := []int{29, 30, 29, 29, 30, 29, 30, 30, 30, 30, 29, 30}
	for m := 1; m <= 12; m++ {
		if got := MonthDays(1900, m); got != want[m-1] {
			t.Errorf("MonthDays(1900, %d) = %d, want %d", m, got, want[m-1])
		}
	}

	if IsBigMonth(1900, 0) || IsBigMonth(1900, 14) {
		t.Error("IsBigMonth() outside 1..13 should be false")
	}
}

func TestIsBigMonth_LeapQuery(t *testing.T) {
	// Month 13 addresses the year's leap month.
	if !IsBigMonth(2017, 13) {
		t.Error("IsBigMonth(2017, 13) = false, want true for the 30-day leap month")
	}
	if IsBigMonth(2025, 13) {
		t.Error("IsBigMonth(2025, 13) = true, want false for a 29-day leap month")
	}
	if IsBigMonth(2024, 13) {
		t.Error("IsBigMonth(2024, 13) = true, want false when the year has no leap month")
	}
}

func TestYearTable_ClampsOutOfRange(t *testing.T) {
	// Years outside the table fall back to the 1900 entry on both
	// sides, so 1899 and 2101 read identically.
	if got, want := LeapMonth(1899), LeapMonth(1900); got != want {
		t.Errorf("LeapMonth(1899) = %d, want %d", got, want)
	}
	if got, want := LeapMonth(2101), LeapMonth(1900); got != want {
		t.Errorf("LeapMonth(2101) = %d, want %d", got, want)
	}
	if got, want := YearDays(2150), YearDays(1900); got != want {
		t.Errorf("YearDays(2150) = %d, want %d", got, want)
	}
}

func TestYearTable_DaysAddUp(t *testing.T) {
	// The sum of the month lengths must equal the year total for every
	// year in the table.
	for year := MinYear; year <= MaxYear; year++ {
		sum := LeapDays(year)
		for m := 1; m <= 12; m++ {
			sum += MonthDays(year, m)
		}
		if got := YearDays(year); got != sum {
			t.Errorf("YearDays(%d) = %d, want month sum %d", year, got, sum)
		}
		if days := YearDays(year); days < 353 || days > 385 {
			t.Errorf("YearDays(%d) = %d, outside plausible range", year, days)
		}
	}
}

func TestFromSolar_KnownDates(t *testing.T) {
	tests := []struct {
		name  string
		civil time.Time
		want  Date
	}{
		{"epoch day", civil(1900, time.January, 31), Date{1900, 1, 1, false}},
		{"new year 1901", civil(1901, time.February, 19), Date{1901, 1, 1, false}},
		{"new year 2025", civil(2025, time.January, 29), Date{2025, 1, 1, false}},
		{"eve of 2025", civil(2025, time.January, 28), Date{2024, 12, 29, false}},
		{"dragon boat 2024", civil(2024, time.June, 10), Date{2024, 5, 5, false}},
		{"mid-autumn 2023", civil(2023, time.September, 29), Date{2023, 8, 15, false}},
		{"laba 2020 in civil 2021", civil(2021, time.January, 20), Date{2020, 12, 8, false}},
		{"last day before leap 2023", civil(2023, time.March, 21), Date{2023, 2, 30, false}},
		{"first day of leap month 2023", civil(2023, time.March, 22), Date{2023, 2, 1, true}},
		{"fifth day of leap month 2009", civil(2009, time.June, 27), Date{2009, 5, 5, true}},
		{"month after leap 2023", civil(2023, time.April, 20), Date{2023, 3, 1, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromSolar(tt.civil); got != tt.want {
				t.Errorf("FromSolar(%s) = %+v, want %+v", tt.civil.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestFromSolar_TimeOfDayIgnored(t *testing.T) {
	early := time.Date(2025, time.January, 29, 0, 0, 0, 0, cst)
	late := time.Date(2025, time.January, 29, 23, 59, 59, 0, cst)
	if FromSolar(early) != FromSolar(late) {
		t.Errorf("FromSolar() differs across one civil day: %+v vs %+v", FromSolar(early), FromSolar(late))
	}
}

func TestFromSolar_BeforeEpoch(t *testing.T) {
	want := Date{MinYear, 1, 1, false}
	for _, d := range []time.Time{
		civil(1900, time.January, 30),
		civil(1900, time.January, 1),
		civil(1899, time.December, 31),
		civil(1850, time.June, 15),
	} {
		if got := FromSolar(d); got != want {
			t.Errorf("FromSolar(%s) = %+v, want %+v", d.Format("2006-01-02"), got, want)
		}
	}
}

func TestFromSolar_BeyondTable(t *testing.T) {
	got := FromSolar(civil(2102, time.June, 1))
	want := Date{MaxYear, 12, MonthDays(MaxYear, 12), false}
	if got != want {
		t.Errorf("FromSolar(2102-06-01) = %+v, want clamp %+v", got, want)
	}
}

func TestToSolar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		date Date
	}{
		{"year too early", Date{1899, 1, 1, false}},
		{"year too late", Date{2101, 1, 1, false}},
		{"month zero", Date{2024, 0, 1, false}},
		{"month thirteen", Date{2024, 13, 1, false}},
		{"no such leap month", Date{2024, 5, 5, true}},
		{"wrong leap month", Date{2023, 3, 1, true}},
		{"day zero", Date{2024, 1, 0, false}},
		{"day past short month", Date{2024, 1, 30, false}},
		{"day past leap month", Date{2023, 2, 30, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToSolar(tt.date); err == nil {
				t.Errorf("ToSolar(%+v) succeeded, want error", tt.date)
			}
		})
	}
}

func TestToSolar_KnownDates(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{Date{1900, 1, 1, false}, "1900-01-31"},
		{Date{2025, 1, 1, false}, "2025-01-29"},
		{Date{2023, 2, 1, true}, "2023-03-22"},
		{Date{2024, 5, 5, false}, "2024-06-10"},
		{Date{2020, 12, 8, false}, "2021-01-20"},
	}

	for _, tt := range tests {
		got, err := ToSolar(tt.date)
		if err != nil {
			t.Fatalf("ToSolar(%+v) failed: %v", tt.date, err)
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("ToSolar(%+v) = %s, want %s", tt.date, s, tt.want)
		}
	}
}

// seq assigns consecutive lunar days strictly increasing keys. A leap
// month sorts between its regular month and the next one.
func seq(d Date) int {
	idx := d.Month * 2
	if d.IsLeapMonth {
		idx++
	}
	return (d.Year*100+idx)*100 + d.Day
}

func TestConversion_FullSweep(t *testing.T) {
	// Walk every supported civil day and check ordering, round-trip
	// behavior and per-year day counts in one pass.
	total := 0
	for y := MinYear; y <= MaxYear; y++ {
		total += YearDays(y)
	}

	day := time.Date(1900, time.January, 31, 12, 0, 0, 0, time.UTC)
	prev := -1
	perYear := make(map[int]int)
	for i := 0; i < total; i++ {
		ld := FromSolar(day)
		if k := seq(ld); k <= prev {
			t.Fatalf("lunar order regressed at %s: %+v", day.Format("2006-01-02"), ld)
		} else {
			prev = k
		}
		perYear[ld.Year]++

		back, err := ToSolar(ld)
		if err != nil {
			t.Fatalf("ToSolar(%+v) failed for %s: %v", ld, day.Format("2006-01-02"), err)
		}
		by, bm, bd := back.Date()
		cy, cm, cd := day.Date()
		if by != cy || bm != cm || bd != cd {
			t.Fatalf("round trip of %s returned %s", day.Format("2006-01-02"), back.Format("2006-01-02"))
		}

		day = day.AddDate(0, 0, 1)
	}

	for y := MinYear; y <= MaxYear; y++ {
		if perYear[y] != YearDays(y) {
			t.Errorf("swept %d days for lunar year %d, want %d", perYear[y], y, YearDays(y))
		}
	}
}

func TestNewYear(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1900, "1900-01-31"},
		{1901, "1901-02-19"},
		{2024, "2024-02-10"},
		{2025, "2025-01-29"},
		{2026, "2026-02-17"},
	}

	for _, tt := range tests {
		got, err := NewYear(tt.year)
		if err != nil {
			t.Fatalf("NewYear(%d) failed: %v", tt.year, err)
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("NewYear(%d) = %s, want %s", tt.year, s, tt.want)
		}
	}

	if _, err := NewYear(1899); err == nil {
		t.Error("NewYear(1899) succeeded, want error")
	}
}

func TestNextNewYear(t *testing.T) {
	ny, year, err := NextNewYear(civil(2024, time.June, 10))
	if err != nil {
		t.Fatalf("NextNewYear() failed: %v", err)
	}
	if year != 2025 {
		t.Errorf("NextNewYear() year = %d, want 2025", year)
	}
	if s := ny.Format("2006-01-02"); s != "2025-01-29" {
		t.Errorf("NextNewYear() = %s, want 2025-01-29", s)
	}

	// On new year's day itself the next one is a full year out.
	ny, year, err = NextNewYear(civil(2025, time.January, 29))
	if err != nil {
		t.Fatalf("NextNewYear() on new year failed: %v", err)
	}
	if year != 2026 || ny.Format("2006-01-02") != "2026-02-17" {
		t.Errorf("NextNewYear() = %s year %d, want 2026-02-17 year 2026", ny.Format("2006-01-02"), year)
	}

	if _, _, err := NextNewYear(civil(2100, time.June, 1)); err == nil {
		t.Error("NextNewYear() in final table year succeeded, want error")
	}
}
