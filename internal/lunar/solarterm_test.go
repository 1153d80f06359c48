package lunar

import (
	"testing"
	"time"
)

func TestSolarTermName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "小寒"},
		{2, "立春"},
		{5, "春分"},
		{6, "清明"},
		{11, "夏至"},
		{23, "冬至"},
	}

	for _, tt := range tests {
		if got := SolarTermName(tt.n); got != tt.want {
			t.Errorf("SolarTermName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSolarTermDate_KnownDates(t *testing.T) {
	// Dates are as observed at UTC+8.
	tests := []struct {
		year int
		n    int
		want string
	}{
		{2021, 1, "2021-01-20"},  // 大寒
		{2024, 6, "2024-04-04"},  // 清明
		{2024, 23, "2024-12-21"}, // 冬至
		{2024, 10, "2024-06-05"}, // 芒种
		{2025, 2, "2025-02-04"},  // 立春
	}

	for _, tt := range tests {
		y, m, d := SolarTermDate(tt.year, tt.n, cst)
		got := time.Date(y, m, d, 0, 0, 0, 0, cst).Format("2006-01-02")
		if got != tt.want {
			t.Errorf("SolarTermDate(%d, %d) = %s, want %s", tt.year, tt.n, got, tt.want)
		}
	}
}

func TestSolarTermOf(t *testing.T) {
	got, ok := SolarTermOf(civil(2021, time.January, 20))
	if !ok || got != "大寒" {
		t.Errorf("SolarTermOf(2021-01-20) = %q, %v, want 大寒, true", got, ok)
	}

	// Lunar new year 2025 falls between 大寒 and 立春.
	if got, ok := SolarTermOf(civil(2025, time.January, 29)); ok {
		t.Errorf("SolarTermOf(2025-01-29) = %q, want no term", got)
	}
}

func TestSolarTermOf_MatchesTermDates(t *testing.T) {
	// Every computed term date must resolve back to its own name.
	for _, year := range []int{1900, 1954, 2008, 2024, 2077, 2100} {
		for n := 0; n < TermCount; n++ {
			y, m, d := SolarTermDate(year, n, cst)
			name, ok := SolarTermOf(time.Date(y, m, d, 12, 0, 0, 0, cst))
			if !ok {
				t.Errorf("SolarTermOf() found no term on %d-%02d-%02d (term %d of %d)", y, m, d, n, year)
				continue
			}
			if name != SolarTermName(n) {
				t.Errorf("SolarTermOf(%d-%02d-%02d) = %q, want %q", y, m, d, name, SolarTermName(n))
			}
		}
	}
}

func TestSolarTerms_Ordering(t *testing.T) {
	for _, year := range []int{1900, 2000, 2100} {
		terms := SolarTerms(year, cst)
		if len(terms) != TermCount {
			t.Fatalf("SolarTerms(%d) returned %d terms, want %d", year, len(terms), TermCount)
		}
		if terms[0].Time.Month() != time.January {
			t.Errorf("first term of %d in %s, want January", year, terms[0].Time.Month())
		}
		if terms[23].Time.Month() != time.December {
			t.Errorf("last term of %d in %s, want December", year, terms[23].Time.Month())
		}
		for i := 1; i < len(terms); i++ {
			gap := terms[i].Time.Sub(terms[i-1].Time)
			if gap <= 0 {
				t.Errorf("terms %d and %d of %d out of order", i-1, i, year)
			}
			if gap < 13*24*time.Hour || gap > 18*24*time.Hour {
				t.Errorf("gap between terms %d and %d of %d is %v, outside 13..18 days", i-1, i, year, gap)
			}
		}
	}
}
