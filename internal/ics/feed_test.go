package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
)

// cst is a fixed UTC+8 zone so tests do not depend on host tzdata.
var cst = time.FixedZone("CST", 8*3600)

func findEvent(t *testing.T, cal *ical.Calendar, uid string) *ical.VEvent {
	t.Helper()
	for _, e := range cal.Events() {
		if p := e.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value == uid {
			return e
		}
	}
	t.Fatalf("event %s not found in feed", uid)
	return nil
}

func propValue(e *ical.VEvent, prop ical.ComponentProperty) string {
	if p := e.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func countBySummary(cal *ical.Calendar, summary string) int {
	n := 0
	for _, e := range cal.Events() {
		if propValue(e, ical.ComponentPropertySummary) == summary {
			n++
		}
	}
	return n
}

func TestBuild_SingleYear(t *testing.T) {
	cal, err := Build(2025, 2025, cst)
	if err != nil {
		t.Fatalf("Build(2025, 2025) failed: %v", err)
	}

	// 24 terms plus the 12 festival days that land in civil 2025: the
	// tail of lunar 2024 (腊八, 小年, 除夕 in January) and the first
	// nine festivals of lunar 2025.
	if got := len(cal.Events()); got != 36 {
		t.Errorf("Build(2025, 2025) produced %d events, want 36", got)
	}

	cny := findEvent(t, cal, "festival-2025-1-1@lunarapi")
	if got := propValue(cny, ical.ComponentPropertySummary); got != "春节" {
		t.Errorf("new year summary = %q, want 春节", got)
	}
	if got := propValue(cny, ical.ComponentPropertyDtStart); got != "20250129" {
		t.Errorf("new year DTSTART = %q, want 20250129", got)
	}
	if got := propValue(cny, ical.ComponentPropertyDtEnd); got != "20250130" {
		t.Errorf("new year DTEND = %q, want 20250130", got)
	}

	lichun := findEvent(t, cal, "term-2025-02@lunarapi")
	if got := propValue(lichun, ical.ComponentPropertySummary); got != "立春" {
		t.Errorf("term 2 summary = %q, want 立春", got)
	}
	if got := propValue(lichun, ical.ComponentPropertyDtStart); got != "20250204" {
		t.Errorf("立春 DTSTART = %q, want 20250204", got)
	}
}

func TestBuild_TermDates(t *testing.T) {
	cal, err := Build(2024, 2024, cst)
	if err != nil {
		t.Fatalf("Build(2024, 2024) failed: %v", err)
	}

	tests := []struct {
		uid   string
		name  string
		start string
	}{
		{"term-2024-06@lunarapi", "清明", "20240404"},
		{"term-2024-10@lunarapi", "芒种", "20240605"},
		{"term-2024-23@lunarapi", "冬至", "20241221"},
	}
	for _, tt := range tests {
		e := findEvent(t, cal, tt.uid)
		if got := propValue(e, ical.ComponentPropertySummary); got != tt.name {
			t.Errorf("%s summary = %q, want %q", tt.uid, got, tt.name)
		}
		if got := propValue(e, ical.ComponentPropertyDtStart); got != tt.start {
			t.Errorf("%s DTSTART = %q, want %q", tt.uid, got, tt.start)
		}
	}
}

func TestBuild_MultiYear(t *testing.T) {
	cal, err := Build(2024, 2025, cst)
	if err != nil {
		t.Fatalf("Build(2024, 2025) failed: %v", err)
	}

	// 24 terms and 12 festival days per civil year.
	if got := len(cal.Events()); got != 72 {
		t.Errorf("Build(2024, 2025) produced %d events, want 72", got)
	}

	if got := countBySummary(cal, "春节"); got != 2 {
		t.Errorf("feed has %d 春节 events, want 2", got)
	}

	uids := make(map[string]bool)
	for _, e := range cal.Events() {
		uid := propValue(e, ical.ComponentPropertyUniqueId)
		if uid == "" {
			t.Fatal("event without UID in feed")
		}
		if uids[uid] {
			t.Fatalf("duplicate UID %s in feed", uid)
		}
		uids[uid] = true
	}
}

func TestBuild_EveOfNewYearOnce(t *testing.T) {
	// Lunar 2022 ends on 12-30 (a long final month), so only the 12-30
	// eve entry survives and 2023-01-21 carries the single 除夕.
	cal, err := Build(2023, 2023, cst)
	if err != nil {
		t.Fatalf("Build(2023, 2023) failed: %v", err)
	}

	if got := countBySummary(cal, "除夕"); got != 1 {
		t.Fatalf("feed has %d 除夕 events, want 1", got)
	}
	eve := findEvent(t, cal, "festival-2022-12-30@lunarapi")
	if got := propValue(eve, ical.ComponentPropertyDtStart); got != "20230121" {
		t.Errorf("除夕 DTSTART = %q, want 20230121", got)
	}
}

func TestBuild_LeapMonthSuppressed(t *testing.T) {
	// 2009 repeats month five; only the regular month's 端午节 may
	// appear in the feed.
	cal, err := Build(2009, 2009, cst)
	if err != nil {
		t.Fatalf("Build(2009, 2009) failed: %v", err)
	}

	if got := countBySummary(cal, "端午节"); got != 1 {
		t.Fatalf("feed has %d 端午节 events, want 1", got)
	}
	e := findEvent(t, cal, "festival-2009-5-5@lunarapi")
	if got := propValue(e, ical.ComponentPropertyDtStart); got != "20090528" {
		t.Errorf("端午节 DTSTART = %q, want 20090528", got)
	}
}

func TestBuild_Serialized(t *testing.T) {
	cal, err := Build(2025, 2025, cst)
	if err != nil {
		t.Fatalf("Build(2025, 2025) failed: %v", err)
	}

	out := cal.Serialize()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"METHOD:PUBLISH",
		"PRODID:-//lunarapi//almanac//CN",
		"BEGIN:VEVENT",
		"SUMMARY:春节",
		"DTSTART;VALUE=DATE:20250129",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized feed missing %q", want)
		}
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"inverted range", 2026, 2025},
		{"before table", 1899, 2000},
		{"past table", 2050, 2101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.from, tt.to, cst); err == nil {
				t.Errorf("Build(%d, %d) succeeded, want error", tt.from, tt.to)
			}
		})
	}
}
