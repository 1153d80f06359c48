// Command apitest runs a smoke test suite against a live API server.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080
//
// The known-date checks assume the server runs with the default
// Asia/Shanghai timezone.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DayInfo is the day payload of /day/{date} and /today.
type DayInfo struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	LunarText  string `json:"lunar_text"`
	StemBranch string `json:"stem_branch"`
	Zodiac     string `json:"zodiac"`
	SolarTerm  string `json:"solar_term,omitempty"`
	Festival   string `json:"festival,omitempty"`
	Label      string `json:"label"`
}

// RangeResponse is the response for /range
type RangeResponse struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Count int       `json:"count"`
	Days  []DayInfo `json:"days"`
}

// MonthResponse is the response for /month/{year}/{month}
type MonthResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Days  []struct {
		Date  string `json:"date"`
		Lunar string `json:"lunar"`
		Label string `json:"label"`
	} `json:"days"`
}

// YearResponse is the response for /year/{year}
type YearResponse struct {
	Year       int           `json:"year"`
	StemBranch string        `json:"stem_branch"`
	Zodiac     string        `json:"zodiac"`
	LeapMonth  int           `json:"leap_month"`
	TotalDays  int           `json:"total_days"`
	NewYear    string        `json:"new_year"`
	Festivals  []interface{} `json:"festivals"`
	SolarTerms []interface{} `json:"solar_terms"`
}

// TermsResponse is the response for /terms/{year}
type TermsResponse struct {
	Year  int `json:"year"`
	Terms []struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Time  string `json:"time"`
	} `json:"terms"`
}

// NewYearResponse is the response for /newyear
type NewYearResponse struct {
	Date       string `json:"date"`
	LunarYear  int    `json:"lunar_year"`
	StemBranch string `json:"stem_branch"`
	Zodiac     string `json:"zodiac"`
	DaysUntil  int    `json:"days_until"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status   string `json:"status"`
	Timezone string `json:"timezone"`
	Almanac  string `json:"almanac"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Lunar Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testRanges()
	tr.testMonthAndYear()
	tr.testTermsAndNewYear()
	tr.testCalendarFeed()
	tr.testEdgeCases()
	tr.testNewYearSweep()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (tz=%s, almanac=%s)",
			health.Timezone, health.Almanac))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var day DayInfo
	if err := tr.parseDataAs(resp, &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	if day.Date == "" || day.LunarText == "" || day.Label == "" {
		tr.recordError("Today", fmt.Sprintf("Incomplete day info: %+v", day))
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today (%s): %s / %s", day.Date, day.LunarText, day.Label))
	tr.printDayDetail(&day)
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Date Tests")

	testCases := []struct {
		date          string
		expectedLabel string
		description   string
	}{
		{"2025-01-29", "春节", "Lunar new year 2025"},
		{"2025-01-28", "除夕", "New year's eve before it"},
		{"2024-02-10", "春节", "Lunar new year 2024"},
		{"2021-01-20", "大寒", "Solar term shadowing 腊八节"},
		{"2023-03-22", "闰二月", "First day of the leap second month"},
		{"2024-06-10", "端午节", "Dragon boat festival 2024"},
		{"2025-02-04", "立春", "Start of spring 2025"},
		{"2024-12-21", "冬至", "Winter solstice 2024"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/day/%s", tc.date))
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var day DayInfo
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.Label == tc.expectedLabel {
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, day.Label, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected label '%s', got '%s'",
				tc.expectedLabel, day.Label))
		}

		if tr.verbose {
			tr.printDayDetail(&day)
		}
	}
}

func (tr *TestRunner) testRanges() {
	tr.printSection("Date Range Tests")

	// Test a week range
	resp, err := tr.get("/api/v1/range?start=2025-01-27&end=2025-02-02")
	if err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	var rangeData RangeResponse
	if err := tr.parseDataAs(resp, &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if rangeData.Count == 7 && len(rangeData.Days) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", rangeData.Count))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", rangeData.Count))
	}

	// The new year week crosses the year boundary.
	if len(rangeData.Days) == 7 && rangeData.Days[2].Label == "春节" {
		tr.recordSuccess("Range covers the lunar new year boundary")
	} else if len(rangeData.Days) == 7 {
		tr.recordError("Range (week)", fmt.Sprintf("Day 3 label = %s, expected 春节",
			rangeData.Days[2].Label))
	}

	// Test range limit (should reject > 90 days)
	resp2, _ := tr.getRaw("/api/v1/range?start=2025-01-01&end=2025-12-31")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Range limit enforced (>90 days rejected)")
	} else {
		tr.recordError("Range limit", "Should reject ranges > 90 days")
	}

	// Test invalid range (end before start)
	resp3, _ := tr.getRaw("/api/v1/range?start=2025-12-31&end=2025-01-01")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Invalid range rejected (end before start)")
	} else {
		tr.recordError("Invalid range", "Should reject end < start")
	}
}

func (tr *TestRunner) testMonthAndYear() {
	tr.printSection("Month Grid and Year Summary")

	resp, err := tr.get("/api/v1/month/2025/1")
	if err != nil {
		tr.recordError("Month 2025/1", err.Error())
	} else {
		var month MonthResponse
		if err := tr.parseDataAs(resp, &month); err != nil {
			tr.recordError("Month 2025/1", err.Error())
		} else if len(month.Days) == 31 {
			tr.recordSuccess("January 2025 grid has 31 days")
		} else {
			tr.recordError("Month 2025/1", fmt.Sprintf("Expected 31 days, got %d", len(month.Days)))
		}
	}

	resp2, err := tr.get("/api/v1/year/2025")
	if err != nil {
		tr.recordError("Year 2025", err.Error())
		return
	}

	var year YearResponse
	if err := tr.parseDataAs(resp2, &year); err != nil {
		tr.recordError("Year 2025", err.Error())
		return
	}

	if year.Zodiac == "蛇" && year.TotalDays == 384 && year.NewYear == "2025-01-29" {
		tr.recordSuccess(fmt.Sprintf("Year 2025: %s年 (%s), %d days, leap month %d",
			year.StemBranch, year.Zodiac, year.TotalDays, year.LeapMonth))
	} else {
		tr.recordError("Year 2025", fmt.Sprintf("Unexpected summary: %+v", year))
	}

	if len(year.Festivals) == 12 && len(year.SolarTerms) == 24 {
		tr.recordSuccess("Year 2025 lists 12 festivals and 24 solar terms")
	} else {
		tr.recordError("Year 2025", fmt.Sprintf("Got %d festivals, %d terms",
			len(year.Festivals), len(year.SolarTerms)))
	}
}

func (tr *TestRunner) testTermsAndNewYear() {
	tr.printSection("Solar Terms and Next New Year")

	resp, err := tr.get("/api/v1/terms/2024")
	if err != nil {
		tr.recordError("Terms 2024", err.Error())
	} else {
		var terms TermsResponse
		if err := tr.parseDataAs(resp, &terms); err != nil {
			tr.recordError("Terms 2024", err.Error())
		} else if len(terms.Terms) == 24 && terms.Terms[6].Name == "清明" {
			tr.recordSuccess("Terms 2024: 24 terms, index 6 is 清明")
		} else {
			tr.recordError("Terms 2024", fmt.Sprintf("Got %d terms", len(terms.Terms)))
		}
	}

	resp2, err := tr.get("/api/v1/newyear")
	if err != nil {
		tr.recordError("New year", err.Error())
		return
	}

	var ny NewYearResponse
	if err := tr.parseDataAs(resp2, &ny); err != nil {
		tr.recordError("New year", err.Error())
		return
	}

	if _, err := time.Parse("2006-01-02", ny.Date); err != nil {
		tr.recordError("New year", fmt.Sprintf("Date %q does not parse", ny.Date))
		return
	}
	if ny.DaysUntil < 1 || ny.DaysUntil > 385 {
		tr.recordError("New year", fmt.Sprintf("days_until = %d out of range", ny.DaysUntil))
		return
	}

	tr.recordSuccess(fmt.Sprintf("Next new year %s (%s年, %s) in %d days",
		ny.Date, ny.StemBranch, ny.Zodiac, ny.DaysUntil))
}

func (tr *TestRunner) testCalendarFeed() {
	tr.printSection("Calendar Feed")

	resp, err := tr.getRaw("/api/v1/calendar.ics?from=2025&to=2025")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		tr.recordError("Feed", fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		tr.recordError("Feed", fmt.Sprintf("Content-Type %q", ct))
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}

	feed := string(body)
	if strings.Contains(feed, "BEGIN:VCALENDAR") && strings.Contains(feed, "SUMMARY:春节") {
		tr.recordSuccess("Feed serves VCALENDAR with the new year event")
	} else {
		tr.recordError("Feed", "Feed body missing expected components")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	// Invalid date format
	resp, _ := tr.getRaw("/api/v1/day/invalid")
	if resp != nil && resp.StatusCode == 400 {
		tr.recordSuccess("Invalid date format rejected")
	} else {
		tr.recordError("Invalid date", "Should return 400")
	}

	// Month out of range
	resp2, _ := tr.getRaw("/api/v1/month/2025/13")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Month 13 rejected")
	} else {
		tr.recordError("Month 13", "Should return 400")
	}

	// Year before the tracked range
	resp3, _ := tr.getRaw("/api/v1/year/1899")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Year 1899 rejected")
	} else {
		tr.recordError("Year 1899", "Should return 400")
	}

	// Missing parameters for range
	resp4, _ := tr.getRaw("/api/v1/range?start=2025-01-01")
	if resp4 != nil && resp4.StatusCode == 400 {
		tr.recordSuccess("Missing end parameter rejected")
	} else {
		tr.recordError("Missing param", "Should reject missing end")
	}

	// Unknown route
	resp5, _ := tr.getRaw("/api/v1/nope")
	if resp5 != nil && resp5.StatusCode == 404 {
		tr.recordSuccess("Unknown route returns 404")
	} else {
		tr.recordError("Unknown route", "Should return 404")
	}

	// Dates far outside the tracked years clamp rather than fail
	resp6, err := tr.get("/api/v1/day/2150-06-15")
	if err != nil {
		tr.recordError("Far future", err.Error())
	} else {
		tr.recordSuccess("Far future date (2150) handled")
	}
	_ = resp6
}

func (tr *TestRunner) testNewYearSweep() {
	tr.printSection("Full January 2025 (腊月 → 正月)")

	for day := 1; day <= 31; day++ {
		date := fmt.Sprintf("2025-01-%02d", day)
		resp, err := tr.get(fmt.Sprintf("/api/v1/day/%s", date))
		if err != nil {
			tr.recordError(date, err.Error())
			continue
		}

		var info DayInfo
		if err := tr.parseDataAs(resp, &info); err != nil {
			tr.recordError(date, err.Error())
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s / %s [%s年]",
			date, info.LunarText, info.Label, info.Zodiac))

		if tr.verbose {
			tr.printDayDetail(&info)
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	url := tr.baseURL + path
	return tr.client.Get(url)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d *DayInfo) {
	if d == nil {
		return
	}
	fmt.Printf("    Lunar: %s (%s年, %s)\n", d.LunarText, d.StemBranch, d.Zodiac)
	if d.SolarTerm != "" {
		fmt.Printf("    Solar term: %s\n", d.SolarTerm)
	}
	if d.Festival != "" {
		fmt.Printf("    Festival: %s\n", d.Festival)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	_, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
