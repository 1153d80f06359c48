package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"lunarapi/internal/config"
	"lunarapi/internal/database"
	"lunarapi/internal/ics"
	"lunarapi/internal/lunar"
)

// Handlers contains all HTTP handlers and their dependencies. The
// database is optional; with a nil db every answer is computed live.
type Handlers struct {
	db     *database.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":   "healthy",
		"timezone": h.cfg.Timezone,
		"almanac":  "disabled",
	}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Almanac database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
		status["almanac"] = "ok"
	}

	WriteSuccess(w, status)
}

// GetToday handles GET /api/v1/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.cfg.Location)
	WriteSuccess(w, h.infoForDate(r.Context(), noonOf(now)))
}

// GetDay handles GET /api/v1/day/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := time.ParseInLocation("2006-01-02", dateStr, h.cfg.Location)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	WriteSuccess(w, h.infoForDate(r.Context(), noonOf(date)))
}

// GetRange handles GET /api/v1/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := time.ParseInLocation("2006-01-02", startStr, h.cfg.Location)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := time.ParseInLocation("2006-01-02", endStr, h.cfg.Location)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if startDate.After(endDate) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	// Limit range to 90 days to prevent abuse
	daysDiff := int(endDate.Sub(startDate).Hours() / 24)
	if daysDiff > 90 {
		WriteBadRequest(w, "Date range cannot exceed 90 days")
		return
	}

	// One range query against the almanac, live computation for any
	// day it does not cover.
	cached := make(map[string]lunar.DayInfo)
	if h.db != nil {
		rows, err := h.db.GetDaysByRange(ctx, startStr, endStr)
		if err != nil {
			h.logger.Warn("almanac range lookup failed, computing live",
				slog.String("start", startStr),
				slog.String("end", endStr),
				slog.Any("error", err))
		} else {
			for i := range rows {
				cached[rows[i].Date] = rows[i].Info()
			}
		}
	}

	days := make([]lunar.DayInfo, 0, daysDiff+1)
	last := noonOf(endDate)
	for cur := noonOf(startDate); !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		info, ok := cached[cur.Format("2006-01-02")]
		if !ok {
			info = lunar.Info(cur)
		}
		days = append(days, info)
	}

	WriteSuccess(w, map[string]interface{}{
		"start": startStr,
		"end":   endStr,
		"count": len(days),
		"days":  days,
	})
}

// monthDay is one cell of the month view.
type monthDay struct {
	Date  string `json:"date"`
	Lunar string `json:"lunar"`
	Label string `json:"label"`
}

// GetMonth handles GET /api/v1/month/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	monthStr := chi.URLParam(r, "month")
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %s. Use 1-12", monthStr))
		return
	}

	days := make([]monthDay, 0, 31)
	first := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, h.cfg.Location)
	for cur := first; cur.Month() == time.Month(month); cur = cur.AddDate(0, 0, 1) {
		days = append(days, monthDay{
			Date:  cur.Format("2006-01-02"),
			Lunar: lunar.FromSolar(cur).String(),
			Label: lunar.DayLabel(cur),
		})
	}

	WriteSuccess(w, map[string]interface{}{
		"year":  year,
		"month": month,
		"days":  days,
	})
}

// GetYear handles GET /api/v1/year/{year}
//
// The path parameter names a lunar year; the solar terms in the
// response are those of the civil year with the same number.
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	newYear, err := lunar.NewYear(year)
	if err != nil {
		h.logger.Error("failed to resolve lunar new year", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve lunar new year")
		return
	}

	festivals, err := lunar.Festivals(year)
	if err != nil {
		h.logger.Error("failed to resolve festivals", slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve festivals")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"year":        year,
		"stem_branch": lunar.StemBranch(year),
		"zodiac":      lunar.Zodiac(year),
		"leap_month":  lunar.LeapMonth(year),
		"total_days":  lunar.YearDays(year),
		"new_year":    newYear.Format("2006-01-02"),
		"festivals":   festivals,
		"solar_terms": lunar.SolarTerms(year, h.cfg.Location),
	})
}

// GetTerms handles GET /api/v1/terms/{year}
func (h *Handlers) GetTerms(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"year":  year,
		"terms": lunar.SolarTerms(year, h.cfg.Location),
	})
}

// GetNewYear handles GET /api/v1/newyear
func (h *Handlers) GetNewYear(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.cfg.Location)

	next, year, err := lunar.NextNewYear(now)
	if err != nil {
		h.logger.Error("failed to resolve next lunar new year", slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve next lunar new year")
		return
	}

	// Both instants are midnights of civil dates, so the difference is
	// a whole number of days.
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	daysUntil := int(next.Sub(today).Hours() / 24)

	WriteSuccess(w, map[string]interface{}{
		"date":        next.Format("2006-01-02"),
		"lunar_year":  year,
		"stem_branch": lunar.StemBranch(year),
		"zodiac":      lunar.Zodiac(year),
		"days_until":  daysUntil,
	})
}

// GetCalendar handles GET /api/v1/calendar.ics?from=YYYY&to=YYYY
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	thisYear := time.Now().In(h.cfg.Location).Year()
	from, to := thisYear, thisYear+1

	if s := r.URL.Query().Get("from"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid from year: %s", s))
			return
		}
		from = v
	}
	if s := r.URL.Query().Get("to"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid to year: %s", s))
			return
		}
		to = v
	}

	feed, err := ics.Build(from, to, h.cfg.Location)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteCalendar(w, feed.Serialize())
}

// infoForDate returns the almanac record for a civil date, consulting
// the store first when one is configured and computing live otherwise.
func (h *Handlers) infoForDate(ctx context.Context, t time.Time) lunar.DayInfo {
	if h.db != nil {
		day, err := h.db.GetDayByDate(ctx, t.Format("2006-01-02"))
		switch {
		case err == nil:
			return day.Info()
		case !database.IsNotFound(err):
			h.logger.Warn("almanac lookup failed, computing live",
				slog.String("date", t.Format("2006-01-02")),
				slog.Any("error", err))
		}
	}
	return lunar.Info(t)
}

// yearParam parses the {year} path parameter and rejects years the
// calendar table does not cover.
func (h *Handlers) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return 0, false
	}
	if year < lunar.MinYear || year > lunar.MaxYear {
		WriteBadRequest(w, fmt.Sprintf("Year %d outside supported range %d-%d", year, lunar.MinYear, lunar.MaxYear))
		return 0, false
	}
	return year, true
}

// noonOf returns noon of t's civil date in t's location, keeping the
// date stable even where a zone transition lands on midnight.
func noonOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}
