package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1AlmanacDays,
}

// migrationV1AlmanacDays creates the almanac cache table.
//
// Design notes:
//
// 1. ONE ROW PER CIVIL DAY
//   - date is the civil date in YYYY-MM-DD form and the natural key.
//   - The lexical order of the date strings is the calendar order, so
//     range queries are plain string comparisons.
//
// 2. DERIVED DATA ONLY
//   - Every column is computed by the conversion engine. Rows can be
//     regenerated wholesale with the almanacgen tool, so there is no
//     need for careful data-preserving migrations here.
//
// 3. TIMEZONE BAKED IN AT GENERATION
//   - solar_term, festival and label depend on the civil zone the
//     generator ran with. Regenerate after changing TIMEZONE.
const migrationV1AlmanacDays = `
-- Migration 001: almanac day cache

CREATE TABLE IF NOT EXISTS almanac_days (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Civil date, YYYY-MM-DD
    date TEXT NOT NULL UNIQUE,
    weekday TEXT NOT NULL,

    -- Lunisolar date
    lunar_year INTEGER NOT NULL,
    lunar_month INTEGER NOT NULL CHECK (lunar_month BETWEEN 1 AND 12),
    lunar_day INTEGER NOT NULL CHECK (lunar_day BETWEEN 1 AND 30),
    is_leap_month INTEGER NOT NULL DEFAULT 0,
    lunar_text TEXT NOT NULL,

    -- Year cycle names
    stem_branch TEXT NOT NULL,
    zodiac TEXT NOT NULL,

    -- Observances (absent on ordinary days)
    solar_term TEXT,
    festival TEXT,

    -- Display label after precedence rules
    label TEXT NOT NULL,

    -- Timestamps for auditing
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Reverse lookup: civil date(s) for a lunar date
CREATE INDEX IF NOT EXISTS idx_almanac_days_lunar
    ON almanac_days(lunar_year, lunar_month, lunar_day);

-- Finding term and festival days within a span
CREATE INDEX IF NOT EXISTS idx_almanac_days_term
    ON almanac_days(solar_term)
    WHERE solar_term IS NOT NULL;

CREATE INDEX IF NOT EXISTS idx_almanac_days_festival
    ON almanac_days(festival)
    WHERE festival IS NOT NULL;
`
