package parse

import (
	"strconv"
	"strings"
	"time"
)

// excelEpoch is 1899-12-30, the day Excel's serial date 0 represents (its
// serial 1 is 1899-12-31; the well-known leap-year-1900 bug is irrelevant
// at the integer ranges this system sees).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	excelSerialMin = 40000
	excelSerialMax = 70000
)

// ParseDate accepts an Excel serial integer (40000-70000 against the 1899
// epoch), ISO YYYY-MM-DD, US M/D/YYYY or M/D/YY, or explicit European
// D/M/YYYY, D.M.YYYY, D-M-YYYY forms. preferEuropean only disambiguates
// the slash form; Excel serials are never date-format-ambiguous (§9).
func ParseDate(raw string, preferEuropean bool) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n >= excelSerialMin && n <= excelSerialMax {
			return excelEpoch.AddDate(0, 0, n), true
		}
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	if strings.Contains(s, ".") {
		if t, ok := parseDMY(s, "."); ok {
			return t, true
		}
	}
	if strings.Contains(s, "-") {
		if t, ok := parseDMY(s, "-"); ok {
			return t, true
		}
	}
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			if preferEuropean {
				if t, ok := buildDate(parts[2], parts[1], parts[0]); ok {
					return t, true
				}
			}
			// US ordering M/D/YYYY or M/D/YY; "when in doubt assume US" (§9).
			if t, ok := buildDate(parts[2], parts[0], parts[1]); ok {
				return t, true
			}
			if !preferEuropean {
				if t, ok := buildDate(parts[2], parts[1], parts[0]); ok {
					return t, true
				}
			}
		}
	}

	return time.Time{}, false
}

// parseDMY handles the explicit European D.M.YYYY / D-M-YYYY forms, which
// are never ambiguous with US ordering because the separator itself
// signals intent per source config convention.
func parseDMY(s, sep string) (time.Time, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	return buildDate(parts[2], parts[1], parts[0])
}

func buildDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		// M/D/YY convention: assume 2000s.
		year += 2000
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(dayStr))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// FormatISO renders a date the way persisted ship-dates are stored.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDisplay renders a date the way StockInfo messages substitute
// `{date}` (e.g. "January 5, 2026").
func FormatDisplay(t time.Time) string {
	return t.Format("January 2, 2006")
}
