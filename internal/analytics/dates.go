package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// now is swapped in tests that depend on the current-year fallback
var now = time.Now

// monthDayPattern matches bare "M-D" style markers with any single non-digit separator
var monthDayPattern = regexp.MustCompile(`^(\d{1,2})\D(\d{1,2})$`)

// Layouts tried in order for markers that carry a year.
var datedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006.1.2 15:04:05",
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"2006年1月2日 15:04:05",
	"2006年1月2日 15:04",
	"2006年1月2日",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Layouts without a year; the result takes the reference year.
var yearlessLayouts = []string{
	"1月2日",
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
}

// Spreadsheet serial numbers in this range are read as dates (1954 to 2119).
const (
	minSerialDate = 20000
	maxSerialDate = 80000
)

// parseTimestamp parses a value that must carry its own year
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, ok := parseSerialDate(value); ok {
		return t, true
	}
	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseMarker resolves a date marker, filling in refYear where the marker has none
func parseMarker(value string, refYear int) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := monthDayPattern.FindStringSubmatch(value); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return time.Date(refYear, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	if t, ok := parseTimestamp(value); ok {
		return t, true
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(refYear, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseSerialDate(value string) (time.Time, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < minSerialDate || f >= maxSerialDate {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// referenceYear returns the calendar year of the submission timestamp,
// or the current year when it cannot be parsed
func referenceYear(timestamp string) int {
	if t, ok := parseTimestamp(timestamp); ok {
		return t.Year()
	}
	return now().Year()
}
