package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		timestamp string
		wantDays  int
		wantOK    bool
	}{
		{
			name:   "empty end is indeterminate",
			start:  "2024/01/01",
			end:    "",
			wantOK: false,
		},
		{
			name:   "whitespace end is indeterminate",
			start:  "2024/01/01",
			end:    "   ",
			wantOK: false,
		},
		{
			name:     "plain day count passes through",
			start:    "2024/01/01",
			end:      "14",
			wantDays: 14,
			wantOK:   true,
		},
		{
			name:     "fractional day count is floored",
			start:    "2024/01/01",
			end:      "14.7",
			wantDays: 14,
			wantOK:   true,
		},
		{
			name:     "zero day count",
			start:    "",
			end:      "0",
			wantDays: 0,
			wantOK:   true,
		},
		{
			name:   "negative count is indeterminate",
			start:  "2024/01/01",
			end:    "-3",
			wantOK: false,
		},
		{
			name:   "negative count does not fall through to the digits",
			start:  "",
			end:    "-5",
			wantOK: false,
		},
		{
			name:     "identical markers",
			start:    "2024/01/01",
			end:      "2024/01/01",
			wantDays: 0,
			wantOK:   true,
		},
		{
			name:     "full dates",
			start:    "2024/01/01",
			end:      "2024/01/15",
			wantDays: 14,
			wantOK:   true,
		},
		{
			name:      "month-day end crosses the year boundary",
			start:     "2023-12-28",
			end:       "01-03",
			timestamp: "2024/01/05 10:00:00",
			wantDays:  6,
			wantOK:    true,
		},
		{
			name:      "both yearless, start shifted back one year",
			start:     "12/28",
			end:       "1/3",
			timestamp: "2024/01/05 10:00:00",
			wantDays:  6,
			wantOK:    true,
		},
		{
			name:      "japanese yearless markers",
			start:     "12月30日",
			end:       "1月5日",
			timestamp: "2024/01/10 08:00:00",
			wantDays:  6,
			wantOK:    true,
		},
		{
			name:     "japanese full dates",
			start:    "2024年1月1日",
			end:      "2024年1月11日",
			wantDays: 10,
			wantOK:   true,
		},
		{
			name:      "reference year decides leap day",
			start:     "2/28",
			end:       "3/1",
			timestamp: "2024/05/01 09:00:00",
			wantDays:  2,
			wantOK:    true,
		},
		{
			name:     "partial days round up",
			start:    "2024/01/01 10:00",
			end:      "2024/01/02 12:00",
			wantDays: 2,
			wantOK:   true,
		},
		{
			name:     "spreadsheet serial dates",
			start:    "45292",
			end:      "45306",
			wantDays: 14,
			wantOK:   true,
		},
		{
			name:     "digits fallback when start is unusable",
			start:    "",
			end:      "about 12 days",
			wantDays: 12,
			wantOK:   true,
		},
		{
			name:   "digits fallback rejects large values",
			start:  "",
			end:    "1000",
			wantOK: false,
		},
		{
			name:   "no digits at all",
			start:  "2024/01/01",
			end:    "外来フォロー",
			wantOK: false,
		},
		{
			name:   "full-width digits are not read",
			start:  "",
			end:    "１４日",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := NormalizeDuration(tt.start, tt.end, tt.timestamp)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantDays, days)
			}
			assert.GreaterOrEqual(t, days, 0)
		})
	}
}

func TestNormalizeDuration_CurrentYearFallback(t *testing.T) {
	original := now
	t.Cleanup(func() { now = original })

	now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	days, ok := NormalizeDuration("2/28", "3/1", "not a timestamp")
	assert.True(t, ok)
	assert.Equal(t, 1, days)

	now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	days, ok = NormalizeDuration("2/28", "3/1", "")
	assert.True(t, ok)
	assert.Equal(t, 2, days)
}

func TestNormalizeDuration_Totality(t *testing.T) {
	inputs := []string{"", " ", "x", "NaN", "Inf", "-0", "1e309", "99/99", "2024/13/45", "０", "日", "12:30", "~"}
	for _, start := range inputs {
		for _, end := range inputs {
			assert.NotPanics(t, func() {
				days, _ := NormalizeDuration(start, end, start)
				assert.GreaterOrEqual(t, days, 0)
			})
		}
	}
}

func TestDayCount(t *testing.T) {
	days, ok := DayCount(" 21 ")
	assert.True(t, ok)
	assert.Equal(t, 21, days)

	_, ok = DayCount("2024/01/15")
	assert.False(t, ok)

	_, ok = DayCount("1000")
	assert.False(t, ok)

	_, ok = DayCount("-1")
	assert.False(t, ok)
}

func TestParseSerialDate(t *testing.T) {
	ts, ok := parseSerialDate("45292")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = parseSerialDate("14")
	assert.False(t, ok)
}

func TestReferenceYear(t *testing.T) {
	assert.Equal(t, 2023, referenceYear("2023/11/20 11:00:00"))
	assert.Equal(t, 2024, referenceYear("2024-03-01T09:00:00Z"))

	original := now
	t.Cleanup(func() { now = original })
	now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, 2030, referenceYear(""))
}

func TestRoundDays(t *testing.T) {
	assert.Equal(t, 23, roundDays(22.5))
	assert.Equal(t, 22, roundDays(22.49))
	assert.Equal(t, 0, roundDays(0))
}
