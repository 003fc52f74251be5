package analytics

import (
	"math"
	"strconv"
	"strings"
)

// dayCountLimit bounds values read as plain day counts. Anything at or above
// it is treated as a date or rejected.
const dayCountLimit = 1000

const hoursPerDay = 24

// NormalizeDuration resolves the number of days between a start marker and an
// end marker that may itself be a day count. ok is false when the duration is
// indeterminate. The result is never negative.
//
// Rules, first match wins:
//  1. empty end marker: indeterminate
//  2. end is a number below 1000: its floor is the day count. A negative
//     number is indeterminate and stops here, so "-5" never reaches rule 5.
//  3. end equals start: 0
//  4. both markers resolve to dates: ceil of the day difference, with the start
//     moved back one year when it falls after the end
//  5. the digits of the end marker, when below 1000
func NormalizeDuration(start, end, referenceTimestamp string) (days int, ok bool) {
	end = strings.TrimSpace(end)
	if end == "" {
		return 0, false
	}

	if n, numeric := parseNumber(end); numeric {
		if n < 0 {
			return 0, false
		}
		if n < dayCountLimit {
			return int(math.Floor(n)), true
		}
	}

	start = strings.TrimSpace(start)
	if start == end {
		return 0, true
	}

	if d, ok := dateDifference(start, end, referenceYear(referenceTimestamp)); ok {
		return d, true
	}

	return digitsFallback(end)
}

// DayCount reports whether value is a plain day count as accepted by rule 2
// of NormalizeDuration and returns it.
func DayCount(value string) (int, bool) {
	n, numeric := parseNumber(strings.TrimSpace(value))
	if !numeric || n < 0 || n >= dayCountLimit {
		return 0, false
	}
	return int(math.Floor(n)), true
}

func parseNumber(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func dateDifference(start, end string, refYear int) (int, bool) {
	s, ok := parseMarker(start, refYear)
	if !ok {
		return 0, false
	}
	e, ok := parseMarker(end, refYear)
	if !ok {
		return 0, false
	}

	// Admission in December, discharge in January
	if s.After(e) {
		s = s.AddDate(-1, 0, 0)
	}

	days := math.Ceil(e.Sub(s).Hours() / hoursPerDay)
	if days < 0 {
		return 0, false
	}
	return int(days), true
}

func digitsFallback(value string) (int, bool) {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n >= dayCountLimit {
		return 0, false
	}
	return n, true
}

// roundDays rounds a non-negative mean half up
func roundDays(mean float64) int {
	return int(math.Floor(mean + 0.5))
}
