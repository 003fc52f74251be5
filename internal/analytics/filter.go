package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
)

// RecordYear extracts the submission year from a record's timestamp
func RecordYear(r *entities.PatientRecord) (int, bool) {
	t, ok := parseTimestamp(r.Timestamp.String())
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// AvailableYears returns the distinct submission years, newest first.
// Records with unparseable timestamps contribute nothing.
func AvailableYears(records []entities.PatientRecord) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for i := range records {
		year, ok := RecordYear(&records[i])
		if !ok {
			continue
		}
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// IsAllYears reports whether the selection means no year filter
func IsAllYears(year string) bool {
	year = strings.TrimSpace(year)
	return year == "" || strings.EqualFold(year, entities.YearAll)
}

// FilterByYear keeps records submitted in the selected year. "All" or an
// empty selection keeps everything, including records without a usable timestamp.
func FilterByYear(records []entities.PatientRecord, year string) []entities.PatientRecord {
	if IsAllYears(year) {
		return records
	}
	want, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return []entities.PatientRecord{}
	}

	out := make([]entities.PatientRecord, 0, len(records))
	for i := range records {
		if got, ok := RecordYear(&records[i]); ok && got == want {
			out = append(out, records[i])
		}
	}
	return out
}

// FilterByText keeps records whose id, outcome or fracture levels contain the
// query, ignoring case. The query is matched as typed, surrounding spaces
// included. An empty query keeps everything.
func FilterByText(records []entities.PatientRecord, query string) []entities.PatientRecord {
	query = strings.ToLower(query)
	if query == "" {
		return records
	}

	out := make([]entities.PatientRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if strings.Contains(strings.ToLower(r.ID.String()), query) ||
			strings.Contains(strings.ToLower(r.Outcome.String()), query) ||
			strings.Contains(strings.ToLower(r.NewFractures.String()), query) {
			out = append(out, *r)
		}
	}
	return out
}

// ProjectRows builds the table rows with per-record metrics formatted for display
func (k Keywords) ProjectRows(records []entities.PatientRecord) []entities.RecordRow {
	rows := make([]entities.RecordRow, 0, len(records))
	for i := range records {
		r := &records[i]
		year, _ := RecordYear(r)
		var age *int
		if n, ok := r.Age.Int(); ok {
			age = &n
		}
		rows = append(rows, entities.RecordRow{
			Record:            *r,
			Year:              year,
			Age:               age,
			FractureLevels:    SplitMultiValue(r.NewFractures.String()),
			MRILinks:          SplitMultiValue(r.MRIImage.String()),
			Surgical:          k.IsSurgical(r),
			Conservative:      k.IsConservative(r),
			LengthOfStay:      formatDays(LengthOfStay(r)),
			PostOperativeDays: formatDays(PostOperativeDays(r)),
			TimeToSurgery:     formatDays(TimeToSurgery(r)),
		})
	}
	return rows
}

func formatDays(days int, ok bool) string {
	if !ok {
		return entities.Placeholder
	}
	return strconv.Itoa(days)
}

// BuildDashboard runs the whole derivation for one rendering pass. Aggregates
// cover the year-filtered records; the table additionally honours the text query.
func (k Keywords) BuildDashboard(records []entities.PatientRecord, year, query string) *entities.Dashboard {
	if IsAllYears(year) {
		year = entities.YearAll
	}
	inYear := FilterByYear(records, year)
	visible := FilterByText(inYear, query)

	return &entities.Dashboard{
		Year:                      year,
		Query:                     query,
		Summary:                   k.Summarize(inYear),
		Durations:                 k.DeriveDurations(inYear),
		OutcomeDistribution:       OutcomeDistribution(inYear),
		FractureLevelDistribution: FractureLevelDistribution(inYear),
		Years:                     AvailableYears(records),
		Records:                   k.ProjectRows(visible),
	}
}
