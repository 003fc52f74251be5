package analytics

import (
	"testing"

	"github.com/spinecare/fracture-dashboard/internal/adapters/feed"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerRecordMetrics_SampleData(t *testing.T) {
	records := feed.SampleRecords()

	tests := []struct {
		id        string
		stay      string
		postOp    string
		toSurgery string
	}{
		{id: "P001", stay: "24", postOp: "20", toSurgery: "6"},
		{id: "P002", stay: "21", postOp: "17", toSurgery: "5"},
		{id: "P003", stay: "14", postOp: "-", toSurgery: "-"},
		{id: "P004", stay: "-", postOp: "-", toSurgery: "-"},
	}

	rows := DefaultKeywords().ProjectRows(records)
	require.Len(t, rows, len(tests))

	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			row := rows[i]
			assert.Equal(t, tt.id, row.Record.ID.String())
			assert.Equal(t, tt.stay, row.LengthOfStay)
			assert.Equal(t, tt.postOp, row.PostOperativeDays)
			assert.Equal(t, tt.toSurgery, row.TimeToSurgery)
		})
	}
}

func TestPostOperativeDays_DayCountDischarge(t *testing.T) {
	r := entities.PatientRecord{
		AdmissionDate:         "2024/01/29",
		SurgeryDate:           "2024/02/02",
		HospitalizationPeriod: "21",
	}
	days, ok := PostOperativeDays(&r)
	assert.True(t, ok)
	assert.Equal(t, 17, days)

	// pre-operative interval longer than the whole stay
	r.HospitalizationPeriod = "3"
	_, ok = PostOperativeDays(&r)
	assert.False(t, ok)

	r.HospitalizationPeriod = "21"
	r.SurgeryDate = ""
	_, ok = PostOperativeDays(&r)
	assert.False(t, ok)
}

func TestDeriveDurations_SampleData(t *testing.T) {
	metrics := DefaultKeywords().DeriveDurations(feed.SampleRecords())

	require.Len(t, metrics.StayByPath, 2)
	assert.Equal(t, entities.PathStay{Path: entities.PathSurgical, Average: entities.Average{Days: 23, Count: 2}}, metrics.StayByPath[0])
	assert.Equal(t, entities.PathStay{Path: entities.PathNonSurgical, Average: entities.Average{Days: 14, Count: 1}}, metrics.StayByPath[1])

	assert.Equal(t, entities.Average{Days: 19, Count: 2}, metrics.PostOperative)
	assert.Equal(t, entities.Average{Days: 6, Count: 2}, metrics.TimeToSurgery)

	assert.Equal(t, []entities.ProcedureAverage{
		{Procedure: "BKP", Average: entities.Average{Days: 20, Count: 1}},
		{Procedure: "PPS", Average: entities.Average{Days: 17, Count: 1}},
	}, metrics.PostOpByProcedure)
}

func TestDeriveDurations_UnknownProcedureAndEmptyInput(t *testing.T) {
	kw := DefaultKeywords()

	records := []entities.PatientRecord{
		{Outcome: "手術", SurgeryDate: "2024/01/05", HospitalizationPeriod: "2024/01/15"},
		{Outcome: "手術", Procedure: "PPS", SurgeryDate: "2024/01/05", HospitalizationPeriod: "2024/01/25"},
	}
	metrics := kw.DeriveDurations(records)
	assert.Equal(t, []entities.ProcedureAverage{
		{Procedure: "PPS", Average: entities.Average{Days: 20, Count: 1}},
		{Procedure: entities.UnknownLabel, Average: entities.Average{Days: 10, Count: 1}},
	}, metrics.PostOpByProcedure)

	empty := kw.DeriveDurations(nil)
	assert.Equal(t, entities.Average{}, empty.PostOperative)
	assert.Equal(t, entities.Average{}, empty.TimeToSurgery)
	assert.Empty(t, empty.PostOpByProcedure)
	assert.Equal(t, 0, empty.StayByPath[0].Count)
}

func TestDeriveDurations_RemarksOnlySurgeryIsNonSurgicalPath(t *testing.T) {
	records := []entities.PatientRecord{
		{Outcome: "", Remarks: "surgery later", AdmissionDate: "2024/01/01", HospitalizationPeriod: "10"},
	}
	kw := DefaultKeywords()

	assert.Equal(t, 1, kw.Summarize(records).Surgical)
	metrics := kw.DeriveDurations(records)
	assert.Equal(t, 0, metrics.StayByPath[0].Count)
	assert.Equal(t, entities.Average{Days: 10, Count: 1}, metrics.StayByPath[1].Average)
}

func TestAvailableYears(t *testing.T) {
	records := append(feed.SampleRecords(), entities.PatientRecord{ID: "X", Timestamp: "garbage"})
	assert.Equal(t, []int{2024, 2023}, AvailableYears(records))
	assert.Empty(t, AvailableYears(nil))
}

func TestFilterByYear(t *testing.T) {
	records := append(feed.SampleRecords(), entities.PatientRecord{ID: "X", Timestamp: ""})

	assert.Len(t, FilterByYear(records, "All"), 5)
	assert.Len(t, FilterByYear(records, ""), 5)
	assert.Len(t, FilterByYear(records, "2024"), 3)
	assert.Len(t, FilterByYear(records, "2023"), 1)
	assert.Empty(t, FilterByYear(records, "2019"))
	assert.Empty(t, FilterByYear(records, "last year"))
}

func TestFilterByText(t *testing.T) {
	records := feed.SampleRecords()

	ids := func(rs []entities.PatientRecord) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID.String())
		}
		return out
	}

	assert.Equal(t, []string{"P001", "P002"}, ids(FilterByText(records, "l1")))
	assert.Equal(t, []string{"P002"}, ids(FilterByText(records, "SURGERY")))
	assert.Equal(t, []string{"P003"}, ids(FilterByText(records, "p003")))
	assert.Equal(t, []string{"P004"}, ids(FilterByText(records, "経過")))
	assert.Len(t, FilterByText(records, ""), 4)
	assert.Empty(t, FilterByText(records, "nothing matches"))
}

func TestFilterByText_MatchesQueryAsTyped(t *testing.T) {
	records := feed.SampleRecords()

	// only "T12, L1" has a space before L1
	got := FilterByText(records, " l1")
	require.Len(t, got, 1)
	assert.Equal(t, "P002", got[0].ID.String())

	assert.Empty(t, FilterByText(records, "  "))
	assert.Empty(t, FilterByText(records, "P001 "))
}

func TestBuildDashboard_SampleData(t *testing.T) {
	dashboard := DefaultKeywords().BuildDashboard(feed.SampleRecords(), "", "")

	assert.Equal(t, entities.YearAll, dashboard.Year)
	assert.Equal(t, entities.Summary{Total: 4, Surgical: 2, Conservative: 2}, dashboard.Summary)
	assert.Equal(t, 6, dashboard.Durations.TimeToSurgery.Days)
	assert.Equal(t, []int{2024, 2023}, dashboard.Years)
	assert.Len(t, dashboard.Records, 4)

	assert.Equal(t, []entities.Bucket{
		{Label: "T8", Count: 1},
		{Label: "T12", Count: 1},
		{Label: "L1", Count: 2},
		{Label: "L2", Count: 1},
		{Label: "L3", Count: 1},
	}, dashboard.FractureLevelDistribution)

	assert.Equal(t, []entities.Bucket{
		{Label: "手術", Count: 1},
		{Label: "Surgery", Count: 1},
		{Label: "Conservative", Count: 1},
		{Label: "経過観察", Count: 1},
	}, dashboard.OutcomeDistribution)

	first := dashboard.Records[0]
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, []string{"L1"}, first.FractureLevels)
	assert.Len(t, first.MRILinks, 2)
	assert.True(t, first.Surgical)
	require.NotNil(t, first.Age)
	assert.Equal(t, 78, *first.Age)
}

func TestProjectRows_AgeOnlyWhenNumeric(t *testing.T) {
	rows := DefaultKeywords().ProjectRows([]entities.PatientRecord{
		{ID: "A", Age: "81"},
		{ID: "B", Age: ""},
		{ID: "C", Age: "unknown"},
	})
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].Age)
	assert.Equal(t, 81, *rows[0].Age)
	assert.Nil(t, rows[1].Age)
	assert.Nil(t, rows[2].Age)
}

func TestBuildDashboard_FiltersApplyAtTheRightLevel(t *testing.T) {
	kw := DefaultKeywords()

	dashboard := kw.BuildDashboard(feed.SampleRecords(), "2024", "surgery")
	assert.Equal(t, "2024", dashboard.Year)
	assert.Equal(t, "surgery", dashboard.Query)
	assert.Equal(t, 3, dashboard.Summary.Total)
	assert.Len(t, dashboard.Records, 1)
	assert.Equal(t, []int{2024, 2023}, dashboard.Years)

	empty := kw.BuildDashboard(feed.SampleRecords(), "1999", "")
	assert.Equal(t, 0, empty.Summary.Total)
	assert.Empty(t, empty.Records)
	assert.Empty(t, empty.OutcomeDistribution)
	assert.Equal(t, []int{2024, 2023}, empty.Years)
}
