package entities

// YearAll selects every record regardless of submission year
const YearAll = "All"

// UnknownLabel replaces empty categorical values in distributions
const UnknownLabel = "Unknown"

// Placeholder is shown for a per-row metric that cannot be computed
const Placeholder = "-"

// Average is a rounded mean in days together with the number of records behind it.
// Days is 0 when Count is 0; callers tell "no data" from "zero days" through Count.
type Average struct {
	Days  int `json:"days"`
	Count int `json:"count"`
}

// Bucket is one bar of a categorical distribution
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ProcedureAverage is the post-operative stay average for one procedure
type ProcedureAverage struct {
	Procedure string `json:"procedure"`
	Average
}

// PathStay is the length-of-stay average for one treatment path
type PathStay struct {
	Path string `json:"path"`
	Average
}

// Treatment path labels used by the stay comparison
const (
	PathSurgical    = "surgical"
	PathNonSurgical = "non_surgical"
)

// Summary holds the headline counts
type Summary struct {
	Total        int `json:"total"`
	Surgical     int `json:"surgical"`
	Conservative int `json:"conservative"`
}

// DurationMetrics holds the derived duration averages
type DurationMetrics struct {
	StayByPath        []PathStay         `json:"stay_by_path"`
	PostOperative     Average            `json:"post_operative"`
	TimeToSurgery     Average            `json:"time_to_surgery"`
	PostOpByProcedure []ProcedureAverage `json:"post_op_by_procedure"`
}

// RecordRow is one row of the dashboard table
type RecordRow struct {
	Record            PatientRecord `json:"record"`
	Year              int           `json:"year,omitempty"`
	Age               *int          `json:"age,omitempty"`
	FractureLevels    []string      `json:"fracture_levels"`
	MRILinks          []string      `json:"mri_links"`
	Surgical          bool          `json:"surgical"`
	Conservative      bool          `json:"conservative"`
	LengthOfStay      string        `json:"length_of_stay"`
	PostOperativeDays string        `json:"post_operative_days"`
	TimeToSurgery     string        `json:"time_to_surgery"`
}

// Dashboard is everything the presentation layer needs for one rendering pass
type Dashboard struct {
	Year                      string          `json:"year"`
	Query                     string          `json:"query"`
	Summary                   Summary         `json:"summary"`
	Durations                 DurationMetrics `json:"durations"`
	OutcomeDistribution       []Bucket        `json:"outcome_distribution"`
	FractureLevelDistribution []Bucket        `json:"fracture_level_distribution"`
	Years                     []int           `json:"years"`
	Records                   []RecordRow     `json:"records"`
}
