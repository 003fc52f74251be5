package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell is a single spreadsheet value. The feed emits strings, numbers,
// booleans or null for the same column depending on how the row was
// entered, so every field is kept as text and interpreted per value.
type Cell string

// UnmarshalJSON accepts any JSON scalar. Arrays of scalars are joined
// with ", " so multi-value columns keep their delimiter semantics.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
	case '[':
		var parts []Cell
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				values = append(values, string(p))
			}
		}
		*c = Cell(strings.Join(values, ", "))
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = Cell(strconv.FormatBool(b))
	case '{':
		return fmt.Errorf("cannot decode object into a cell: %s", data)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid cell value %s: %w", data, err)
		}
		*c = Cell(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// String returns the raw cell text
func (c Cell) String() string {
	return string(c)
}

// Trimmed returns the cell text without surrounding whitespace
func (c Cell) Trimmed() string {
	return strings.TrimSpace(string(c))
}

// IsEmpty reports whether the cell holds no value. Empty means unknown, never zero.
func (c Cell) IsEmpty() bool {
	return c.Trimmed() == ""
}

// Int parses the cell as a whole number, truncating any fraction
func (c Cell) Int() (int, bool) {
	f, err := strconv.ParseFloat(c.Trimmed(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// PatientRecord is one consultation episode as exported from the source spreadsheet.
// Only ID and Timestamp are expected to be non-empty.
type PatientRecord struct {
	ID        Cell `json:"id"`
	Timestamp Cell `json:"timestamp"`

	Gender Cell `json:"gender"`
	Age    Cell `json:"age"`

	InjuryDate          Cell `json:"injuryDate"`
	FallHistory         Cell `json:"fallHistory"`
	PreInjuryADL        Cell `json:"preInjuryADL"`
	NeuroSymptoms       Cell `json:"neuroSymptoms"`
	OFClassification    Cell `json:"ofClassification"`
	MRIImage            Cell `json:"mriImage"`
	MedicalHistory      Cell `json:"medicalHistory"`
	OsteoporosisHistory Cell `json:"osteoporosisHistory"`
	Remarks             Cell `json:"remarks"`
	CurrentPain         Cell `json:"currentPain"`
	NewFractures        Cell `json:"newFractures"`
	TimeToAdmission     Cell `json:"timeToAdmission"`

	AdmissionDate Cell `json:"admissionDate"`
	Outcome       Cell `json:"outcome"`
	Procedure     Cell `json:"procedure,omitempty"`
	SurgeryDate   Cell `json:"surgeryDate,omitempty"`
	DischargeDate Cell `json:"dischargeDate,omitempty"`
	// HospitalizationPeriod holds either a day count or a discharge date;
	// the meaning of the column drifted across sheet versions.
	HospitalizationPeriod Cell `json:"hospitalizationPeriod,omitempty"`
	FollowUpStatus        Cell `json:"followUpStatus,omitempty"`
	DischargeDestination  Cell `json:"dischargeDestination"`

	Height Cell `json:"height,omitempty"`
	Weight Cell `json:"weight,omitempty"`
	BMI    Cell `json:"bmi,omitempty"`
}

// DischargeValue returns the discharge-side marker used for stay calculations:
// hospitalizationPeriod, then followUpStatus, then dischargeDate.
func (r *PatientRecord) DischargeValue() Cell {
	switch {
	case !r.HospitalizationPeriod.IsEmpty():
		return r.HospitalizationPeriod
	case !r.FollowUpStatus.IsEmpty():
		return r.FollowUpStatus
	default:
		return r.DischargeDate
	}
}

// PatientRecordFields lists the JSON keys of PatientRecord in sheet column order.
// Workbook imports use it to map header cells onto fields.
var PatientRecordFields = []string{
	"id", "timestamp", "gender", "age",
	"injuryDate", "fallHistory", "preInjuryADL", "neuroSymptoms", "ofClassification",
	"mriImage", "medicalHistory", "osteoporosisHistory", "remarks", "currentPain",
	"newFractures", "timeToAdmission",
	"admissionDate", "outcome", "procedure", "surgeryDate", "dischargeDate",
	"hospitalizationPeriod", "followUpStatus", "dischargeDestination",
	"height", "weight", "bmi",
}

// FieldPtr returns a pointer to the cell addressed by a JSON key, or nil
func (r *PatientRecord) FieldPtr(key string) *Cell {
	switch key {
	case "id":
		return &r.ID
	case "timestamp":
		return &r.Timestamp
	case "gender":
		return &r.Gender
	case "age":
		return &r.Age
	case "injuryDate":
		return &r.InjuryDate
	case "fallHistory":
		return &r.FallHistory
	case "preInjuryADL":
		return &r.PreInjuryADL
	case "neuroSymptoms":
		return &r.NeuroSymptoms
	case "ofClassification":
		return &r.OFClassification
	case "mriImage":
		return &r.MRIImage
	case "medicalHistory":
		return &r.MedicalHistory
	case "osteoporosisHistory":
		return &r.OsteoporosisHistory
	case "remarks":
		return &r.Remarks
	case "currentPain":
		return &r.CurrentPain
	case "newFractures":
		return &r.NewFractures
	case "timeToAdmission":
		return &r.TimeToAdmission
	case "admissionDate":
		return &r.AdmissionDate
	case "outcome":
		return &r.Outcome
	case "procedure":
		return &r.Procedure
	case "surgeryDate":
		return &r.SurgeryDate
	case "dischargeDate":
		return &r.DischargeDate
	case "hospitalizationPeriod":
		return &r.HospitalizationPeriod
	case "followUpStatus":
		return &r.FollowUpStatus
	case "dischargeDestination":
		return &r.DischargeDestination
	case "height":
		return &r.Height
	case "weight":
		return &r.Weight
	case "bmi":
		return &r.BMI
	}
	return nil
}
