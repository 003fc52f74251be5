package feed

import (
	"context"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
)

// SampleRecords returns the bundled dataset served when the feed is unavailable.
// A fresh slice is returned on every call.
func SampleRecords() []entities.PatientRecord {
	return []entities.PatientRecord{
		{
			ID:                    "P001",
			Timestamp:             "2024/01/20 10:00:00",
			Gender:                "Female",
			Age:                   "78",
			InjuryDate:            "2023/12/20",
			FallHistory:           "Yes",
			PreInjuryADL:          "Independent",
			NeuroSymptoms:         "None",
			OFClassification:      "Type 3",
			MRIImage:              "https://example.com/mri/p001-sag.png, https://example.com/mri/p001-ax.png",
			MedicalHistory:        "Hypertension",
			OsteoporosisHistory:   "Yes",
			Remarks:               "Persistent pain despite bracing",
			CurrentPain:           "NRS 3",
			NewFractures:          "L1",
			TimeToAdmission:       "2",
			AdmissionDate:         "2023/12/22",
			Outcome:               "手術",
			Procedure:             "BKP",
			SurgeryDate:           "2023/12/26",
			HospitalizationPeriod: "2024/01/15",
			DischargeDestination:  "Home",
		},
		{
			ID:                    "P002",
			Timestamp:             "2024/02/28 09:30:00",
			Gender:                "Male",
			Age:                   "82",
			InjuryDate:            "2024/01/28",
			FallHistory:           "No",
			PreInjuryADL:          "Cane",
			NeuroSymptoms:         "Leg numbness",
			OFClassification:      "Type 4",
			MRIImage:              "https://example.com/mri/p002.png",
			MedicalHistory:        "Diabetes",
			OsteoporosisHistory:   "No",
			NewFractures:          "T12, L1",
			TimeToAdmission:       "1",
			AdmissionDate:         "2024/01/29",
			Outcome:               "Surgery",
			Procedure:             "PPS",
			SurgeryDate:           "2024/02/02",
			HospitalizationPeriod: "21",
			DischargeDestination:  "Rehabilitation hospital",
		},
		{
			ID:                   "P003",
			Timestamp:            "2024/03/20 14:00:00",
			Gender:               "Female",
			Age:                  "75",
			InjuryDate:           "2024/03/01",
			FallHistory:          "Yes",
			PreInjuryADL:         "Independent",
			NeuroSymptoms:        "None",
			OFClassification:     "Type 2",
			OsteoporosisHistory:  "Yes",
			CurrentPain:          "NRS 2",
			NewFractures:         "L2、L3",
			TimeToAdmission:      "2",
			AdmissionDate:        "2024/03/03",
			Outcome:              "Conservative",
			FollowUpStatus:       "14",
			DischargeDestination: "Home",
		},
		{
			ID:                   "P004",
			Timestamp:            "2023/11/20 11:00:00",
			Gender:               "Male",
			Age:                  "69",
			InjuryDate:           "2023/11/10",
			FallHistory:          "No",
			PreInjuryADL:         "Independent",
			NeuroSymptoms:        "None",
			OFClassification:     "Type 1",
			Remarks:              "外来フォロー",
			NewFractures:         "T8",
			Outcome:              "経過観察",
			FollowUpStatus:       "外来フォロー",
			DischargeDestination: "Home",
		},
	}
}

// SampleSource serves the bundled dataset
type SampleSource struct{}

// NewSampleSource creates a source over the bundled dataset
func NewSampleSource() providers.RecordSource {
	return SampleSource{}
}

// FetchRecords returns the bundled records
func (SampleSource) FetchRecords(ctx context.Context) ([]entities.PatientRecord, error) {
	return SampleRecords(), nil
}

// Name identifies the source in logs
func (SampleSource) Name() string {
	return "sample"
}
