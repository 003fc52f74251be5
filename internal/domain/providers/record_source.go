package providers

import (
	"context"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
)

// RecordSource supplies the patient records for one rendering pass
type RecordSource interface {
	// FetchRecords returns the current snapshot of records
	FetchRecords(ctx context.Context) ([]entities.PatientRecord, error)

	// Name identifies the source in logs
	Name() string
}
