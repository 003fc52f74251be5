package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	records []entities.PatientRecord
	err     error
	calls   int
}

func (s *stubSource) FetchRecords(ctx context.Context) ([]entities.PatientRecord, error) {
	s.calls++
	return s.records, s.err
}

func (s *stubSource) Name() string {
	return "stub"
}

func TestSampleRecords(t *testing.T) {
	records := SampleRecords()
	require.Len(t, records, 4)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID.String())
	}
	assert.Equal(t, []string{"P001", "P002", "P003", "P004"}, ids)

	// callers get their own copy
	records[0].ID = "changed"
	assert.Equal(t, "P001", SampleRecords()[0].ID.String())
}

func TestFallbackSource_PrimaryHealthy(t *testing.T) {
	primary := &stubSource{records: []entities.PatientRecord{{ID: "R1"}}}
	source := NewFallbackSource(primary, zerolog.Nop(), nil)

	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.PatientRecord{{ID: "R1"}}, records)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, "stub+fallback", source.Name())
}

func TestFallbackSource_PrimaryFails(t *testing.T) {
	primary := &stubSource{err: errors.New("connection refused")}
	source := NewFallbackSource(primary, zerolog.Nop(), nil)

	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SampleRecords(), records)
}

func TestFallbackSource_NoPrimary(t *testing.T) {
	source := NewFallbackSource(nil, zerolog.Nop(), nil)

	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "sample", source.Name())
}

func TestSampleSource(t *testing.T) {
	source := NewSampleSource()
	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "sample", source.Name())
}

func TestNewConfiguredSource(t *testing.T) {
	source, err := NewConfiguredSource(&config.FeedConfig{}, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Equal(t, "sample", source.Name())

	source, err = NewConfiguredSource(&config.FeedConfig{URL: "https://sheets.example.test/exec", Timeout: time.Second}, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Equal(t, "sheet-feed+fallback", source.Name())

	source, err = NewConfiguredSource(&config.FeedConfig{URL: "https://sheets.example.test/exec", WorkbookPath: "records.xlsx"}, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Equal(t, "workbook+fallback", source.Name())

	// a workbook that cannot be opened degrades to the sample
	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
}
