package feed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
)

// FallbackSource wraps a primary source and serves the bundled dataset
// whenever the primary fails. It never returns an error.
type FallbackSource struct {
	primary  providers.RecordSource
	fallback providers.RecordSource
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewFallbackSource creates a fallback wrapper. primary may be nil, in which
// case the bundled dataset is always served. metrics may be nil.
func NewFallbackSource(primary providers.RecordSource, logger zerolog.Logger, metrics *observability.Metrics) *FallbackSource {
	return &FallbackSource{
		primary:  primary,
		fallback: NewSampleSource(),
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchRecords returns the primary's records or the bundled dataset
func (s *FallbackSource) FetchRecords(ctx context.Context) ([]entities.PatientRecord, error) {
	if s.primary == nil {
		return s.fallback.FetchRecords(ctx)
	}

	records, err := s.primary.FetchRecords(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("source", s.primary.Name()).
			Msg("record feed unavailable, serving bundled sample data")
		observability.RecordFeedFetch(ctx, s.metrics, s.primary.Name(), false)
		return s.fallback.FetchRecords(ctx)
	}

	observability.RecordFeedFetch(ctx, s.metrics, s.primary.Name(), true)
	return records, nil
}

// Name identifies the source in logs
func (s *FallbackSource) Name() string {
	if s.primary == nil {
		return s.fallback.Name()
	}
	return s.primary.Name() + "+fallback"
}
