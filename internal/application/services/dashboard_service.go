package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spinecare/fracture-dashboard/internal/analytics"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const maxSearchLength = 200

// DashboardQuery is the user's current selection
type DashboardQuery struct {
	Year   string
	Search string
}

// Validate checks the year selection and search text
func (q DashboardQuery) Validate() error {
	if !analytics.IsAllYears(q.Year) {
		year, err := strconv.Atoi(strings.TrimSpace(q.Year))
		if err != nil || year < 1900 || year > 9999 {
			return apperrors.NewValidationError("year must be a calendar year or All")
		}
	}
	if len(q.Search) > maxSearchLength {
		return apperrors.NewValidationError("search text is too long")
	}
	return nil
}

// DashboardService fetches the records and derives the dashboard on every
// call. Nothing is cached between calls.
type DashboardService struct {
	source   providers.RecordSource
	keywords analytics.Keywords
	metrics  *observability.Metrics
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(source providers.RecordSource, keywords analytics.Keywords, metrics *observability.Metrics) *DashboardService {
	return &DashboardService{
		source:   source,
		keywords: keywords,
		metrics:  metrics,
	}
}

// Build returns the full dashboard for the selection
func (s *DashboardService) Build(ctx context.Context, q DashboardQuery) (*entities.Dashboard, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "DashboardService.Build")
	defer span.End()

	start := time.Now()
	records, err := s.fetch(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	dashboard := s.keywords.BuildDashboard(records, q.Year, q.Search)

	observability.SetSpanAttributes(span,
		attribute.String("dashboard.year", dashboard.Year),
		attribute.Int("dashboard.records", len(records)),
		attribute.Int("dashboard.visible", len(dashboard.Records)),
	)
	observability.RecordDashboardBuild(ctx, s.metrics, len(records), time.Since(start))

	return dashboard, nil
}

// Rows returns only the table rows for the selection
func (s *DashboardService) Rows(ctx context.Context, q DashboardQuery) ([]entities.RecordRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	visible := analytics.FilterByText(analytics.FilterByYear(records, q.Year), q.Search)
	return s.keywords.ProjectRows(visible), nil
}

// Years returns the selectable submission years, newest first
func (s *DashboardService) Years(ctx context.Context) ([]int, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AvailableYears(records), nil
}

func (s *DashboardService) fetch(ctx context.Context) ([]entities.PatientRecord, error) {
	records, err := s.source.FetchRecords(ctx)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to load patient records", err)
	}
	return records, nil
}
