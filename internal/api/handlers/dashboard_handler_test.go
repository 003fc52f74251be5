package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spinecare/fracture-dashboard/internal/adapters/feed"
	"github.com/spinecare/fracture-dashboard/internal/analytics"
	"github.com/spinecare/fracture-dashboard/internal/api/handlers"
	"github.com/spinecare/fracture-dashboard/internal/application/services"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardService struct {
	err       error
	lastQuery services.DashboardQuery
}

func (s *stubDashboardService) Build(ctx context.Context, q services.DashboardQuery) (*entities.Dashboard, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return analytics.DefaultKeywords().BuildDashboard(feed.SampleRecords(), q.Year, q.Search), nil
}

func (s *stubDashboardService) Rows(ctx context.Context, q services.DashboardQuery) ([]entities.RecordRow, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return analytics.DefaultKeywords().ProjectRows(feed.SampleRecords()), nil
}

func (s *stubDashboardService) Years(ctx context.Context) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []int{2024, 2023}, nil
}

func noExport(rows []entities.RecordRow) ([]byte, error) {
	return []byte("xlsx"), nil
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	service := &stubDashboardService{}
	handler := handlers.NewDashboardHandler(service, noExport)

	req := httptest.NewRequest("GET", "/api/dashboard?year=2024&q=L1", nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, services.DashboardQuery{Year: "2024", Search: "L1"}, service.lastQuery)

	var response entities.Dashboard
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 3, response.Summary.Total)
	assert.Equal(t, []int{2024, 2023}, response.Years)
	assert.Len(t, response.Records, 2)
}

func TestDashboardHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: apperrors.NewValidationError("year must be a calendar year or All"), wantStatus: http.StatusBadRequest},
		{name: "external", err: apperrors.NewExternalError("failed to load patient records", errors.New("timeout")), wantStatus: http.StatusBadGateway},
		{name: "internal", err: apperrors.NewInternalError("boom", nil), wantStatus: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewDashboardHandler(&stubDashboardService{err: tt.err}, noExport)

			req := httptest.NewRequest("GET", "/api/dashboard", nil)
			w := httptest.NewRecorder()
			handler.GetDashboard(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var response map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.NotEmpty(t, response["error"])
		})
	}
}

func TestDashboardHandler_ListRecordsAndYears(t *testing.T) {
	handler := handlers.NewDashboardHandler(&stubDashboardService{}, noExport)

	w := httptest.NewRecorder()
	handler.ListRecords(w, httptest.NewRequest("GET", "/api/records", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var records struct {
		Records []entities.RecordRow `json:"records"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&records))
	assert.Equal(t, 4, records.Count)
	assert.Equal(t, "-", records.Records[3].LengthOfStay)

	w = httptest.NewRecorder()
	handler.ListYears(w, httptest.NewRequest("GET", "/api/years", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"years":[2024,2023]}`, w.Body.String())
}

func TestDashboardHandler_ExportRecords(t *testing.T) {
	var exported []entities.RecordRow
	export := func(rows []entities.RecordRow) ([]byte, error) {
		exported = rows
		return []byte("PK-workbook"), nil
	}
	handler := handlers.NewDashboardHandler(&stubDashboardService{}, export)

	w := httptest.NewRecorder()
	handler.ExportRecords(w, httptest.NewRequest("GET", "/api/records/export?year=2024", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fracture-records-2024.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-workbook", w.Body.String())
	assert.Len(t, exported, 4)
}

func TestDashboardHandler_ExportFailure(t *testing.T) {
	export := func(rows []entities.RecordRow) ([]byte, error) {
		return nil, apperrors.NewInternalError("failed to render workbook", errors.New("disk full"))
	}
	handler := handlers.NewDashboardHandler(&stubDashboardService{}, export)

	w := httptest.NewRecorder()
	handler.ExportRecords(w, httptest.NewRequest("GET", "/api/records/export", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("client went away")
}

func TestDashboardHandler_ExportWriteFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	handler := handlers.NewDashboardHandler(&stubDashboardService{}, noExport)

	w := brokenWriter{httptest.NewRecorder()}
	handler.ExportRecords(w, httptest.NewRequest("GET", "/api/records/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to write export")
	assert.Contains(t, buf.String(), "client went away")
}
