package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spinecare/fracture-dashboard/internal/application/services"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardService defines the dashboard operations used by the handler.
type DashboardService interface {
	Build(ctx context.Context, q services.DashboardQuery) (*entities.Dashboard, error)
	Rows(ctx context.Context, q services.DashboardQuery) ([]entities.RecordRow, error)
	Years(ctx context.Context) ([]int, error)
}

// RowExporter renders table rows as a workbook
type RowExporter func(rows []entities.RecordRow) ([]byte, error)

// DashboardHandler serves the dashboard view model and its table
type DashboardHandler struct {
	service DashboardService
	export  RowExporter
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, export RowExporter) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		export:  export,
	}
}

func queryFromRequest(r *http.Request) services.DashboardQuery {
	return services.DashboardQuery{
		Year:   r.URL.Query().Get("year"),
		Search: r.URL.Query().Get("q"),
	}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Build(r.Context(), queryFromRequest(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// ListRecords handles GET /api/records
func (h *DashboardHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Rows(r.Context(), queryFromRequest(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": rows,
		"count":   len(rows),
	})
}

// ListYears handles GET /api/years
func (h *DashboardHandler) ListYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"years": years,
	})
}

// ExportRecords handles GET /api/records/export
func (h *DashboardHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	rows, err := h.service.Rows(r.Context(), q)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	body, err := h.export(rows)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	year := q.Year
	if year == "" {
		year = entities.YearAll
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "fracture-records-"+year+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Warn().Err(err).Msg("failed to write export")
	}
}
