package workbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Source reads patient records from an exported copy of the source spreadsheet.
// The first row holds field names matching the feed's JSON keys; columns with
// unknown headers are ignored.
type Source struct {
	path  string
	sheet string
}

// NewSource creates a workbook source. An empty sheet selects the first sheet.
func NewSource(path, sheet string) providers.RecordSource {
	return &Source{path: path, sheet: sheet}
}

// FetchRecords reads every non-empty row of the sheet
func (s *Source) FetchRecords(ctx context.Context) ([]entities.PatientRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewValidationError("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if index, err := f.GetSheetIndex(sheet); err != nil || index < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q not found in workbook", sheet))
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return []entities.PatientRecord{}, nil
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]entities.PatientRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlankRow(row) {
			continue
		}

		var rec entities.PatientRecord
		for col, value := range row {
			key, ok := columns[col]
			if !ok {
				continue
			}
			*rec.FieldPtr(key) = entities.Cell(value)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Name identifies the source in logs
func (s *Source) Name() string {
	return "workbook"
}

func mapHeader(header []string) (map[int]string, error) {
	known := make(map[string]string, len(entities.PatientRecordFields))
	for _, key := range entities.PatientRecordFields {
		known[strings.ToLower(key)] = key
	}

	columns := make(map[int]string)
	hasID := false
	for col, title := range header {
		key, ok := known[strings.ToLower(strings.TrimSpace(title))]
		if !ok {
			continue
		}
		columns[col] = key
		if key == "id" {
			hasID = true
		}
	}

	if !hasID {
		return nil, apperrors.NewValidationError("workbook header has no id column")
	}
	return columns, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
