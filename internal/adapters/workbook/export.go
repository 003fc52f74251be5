package workbook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Records"

type exportColumn struct {
	title string
	width float64
	value func(row *entities.RecordRow) string
}

var exportColumns = []exportColumn{
	{"ID", 12, func(r *entities.RecordRow) string { return r.Record.ID.String() }},
	{"Timestamp", 20, func(r *entities.RecordRow) string { return r.Record.Timestamp.String() }},
	{"Gender", 10, func(r *entities.RecordRow) string { return r.Record.Gender.String() }},
	{"Age", 8, func(r *entities.RecordRow) string { return r.Record.Age.String() }},
	{"Fracture Levels", 18, func(r *entities.RecordRow) string { return strings.Join(r.FractureLevels, ", ") }},
	{"Outcome", 18, func(r *entities.RecordRow) string { return r.Record.Outcome.String() }},
	{"Procedure", 14, func(r *entities.RecordRow) string { return orPlaceholder(r.Record.Procedure) }},
	{"Injury Date", 14, func(r *entities.RecordRow) string { return r.Record.InjuryDate.String() }},
	{"Admission Date", 14, func(r *entities.RecordRow) string { return r.Record.AdmissionDate.String() }},
	{"Surgery Date", 14, func(r *entities.RecordRow) string { return orPlaceholder(r.Record.SurgeryDate) }},
	{"Length of Stay", 14, func(r *entities.RecordRow) string { return r.LengthOfStay }},
	{"Post-op Days", 12, func(r *entities.RecordRow) string { return r.PostOperativeDays }},
	{"Time to Surgery", 14, func(r *entities.RecordRow) string { return r.TimeToSurgery }},
	{"Discharge Destination", 22, func(r *entities.RecordRow) string { return r.Record.DischargeDestination.String() }},
}

func orPlaceholder(c entities.Cell) string {
	if c.IsEmpty() {
		return entities.Placeholder
	}
	return c.String()
}

// ExportHeader returns the column titles of an exported table
func ExportHeader() []string {
	titles := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		titles[i] = c.title
	}
	return titles
}

// Export renders table rows as an .xlsx workbook
func Export(rows []entities.RecordRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, c := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, c.title); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(exportSheet, name, name, c.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i := range rows {
		values := make([]interface{}, len(exportColumns))
		for col, c := range exportColumns {
			values[col] = c.value(&rows[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
