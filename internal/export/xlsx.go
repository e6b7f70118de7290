package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"mapsmith/internal/domain"
)

const sheetName = "Places"

// XLSX renders the document as a single-sheet workbook with the same fixed
// columns as the CSV export.
func XLSX(w io.Writer, doc *domain.MapDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i := range doc.Data {
		row := placeToRow(&doc.Data[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}

	// Widen the free-text columns so exports open readable.
	for _, col := range []struct {
		name  string
		width float64
	}{
		{"A", 24}, {"B", 40}, {"F", 50}, {"G", 30},
	} {
		if err := f.SetColWidth(sheetName, col.name, col.name, col.width); err != nil {
			return fmt.Errorf("xlsx column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// ContentTypeFor maps an export format to its MIME type.
func ContentTypeFor(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv; charset=utf-8"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}
