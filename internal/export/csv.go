package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"mapsmith/internal/domain"
)

// BOM is the UTF-8 byte-order mark, prepended for Excel compatibility on
// Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (9 columns). The layout is fixed
// regardless of which fields a place actually carries.
var columns = []string{
	"name",
	"address",
	"phone",
	"webName",
	"webLink",
	"intro",
	"tags",
	"lat",
	"lng",
}

// Columns returns a copy of the fixed CSV column set.
func Columns() []string {
	return append([]string(nil), columns...)
}

// CSVWriter wraps csv.Writer for exporting places as CSV rows.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the fixed header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WritePlaces converts places to CSV rows and writes them.
func (w *CSVWriter) WritePlaces(places []domain.Place) error {
	for i := range places {
		if err := w.csv.Write(placeToRow(&places[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// placeToRow converts a place to a 9-element string slice. Missing fields
// render as empty cells; the zero coordinate renders as empty lat/lng.
func placeToRow(p *domain.Place) []string {
	row := make([]string, len(columns))
	row[0] = p.Name
	row[1] = p.Address
	row[2] = p.Phone
	row[3] = p.WebName
	row[4] = p.WebLink
	row[5] = p.Intro
	row[6] = strings.Join(p.Tags, "; ")
	if !p.Center.IsZero() {
		row[7] = formatCoord(p.Center.Lat)
		row[8] = formatCoord(p.Center.Lng)
	}
	return row
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// CSV renders the whole document as a CSV file body, BOM included.
func CSV(w io.Writer, doc *domain.MapDocument) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WritePlaces(doc.Data); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
