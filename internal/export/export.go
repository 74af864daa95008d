// Package export writes aggregated day records to per-day JSON and CSV
// files. Both formats share the statically declared meteo.RecordFields
// column order, so the layout never depends on struct iteration.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

// FileExporter writes one file per enabled format per day, named
// <longitude>_<latitude>_<date>.<ext> inside Dir.
type FileExporter struct {
	Dir  string
	JSON bool
	CSV  bool
}

func NewFileExporter(dir string, writeJSON, writeCSV bool) *FileExporter {
	return &FileExporter{Dir: dir, JSON: writeJSON, CSV: writeCSV}
}

// WriteDay writes the enabled formats for one day record.
func (e *FileExporter) WriteDay(loc meteo.Location, rec meteo.DatedRecord) error {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return err
	}

	base := fmt.Sprintf("%s_%s_%s", loc.Longitude.String(), loc.Latitude.String(), rec.Date)

	if e.JSON {
		if err := e.writeJSON(filepath.Join(e.Dir, base+".json"), rec); err != nil {
			return err
		}
	}
	if e.CSV {
		if err := e.writeCSV(filepath.Join(e.Dir, base+".csv"), rec); err != nil {
			return err
		}
	}
	return nil
}

func (e *FileExporter) writeJSON(path string, rec meteo.DatedRecord) error {
	// Flat object: date alongside the record's own fields.
	payload := struct {
		Date string `json:"date"`
		meteo.DayRecord
	}{Date: rec.Date, DayRecord: rec.Record}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (e *FileExporter) writeCSV(path string, rec meteo.DatedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"date"}, meteo.RecordFields...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	row = append(row, rec.Date)
	for _, v := range rec.Record.Values() {
		cell, err := formatCell(v)
		if err != nil {
			return err
		}
		row = append(row, cell)
	}
	if err := w.Write(row); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// formatCell renders one record value as a CSV cell. Slices are embedded as
// JSON arrays; nil daylight averages become empty cells.
func formatCell(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case *float64:
		if val == nil {
			return "", nil
		}
		return strconv.FormatFloat(*val, 'g', -1, 64), nil
	case []float64:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", v)
	}
}
