// Package export writes the derived chart tuples to files.
package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/therealmvp/models"
	"github.com/xuri/excelize/v2"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Column keys in tuple order.
var (
	ParallelColumns = []string{"points", "rebounds", "blocks", "position", "assists", "steals", "turnovers", "team", "full_name"}
	ScatterColumns  = []string{"offensive_rating", "defensive_rating", "full_name", "position"}
)

const (
	parallelSheet = "Parallel"
	scatterSheet  = "Scatter"
)

// Write encodes series in format to w.
func Write(w io.Writer, format string, series models.Series, indent bool) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(w, series, indent)
	case FormatXLSX:
		return WriteXLSX(w, series)
	default:
		return errors.Errorf("unsupported export format %q", format)
	}
}

func WriteJSON(w io.Writer, series models.Series, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(series), "failed to encode series")
}

// WriteXLSX writes one sheet per tuple collection with a heading row.
func WriteXLSX(w io.Writer, series models.Series) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", parallelSheet); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}
	if _, err := f.NewSheet(scatterSheet); err != nil {
		return errors.Wrap(err, "failed to add sheet")
	}

	parallelRows := make([][]any, len(series.Parallel))
	for i, t := range series.Parallel {
		parallelRows[i] = t[:]
	}
	if err := writeSheet(f, parallelSheet, ParallelColumns, parallelRows); err != nil {
		return err
	}

	scatterRows := make([][]any, len(series.Scatter))
	for i, t := range series.Scatter {
		scatterRows[i] = t[:]
	}
	if err := writeSheet(f, scatterSheet, ScatterColumns, scatterRows); err != nil {
		return err
	}

	return errors.Wrap(f.Write(w), "failed to write workbook")
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = models.Label(c)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write %s row %d", sheet, row)
	}
	return nil
}
