// Package sheet exports an evaluation to an XLSX workbook and reads inputs
// back from one. The first sheet of an exported workbook is importable.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"MetalCal/internal/catalog"
	"MetalCal/internal/field"
)

const (
	InputsSheet  = "Inputs"
	ResultsSheet = "Results"
	PreviewSheet = "Preview"
)

var ErrEmptySheet = errors.New("sheet: no input rows")

// Export writes the inputs, results and, when present, the preview curve.
func Export(w io.Writer, f *catalog.Formula, res catalog.Result, preview []catalog.Point) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), InputsSheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"name", "value", "unit", "description"}}
	for i, v := range res.Inputs {
		rows = append(rows, []interface{}{v.Name, cell(v), v.Unit, f.Fields[i].Description})
	}
	if err := writeRows(x, InputsSheet, rows); err != nil {
		return err
	}

	if _, err := x.NewSheet(ResultsSheet); err != nil {
		return err
	}
	rows = [][]interface{}{{"name", "label", "value", "unit", "display"}}
	for _, v := range res.Outputs {
		rows = append(rows, []interface{}{v.Name, v.Label, cell(v), v.Unit, v.Text})
	}
	if err := writeRows(x, ResultsSheet, rows); err != nil {
		return err
	}

	if f.Preview != nil && len(preview) > 0 {
		if _, err := x.NewSheet(PreviewSheet); err != nil {
			return err
		}
		rows = [][]interface{}{{f.Preview.XLabel, f.Preview.YLabel}}
		for _, p := range preview {
			rows = append(rows, []interface{}{number(p.X), number(p.Y)})
		}
		if err := writeRows(x, PreviewSheet, rows); err != nil {
			return err
		}
	}
	return x.Write(w)
}

func cell(v catalog.Value) interface{} {
	return number(v.Value)
}

func number(v field.Float) interface{} {
	if !v.Defined() {
		return field.Placeholder
	}
	return float64(v)
}

func writeRows(x *excelize.File, sheet string, rows [][]interface{}) error {
	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, axis, &r); err != nil {
			return err
		}
	}
	return nil
}

// Import reads name/value rows from the first sheet. Rows whose name is not
// a field of f are skipped, as is a header row. Blank values stay absent.
func Import(r io.Reader, f *catalog.Formula) (map[string]field.Number, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	rows, err := x.GetRows(x.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(f.Fields))
	for _, s := range f.Fields {
		known[s.Name] = true
	}
	out := make(map[string]field.Number)
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if !known[name] {
			continue
		}
		n, err := field.Parse(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", i+1, name, err)
		}
		if n.Valid {
			out[name] = n
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}
