package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"MetalCal/internal/catalog"
)

type Input struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// greek has no cp1252 code point, so core fonts cannot draw it.
var greek = strings.NewReplacer("ε", "eps", "σ", "sigma")

// Write renders one evaluation as an A4 PDF.
func Write(w io.Writer, in Input, f *catalog.Formula, res catalog.Result, now time.Time) error {
	if in.Title == "" {
		in.Title = f.Title + " Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(greek.Replace(s)) }

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, text(in.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, text(fmt.Sprintf("Project: %s", in.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, text(fmt.Sprintf("Author: %s", in.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, text(f.Title))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, text(f.Description), "", "L", false)
	pdf.Ln(2)

	section(pdf, "Inputs")
	for i, v := range res.Inputs {
		row(pdf, text, v.Label, f.Fields[i].Description, v.Text, v.Unit)
	}
	pdf.Ln(4)

	section(pdf, "Results")
	for _, v := range res.Outputs {
		row(pdf, text, v.Label, "", v.Text, v.Unit)
	}
	pdf.Ln(4)

	section(pdf, "Formulas")
	for _, e := range f.Equations {
		pdf.Cell(0, 6, text(e))
		pdf.Ln(6)
	}
	if len(res.Example) > 0 {
		pdf.Ln(2)
		section(pdf, "Numerical example")
		for _, e := range res.Example {
			pdf.Cell(0, 6, text(e))
			pdf.Ln(6)
		}
	}

	if in.Notes != "" {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, text(in.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, text func(string) string, label, desc, value, unit string) {
	pdf.CellFormat(35, 6, text(label), "1", 0, "L", false, 0, "")
	pdf.CellFormat(75, 6, text(desc), "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, text(value), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, text(unit), "1", 1, "L", false, 0, "")
}
