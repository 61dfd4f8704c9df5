package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Yplus/internal/calc/yplus"
	"Yplus/internal/logging"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string      `json:"project"`
	Author  string      `json:"author"`
	Title   string      `json:"title"`
	Notes   string      `json:"notes"`
	Case    yplus.Input `json:"case"`
}

type Handler struct {
	Style yplus.Style
	Now   func() time.Time
}

// Render calculates in.Case and lays out the report. Calculation errors are
// returned before any PDF is produced.
func Render(in Input, style yplus.Style, date time.Time) ([]byte, error) {
	res, err := yplus.Evaluate(in.Case, style)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		in.Title = "First Cell Height Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(in.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", in.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", in.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Input Parameters (SI)")
	values := in.Case.Values()
	for _, f := range yplus.Fields {
		row(pdf, tr, f.Label, values[f.Name], f.Unit)
	}
	pdf.Ln(4)

	section(pdf, "Results")
	for _, l := range res.Lines {
		row(pdf, tr, l.Label, l.Value, l.Unit)
	}

	if len(res.Warnings) > 0 {
		pdf.Ln(4)
		section(pdf, "Applicability")
		pdf.SetFont("Helvetica", "", 10)
		for _, w := range res.Warnings {
			pdf.MultiCell(0, 5, tr(ascii(w)), "", "L", false)
		}
	}
	if in.Notes != "" {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(in.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, label, value, unit string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 6, tr(ascii(label)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, tr(ascii(unit)), "1", 1, "L", false, 0, "")
}

// The core fonts are cp1252; spell out the Greek and super/subscript
// characters used in labels.
var asciiReplacer = strings.NewReplacer(
	"τw", "tau_w", "uτ", "u_tau", "Δs", "ds", "y⁺", "y+", "·", "*", "≤", "<=", "≥", ">=",
)

func ascii(s string) string {
	return asciiReplacer.Replace(s)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	doc, err := Render(input, h.Style, now())
	if err != nil {
		if status := yplus.StatusFor(err); status != http.StatusInternalServerError {
			yplus.WriteJSON(w, status, yplus.NewErrorResponse(err))
			return
		}
		log := logging.Logger()
		log.Error().Err(err).Msg("render report")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(doc)
}
