package importer

import (
	"fmt"
	"io"
	"strings"

	"Yplus/internal/calc/batch"
	"Yplus/internal/calc/yplus"

	"github.com/xuri/excelize/v2"
)

const resultSheet = "Results"

// Row is one data row of an imported sheet. Number is the 1-based sheet row.
type Row struct {
	Number int                  `json:"row"`
	Input  yplus.Input          `json:"input"`
	Result *yplus.Response      `json:"result,omitempty"`
	Error  *yplus.ErrorResponse `json:"error,omitempty"`
}

type Result struct {
	Sheet     string `json:"sheet"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Rows      []Row  `json:"rows"`
}

// Import reads the first sheet of an xlsx workbook. The first row is a
// header; each following row holds Re, L, rho, mu and y+ in that order.
// Blank rows are skipped and bad rows are reported without stopping.
func Import(r io.Reader, style yplus.Style) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return Result{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	out := Result{Sheet: sheet}
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		row := Row{Number: i + 1}
		res, err := evaluateRow(rows[i], style)
		if err != nil {
			e := yplus.NewErrorResponse(err)
			row.Error = &e
			out.Failed++
		} else {
			row.Input = res.Input
			row.Result = &res
			out.Succeeded++
		}
		out.Rows = append(out.Rows, row)
	}
	if len(out.Rows) == 0 {
		return Result{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}
	return out, nil
}

func evaluateRow(row []string, style yplus.Style) (yplus.Response, error) {
	values := make(map[string]string, len(yplus.Fields))
	for i, f := range yplus.Fields {
		if i < len(row) {
			values[f.Name] = row[i]
		}
	}
	input, err := yplus.ParseFields(values)
	if err != nil {
		return yplus.Response{}, err
	}
	return yplus.Evaluate(input, style)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Template returns a workbook with the header row and one sample row.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := make([]interface{}, 0, len(yplus.Fields))
	for _, fd := range yplus.Fields {
		header = append(header, columnTitle(fd))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	d := yplus.DefaultInput()
	sample := []interface{}{d.ReynoldsNumber, d.CharacteristicLengthM, d.DensityKgM3, d.ViscosityPaS, d.YPlus}
	if err := f.SetSheetRow(sheet, "A2", &sample); err != nil {
		return nil, err
	}
	return f, nil
}

// Export writes a batch result to a workbook: inputs, results and the
// error message of each failed item.
func Export(res batch.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, 11)
	for _, fd := range yplus.Fields {
		header = append(header, columnTitle(fd))
	}
	header = append(header,
		"Velocity (m/s)", "Cf", "Wall Shear Stress (N/m²)", "Friction Velocity (m/s)", "First Cell Height (m)", "Error")
	if err := f.SetSheetRow(resultSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(resultSheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, item := range res.Items {
		in := item.Input
		row := []interface{}{in.ReynoldsNumber, in.CharacteristicLengthM, in.DensityKgM3, in.ViscosityPaS, in.YPlus}
		if item.Result != nil {
			r := item.Result.Result
			row = append(row, r.VelocityMS, r.FrictionCoefficient, r.WallShearStressPa, r.FrictionVelocityMS, r.FirstCellHeightM, "")
		} else {
			row = append(row, nil, nil, nil, nil, nil, errorText(item.Error))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func columnTitle(f yplus.Field) string {
	if f.Unit == "" {
		return f.Label
	}
	return fmt.Sprintf("%s (%s)", f.Label, f.Unit)
}

func errorText(e *yplus.ErrorResponse) string {
	if e == nil {
		return ""
	}
	if len(e.Fields) > 0 {
		return e.Fields.Error()
	}
	return e.Error
}
