package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Yplus/internal/calc/batch"
	"Yplus/internal/calc/yplus"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestImport(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Re", "L", "rho", "mu", "y+"},
		{1e5, 1.0, 1.225, 1.8e-5, 30.0},
		{"", "", "", "", ""},
		{1e6, 0.5, "water", 1e-3, 1.0},
		{1e6, 0.5, 998.2, 1e-3},
	})

	res, err := Import(buf, yplus.DefaultStyle)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 2 {
		t.Fatalf("succeeded/failed = %d/%d, want 1/2", res.Succeeded, res.Failed)
	}

	first := res.Rows[0]
	if first.Number != 2 || first.Result == nil {
		t.Fatalf("row = %+v, want result for sheet row 2", first)
	}
	want, _ := yplus.Calculate(yplus.DefaultInput())
	if first.Result.Result != want {
		t.Errorf("Result = %+v, want %+v", first.Result.Result, want)
	}

	if got := res.Rows[1]; got.Number != 4 || got.Error == nil || got.Error.Fields.Field(yplus.FieldDensity) == nil {
		t.Errorf("row = %+v, want density error on sheet row 4", got)
	}
	if got := res.Rows[2]; got.Error == nil || got.Error.Fields.Field(yplus.FieldYPlus) == nil {
		t.Errorf("row = %+v, want missing y+ error", got)
	}
}

func TestImport_Empty(t *testing.T) {
	buf := workbook(t, [][]interface{}{{"Re", "L", "rho", "mu", "y+"}})
	if _, err := Import(buf, yplus.DefaultStyle); err == nil {
		t.Error("Import() error = nil, want no data rows error")
	}
	if _, err := Import(strings.NewReader("not a workbook"), yplus.DefaultStyle); err == nil {
		t.Error("Import() error = nil, want open error")
	}
}

func TestTemplate_ImportsCleanly(t *testing.T) {
	f, err := Template()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	res, err := Import(buf, yplus.DefaultStyle)
	if err != nil {
		t.Fatalf("Import(Template()) error = %v", err)
	}
	if res.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", res.Succeeded)
	}
}

func TestExport(t *testing.T) {
	bad := yplus.DefaultInput()
	bad.ViscosityPaS = 0
	res, err := batch.Calculate(batch.Input{Items: []yplus.Input{yplus.DefaultInput(), bad}}, yplus.DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}

	f, err := Export(res)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(resultSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header plus 2", len(rows))
	}
	if rows[0][len(rows[0])-1] != "Error" {
		t.Errorf("header = %v", rows[0])
	}
	if len(rows[1]) < 10 || rows[1][9] == "" {
		t.Errorf("row 2 = %v, want first cell height", rows[1])
	}
	if last := rows[2][len(rows[2])-1]; !strings.Contains(last, "Viscosity") {
		t.Errorf("row 3 error = %q, want viscosity message", last)
	}
}

func TestHandler_Import(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Re", "L", "rho", "mu", "y+"},
		{1e5, 1.0, 1.225, 1.8e-5, 30.0},
	})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cases.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(buf.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{}).Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", res.Succeeded)
	}
}

func TestHandler_ImportWithoutFile(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Import(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_Export(t *testing.T) {
	body, _ := json.Marshal(batch.Input{Items: []yplus.Input{yplus.DefaultInput()}})
	rec := httptest.NewRecorder()
	(&Handler{}).Export(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxType {
		t.Errorf("Content-Type = %q", ct)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	f.Close()
}
