package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"Yplus/internal/calc/importer"
	"Yplus/internal/calc/yplus"
)

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalcCmd_Defaults(t *testing.T) {
	out, _, err := run("calc")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}
	res, _ := yplus.Calculate(yplus.DefaultInput())
	want := yplus.Lines(res, yplus.DefaultStyle)
	for _, l := range want {
		if !strings.Contains(out, l.String()) {
			t.Errorf("output missing %q:\n%s", l.String(), out)
		}
	}
}

func TestCalcCmd_SymbolAndJSON(t *testing.T) {
	out, _, err := run("calc", "--yplus", "1", "--symbol", "Δs", "--json")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}
	var resp yplus.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.Input.YPlus != 1 {
		t.Errorf("YPlus = %v, want 1", resp.Input.YPlus)
	}
	if resp.Lines[4].Label != "First Cell Height (Δs)" {
		t.Errorf("label = %q", resp.Lines[4].Label)
	}
}

func TestCalcCmd_FieldErrors(t *testing.T) {
	out, errOut, err := run("calc", "--density", "air", "--viscosity", "0")
	if err == nil {
		t.Fatal("calc error = nil, want invalid input")
	}
	if out != "" {
		t.Errorf("stdout = %q, want no result", out)
	}
	for _, want := range []string{"--density: please enter a valid number for Fluid Density", "--viscosity:"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestCalcCmd_Warnings(t *testing.T) {
	_, errOut, err := run("calc", "--re", "5000")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "warning: Re = 5000") {
		t.Errorf("stderr = %q, want Reynolds warning", errOut)
	}
}

func TestCalcCmd_BadSymbol(t *testing.T) {
	if _, _, err := run("calc", "--symbol", "h"); err == nil {
		t.Error("error = nil, want symbol error")
	}
}

func TestInverseCmd(t *testing.T) {
	res, _ := yplus.Calculate(yplus.DefaultInput())
	out, _, err := run("inverse", "--height", strconv.FormatFloat(res.FirstCellHeightM, 'g', -1, 64))
	if err != nil {
		t.Fatalf("inverse error = %v", err)
	}
	if !strings.Contains(out, "y+: 30.000000") {
		t.Errorf("output = %q, want y+ 30", out)
	}

	if _, _, err := run("inverse"); err == nil {
		t.Error("inverse without --height: error = nil")
	}
}

func TestImportCmd(t *testing.T) {
	f, err := importer.Template()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cases.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	out, _, err := run("import", path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "row 2: First Cell Height (y):") || !strings.Contains(out, "1 succeeded, 0 failed") {
		t.Errorf("output = %q", out)
	}

	if _, _, err := run("import", filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("import of missing file: error = nil")
	}
}
