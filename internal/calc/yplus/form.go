package yplus

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Field names used in forms, flags and spreadsheets.
const (
	FieldReynolds  = "reynolds_number"
	FieldLength    = "characteristic_length"
	FieldDensity   = "density"
	FieldViscosity = "viscosity"
	FieldYPlus     = "y_plus"
)

// Field describes one input box.
type Field struct {
	Name    string
	Label   string
	Unit    string
	Default float64
}

// Fields lists the inputs in display order.
var Fields = []Field{
	{Name: FieldReynolds, Label: "Reynolds Number (Re)", Unit: "", Default: 1e5},
	{Name: FieldLength, Label: "Characteristic Length", Unit: "m", Default: 1.0},
	{Name: FieldDensity, Label: "Fluid Density", Unit: "kg/m³", Default: 1.225},
	{Name: FieldViscosity, Label: "Fluid Dynamic Viscosity", Unit: "Pa·s", Default: 1.8e-5},
	{Name: FieldYPlus, Label: "y-plus Factor (y⁺)", Unit: "", Default: 30.0},
}

// DefaultInput returns the sample values shown on an empty form.
func DefaultInput() Input {
	var in Input
	for _, f := range Fields {
		*in.field(f.Name) = f.Default
	}
	return in
}

// DefaultValues returns DefaultInput as form text.
func DefaultValues() map[string]string {
	return DefaultInput().Values()
}

// Values formats in as form text keyed by field name.
func (in Input) Values() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[f.Name] = strconv.FormatFloat(*in.field(f.Name), 'g', -1, 64)
	}
	return out
}

// ParseFields converts free-text values into an Input. Every field is
// checked; the returned error is ValidationErrors listing each bad field.
func ParseFields(values map[string]string) (Input, error) {
	var (
		in   Input
		errs ValidationErrors
	)
	for _, f := range Fields {
		raw := values[f.Name]
		v, reason := parsePositive(raw)
		if reason != "" {
			errs = append(errs, &FieldError{Field: f.Name, Label: f.Label, Value: raw, Reason: reason})
			continue
		}
		*in.field(f.Name) = v
	}
	if len(errs) > 0 {
		return Input{}, errs
	}
	return in, nil
}

// Validate applies the ParseFields rules to an already numeric Input.
func (in Input) Validate() error {
	var errs ValidationErrors
	for _, f := range Fields {
		v := *in.field(f.Name)
		if reason := checkPositive(v); reason != "" {
			errs = append(errs, &FieldError{
				Field:  f.Name,
				Label:  f.Label,
				Value:  strconv.FormatFloat(v, 'g', -1, 64),
				Reason: reason,
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (in *Input) field(name string) *float64 {
	switch name {
	case FieldReynolds:
		return &in.ReynoldsNumber
	case FieldLength:
		return &in.CharacteristicLengthM
	case FieldDensity:
		return &in.DensityKgM3
	case FieldViscosity:
		return &in.ViscosityPaS
	case FieldYPlus:
		return &in.YPlus
	}
	panic("yplus: unknown field " + name)
}

func parsePositive(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, "value is missing"
	}
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, "out of range"
	}
	if err != nil {
		return 0, "not a number"
	}
	if reason := checkPositive(v); reason != "" {
		return 0, reason
	}
	return v, ""
}

func checkPositive(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "must be a finite number"
	case v <= 0:
		return "must be greater than zero"
	}
	return ""
}
