package yplus

import "fmt"

// Style selects how the first cell height is labelled. Both symbols name the
// same quantity; "Δs" is the mesh-spacing convention.
type Style struct {
	CellHeightSymbol string
}

// DefaultStyle labels the cell height "y".
var DefaultStyle = Style{CellHeightSymbol: "y"}

// Line is one labelled result ready for display.
type Line struct {
	Quantity string `json:"quantity"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
}

func (l Line) String() string {
	if l.Unit == "" {
		return fmt.Sprintf("%s: %s", l.Label, l.Value)
	}
	return fmt.Sprintf("%s: %s %s", l.Label, l.Value, l.Unit)
}

// Lines renders res in display order. Velocities and shear stress are
// fixed-point; the friction coefficient and cell height are scientific.
func Lines(res Result, style Style) []Line {
	symbol := style.CellHeightSymbol
	if symbol == "" {
		symbol = DefaultStyle.CellHeightSymbol
	}
	return []Line{
		{QuantityVelocity, "Fluid Velocity (U)", fmt.Sprintf("%.6f", res.VelocityMS), "m/s"},
		{QuantityFrictionCoefficient, "Coefficient of Friction (Cf)", fmt.Sprintf("%.6e", res.FrictionCoefficient), ""},
		{QuantityWallShearStress, "Wall Shear Stress (τw)", fmt.Sprintf("%.6f", res.WallShearStressPa), "N/m²"},
		{QuantityFrictionVelocity, "Frictional Velocity (uτ)", fmt.Sprintf("%.6f", res.FrictionVelocityMS), "m/s"},
		{QuantityFirstCellHeight, fmt.Sprintf("First Cell Height (%s)", symbol), fmt.Sprintf("%.6e", res.FirstCellHeightM), "m"},
	}
}
