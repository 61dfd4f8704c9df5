package inverse

import (
	"math"
	"strconv"

	"Yplus/internal/calc/yplus"
)

const (
	FieldFirstCellHeight = "first_cell_height"
	QuantityYPlus        = "y_plus"
)

type Input struct {
	ReynoldsNumber        float64 `json:"reynolds_number"`
	CharacteristicLengthM float64 `json:"characteristic_length_m"`
	DensityKgM3           float64 `json:"density_kg_m3"`
	ViscosityPaS          float64 `json:"viscosity_pa_s"`
	FirstCellHeightM      float64 `json:"first_cell_height_m"`
}

type Result struct {
	YPlus              float64  `json:"y_plus"`
	FrictionVelocityMS float64  `json:"friction_velocity_m_s"`
	Warnings           []string `json:"warnings,omitempty"`
	Notes              string   `json:"notes"`
}

// Calculate returns the y+ achieved by a first cell of the given height.
// y+ is linear in the height, so the forward calculation at y+ = 1 gives
// the height of one wall unit.
func Calculate(in Input) (Result, error) {
	flow := yplus.Input{
		ReynoldsNumber:        in.ReynoldsNumber,
		CharacteristicLengthM: in.CharacteristicLengthM,
		DensityKgM3:           in.DensityKgM3,
		ViscosityPaS:          in.ViscosityPaS,
		YPlus:                 1,
	}
	var verrs yplus.ValidationErrors
	if err := flow.Validate(); err != nil {
		verrs, _ = err.(yplus.ValidationErrors)
	}
	if math.IsNaN(in.FirstCellHeightM) || math.IsInf(in.FirstCellHeightM, 0) || in.FirstCellHeightM <= 0 {
		verrs = append(verrs, &yplus.FieldError{
			Field:  FieldFirstCellHeight,
			Label:  "First Cell Height",
			Value:  strconv.FormatFloat(in.FirstCellHeightM, 'g', -1, 64),
			Reason: "must be a finite number greater than zero",
		})
	}
	if len(verrs) > 0 {
		return Result{}, verrs
	}

	unit, err := yplus.Calculate(flow)
	if err != nil {
		return Result{}, err
	}
	yp := in.FirstCellHeightM / unit.FirstCellHeightM
	if err := yplus.CheckFinite(QuantityYPlus, yp); err != nil {
		return Result{}, err
	}

	flow.YPlus = yp
	return Result{
		YPlus:              yp,
		FrictionVelocityMS: unit.FrictionVelocityMS,
		Warnings:           yplus.Applicability(flow),
		Notes:              "Achieved y+ for the given first cell height (flat-plate estimate).",
	}, nil
}
