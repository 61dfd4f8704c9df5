package yplus

import (
	"math"
)

// Skin-friction correlation for a turbulent flat plate: Cf = 0.026 / Re^(1/7).
const (
	frictionCoefficientFactor = 0.026
	frictionCoefficientPower  = 1.0 / 7.0
)

// Names of the derived quantities, as reported in ComputationError.
const (
	QuantityVelocity            = "velocity"
	QuantityFrictionCoefficient = "friction_coefficient"
	QuantityWallShearStress     = "wall_shear_stress"
	QuantityFrictionVelocity    = "friction_velocity"
	QuantityFirstCellHeight     = "first_cell_height"
)

// Input is in SI units.
type Input struct {
	ReynoldsNumber        float64 `json:"reynolds_number"`
	CharacteristicLengthM float64 `json:"characteristic_length_m"`
	DensityKgM3           float64 `json:"density_kg_m3"`
	ViscosityPaS          float64 `json:"viscosity_pa_s"`
	YPlus                 float64 `json:"y_plus"`
}

type Result struct {
	VelocityMS          float64 `json:"velocity_m_s"`
	FrictionCoefficient float64 `json:"friction_coefficient"`
	WallShearStressPa   float64 `json:"wall_shear_stress_pa"`
	FrictionVelocityMS  float64 `json:"friction_velocity_m_s"`
	FirstCellHeightM    float64 `json:"first_cell_height_m"`
}

// Calculate derives the first cell height for the requested y+ from a
// flat-plate turbulent boundary layer estimate. It does not validate in;
// callers run Validate or ParseFields first. Any step that divides by zero,
// takes the root of a negative number or leaves the finite range fails the
// whole calculation with a *ComputationError.
func Calculate(in Input) (Result, error) {
	// U = Re * mu / (rho * L)
	u, err := divide(QuantityVelocity, in.ReynoldsNumber*in.ViscosityPaS, in.DensityKgM3*in.CharacteristicLengthM)
	if err != nil {
		return Result{}, err
	}

	cf, err := divide(QuantityFrictionCoefficient, frictionCoefficientFactor, math.Pow(in.ReynoldsNumber, frictionCoefficientPower))
	if err != nil {
		return Result{}, err
	}

	tau := cf * in.DensityKgM3 * u * u / 2
	if err := CheckFinite(QuantityWallShearStress, tau); err != nil {
		return Result{}, err
	}
	// A negative density flips the sign of tau but not of tau/rho.
	if tau < 0 || in.DensityKgM3 < 0 {
		return Result{}, &ComputationError{Quantity: QuantityWallShearStress, Reason: "negative wall shear stress"}
	}

	radicand, err := divide(QuantityFrictionVelocity, tau, in.DensityKgM3)
	if err != nil {
		return Result{}, err
	}
	if radicand < 0 {
		return Result{}, &ComputationError{Quantity: QuantityFrictionVelocity, Reason: "square root of a negative number"}
	}
	uTau := math.Sqrt(radicand)

	y, err := divide(QuantityFirstCellHeight, in.YPlus*in.ViscosityPaS, uTau*in.DensityKgM3)
	if err != nil {
		return Result{}, err
	}

	return Result{
		VelocityMS:          u,
		FrictionCoefficient: cf,
		WallShearStressPa:   tau,
		FrictionVelocityMS:  uTau,
		FirstCellHeightM:    y,
	}, nil
}

func divide(quantity string, num, den float64) (float64, error) {
	if den == 0 {
		return 0, &ComputationError{Quantity: quantity, Reason: "division by zero"}
	}
	v := num / den
	if err := CheckFinite(quantity, v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckFinite returns a *ComputationError for quantity when v is NaN or ±Inf.
func CheckFinite(quantity string, v float64) error {
	switch {
	case math.IsNaN(v):
		return &ComputationError{Quantity: quantity, Reason: "result is undefined (NaN)"}
	case math.IsInf(v, 0):
		return &ComputationError{Quantity: quantity, Reason: "result overflowed to infinity"}
	}
	return nil
}
