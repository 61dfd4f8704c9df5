package yplus

import "fmt"

const (
	// Lower Reynolds number of the turbulent flat-plate correlation.
	minTurbulentReynolds = 1e5
	// Buffer layer between the viscous sublayer and the log-law region.
	bufferLayerLow  = 5.0
	bufferLayerHigh = 30.0
)

// Applicability returns advisory notes about where in falls outside the
// usual use of the estimate. It never prevents a calculation.
func Applicability(in Input) []string {
	var notes []string
	if in.ReynoldsNumber < minTurbulentReynolds {
		notes = append(notes, fmt.Sprintf(
			"Re = %g is below %g; the 0.026/Re^(1/7) skin-friction correlation assumes turbulent flat-plate flow",
			in.ReynoldsNumber, minTurbulentReynolds))
	}
	if in.YPlus > bufferLayerLow && in.YPlus < bufferLayerHigh {
		notes = append(notes, fmt.Sprintf(
			"y+ = %g lies in the buffer layer (%g < y+ < %g); aim for y+ ≤ 1 to resolve the wall or y+ ≥ 30 for wall functions",
			in.YPlus, bufferLayerLow, bufferLayerHigh))
	}
	return notes
}
