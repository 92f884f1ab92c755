package fit

import (
	"github.com/cwbudde/algo-peakfit/stats/spectral"
	"gonum.org/v1/gonum/floats"
)

// Metrics are measured on a sampled curve.
type Metrics struct {
	// Center is the position of the maximum.
	Center float64
	Height float64
	// Width is the full width at half maximum, linearly interpolated
	// between grid points and clipped to the grid.
	Width float64
	// Area is the trapezoidal integral over the grid.
	Area float64
}

// measure requires a non-empty, sorted x.
func measure(x, y []float64) Metrics {
	peak := floats.MaxIdx(y)

	return Metrics{
		Center: x[peak],
		Height: y[peak],
		Width:  spectral.Bandwidth(x, y),
		Area:   spectral.Integral(x, y),
	}
}
