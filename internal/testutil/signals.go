package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Gaussian returns a Gaussian peak of the given height and full width at half
// maximum, evaluated at every x.
func Gaussian(x []float64, height, fwhm, center float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := (v - center) / fwhm
		out[i] = height * math.Exp(-4*math.Ln2*d*d)
	}
	return out
}

// Lorentzian returns a Lorentzian peak of the given height and full width at
// half maximum, evaluated at every x.
func Lorentzian(x []float64, height, fwhm, center float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := (v - center) / (0.5 * fwhm)
		out[i] = height / (1 + d*d)
	}
	return out
}

// Ramp returns intercept + slope*x for every x.
func Ramp(x []float64, intercept, slope float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = intercept + slope*v
	}
	return out
}

// Sum adds the given signals element-wise. All signals must share a length.
func Sum(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		floats.Add(out, s)
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Grid builds a counts grid whose columns are the given acquisitions. Rows
// are wavelength points.
func Grid(columns ...[]float64) *mat.Dense {
	if len(columns) == 0 {
		return nil
	}
	g := mat.NewDense(len(columns[0]), len(columns), nil)
	for j, c := range columns {
		g.SetCol(j, c)
	}
	return g
}
