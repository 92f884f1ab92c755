// Package spectral computes descriptive statistics of an intensity spectrum
// sampled on a wavelength axis.
package spectral

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Stats holds statistics of one spectrum.
type Stats struct {
	Points        int
	Max           float64
	MaxWavelength float64
	Min           float64
	MinWavelength float64
	Mean          float64
	Range         float64 // max - min
	Energy        float64 // sum of squared intensities
	// Integral is the trapezoidal integral over the axis. NaN for unsorted
	// axes.
	Integral float64
	// Centroid and Spread are the intensity-weighted mean and population
	// standard deviation of the wavelength. Negative intensities get zero
	// weight.
	Centroid float64
	Spread   float64
	// Bandwidth is the full width at half maximum around the maximum,
	// linearly interpolated between points.
	Bandwidth float64
}

// Calculate computes all statistics. It panics if the slices differ in
// length.
func Calculate(wavelength, intensity []float64) Stats {
	if len(wavelength) != len(intensity) {
		panic("spectral: length mismatch")
	}

	n := len(intensity)
	if n == 0 {
		return Stats{Integral: math.NaN()}
	}

	maxIdx := floats.MaxIdx(intensity)
	minIdx := floats.MinIdx(intensity)

	s := Stats{
		Points:        n,
		Max:           intensity[maxIdx],
		MaxWavelength: wavelength[maxIdx],
		Min:           intensity[minIdx],
		MinWavelength: wavelength[minIdx],
		Mean:          stat.Mean(intensity, nil),
		Energy:        floats.Dot(intensity, intensity),
		Integral:      Integral(wavelength, intensity),
		Bandwidth:     Bandwidth(wavelength, intensity),
	}
	s.Range = s.Max - s.Min
	s.Centroid, s.Spread = centroid(wavelength, intensity)

	return s
}

// Integral returns the trapezoidal integral, 0 for fewer than two points
// and NaN for an unsorted axis.
func Integral(wavelength, intensity []float64) float64 {
	if len(wavelength) < 2 {
		return 0
	}

	if !sort.Float64sAreSorted(wavelength) {
		return math.NaN()
	}

	return integrate.Trapezoidal(wavelength, intensity)
}

// Centroid returns the intensity-weighted mean wavelength.
func Centroid(wavelength, intensity []float64) float64 {
	c, _ := centroid(wavelength, intensity)
	return c
}

func centroid(wavelength, intensity []float64) (float64, float64) {
	weights := make([]float64, len(intensity))
	for i, v := range intensity {
		weights[i] = max(v, 0)
	}

	if floats.Sum(weights) == 0 {
		return 0, 0
	}

	return stat.Mean(wavelength, weights), stat.PopStdDev(wavelength, weights)
}

// Bandwidth returns the full width at half maximum around the largest
// intensity. Half-maximum points that fall outside the axis are clipped to
// its ends.
func Bandwidth(wavelength, intensity []float64) float64 {
	n := len(intensity)
	if n < 2 {
		return 0
	}

	peak := floats.MaxIdx(intensity)
	if intensity[peak] <= 0 {
		return 0
	}

	threshold := intensity[peak] / 2

	lower := wavelength[0]
	for i := peak; i >= 1; i-- {
		if intensity[i-1] <= threshold && intensity[i] > threshold {
			lower = interp(wavelength[i-1], wavelength[i], intensity[i-1], intensity[i], threshold)
			break
		}
	}

	upper := wavelength[n-1]
	for i := peak; i < n-1; i++ {
		if intensity[i+1] <= threshold && intensity[i] > threshold {
			upper = interp(wavelength[i], wavelength[i+1], intensity[i], intensity[i+1], threshold)
			break
		}
	}

	return math.Abs(upper - lower)
}

// interp returns the wavelength where the intensity crosses threshold
// between two points.
func interp(wLow, wHigh, iLow, iHigh, threshold float64) float64 {
	denom := iHigh - iLow
	if denom == 0 {
		return (wLow + wHigh) / 2
	}

	t := (threshold - iLow) / denom

	return wLow + t*(wHigh-wLow)
}
