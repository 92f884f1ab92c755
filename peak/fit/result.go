package fit

import (
	"math"

	"github.com/cwbudde/algo-peakfit/peak/shape"
	"github.com/cwbudde/algo-peakfit/stats/spectral"
	"gonum.org/v1/gonum/optimize"
)

// SampleFit is the fit of one sample of one element.
type SampleFit struct {
	// Observed is the averaged spectrum on the window axis.
	Observed []float64
	// Stats describes Observed.
	Stats spectral.Stats
	// X and Y are the plot curve: the fitted model on a dense grid over the
	// element bounds, or the window axis and Observed for the trapezoidal
	// rule.
	X []float64
	Y []float64
	// Params is the optimized parameter vector, Guess the starting point.
	Params []float64
	Guess  []float64
	// Peaks holds Params decoded per peak, with fixed values filled in.
	Peaks []shape.PeakParams
	// Metrics holds one entry per peak measured on the plot grid. The
	// trapezoidal rule yields a single entry for the whole window.
	Metrics []Metrics
	// Residuals is Observed - model on the window axis.
	Residuals   []float64
	Evaluations int
	Status      optimize.Status
	Err         error
}

// Result is the fit of one element across all samples.
type Result struct {
	Label   string
	Shape   string
	Samples []SampleFit
	// Err is set when the element was skipped as a whole. Per-sample
	// failures are reported in the samples.
	Err error
}

// Areas returns the area of the given peak for every sample, NaN where the
// sample failed.
func (r Result) Areas(peak int) []float64 {
	return r.collect(peak, func(m Metrics) float64 { return m.Area })
}

// Heights returns the height of the given peak for every sample, NaN where
// the sample failed.
func (r Result) Heights(peak int) []float64 {
	return r.collect(peak, func(m Metrics) float64 { return m.Height })
}

func (r Result) collect(peak int, get func(Metrics) float64) []float64 {
	out := make([]float64, len(r.Samples))

	for i, s := range r.Samples {
		if s.Err != nil || peak < 0 || peak >= len(s.Metrics) {
			out[i] = math.NaN()
			continue
		}

		out[i] = get(s.Metrics[peak])
	}

	return out
}
