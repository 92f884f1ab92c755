// Package calibration relates fitted peak metrics to reference values.
//
// [FitLinear] builds a univariate linear calibration curve with the usual
// figures of merit, and [CorrelationSpectrum] reports how well every
// wavelength of a spectrum set tracks the reference values.
package calibration

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-peakfit/spectra/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinPoints is the smallest calibration set accepted by FitLinear.
const MinPoints = 3

var (
	// ErrLengthMismatch is returned when reference and response differ in
	// length.
	ErrLengthMismatch = fmt.Errorf("calibration: %w: length mismatch", core.ErrConfiguration)
	// ErrTooFewPoints is returned for calibration sets below MinPoints.
	ErrTooFewPoints = fmt.Errorf("calibration: %w: too few points", core.ErrConfiguration)
	// ErrNonFinite is returned when an input holds NaN or Inf.
	ErrNonFinite = fmt.Errorf("calibration: %w: non-finite value", core.ErrConfiguration)
	// ErrZeroSlope is returned when the response does not depend on the
	// reference.
	ErrZeroSlope = fmt.Errorf("calibration: %w: zero slope", core.ErrNumerical)
	// ErrShapeMismatch is returned when the counts grids do not share one
	// wavelength axis.
	ErrShapeMismatch = fmt.Errorf("calibration: %w: counts grids differ in rows", core.ErrConfiguration)
)

// Curve is the line response = Intercept + Slope*reference.
type Curve struct {
	Slope     float64
	Intercept float64
	// R2 is the coefficient of determination.
	R2 float64
	// RMSE is the root mean square error of calibration.
	RMSE float64
	// LoD and LoQ are the limits of detection and quantification in
	// reference units: 3.3 and 10 residual standard deviations divided by
	// the slope magnitude.
	LoD float64
	LoQ float64
	N   int
}

// FitLinear fits the calibration line by ordinary least squares.
func FitLinear(reference, response []float64) (Curve, error) {
	if len(reference) != len(response) {
		return Curve{}, fmt.Errorf("%w: %d references, %d responses", ErrLengthMismatch, len(reference), len(response))
	}

	n := len(reference)
	if n < MinPoints {
		return Curve{}, fmt.Errorf("%w: %d, need %d", ErrTooFewPoints, n, MinPoints)
	}

	if !core.Finite(reference) || !core.Finite(response) {
		return Curve{}, ErrNonFinite
	}

	intercept, slope := stat.LinearRegression(reference, response, nil, false)
	if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return Curve{}, fmt.Errorf("%w: %v", ErrZeroSlope, slope)
	}

	residuals := make([]float64, n)
	for i, x := range reference {
		residuals[i] = response[i] - (intercept + slope*x)
	}

	sse := floats.Dot(residuals, residuals)
	s := math.Sqrt(sse / float64(n-2))

	return Curve{
		Slope:     slope,
		Intercept: intercept,
		R2:        stat.RSquared(reference, response, nil, intercept, slope),
		RMSE:      math.Sqrt(sse / float64(n)),
		LoD:       3.3 * s / math.Abs(slope),
		LoQ:       10 * s / math.Abs(slope),
		N:         n,
	}, nil
}

// Predict inverts the curve and returns the reference value for response.
func (c Curve) Predict(response float64) float64 {
	return (response - c.Intercept) / c.Slope
}

// CorrelationSpectrum returns, for every wavelength, the Pearson
// correlation between the acquisition-averaged intensity of each sample
// and its reference value. Wavelengths with constant intensity yield NaN.
func CorrelationSpectrum(counts []*mat.Dense, reference []float64) ([]float64, error) {
	if len(counts) != len(reference) {
		return nil, fmt.Errorf("%w: %d samples, %d references", ErrLengthMismatch, len(counts), len(reference))
	}

	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: %d, need 2", ErrTooFewPoints, len(counts))
	}

	if !core.Finite(reference) {
		return nil, ErrNonFinite
	}

	var rows int

	for s, grid := range counts {
		if grid == nil {
			return nil, fmt.Errorf("%w: sample %d is nil", ErrShapeMismatch, s)
		}

		r, _ := grid.Dims()
		if s == 0 {
			rows = r
		} else if r != rows {
			return nil, fmt.Errorf("%w: sample %d has %d rows, want %d", ErrShapeMismatch, s, r, rows)
		}
	}

	// means holds one row per wavelength and one column per sample.
	means := mat.NewDense(rows, len(counts), nil)
	for s, grid := range counts {
		for r := range rows {
			means.Set(r, s, stat.Mean(grid.RawRowView(r), nil))
		}
	}

	out := make([]float64, rows)
	for r := range rows {
		out[r] = stat.Correlation(means.RawRowView(r), reference, nil)
	}

	return out, nil
}
