// Package guess derives initial parameter vectors for peak fits from the
// statistics of an isolated window.
package guess

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-peakfit/peak/shape"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyWindow is returned for windows without points.
	ErrEmptyWindow = fmt.Errorf("guess: %w: empty window", core.ErrConfiguration)
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = fmt.Errorf("guess: %w: x and y length mismatch", core.ErrConfiguration)
	// ErrNoPeaks is returned when no centers are given.
	ErrNoPeaks = fmt.Errorf("guess: %w: no peak centers", core.ErrConfiguration)
	// ErrNonParametric is returned for shapes that take no parameters.
	ErrNonParametric = errors.New("guess: shape has no parameters")
)

// Build returns the initial parameter vector for fitting len(centers) peaks
// of the shape named by identifier to (x, y). The layout follows
// [shape.Describe].
func Build(x, y, centers []float64, identifier string, asymmetry float64) ([]float64, error) {
	return ForDescriptor(x, y, centers, shape.Describe(identifier), asymmetry)
}

// ForDescriptor is Build for an already resolved parameter layout.
//
// For peak i, with span = max(x) - min(x) and peak = max(y):
//
//	height      peak / (1+i)
//	area        span * peak / (2+i)      (replaces height for area-scaled shapes)
//	width       span / (2+i)
//	width2      span / (2+0.99*i)
//	center      centers[i]
//	asymmetry   asymmetry
func ForDescriptor(x, y, centers []float64, desc shape.Descriptor, asymmetry float64) ([]float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, ErrEmptyWindow
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}

	if len(centers) == 0 {
		return nil, ErrNoPeaks
	}

	if !desc.Parametric {
		return nil, ErrNonParametric
	}

	span := floats.Max(x) - floats.Min(x)
	peak := floats.Max(y)
	params := make([]float64, 0, desc.ParamsPerPeak()*len(centers))

	for i, center := range centers {
		n := float64(i)

		if desc.AreaScaled {
			params = append(params, span*peak/(2+n))
		} else {
			params = append(params, peak/(1+n))
		}

		params = append(params, span/(2+n))

		if desc.DoubleWidth {
			params = append(params, span/(2+n*0.99))
		}

		if desc.CenterParam {
			params = append(params, center)
		}

		if desc.AsymmetryParam {
			params = append(params, asymmetry)
		}
	}

	return params, nil
}
