package baseline

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-peakfit/spectra/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AnchorsPerEdge is the number of points taken from each end of a window to
// fit the linear baseline.
const AnchorsPerEdge = 2

// MinPoints is the shortest window for which the anchor set is well defined.
const MinPoints = 2 * AnchorsPerEdge

var (
	ErrLengthMismatch    = fmt.Errorf("baseline: %w: x and y must have the same length", core.ErrNumerical)
	ErrTooFewPoints      = fmt.Errorf("baseline: %w: window needs at least %d points", core.ErrNumerical, MinPoints)
	ErrDegenerateAnchors = fmt.Errorf("baseline: %w: anchor points do not define a line", core.ErrNumerical)
	ErrUnsortedAxis      = fmt.Errorf("baseline: %w: wavelength axis must be sorted for area normalization", core.ErrNumerical)
	ErrZeroBaselineArea  = fmt.Errorf("baseline: %w: baseline area is zero or not finite", core.ErrNumerical)
)

// Line is a first-degree baseline y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// Eval writes the line evaluated at every x into dst and returns it.
// dst must have the same length as x.
func (l Line) Eval(dst, x []float64) []float64 {
	for i, v := range x {
		dst[i] = l.At(v)
	}
	return dst
}

// FitAnchors fits a least-squares line through the two first and two last
// points of (x, y).
func FitAnchors(x, y []float64) (Line, error) {
	n := len(x)
	if len(y) != n {
		return Line{}, ErrLengthMismatch
	}
	if n < MinPoints {
		return Line{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}

	ax := []float64{x[0], x[1], x[n-2], x[n-1]}
	ay := []float64{y[0], y[1], y[n-2], y[n-1]}

	if stat.Variance(ax, nil) == 0 {
		return Line{}, ErrDegenerateAnchors
	}

	alpha, beta := stat.LinearRegression(ax, ay, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return Line{}, ErrDegenerateAnchors
	}

	return Line{Intercept: alpha, Slope: beta}, nil
}

// Linear subtracts the anchor line from y in place and returns the line.
//
// With normalize set, the corrected values are additionally divided by the
// trapezoidal integral of the fitted line over x. y is left untouched when an
// error is returned.
func Linear(x, y []float64, normalize bool) (Line, error) {
	line, err := FitAnchors(x, y)
	if err != nil {
		return Line{}, err
	}

	base := line.Eval(make([]float64, len(x)), x)

	var area float64
	if normalize {
		if !sort.Float64sAreSorted(x) {
			return Line{}, ErrUnsortedAxis
		}
		area = integrate.Trapezoidal(x, base)
		if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
			return Line{}, fmt.Errorf("%w: %v", ErrZeroBaselineArea, area)
		}
	}

	vecmath.ScaleBlockInPlace(base, -1)
	vecmath.AddBlockInPlace(y, base)

	if normalize {
		vecmath.ScaleBlockInPlace(y, 1/area)
	}

	return line, nil
}

// Offset shifts y in place so that its minimum becomes zero and returns the
// applied shift. A positive minimum is subtracted, a negative minimum is
// lifted by its absolute value, and a zero minimum leaves y unchanged.
func Offset(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}

	var shift float64
	switch m := floats.Min(y); {
	case m > 0:
		shift = -m
	case m < 0:
		shift = math.Abs(m)
	default:
		return 0
	}

	floats.AddConst(shift, y)
	return shift
}
