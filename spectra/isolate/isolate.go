package isolate

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-peakfit/spectra/baseline"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyWindow is returned when no wavelength falls inside the bounds.
	ErrEmptyWindow = fmt.Errorf("isolate: %w: empty window", core.ErrConfiguration)
	// ErrShortWindow is returned when the window holds fewer than
	// [baseline.MinPoints] points.
	ErrShortWindow = fmt.Errorf("isolate: %w: window too short", core.ErrConfiguration)
	// ErrInvalidBounds is returned for NaN bounds or lower > upper.
	ErrInvalidBounds = fmt.Errorf("isolate: %w: invalid bounds", core.ErrConfiguration)
	// ErrNoCenters is returned for elements without peak centers.
	ErrNoCenters = fmt.Errorf("isolate: %w: element has no peak centers", core.ErrConfiguration)
	// ErrShapeMismatch is returned when a counts grid does not have one row
	// per wavelength point.
	ErrShapeMismatch = fmt.Errorf("isolate: %w: counts rows do not match wavelength axis", core.ErrConfiguration)
)

// Element describes one region of interest.
type Element struct {
	Label string
	Lower float64
	Upper float64
	// Centers holds the expected peak positions. Its length is the number
	// of peaks fitted in the window.
	Centers []float64
}

// Config selects the baseline correction.
type Config struct {
	// Linear subtracts the anchor line; otherwise the offset correction is
	// applied.
	Linear bool
	// AreaNormalize divides linearly corrected columns by the area under
	// the baseline line. Ignored in offset mode.
	AreaNormalize bool
}

func (c Config) mode() string {
	switch {
	case c.Linear && c.AreaNormalize:
		return "linear+area"
	case c.Linear:
		return "linear"
	default:
		return "offset"
	}
}

// Window is the isolated region of one element across all samples.
type Window struct {
	Element    Element
	Wavelength []float64
	// Counts holds one corrected grid per sample, in sample order.
	Counts []*mat.Dense
	// Err is set when the element could not be isolated. Wavelength and
	// Counts are nil in that case.
	Err error
}

// Select returns the indices i with lower <= wavelength[i] <= upper.
func Select(wavelength []float64, lower, upper float64) []int {
	var idx []int

	for i, w := range wavelength {
		if lower <= w && w <= upper {
			idx = append(idx, i)
		}
	}

	return idx
}

// Isolate cuts and corrects one window per element. The returned slice
// always has one entry per element. Progress, when configured, is called
// with the element index after each element, whether it succeeded or not.
func Isolate(wavelength []float64, counts []*mat.Dense, elements []Element, cfg Config, opts ...core.Option) ([]Window, error) {
	env := core.ApplyOptions(opts...)
	windows := make([]Window, len(elements))

	var errs []error

	for i, el := range elements {
		w, err := isolateElement(wavelength, counts, el, cfg)
		if err != nil {
			err = fmt.Errorf("isolate: element %d (%s): %w", i, el.Label, err)
			w = Window{Element: el, Err: err}
			errs = append(errs, err)

			env.Logger.Warn("element isolation failed",
				zap.Int("element", i),
				zap.String("label", el.Label),
				zap.Error(err))
		} else {
			env.Logger.Debug("element isolated",
				zap.Int("element", i),
				zap.String("label", el.Label),
				zap.Int("points", len(w.Wavelength)),
				zap.Int("samples", len(w.Counts)),
				zap.String("mode", cfg.mode()))
		}

		windows[i] = w
		env.Progress(i)
	}

	return windows, errors.Join(errs...)
}

func isolateElement(wavelength []float64, counts []*mat.Dense, el Element, cfg Config) (Window, error) {
	if math.IsNaN(el.Lower) || math.IsNaN(el.Upper) || el.Lower > el.Upper {
		return Window{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, el.Lower, el.Upper)
	}

	if len(el.Centers) == 0 {
		return Window{}, ErrNoCenters
	}

	idx := Select(wavelength, el.Lower, el.Upper)
	if len(idx) == 0 {
		return Window{}, fmt.Errorf("%w: [%v, %v]", ErrEmptyWindow, el.Lower, el.Upper)
	}

	if len(idx) < baseline.MinPoints {
		return Window{}, fmt.Errorf("%w: %d points, need %d", ErrShortWindow, len(idx), baseline.MinPoints)
	}

	x := make([]float64, len(idx))
	for r, k := range idx {
		x[r] = wavelength[k]
	}

	w := Window{
		Element:    el,
		Wavelength: x,
		Counts:     make([]*mat.Dense, len(counts)),
	}
	w.Element.Centers = append([]float64(nil), el.Centers...)

	for s, grid := range counts {
		cut, err := cutSample(grid, idx, len(wavelength))
		if err != nil {
			return Window{}, fmt.Errorf("sample %d: %w", s, err)
		}

		if err := correct(x, cut, cfg); err != nil {
			return Window{}, fmt.Errorf("sample %d: %w", s, err)
		}

		w.Counts[s] = cut
	}

	return w, nil
}

// cutSample copies the selected rows of grid into a new matrix.
func cutSample(grid *mat.Dense, idx []int, points int) (*mat.Dense, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrShapeMismatch)
	}

	rows, cols := grid.Dims()
	if rows != points {
		return nil, fmt.Errorf("%w: %d rows, %d wavelengths", ErrShapeMismatch, rows, points)
	}

	if cols == 0 {
		return nil, fmt.Errorf("%w: no acquisitions", ErrShapeMismatch)
	}

	cut := mat.NewDense(len(idx), cols, nil)
	for r, k := range idx {
		cut.SetRow(r, grid.RawRowView(k))
	}

	return cut, nil
}

// correct applies the baseline correction to every column of cut.
func correct(x []float64, cut *mat.Dense, cfg Config) error {
	_, cols := cut.Dims()
	col := make([]float64, len(x))

	for j := range cols {
		mat.Col(col, j, cut)

		if cfg.Linear {
			if _, err := baseline.Linear(x, col, cfg.AreaNormalize); err != nil {
				return fmt.Errorf("acquisition %d: %w", j, err)
			}
		} else {
			baseline.Offset(col)
		}

		cut.SetCol(j, col)
	}

	return nil
}
