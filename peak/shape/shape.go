package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-peakfit/spectra/core"
)

var (
	// ErrUnknownShape is returned when an identifier is not registered.
	ErrUnknownShape = fmt.Errorf("shape: %w: unknown shape", core.ErrConfiguration)
	// ErrParamCount is returned when a parameter vector does not match the
	// peak layout times the number of peaks.
	ErrParamCount = errors.New("shape: parameter count does not match peak layout")
	// ErrNonParametric is returned when a model without closed form is
	// evaluated.
	ErrNonParametric = errors.New("shape: shape has no closed form")
	// ErrLengthMismatch is returned when output and axis lengths differ.
	ErrLengthMismatch = errors.New("shape: output and axis length mismatch")
	// ErrPeakIndex is returned for a peak index outside the context.
	ErrPeakIndex = errors.New("shape: peak index out of range")
)

// Context carries the values that are not fitted. Centers holds one entry
// per peak and therefore also defines the peak count. For shapes that fit
// their centers the entries only count peaks.
type Context struct {
	Centers   []float64
	Asymmetry float64
}

// Peaks returns the number of peaks described by the context.
func (c Context) Peaks() int { return len(c.Centers) }

// PeakParams is one decoded peak block.
type PeakParams struct {
	// Scale is the peak height, or the area for area-scaled shapes.
	Scale float64
	// Width is the full width at half maximum. For Voigt profiles it is the
	// Gaussian component.
	Width float64
	// Width2 is the Lorentzian width of Voigt profiles.
	Width2    float64
	Center    float64
	Asymmetry float64
}

// Profile evaluates a single peak at x.
type Profile func(x float64, p PeakParams) float64

// Shape is a registered peak model.
type Shape struct {
	Name       string
	Kind       Kind
	Descriptor Descriptor
	profile    Profile
}

// FWHM returns the nominal full width at half maximum of a decoded peak.
// Shapes outside the built-in families report |Width|.
func (s Shape) FWHM(p PeakParams) float64 {
	switch s.Kind {
	case KindAsymmetricLorentzian:
		return 0.5 * math.Abs(p.Width) * (1 + math.Abs(p.Asymmetry))
	case KindVoigt:
		f, _ := voigtMix(voigtWidths(p))
		return f
	default:
		return math.Abs(p.Width)
	}
}

// NumParams returns the parameter vector length for the given context.
func (s Shape) NumParams(ctx Context) int {
	return s.Descriptor.ParamsPerPeak() * ctx.Peaks()
}

// Eval writes the sum of all peaks evaluated at x into dst.
func (s Shape) Eval(dst, x, params []float64, ctx Context) error {
	if err := s.check(dst, x, params, ctx); err != nil {
		return err
	}

	peaks := s.decodeAll(params, ctx)
	for i, xi := range x {
		var sum float64
		for _, p := range peaks {
			sum += s.profile(xi, p)
		}

		dst[i] = sum
	}

	return nil
}

// EvalPeak writes a single peak of a multi-peak parameter vector into dst.
func (s Shape) EvalPeak(dst, x, params []float64, ctx Context, peak int) error {
	if err := s.check(dst, x, params, ctx); err != nil {
		return err
	}

	if peak < 0 || peak >= ctx.Peaks() {
		return fmt.Errorf("%w: %d of %d", ErrPeakIndex, peak, ctx.Peaks())
	}

	n := s.Descriptor.ParamsPerPeak()
	p := decode(s.Descriptor, params[peak*n:(peak+1)*n], ctx, peak)

	for i, xi := range x {
		dst[i] = s.profile(xi, p)
	}

	return nil
}

// Decode splits a parameter vector into per-peak blocks, filling fixed
// values from the context.
func (s Shape) Decode(params []float64, ctx Context) ([]PeakParams, error) {
	if !s.Descriptor.Parametric {
		return nil, ErrNonParametric
	}

	if len(params) != s.NumParams(ctx) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrParamCount, len(params), s.NumParams(ctx))
	}

	return s.decodeAll(params, ctx), nil
}

func (s Shape) check(dst, x, params []float64, ctx Context) error {
	if !s.Descriptor.Parametric || s.profile == nil {
		return fmt.Errorf("%w: %s", ErrNonParametric, s.Name)
	}

	if len(dst) != len(x) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(dst), len(x))
	}

	if len(params) != s.NumParams(ctx) {
		return fmt.Errorf("%w: got %d, want %d", ErrParamCount, len(params), s.NumParams(ctx))
	}

	return nil
}

func (s Shape) decodeAll(params []float64, ctx Context) []PeakParams {
	n := s.Descriptor.ParamsPerPeak()
	peaks := make([]PeakParams, ctx.Peaks())

	for i := range peaks {
		peaks[i] = decode(s.Descriptor, params[i*n:(i+1)*n], ctx, i)
	}

	return peaks
}

func decode(d Descriptor, block []float64, ctx Context, peak int) PeakParams {
	p := PeakParams{Scale: block[0], Width: block[1], Asymmetry: 1}
	k := 2

	if d.DoubleWidth {
		p.Width2 = block[k]
		k++
	}

	if d.CenterParam {
		p.Center = block[k]
		k++
	} else {
		p.Center = ctx.Centers[peak]
	}

	switch {
	case d.AsymmetryParam:
		p.Asymmetry = block[k]
	case d.FixedAsymmetry:
		p.Asymmetry = ctx.Asymmetry
	}

	return p
}
