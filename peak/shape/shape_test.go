package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

func mustLookup(t *testing.T, name string) Shape {
	t.Helper()

	s, err := DefaultRegistry().Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", name, err)
	}

	return s
}

func evalAt(t *testing.T, s Shape, x, params []float64, ctx Context) []float64 {
	t.Helper()

	dst := make([]float64, len(x))
	if err := s.Eval(dst, x, params, ctx); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	return dst
}

func TestLorentzianHalfMaximum(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Lorentzian)
	got := evalAt(t, s, []float64{10, 11, 9}, []float64{8, 2, 10}, Context{Centers: []float64{0}})

	testutil.RequireSliceNearlyEqual(t, got, []float64{8, 4, 4}, 1e-12)
}

func TestLorentzianFixedCenterUsesContext(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, LorentzianFixedCenter)
	got := evalAt(t, s, []float64{5, 6}, []float64{-3, 2}, Context{Centers: []float64{5}})

	testutil.RequireSliceNearlyEqual(t, got, []float64{3, 1.5}, 1e-12)
}

func TestAsymmetricLorentzianSplitsWidth(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, AsymmetricLorentzian)
	// Left half width 1, right half width 3.
	x := []float64{0, -1, 3}
	got := evalAt(t, s, x, []float64{2, 2, 0, 3}, Context{Centers: []float64{0}})

	testutil.RequireSliceNearlyEqual(t, got, []float64{2, 1, 1}, 1e-12)
}

func TestAsymmetryFromContext(t *testing.T) {
	t.Parallel()

	fixed := mustLookup(t, AsymLorentzianFixedCenterAsymmetry)
	free := mustLookup(t, AsymLorentzianFixedCenter)
	x := testutil.Linspace(-5, 5, 41)
	ctx := Context{Centers: []float64{0.5}, Asymmetry: 1.7}

	got := evalAt(t, fixed, x, []float64{4, 1.2}, ctx)
	want := evalAt(t, free, x, []float64{4, 1.2, 1.7}, ctx)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestGaussianHalfMaximum(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Gaussian)
	got := evalAt(t, s, []float64{3, 3.75, 2.25}, []float64{6, 1.5, 3}, Context{Centers: []float64{0}})

	testutil.RequireSliceNearlyEqual(t, got, []float64{6, 3, 3}, 1e-12)
}

func TestGaussianMatchesTestSignal(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Gaussian)
	x := testutil.Linspace(100, 120, 201)
	got := evalAt(t, s, x, []float64{50, 1.5, 110}, Context{Centers: []float64{0}})

	testutil.RequireSliceNearlyEqual(t, got, testutil.Gaussian(x, 50, 1.5, 110), 1e-9)
}

func TestMultiPeakSum(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, GaussianFixedCenter)
	x := testutil.Linspace(0, 20, 101)
	ctx := Context{Centers: []float64{6, 14}}

	got := evalAt(t, s, x, []float64{5, 2, 3, 1}, ctx)
	want := testutil.Sum(testutil.Gaussian(x, 5, 2, 6), testutil.Gaussian(x, 3, 1, 14))

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestEvalPeak(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Lorentzian)
	x := testutil.Linspace(0, 20, 81)
	params := []float64{5, 2, 6, 3, 1, 14}
	ctx := Context{Centers: []float64{0, 0}}

	first := make([]float64, len(x))
	second := make([]float64, len(x))

	if err := s.EvalPeak(first, x, params, ctx, 0); err != nil {
		t.Fatalf("EvalPeak(0) error = %v", err)
	}

	if err := s.EvalPeak(second, x, params, ctx, 1); err != nil {
		t.Fatalf("EvalPeak(1) error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, testutil.Sum(first, second), evalAt(t, s, x, params, ctx), 1e-12)

	if err := s.EvalPeak(first, x, params, ctx, 2); !errors.Is(err, ErrPeakIndex) {
		t.Fatalf("EvalPeak(2) error = %v, want %v", err, ErrPeakIndex)
	}
}

func TestVoigtLimits(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Voigt)
	ctx := Context{Centers: []float64{0}}
	x := []float64{0}

	gauss := evalAt(t, s, x, []float64{3, 2, 0, 0}, ctx)
	testutil.RequireNearlyEqual(t, "gaussian limit", gauss[0], 3*math.Sqrt(4*math.Ln2/math.Pi)/2, 1e-8)

	lorentz := evalAt(t, s, x, []float64{3, 0, 2, 0}, ctx)
	testutil.RequireNearlyEqual(t, "lorentzian limit", lorentz[0], 3/math.Pi, 1e-9)
}

func TestVoigtSmoothAtZeroWidth(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, VoigtFixedCenter)
	ctx := Context{Centers: []float64{0}}
	x := []float64{0.3}

	for _, w := range []float64{1e-7, 1e-6} {
		left := evalAt(t, s, x, []float64{3, -w, 2}, ctx)[0]
		mid := evalAt(t, s, x, []float64{3, 0, 2}, ctx)[0]
		right := evalAt(t, s, x, []float64{3, w, 2}, ctx)[0]

		// Even in the width, so the central difference at zero vanishes.
		testutil.RequireNearlyEqual(t, "central difference", (right-left)/(2*w), 0, 0)

		if math.Abs(right-mid) > 1e-8 {
			t.Fatalf("width %g: value moved by %g", w, right-mid)
		}
	}
}

func TestFWHM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    PeakParams
		want float64
		eps  float64
	}{
		{Gaussian, PeakParams{Scale: 1, Width: -1.5}, 1.5, 0},
		{Lorentzian, PeakParams{Scale: 1, Width: 2}, 2, 0},
		{AsymLorentzianFixedCenterAsymmetry, PeakParams{Scale: 1, Width: 2, Asymmetry: 3}, 4, 0},
		{Voigt, PeakParams{Scale: 1, Width: 2}, 2, 1e-8},
		{Voigt, PeakParams{Scale: 1, Width2: 0.6}, 0.6, 1e-8},
		{VoigtFixedCenter, PeakParams{Scale: 1, Width: 0.5, Width2: 0.4}, 0.7453, 1e-4},
	}

	for _, tt := range tests {
		testutil.RequireNearlyEqual(t, tt.name, mustLookup(t, tt.name).FWHM(tt.p), tt.want, tt.eps)
	}
}

func TestFWHMMatchesVoigtHalfMaximum(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, VoigtFixedCenter)
	ctx := Context{Centers: []float64{0}}
	params := []float64{1, 0.5, 0.4}

	peaks, err := s.Decode(params, ctx)
	if err != nil {
		t.Fatal(err)
	}

	half := s.FWHM(peaks[0]) / 2
	y := evalAt(t, s, []float64{0, half}, params, ctx)

	// The pseudo-Voigt is built so that half maximum sits at FWHM/2.
	testutil.RequireNearlyEqual(t, "half maximum", y[1]/y[0], 0.5, 1e-12)
}

func TestVoigtUnitArea(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, VoigtFixedCenter)
	x := make([]float64, 400001)
	floats.Span(x, -2000, 2000)

	y := evalAt(t, s, x, []float64{7, 1.2, 0.8}, Context{Centers: []float64{0}})
	area := integrate.Trapezoidal(x, y)

	if rel := math.Abs(area-7) / 7; rel > 1e-3 {
		t.Fatalf("area = %v, want 7 (relative error %v)", area, rel)
	}
}

func TestNegativeScaleIsFolded(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, Gaussian)
	x := testutil.Linspace(-3, 3, 13)
	ctx := Context{Centers: []float64{0}}

	testutil.RequireSliceNearlyEqual(t,
		evalAt(t, s, x, []float64{-2, 1, 0}, ctx),
		evalAt(t, s, x, []float64{2, 1, 0}, ctx), 0)
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	gauss := mustLookup(t, Gaussian)
	trap := mustLookup(t, Trapezoidal)
	ctx := Context{Centers: []float64{1}}

	tests := []struct {
		name   string
		s      Shape
		dst    []float64
		params []float64
		want   error
	}{
		{"param count", gauss, make([]float64, 3), []float64{1, 2}, ErrParamCount},
		{"length", gauss, make([]float64, 2), []float64{1, 2, 3}, ErrLengthMismatch},
		{"non-parametric", trap, make([]float64, 3), []float64{1, 2, 3}, ErrNonParametric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.s.Eval(tt.dst, []float64{0, 1, 2}, tt.params, ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Eval() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	s := mustLookup(t, AsymLorentzianFixedCenter)
	ctx := Context{Centers: []float64{400.1, 402.5}}

	peaks, err := s.Decode([]float64{10, 0.3, 1.1, 5, 0.2, 0.9}, ctx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []PeakParams{
		{Scale: 10, Width: 0.3, Center: 400.1, Asymmetry: 1.1},
		{Scale: 5, Width: 0.2, Center: 402.5, Asymmetry: 0.9},
	}
	for i := range want {
		if peaks[i] != want[i] {
			t.Fatalf("peak %d = %+v, want %+v", i, peaks[i], want[i])
		}
	}

	if _, err := s.Decode([]float64{1}, ctx); !errors.Is(err, ErrParamCount) {
		t.Fatalf("Decode() error = %v, want %v", err, ErrParamCount)
	}
}

func TestUnknownShapeIsConfigurationError(t *testing.T) {
	t.Parallel()

	_, err := DefaultRegistry().Lookup("Pearson VII")
	if !errors.Is(err, ErrUnknownShape) || !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("Lookup() error = %v, want %v", err, ErrUnknownShape)
	}
}
