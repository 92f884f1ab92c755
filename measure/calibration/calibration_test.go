package calibration

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"gonum.org/v1/gonum/mat"
)

func TestFitLinearExact(t *testing.T) {
	t.Parallel()

	ref := []float64{1, 2, 3, 4, 5}
	resp := testutil.Ramp(ref, 2, 3)

	c, err := FitLinear(ref, resp)
	if err != nil {
		t.Fatalf("FitLinear() error = %v", err)
	}

	testutil.RequireNearlyEqual(t, "slope", c.Slope, 3, 1e-12)
	testutil.RequireNearlyEqual(t, "intercept", c.Intercept, 2, 1e-12)
	testutil.RequireNearlyEqual(t, "r2", c.R2, 1, 1e-12)
	testutil.RequireNearlyEqual(t, "rmse", c.RMSE, 0, 1e-12)
	testutil.RequireNearlyEqual(t, "lod", c.LoD, 0, 1e-12)

	if c.N != 5 {
		t.Fatalf("N = %d, want 5", c.N)
	}

	testutil.RequireNearlyEqual(t, "predict", c.Predict(14), 4, 1e-12)
}

func TestFitLinearFiguresOfMerit(t *testing.T) {
	t.Parallel()

	c, err := FitLinear([]float64{1, 2, 3, 4}, []float64{3, 5, 8, 9})
	if err != nil {
		t.Fatalf("FitLinear() error = %v", err)
	}

	testutil.RequireNearlyEqual(t, "slope", c.Slope, 2.1, 1e-12)
	testutil.RequireNearlyEqual(t, "intercept", c.Intercept, 1, 1e-12)
	testutil.RequireNearlyEqual(t, "r2", c.R2, 0.9692307692307692, 1e-12)
	testutil.RequireNearlyEqual(t, "rmse", c.RMSE, 0.41833001326703756, 1e-12)
	testutil.RequireNearlyEqual(t, "lod", c.LoD, 0.9296696802013676, 1e-12)
	testutil.RequireNearlyEqual(t, "loq", c.LoQ, 2.8171808490950534, 1e-12)
}

func TestFitLinearNegativeSlopeLimits(t *testing.T) {
	t.Parallel()

	c, err := FitLinear([]float64{1, 2, 3, 4}, []float64{9, 8, 5, 3})
	if err != nil {
		t.Fatalf("FitLinear() error = %v", err)
	}

	if c.Slope >= 0 || c.LoD <= 0 || c.LoQ <= c.LoD {
		t.Fatalf("curve = %+v", c)
	}
}

func TestFitLinearErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ref, resp []float64
		want      error
		class     error
	}{
		{"mismatch", []float64{1, 2, 3}, []float64{1, 2}, ErrLengthMismatch, core.ErrConfiguration},
		{"too few", []float64{1, 2}, []float64{1, 2}, ErrTooFewPoints, core.ErrConfiguration},
		{"nan", []float64{1, math.NaN(), 3}, []float64{1, 2, 3}, ErrNonFinite, core.ErrConfiguration},
		{"flat", []float64{1, 2, 3}, []float64{4, 4, 4}, ErrZeroSlope, core.ErrNumerical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FitLinear(tt.ref, tt.resp)
			if !errors.Is(err, tt.want) || !errors.Is(err, tt.class) {
				t.Fatalf("FitLinear() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCorrelationSpectrum(t *testing.T) {
	t.Parallel()

	ref := []float64{1, 2, 3}
	counts := make([]*mat.Dense, len(ref))

	for s, r := range ref {
		counts[s] = mat.NewDense(3, 2, []float64{
			2*r - 1, 2*r + 1,
			-r, -r,
			5, 5,
		})
	}

	got, err := CorrelationSpectrum(counts, ref)
	if err != nil {
		t.Fatalf("CorrelationSpectrum() error = %v", err)
	}

	testutil.RequireNearlyEqual(t, "row 0", got[0], 1, 1e-12)
	testutil.RequireNearlyEqual(t, "row 1", got[1], -1, 1e-12)

	if !math.IsNaN(got[2]) {
		t.Fatalf("constant row = %v, want NaN", got[2])
	}
}

func TestCorrelationSpectrumErrors(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(3, 1, nil)
	b := mat.NewDense(4, 1, nil)

	if _, err := CorrelationSpectrum([]*mat.Dense{a, b}, []float64{1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("rows error = %v, want %v", err, ErrShapeMismatch)
	}

	if _, err := CorrelationSpectrum([]*mat.Dense{a}, []float64{1}); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("single sample error = %v, want %v", err, ErrTooFewPoints)
	}

	if _, err := CorrelationSpectrum([]*mat.Dense{a, a}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("length error = %v, want %v", err, ErrLengthMismatch)
	}

	if _, err := CorrelationSpectrum([]*mat.Dense{a, nil}, []float64{1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("nil grid error = %v, want %v", err, ErrShapeMismatch)
	}
}
