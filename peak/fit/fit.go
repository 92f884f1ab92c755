package fit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-peakfit/peak/guess"
	"github.com/cwbudde/algo-peakfit/peak/shape"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"github.com/cwbudde/algo-peakfit/spectra/isolate"
	"github.com/cwbudde/algo-peakfit/stats/spectral"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Fit fits descriptors[i] to every sample of windows[i].
//
// The returned slice has one Result per window and one SampleFit per
// sample. Windows that failed isolation are skipped; their Result carries
// the isolation error, which is not repeated in the returned error.
// Progress, when configured, is called once per element after its samples.
func Fit(windows []isolate.Window, descriptors []Descriptor, cfg Config, opts ...core.Option) ([]Result, error) {
	cfg = normalizeConfig(cfg)

	if cfg.Mode != ModeMeanFirst {
		if cfg.Mode == ModeAreaFirst {
			return nil, ErrAreaFirst
		}

		return nil, fmt.Errorf("fit: %w: unknown mode %d", core.ErrConfiguration, cfg.Mode)
	}

	if len(descriptors) != len(windows) {
		return nil, fmt.Errorf("%w: %d descriptors, %d windows", ErrDescriptorCount, len(descriptors), len(windows))
	}

	env := core.ApplyOptions(opts...)
	results := make([]Result, len(windows))

	var errs []error

	for e, w := range windows {
		var elemErrs []error

		results[e], elemErrs = fitElement(e, w, descriptors[e], cfg, env.Logger)
		errs = append(errs, elemErrs...)
		env.Progress(e)
	}

	return results, errors.Join(errs...)
}

func fitElement(e int, w isolate.Window, d Descriptor, cfg Config, log *zap.Logger) (Result, []error) {
	res := Result{Label: w.Element.Label, Shape: d.Shape}

	if w.Err != nil {
		res.Err = w.Err
		log.Debug("skipping failed window", zap.Int("element", e), zap.String("label", w.Element.Label))

		return res, nil
	}

	s, err := cfg.Registry.Lookup(d.Shape)
	if err != nil {
		res.Err = fmt.Errorf("fit: element %d (%s): %w", e, w.Element.Label, err)
		log.Warn("element fit skipped", zap.Int("element", e), zap.String("label", w.Element.Label), zap.Error(err))

		return res, []error{res.Err}
	}

	res.Samples = make([]SampleFit, len(w.Counts))

	var errs []error

	for i, counts := range w.Counts {
		sf := fitSample(w, counts, s, d, cfg)

		var fe *FitError
		if errors.As(sf.Err, &fe) {
			fe.Element, fe.Sample, fe.Label = e, i, w.Element.Label
			errs = append(errs, sf.Err)

			log.Warn("sample fit failed",
				zap.Int("element", e),
				zap.String("label", w.Element.Label),
				zap.Int("sample", i),
				zap.Error(sf.Err))
		} else {
			log.Debug("sample fitted",
				zap.Int("element", e),
				zap.String("label", w.Element.Label),
				zap.Int("sample", i),
				zap.String("shape", s.Name),
				zap.Int("evaluations", sf.Evaluations),
				zap.Stringer("status", sf.Status))
		}

		res.Samples[i] = sf
	}

	return res, errs
}

// collapseTol is the smallest peak width, relative to the window span, that
// a fit may report.
const collapseTol = 1e-6

// fitSample always returns a *FitError in Err on failure.
func fitSample(w isolate.Window, counts *mat.Dense, s shape.Shape, d Descriptor, cfg Config) SampleFit {
	x := w.Wavelength

	var sf SampleFit

	fail := func(reason string, status optimize.Status, err error) SampleFit {
		sf.Status = status
		sf.Err = &FitError{Status: status, Reason: reason, Err: err}

		return sf
	}

	if counts == nil {
		return fail(ReasonResidualShape, optimize.NotTerminated, errors.New("nil counts"))
	}

	if rows, cols := counts.Dims(); rows != len(x) || cols == 0 {
		return fail(ReasonResidualShape, optimize.NotTerminated,
			fmt.Errorf("%dx%d counts for %d wavelengths", rows, cols, len(x)))
	}

	sf.Observed = average(counts)

	if !core.Finite(sf.Observed) {
		return fail(ReasonNonFiniteData, optimize.NotTerminated, core.ErrNumerical)
	}

	sf.Stats = spectral.Calculate(x, sf.Observed)

	if !s.Descriptor.Parametric {
		if !sort.Float64sAreSorted(x) {
			return fail(ReasonUnsortedAxis, optimize.NotTerminated, core.ErrNumerical)
		}

		sf.X = core.Clone(x)
		sf.Y = core.Clone(sf.Observed)
		sf.Residuals = make([]float64, len(x))
		sf.Metrics = []Metrics{measure(sf.X, sf.Y)}
		sf.Status = optimize.Success

		return sf
	}

	ctx := shape.Context{Centers: w.Element.Centers, Asymmetry: d.asymmetry()}

	g, err := guess.ForDescriptor(x, sf.Observed, ctx.Centers, s.Descriptor, d.asymmetry())
	if err != nil {
		return fail(ReasonGuess, optimize.NotTerminated, err)
	}

	sf.Guess = g

	if len(g) > len(x) {
		return fail(ReasonResidualShape, optimize.NotTerminated,
			fmt.Errorf("%d parameters, %d points", len(g), len(x)))
	}

	sol, err := solve(problem{shape: s, ctx: ctx, x: x, y: sf.Observed}, g, cfg)
	sf.Evaluations = sol.evaluations
	sf.Params = sol.params

	switch {
	case err != nil:
		return fail(ReasonSolver, sol.status, err)
	case sol.status != optimize.StepConvergence:
		return fail(ReasonNotConverged, sol.status, nil)
	case !core.Finite(sol.params):
		return fail(ReasonNonFiniteParams, sol.status, core.ErrNumerical)
	}

	if err := sol.verdict(); err != nil {
		return fail(ReasonNotConverged, sol.status, err)
	}

	sf.Status = sol.status

	if err := evaluate(&sf, s, ctx, x, w.Element.Lower, w.Element.Upper, cfg.PlotPoints); err != nil {
		return fail(ReasonModelEvaluation, sol.status, err)
	}

	if i := collapsedPeak(s, sf.Peaks, floats.Max(x)-floats.Min(x)); i >= 0 {
		return fail(ReasonNotConverged, sol.status, fmt.Errorf("%w: peak %d", ErrCollapsedWidth, i))
	}

	return sf
}

// collapsedPeak returns the index of the first peak whose full width at
// half maximum is not above collapseTol times span, or -1.
func collapsedPeak(s shape.Shape, peaks []shape.PeakParams, span float64) int {
	for i, p := range peaks {
		if !(s.FWHM(p) > collapseTol*span) {
			return i
		}
	}

	return -1
}

// evaluate fills the plot curve, the residuals, the decoded peaks and the
// per-peak metrics of a converged fit.
func evaluate(sf *SampleFit, s shape.Shape, ctx shape.Context, x []float64, lower, upper float64, points int) error {
	sf.X = make([]float64, points)
	floats.Span(sf.X, lower, upper)
	sf.X[points-1] = upper

	sf.Y = make([]float64, points)
	if err := s.Eval(sf.Y, sf.X, sf.Params, ctx); err != nil {
		return err
	}

	model := make([]float64, len(x))
	if err := s.Eval(model, x, sf.Params, ctx); err != nil {
		return err
	}

	sf.Residuals = make([]float64, len(model))
	floats.SubTo(sf.Residuals, sf.Observed, model)

	peaks, err := s.Decode(sf.Params, ctx)
	if err != nil {
		return err
	}

	sf.Peaks = peaks
	sf.Metrics = make([]Metrics, len(peaks))
	single := make([]float64, points)

	for i := range peaks {
		if err := s.EvalPeak(single, sf.X, sf.Params, ctx, i); err != nil {
			return err
		}

		sf.Metrics[i] = measure(sf.X, single)
	}

	return nil
}

// average returns the per-point mean across acquisitions.
func average(counts *mat.Dense) []float64 {
	rows, _ := counts.Dims()
	avg := make([]float64, rows)

	for r := range rows {
		avg[r] = stat.Mean(counts.RawRowView(r), nil)
	}

	return avg
}
