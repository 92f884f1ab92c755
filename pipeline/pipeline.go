// Package pipeline composes isolation and fitting into a single call.
package pipeline

import (
	"errors"

	"github.com/cwbudde/algo-peakfit/peak/fit"
	"github.com/cwbudde/algo-peakfit/spectra/core"
	"github.com/cwbudde/algo-peakfit/spectra/isolate"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Config holds the settings of both stages.
type Config struct {
	Isolation isolate.Config
	Fit       fit.Config
}

// Output holds the results of both stages, one entry per element.
type Output struct {
	Windows []isolate.Window
	Results []fit.Result
}

// Run isolates every element and fits the given descriptors to the
// windows. Progress is reported by the isolation stage; the logger is
// shared by both stages. The returned error joins the failures of both
// stages; partial results are always returned.
func Run(wavelength []float64, counts []*mat.Dense, elements []isolate.Element, descriptors []fit.Descriptor, cfg Config, opts ...core.Option) (Output, error) {
	env := core.ApplyOptions(opts...)

	windows, isoErr := isolate.Isolate(wavelength, counts, elements, cfg.Isolation, opts...)

	results, fitErr := fit.Fit(windows, descriptors, cfg.Fit, core.WithLogger(env.Logger))

	env.Logger.Debug("pipeline finished",
		zap.Int("elements", len(elements)),
		zap.Int("samples", len(counts)),
		zap.Bool("isolation_failed", isoErr != nil),
		zap.Bool("fit_failed", fitErr != nil))

	return Output{Windows: windows, Results: results}, errors.Join(isoErr, fitErr)
}
