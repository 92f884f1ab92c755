package fit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-peakfit/spectra/core"
	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrAreaFirst is returned for ModeAreaFirst.
	ErrAreaFirst = fmt.Errorf("fit: %w: area-first mode", core.ErrNotImplemented)
	// ErrDescriptorCount is returned when the number of descriptors does
	// not match the number of windows.
	ErrDescriptorCount = fmt.Errorf("fit: %w: descriptor count does not match window count", core.ErrConfiguration)

	// ErrNoImprovement marks a converged fit whose cost is not below the
	// cost of the initial guess.
	ErrNoImprovement = errors.New("fit: cost not below initial guess")
	// ErrStalled marks a converged fit whose cost still drops along the
	// steepest-descent direction.
	ErrStalled = errors.New("fit: solver stopped away from a minimum")
	// ErrCollapsedWidth marks a converged fit with a peak of vanishing
	// width.
	ErrCollapsedWidth = errors.New("fit: peak width collapsed")
)

// Failure reasons reported in FitError.Reason.
const (
	ReasonNotConverged    = "not converged"
	ReasonResidualShape   = "invalid residual shape"
	ReasonSolver          = "solver failure"
	ReasonNonFiniteParams = "non-finite parameters"
	ReasonNonFiniteData   = "non-finite observations"
	ReasonGuess           = "initial guess"
	ReasonUnsortedAxis    = "unsorted wavelength axis"
	ReasonModelEvaluation = "model evaluation"
)

// FitError reports a failed fit of one sample of one element.
type FitError struct {
	Element int
	Sample  int
	Label   string
	// Status is the last solver status.
	Status optimize.Status
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *FitError) Error() string {
	msg := fmt.Sprintf("fit: element %d (%s) sample %d: %s", e.Element, e.Label, e.Sample, e.Reason)
	if e.Status != optimize.NotTerminated {
		msg += " [" + e.Status.String() + "]"
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap reports core.ErrFit and the underlying cause.
func (e *FitError) Unwrap() []error {
	if e.Err == nil {
		return []error{core.ErrFit}
	}

	return []error{core.ErrFit, e.Err}
}
