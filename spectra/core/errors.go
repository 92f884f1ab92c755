package core

import "errors"

// Error classes shared by the isolation and fitting stages. Package-specific
// errors wrap one of these, so callers can classify failures with errors.Is.
var (
	// ErrConfiguration marks caller misconfiguration, such as window bounds
	// that select no wavelength points or an unknown shape identifier.
	ErrConfiguration = errors.New("configuration error")

	// ErrFit marks an optimizer failure for a single (element, sample) pair.
	ErrFit = errors.New("fit error")

	// ErrNumerical marks numerically degenerate input, such as baseline
	// anchors that do not define a line.
	ErrNumerical = errors.New("numerical error")

	// ErrNotImplemented marks a documented but unimplemented mode.
	ErrNotImplemented = errors.New("not implemented")
)
