// Package fit runs nonlinear least-squares peak fits on isolated windows.
//
// For every element the acquisitions of each sample are averaged point by
// point, an initial guess is derived with package guess, and the residual
// observed - model(x, params) is minimized with the Levenberg-Marquardt
// solver of github.com/maorshutman/lm using a central-difference Jacobian.
// The fitted model is then evaluated on a dense grid over the element
// bounds for plotting, and per-peak metrics are measured on that grid.
//
// The "Trapezoidal rule" shape has no parameters. Its residual is zero by
// construction, so the averaged spectrum is accepted as-is and returned on
// the window axis.
//
// Failures are isolated: a sample that does not converge gets a [FitError]
// in its slot and the remaining samples and elements continue. [Fit]
// returns every recorded error joined.
package fit
