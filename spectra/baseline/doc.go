// Package baseline removes background signal from an isolated spectral window.
//
// Two corrections are available, both operating in place on one acquisition
// column at a time:
//
//   - [Linear]: a first-degree line is fitted through the two first and two
//     last points of the window (the anchors) and subtracted from the column.
//     Optionally the corrected column is divided by the trapezoidal area of
//     the fitted line itself, not of the corrected signal.
//   - [Offset]: the column minimum is moved to zero.
//
// Failures wrap [core.ErrNumerical] (degenerate anchors, zero baseline area)
// so they can be told apart from configuration errors.
package baseline
