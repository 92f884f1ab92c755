// Package isolate cuts per-element windows out of a multi-sample spectrum
// set and baseline-corrects them.
//
// Every sample shares one wavelength axis. The counts of a sample are a
// [mat.Dense] with one row per wavelength point and one column per
// acquisition. For each element the window is the inclusive index set
// lower <= wavelength <= upper; it must hold at least four points so that
// two anchors can be taken from each end.
//
// Each acquisition column of a window is corrected independently, either
// by subtracting the straight line through the four anchors (optionally
// dividing by the area under that line) or by shifting the column so that
// its minimum becomes zero. The input grids are never modified.
//
// A failing element does not stop the run: its [Window] carries the error,
// the remaining elements are processed and [Isolate] returns all failures
// joined.
package isolate
