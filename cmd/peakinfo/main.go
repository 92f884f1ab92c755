// Command peakinfo prints the peak shape catalog with parameter layouts and
// the measured properties of a unit peak of every shape.
//
// Usage:
//
//	peakinfo [flags] [shape-identifier ...]
//
// Without arguments it prints info for all registered shapes.
//
// Examples:
//
//	peakinfo Gaussian "Voigt Profile"
//	peakinfo -peaks 3 -width 0.4 -width2 0.2 voigt
//	peakinfo -asym 1.8 "Asymmetric Lorentzian"
//	peakinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-peakfit/peak/shape"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// gridPoints samples the unit peak over +-gridSpan widths.
const (
	gridPoints = 20001
	gridSpan   = 50.0
)

type options struct {
	peaks     int
	width     float64
	width2    float64
	asymmetry float64
}

func main() {
	peaks := flag.Int("peaks", 1, "number of peaks used for the parameter count")
	width := flag.Float64("width", 1, "full width at half maximum (gaussian width for voigt)")
	width2 := flag.Float64("width2", 0.5, "lorentzian width for voigt profiles")
	asym := flag.Float64("asym", 1.5, "asymmetry factor for asymmetric shapes")
	list := flag.Bool("list", false, "list registered shape identifiers")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: peakinfo [flags] [shape-identifier ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints parameter layouts and unit-peak properties of peak shapes.\n")
		fmt.Fprintf(os.Stderr, "Identifiers match case-insensitively; a unique substring is enough.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  peakinfo Gaussian\n")
		fmt.Fprintf(os.Stderr, "  peakinfo -peaks 3 -width 0.4 -width2 0.2 voigt\n")
		fmt.Fprintf(os.Stderr, "  peakinfo -list\n")
	}
	flag.Parse()

	reg := shape.DefaultRegistry()

	if *list {
		for _, name := range reg.Names() {
			fmt.Println(name)
		}

		return
	}

	if *peaks < 1 || *width <= 0 || *width2 < 0 || *asym <= 0 {
		fmt.Fprintf(os.Stderr, "error: -peaks, -width and -asym must be positive, -width2 non-negative\n")
		os.Exit(2)
	}

	shapes := resolve(reg, flag.Args())
	if len(shapes) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching shapes\n")
		os.Exit(1)
	}

	printCatalog(shapes, options{peaks: *peaks, width: *width, width2: *width2, asymmetry: *asym})
}

func resolve(reg *shape.Registry, args []string) []shape.Shape {
	names := reg.Names()
	if len(args) == 0 {
		args = names
	}

	var result []shape.Shape

	for _, arg := range args {
		name, ok := match(names, arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: no unique shape for %q (use -list to see available)\n", arg)
			continue
		}

		s, err := reg.Lookup(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}

		result = append(result, s)
	}

	return result
}

// match prefers an exact case-insensitive match, then a unique substring.
func match(names []string, arg string) (string, bool) {
	arg = strings.ToLower(strings.TrimSpace(arg))

	var hits []string

	for _, name := range names {
		lower := strings.ToLower(name)
		if lower == arg {
			return name, true
		}

		if strings.Contains(lower, arg) {
			hits = append(hits, name)
		}
	}

	if len(hits) != 1 {
		return "", false
	}

	return hits[0], true
}

type profile struct {
	height float64
	fwhm   float64
	area   float64
}

// unitPeak evaluates a single peak with unit scale centered at zero.
func unitPeak(s shape.Shape, o options) (profile, error) {
	d := s.Descriptor
	params := []float64{1, o.width}

	if d.DoubleWidth {
		params = append(params, o.width2)
	}

	if d.CenterParam {
		params = append(params, 0)
	}

	if d.AsymmetryParam {
		params = append(params, o.asymmetry)
	}

	span := gridSpan * max(o.width, o.width2)
	x := make([]float64, gridPoints)
	floats.Span(x, -span, span)
	y := make([]float64, gridPoints)

	ctx := shape.Context{Centers: []float64{0}, Asymmetry: o.asymmetry}
	if err := s.Eval(y, x, params, ctx); err != nil {
		return profile{}, err
	}

	peak := floats.MaxIdx(y)
	half := y[peak] / 2

	left, right := peak, peak
	for left > 0 && y[left-1] >= half {
		left--
	}

	for right < len(y)-1 && y[right+1] >= half {
		right++
	}

	return profile{
		height: y[peak],
		fwhm:   x[right] - x[left],
		area:   integrate.Trapezoidal(x, y),
	}, nil
}

func printCatalog(shapes []shape.Shape, o options) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Shape\tKind\tParams/Peak\tParams (%d peaks)\tLayout\tHeight\tFWHM\tArea\n", o.peaks); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	if _, err := fmt.Fprintf(tw, "-----\t----\t-----------\t----------------\t------\t------\t----\t----\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, s := range shapes {
		d := s.Descriptor

		if !d.Parametric {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t-\t-\t(non-parametric)\t-\t-\t-\n", s.Name, s.Kind); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
				return
			}

			continue
		}

		p, err := unitPeak(s, o)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "warning: %s: %v\n", s.Name, err)
			continue
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%.4f\t%.4f\t%.4f\n",
			s.Name,
			s.Kind,
			d.ParamsPerPeak(),
			d.ParamsPerPeak()*o.peaks,
			strings.Join(d.Layout(), ","),
			p.height,
			p.fwhm,
			p.area,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
