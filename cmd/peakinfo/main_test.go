package main

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-peakfit/peak/shape"
)

func TestMatch(t *testing.T) {
	names := shape.DefaultRegistry().Names()

	tests := []struct {
		arg  string
		want string
		ok   bool
	}{
		{"gaussian", shape.Gaussian, true},
		{"trapezoidal", shape.Trapezoidal, true},
		{"voigt profile [center fixed]", shape.VoigtFixedCenter, true},
		{"voigt", "", false},
		{"pearson", "", false},
	}

	for _, tt := range tests {
		got, ok := match(names, tt.arg)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("match(%q) = %q, %v, want %q, %v", tt.arg, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnitPeakGaussian(t *testing.T) {
	s, err := shape.DefaultRegistry().Lookup(shape.Gaussian)
	if err != nil {
		t.Fatal(err)
	}

	p, err := unitPeak(s, options{peaks: 1, width: 2, width2: 0.5, asymmetry: 1})
	if err != nil {
		t.Fatalf("unitPeak() error = %v", err)
	}

	if math.Abs(p.height-1) > 1e-12 {
		t.Fatalf("height = %v, want 1", p.height)
	}

	// Grid step is 0.01 at width 2.
	if math.Abs(p.fwhm-2) > 0.02 {
		t.Fatalf("fwhm = %v, want 2", p.fwhm)
	}

	if want := 2 * math.Sqrt(math.Pi/(4*math.Ln2)); math.Abs(p.area-want) > 1e-6 {
		t.Fatalf("area = %v, want %v", p.area, want)
	}
}

func TestUnitPeakVoigtArea(t *testing.T) {
	s, err := shape.DefaultRegistry().Lookup(shape.VoigtFixedCenter)
	if err != nil {
		t.Fatal(err)
	}

	p, err := unitPeak(s, options{peaks: 1, width: 1, width2: 0.2, asymmetry: 1})
	if err != nil {
		t.Fatalf("unitPeak() error = %v", err)
	}

	if math.Abs(p.area-1) > 1e-2 {
		t.Fatalf("area = %v, want 1", p.area)
	}
}
