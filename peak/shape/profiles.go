package shape

import "math"

const (
	fourLn2 = 4 * math.Ln2
	// sqrt(4 ln2 / pi), the unit-area Gaussian prefactor for a FWHM of 1.
	gaussNorm = 0.9394372786996513
	// voigtFloor keeps the Voigt widths smooth and positive at zero.
	voigtFloor = 1e-9
)

func lorentzian(x float64, p PeakParams) float64 {
	u := (x - p.Center) / (0.5 * p.Width)
	return math.Abs(p.Scale) / (1 + u*u)
}

// asymmetricLorentzian is a split Lorentzian: the right half width is the
// left half width times the asymmetry factor. Scaling both half widths by
// the factor would only rescale a symmetric Lorentzian, so results differ
// from models that do so.
func asymmetricLorentzian(x float64, p PeakParams) float64 {
	half := 0.5 * p.Width
	if x > p.Center {
		half *= p.Asymmetry
	}

	u := (x - p.Center) / half
	return math.Abs(p.Scale) / (1 + u*u)
}

func gaussian(x float64, p PeakParams) float64 {
	u := (x - p.Center) / p.Width
	return math.Abs(p.Scale) * exp(-fourLn2*u*u)
}

// pseudoVoigt is the Thompson-Cox-Hastings approximation with Width as the
// Gaussian and Width2 as the Lorentzian full width.
func pseudoVoigt(x float64, p PeakParams) float64 {
	f, eta := voigtMix(voigtWidths(p))

	u := (x - p.Center) / f
	g := gaussNorm / f * exp(-fourLn2*u*u)
	l := 2 / (math.Pi * f) / (1 + 4*u*u)

	return math.Abs(p.Scale) * (eta*l + (1-eta)*g)
}

// voigtWidths returns the Gaussian and Lorentzian widths of p as
// sqrt(w^2 + voigtFloor^2). Unlike |w| this is differentiable at zero, so
// finite-difference Jacobians stay consistent when a component vanishes.
func voigtWidths(p PeakParams) (float64, float64) {
	return math.Hypot(p.Width, voigtFloor), math.Hypot(p.Width2, voigtFloor)
}

// voigtMix returns the total width and the Lorentzian fraction of the
// pseudo-Voigt profile.
func voigtMix(fg, fl float64) (float64, float64) {
	fg2 := fg * fg
	fl2 := fl * fl
	sum := fg2*fg2*fg +
		2.69269*fg2*fg2*fl +
		2.42843*fg2*fg*fl2 +
		4.47163*fg2*fl2*fl +
		0.07842*fg*fl2*fl2 +
		fl2*fl2*fl

	f := math.Pow(sum, 0.2)
	if f == 0 {
		return 0, 0
	}

	r := fl / f
	eta := 1.36603*r - 0.47719*r*r + 0.11116*r*r*r

	return f, eta
}
