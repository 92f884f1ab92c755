package shape

import "strings"

// Shape identifiers understood by [DefaultRegistry].
const (
	Lorentzian                         = "Lorentzian"
	LorentzianFixedCenter              = "Lorentzian [center fixed]"
	AsymmetricLorentzian               = "Asymmetric Lorentzian"
	AsymLorentzianFixedCenter          = "Asym. Lorentzian [center fixed]"
	AsymLorentzianFixedCenterAsymmetry = "Asym. Lorentzian [center/as. fixed]"
	Gaussian                           = "Gaussian"
	GaussianFixedCenter                = "Gaussian [center fixed]"
	Voigt                              = "Voigt Profile"
	VoigtFixedCenter                   = "Voigt Profile [center fixed]"
	Trapezoidal                        = "Trapezoidal rule"
)

// Kind identifies the peak model family behind a shape.
type Kind int

const (
	KindLorentzian Kind = iota
	KindAsymmetricLorentzian
	KindGaussian
	KindVoigt
	KindTrapezoidal
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindLorentzian:
		return "lorentzian"
	case KindAsymmetricLorentzian:
		return "asymmetric-lorentzian"
	case KindGaussian:
		return "gaussian"
	case KindVoigt:
		return "voigt"
	case KindTrapezoidal:
		return "trapezoidal"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Descriptor is the per-peak parameter layout of a shape.
//
// Every peak block starts with a scale term (height, or area when AreaScaled)
// followed by a width. DoubleWidth adds a second width, CenterParam adds the
// center and AsymmetryParam adds the asymmetry factor, in that order.
type Descriptor struct {
	AreaScaled     bool
	DoubleWidth    bool
	CenterParam    bool
	AsymmetryParam bool
	// FixedAsymmetry reports that the asymmetry factor is read from the
	// Context instead of the parameter vector.
	FixedAsymmetry bool
	Parametric     bool
}

// Describe derives the parameter layout from a shape identifier. Matching is
// case-insensitive and substring based:
//
//   - "voigt" selects an area scale term and a second width,
//   - "fixed" removes the center parameter,
//   - "asymmetric", or "asym" together with "center fixed", adds an
//     asymmetry parameter,
//   - "trapezoidal" marks the shape as non-parametric.
func Describe(identifier string) Descriptor {
	id := strings.ToLower(identifier)

	voigt := strings.Contains(id, "voigt")
	fixed := strings.Contains(id, "fixed")
	asym := strings.Contains(id, "asym")
	asymParam := strings.Contains(id, "asymmetric") || (asym && strings.Contains(id, "center fixed"))

	return Descriptor{
		AreaScaled:     voigt,
		DoubleWidth:    voigt,
		CenterParam:    !fixed,
		AsymmetryParam: asymParam,
		FixedAsymmetry: asym && fixed && !asymParam,
		Parametric:     !strings.Contains(id, "trapezoidal"),
	}
}

// ParamsPerPeak returns the length of one peak block.
func (d Descriptor) ParamsPerPeak() int {
	n := 2
	if d.DoubleWidth {
		n++
	}
	if d.CenterParam {
		n++
	}
	if d.AsymmetryParam {
		n++
	}
	return n
}

// Layout returns the names of the parameters of one peak block, in order.
func (d Descriptor) Layout() []string {
	names := make([]string, 0, d.ParamsPerPeak())
	if d.AreaScaled {
		names = append(names, "area")
	} else {
		names = append(names, "height")
	}
	names = append(names, "width")
	if d.DoubleWidth {
		names = append(names, "width2")
	}
	if d.CenterParam {
		names = append(names, "center")
	}
	if d.AsymmetryParam {
		names = append(names, "asymmetry")
	}
	return names
}
