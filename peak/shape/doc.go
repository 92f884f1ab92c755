// Package shape is the catalog of peak models used to fit isolated spectral
// windows.
//
// A shape is selected by its display identifier, for example "Gaussian" or
// "Asym. Lorentzian [center fixed]". The identifier also decides the
// parameter layout of every peak, which is captured once in a [Descriptor]:
//
//	Lorentzian                          height, width, center
//	Lorentzian [center fixed]           height, width
//	Asymmetric Lorentzian               height, width, center, asymmetry
//	Asym. Lorentzian [center fixed]     height, width, asymmetry
//	Asym. Lorentzian [center/as. fixed] height, width
//	Gaussian                            height, width, center
//	Gaussian [center fixed]             height, width
//	Voigt Profile                       area, gaussian width, lorentzian width, center
//	Voigt Profile [center fixed]        area, gaussian width, lorentzian width
//	Trapezoidal rule                    (non-parametric)
//
// Parameters that are not fitted (fixed centers, fixed asymmetry) travel in a
// [Context] passed next to the parameter vector. The number of peaks is the
// number of centers in the context.
//
// Widths are full widths at half maximum. The Voigt profile is the
// Thompson-Cox-Hastings pseudo-Voigt approximation, normalized to unit area
// and scaled by the area parameter.
//
// Building with -tags fastmath evaluates exponentials with algo-approx.
package shape
