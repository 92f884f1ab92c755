//go:build fastmath

package shape

import approx "github.com/meko-christian/algo-approx"

func exp(x float64) float64 { return approx.FastExp(x) }
