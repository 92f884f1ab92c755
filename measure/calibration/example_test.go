package calibration_test

import (
	"fmt"

	"github.com/cwbudde/algo-peakfit/measure/calibration"
)

func ExampleFitLinear() {
	concentration := []float64{0, 10, 20, 40}
	area := []float64{1, 21, 41, 81}

	c, err := calibration.FitLinear(concentration, area)
	if err != nil {
		panic(err)
	}

	fmt.Printf("slope=%.2f intercept=%.2f r2=%.3f\n", c.Slope, c.Intercept, c.R2)
	fmt.Printf("predict(61)=%.1f\n", c.Predict(61))
	// Output:
	// slope=2.00 intercept=1.00 r2=1.000
	// predict(61)=30.0
}
