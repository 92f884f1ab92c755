package fit

import "github.com/cwbudde/algo-peakfit/peak/shape"

const (
	defaultPlotPoints    = 1000
	defaultMaxIterations = 1000
	defaultTau           = 1e-6
	defaultGradTol       = 1e-8
	defaultStepTol       = 1e-8
	defaultObjectiveTol  = 1e-16

	// DefaultAsymmetry is used for asymmetric shapes when a descriptor
	// leaves the asymmetry at zero.
	DefaultAsymmetry = 1.0
)

// Mode selects how acquisitions are combined before fitting.
type Mode int

const (
	// ModeMeanFirst averages all acquisitions of a sample and fits the
	// mean spectrum.
	ModeMeanFirst Mode = iota
	// ModeAreaFirst fits every acquisition and averages the results. It is
	// not implemented.
	ModeAreaFirst
)

func (m Mode) String() string {
	switch m {
	case ModeMeanFirst:
		return "mean-first"
	case ModeAreaFirst:
		return "area-first"
	default:
		return "unknown"
	}
}

// Descriptor selects the peak model of one element.
type Descriptor struct {
	Shape string
	// Asymmetry is the initial (or fixed) asymmetry factor of asymmetric
	// shapes. Zero means DefaultAsymmetry.
	Asymmetry float64
}

func (d Descriptor) asymmetry() float64 {
	if d.Asymmetry == 0 {
		return DefaultAsymmetry
	}

	return d.Asymmetry
}

// Config holds the solver settings. Zero fields take their defaults.
type Config struct {
	Mode Mode
	// PlotPoints is the size of the dense evaluation grid.
	PlotPoints    int
	MaxIterations int
	// Tau scales the initial damping factor.
	Tau float64
	// GradTol stops the solver once the gradient max-norm falls below it.
	GradTol float64
	// StepTol stops the solver once the relative step falls below it.
	StepTol float64
	// ObjectiveTol stops the solver once half the squared residual norm
	// falls below it.
	ObjectiveTol float64
	// Registry resolves shape identifiers. Nil selects
	// shape.DefaultRegistry.
	Registry *shape.Registry
}

// DefaultConfig returns the defaults used for zero Config fields.
func DefaultConfig() Config {
	return normalizeConfig(Config{})
}

func normalizeConfig(cfg Config) Config {
	if cfg.PlotPoints < 2 {
		cfg.PlotPoints = defaultPlotPoints
	}

	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}

	if cfg.Tau <= 0 {
		cfg.Tau = defaultTau
	}

	if cfg.GradTol <= 0 {
		cfg.GradTol = defaultGradTol
	}

	if cfg.StepTol <= 0 {
		cfg.StepTol = defaultStepTol
	}

	if cfg.ObjectiveTol <= 0 {
		cfg.ObjectiveTol = defaultObjectiveTol
	}

	if cfg.Registry == nil {
		cfg.Registry = shape.DefaultRegistry()
	}

	return cfg
}
