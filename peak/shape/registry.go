package shape

import (
	"errors"
	"fmt"
	"slices"
)

var errDuplicateShape = errors.New("shape: duplicate shape")

// Registry maps shape identifiers to peak models.
type Registry struct {
	shapes map[string]Shape
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{shapes: make(map[string]Shape)}
}

// DefaultRegistry returns a new registry holding the built-in catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Lorentzian, KindLorentzian, lorentzian)
	r.MustRegister(LorentzianFixedCenter, KindLorentzian, lorentzian)
	r.MustRegister(AsymmetricLorentzian, KindAsymmetricLorentzian, asymmetricLorentzian)
	r.MustRegister(AsymLorentzianFixedCenter, KindAsymmetricLorentzian, asymmetricLorentzian)
	r.MustRegister(AsymLorentzianFixedCenterAsymmetry, KindAsymmetricLorentzian, asymmetricLorentzian)
	r.MustRegister(Gaussian, KindGaussian, gaussian)
	r.MustRegister(GaussianFixedCenter, KindGaussian, gaussian)
	r.MustRegister(Voigt, KindVoigt, pseudoVoigt)
	r.MustRegister(VoigtFixedCenter, KindVoigt, pseudoVoigt)
	r.MustRegister(Trapezoidal, KindTrapezoidal, nil)

	return r
}

// Register adds a shape under the given identifier. The parameter layout is
// derived from the identifier with [Describe]. Only non-parametric
// identifiers may be registered without a profile.
func (r *Registry) Register(name string, kind Kind, profile Profile) error {
	if name == "" {
		return errors.New("shape: empty shape name")
	}

	desc := Describe(name)
	if profile == nil && desc.Parametric {
		return fmt.Errorf("shape: nil profile for %q", name)
	}

	if _, exists := r.shapes[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateShape, name)
	}

	r.shapes[name] = Shape{
		Name:       name,
		Kind:       kind,
		Descriptor: desc,
		profile:    profile,
	}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, kind Kind, profile Profile) {
	err := r.Register(name, kind, profile)
	if err != nil {
		panic("shape registry: " + err.Error())
	}
}

// Lookup returns the shape registered under name.
func (r *Registry) Lookup(name string) (Shape, error) {
	s, ok := r.shapes[name]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}

	return s, nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
