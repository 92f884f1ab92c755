package fit

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-peakfit/peak/shape"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const (
	// exactTol is the residual norm, relative to the data norm, below which
	// a fit is exact and skips the descent test.
	exactTol = 1e-6
	// descentStep is the probe length along the steepest-descent direction
	// as a fraction of the residual norm.
	descentStep = 1e-2
	// descentTol is the largest relative cost decrease a converged fit may
	// still allow along that direction.
	descentTol = 1e-3
)

var errSolverPanic = errors.New("fit: solver aborted")

// problem is the least-squares problem of one averaged spectrum.
type problem struct {
	shape shape.Shape
	ctx   shape.Context
	x     []float64
	y     []float64
}

type solution struct {
	params      []float64
	status      optimize.Status
	evaluations int
	// cost and guessCost are residual sums of squares.
	cost      float64
	guessCost float64
	// exact is set when the residual norm at params is negligible relative
	// to the data norm.
	exact bool
	// stalled is set when the cost still drops along the steepest-descent
	// direction at params.
	stalled bool
}

// residual writes y - model(x, params) into dst. It is called concurrently
// by the finite-difference Jacobian and must not panic.
func (p problem) residual(dst, params []float64) {
	if err := p.shape.Eval(dst, p.x, params, p.ctx); err != nil {
		for i := range dst {
			dst[i] = math.NaN()
		}

		return
	}

	vecmath.ScaleBlockInPlace(dst, -1)
	vecmath.AddBlockInPlace(dst, p.y)
}

// space maps solver coordinates z to parameters origin + scale*z.
type space struct {
	origin []float64
	scale  []float64
}

// newSpace centers the coordinates on origin and scales every parameter by
// the inverse norm of its Jacobian column there. Parameters without a
// finite, non-zero column keep a scale of 1.
func newSpace(f func(dst, params []float64), origin []float64, size int) space {
	jac := jacobian(f, origin, size)
	scale := make([]float64, len(origin))

	for j := range scale {
		scale[j] = 1

		if inv := 1 / floats.Norm(mat.Col(nil, j, jac), 2); inv > 0 && !math.IsInf(inv, 0) {
			scale[j] = inv
		}
	}

	return space{origin: origin, scale: scale}
}

func (s space) params(z []float64) []float64 {
	dst := make([]float64, len(z))
	floats.MulTo(dst, s.scale, z)
	floats.Add(dst, s.origin)

	return dst
}

func (s space) coords(params []float64) []float64 {
	dst := make([]float64, len(params))
	floats.SubTo(dst, params, s.origin)
	floats.Div(dst, s.scale)

	return dst
}

// wrap returns f expressed in solver coordinates. It allocates per call
// and is safe for concurrent use when f is.
func (s space) wrap(f func(dst, params []float64)) func(dst, z []float64) {
	return func(dst, z []float64) {
		f(dst, s.params(z))
	}
}

func jacobian(f func(dst, x []float64), x []float64, size int) *mat.Dense {
	jac := mat.NewDense(size, len(x), nil)
	fd.Jacobian(jac, f, x, &fd.JacobianSettings{Formula: fd.Central, Concurrent: true})

	return jac
}

// stalled reports whether a short step along the steepest descent of the
// scaled cost at params lowers the cost by more than descentTol. Exact fits
// never stall.
func (p problem) stalled(s space, params []float64) bool {
	g := s.wrap(p.residual)
	z := s.coords(params)

	r := make([]float64, len(p.x))
	g(r, z)

	rn := floats.Norm(r, 2)
	if p.exact(rn * rn) {
		return false
	}

	grad := make([]float64, len(z))
	mat.NewVecDense(len(z), grad).MulVec(jacobian(g, z, len(p.x)).T(), mat.NewVecDense(len(r), r))

	gn := floats.Norm(grad, 2)
	if !(gn > 0) || math.IsInf(gn, 0) {
		return false
	}

	probe := floats.AddScaledTo(make([]float64, len(z)), z, -descentStep*rn/gn, grad)
	g(r, probe)

	return rn*rn-floats.Dot(r, r) > descentTol*rn*rn
}

// verdict rejects a step-converged solution that did not improve on the
// guess or that stopped away from a minimum. Exact fits always pass.
func (s solution) verdict() error {
	switch {
	case s.exact:
		return nil
	case !(s.cost < s.guessCost):
		return fmt.Errorf("%w: %g at the guess, %g after", ErrNoImprovement, s.guessCost, s.cost)
	case s.stalled:
		return ErrStalled
	}

	return nil
}

// solve minimizes the residual starting from guess. The solver works in
// coordinates relative to the guess with every Jacobian column at the guess
// scaled to unit norm, so the damping treats heights, areas, widths and
// centers alike. Solver panics, such as a singular damped normal matrix,
// are returned as errors.
func solve(p problem, guess []float64, cfg Config) (sol solution, err error) {
	var evals atomic.Int64

	defer func() {
		if r := recover(); r != nil {
			sol = solution{evaluations: int(evals.Load())}
			err = fmt.Errorf("%w: %v", errSolverPanic, r)
		}
	}()

	f := func(dst, params []float64) {
		evals.Add(1)
		p.residual(dst, params)
	}

	s := newSpace(f, guess, len(p.x))
	g := s.wrap(f)
	jac := lm.NumJac{Func: g}

	res, err := lm.LM(lm.LMProblem{
		Dim:        len(guess),
		Size:       len(p.x),
		Func:       g,
		Jac:        jac.Jac,
		InitParams: make([]float64, len(guess)),
		Tau:        cfg.Tau,
		Eps1:       cfg.GradTol,
		Eps2:       cfg.StepTol,
	}, &lm.Settings{
		Iterations:   cfg.MaxIterations,
		ObjectiveTol: cfg.ObjectiveTol,
	})
	if err != nil {
		return solution{evaluations: int(evals.Load())}, err
	}

	sol = solution{
		params:    s.params(res.X),
		status:    res.Status,
		cost:      p.cost(s.params(res.X)),
		guessCost: p.cost(guess),
	}
	sol.exact = p.exact(sol.cost)
	sol.stalled = res.Status == optimize.StepConvergence && p.stalled(s, sol.params)
	sol.evaluations = int(evals.Load())

	return sol, nil
}

// cost returns the residual sum of squares at params.
func (p problem) cost(params []float64) float64 {
	r := make([]float64, len(p.x))
	p.residual(r, params)

	return floats.Dot(r, r)
}

// exact reports whether a residual sum of squares is negligible against the
// data.
func (p problem) exact(cost float64) bool {
	return !(cost > exactTol*exactTol*floats.Dot(p.y, p.y))
}
