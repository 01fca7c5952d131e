// Public domain.

package fit

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/optimize"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

// Nelder-Mead stopping criteria
const (
	fTol          = 1e-10
	fTolIter      = 100
	maxIterations = 5000
)

// box is a closed box in parameter space.
type box struct {
	lo, hi []float64
}

// project writes the point of b nearest x to dst and returns the L1
// distance moved.
func (b box) project(x, dst []float64) (dist float64) {
	for i, v := range x {
		c := math.Max(b.lo[i], math.Min(b.hi[i], v))
		dist += math.Abs(v - c)
		dst[i] = c
	}
	return
}

// problem is a bounded least squares fit of one family to reduced
// magnitudes.  x is H followed by the slope parameters.
type problem struct {
	family Family
	mode   photometry.Mode
	red    []float64
	alpha  []unit.Angle
	b      box
}

// rms is the RMS residual at x with N-1 degrees of freedom.
func (p *problem) rms(red, x []float64) float64 {
	m := p.family.Model(x[1:], p.mode)
	var ss float64
	for i, a := range p.alpha {
		d := red[i] - x[0] - m.Offset(a)
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(red)-1))
}

// objective returns the function minimized for reduced magnitudes red.
// Outside the box it is the residual at the projected point plus the
// distance to the box, so the minimum is always inside.
func (p *problem) objective(red []float64) func([]float64) float64 {
	return func(x []float64) float64 {
		xc := make([]float64, len(x))
		d := p.b.project(x, xc)
		return p.rms(red, xc) + d
	}
}

type solution struct {
	x         []float64
	rms       float64
	converged bool
}

func (p *problem) minimize(x0 []float64) (solution, error) {
	return p.minimizeRed(p.red, x0)
}

func (p *problem) minimizeRed(red, x0 []float64) (solution, error) {
	x := make([]float64, len(x0))
	p.b.project(x0, x)
	if f := p.rms(red, x); math.IsNaN(f) || math.IsInf(f, 0) {
		return solution{}, fmt.Errorf("%w: %s residual not finite at start %v",
			ErrNumerical, p.family, x)
	}
	prob := optimize.Problem{Func: p.objective(red)}
	var converged bool
	// a second pass from the first result restarts a collapsed simplex
	for pass := 0; pass < 2; pass++ {
		res, err := optimize.Minimize(prob, x, &optimize.Settings{
			Converger: &optimize.FunctionConverge{
				Absolute:   fTol,
				Iterations: fTolIter,
			},
			MajorIterations: maxIterations,
		}, &optimize.NelderMead{})
		if res == nil || len(res.X) != len(x) {
			return solution{}, fmt.Errorf("%w: %s: %v", ErrNumerical, p.family, err)
		}
		p.b.project(res.X, x)
		converged = err == nil && !res.Status.Early()
	}
	return solution{x: x, rms: p.rms(red, x), converged: converged}, nil
}
