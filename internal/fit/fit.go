// Public domain.

// Package fit fits phase curves to magnitude observations.
//
// A Fitter is built from magnitudes and observing geometry, given either
// directly as distances or indirectly as an object identifier and epochs to
// look up in an ephemeris.  Fits minimize the RMS residual between reduced
// magnitudes and a phase curve within bounds on each parameter, and can
// estimate parameter uncertainties by Monte Carlo simulation from supplied
// magnitude errors.
//
// Convergence is reported in the Result, not as an error.
package fit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"

	"github.com/soniakeys/phasecurve/internal/ephem"
	"github.com/soniakeys/phasecurve/internal/photometry"
)

var (
	// ErrConfig reports insufficient, ambiguous, or inconsistent inputs.
	ErrConfig = errors.New("fit: configuration error")

	// ErrNumerical reports an objective that cannot be evaluated, such as
	// for fewer than two observations.
	ErrNumerical = errors.New("fit: numerical error")

	// ErrDomain is photometry.ErrDomain.
	ErrDomain = photometry.ErrDomain
)

// Input to New.
//
// Geometry comes from exactly one of HelioDist with ObsDist, or ObjectID
// with Epochs.  With distances, PhaseAngle may be given; otherwise it is
// computed using SunObsDist, or 1 AU if SunObsDist is nil.
//
// A nil Errors means no errors are known.  This is different from a slice
// of zeros.
type Input struct {
	Mags   []float64
	Errors []float64

	HelioDist  []float64  // AU
	ObsDist    []float64  // AU
	PhaseAngle []unit.Angle
	SunObsDist []float64 // AU

	ObjectID string
	Epochs   []float64 // JD
}

// Fitter holds one object's observations.  Its geometry is fixed when it
// is created.  Fit methods may be called any number of times, from any
// number of goroutines.
type Fitter struct {
	mags, errs []float64
	r, delta   []float64
	alpha      []unit.Angle
	refG       float64
	hasRefG    bool

	redOnce sync.Once
	red     []float64
	redErr  error
}

// New validates in and returns a Fitter.
//
// src is consulted only for ObjectID geometry and may otherwise be nil.
// Its errors are returned wrapped.
func New(ctx context.Context, in Input, src ephem.Source) (*Fitter, error) {
	n := len(in.Mags)
	if in.Errors != nil {
		if len(in.Errors) != n {
			return nil, fmt.Errorf("%w: %d magnitudes, %d errors", ErrConfig, n, len(in.Errors))
		}
		for i, e := range in.Errors {
			if !(e >= 0) || math.IsInf(e, 1) {
				return nil, fmt.Errorf("%w: observation %d: magnitude error %g", ErrConfig, i, e)
			}
		}
	}
	f := &Fitter{mags: slices.Clone(in.Mags), errs: slices.Clone(in.Errors)}

	direct := in.HelioDist != nil || in.ObsDist != nil
	byID := in.ObjectID != "" || in.Epochs != nil
	switch {
	case direct && byID:
		return nil, fmt.Errorf("%w: both distances and object identifier given", ErrConfig)
	case direct:
		if err := f.directGeometry(in); err != nil {
			return nil, err
		}
	case byID:
		if err := f.ephemerisGeometry(ctx, in, src); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: no distances and no object identifier", ErrConfig)
	}
	return f, nil
}

func (f *Fitter) directGeometry(in Input) error {
	n := len(in.Mags)
	switch {
	case in.HelioDist == nil:
		return fmt.Errorf("%w: observer distances without heliocentric distances", ErrConfig)
	case in.ObsDist == nil:
		return fmt.Errorf("%w: heliocentric distances without observer distances", ErrConfig)
	case len(in.HelioDist) != n || len(in.ObsDist) != n:
		return fmt.Errorf("%w: %d magnitudes, %d heliocentric, %d observer distances",
			ErrConfig, n, len(in.HelioDist), len(in.ObsDist))
	case in.PhaseAngle != nil && len(in.PhaseAngle) != n:
		return fmt.Errorf("%w: %d magnitudes, %d phase angles", ErrConfig, n, len(in.PhaseAngle))
	case in.SunObsDist != nil && len(in.SunObsDist) != n:
		return fmt.Errorf("%w: %d magnitudes, %d Sun-observer distances",
			ErrConfig, n, len(in.SunObsDist))
	case in.PhaseAngle != nil && in.SunObsDist != nil:
		return fmt.Errorf("%w: both phase angles and Sun-observer distances given", ErrConfig)
	}
	f.r, f.delta = slices.Clone(in.HelioDist), slices.Clone(in.ObsDist)
	if in.PhaseAngle == nil {
		a, err := photometry.PhaseAngles(f.r, f.delta, in.SunObsDist)
		if err != nil {
			return fmt.Errorf("fit: %w", err)
		}
		f.alpha = a
		return nil
	}
	f.alpha = slices.Clone(in.PhaseAngle)
	return f.checkGeometry()
}

func (f *Fitter) ephemerisGeometry(ctx context.Context, in Input, src ephem.Source) error {
	n := len(in.Mags)
	switch {
	case in.ObjectID == "":
		return fmt.Errorf("%w: epochs without object identifier", ErrConfig)
	case in.Epochs == nil:
		return fmt.Errorf("%w: object %s without epochs", ErrConfig, in.ObjectID)
	case len(in.Epochs) != n:
		return fmt.Errorf("%w: %d magnitudes, %d epochs", ErrConfig, n, len(in.Epochs))
	case in.PhaseAngle != nil || in.SunObsDist != nil:
		return fmt.Errorf("%w: phase angles or Sun-observer distances given with object %s",
			ErrConfig, in.ObjectID)
	case src == nil:
		return fmt.Errorf("%w: no ephemeris source for object %s", ErrConfig, in.ObjectID)
	}
	t, err := ephem.Fetch(ctx, src, in.ObjectID, in.Epochs)
	if err != nil {
		return fmt.Errorf("fit: ephemeris: %w", err)
	}
	f.r, f.delta, f.alpha = t.R, t.Delta, t.Alpha
	f.refG, f.hasRefG = t.RefG, t.HasRefG
	return f.checkGeometry()
}

func (f *Fitter) checkGeometry() error {
	for i := range f.r {
		if _, err := photometry.ReducedMag(0, f.r[i], f.delta[i]); err != nil {
			return fmt.Errorf("fit: observation %d: %w", i, err)
		}
		if err := photometry.CheckPhaseAngle(f.alpha[i]); err != nil {
			return fmt.Errorf("fit: observation %d: %w", i, err)
		}
	}
	return nil
}

// N returns the number of observations.
func (f *Fitter) N() int { return len(f.mags) }

// PhaseAngles returns the phase angle of each observation.
func (f *Fitter) PhaseAngles() []unit.Angle { return f.alpha }

// RefG returns the reference G from the ephemeris, if there was one.
func (f *Fitter) RefG() (float64, bool) { return f.refG, f.hasRefG }

// ReducedMags returns the reduced magnitudes, computing them on first use.
func (f *Fitter) ReducedMags() ([]float64, error) {
	f.redOnce.Do(func() {
		f.red, f.redErr = photometry.ReducedMags(f.mags, f.r, f.delta)
	})
	return f.red, f.redErr
}

// FitHG fits the H-G system.
func (f *Fitter) FitHG(p Params) (Result, error) { return f.Fit(HG, p) }

// FitHG12 fits the H-G12 system.
func (f *Fitter) FitHG12(p Params) (Result, error) { return f.Fit(HG12, p) }

// FitHG1G2 fits the H-G1-G2 system.
func (f *Fitter) FitHG1G2(p Params) (Result, error) { return f.Fit(HG1G2, p) }

// Fit fits phase curve family fam with parameters p.
func (f *Fitter) Fit(fam Family, p Params) (Result, error) {
	if err := p.check(); err != nil {
		return Result{}, err
	}
	n := len(f.mags)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: %d observations, need at least 2", ErrNumerical, n)
	}
	red, err := f.ReducedMags()
	if err != nil {
		return Result{}, fmt.Errorf("fit: %w", err)
	}

	h0 := p.H0
	if math.IsNaN(h0) {
		rad := make([]float64, n)
		for i, a := range f.alpha {
			rad[i] = a.Rad()
		}
		h0 = red[floats.MinIdx(rad)]
	}
	lo := []float64{p.HRange.Lo, p.GRange.Lo, p.GRange.Lo}
	hi := []float64{p.HRange.Hi, p.GRange.Hi, p.GRange.Hi}
	x0 := []float64{h0, p.G0, p.G20}
	dim := 1 + fam.slopes()
	pr := &problem{
		family: fam,
		mode:   p.Mode,
		red:    red,
		alpha:  f.alpha,
		b:      box{lo[:dim], hi[:dim]},
	}
	best, err := pr.minimize(x0[:dim])
	if err != nil {
		return Result{}, err
	}

	res := Result{
		family:  fam,
		mode:    p.Mode,
		h:       best.x[0],
		rms:     best.rms,
		success: best.converged,
		n:       n,
	}
	copy(res.g[:], best.x[1:])
	for _, g := range best.x[1:] {
		if math.Abs(g-p.GRange.Lo) <= EdgeTolerance || math.Abs(g-p.GRange.Hi) <= EdgeTolerance {
			res.atEdge = true
		}
	}
	if f.errs != nil && p.Simulations >= 2 {
		sig, err := pr.simulate(best.x, f.errs, p.Simulations, p.Seed)
		if err != nil {
			return Result{}, err
		}
		res.sigH = sig[0]
		copy(res.sigG[:], sig[1:])
	}
	return res, nil
}
