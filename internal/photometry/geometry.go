// Public domain.

package photometry

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/illum"
	"github.com/soniakeys/unit"
)

// DefaultSunObserver is the Sun-observer distance assumed when nothing
// better is known.
const DefaultSunObserver = 1.

// rounding slack allowed on the cosine of a nearly degenerate triangle
const cosSlack = 1e-9

// PhaseAngle computes the Sun-object-observer angle from heliocentric
// distance r, observer distance delta, and Sun-observer distance d, all in AU,
// by the law of cosines:
//
//	cos α = (r² + Δ² - d²) / (2rΔ)
//
// Distances that cannot form a triangle give ErrDomain.
func PhaseAngle(r, delta, d float64) (unit.Angle, error) {
	if err := checkDist("heliocentric", r); err != nil {
		return 0, err
	}
	if err := checkDist("observer", delta); err != nil {
		return 0, err
	}
	if err := checkDist("Sun-observer", d); err != nil {
		return 0, err
	}
	switch c := (r*r + delta*delta - d*d) / (2 * r * delta); {
	case c > 1+cosSlack || c < -1-cosSlack:
		return 0, fmt.Errorf("%w: distances r=%g Δ=%g d=%g do not form a triangle",
			ErrDomain, r, delta, d)
	case c >= 1:
		return 0, nil
	case c <= -1:
		return unit.Angle(math.Pi), nil
	}
	return illum.PhaseAngle(r, delta, d), nil
}

// PhaseAngles is PhaseAngle over slices.  d may be nil, in which case
// DefaultSunObserver is used for every observation.
func PhaseAngles(r, delta, d []float64) ([]unit.Angle, error) {
	if len(delta) != len(r) || d != nil && len(d) != len(r) {
		return nil, fmt.Errorf("%w: %d heliocentric, %d observer, %d Sun-observer",
			ErrShape, len(r), len(delta), len(d))
	}
	alpha := make([]unit.Angle, len(r))
	for i := range r {
		so := DefaultSunObserver
		if d != nil {
			so = d[i]
		}
		var err error
		if alpha[i], err = PhaseAngle(r[i], delta[i], so); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return alpha, nil
}
