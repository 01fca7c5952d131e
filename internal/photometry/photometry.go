// Public domain.

// Package photometry evaluates asteroid phase curves.
//
// Three photometric systems are implemented: the Bowell et al. (1989) H-G
// system, in full and simple forms, and the Muinonen et al. (2010) H-G1-G2
// and H-G12 systems.  Each is represented by a type implementing Model,
// with slope parameters bound as struct fields.
//
// Phase angles are unit.Angle values throughout.  Distances are in AU.
package photometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

var (
	// ErrDomain reports inputs outside the physically valid range:
	// phase angles outside [0°, 180°], non-positive distances, or slope
	// parameters giving a non-positive phase function.
	ErrDomain = errors.New("photometry: value outside valid domain")

	// ErrShape reports slices of differing lengths.
	ErrShape = errors.New("photometry: mismatched slice lengths")
)

// Model is a phase curve with slope parameters bound.
type Model interface {
	// Offset returns reduced magnitude minus absolute magnitude at
	// phase angle alpha.  Offset does no validation; it returns +Inf or
	// NaN where the phase function is not positive.
	Offset(alpha unit.Angle) float64
}

// magOffset converts a phase function value to magnitudes.
func magOffset(phi float64) float64 {
	if !(phi > 0) {
		return math.Inf(1)
	}
	return -2.5 * math.Log10(phi)
}

// CheckPhaseAngle returns ErrDomain if alpha is not in [0°, 180°].
func CheckPhaseAngle(alpha unit.Angle) error {
	if a := alpha.Rad(); !(a >= 0 && a <= math.Pi) {
		return fmt.Errorf("%w: phase angle %g°", ErrDomain, alpha.Deg())
	}
	return nil
}

func checkDist(name string, d float64) error {
	if !(d > 0) || math.IsInf(d, 1) {
		return fmt.Errorf("%w: %s distance %g AU", ErrDomain, name, d)
	}
	return nil
}

// ReducedMag normalizes apparent magnitude mag to unit heliocentric
// distance r and observer distance delta.
func ReducedMag(mag, r, delta float64) (float64, error) {
	if err := checkDist("heliocentric", r); err != nil {
		return 0, err
	}
	if err := checkDist("observer", delta); err != nil {
		return 0, err
	}
	return mag - 5*math.Log10(r*delta), nil
}

// ReducedMags is ReducedMag over slices of equal length.
func ReducedMags(mags, r, delta []float64) ([]float64, error) {
	if len(r) != len(mags) || len(delta) != len(mags) {
		return nil, fmt.Errorf("%w: %d magnitudes, %d heliocentric, %d observer",
			ErrShape, len(mags), len(r), len(delta))
	}
	red := make([]float64, len(mags))
	for i, m := range mags {
		var err error
		if red[i], err = ReducedMag(m, r[i], delta[i]); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return red, nil
}

// AbsMag computes absolute magnitude from apparent magnitude mag observed
// at heliocentric distance r, observer distance delta, and phase angle alpha,
// under phase curve m.
func AbsMag(m Model, mag, r, delta float64, alpha unit.Angle) (float64, error) {
	if err := CheckPhaseAngle(alpha); err != nil {
		return 0, err
	}
	red, err := ReducedMag(mag, r, delta)
	if err != nil {
		return 0, err
	}
	off := m.Offset(alpha)
	if math.IsInf(off, 0) || math.IsNaN(off) {
		return 0, fmt.Errorf("%w: %+v has no positive phase function at %g°",
			ErrDomain, m, alpha.Deg())
	}
	return red - off, nil
}

// AbsMags is AbsMag over slices of equal length.
func AbsMags(m Model, mags, r, delta []float64, alpha []unit.Angle) ([]float64, error) {
	if len(r) != len(mags) || len(delta) != len(mags) || len(alpha) != len(mags) {
		return nil, fmt.Errorf("%w: %d magnitudes, %d heliocentric, %d observer, %d phase angles",
			ErrShape, len(mags), len(r), len(delta), len(alpha))
	}
	h := make([]float64, len(mags))
	for i, mag := range mags {
		var err error
		if h[i], err = AbsMag(m, mag, r[i], delta[i], alpha[i]); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return h, nil
}
