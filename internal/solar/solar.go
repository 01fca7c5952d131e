// Public domain.

// Package solar gives the distance from the Sun to a geocentric observer.
//
// Phase angles computed from distances alone need this distance.  It is
// about 1 AU, varying by a few percent over the year.
package solar

import (
	"fmt"
	"math"
	"sync"

	"github.com/mshafiee/jpleph"
	"github.com/soniakeys/astro"
)

// Distancer gives the Sun-observer distance in AU at Julian date jd.
type Distancer interface {
	SunObserver(jd float64) (float64, error)
}

// Approx is the low precision USNO solar position.  It is good to about
// 1e-4 AU over several centuries around J2000.
type Approx struct{}

// SunObserver implements Distancer.
func (Approx) SunObserver(jd float64) (float64, error) {
	se, _, _ := astro.Se2000(jd - 2400000.5)
	return math.Sqrt(se.Square()), nil
}

// DE reads a JPL DE binary ephemeris.  It is safe for concurrent use.
type DE struct {
	mu  sync.Mutex
	eph *jpleph.Ephemeris
}

// OpenDE opens a JPL DE binary ephemeris file such as de440.bin.
func OpenDE(path string) (*DE, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("solar: %s: %w", path, err)
	}
	return &DE{eph: eph}, nil
}

// Close closes the ephemeris file.
func (d *DE) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eph.Close()
}

// SunObserver implements Distancer.  jd is taken as TDB; the difference
// from UT is far below the precision that matters here.
func (d *DE) SunObserver(jd float64) (float64, error) {
	d.mu.Lock()
	p, _, err := d.eph.CalculatePV(jd, jpleph.Earth, jpleph.CenterSun, false)
	d.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("solar: JD %.5f: %w", jd, err)
	}
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z), nil
}

// Distances calls d for each epoch.
func Distances(d Distancer, jd []float64) ([]float64, error) {
	so := make([]float64, len(jd))
	for i, j := range jd {
		var err error
		if so[i], err = d.SunObserver(j); err != nil {
			return nil, err
		}
	}
	return so, nil
}
