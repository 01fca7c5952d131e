// Public domain.

package photometry_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

func TestPhaseAngle(t *testing.T) {
	// Sun-observer distance consistent with refAlpha under the minus sign
	// form of the law of cosines.
	const d = 1.015987356483188
	a, err := photometry.PhaseAngle(refR, refDelta, d)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a.Deg()-refAlpha) > 1e-9 {
		t.Fatalf("phase angle %.12f°, want %g°", a.Deg(), refAlpha)
	}
	// the plus sign form cannot describe the same geometry
	c := (refR*refR + refDelta*refDelta + d*d) / (2 * refR * refDelta)
	if c <= 1 {
		t.Fatalf("plus sign form gives cos %g, expected > 1", c)
	}
}

func TestPhaseAngleLimits(t *testing.T) {
	// collinear, observer between Sun and object
	a, err := photometry.PhaseAngle(2, 1, 1)
	if err != nil || a != 0 {
		t.Errorf("opposition: %v, %v", a.Deg(), err)
	}
	// collinear, object between Sun and observer
	a, err = photometry.PhaseAngle(.5, .5, 1)
	if err != nil || a != unit.Angle(math.Pi) {
		t.Errorf("conjunction: %v, %v", a.Deg(), err)
	}
	for _, tc := range [][3]float64{
		{1, 1, 3},  // no triangle
		{0, 1, 1},  // zero r
		{1, -1, 1}, // negative delta
		{1, 1, math.NaN()},
	} {
		if _, err := photometry.PhaseAngle(tc[0], tc[1], tc[2]); !errors.Is(err, photometry.ErrDomain) {
			t.Errorf("%v: err = %v, want ErrDomain", tc, err)
		}
	}
}

func TestPhaseAngles(t *testing.T) {
	r := []float64{refR, 2}
	delta := []float64{refDelta, 1}
	a, err := photometry.PhaseAngles(r, delta, nil)
	if err != nil {
		t.Fatal(err)
	}
	// second observation is at opposition with a 1 AU Sun-observer distance
	if a[1] != 0 {
		t.Errorf("default Sun-observer: %g°", a[1].Deg())
	}
	if _, err := photometry.PhaseAngles(r, delta, []float64{1}); !errors.Is(err, photometry.ErrShape) {
		t.Errorf("short d: err = %v, want ErrShape", err)
	}
}
