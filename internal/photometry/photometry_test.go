// Public domain.

package photometry_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/astro"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

// a single observation with known geometry
const (
	refMag   = 18.168
	refR     = 1.997
	refDelta = 1.187
	refAlpha = 22.9769 // degrees
)

func ExampleAbsMag() {
	alpha := unit.AngleFromDeg(refAlpha)
	for _, m := range []photometry.Model{
		photometry.HG{G: .15, Mode: photometry.Simple},
		photometry.HG{G: .15},
		photometry.HG1G2{G1: .1, G2: .2},
		photometry.HG12{G12: .15},
	} {
		h, err := photometry.AbsMag(m, refMag, refR, refDelta, alpha)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%+v  H = %.3f\n", m, h)
	}
	// Output:
	// {G:0.15 Mode:simple}  H = 15.201
	// {G:0.15 Mode:full}  H = 15.202
	// {G1:0.1 G2:0.2}  H = 14.505
	// {G12:0.15}  H = 15.367
}

// The known regression value is 15.201 with a relative tolerance of .05.
func TestAbsMagRegression(t *testing.T) {
	alpha := unit.AngleFromDeg(refAlpha)
	for _, tc := range []struct {
		m    photometry.Model
		want float64 // tight value for this implementation
	}{
		{photometry.HG{G: .15, Mode: photometry.Simple}, 15.201443654808685},
		{photometry.HG{G: .15, Mode: photometry.Full}, 15.20156604727525},
		{photometry.HG1G2{G1: .1, G2: .2}, 14.505371747760428},
		{photometry.HG12{G12: .15}, 15.367072377321676},
	} {
		h, err := photometry.AbsMag(tc.m, refMag, refR, refDelta, alpha)
		if err != nil {
			t.Fatalf("%+v: %v", tc.m, err)
		}
		if math.Abs(h-15.201) > .05*15.201 {
			t.Errorf("%+v: H = %g, not within 5%% of 15.201", tc.m, h)
		}
		if math.Abs(h-tc.want) > 1e-6 {
			t.Errorf("%+v: H = %.9f, want %.9f", tc.m, h, tc.want)
		}
	}
}

func TestHGModesDiffer(t *testing.T) {
	alpha := unit.AngleFromDeg(refAlpha)
	s, _ := photometry.AbsMag(photometry.HG{G: .15, Mode: photometry.Simple},
		refMag, refR, refDelta, alpha)
	f, _ := photometry.AbsMag(photometry.HG{G: .15, Mode: photometry.Full},
		refMag, refR, refDelta, alpha)
	if s == f {
		t.Fatal("simple and full modes gave identical H")
	}
	if math.Abs(s-f) > .05 {
		t.Fatalf("simple %g and full %g differ by more than .05", s, f)
	}
}

// HMag from the astro package uses the simple form with G = .15 and takes
// vectors rather than a phase angle.
func TestHGSimpleMatchesAstroHMag(t *testing.T) {
	for _, deg := range []float64{1, 10, refAlpha, 45, 90} {
		a := unit.AngleFromDeg(deg)
		sov := coord.Cart{X: refR}
		oov := coord.Cart{X: refDelta * a.Cos(), Y: refDelta * a.Sin()}
		want := astro.HMag(&oov, &sov, refMag, refDelta, refR)
		got, err := photometry.AbsMag(photometry.HG{G: .15, Mode: photometry.Simple},
			refMag, refR, refDelta, a)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("alpha %g: H = %.12f, astro.HMag %.12f", deg, got, want)
		}
	}
}

func TestOffsetZeroAtOpposition(t *testing.T) {
	var models []photometry.Model
	for _, g := range []float64{-.3017, 0, .15, .37, .9074} {
		models = append(models,
			photometry.HG{G: g, Mode: photometry.Full},
			photometry.HG{G: g, Mode: photometry.Simple})
	}
	for _, g12 := range []float64{0, .15, .2, .8, 1} {
		models = append(models, photometry.HG12{G12: g12})
	}
	models = append(models, photometry.HG1G2{G1: .1, G2: .2},
		photometry.HG1G2{G1: .7, G2: .05})
	for _, m := range models {
		if off := m.Offset(0); off != 0 {
			t.Errorf("%+v: offset at zero phase = %g", m, off)
		}
	}
	p1, p2 := photometry.HGBasis(0, photometry.Full)
	if p1 != 1 || p2 != 1 {
		t.Errorf("HG basis at zero: %g %g", p1, p2)
	}
	q1, q2, q3 := photometry.HG1G2Basis(0)
	if q1 != 1 || q2 != 1 || q3 != 1 {
		t.Errorf("HG1G2 basis at zero: %g %g %g", q1, q2, q3)
	}
}

func TestOffsetMonotonic(t *testing.T) {
	var models []photometry.Model
	for _, g := range []float64{0, .15, .5, .9} {
		models = append(models,
			photometry.HG{G: g, Mode: photometry.Full},
			photometry.HG{G: g, Mode: photometry.Simple})
	}
	models = append(models,
		photometry.HG1G2{G1: .1, G2: .2},
		photometry.HG1G2{G1: .5, G2: .3},
		photometry.HG12{G12: .15},
		photometry.HG12{G12: .6})
	for _, m := range models {
		prev := m.Offset(0)
		for d := .25; d < 180; d += .25 {
			off := m.Offset(unit.AngleFromDeg(d))
			if off < prev {
				t.Errorf("%+v: offset decreases at %g° (%g < %g)", m, d, off, prev)
				break
			}
			prev = off
		}
	}
}

func TestG12ToG1G2(t *testing.T) {
	for _, tc := range []struct{ g12, g1, g2 float64 }{
		{0, .06164, .627},
		{.15, .174545, .48282},
		{.2, .21220, .43470},
		{1, .97452, -.0553},
	} {
		g1, g2 := photometry.G12ToG1G2(tc.g12)
		if math.Abs(g1-tc.g1) > 1e-12 || math.Abs(g2-tc.g2) > 1e-12 {
			t.Errorf("G12 %g: got %g %g, want %g %g", tc.g12, g1, g2, tc.g1, tc.g2)
		}
	}
	// the two segments nearly meet at .2
	lo1, lo2 := photometry.G12ToG1G2(.2 - 1e-12)
	hi1, hi2 := photometry.G12ToG1G2(.2)
	if math.Abs(lo1-hi1) > 1e-4 || math.Abs(lo2-hi2) > 1e-4 {
		t.Errorf("discontinuity at .2: %g,%g vs %g,%g", lo1, lo2, hi1, hi2)
	}
}

func TestAbsMagDomain(t *testing.T) {
	hg := photometry.HG{G: .15}
	for _, tc := range []struct {
		name         string
		m            photometry.Model
		r, delta, ad float64
	}{
		{"negative phase", hg, refR, refDelta, -1},
		{"phase over 180", hg, refR, refDelta, 180.5},
		{"NaN phase", hg, refR, refDelta, math.NaN()},
		{"zero r", hg, 0, refDelta, 10},
		{"negative delta", hg, refR, -1, 10},
		{"infinite r", hg, math.Inf(1), refDelta, 10},
		{"non-positive phase function", photometry.HG{G: -.3}, refR, refDelta, 80},
	} {
		_, err := photometry.AbsMag(tc.m, refMag, tc.r, tc.delta, unit.AngleFromDeg(tc.ad))
		if !errors.Is(err, photometry.ErrDomain) {
			t.Errorf("%s: err = %v, want ErrDomain", tc.name, err)
		}
	}
}

func TestVectorized(t *testing.T) {
	mags := []float64{refMag, refMag + 1}
	r := []float64{refR, refR}
	delta := []float64{refDelta, refDelta}
	alpha := []unit.Angle{unit.AngleFromDeg(refAlpha), unit.AngleFromDeg(refAlpha)}

	h, err := photometry.AbsMags(photometry.HG{G: .15}, mags, r, delta, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(h[1]-h[0]-1) > 1e-12 {
		t.Errorf("H = %v, want values one magnitude apart", h)
	}
	if _, err := photometry.AbsMags(photometry.HG{G: .15}, mags, r[:1], delta, alpha); !errors.Is(err, photometry.ErrShape) {
		t.Errorf("short r: err = %v, want ErrShape", err)
	}
	if _, err := photometry.ReducedMags(mags, r, delta[:1]); !errors.Is(err, photometry.ErrShape) {
		t.Errorf("short delta: err = %v, want ErrShape", err)
	}
	red, err := photometry.ReducedMags(mags, r, delta)
	if err != nil {
		t.Fatal(err)
	}
	if want := 16.29385608087353; math.Abs(red[0]-want) > 1e-12 {
		t.Errorf("reduced = %.15g, want %.15g", red[0], want)
	}
}
