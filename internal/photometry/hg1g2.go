// Public domain.

package photometry

import (
	"math"

	"github.com/soniakeys/unit"
)

// Muinonen et al. 2010 basis function splines.  Values are tabulated at
// phase angles in degrees, end derivatives are per radian.
var (
	phi1Spline = newSpline(
		[]float64{7.5, 30, 60, 90, 120, 150},
		[]float64{7.5e-1, 3.3486016e-1, 1.3410560e-1, 5.1104756e-2,
			2.1465687e-2, 3.6396989e-3},
		-1.9098593, -9.1328612e-2)
	phi2Spline = newSpline(
		[]float64{7.5, 30, 60, 90, 120, 150},
		[]float64{9.25e-1, 6.2884169e-1, 3.1755495e-1, 1.2716367e-1,
			2.2373903e-2, 1.6505689e-4},
		-5.7295780e-1, -8.6573138e-8)
	phi3Spline = newSpline(
		[]float64{0, 0.3, 1, 2, 4, 8, 12, 20, 30},
		[]float64{1, 8.3381185e-1, 5.7735424e-1, 4.2144772e-1,
			2.3174230e-1, 1.0348178e-1, 6.1733473e-2, 1.6107006e-2, 0},
		-1.0630097e2, 0)
)

var (
	linearLimit = unit.AngleFromDeg(7.5)
	phi3Limit   = unit.AngleFromDeg(30)
)

// HG1G2Basis returns the three H-G1-G2 basis functions at phase angle
// alpha.  All are 1 at alpha = 0 and none is negative.
func HG1G2Basis(alpha unit.Angle) (phi1, phi2, phi3 float64) {
	a := alpha.Rad()
	if alpha < linearLimit {
		phi1 = 1 - 6*a/math.Pi
		phi2 = 1 - 9*a/(5*math.Pi)
	} else {
		phi1 = math.Max(phi1Spline.at(a), 0)
		phi2 = math.Max(phi2Spline.at(a), 0)
	}
	if alpha < phi3Limit {
		phi3 = math.Max(phi3Spline.at(a), 0)
	}
	return
}

// HG1G2 is the three-parameter Muinonen phase curve.
//
// G1 and G2 are typically in [0, 1] with G1+G2 <= 1.  No normalization
// is enforced here.
type HG1G2 struct {
	G1, G2 float64
}

// Offset implements Model.
func (m HG1G2) Offset(alpha unit.Angle) float64 {
	phi1, phi2, phi3 := HG1G2Basis(alpha)
	return magOffset(phi3 + m.G1*(phi1-phi3) + m.G2*(phi2-phi3))
}

// HG12 is the two-parameter Muinonen phase curve.  G12 in [0, 1] maps to
// an H-G1-G2 pair.
type HG12 struct {
	G12 float64
}

// Offset implements Model.
func (m HG12) Offset(alpha unit.Angle) float64 {
	return m.HG1G2().Offset(alpha)
}

// HG1G2 returns the equivalent H-G1-G2 curve.
func (m HG12) HG1G2() HG1G2 {
	g1, g2 := G12ToG1G2(m.G12)
	return HG1G2{G1: g1, G2: g2}
}

// G12ToG1G2 maps G12 to G1, G2 by the piecewise linear relation of
// Muinonen et al.  The two segments meet at G12 = 0.2.
func G12ToG1G2(g12 float64) (g1, g2 float64) {
	if g12 < 0.2 {
		return 0.7527*g12 + 0.06164, -0.9612*g12 + 0.6270
	}
	return 0.9529*g12 + 0.02162, -0.6125*g12 + 0.5572
}
