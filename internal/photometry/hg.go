// Public domain.

package photometry

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// Mode selects the form of the H-G basis functions.
type Mode int

const (
	// Full is the Bowell et al. form, blending a small-angle term with
	// the exponential term.
	Full Mode = iota
	// Simple uses the exponential term alone.  It is cheaper and differs
	// from Full by a few hundredths of a magnitude.
	Simple
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Simple:
		return "simple"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Bowell 1989 constants
const (
	hgA1, hgA2 = 3.332, 1.862
	hgB1, hgB2 = 0.631, 1.218
	hgC1, hgC2 = 0.986, 0.238

	hgSimpleA1, hgSimpleA2 = 3.33, 1.87
	hgSimpleB1, hgSimpleB2 = 0.63, 1.22
)

// HG is the Bowell H-G phase curve with slope parameter G.
//
// G is conventionally in [-0.3017, 0.9074].  Toward the negative end of
// that range the phase function reaches zero at large phase angles.
type HG struct {
	G    float64
	Mode Mode
}

// Offset implements Model.
func (m HG) Offset(alpha unit.Angle) float64 {
	phi1, phi2 := HGBasis(alpha, m.Mode)
	// (1-G)phi1 + G*phi2, arranged to be exactly 1 where both are 1
	return magOffset(phi1 + m.G*(phi2-phi1))
}

// HGBasis returns the two H-G basis functions at phase angle alpha.
// Both are 1 at alpha = 0.
func HGBasis(alpha unit.Angle, mode Mode) (phi1, phi2 float64) {
	tanHalf := math.Tan(alpha.Rad() * .5)
	if mode == Simple {
		// single exponential approximation, no small angle term
		phi1 = math.Exp(-hgSimpleA1 * math.Pow(tanHalf, hgSimpleB1))
		phi2 = math.Exp(-hgSimpleA2 * math.Pow(tanHalf, hgSimpleB2))
		return
	}
	sa := math.Sin(alpha.Rad())
	w := math.Exp(-90.56 * tanHalf * tanHalf)
	// the small angle part shares its denominator between phi1 and phi2
	den := 0.119 + 1.341*sa - 0.754*sa*sa
	phi1S := 1 - hgC1*sa/den
	phi2S := 1 - hgC2*sa/den
	phi1L := math.Exp(-hgA1 * math.Pow(tanHalf, hgB1))
	phi2L := math.Exp(-hgA2 * math.Pow(tanHalf, hgB2))
	return w*phi1S + (1-w)*phi1L, w*phi2S + (1-w)*phi2L
}
