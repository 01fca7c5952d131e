// Public domain.

package fit

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

// Family identifies a phase curve system.
type Family int

const (
	HG Family = iota
	HG12
	HG1G2
)

func (f Family) String() string {
	switch f {
	case HG:
		return "H-G"
	case HG12:
		return "H-G12"
	case HG1G2:
		return "H-G1-G2"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily accepts the names hg, hg12, hg1g2 in any case, with or
// without hyphens.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "hg":
		return HG, nil
	case "hg12":
		return HG12, nil
	case "hg1g2":
		return HG1G2, nil
	}
	return 0, fmt.Errorf("%w: unknown phase curve family %q", ErrConfig, s)
}

// number of slope parameters
func (f Family) slopes() int {
	if f == HG1G2 {
		return 2
	}
	return 1
}

// Model binds slope parameters g to a photometry model.  g holds G, G12,
// or G1 then G2.  Mode applies to H-G only.
func (f Family) Model(g []float64, mode photometry.Mode) photometry.Model {
	switch f {
	case HG12:
		return photometry.HG12{G12: g[0]}
	case HG1G2:
		return photometry.HG1G2{G1: g[0], G2: g[1]}
	}
	return photometry.HG{G: g[0], Mode: mode}
}

// Range is a closed interval.
type Range struct {
	Lo, Hi float64
}

func (r Range) valid() bool {
	return r.Lo < r.Hi && !math.IsInf(r.Lo, 0) && !math.IsInf(r.Hi, 0)
}

// Default search ranges for H-G.  These come from the H and G values of a
// reference asteroid population, widened by 10%.
var (
	DefaultHRange = Range{4.69236933828342, 29.276432904419803}
	DefaultGRange = Range{-0.301744075798055, 0.9073912874142601}
)

// EdgeTolerance is how close a fitted slope parameter must be to a bound
// of its range to count as at the edge.
const EdgeTolerance = 1e-6

// Params control a fit.
type Params struct {
	// Starting H.  NaN starts from the reduced magnitude of the
	// observation at the smallest phase angle.
	H0 float64

	// Starting slope parameters: G, G12, or G1 then G2.
	G0, G20 float64

	HRange Range
	// GRange bounds each slope parameter.
	GRange Range

	// Monte Carlo repetitions for uncertainties.  Fewer than 2, or no
	// magnitude errors, gives zero uncertainties.
	Simulations int

	// Seed for the Monte Carlo noise.  0 seeds from the clock.
	Seed uint64

	// Mode selects the H-G basis functions.  Other families ignore it.
	Mode photometry.Mode
}

// DefaultParams returns defaults for an H-G fit.
func DefaultParams() Params {
	return Params{
		H0:          math.NaN(),
		G0:          .15,
		HRange:      DefaultHRange,
		GRange:      DefaultGRange,
		Simulations: 30,
	}
}

// DefaultHG12Params returns defaults for an H-G12 fit.
func DefaultHG12Params() Params {
	p := DefaultParams()
	p.G0 = .5
	p.GRange = Range{0, 1}
	return p
}

// DefaultHG1G2Params returns defaults for an H-G1-G2 fit.
func DefaultHG1G2Params() Params {
	p := DefaultParams()
	p.G0, p.G20 = .15, .5
	p.GRange = Range{0, 1}
	return p
}

// DefaultParamsFor returns the defaults for family f.
func DefaultParamsFor(f Family) Params {
	switch f {
	case HG12:
		return DefaultHG12Params()
	case HG1G2:
		return DefaultHG1G2Params()
	}
	return DefaultParams()
}

// StartModel returns the model at the starting slope parameters of p.
func (p *Params) StartModel(f Family) photometry.Model {
	return f.Model([]float64{p.G0, p.G20}, p.Mode)
}

func (p *Params) check() error {
	if !p.HRange.valid() {
		return fmt.Errorf("%w: H range %v", ErrConfig, p.HRange)
	}
	if !p.GRange.valid() {
		return fmt.Errorf("%w: G range %v", ErrConfig, p.GRange)
	}
	if p.Simulations < 0 {
		return fmt.Errorf("%w: %d simulations", ErrConfig, p.Simulations)
	}
	if math.IsInf(p.H0, 0) || math.IsNaN(p.G0) || math.IsInf(p.G0, 0) ||
		math.IsNaN(p.G20) || math.IsInf(p.G20, 0) {
		return fmt.Errorf("%w: start H %g, G %g, %g", ErrConfig, p.H0, p.G0, p.G20)
	}
	return nil
}
