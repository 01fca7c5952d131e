// Public domain.

package fit

import (
	"fmt"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

// Result is the outcome of a fit.  It is a value; nothing changes it after
// the fit returns.
type Result struct {
	family  Family
	mode    photometry.Mode
	h, sigH float64
	g, sigG [2]float64
	rms     float64
	success bool
	atEdge  bool
	n       int
}

// Family returns the phase curve system fitted.
func (r Result) Family() Family { return r.family }

// H returns the fitted absolute magnitude.
func (r Result) H() float64 { return r.h }

// G returns the fitted slope parameter: G, G12, or G1.
func (r Result) G() float64 { return r.g[0] }

// G2 returns the fitted G2 of an H-G1-G2 fit, otherwise 0.
func (r Result) G2() float64 { return r.g[1] }

// SigH returns the standard deviation of H over Monte Carlo repetitions.
func (r Result) SigH() float64 { return r.sigH }

// SigG is the standard deviation for G.
func (r Result) SigG() float64 { return r.sigG[0] }

// SigG2 is the standard deviation for G2.
func (r Result) SigG2() float64 { return r.sigG[1] }

// RMS returns the RMS residual of the fit, with N-1 degrees of freedom.
func (r Result) RMS() float64 { return r.rms }

// Success reports whether the minimizer converged.
func (r Result) Success() bool { return r.success }

// AtEdge reports whether a fitted slope parameter is at a bound of its
// search range.
func (r Result) AtEdge() bool { return r.atEdge }

// FullSuccess reports a converged fit with slope parameters inside their
// range.
func (r Result) FullSuccess() bool { return r.success && !r.atEdge }

// N returns the number of observations fitted.
func (r Result) N() int { return r.n }

// Model returns the fitted phase curve.
func (r Result) Model() photometry.Model {
	return r.family.Model(r.g[:], r.mode)
}

func (r Result) String() string {
	s := fmt.Sprintf("%s H %.3f±%.3f G %.3f±%.3f", r.family, r.h, r.sigH, r.g[0], r.sigG[0])
	if r.family == HG1G2 {
		s += fmt.Sprintf(" G2 %.3f±%.3f", r.g[1], r.sigG[1])
	}
	s += fmt.Sprintf(" rms %.3f n %d", r.rms, r.n)
	switch {
	case !r.success:
		s += " (not converged)"
	case r.atEdge:
		s += " (at edge)"
	}
	return s
}
