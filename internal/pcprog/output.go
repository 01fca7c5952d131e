// Public domain.

package pcprog

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/phasecurve/internal/fit"
)

// absMags is one object's absolute magnitudes.  Optional columns may be
// nil.
type absMags struct {
	desig string
	jd    []float64
	mags  []float64
	alpha []unit.Angle
	h     []float64
	lt    []time.Duration
}

type formatter interface {
	heading(cmd string) string // "" for none
	fit(desig string, r fit.Result) string
	absMag(a *absMags) string
	err(desig string, err error) string
}

func newFormatter(format string) formatter {
	if format == "toml" {
		return tomlFormat{}
	}
	return textFormat{}
}

type textFormat struct{}

func (textFormat) heading(cmd string) string {
	if cmd == "absmag" {
		return "Desig.            JD      Mag  Alpha      H"
	}
	return "Desig.     Family    N      H    σH      G    σG     G2   σG2   RMS  Flags"
}

func (textFormat) fit(desig string, r fit.Result) string {
	ol := fmt.Sprintf("%-10s %-7s %4d %6.3f %5.3f %6.3f %5.3f",
		desig, r.Family(), r.N(), r.H(), r.SigH(), r.G(), r.SigG())
	if r.Family() == fit.HG1G2 {
		ol += fmt.Sprintf(" %6.3f %5.3f", r.G2(), r.SigG2())
	} else {
		ol += "    --    --"
	}
	ol += fmt.Sprintf(" %5.3f ", r.RMS())
	switch {
	case r.FullSuccess():
		ol += " ok"
	case !r.Success():
		ol += " not converged"
	}
	if r.AtEdge() {
		ol += " at edge"
	}
	return ol
}

func (textFormat) absMag(a *absMags) string {
	var b strings.Builder
	for i, h := range a.h {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-10s", a.desig)
		if a.jd != nil {
			fmt.Fprintf(&b, " %13.5f", a.jd[i])
		} else {
			b.WriteString("             -")
		}
		fmt.Fprintf(&b, " %6.3f %6.2f %6.3f", a.mags[i], a.alpha[i].Deg(), h)
	}
	return b.String()
}

func (textFormat) err(desig string, err error) string {
	return fmt.Sprintf("%-10s error: %v", desig, err)
}

// tomlFormat writes each object as an element of the array of tables
// "result".
type tomlFormat struct{}

type fitRecord struct {
	Desig       string   `toml:"desig"`
	Family      string   `toml:"family"`
	N           int      `toml:"n"`
	H           float64  `toml:"h"`
	SigH        float64  `toml:"sig_h"`
	G           float64  `toml:"g"`
	SigG        float64  `toml:"sig_g"`
	G2          *float64 `toml:"g2,omitempty"`
	SigG2       *float64 `toml:"sig_g2,omitempty"`
	RMS         float64  `toml:"rms"`
	Success     bool     `toml:"success"`
	AtEdge      bool     `toml:"at_edge"`
	FullSuccess bool     `toml:"full_success"`
}

type absMagRecord struct {
	Desig     string    `toml:"desig"`
	JD        []float64 `toml:"jd,omitempty"`
	Mag       []float64 `toml:"mag"`
	Alpha     []float64 `toml:"alpha"` // degrees
	H         []float64 `toml:"h"`
	LightTime []float64 `toml:"light_time,omitempty"` // seconds
}

type errRecord struct {
	Desig string `toml:"desig"`
	Error string `toml:"error"`
}

func marshalResult[T any](rec T) string {
	b, err := toml.Marshal(map[string][]T{"result": {rec}})
	if err != nil {
		// records are plain structs of strings and numbers
		panic(err)
	}
	return strings.TrimRight(string(b), "\n")
}

func (tomlFormat) heading(string) string { return "" }

func (tomlFormat) fit(desig string, r fit.Result) string {
	rec := fitRecord{
		Desig:       desig,
		Family:      r.Family().String(),
		N:           r.N(),
		H:           r.H(),
		SigH:        r.SigH(),
		G:           r.G(),
		SigG:        r.SigG(),
		RMS:         r.RMS(),
		Success:     r.Success(),
		AtEdge:      r.AtEdge(),
		FullSuccess: r.FullSuccess(),
	}
	if r.Family() == fit.HG1G2 {
		g2, s2 := r.G2(), r.SigG2()
		rec.G2, rec.SigG2 = &g2, &s2
	}
	return marshalResult(rec)
}

func (tomlFormat) absMag(a *absMags) string {
	rec := absMagRecord{Desig: a.desig, JD: a.jd, Mag: a.mags, H: a.h}
	for _, al := range a.alpha {
		rec.Alpha = append(rec.Alpha, al.Deg())
	}
	for _, lt := range a.lt {
		rec.LightTime = append(rec.LightTime, lt.Seconds())
	}
	return marshalResult(rec)
}

func (tomlFormat) err(desig string, err error) string {
	return marshalResult(errRecord{Desig: desig, Error: err.Error()})
}
