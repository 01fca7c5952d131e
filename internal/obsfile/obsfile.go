// Public domain.

// Package obsfile reads photometric observations for phase curve fits.
//
// Two formats are read.  The table format has one observation per line,
// with whitespace separated fields
//
//	desig mag sigma r delta alpha [date]
//
// Mag is an apparent magnitude, sigma its uncertainty, r and delta
// heliocentric and observer distances in AU, alpha the phase angle in
// degrees.  Sigma and alpha may be given as "-".  Date is optional and is
// either a Julian date or a UTC calendar date, YYYY-MM-DD or
// YYYY-MM-DDTHH:MM:SS.  Text following a # is a comment.
//
// Consecutive lines with the same designation form one object.  Within an
// object, sigma, alpha, and date must be given on all lines or on none.
//
// The second format is the MPC 80 column observation format, read with
// MPCSplitter.
package obsfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// Object holds the observations of one object.  Optional columns are nil
// when not given.
type Object struct {
	Desig    string
	Mags     []float64
	Errors   []float64
	R, Delta []float64
	Alpha    []unit.Angle
	JD       []float64
}

// Len returns the number of observations.
func (o *Object) Len() int { return len(o.Mags) }

// A Splitter returns successive objects from an input stream.  It returns
// io.EOF at the end of the stream.  An ObjectError means the object was
// skipped and reading may continue.  Any other error is a read error.
type Splitter func() (*Object, error)

// ObjectError reports invalid data for an object.
type ObjectError struct {
	Desig string
	Line  int // input line, 0 when not known
	Msg   string
}

func (e ObjectError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("obsfile: %s, line %d: %s", e.Desig, e.Line, e.Msg)
	}
	return fmt.Sprintf("obsfile: %s: %s", e.Desig, e.Msg)
}

// IsObjectError reports whether err is an ObjectError.
func IsObjectError(err error) bool {
	var oe ObjectError
	return errors.As(err, &oe)
}

type tableLine struct {
	desig                string
	mag, r, delta        float64
	sigma, alpha, jd     float64
	hasSig, hasAlp, hasJ bool
}

// TableSplitter returns a Splitter reading the table format.
func TableSplitter(r io.Reader) Splitter {
	sc := bufio.NewScanner(r)
	lineNum := 0
	var pend *tableLine // first line of the next object
	var pendErr *ObjectError
	eof := false

	// next returns the next data line.  ok is false at end of input.
	next := func() (*tableLine, *ObjectError, bool, error) {
		for sc.Scan() {
			lineNum++
			l := sc.Text()
			if i := strings.IndexByte(l, '#'); i >= 0 {
				l = l[:i]
			}
			f := strings.Fields(l)
			if len(f) == 0 {
				continue
			}
			tl, oe := parseLine(f, lineNum)
			return tl, oe, true, nil
		}
		return nil, nil, false, sc.Err()
	}

	return func() (*Object, error) {
		if pend == nil && pendErr == nil {
			if eof {
				return nil, io.EOF
			}
			tl, oe, ok, err := next()
			if err != nil {
				return nil, err
			}
			if !ok {
				eof = true
				return nil, io.EOF
			}
			pend, pendErr = tl, oe
		}
		var lines []*tableLine
		var objErr *ObjectError
		var desig string
		if pend != nil {
			desig = pend.desig
			lines = append(lines, pend)
		} else {
			desig = pendErr.Desig
			objErr = pendErr
		}
		pend, pendErr = nil, nil
		for !eof {
			tl, oe, ok, err := next()
			if err != nil {
				return nil, err
			}
			if !ok {
				eof = true
				break
			}
			var d string
			if tl != nil {
				d = tl.desig
			} else {
				d = oe.Desig
			}
			if d != desig {
				pend, pendErr = tl, oe
				break
			}
			switch {
			case oe != nil && objErr == nil:
				objErr = oe
			case tl != nil:
				lines = append(lines, tl)
			}
		}
		if objErr != nil {
			return nil, *objErr
		}
		return buildObject(desig, lines)
	}
}

func parseLine(f []string, lineNum int) (*tableLine, *ObjectError) {
	tl := &tableLine{desig: f[0]}
	bad := func(format string, a ...any) (*tableLine, *ObjectError) {
		return nil, &ObjectError{Desig: f[0], Line: lineNum, Msg: fmt.Sprintf(format, a...)}
	}
	if len(f) < 6 || len(f) > 7 {
		return bad("%d fields, want 6 or 7", len(f))
	}
	num := func(s, name string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid %s %q", name, s)
		}
		return v, nil
	}
	var err error
	if tl.mag, err = num(f[1], "magnitude"); err != nil {
		return bad("%v", err)
	}
	if f[2] != "-" {
		if tl.sigma, err = num(f[2], "sigma"); err != nil {
			return bad("%v", err)
		}
		tl.hasSig = true
	}
	if tl.r, err = num(f[3], "r"); err != nil {
		return bad("%v", err)
	}
	if tl.delta, err = num(f[4], "delta"); err != nil {
		return bad("%v", err)
	}
	if f[5] != "-" {
		if tl.alpha, err = num(f[5], "alpha"); err != nil {
			return bad("%v", err)
		}
		tl.hasAlp = true
	}
	if len(f) == 7 {
		if tl.jd, err = ParseDate(f[6]); err != nil {
			return bad("%v", err)
		}
		tl.hasJ = true
	}
	return tl, nil
}

// all-or-none checks happen once the object is complete.
func buildObject(desig string, lines []*tableLine) (*Object, error) {
	o := &Object{Desig: desig}
	first := lines[0]
	for _, tl := range lines {
		if tl.hasSig != first.hasSig {
			return nil, ObjectError{Desig: desig, Msg: "sigma given for some observations but not all"}
		}
		if tl.hasAlp != first.hasAlp {
			return nil, ObjectError{Desig: desig, Msg: "alpha given for some observations but not all"}
		}
		if tl.hasJ != first.hasJ {
			return nil, ObjectError{Desig: desig, Msg: "date given for some observations but not all"}
		}
		o.Mags = append(o.Mags, tl.mag)
		o.R = append(o.R, tl.r)
		o.Delta = append(o.Delta, tl.delta)
		if tl.hasSig {
			o.Errors = append(o.Errors, tl.sigma)
		}
		if tl.hasAlp {
			o.Alpha = append(o.Alpha, unit.AngleFromDeg(tl.alpha))
		}
		if tl.hasJ {
			o.JD = append(o.JD, tl.jd)
		}
	}
	return o, nil
}

var dateLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseDate parses a Julian date or a UTC calendar date.
func ParseDate(s string) (float64, error) {
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		return jd, nil
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return julian.TimeToJD(t), nil
		}
	}
	return 0, fmt.Errorf("invalid date %q", s)
}
