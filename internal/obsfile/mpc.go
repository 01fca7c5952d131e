// Public domain.

package obsfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/soniakeys/mpcformat"
	"github.com/soniakeys/observation"
)

// MPCSplitter returns a Splitter reading the MPC 80 column format.
// Observations are grouped by designation into arcs as mpcformat does it.
// Observations without a magnitude are dropped.  Objects have Mags and
// JD; geometry comes from an ephemeris.
//
// An arc that mpcformat cannot parse is an ObjectError.
func MPCSplitter(r io.Reader, ocd observation.ParallaxMap) Splitter {
	s := mpcformat.ArcSplitter(r, ocd)
	return func() (*Object, error) {
		a, err := s()
		if err == nil {
			return fromArc(a)
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		var ae mpcformat.ArcError
		if errors.As(err, &ae) {
			return nil, ObjectError{Msg: ae.Error()}
		}
		return nil, err
	}
}

// fromArc keeps observations with a magnitude and converts MJD to JD.
func fromArc(a *observation.Arc) (*Object, error) {
	o := &Object{Desig: a.Desig}
	for _, v := range a.Obs {
		m := v.Meas()
		if m.VMag <= 0 {
			continue
		}
		o.Mags = append(o.Mags, m.VMag)
		o.JD = append(o.JD, m.MJD+2400000.5)
	}
	if o.Len() == 0 {
		return nil, ObjectError{Desig: a.Desig,
			Msg: fmt.Sprintf("none of %d observations has a magnitude", len(a.Obs))}
	}
	return o, nil
}

// ReadObscodes reads the MPC observatory code file at path.  If the file
// cannot be read, a fresh copy is downloaded to path and read.
func ReadObscodes(path string) (observation.ParallaxMap, error) {
	ocd, readErr := mpcformat.ReadObscodeDatFile(path)
	if readErr == nil {
		return ocd, nil
	}
	// try getting a fresh copy.
	if err := mpcformat.FetchObscodeDat(path); err != nil {
		return nil, fmt.Errorf("obsfile: %v; fetching new copy: %w", readErr, err)
	}
	if ocd, readErr = mpcformat.ReadObscodeDatFile(path); readErr != nil {
		return nil, fmt.Errorf("obsfile: %s: %w", path, readErr)
	}
	return ocd, nil
}
