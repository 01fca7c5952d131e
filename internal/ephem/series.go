// Public domain.

package ephem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/soniakeys/phasecurve/internal/photometry"
)

// ErrNoRefG is returned by Series.AbsMags when no model is given and the
// source has no reference G for the object.
var ErrNoRefG = errors.New("ephem: no reference G for object")

// Series is a set of magnitudes of one object observed at known epochs.
// Geometry is fetched from the source on first use and kept.
type Series struct {
	src  Source
	id   string
	jd   []float64
	mags []float64

	mu  sync.Mutex
	tab *Table
}

// NewSeries returns a Series for object id.  jd and mags must have the same
// length.
func NewSeries(src Source, id string, jd, mags []float64) (*Series, error) {
	if len(jd) != len(mags) {
		return nil, fmt.Errorf("%w: %d epochs, %d magnitudes", ErrShape, len(jd), len(mags))
	}
	return &Series{src: src, id: id, jd: jd, mags: mags}, nil
}

// Table returns the ephemeris for the series, fetching it if needed.
// A failed fetch is not remembered.
func (s *Series) Table(ctx context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tab != nil {
		return s.tab, nil
	}
	t, err := Fetch(ctx, s.src, s.id, s.jd)
	if err != nil {
		return nil, err
	}
	s.tab = t
	return t, nil
}

// AbsMags returns the absolute magnitude of each observation under m.
// A nil m selects the simple H-G curve with the reference G of the source.
func (s *Series) AbsMags(ctx context.Context, m photometry.Model) ([]float64, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		if !t.HasRefG {
			return nil, fmt.Errorf("%w %s", ErrNoRefG, s.id)
		}
		m = photometry.HG{G: t.RefG, Mode: photometry.Simple}
	}
	return photometry.AbsMags(m, s.mags, t.R, t.Delta, t.Alpha)
}

// LightTime returns the observer-object light time at each epoch, or nil
// if the source does not provide it.
func (s *Series) LightTime(ctx context.Context) ([]time.Duration, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return t.LightTime, nil
}
