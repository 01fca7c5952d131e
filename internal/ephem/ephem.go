// Public domain.

// Package ephem defines the ephemeris data consumed by phase curve fitting.
//
// An ephemeris Source maps an object identifier and a list of epochs to the
// observing geometry at those epochs.  Implementations live elsewhere;
// see package horizons for a network source and Cache here for a local
// SQLite cache in front of any source.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soniakeys/unit"
)

// ErrShape is returned when a source answers with a row count different
// from the number of epochs requested.
var ErrShape = errors.New("ephem: row count does not match epochs")

// Source retrieves observing geometry.  Epochs are Julian dates.
//
// A Source returns one row per requested epoch, in request order, or an
// error.  It must not substitute defaults for data it cannot get.
type Source interface {
	Ephemerides(ctx context.Context, id string, jd []float64) (*Table, error)
}

// Table holds ephemeris rows.  All slices have the same length.
type Table struct {
	R         []float64       // heliocentric distance, AU
	Delta     []float64       // observer distance, AU
	Alpha     []unit.Angle    // phase angle
	LightTime []time.Duration // one way light time, observer-object

	// reference slope parameter of the H-G system, if the source has one
	RefG    float64
	HasRefG bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.R) }

// Check verifies the table has n rows in every column.
func (t *Table) Check(n int) error {
	if len(t.R) != n || len(t.Delta) != n || len(t.Alpha) != n ||
		t.LightTime != nil && len(t.LightTime) != n {
		return fmt.Errorf("%w: %d epochs, %d/%d/%d/%d rows", ErrShape, n,
			len(t.R), len(t.Delta), len(t.Alpha), len(t.LightTime))
	}
	return nil
}

// Fetch calls s and checks the answer has one row per epoch.
func Fetch(ctx context.Context, s Source, id string, jd []float64) (*Table, error) {
	t, err := s.Ephemerides(ctx, id, jd)
	if err != nil {
		return nil, err
	}
	if err := t.Check(len(jd)); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return t, nil
}

// row is one epoch of a table.
type row struct {
	r, delta float64
	alpha    unit.Angle
	lt       time.Duration
}

func (t *Table) row(i int) row {
	r := row{r: t.R[i], delta: t.Delta[i], alpha: t.Alpha[i]}
	if t.LightTime != nil {
		r.lt = t.LightTime[i]
	}
	return r
}

func (t *Table) append(r row) {
	t.R = append(t.R, r.r)
	t.Delta = append(t.Delta, r.delta)
	t.Alpha = append(t.Alpha, r.alpha)
	t.LightTime = append(t.LightTime, r.lt)
}
