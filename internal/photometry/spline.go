// Public domain.

package photometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// spline is a cubic spline with first derivatives fixed at both ends.
//
// Nodes are phase angles in radians.  Past the last node the spline is
// continued linearly with the end derivative, and the basis functions built
// from it are floored at zero by their callers.
type spline struct {
	x, y, m    []float64 // nodes, values, second derivatives
	dyN        float64   // derivative at last node
	xMin, xMax float64
}

// newSpline solves the tridiagonal system for second derivatives.
// Node positions are given in degrees, derivatives are per radian.
func newSpline(deg, y []float64, dy0, dyN float64) *spline {
	n := len(deg)
	x := make([]float64, n)
	for i, d := range deg {
		x[i] = d * math.Pi / 180
	}
	h := make([]float64, n-1)
	for i := range h {
		h[i] = x[i+1] - x[i]
	}
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	a.Set(0, 0, 2*h[0])
	a.Set(0, 1, h[0])
	b.SetVec(0, 6*((y[1]-y[0])/h[0]-dy0))
	for i := 1; i < n-1; i++ {
		a.Set(i, i-1, h[i-1])
		a.Set(i, i, 2*(h[i-1]+h[i]))
		a.Set(i, i+1, h[i])
		b.SetVec(i, 6*((y[i+1]-y[i])/h[i]-(y[i]-y[i-1])/h[i-1]))
	}
	a.Set(n-1, n-2, h[n-2])
	a.Set(n-1, n-1, 2*h[n-2])
	b.SetVec(n-1, 6*(dyN-(y[n-1]-y[n-2])/h[n-2]))

	var m mat.VecDense
	if err := m.SolveVec(a, b); err != nil {
		// node tables are package constants.  a failure here is a
		// programming error, not a data error.
		panic("photometry: spline: " + err.Error())
	}
	s := &spline{
		x:    x,
		y:    append([]float64{}, y...),
		m:    make([]float64, n),
		dyN:  dyN,
		xMin: x[0],
		xMax: x[n-1],
	}
	for i := range s.m {
		s.m[i] = m.AtVec(i)
	}
	return s
}

// at evaluates the spline at x radians.  x below the first node is
// evaluated on the first segment.
func (s *spline) at(x float64) float64 {
	if x > s.xMax {
		return s.y[len(s.y)-1] + s.dyN*(x-s.xMax)
	}
	// index of the segment [x[i], x[i+1]] containing x
	i := sort.SearchFloat64s(s.x, x) - 1
	switch {
	case i < 0:
		i = 0
	case i > len(s.x)-2:
		i = len(s.x) - 2
	}
	x0, x1 := s.x[i], s.x[i+1]
	h := x1 - x0
	l, r := x1-x, x-x0
	switch {
	case r == 0:
		return s.y[i]
	case l == 0:
		return s.y[i+1]
	}
	return s.m[i]*l*l*l/(6*h) + s.m[i+1]*r*r*r/(6*h) +
		(s.y[i]/h-s.m[i]*h/6)*l + (s.y[i+1]/h-s.m[i+1]*h/6)*r
}
