// Public domain.

package fit

import (
	"strings"
	"testing"
)

// FullSuccess is success and not at edge.  Both inputs are checked in both
// states so an inverted combination cannot pass.
func TestFullSuccess(t *testing.T) {
	for _, tc := range []struct {
		success, atEdge, want bool
	}{
		{true, false, true},
		{true, true, false},
		{false, false, false},
		{false, true, false},
	} {
		r := Result{success: tc.success, atEdge: tc.atEdge}
		if got := r.FullSuccess(); got != tc.want {
			t.Errorf("success %t at edge %t: FullSuccess %t", tc.success, tc.atEdge, got)
		}
	}
}

func TestResultString(t *testing.T) {
	r := Result{family: HG1G2, h: 14.5, g: [2]float64{.1, .2}, success: true, atEdge: true, n: 7}
	s := r.String()
	for _, want := range []string{"H-G1-G2", "H 14.500", "G2 0.200", "n 7", "at edge"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q missing %q", s, want)
		}
	}
}

func TestRepSeed(t *testing.T) {
	seen := map[uint64]bool{}
	for _, seed := range []uint64{1, 2, 3} {
		for k := 0; k < 100; k++ {
			s := repSeed(seed, k)
			if seen[s] {
				t.Fatalf("seed %d repetition %d repeats a seed", seed, k)
			}
			seen[s] = true
		}
	}
}

func TestBoxProject(t *testing.T) {
	b := box{lo: []float64{0, -1}, hi: []float64{1, 1}}
	dst := make([]float64, 2)
	if d := b.project([]float64{.5, 0}, dst); d != 0 || dst[0] != .5 || dst[1] != 0 {
		t.Errorf("inside: %v %g", dst, d)
	}
	if d := b.project([]float64{2, -3}, dst); d != 3 || dst[0] != 1 || dst[1] != -1 {
		t.Errorf("outside: %v %g", dst, d)
	}
}
