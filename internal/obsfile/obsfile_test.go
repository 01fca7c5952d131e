// Public domain.

package obsfile_test

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/phasecurve/internal/obsfile"
)

func ExampleTableSplitter() {
	const in = `# desig mag sigma r delta alpha
1999XY 18.168 .03 1.997 1.187 22.9769
1999XY 18.302 .03 2.003 1.201 23.41
433    11.2   -   1.5   .55   -
`
	s := obsfile.TableSplitter(strings.NewReader(in))
	for {
		o, err := s()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(o.Desig, o.Len(), o.Errors != nil, o.Alpha != nil)
	}
	// Output:
	// 1999XY 2 true true
	// 433 1 false false
}

func readAll(t *testing.T, s obsfile.Splitter) (objs []*obsfile.Object, errs []error) {
	t.Helper()
	for {
		o, err := s()
		switch {
		case err == io.EOF:
			return
		case obsfile.IsObjectError(err):
			errs = append(errs, err)
		case err != nil:
			t.Fatal(err)
		default:
			objs = append(objs, o)
		}
	}
}

func TestTableValues(t *testing.T) {
	const in = "A 15 .1 2 1.5 10 2460000.5\n" +
		"A 15.5 .2 2.5 1.25 20 2000-01-01T12:00:00 # J2000\n"
	objs, errs := readAll(t, obsfile.TableSplitter(strings.NewReader(in)))
	if len(errs) > 0 || len(objs) != 1 {
		t.Fatalf("objects %d, errors %v", len(objs), errs)
	}
	o := objs[0]
	if o.Mags[1] != 15.5 || o.Errors[1] != .2 || o.R[1] != 2.5 || o.Delta[1] != 1.25 {
		t.Errorf("%+v", o)
	}
	if math.Abs(o.Alpha[1].Deg()-20) > 1e-12 {
		t.Errorf("alpha %g", o.Alpha[1].Deg())
	}
	if o.JD[0] != 2460000.5 || math.Abs(o.JD[1]-2451545) > 1e-9 {
		t.Errorf("JD %v", o.JD)
	}
}

func TestTableObjectErrors(t *testing.T) {
	const in = `
A 15 .1 2 1.5 10
A 15 -  2 1.5 10
B 15 .1 2 1.5 10
B 15 .1 x 1.5 10
B 16 .1 2 1.5 11
C 15 .1 2 1.5 10
C 15 .1 2 1.5
D 15 .1 2 1.5 10 2460000.5
D 15 .1 2 1.5 10
E 15 .1 2 1.5 10 yesterday
F 14 .1 2 1.5 10
`
	objs, errs := readAll(t, obsfile.TableSplitter(strings.NewReader(in)))
	if len(objs) != 1 || objs[0].Desig != "F" {
		t.Errorf("objects %v", objs)
	}
	want := []string{"A", "B", "C", "D", "E"}
	if len(errs) != len(want) {
		t.Fatalf("errors %v", errs)
	}
	for i, err := range errs {
		var oe obsfile.ObjectError
		if !errors.As(err, &oe) || oe.Desig != want[i] {
			t.Errorf("error %d: %v", i, err)
		}
	}
	// line numbers count blank lines
	var oe obsfile.ObjectError
	errors.As(errs[1], &oe)
	if oe.Line != 5 {
		t.Errorf("B reported at line %d", oe.Line)
	}
}

func TestTableEmpty(t *testing.T) {
	s := obsfile.TableSplitter(strings.NewReader("# nothing\n\n"))
	for i := 0; i < 2; i++ {
		if _, err := s(); err != io.EOF {
			t.Fatalf("err = %v", err)
		}
	}
}

// a line longer than the scanner buffer is a read error, not an object error
func TestTableReadError(t *testing.T) {
	s := obsfile.TableSplitter(strings.NewReader(strings.Repeat("x", 1<<17)))
	if _, err := s(); err == nil || err == io.EOF || obsfile.IsObjectError(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseDate(t *testing.T) {
	for _, c := range []struct {
		s  string
		jd float64
	}{
		{"2451545", 2451545},
		{"2000-01-01", 2451544.5},
		{"2000-01-01T18:00", 2451545.25},
	} {
		jd, err := obsfile.ParseDate(c.s)
		if err != nil || math.Abs(jd-c.jd) > 1e-9 {
			t.Errorf("%s: %v %v", c.s, jd, err)
		}
	}
	if _, err := obsfile.ParseDate("2000/01/01"); err == nil {
		t.Error("slashes accepted")
	}
}
