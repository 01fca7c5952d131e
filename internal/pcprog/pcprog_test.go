// Public domain.

package pcprog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/soniakeys/unit"
	"github.com/spf13/viper"

	"github.com/soniakeys/phasecurve/internal/obsfile"
	"github.com/soniakeys/phasecurve/internal/photometry"
)

// listSplitter returns objects named 0, 1, 2, ... with an object error at
// index bad and a read error after n objects when readErr is set.
func listSplitter(n, bad int, readErr error) obsfile.Splitter {
	i := 0
	return func() (*obsfile.Object, error) {
		if i == n {
			if readErr != nil {
				return nil, readErr
			}
			return nil, io.EOF
		}
		d := fmt.Sprint(i)
		i++
		if i-1 == bad {
			return nil, obsfile.ObjectError{Desig: d, Msg: "bad"}
		}
		return &obsfile.Object{Desig: d, Mags: make([]float64, i)}, nil
	}
}

func TestProcessOrder(t *testing.T) {
	const n = 40
	var b bytes.Buffer
	do := func(o *obsfile.Object, err error) string {
		if err != nil {
			return "error " + err.Error()
		}
		// later objects finish first
		time.Sleep(time.Duration(n-o.Len()) * 100 * time.Microsecond)
		return o.Desig
	}
	if err := process(listSplitter(n, 7, nil), do, &b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != n {
		t.Fatalf("%d lines", len(lines))
	}
	for i, l := range lines {
		if i == 7 {
			if !strings.HasPrefix(l, "error ") {
				t.Errorf("line 7: %q", l)
			}
			continue
		}
		if l != fmt.Sprint(i) {
			t.Fatalf("line %d: %q", i, l)
		}
	}
}

func TestProcessReadError(t *testing.T) {
	errRead := errors.New("disk on fire")
	var b bytes.Buffer
	do := func(o *obsfile.Object, err error) string { return o.Desig }
	err := process(listSplitter(3, -1, errRead), do, &b)
	if !errors.Is(err, errRead) {
		t.Fatalf("err = %v", err)
	}
	if b.String() != "0\n1\n2\n" {
		t.Errorf("output %q", b.String())
	}
}

// isolate keeps config files and the environment of the test process out
// of the command.
func isolate(t *testing.T) {
	t.Helper()
	d := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(d); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", d)
	t.Setenv("XDG_CACHE_HOME", d)
}

// table writes noise-free observations of an object in the table format.
// The geometry places the observer 1 AU from the Sun.
func table(desig string, h float64, m photometry.Model, withAlpha bool) string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		r := 2 + .05*float64(i)
		a := unit.AngleFromDeg(1 + 2*float64(i))
		s, c := math.Sincos(a.Rad())
		delta := r*c - math.Sqrt(1-r*r*s*s)
		mag := h + 5*math.Log10(r*delta) + m.Offset(a)
		alpha := "-"
		if withAlpha {
			alpha = fmt.Sprintf("%.9f", a.Deg())
		}
		fmt.Fprintf(&b, "%s %.9f .02 %.9f %.9f %s\n", desig, mag, r, delta, alpha)
	}
	return b.String()
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type fitOutput struct {
	Result []struct {
		Desig       string   `toml:"desig"`
		Family      string   `toml:"family"`
		N           int      `toml:"n"`
		H           float64  `toml:"h"`
		SigH        float64  `toml:"sig_h"`
		G           float64  `toml:"g"`
		G2          *float64 `toml:"g2"`
		FullSuccess bool     `toml:"full_success"`
		Error       string   `toml:"error"`
	} `toml:"result"`
}

func TestFitCommand(t *testing.T) {
	isolate(t)
	in := table("A", 15.3, photometry.HG{G: .25}, true) +
		"B 15 .1 2 1.5\n" +
		table("C", 12.1, photometry.HG{G: .1}, false)
	out, err := execute(t, in, "fit", "--output", "toml", "--repeatable", "--sims", "5")
	if err != nil {
		t.Fatal(err)
	}
	var res fitOutput
	if err := toml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if len(res.Result) != 3 {
		t.Fatalf("%d results\n%s", len(res.Result), out)
	}
	a, b, c := res.Result[0], res.Result[1], res.Result[2]
	if a.Desig != "A" || a.Family != "H-G" || a.N != 10 || a.G2 != nil {
		t.Errorf("A: %+v", a)
	}
	if math.Abs(a.H-15.3) > 1e-3 || math.Abs(a.G-.25) > 1e-3 || !a.FullSuccess || a.SigH <= 0 {
		t.Errorf("A: %+v", a)
	}
	if b.Desig != "B" || b.Error == "" {
		t.Errorf("B: %+v", b)
	}
	// phase angles derived from the distances
	if c.Desig != "C" || c.Error != "" || math.Abs(c.H-12.1) > 1e-3 || math.Abs(c.G-.1) > 1e-3 {
		t.Errorf("C: %+v", c)
	}
}

func TestFitCommandText(t *testing.T) {
	isolate(t)
	in := table("K25A01B", 17, photometry.HG1G2{G1: .3, G2: .4}, true)
	out, err := execute(t, in, "fit", "--family", "hg1g2", "--sims", "0")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Desig.") {
		t.Fatalf("%q", out)
	}
	f := strings.Fields(lines[1])
	if f[0] != "K25A01B" || f[1] != "H-G1-G2" || f[2] != "10" || f[len(f)-1] != "ok" {
		t.Errorf("%q", lines[1])
	}
}

func TestAbsMagCommand(t *testing.T) {
	isolate(t)
	in := table("A", 15.3, photometry.HG{G: .15}, true)
	out, err := execute(t, in, "absmag", "--g0", "0.15", "--output", "toml")
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Result []struct {
			H     []float64 `toml:"h"`
			Alpha []float64 `toml:"alpha"`
			JD    []float64 `toml:"jd"`
		} `toml:"result"`
	}
	if err := toml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if len(res.Result) != 1 || len(res.Result[0].H) != 10 || res.Result[0].JD != nil {
		t.Fatalf("%s", out)
	}
	for i, h := range res.Result[0].H {
		if math.Abs(h-15.3) > 1e-6 {
			t.Errorf("observation %d: H %g", i, h)
		}
	}
	if math.Abs(res.Result[0].Alpha[1]-3) > 1e-6 {
		t.Errorf("alpha %v", res.Result[0].Alpha)
	}
}

func TestCommandErrors(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "", "fit", "--family", "hg3"); err == nil {
		t.Error("unknown family accepted")
	}
	if _, err := execute(t, "", "fit", "--format", "csv"); err == nil {
		t.Error("unknown input format accepted")
	}
	if _, err := execute(t, "", "fit", "no-such-file"); err == nil {
		t.Error("missing input file accepted")
	}
	if _, err := execute(t, "", "fit", "--config", "missing.toml"); err == nil {
		t.Error("missing config file accepted")
	}
	if _, err := execute(t, "", "fit", "a", "b"); err == nil {
		t.Error("two input files accepted")
	}
}
