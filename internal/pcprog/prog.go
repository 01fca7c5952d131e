// Public domain.

package pcprog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/soniakeys/phasecurve/internal/config"
	"github.com/soniakeys/phasecurve/internal/ephem"
	"github.com/soniakeys/phasecurve/internal/fit"
	"github.com/soniakeys/phasecurve/internal/horizons"
	"github.com/soniakeys/phasecurve/internal/obsfile"
	"github.com/soniakeys/phasecurve/internal/photometry"
	"github.com/soniakeys/phasecurve/internal/solar"
)

// prog holds what is shared by all objects of a run.
type prog struct {
	cfg    config.Config
	family fit.Family
	params fit.Params
	src    ephem.Source // nil for table input
	sun    solar.Distancer
	out    formatter

	closers []io.Closer
}

// newProg opens the resources cfg calls for.
func newProg(ctx context.Context, cfg config.Config) (*prog, error) {
	p := &prog{cfg: cfg, sun: solar.Approx{}, out: newFormatter(cfg.Output.Format)}
	var err error
	if p.family, p.params, err = cfg.Fit.Params(); err != nil {
		return nil, err
	}
	if cfg.DEFile != "" {
		de, err := solar.OpenDE(cfg.DEFile)
		if err != nil {
			return nil, err
		}
		p.sun = de
		p.closers = append(p.closers, de)
	}
	if cfg.Input.Format == "mpc" {
		if err := p.openSource(ctx); err != nil {
			p.close()
			return nil, err
		}
	}
	return p, nil
}

// openSource sets up Horizons behind the cache, if there is one.
func (p *prog) openSource(ctx context.Context) error {
	h := p.cfg.Horizons
	client := horizons.NewClient(h.URL, h.Center, h.Timeout)
	p.src = client
	path := p.cfg.Cache.Path
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	c, err := ephem.OpenCache(ctx, path, client)
	if err != nil {
		return err
	}
	p.src = c
	p.closers = append(p.closers, c)
	if p.cfg.Verbose {
		log.Println("ephemeris cache", path)
	}
	return nil
}

func (p *prog) close() {
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			log.Println(err)
		}
	}
	p.closers = nil
}

// splitter returns the object reader for the configured input format.
func (p *prog) splitter(r io.Reader) (obsfile.Splitter, error) {
	if p.cfg.Input.Format != "mpc" {
		return obsfile.TableSplitter(r), nil
	}
	path := p.cfg.Obscodes
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	ocd, err := obsfile.ReadObscodes(path)
	if err != nil {
		return nil, err
	}
	return obsfile.MPCSplitter(r, ocd), nil
}

// sunDistances gives Sun-observer distances at jd, or nil for nil jd.
func (p *prog) sunDistances(jd []float64) ([]float64, error) {
	if jd == nil {
		return nil, nil
	}
	return solar.Distances(p.sun, jd)
}

// input builds fit input.  Objects without distances take their
// geometry from the ephemeris source.
func (p *prog) input(o *obsfile.Object) (fit.Input, error) {
	in := fit.Input{Mags: o.Mags, Errors: o.Errors}
	if o.R == nil {
		in.ObjectID = obsfile.Unpack(o.Desig)
		in.Epochs = o.JD
		return in, nil
	}
	in.HelioDist, in.ObsDist = o.R, o.Delta
	if o.Alpha != nil {
		in.PhaseAngle = o.Alpha
		return in, nil
	}
	var err error
	in.SunObsDist, err = p.sunDistances(o.JD)
	return in, err
}

func (p *prog) verbose(o *obsfile.Object) {
	if p.cfg.Verbose && o != nil {
		log.Printf("%s: %d observations", o.Desig, o.Len())
	}
}

// fitObject is the fit command's work for one object.
func (p *prog) fitObject(ctx context.Context, o *obsfile.Object, oerr error) string {
	if oerr != nil {
		return p.out.err(desigOf(o, oerr), oerr)
	}
	p.verbose(o)
	in, err := p.input(o)
	if err != nil {
		return p.out.err(o.Desig, err)
	}
	f, err := fit.New(ctx, in, p.src)
	if err != nil {
		return p.out.err(o.Desig, err)
	}
	r, err := f.Fit(p.family, p.params)
	if err != nil {
		return p.out.err(o.Desig, err)
	}
	return p.out.fit(o.Desig, r)
}

// absMagObject is the absmag command's work for one object.
func (p *prog) absMagObject(ctx context.Context, o *obsfile.Object, oerr error) string {
	if oerr != nil {
		return p.out.err(desigOf(o, oerr), oerr)
	}
	p.verbose(o)
	var a *absMags
	var err error
	if o.R == nil {
		a, err = p.absMagsByID(ctx, o)
	} else {
		a, err = p.absMagsDirect(o)
	}
	if err != nil {
		return p.out.err(o.Desig, err)
	}
	return p.out.absMag(a)
}

func (p *prog) absMagsDirect(o *obsfile.Object) (*absMags, error) {
	alpha := o.Alpha
	if alpha == nil {
		d, err := p.sunDistances(o.JD)
		if err != nil {
			return nil, err
		}
		if alpha, err = photometry.PhaseAngles(o.R, o.Delta, d); err != nil {
			return nil, err
		}
	}
	h, err := photometry.AbsMags(p.params.StartModel(p.family), o.Mags, o.R, o.Delta, alpha)
	if err != nil {
		return nil, err
	}
	return &absMags{desig: o.Desig, jd: o.JD, mags: o.Mags, alpha: alpha, h: h}, nil
}

// Without a configured G the ephemeris reference G is used with simple
// H-G.
func (p *prog) absMagsByID(ctx context.Context, o *obsfile.Object) (*absMags, error) {
	s, err := ephem.NewSeries(p.src, obsfile.Unpack(o.Desig), o.JD, o.Mags)
	if err != nil {
		return nil, err
	}
	var m photometry.Model
	if p.cfg.Fit.G0 != nil {
		m = p.params.StartModel(p.family)
	}
	h, err := s.AbsMags(ctx, m)
	if err != nil {
		return nil, err
	}
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	lt, err := s.LightTime(ctx)
	if err != nil {
		return nil, err
	}
	return &absMags{desig: o.Desig, jd: o.JD, mags: o.Mags,
		alpha: t.Alpha, h: h, lt: lt}, nil
}

func desigOf(o *obsfile.Object, err error) string {
	if o != nil {
		return o.Desig
	}
	var oe obsfile.ObjectError
	if errors.As(err, &oe) && oe.Desig != "" {
		return oe.Desig
	}
	return "-"
}

func (p *prog) run(ctx context.Context, cmd string, r io.Reader, w io.Writer) error {
	split, err := p.splitter(r)
	if err != nil {
		return err
	}
	if h := p.out.heading(cmd); h != "" {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}
	do := func(o *obsfile.Object, oerr error) string { return p.fitObject(ctx, o, oerr) }
	if cmd == "absmag" {
		do = func(o *obsfile.Object, oerr error) string { return p.absMagObject(ctx, o, oerr) }
	}
	return process(split, do, w)
}
