// Public domain.

// Package horizons is a client for the JPL Horizons ephemeris service.
//
// Client implements ephem.Source.  It requests observer tables with
// quantities 19, 20, 21, and 24 (heliocentric range, observer range, light
// time, and Sun-target-observer angle) at a list of Julian dates.
//
// Requests are not retried.
package horizons

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/phasecurve/internal/ephem"
)

// Defaults for NewClient.
const (
	DefaultURL     = "https://ssd.jpl.nasa.gov/api/horizons.api"
	DefaultCenter  = "500@399" // geocenter
	DefaultTimeout = 60 * time.Second
)

// maximum epochs per request, keeping URLs a reasonable length
const maxEpochs = 100

var (
	// ErrAPI reports a failed request or an unusable response.
	ErrAPI = errors.New("horizons: API error")

	// ErrNoEphemeris reports a response without ephemeris data, as for
	// an unknown or ambiguous object.
	ErrNoEphemeris = errors.New("horizons: no ephemeris")
)

// Client queries Horizons.
type Client struct {
	url    string
	center string
	hc     *http.Client
}

// NewClient returns a client for the API at apiURL, for an observer at
// center.  Empty arguments select the defaults.
func NewClient(apiURL, center string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	if center == "" {
		center = DefaultCenter
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: apiURL, center: center, hc: &http.Client{Timeout: timeout}}
}

// Ephemerides implements ephem.Source.
func (c *Client) Ephemerides(ctx context.Context, id string, jd []float64) (*ephem.Table, error) {
	t := &ephem.Table{}
	for len(jd) > 0 {
		n := min(len(jd), maxEpochs)
		part, err := c.query(ctx, id, jd[:n])
		if err != nil {
			return nil, err
		}
		if t.Len() == 0 {
			t.RefG, t.HasRefG = part.RefG, part.HasRefG
		}
		t.R = append(t.R, part.R...)
		t.Delta = append(t.Delta, part.Delta...)
		t.Alpha = append(t.Alpha, part.Alpha...)
		t.LightTime = append(t.LightTime, part.LightTime...)
		jd = jd[n:]
	}
	return t, nil
}

// Values are quoted as the API requires.
func (c *Client) params(id string, jd []float64) url.Values {
	tl := make([]string, len(jd))
	for i, j := range jd {
		tl[i] = strconv.FormatFloat(j, 'f', -1, 64)
	}
	return url.Values{
		"format":      {"json"},
		"COMMAND":     {"'" + id + ";'"},
		"OBJ_DATA":    {"YES"},
		"MAKE_EPHEM":  {"YES"},
		"EPHEM_TYPE":  {"OBSERVER"},
		"CENTER":      {"'" + c.center + "'"},
		"TLIST":       {"'" + strings.Join(tl, " ") + "'"},
		"TLIST_TYPE":  {"JD"},
		"QUANTITIES":  {"'19,20,21,24'"},
		"CSV_FORMAT":  {"YES"},
		"ANG_FORMAT":  {"DEG"},
		"EXTRA_PREC":  {"YES"},
		"TIME_DIGITS": {"FRACSEC"},
	}
}

type response struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

func (c *Client) query(ctx context.Context, id string, jd []float64) (*ephem.Table, error) {
	u := c.url + "?" + c.params(id, jd).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAPI, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %w", ErrAPI, id, err)
	}
	var r response
	jerr := json.Unmarshal(body, &r)
	switch {
	case jerr == nil && r.Error != "":
		return nil, fmt.Errorf("%w: %s: %s", ErrAPI, id, strings.TrimSpace(r.Error))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s: HTTP %s", ErrAPI, id, resp.Status)
	case jerr != nil:
		return nil, fmt.Errorf("%w: %s: decode response: %w", ErrAPI, id, jerr)
	}
	t, err := parseResult(r.Result, len(jd))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return t, nil
}

var gRE = regexp.MustCompile(`\bG=\s*([-+]?\d*\.?\d+)`)

// parseResult reads the text of an observer table.
func parseResult(res string, n int) (*ephem.Table, error) {
	soe := strings.Index(res, "$$SOE")
	eoe := strings.Index(res, "$$EOE")
	if soe < 0 || eoe < soe {
		return nil, fmt.Errorf("%w: %s", ErrNoEphemeris, lastLine(res))
	}
	head := res[:soe]
	t := &ephem.Table{}
	if m := gRE.FindStringSubmatch(head); m != nil {
		if g, err := strconv.ParseFloat(m[1], 64); err == nil {
			t.RefG, t.HasRefG = g, true
		}
	}
	col, err := columns(head)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(res[soe+len("$$SOE") : eoe]))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: ephemeris rows: %v", ErrAPI, err)
	}
	for _, rec := range recs {
		var v [4]float64
		for i, c := range col {
			if c >= len(rec) {
				return nil, fmt.Errorf("%w: short row %q", ErrAPI, strings.Join(rec, ","))
			}
			if v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[c]), 64); err != nil {
				return nil, fmt.Errorf("%w: row %q: %v", ErrAPI, strings.Join(rec, ","), err)
			}
		}
		t.R = append(t.R, v[0])
		t.Delta = append(t.Delta, v[1])
		t.LightTime = append(t.LightTime, time.Duration(v[2]*float64(time.Minute)))
		t.Alpha = append(t.Alpha, unit.AngleFromDeg(v[3]))
	}
	if t.Len() != n {
		return nil, fmt.Errorf("%w: %d rows for %d epochs", ErrNoEphemeris, t.Len(), n)
	}
	return t, nil
}

// columns finds the indexes of r, delta, light time, and S-T-O in the
// header line preceding $$SOE.
func columns(head string) ([4]int, error) {
	col := [4]int{-1, -1, -1, -1}
	lines := strings.Split(strings.TrimRight(head, "\n"), "\n")
	var hdr string
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if l != "" && !strings.HasPrefix(l, "*") {
			hdr = l
			break
		}
	}
	for i, f := range strings.Split(hdr, ",") {
		switch f = strings.TrimSpace(f); {
		case f == "r":
			col[0] = i
		case f == "delta":
			col[1] = i
		case strings.HasPrefix(f, "1-way"):
			col[2] = i
		case f == "S-T-O":
			col[3] = i
		}
	}
	for _, c := range col {
		if c < 0 {
			return col, fmt.Errorf("%w: unexpected table header %q", ErrAPI, hdr)
		}
	}
	return col, nil
}

// the explanation of a failed lookup is at the end of the result
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	return s
}
