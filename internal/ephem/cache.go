// Public domain.

package ephem

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/soniakeys/unit"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
    id    TEXT PRIMARY KEY,
    ref_g REAL
);

CREATE TABLE IF NOT EXISTS ephemerides (
    id         TEXT NOT NULL,
    jd         REAL NOT NULL,
    r          REAL NOT NULL,
    delta      REAL NOT NULL,
    alpha      REAL NOT NULL,
    light_time INTEGER NOT NULL,
    PRIMARY KEY (id, jd)
);
`

// Cache is a Source that keeps rows from an upstream Source in a SQLite
// database.  Requests fully covered by the database are answered without
// calling upstream.  Otherwise only the missing epochs are requested.
//
// Phase angles are stored in degrees, light time in nanoseconds.
type Cache struct {
	db       *sql.DB
	upstream Source
}

// OpenCache opens or creates the cache database at path.
func OpenCache(ctx context.Context, path string, upstream Source) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ephem: open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephem: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephem: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephem: create schema: %w", err)
	}
	return &Cache{db: db, upstream: upstream}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Ephemerides implements Source.  Upstream errors are returned unchanged.
func (c *Cache) Ephemerides(ctx context.Context, id string, jd []float64) (*Table, error) {
	have := make(map[float64]row, len(jd))
	seen := make(map[float64]bool, len(jd))
	var missing []float64
	for _, j := range jd {
		if seen[j] {
			continue
		}
		seen[j] = true
		r, ok, err := c.lookup(ctx, id, j)
		if err != nil {
			return nil, err
		}
		if ok {
			have[j] = r
		} else {
			missing = append(missing, j)
		}
	}
	refG, hasRefG, known, err := c.object(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 || !known {
		if len(missing) == 0 {
			// rows cached by an older run without the object record
			missing = jd[:1]
		}
		up, err := Fetch(ctx, c.upstream, id, missing)
		if err != nil {
			return nil, err
		}
		refG, hasRefG = up.RefG, up.HasRefG
		if err := c.store(ctx, id, missing, up); err != nil {
			return nil, err
		}
		for i, j := range missing {
			have[j] = up.row(i)
		}
	}
	t := &Table{RefG: refG, HasRefG: hasRefG}
	for _, j := range jd {
		t.append(have[j])
	}
	return t, nil
}

func (c *Cache) lookup(ctx context.Context, id string, jd float64) (row, bool, error) {
	const q = `SELECT r, delta, alpha, light_time FROM ephemerides WHERE id = ? AND jd = ?`
	var r row
	var alpha float64
	var lt int64
	err := c.db.QueryRowContext(ctx, q, id, jd).Scan(&r.r, &r.delta, &alpha, &lt)
	switch {
	case err == sql.ErrNoRows:
		return r, false, nil
	case err != nil:
		return r, false, fmt.Errorf("ephem: lookup %s at %v: %w", id, jd, err)
	}
	r.alpha = unit.AngleFromDeg(alpha)
	r.lt = time.Duration(lt)
	return r, true, nil
}

func (c *Cache) object(ctx context.Context, id string) (refG float64, hasRefG, known bool, err error) {
	var g sql.NullFloat64
	err = c.db.QueryRowContext(ctx, `SELECT ref_g FROM objects WHERE id = ?`, id).Scan(&g)
	switch {
	case err == sql.ErrNoRows:
		return 0, false, false, nil
	case err != nil:
		return 0, false, false, fmt.Errorf("ephem: lookup object %s: %w", id, err)
	}
	return g.Float64, g.Valid, true, nil
}

func (c *Cache) store(ctx context.Context, id string, jd []float64, t *Table) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ephem: begin: %w", err)
	}
	defer tx.Rollback()

	g := sql.NullFloat64{Float64: t.RefG, Valid: t.HasRefG}
	const qo = `
		INSERT INTO objects (id, ref_g) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET ref_g = excluded.ref_g`
	if _, err := tx.ExecContext(ctx, qo, id, g); err != nil {
		return fmt.Errorf("ephem: store object %s: %w", id, err)
	}
	const qe = `
		INSERT OR REPLACE INTO ephemerides (id, jd, r, delta, alpha, light_time)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i, j := range jd {
		r := t.row(i)
		if _, err := tx.ExecContext(ctx, qe, id, j, r.r, r.delta, r.alpha.Deg(), int64(r.lt)); err != nil {
			return fmt.Errorf("ephem: store %s at %v: %w", id, j, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ephem: commit: %w", err)
	}
	return nil
}
