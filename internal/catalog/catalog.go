// Package catalog records sweep results in a SQLite database so batches can
// be compared without re-solving.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/solver"
	"github.com/san-kum/polytrope/internal/storage"
)

// Catalog wraps a SQLite connection.
type Catalog struct {
	conn *sqlx.DB
}

// Entry is one row of the summaries table. Surface fields are NULL for runs
// that never reached the surface.
type Entry struct {
	ID           string          `db:"id"`
	Sweep        string          `db:"sweep"`
	N            float64         `db:"n"`
	Step         float64         `db:"step"`
	XInit        float64         `db:"x_init"`
	MaxIter      int             `db:"max_iter"`
	Backend      string          `db:"backend"`
	XI1          sql.NullFloat64 `db:"xi1"`
	ThetaPrime   sql.NullFloat64 `db:"theta_prime"`
	DensityRatio sql.NullFloat64 `db:"density_ratio"`
	Steps        int             `db:"steps"`
	Crossed      bool            `db:"crossed"`
	CreatedAt    int64           `db:"created_at"`
}

// SweepInfo summarizes one recorded sweep.
type SweepInfo struct {
	Name      string `db:"sweep"`
	Runs      int    `db:"runs"`
	CreatedAt int64  `db:"created_at"`
}

func (s SweepInfo) Created() time.Time { return time.Unix(s.CreatedAt, 0) }

// NewEntry builds a row for one run.
func NewEntry(cfg solver.Config, sum analysis.Summary) Entry {
	return Entry{
		ID:           storage.RunID(cfg),
		N:            cfg.N,
		Step:         cfg.H,
		XInit:        cfg.XInit,
		MaxIter:      cfg.MaxIter,
		Backend:      cfg.Backend.String(),
		XI1:          nullable(sum.XI1),
		ThetaPrime:   nullable(sum.ThetaPrime),
		DensityRatio: nullable(sum.DensityRatio),
		Steps:        sum.Steps,
		Crossed:      sum.Crossed,
	}
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Summary converts the row back to an analysis.Summary.
func (e Entry) Summary() analysis.Summary {
	return analysis.Summary{
		N:            e.N,
		XI1:          orNaN(e.XI1),
		ThetaPrime:   orNaN(e.ThetaPrime),
		DensityRatio: orNaN(e.DensityRatio),
		Steps:        e.Steps,
		Crossed:      e.Crossed,
	}
}

// Open opens or creates the catalog at path.
func Open(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		id TEXT NOT NULL,
		sweep TEXT NOT NULL,
		n REAL NOT NULL,
		step REAL NOT NULL,
		x_init REAL NOT NULL,
		max_iter INTEGER NOT NULL,
		backend TEXT NOT NULL,
		xi1 REAL,
		theta_prime REAL,
		density_ratio REAL,
		steps INTEGER NOT NULL,
		crossed INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (sweep, id)
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_n ON summaries(sweep, n);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Record stores entries under sweep in one transaction. Re-recording a run
// in the same sweep replaces it.
func (c *Catalog) Record(ctx context.Context, sweep string, entries []Entry) error {
	if sweep == "" {
		return fmt.Errorf("record: sweep name is empty")
	}
	tx, err := c.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT OR REPLACE INTO summaries
		(id, sweep, n, step, x_init, max_iter, backend, xi1, theta_prime,
		 density_ratio, steps, crossed, created_at)
		VALUES (:id, :sweep, :n, :step, :x_init, :max_iter, :backend, :xi1,
		 :theta_prime, :density_ratio, :steps, :crossed, :created_at)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, e := range entries {
		e.Sweep = sweep
		if e.CreatedAt == 0 {
			e.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, e); err != nil {
			return fmt.Errorf("record %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// List returns the entries of sweep ordered by index.
func (c *Catalog) List(ctx context.Context, sweep string) ([]Entry, error) {
	var entries []Entry
	err := c.conn.SelectContext(ctx, &entries,
		"SELECT * FROM summaries WHERE sweep = ? ORDER BY n, step, id", sweep)
	return entries, err
}

// Sweeps lists every recorded sweep, newest first.
func (c *Catalog) Sweeps(ctx context.Context) ([]SweepInfo, error) {
	var sweeps []SweepInfo
	err := c.conn.SelectContext(ctx, &sweeps,
		`SELECT sweep, COUNT(*) AS runs, MAX(created_at) AS created_at
		 FROM summaries GROUP BY sweep ORDER BY created_at DESC, sweep`)
	return sweeps, err
}
