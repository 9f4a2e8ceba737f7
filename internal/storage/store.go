package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
	"github.com/san-kum/polytrope/internal/solver"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv.zst"
)

// ErrNotFound is returned for a run ID with no stored metadata.
var ErrNotFound = errors.New("run not found")

// Store keeps one directory per run under a base URL. Any afs scheme works;
// a plain path is a local directory.
type Store struct {
	fs      afs.Service
	baseURL string
}

func New(baseURL string) *Store {
	return &Store{fs: afs.New(), baseURL: baseURL}
}

func (s *Store) BaseURL() string { return s.baseURL }

// RunMetadata describes a stored run. Surface fields are zero when the run
// never crossed y = 0.
type RunMetadata struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	N            float64      `json:"n"`
	H            float64      `json:"h"`
	XInit        float64      `json:"x_init"`
	MaxIter      int          `json:"max_iter"`
	Backend      string       `json:"backend"`
	Steps        int          `json:"steps"`
	Points       int          `json:"points"`
	Crossed      bool         `json:"crossed"`
	XI1          float64      `json:"xi1,omitempty"`
	ThetaPrime   float64      `json:"theta_prime,omitempty"`
	DensityRatio float64      `json:"density_ratio,omitempty"`
	Overshoot    *emden.State `json:"overshoot,omitempty"`
}

// Summary converts the metadata back into an analysis.Summary.
func (m *RunMetadata) Summary() analysis.Summary {
	s := analysis.Summary{
		N:            m.N,
		XI1:          m.XI1,
		ThetaPrime:   m.ThetaPrime,
		DensityRatio: m.DensityRatio,
		Steps:        m.Steps,
		Crossed:      m.Crossed,
	}
	if !m.Crossed {
		s.XI1, s.ThetaPrime, s.DensityRatio = math.NaN(), math.NaN(), math.NaN()
	}
	return s
}

// Config rebuilds the solver configuration of the run.
func (m *RunMetadata) Config() (solver.Config, error) {
	cfg := solver.Config{XInit: m.XInit, N: m.N, H: m.H, MaxIter: m.MaxIter}
	b, err := integrators.ParseBackend(m.Backend)
	if err != nil {
		return cfg, err
	}
	cfg.Backend = b
	return cfg, nil
}

// RunID is derived from the parameters only, so saving the same
// configuration twice overwrites the earlier run.
func RunID(cfg solver.Config) string {
	canonical := fmt.Sprintf("n=%s;h=%s;x_init=%s;max_iter=%d;backend=%s",
		formatFloat(cfg.N), formatFloat(cfg.H), formatFloat(cfg.XInit), cfg.MaxIter, cfg.Backend)
	return fmt.Sprintf("n%s_%016x", formatFloat(cfg.N), xxhash.Sum64String(canonical))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) runURL(id string, file string) string {
	return url.Join(s.baseURL, id, file)
}

// Save writes the metadata and the compressed trajectory of one run.
func (s *Store) Save(ctx context.Context, cfg solver.Config, traj *emden.Trajectory, sum analysis.Summary) (string, error) {
	id := RunID(cfg)

	meta := RunMetadata{
		ID:        id,
		Timestamp: time.Now().UTC(),
		N:         cfg.N,
		H:         cfg.H,
		XInit:     cfg.XInit,
		MaxIter:   cfg.MaxIter,
		Backend:   cfg.Backend.String(),
		Steps:     traj.Iterations,
		Points:    traj.Len(),
		Crossed:   sum.Crossed,
	}
	if sum.Crossed {
		meta.XI1, meta.ThetaPrime, meta.DensityRatio = sum.XI1, sum.ThetaPrime, sum.DensityRatio
		over := traj.Overshoot
		meta.Overshoot = &over
	}

	var csvBuf bytes.Buffer
	if err := writeTrajectory(&csvBuf, traj); err != nil {
		return "", err
	}
	if err := s.fs.Upload(ctx, s.runURL(id, trajectoryFile), 0644, bytes.NewReader(compress(csvBuf.Bytes()))); err != nil {
		return "", fmt.Errorf("upload trajectory: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := s.fs.Upload(ctx, s.runURL(id, metadataFile), 0644, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}
	return id, nil
}

func (s *Store) Load(ctx context.Context, id string) (*RunMetadata, error) {
	URL := s.runURL(id, metadataFile)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", URL, err)
	}
	return &meta, nil
}

// LoadTrajectory restores the trajectory of a run, including its
// termination state.
func (s *Store) LoadTrajectory(ctx context.Context, id string) (*emden.Trajectory, error) {
	meta, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := s.fs.DownloadWithURL(ctx, s.runURL(id, trajectoryFile))
	if err != nil {
		return nil, err
	}
	data, err := decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	traj := emden.NewTrajectory(meta.N, meta.H, meta.XInit, meta.MaxIter, meta.Points)
	if err := readTrajectory(bytes.NewReader(data), traj); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	traj.Iterations = meta.Steps
	traj.Crossed = meta.Crossed
	if meta.Overshoot != nil {
		traj.Overshoot = *meta.Overshoot
	}
	return traj, nil
}

// List returns the metadata of every readable run, ordered by index then ID.
// Entries without valid metadata, the base directory included, are skipped.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	ok, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []RunMetadata{}, nil
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(objects))
	for _, obj := range objects {
		if !obj.IsDir() {
			continue
		}
		meta, err := s.Load(ctx, obj.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].N != runs[j].N {
			return runs[i].N < runs[j].N
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.fs.Delete(ctx, url.Join(s.baseURL, id))
}

func writeTrajectory(w io.Writer, traj *emden.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	row := make([]string, 3)
	for i := range traj.X {
		row[0] = formatFloat(traj.X[i])
		row[1] = formatFloat(traj.Y[i])
		row[2] = formatFloat(traj.Z[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readTrajectory(r io.Reader, traj *emden.Trajectory) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		return fmt.Errorf("trajectory header: %w", err)
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		var v [3]float64
		for i := range v {
			if v[i], err = strconv.ParseFloat(rec[i], 64); err != nil {
				return fmt.Errorf("trajectory line %d: %w", line, err)
			}
		}
		traj.Append(emden.State{X: v[0], Y: v[1], Z: v[2]})
	}
}
