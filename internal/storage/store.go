package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/npy"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.npy"
	statsFile    = "stats.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Init       string             `json:"init"`
	Seed       int64              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Ru         float64            `json:"ru"`
	Rv         float64            `json:"rv"`
	F          float64            `json:"f"`
	K          float64            `json:"k"`
	Dt         float64            `json:"dt"`
	NSteps     int                `json:"nsteps"`
	SliceStep  int                `json:"slicestep"`
	Boundary   string             `json:"boundary"`
	Kernel     [][]float64        `json:"kernel,omitempty"`
	Frames     int                `json:"frames"`
	StepsTaken int                `json:"steps_taken"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata records the config a run was started from. Runs without a
// configured kernel record the default kernel they were integrated with.
func NewMetadata(cfg *config.Config) RunMetadata {
	kernel := cfg.Kernel
	if len(kernel) == 0 {
		kernel = dynamo.DefaultKernel().Matrix()
	}
	return RunMetadata{
		Name:      cfg.Name,
		Init:      cfg.Init,
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Ru:        cfg.Ru,
		Rv:        cfg.Rv,
		F:         cfg.F,
		K:         cfg.K,
		Dt:        cfg.Dt,
		NSteps:    cfg.NSteps,
		SliceStep: cfg.SliceStep,
		Boundary:  cfg.Boundary,
		Kernel:    kernel,
	}
}

// Config rebuilds the config a run was started from.
func (m RunMetadata) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = m.Name
	cfg.Init = m.Init
	cfg.Seed = m.Seed
	cfg.Width, cfg.Height = m.Width, m.Height
	cfg.Ru, cfg.Rv, cfg.F, cfg.K = m.Ru, m.Rv, m.F, m.K
	cfg.Dt = m.Dt
	cfg.NSteps = m.NSteps
	cfg.SliceStep = m.SliceStep
	cfg.Boundary = m.Boundary
	cfg.Kernel = m.Kernel
	return cfg
}

// Save writes a run directory holding the metadata, the dense series as
// .npy with shape (W, H, frames, 2) and per-frame statistics. It returns the
// new run ID.
func (s *Store) Save(meta RunMetadata, ts *dynamo.TimeSeries) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Frames = ts.Len()
	if meta.Width == 0 {
		meta.Width, meta.Height = ts.W, ts.H
	}
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	sf, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer sf.Close()
	if err := npy.Write(sf, ts.Dense(), ts.Shape()); err != nil {
		return "", err
	}

	if err := writeStats(filepath.Join(runDir, statsFile), analysis.SeriesStats(ts)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var statsHeader = []string{"step", "time", "u_mean", "u_std", "u_min", "u_max", "v_mean", "v_std", "v_min", "v_max"}

func writeStats(path string, stats []analysis.FrameStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, st := range stats {
		row := []string{
			strconv.Itoa(st.Step), format(st.Time),
			format(st.U.Mean), format(st.U.Std), format(st.U.Min), format(st.U.Max),
			format(st.V.Mean), format(st.V.Std), format(st.V.Min), format(st.V.Max),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads the stored series back with its time step and slice
// interval from the metadata.
func (s *Store) LoadSeries(runID string) (*dynamo.TimeSeries, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, shape, err := npy.Read(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	slice := meta.SliceStep
	if slice <= 0 {
		slice = 1
	}
	return dynamo.SeriesFromDense(data, shape, meta.Dt, slice)
}

func (s *Store) LoadStats(runID string) ([]analysis.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []analysis.FrameStats{}, nil
	}

	out := make([]analysis.FrameStats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(statsHeader) {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, len(record)-1)
		for j := range vals {
			vals[j], _ = strconv.ParseFloat(record[j+1], 64)
		}
		out = append(out, analysis.FrameStats{
			Step: step,
			Time: vals[0],
			U:    analysis.Summary{Mean: vals[1], Std: vals[2], Min: vals[3], Max: vals[4]},
			V:    analysis.Summary{Mean: vals[5], Std: vals[6], Min: vals[7], Max: vals[8]},
		})
	}

	return out, nil
}
