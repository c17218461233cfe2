// Package storage records finished simulation runs as a directory of
// metadata and particle-frame artifacts. These are post-hoc recordings
// for inspection and plotting, not resumable simulation state.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/callumhay/mpm-go/internal/config"
	"github.com/callumhay/mpm-go/internal/mpm"
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

// Frame is one recorded snapshot of the particle population.
type Frame struct {
	Time      float64
	Particles []mpm.Particle
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scene         string             `json:"scene"`
	Timestamp     time.Time          `json:"timestamp"`
	CellSize      float64            `json:"cell_size"`
	GridDims      [3]int             `json:"grid_dims"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	BoundaryLayer int                `json:"boundary_layer"`
	ParticleCount int                `json:"particle_count"`
	FrameCount    int                `json:"frame_count"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes one run directory: metadata.json plus particles.csv with a
// row per particle per recorded frame.
func (s *Store) Save(scene string, cfg *config.Config, metrics map[string]float64, frames []Frame) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	particleCount := 0
	if len(frames) > 0 {
		particleCount = len(frames[0].Particles)
	}

	meta := RunMetadata{
		ID:            runID,
		Scene:         scene,
		Timestamp:     time.Now(),
		CellSize:      cfg.CellSize,
		GridDims:      cfg.GridDims,
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		BoundaryLayer: cfg.BoundaryLayer,
		ParticleCount: particleCount,
		FrameCount:    len(frames),
		Metrics:       metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "particles.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "particle", "mass", "x", "y", "z", "vx", "vy", "vz"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	fmtF := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, frame := range frames {
		for i, p := range frame.Particles {
			row := []string{
				fmtF(frame.Time),
				strconv.Itoa(i),
				fmtF(p.Mass),
				fmtF(p.Pos.X()), fmtF(p.Pos.Y()), fmtF(p.Pos.Z()),
				fmtF(p.Vel.X()), fmtF(p.Vel.Y()), fmtF(p.Vel.Z()),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads particles.csv back into ordered frames. Rows with
// unparsable fields are skipped, matching the store's tolerant reads.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "particles.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0)
	for _, record := range records[1:] {
		if len(record) < 9 {
			continue
		}
		vals := make([]float64, 0, 8)
		ok := true
		for _, col := range []int{0, 2, 3, 4, 5, 6, 7, 8} {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}

		t := vals[0]
		if len(frames) == 0 || frames[len(frames)-1].Time != t {
			frames = append(frames, Frame{Time: t})
		}
		current := &frames[len(frames)-1]
		current.Particles = append(current.Particles, mpm.Particle{
			Active: true,
			Mass:   vals[1],
			Pos:    mgl64.Vec3{vals[2], vals[3], vals[4]},
			Vel:    mgl64.Vec3{vals[5], vals[6], vals[7]},
		})
	}

	return frames, nil
}
