package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCellSize      = 0.25
	DefaultDt            = 0.01
	DefaultDuration      = 4.0
	DefaultBoundaryLayer = 2
	DefaultSnapshotEvery = 10
	DefaultGravityY      = -9.8
)

// Config describes one simulation scene: the background grid, the time
// stepping, and the particle blocks seeded into it.
type Config struct {
	CellSize      float64    `yaml:"cell_size"`
	GridDims      [3]int     `yaml:"grid_dims"`
	Dt            float64    `yaml:"dt"`
	Duration      float64    `yaml:"duration"`
	Gravity       [3]float64 `yaml:"gravity"`
	BoundaryLayer int        `yaml:"boundary_layer"`
	SnapshotEvery int        `yaml:"snapshot_every"`
	Emitters      []Emitter  `yaml:"emitters"`
}

// Emitter seeds a lattice of equal-mass particles over a box at setup
// time. A zero z extent seeds a single flat layer.
type Emitter struct {
	Min     [3]float64 `yaml:"min"`
	Max     [3]float64 `yaml:"max"`
	Spacing float64    `yaml:"spacing"`
	Mass    float64    `yaml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		CellSize:      DefaultCellSize,
		GridDims:      [3]int{32, 32, 1},
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		Gravity:       [3]float64{0, DefaultGravityY, 0},
		BoundaryLayer: DefaultBoundaryLayer,
		SnapshotEvery: DefaultSnapshotEvery,
		Emitters: []Emitter{
			{Min: [3]float64{-1, 0.5, 0}, Max: [3]float64{1, 2.5, 0}, Spacing: 0.125, Mass: 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the simulation constructors would
// refuse, so user input fails with an error instead of a panic.
func (c *Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %g", c.CellSize)
	}
	for axis, n := range c.GridDims {
		if n <= 0 {
			return fmt.Errorf("grid_dims[%d] must be positive, got %d", axis, n)
		}
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.BoundaryLayer < 0 {
		return fmt.Errorf("boundary_layer must be non-negative, got %d", c.BoundaryLayer)
	}
	if c.SnapshotEvery < 1 {
		return fmt.Errorf("snapshot_every must be at least 1, got %d", c.SnapshotEvery)
	}
	for i, e := range c.Emitters {
		if e.Spacing <= 0 {
			return fmt.Errorf("emitter %d: spacing must be positive, got %g", i, e.Spacing)
		}
		if e.Mass <= 0 {
			return fmt.Errorf("emitter %d: mass must be positive, got %g", i, e.Mass)
		}
		for axis := 0; axis < 3; axis++ {
			if e.Min[axis] > e.Max[axis] {
				return fmt.Errorf("emitter %d: min exceeds max on axis %d", i, axis)
			}
		}
		if e.Max[0]-e.Min[0] <= 0 || e.Max[1]-e.Min[1] <= 0 {
			return fmt.Errorf("emitter %d: box must have positive extent on x and y", i)
		}
		for axis := 0; axis < 3; axis++ {
			extent := e.Max[axis] - e.Min[axis]
			if extent > 0 && e.Spacing > extent {
				return fmt.Errorf("emitter %d: spacing %g exceeds extent on axis %d", i, e.Spacing, axis)
			}
		}
	}
	return nil
}

// Is2D reports whether the configured grid is a single z layer.
func (c *Config) Is2D() bool {
	return c.GridDims[2] == 1
}
