package config

// Presets are ready-to-run scenes. Every emitter box sits inside the
// grid's safe interior so initial transfers conserve mass exactly.
var Presets = map[string]*Config{
	"block2d": {
		CellSize:      0.25,
		GridDims:      [3]int{32, 32, 1},
		Dt:            0.01,
		Duration:      4.0,
		Gravity:       [3]float64{0, -9.8, 0},
		BoundaryLayer: 2,
		SnapshotEvery: 10,
		Emitters: []Emitter{
			{Min: [3]float64{-1, 0.5, 0}, Max: [3]float64{1, 2.5, 0}, Spacing: 0.125, Mass: 1},
		},
	},
	"column2d": {
		CellSize:      0.25,
		GridDims:      [3]int{48, 48, 1},
		Dt:            0.005,
		Duration:      6.0,
		Gravity:       [3]float64{0, -9.8, 0},
		BoundaryLayer: 2,
		SnapshotEvery: 20,
		Emitters: []Emitter{
			{Min: [3]float64{-0.5, -3, 0}, Max: [3]float64{0.5, 4, 0}, Spacing: 0.125, Mass: 1},
		},
	},
	"block3d": {
		CellSize:      0.25,
		GridDims:      [3]int{24, 24, 24},
		Dt:            0.01,
		Duration:      3.0,
		Gravity:       [3]float64{0, -9.8, 0},
		BoundaryLayer: 2,
		SnapshotEvery: 10,
		Emitters: []Emitter{
			{Min: [3]float64{-0.75, 0.5, -0.75}, Max: [3]float64{0.75, 2, 0.75}, Spacing: 0.125, Mass: 1},
		},
	},
	"twinblocks2d": {
		CellSize:      0.25,
		GridDims:      [3]int{48, 32, 1},
		Dt:            0.01,
		Duration:      5.0,
		Gravity:       [3]float64{0, -9.8, 0},
		BoundaryLayer: 2,
		SnapshotEvery: 10,
		Emitters: []Emitter{
			{Min: [3]float64{-4, 0.5, 0}, Max: [3]float64{-2, 2, 0}, Spacing: 0.125, Mass: 1},
			{Min: [3]float64{2, 1.5, 0}, Max: [3]float64{4, 3, 0}, Spacing: 0.125, Mass: 2},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
