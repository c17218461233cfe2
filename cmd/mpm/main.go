package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/callumhay/mpm-go/internal/config"
	"github.com/callumhay/mpm-go/internal/metrics"
	"github.com/callumhay/mpm-go/internal/mpm"
	"github.com/callumhay/mpm-go/internal/storage"
	"github.com/callumhay/mpm-go/internal/viz"
)

var (
	dataDir       string
	configFile    string
	dt            float64
	duration      float64
	cellSize      float64
	gridDims      []int
	boundaryLayer int
	snapshotEvery int
	stepsPerTick  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mpm",
		Short: "material point method particle sandbox",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mpm", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveSimulation,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "substeps", 3, "simulation steps per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot aggregate trajectories of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or dump one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&cellSize, "cell-size", config.DefaultCellSize, "grid cell size")
	cmd.Flags().IntSliceVar(&gridDims, "grid", []int{32, 32, 1}, "grid cells per axis (x,y,z)")
	cmd.Flags().IntVar(&boundaryLayer, "boundary", config.DefaultBoundaryLayer, "no-flow boundary layer thickness in cells")
	cmd.Flags().IntVar(&snapshotEvery, "snapshot-every", config.DefaultSnapshotEvery, "record every n-th step")
}

// resolveScene merges preset, config file, and changed flags into one
// validated scene config, most specific source last.
func resolveScene(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	scene := "default"
	cfg := config.DefaultConfig()

	if len(args) == 1 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		scene = args[0]
		*cfg = *preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		scene = "custom"
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if cmd.Flags().Changed("grid") {
		if len(gridDims) != 3 {
			return "", nil, fmt.Errorf("--grid needs exactly 3 values, got %d", len(gridDims))
		}
		copy(cfg.GridDims[:], gridDims)
	}
	if cmd.Flags().Changed("boundary") {
		cfg.BoundaryLayer = boundaryLayer
	}
	if cmd.Flags().Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshotEvery
	}

	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return scene, cfg, nil
}

// buildSimulation constructs and seeds a simulation from a validated
// scene config.
func buildSimulation(cfg *config.Config) *mpm.Simulation {
	dims := mpm.CellIndex{X: cfg.GridDims[0], Y: cfg.GridDims[1], Z: cfg.GridDims[2]}
	s := mpm.New(cfg.CellSize, dims)
	s.Gravity = mgl64.Vec3{cfg.Gravity[0], cfg.Gravity[1], cfg.Gravity[2]}
	s.BoundaryLayer = cfg.BoundaryLayer
	for _, e := range cfg.Emitters {
		s.AddParticles(
			mgl64.Vec3{e.Min[0], e.Min[1], e.Min[2]},
			mgl64.Vec3{e.Max[0], e.Max[1], e.Max[2]},
			e.Spacing, e.Mass,
		)
	}
	return s
}

func sceneMetrics(s *mpm.Simulation) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMomentumNorm(),
		metrics.NewContainment(s.Grid().MinCorner(), s.Grid().MaxCorner()),
		metrics.NewSpeedStats(),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim := buildSimulation(cfg)
	trackers := sceneMetrics(sim)

	steps := int(cfg.Duration / cfg.Dt)
	frames := make([]storage.Frame, 0, steps/cfg.SnapshotEvery+2)

	record := func() {
		ps := sim.Particles()
		for _, m := range trackers {
			m.Observe(ps, sim.Time())
		}
		frame := storage.Frame{Time: sim.Time(), Particles: make([]mpm.Particle, len(ps))}
		copy(frame.Particles, ps)
		frames = append(frames, frame)
	}

	fmt.Printf("running %s: %d particles, %d steps\n", scene, len(sim.Particles()), steps)
	start := time.Now()

	record()
	for i := 1; i <= steps; i++ {
		sim.Step(cfg.Dt)
		if i%cfg.SnapshotEvery == 0 || i == steps {
			record()
		}
	}
	elapsed := time.Since(start)

	results := make(map[string]float64, len(trackers))
	for _, m := range trackers {
		results[m.Name()] = m.Value()
	}

	runID, err := st.Save(scene, cfg, results, frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(steps)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(frames))
	fmt.Println("\nmetrics:")
	for name, val := range results {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func liveSimulation(cmd *cobra.Command, args []string) error {
	scene, cfg, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(scene, cfg.Dt, stepsPerTick, func() *mpm.Simulation {
		return buildSimulation(cfg)
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tGRID\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%dx%dx%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.GridDims[0], run.GridDims[1], run.GridDims[2],
			run.ParticleCount,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	height := make([]float64, len(frames))
	energy := make([]float64, len(frames))
	speed := make([]float64, len(frames))
	ke := metrics.NewKineticEnergy()
	ms := metrics.NewSpeedStats()
	for i, frame := range frames {
		sumY := 0.0
		for _, p := range frame.Particles {
			sumY += p.Pos.Y()
		}
		if n := len(frame.Particles); n > 0 {
			height[i] = sumY / float64(n)
		}
		ke.Observe(frame.Particles, frame.Time)
		ms.Observe(frame.Particles, frame.Time)
		energy[i] = ke.Value()
		speed[i] = ms.Value()
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{height, "mean particle height"},
		{energy, "kinetic energy"},
		{speed, "mean speed"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
