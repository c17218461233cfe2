package storage

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/callumhay/mpm-go/internal/config"
	"github.com/callumhay/mpm-go/internal/mpm"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	frames := []Frame{
		{Time: 0, Particles: []mpm.Particle{
			{Active: true, Mass: 1, Pos: mgl64.Vec3{0.25, 0.5, 0}},
			{Active: true, Mass: 1, Pos: mgl64.Vec3{0.75, 0.5, 0}},
		}},
		{Time: 0.1, Particles: []mpm.Particle{
			{Active: true, Mass: 1, Pos: mgl64.Vec3{0.25, 0.4, 0}, Vel: mgl64.Vec3{0, -0.98, 0}},
			{Active: true, Mass: 1, Pos: mgl64.Vec3{0.75, 0.4, 0}, Vel: mgl64.Vec3{0, -0.98, 0}},
		}},
	}
	metrics := map[string]float64{"kinetic_energy": 0.9604}

	runID, err := st.Save("block2d", cfg, metrics, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("list = %+v, expected single run %s", runs, runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "block2d" || meta.ParticleCount != 2 || meta.FrameCount != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 0.9604 {
		t.Errorf("metrics = %v", meta.Metrics)
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d frames, expected 2", len(loaded))
	}
	if len(loaded[1].Particles) != 2 {
		t.Fatalf("frame 1 has %d particles, expected 2", len(loaded[1].Particles))
	}
	if math.Abs(loaded[1].Particles[0].Vel.Y()+0.98) > 1e-6 {
		t.Errorf("vy = %v, expected -0.98", loaded[1].Particles[0].Vel.Y())
	}
}

func TestListEmptyStore(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}
