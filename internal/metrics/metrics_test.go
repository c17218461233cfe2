package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/callumhay/mpm-go/internal/mpm"
)

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	particles := []mpm.Particle{
		{Mass: 2, Vel: mgl64.Vec3{3, 0, 0}},
		{Mass: 1, Vel: mgl64.Vec3{0, 4, 0}},
	}

	m.Observe(particles, 0)
	expected := 0.5*2*9 + 0.5*1*16
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("kinetic energy = %v, expected %v", m.Value(), expected)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("value after reset = %v, expected 0", m.Value())
	}
}

func TestMomentumNormCancellation(t *testing.T) {
	m := NewMomentumNorm()
	particles := []mpm.Particle{
		{Mass: 1, Vel: mgl64.Vec3{2, 0, 0}},
		{Mass: 2, Vel: mgl64.Vec3{-1, 0, 0}},
	}

	m.Observe(particles, 0)
	if m.Value() != 0 {
		t.Errorf("momentum norm = %v, expected 0 for opposing flows", m.Value())
	}
}

func TestContainmentFraction(t *testing.T) {
	lo, hi := mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, 1, 0.5}
	c := NewContainment(lo, hi)

	inside := []mpm.Particle{{Pos: mgl64.Vec3{0, 0, 0.25}}}
	outside := []mpm.Particle{{Pos: mgl64.Vec3{2, 0, 0.25}}}

	c.Observe(inside, 0)
	c.Observe(inside, 1)
	c.Observe(outside, 2)
	c.Observe(inside, 3)

	if math.Abs(c.Value()-0.75) > 1e-12 {
		t.Errorf("containment = %v, expected 0.75", c.Value())
	}

	c.Reset()
	if c.Value() != 1.0 {
		t.Errorf("containment after reset = %v, expected 1", c.Value())
	}
}

func TestSpeedStats(t *testing.T) {
	s := NewSpeedStats()
	particles := []mpm.Particle{
		{Vel: mgl64.Vec3{1, 0, 0}},
		{Vel: mgl64.Vec3{0, 3, 0}},
	}

	s.Observe(particles, 0)
	if math.Abs(s.Value()-2.0) > 1e-12 {
		t.Errorf("mean speed = %v, expected 2", s.Value())
	}
	if math.Abs(s.Std()-math.Sqrt2) > 1e-12 {
		t.Errorf("speed stddev = %v, expected sqrt(2)", s.Std())
	}

	s.Observe(nil, 1)
	if s.Value() != 0 || s.Std() != 0 {
		t.Error("empty frame should zero the stats")
	}
}
