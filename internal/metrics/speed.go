package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/callumhay/mpm-go/internal/mpm"
)

// SpeedStats summarizes the particle speed distribution of the last
// observed frame. Value reports the mean; Std the standard deviation.
type SpeedStats struct {
	speeds []float64
	mean   float64
	std    float64
}

func NewSpeedStats() *SpeedStats {
	return &SpeedStats{}
}

func (s *SpeedStats) Name() string { return "mean_speed" }

func (s *SpeedStats) Observe(particles []mpm.Particle, t float64) {
	s.speeds = s.speeds[:0]
	for _, p := range particles {
		s.speeds = append(s.speeds, p.Vel.Len())
	}
	if len(s.speeds) == 0 {
		s.mean, s.std = 0, 0
		return
	}
	s.mean = stat.Mean(s.speeds, nil)
	s.std = 0
	if len(s.speeds) > 1 {
		s.std = stat.StdDev(s.speeds, nil)
	}
}

func (s *SpeedStats) Value() float64 { return s.mean }

func (s *SpeedStats) Std() float64 { return s.std }

func (s *SpeedStats) Reset() {
	s.speeds = s.speeds[:0]
	s.mean, s.std = 0, 0
}
