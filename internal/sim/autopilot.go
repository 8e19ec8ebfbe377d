package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/geom"
	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

// closeEnough is the planar distance at which the autopilot stops walking
// toward a target it is already facing.
const closeEnough = 1.2

// Autopilot plays the player for headless runs: walk to the nearest living
// enemy, swing whenever it sits inside the cone, and optionally start the
// next wave as soon as the previous one is cleared.
type Autopilot struct {
	AutoWaves bool
}

// Intent computes this tick's input.
func (a Autopilot) Intent(s *Session) Intent {
	p := s.Player()
	if p.Dead() {
		return Intent{}
	}
	target, ok := a.nearest(s)
	if !ok {
		return Intent{}
	}
	var in Intent
	inCone := p.InCone(target)
	if dir, ok := geom.PlanarDir(p.Position(), target); ok && (!inCone || geom.PlanarDist(p.Position(), target) > closeEnough) {
		in.Move = mgl64.Vec2{dir[0], dir[2]}
	}
	in.Attack = inCone && p.AttackReady()
	return in
}

// WantsNextWave reports whether the autopilot would start a wave now.
func (a Autopilot) WantsNextWave(s *Session) bool {
	if !a.AutoWaves || s.GameOver() || s.Waves().Pending() {
		return false
	}
	ph := s.Waves().Phase()
	return ph == wave.PhaseIdle || ph == wave.PhaseComplete
}

func (a Autopilot) nearest(s *Session) (mgl64.Vec3, bool) {
	from := s.Player().Position()
	best := math.Inf(1)
	var pos mgl64.Vec3
	for _, e := range s.Enemies() {
		if e.Dead {
			continue
		}
		if d := geom.PlanarDist(from, e.Position); d < best {
			best, pos = d, e.Position
		}
	}
	return pos, !math.IsInf(best, 1)
}
