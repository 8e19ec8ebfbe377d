// Package nav moves agents across the terrain: direct pursuit with cached
// directions, peer separation, stuck recovery, and a glide fallback that
// slides along edges instead of stopping dead.
package nav

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/geom"
)

// Terrain is the subset of the terrain model movement needs.
type Terrain interface {
	IsPositionValid(p mgl64.Vec3, clearance float64) bool
	SurfaceHeightAt(p mgl64.Vec3) (float64, bool)
	ResolveCollisions(p mgl64.Vec3, radius float64) (mgl64.Vec3, bool)
}

// degenerate is the axis displacement below which a single-axis glide is skipped.
const degenerate = 1e-9

// glideScales are the step fractions tried along the full direction before
// falling back to single-axis moves.
var glideScales = [...]float64{1.0, 0.6, 0.4}

// Glide tries to advance pos along dir by step. It commits the first candidate
// that is valid under clearance: full step, 0.6 step, 0.4 step, then the X
// component alone, then the Z component alone. ok is false when nothing fits,
// in which case pos is returned unchanged.
func Glide(t Terrain, pos, dir mgl64.Vec3, step, clearance float64) (next mgl64.Vec3, ok bool) {
	for _, f := range glideScales {
		cand := pos.Add(dir.Mul(step * f))
		if t.IsPositionValid(cand, clearance) {
			return cand, true
		}
	}
	// A zero axis component would "move" to pos itself.
	if math.Abs(dir[0]*step) > degenerate {
		xOnly := pos
		xOnly[0] += dir[0] * step
		if t.IsPositionValid(xOnly, clearance) {
			return xOnly, true
		}
	}
	if math.Abs(dir[2]*step) > degenerate {
		zOnly := pos
		zOnly[2] += dir[2] * step
		if t.IsPositionValid(zOnly, clearance) {
			return zOnly, true
		}
	}
	return pos, false
}

// Snap sets p's height to the surface below it plus offset. Off-surface
// points keep their height.
func Snap(t Terrain, p mgl64.Vec3, offset float64) mgl64.Vec3 {
	if h, ok := t.SurfaceHeightAt(p); ok {
		p[1] = h + offset
	}
	return p
}

// Params tunes a Steering.
type Params struct {
	RefreshInterval  float64
	StuckDistance    float64
	StuckRefreshes   int
	MaxStuckTurn     float64
	SeparationRadius float64
	SeparationWeight float64
	Clearance        float64
	CollisionRadius  float64
	GroundOffset     float64
}

// NewParams copies the navigation section of the config.
func NewParams(cfg config.NavConfig) Params {
	return Params{
		RefreshInterval:  cfg.RefreshInterval,
		StuckDistance:    cfg.StuckDistance,
		StuckRefreshes:   cfg.StuckRefreshes,
		MaxStuckTurn:     cfg.MaxStuckTurn,
		SeparationRadius: cfg.SeparationRadius,
		SeparationWeight: cfg.SeparationWeight,
		Clearance:        cfg.Clearance,
		CollisionRadius:  cfg.CollisionRadius,
		GroundOffset:     cfg.GroundOffset,
	}
}

// Outcome is what a steering step did.
type Outcome int

const (
	Moved   Outcome = iota
	Blocked         // no glide candidate was valid
	InRange         // target within attack range, no movement attempted
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case InRange:
		return "in_range"
	default:
		return "unknown"
	}
}

// Query is the input of one steering step.
type Query struct {
	Position    mgl64.Vec3
	Facing      float64
	Target      mgl64.Vec3
	Peers       []mgl64.Vec3 // positions of every living agent; entries at Position are ignored
	Speed       float64
	AttackRange float64
	DT          float64
}

// Result is the output of one steering step.
type Result struct {
	Position mgl64.Vec3
	Facing   float64
	Outcome  Outcome
}

// Steering is the per-agent pursuit state: the cached direction and the stuck detector.
type Steering struct {
	params  Params
	dir     mgl64.Vec3
	hasDir  bool
	timer   float64
	lastPos mgl64.Vec3
	stuck   int
}

// NewSteering starts a steering state for an agent standing at start.
func NewSteering(p Params, start mgl64.Vec3) *Steering {
	return &Steering{params: p, lastPos: start}
}

// Stuck returns the current stuck counter.
func (s *Steering) Stuck() int { return s.stuck }

// Direction returns the cached pursuit direction and whether one has been computed.
func (s *Steering) Direction() (mgl64.Vec3, bool) { return s.dir, s.hasDir }

// Step advances one tick of pursuit toward q.Target.
func (s *Steering) Step(t Terrain, rng *rand.Rand, q Query) Result {
	p := s.params
	s.timer += q.DT

	if geom.PlanarDist(q.Position, q.Target) < q.AttackRange {
		return Result{Position: q.Position, Facing: geom.HeadingTo(q.Position, q.Target), Outcome: InRange}
	}

	if s.timer >= p.RefreshInterval {
		s.timer = 0
		s.refresh(q.Position, q.Target)
		if geom.PlanarDist(q.Position, s.lastPos) < p.StuckDistance {
			s.stuck++
		} else {
			s.stuck = 0
		}
		s.lastPos = q.Position
	}
	if !s.hasDir {
		s.refresh(q.Position, q.Target)
	}

	dir := s.dir.Add(s.separation(q.Position, q.Peers).Mul(p.SeparationWeight))
	if s.stuck > p.StuckRefreshes {
		turn := (rng.Float64()*2 - 1) * p.MaxStuckTurn
		dir = geom.RotateY(dir, turn)
		s.stuck = 0
	}

	dir, ok := geom.Unit(geom.Flat(dir))
	if !ok {
		s.stuck++
		return Result{Position: q.Position, Facing: q.Facing, Outcome: Blocked}
	}

	next, moved := Glide(t, q.Position, dir, q.Speed*q.DT, p.Clearance)
	if !moved {
		s.stuck++
		return Result{Position: q.Position, Facing: q.Facing, Outcome: Blocked}
	}
	next, _ = t.ResolveCollisions(next, p.CollisionRadius)
	next = Snap(t, next, p.GroundOffset)

	facing := geom.Yaw(dir)
	if travel, ok := geom.PlanarDir(q.Position, next); ok {
		facing = geom.Yaw(travel)
	}
	return Result{Position: next, Facing: facing, Outcome: Moved}
}

func (s *Steering) refresh(pos, target mgl64.Vec3) {
	if dir, ok := geom.PlanarDir(pos, target); ok {
		s.dir = dir
		s.hasDir = true
	}
}

// separation sums a push away from every peer inside the separation radius,
// weighted linearly from 1 at contact to 0 at the radius.
func (s *Steering) separation(pos mgl64.Vec3, peers []mgl64.Vec3) mgl64.Vec3 {
	r := s.params.SeparationRadius
	var sum mgl64.Vec3
	for _, other := range peers {
		d := geom.PlanarDist(pos, other)
		if d <= 0 || d >= r {
			continue
		}
		away, ok := geom.PlanarDir(other, pos)
		if !ok {
			continue
		}
		sum = sum.Add(away.Mul((r - d) / r))
	}
	return sum
}
