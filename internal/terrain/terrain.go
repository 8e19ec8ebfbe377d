// Package terrain models the walkable archipelago: circular islands joined by
// rectangular bridges, plus the static circular obstacles scattered on them.
// Everything here is built once and then only queried.
package terrain

import (
	"math"
	"math/rand"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/geom"
)

const (
	pushEpsilon    = 1e-3 // extra distance added to every obstacle push
	overlapMinimum = 1e-6 // centers closer than this have no push direction
)

// Sector is an angular wedge around an island center, measured with
// geom.Bearing. Width is the full angular width.
type Sector struct {
	Angle float64
	Width float64
}

// Contains reports whether angle a falls inside the sector, wrapping around 2*pi.
func (s Sector) Contains(a float64) bool {
	return geom.AngleDelta(a, s.Angle) <= s.Width*0.5
}

// Island is a circular platform. Center.Y is the middle of the slab, so the
// walkable top sits at Center.Y + Height/2.
type Island struct {
	Center  mgl64.Vec3
	Radius  float64
	Height  float64
	IsMain  bool
	Blocked []Sector // bridge mouths, derived by ComputeBlockedSectors
}

// Top returns the elevation of the walkable surface.
func (i Island) Top() float64 {
	return i.Center[1] + i.Height/2
}

// Contains reports whether p lies within Radius-clearance of the center on the plane.
func (i Island) Contains(p mgl64.Vec3, clearance float64) bool {
	return geom.PlanarDist(p, i.Center) <= i.Radius-clearance
}

// Bridge is a rectangular deck. Its local frame has "along" pointing down the
// deck (yaw direction) and "across" perpendicular to it on the plane.
type Bridge struct {
	Center mgl64.Vec3
	Yaw    float64
	Width  float64
	Length float64
	Height float64
	A, B   int // indices of the connected islands
}

// Top returns the elevation of the deck surface.
func (b Bridge) Top() float64 {
	return b.Center[1] + b.Height/2
}

// Local projects p into the deck frame.
func (b Bridge) Local(p mgl64.Vec3) (across, along float64) {
	dx := p[0] - b.Center[0]
	dz := p[2] - b.Center[2]
	s, c := math.Sincos(b.Yaw)
	along = dx*s + dz*c
	across = dx*c - dz*s
	return across, along
}

// Contains reports whether p lies on the deck rectangle shrunk by clearance on every side.
func (b Bridge) Contains(p mgl64.Vec3, clearance float64) bool {
	across, along := b.Local(p)
	return math.Abs(across) <= b.Width/2-clearance && math.Abs(along) <= b.Length/2-clearance
}

// Ends returns the deck end points on the plane at deck height, start first.
func (b Bridge) Ends() (start, end mgl64.Vec3) {
	half := geom.YawVec(b.Yaw).Mul(b.Length / 2)
	return b.Center.Sub(half), b.Center.Add(half)
}

// ObstacleKind classifies a collider for the presentation layer.
type ObstacleKind int

const (
	ObstacleTree ObstacleKind = iota
	ObstacleRock
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleTree:
		return "tree"
	case ObstacleRock:
		return "rock"
	default:
		return "unknown"
	}
}

// Obstacle is a static vertical cylinder. Only X/Z and Radius take part in collision.
type Obstacle struct {
	Position mgl64.Vec3
	Radius   float64
	Height   float64
	Kind     ObstacleKind
}

// spawnRule describes the annulus enemies are dropped into.
type spawnRule struct {
	minDist   float64
	rimMargin float64
	clearance float64
}

// Model is the read-mostly terrain shared by every agent.
type Model struct {
	islands   []Island
	bridges   []Bridge
	obstacles []Obstacle
	spawn     spawnRule
}

// Ready reports whether the model can hand out spawn points.
func (m *Model) Ready() bool {
	return m != nil && len(m.islands) > 0
}

// IsPositionValid reports whether an agent of the given clearance radius may
// stand at p: inside some island shrunk by clearance, or on some bridge deck
// shrunk by clearance.
func (m *Model) IsPositionValid(p mgl64.Vec3, clearance float64) bool {
	for _, isl := range m.islands {
		if isl.Contains(p, clearance) {
			return true
		}
	}
	for _, b := range m.bridges {
		if b.Contains(p, clearance) {
			return true
		}
	}
	return false
}

// SurfaceHeightAt returns the elevation of the topmost island or bridge
// surface directly below p. ok is false when nothing is under p.
func (m *Model) SurfaceHeightAt(p mgl64.Vec3) (height float64, ok bool) {
	for _, isl := range m.islands {
		if isl.Contains(p, 0) && (!ok || isl.Top() > height) {
			height, ok = isl.Top(), true
		}
	}
	for _, b := range m.bridges {
		if b.Contains(p, 0) && (!ok || b.Top() > height) {
			height, ok = b.Top(), true
		}
	}
	return height, ok
}

// ResolveCollisions pushes p out of every obstacle it overlaps, directly away
// from each obstacle center by the penetration depth plus a small epsilon.
// Pushes are applied once each, in registration order, without re-checking:
// in dense clusters a later push can leave residual overlap with an earlier
// obstacle. Height is never changed.
func (m *Model) ResolveCollisions(p mgl64.Vec3, radius float64) (mgl64.Vec3, bool) {
	collided := false
	for _, ob := range m.obstacles {
		dx := p[0] - ob.Position[0]
		dz := p[2] - ob.Position[2]
		dist := math.Hypot(dx, dz)
		minDist := radius + ob.Radius
		if dist < minDist && dist > overlapMinimum {
			push := (minDist - dist) + pushEpsilon
			p[0] += dx / dist * push
			p[2] += dz / dist * push
			collided = true
		}
	}
	return p, collided
}

// RandomSpawnPoint picks a uniformly random island, then a point at a
// uniformly random angle and a uniformly random distance in
// [minDist, radius-rimMargin] from its center, lifted above the top surface.
// It returns the zero vector when the model has no islands.
func (m *Model) RandomSpawnPoint(rng *rand.Rand) mgl64.Vec3 {
	if !m.Ready() {
		return mgl64.Vec3{}
	}
	isl := m.islands[rng.Intn(len(m.islands))]
	angle := rng.Float64() * 2 * math.Pi
	span := math.Max(0, isl.Radius-m.spawn.rimMargin-m.spawn.minDist)
	dist := m.spawn.minDist + rng.Float64()*span
	p := geom.OnCircle(isl.Center, angle, dist)
	p[1] = isl.Top() + m.spawn.clearance
	return p
}

// AngleBlocked reports whether bearing a around island idx points into a bridge mouth.
func (m *Model) AngleBlocked(idx int, a float64) bool {
	if idx < 0 || idx >= len(m.islands) {
		return false
	}
	return angleBlocked(a, m.islands[idx].Blocked)
}

func angleBlocked(a float64, sectors []Sector) bool {
	for _, s := range sectors {
		if s.Contains(a) {
			return true
		}
	}
	return false
}

// Islands returns a copy of the islands.
func (m *Model) Islands() []Island {
	out := make([]Island, len(m.islands))
	for i, isl := range m.islands {
		isl.Blocked = slices.Clone(isl.Blocked)
		out[i] = isl
	}
	return out
}

// Bridges returns a copy of the bridges.
func (m *Model) Bridges() []Bridge {
	return slices.Clone(m.bridges)
}

// Obstacles returns a copy of the registered obstacles.
func (m *Model) Obstacles() []Obstacle {
	return slices.Clone(m.obstacles)
}

// Bounds returns the planar bounding box of every island and bridge.
func (m *Model) Bounds() (lo, hi mgl64.Vec3) {
	first := true
	grow := func(x, z float64) {
		if first {
			lo = mgl64.Vec3{x, 0, z}
			hi = lo
			first = false
			return
		}
		lo[0], lo[2] = math.Min(lo[0], x), math.Min(lo[2], z)
		hi[0], hi[2] = math.Max(hi[0], x), math.Max(hi[2], z)
	}
	for _, isl := range m.islands {
		grow(isl.Center[0]-isl.Radius, isl.Center[2]-isl.Radius)
		grow(isl.Center[0]+isl.Radius, isl.Center[2]+isl.Radius)
	}
	for _, b := range m.bridges {
		s, e := b.Ends()
		grow(s[0], s[2])
		grow(e[0], e[2])
	}
	return lo, hi
}

// ComputeBlockedSectors rebuilds every island's sector list from scratch:
// each bridge blocks a wedge of the given width on both connected islands,
// centered on the bearing toward the other island.
func (m *Model) ComputeBlockedSectors(width float64) {
	for i := range m.islands {
		m.islands[i].Blocked = nil
	}
	for _, b := range m.bridges {
		a, c := &m.islands[b.A], &m.islands[b.B]
		a.Blocked = append(a.Blocked, Sector{Angle: geom.Bearing(a.Center, c.Center), Width: width})
		c.Blocked = append(c.Blocked, Sector{Angle: geom.Bearing(c.Center, a.Center), Width: width})
	}
}
