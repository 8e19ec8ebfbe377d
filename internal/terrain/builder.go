package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/geom"
)

// Builder assembles a Model. Indices returned by AddIsland are the ones
// AddBridge expects.
type Builder struct {
	m Model
}

// NewBuilder returns a builder with the shipped spawn annulus.
func NewBuilder() *Builder {
	return &Builder{m: Model{spawn: spawnRule{minDist: 2, rimMargin: 4, clearance: 0.6}}}
}

// SpawnAnnulus overrides where RandomSpawnPoint drops agents.
func (b *Builder) SpawnAnnulus(minDist, rimMargin, clearance float64) *Builder {
	b.m.spawn = spawnRule{minDist: minDist, rimMargin: rimMargin, clearance: clearance}
	return b
}

// AddIsland registers an island whose slab rests on y=0, so its top sits at height.
func (b *Builder) AddIsland(x, z, radius, height float64, isMain bool) int {
	b.m.islands = append(b.m.islands, Island{
		Center: mgl64.Vec3{x, height / 2, z},
		Radius: radius,
		Height: height,
		IsMain: isMain,
	})
	return len(b.m.islands) - 1
}

// AddBridge spans a deck between islands a and c. Each end starts inset
// units inside the island rim so the deck overlaps both footprints. The deck
// surface sits drop units below the higher of the two island tops.
func (b *Builder) AddBridge(a, c int, width, height, inset, drop float64) int {
	ia, ic := b.m.islands[a], b.m.islands[c]
	dir, ok := geom.PlanarDir(ia.Center, ic.Center)
	if !ok {
		dir = mgl64.Vec3{0, 0, 1}
	}
	start := geom.Flat(ia.Center).Add(dir.Mul(ia.Radius - inset))
	end := geom.Flat(ic.Center).Sub(dir.Mul(ic.Radius - inset))
	center := start.Add(end).Mul(0.5)
	center[1] = math.Max(ia.Top(), ic.Top()) + height/2 - drop

	b.m.bridges = append(b.m.bridges, Bridge{
		Center: center,
		Yaw:    geom.Yaw(dir),
		Width:  width,
		Length: geom.PlanarDist(start, end),
		Height: height,
		A:      a,
		B:      c,
	})
	return len(b.m.bridges) - 1
}

// AddObstacle registers a static collider.
func (b *Builder) AddObstacle(o Obstacle) {
	b.m.obstacles = append(b.m.obstacles, o)
}

// Build derives the blocked sectors and returns the finished model. The
// builder must not be used afterwards.
func (b *Builder) Build(sectorWidth float64) *Model {
	m := b.m
	m.ComputeBlockedSectors(sectorWidth)
	return &m
}
