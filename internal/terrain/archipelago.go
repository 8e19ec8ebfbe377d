package terrain

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/geom"
)

// Tree shape ranges. Only the collider dimensions leave this package.
const (
	trunkRadiusMin   = 0.17
	trunkRadiusRange = 0.11
	trunkHeightMin   = 3.5
	trunkHeightRange = 1.8
	colliderScale    = 1.6  // collider radius relative to the trunk
	colliderHeight   = 0.95 // collider height relative to the trunk
	treeStartAngle   = math.Pi / 4
	treeNudges       = 2 // attempts to step out of a blocked sector before skipping
)

// NewArchipelago builds the arena layout: a main island at the origin with
// SecondaryCount islands evenly spaced around it, each joined to the main one
// by a bridge. Trees are scattered when cfg.Decorate is set; rng only feeds
// tree sizes, so layouts differ between seeds only in their decoration.
func NewArchipelago(cfg config.TerrainConfig, rng *rand.Rand) *Model {
	b := NewBuilder().SpawnAnnulus(cfg.SpawnMinDist, cfg.SpawnRimMargin, cfg.SpawnClearance)
	main := b.AddIsland(0, 0, cfg.MainRadius, cfg.MainHeight, true)
	for i := 0; i < cfg.SecondaryCount; i++ {
		angle := float64(i) / float64(cfg.SecondaryCount) * 2 * math.Pi
		pos := geom.OnCircle(mgl64.Vec3{}, angle, cfg.SecondaryDistance)
		idx := b.AddIsland(pos[0], pos[2], cfg.SecondaryRadius, cfg.SecondaryHeight, false)
		b.AddBridge(main, idx, cfg.BridgeWidth, cfg.BridgeHeight, cfg.BridgeInset, cfg.BridgeDrop)
	}
	m := b.Build(cfg.SectorWidth)
	if cfg.Decorate {
		m.Decorate(cfg, rng)
	}
	return m
}

// Decorate rings every island with trees, skipping the blocked bridge mouths.
// Trees go on a circle at TreeRingFactor of the radius, one per angular step.
// A tree landing in a blocked sector is nudged forward by a third of a step
// up to twice and dropped if still blocked, so islands with bridges end up
// with fewer trees than requested.
func (m *Model) Decorate(cfg config.TerrainConfig, rng *rand.Rand) {
	for idx, isl := range m.islands {
		count := cfg.SecondaryTrees
		if isl.IsMain {
			count = cfg.MainTrees
		}
		if count <= 0 {
			continue
		}
		step := 2 * math.Pi / float64(count)
		ring := isl.Radius * cfg.TreeRingFactor
		for n := 0; n < count; n++ {
			angle := treeStartAngle + float64(n)*step
			blocked := m.AngleBlocked(idx, angle)
			for try := 0; blocked && try < treeNudges; try++ {
				angle += step / 3
				blocked = m.AngleBlocked(idx, angle)
			}
			if blocked {
				continue
			}
			trunkRadius := trunkRadiusMin + rng.Float64()*trunkRadiusRange
			trunkHeight := trunkHeightMin + rng.Float64()*trunkHeightRange
			pos := geom.OnCircle(isl.Center, angle, ring)
			pos[1] = isl.Top()
			m.obstacles = append(m.obstacles, Obstacle{
				Position: pos,
				Radius:   math.Max(trunkRadius*colliderScale, cfg.TreeMinCollider),
				Height:   trunkHeight * colliderHeight,
				Kind:     ObstacleTree,
			})
		}
	}
}
