package agent

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/nav"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
)

// flatIsland is a single wide island with its top at y=2.
func flatIsland() *terrain.Model {
	b := terrain.NewBuilder()
	b.AddIsland(0, 0, 50, 2, true)
	return b.Build(0.6)
}

func newTestEnemy(kind EnemyType, pos mgl64.Vec3) *Enemy {
	cfg := config.Default()
	return NewEnemy(kind, kind.Stats(cfg.Enemies), pos, nav.NewParams(cfg.Nav), NewTimers(cfg.Waves))
}

func newTestPlayer(pos mgl64.Vec3) *Player {
	cfg := config.Default()
	return NewPlayer(cfg.Player, pos, NewTimers(cfg.Waves))
}

// --- Enemy ---

func TestEnemyTypeStats(t *testing.T) {
	table := config.Default().Enemies
	assert.Equal(t, 50, EnemyBasic.Stats(table).Health)
	assert.Equal(t, 30, EnemyFast.Stats(table).Health)
	assert.Equal(t, 120, EnemyTank.Stats(table).Health)
	assert.Equal(t, 1.5, EnemyTank.Stats(table).Cooldown)
}

func TestEnemyTypeParse(t *testing.T) {
	for _, kind := range EnemyTypes {
		got, err := ParseEnemyType(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	got, err := ParseEnemyType("TANK")
	require.NoError(t, err)
	assert.Equal(t, EnemyTank, got)

	_, err = ParseEnemyType("dragon")
	assert.ErrorContains(t, err, "dragon")
	assert.Equal(t, "unknown", EnemyType(7).String())
}

func TestEnemyDiesAtExactlyZero(t *testing.T) {
	e := newTestEnemy(EnemyBasic, mgl64.Vec3{})
	assert.False(t, e.TakeDamage(49))
	assert.False(t, e.Dead())
	assert.Equal(t, 1, e.Health())

	e = newTestEnemy(EnemyBasic, mgl64.Vec3{})
	assert.True(t, e.TakeDamage(50), "50 damage on 50 health kills")
	assert.True(t, e.Dead())
	assert.Equal(t, 0, e.Health())
	assert.False(t, e.TakeDamage(50), "only the killing call reports true")
	assert.Equal(t, 0, e.Health())
}

func TestEnemyHealthNeverNegative(t *testing.T) {
	e := newTestEnemy(EnemyTank, mgl64.Vec3{})
	assert.False(t, e.TakeDamage(50))
	assert.False(t, e.TakeDamage(50))
	assert.True(t, e.TakeDamage(50))
	assert.Equal(t, 0, e.Health())
}

func TestEnemyDeathSequence(t *testing.T) {
	e := newTestEnemy(EnemyFast, mgl64.Vec3{})
	assert.False(t, e.Tick(10), "a living enemy never finishes")
	require.True(t, e.TakeDamage(100))
	assert.True(t, e.Flashing())
	assert.InDelta(t, 0.5, e.DeathRemaining(), 1e-9)

	assert.False(t, e.Tick(0.25))
	assert.False(t, e.Flashing())
	assert.True(t, e.Tick(0.25))
}

func TestFrozenEnemyDoesNothing(t *testing.T) {
	terr := flatIsland()
	start := mgl64.Vec3{10, 2.6, 0}
	e := newTestEnemy(EnemyBasic, start)
	e.SetFrozen(true)
	target := newTestPlayer(mgl64.Vec3{0, 3, 0})

	for i := 0; i < 30; i++ {
		act := e.Update(0.1, World{Terrain: terr, Rng: rand.New(rand.NewSource(1))}, target)
		assert.False(t, act.Attacked)
	}
	assert.Equal(t, start, e.Position())
	assert.False(t, e.Moving())
	assert.False(t, e.AttackReady())

	assert.False(t, e.TakeDamage(1000))
	assert.Equal(t, e.MaxHealth(), e.Health())
	assert.False(t, e.Dead())
	assert.False(t, e.Flashing())
}

func TestEnemyPursues(t *testing.T) {
	terr := flatIsland()
	e := newTestEnemy(EnemyBasic, mgl64.Vec3{10, 2.6, 0})
	target := newTestPlayer(mgl64.Vec3{0, 3, 0})
	w := World{Terrain: terr, Rng: rand.New(rand.NewSource(1))}

	act := e.Update(0.1, w, target)
	assert.Equal(t, nav.Moved, act.Outcome)
	assert.True(t, e.Moving())
	assert.InDelta(t, 9.6, e.Position()[0], 1e-9)
	assert.InDelta(t, 2+config.Default().Nav.GroundOffset, e.Position()[1], 1e-9)
	assert.InDelta(t, -math.Pi/2, e.Facing(), 1e-9, "faces -X")
}

func TestEnemyAttackCooldown(t *testing.T) {
	terr := flatIsland()
	e := newTestEnemy(EnemyBasic, mgl64.Vec3{1, 2.9, 0})
	target := newTestPlayer(mgl64.Vec3{0, 3, 0})
	w := World{Terrain: terr, Rng: rand.New(rand.NewSource(1))}

	attacks := 0
	for i := 0; i < 5; i++ {
		act := e.Update(0.25, w, target)
		assert.Equal(t, nav.InRange, act.Outcome)
		if act.Attacked {
			attacks++
			assert.Equal(t, 10, act.Damage)
		}
	}
	assert.Equal(t, 2, attacks, "first strike at once, second after the 1s cooldown")
	assert.Equal(t, 80, target.Health())
	assert.Equal(t, mgl64.Vec3{1, 2.9, 0}, e.Position(), "no movement in range")
}

func TestEnemyDoesNotHitDeadTarget(t *testing.T) {
	terr := flatIsland()
	e := newTestEnemy(EnemyTank, mgl64.Vec3{1, 2.9, 0})
	target := newTestPlayer(mgl64.Vec3{0, 3, 0})
	require.True(t, target.TakeDamage(1000))

	act := e.Update(0.1, World{Terrain: terr, Rng: rand.New(rand.NewSource(1))}, target)
	assert.False(t, act.Attacked)
}

func TestEnemyKillingBlowOnPlayer(t *testing.T) {
	terr := flatIsland()
	e := newTestEnemy(EnemyTank, mgl64.Vec3{1, 2.9, 0})
	target := newTestPlayer(mgl64.Vec3{0, 3, 0})
	target.TakeDamage(90)

	act := e.Update(0.1, World{Terrain: terr, Rng: rand.New(rand.NewSource(1))}, target)
	assert.True(t, act.Attacked)
	assert.True(t, act.Killed)
	assert.True(t, target.Dead())
	assert.Equal(t, 0, target.Health())
}

// --- Player ---

func TestPlayerMoves(t *testing.T) {
	terr := flatIsland()
	p := newTestPlayer(mgl64.Vec3{0, 3, 0})
	p.Update(0.1, mgl64.Vec2{0, -1}, false, terr)

	assert.True(t, p.Moving())
	assert.InDelta(t, -0.85, p.Position()[2], 1e-9)
	assert.InDelta(t, 2+config.Default().Player.GroundOffset, p.Position()[1], 1e-9)
	assert.InDelta(t, math.Pi, math.Abs(p.Facing()), 1e-9)

	p.Update(0.1, mgl64.Vec2{}, false, terr)
	assert.False(t, p.Moving())
}

func TestPlayerStaysOnIsland(t *testing.T) {
	terr := flatIsland()
	p := newTestPlayer(mgl64.Vec3{49.5, 3, 0})
	for i := 0; i < 20; i++ {
		p.Update(0.1, mgl64.Vec2{1, 0}, false, terr)
	}
	assert.True(t, terr.IsPositionValid(p.Position(), config.Default().Player.Clearance))
}

func TestPlayerSwingTiming(t *testing.T) {
	p := newTestPlayer(mgl64.Vec3{})
	require.True(t, p.AttackReady())
	require.True(t, p.Attack())
	assert.True(t, p.Attacking())
	assert.InDelta(t, 0.31, p.SwingRemaining(), 1e-9)
	assert.InDelta(t, 0.225, p.Cooldown(), 1e-9)
	assert.False(t, p.Attack(), "no new swing while one is open")

	terr := flatIsland()
	p.Update(0.35, mgl64.Vec2{}, false, terr)
	assert.False(t, p.Attacking())
	assert.True(t, p.Attack())
}

func TestPlayerDoesNotWalkWhileSwinging(t *testing.T) {
	terr := flatIsland()
	p := newTestPlayer(mgl64.Vec3{0, 3, 0})
	p.Update(0.05, mgl64.Vec2{1, 0}, true, terr)
	assert.True(t, p.Attacking())
	assert.False(t, p.Moving())
	assert.InDelta(t, 0, p.Position()[0], 1e-9)
}

func TestSwingHitsEachEnemyOncePerSwing(t *testing.T) {
	p := newTestPlayer(mgl64.Vec3{})
	a := arena.New[*Enemy]()
	front := a.Insert(nil)
	side := a.Insert(nil)
	behind := a.Insert(nil)
	far := a.Insert(nil)
	cands := []Hittable{
		{Handle: front, Position: mgl64.Vec3{0, 0, 2}},
		{Handle: side, Position: mgl64.Vec3{1, 0, 2.5}},
		{Handle: behind, Position: mgl64.Vec3{0, 0, -2}},
		{Handle: far, Position: mgl64.Vec3{0, 0, 10}},
	}

	assert.Nil(t, p.Strike(cands), "no swing open")
	require.True(t, p.Attack())
	assert.ElementsMatch(t, []arena.Handle{front, side}, p.Strike(cands), "one swing hits several enemies")
	assert.Empty(t, p.Strike(cands), "the same swing never hits twice")

	p.Update(0.35, mgl64.Vec2{}, false, flatIsland())
	require.True(t, p.Attack())
	assert.ElementsMatch(t, []arena.Handle{front, side}, p.Strike(cands), "a new swing clears the hit set")
}

func TestSwingConeThreshold(t *testing.T) {
	p := newTestPlayer(mgl64.Vec3{})
	// dot with +Z is cos(angle); 0.4 is the cutoff.
	inside := geomAt(math.Acos(0.45), 3)
	outside := geomAt(math.Acos(0.35), 3)
	assert.True(t, p.InCone(inside))
	assert.False(t, p.InCone(outside))
	assert.False(t, p.InCone(mgl64.Vec3{}), "coincident target has no direction")
	assert.False(t, p.InCone(mgl64.Vec3{0, 0, 4}), "range is exclusive")
}

// geomAt returns a point at distance r whose direction makes angle a with +Z.
func geomAt(a, r float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(a) * r, 0, math.Cos(a) * r}
}

func TestPlayerDeath(t *testing.T) {
	terr := flatIsland()
	p := newTestPlayer(mgl64.Vec3{0, 3, 0})
	assert.False(t, p.TakeDamage(99))
	assert.True(t, p.Flashing())
	assert.True(t, p.TakeDamage(15))
	assert.Equal(t, 0, p.Health())
	assert.False(t, p.TakeDamage(15))

	p.Update(0.1, mgl64.Vec2{1, 0}, true, terr)
	assert.False(t, p.Moving())
	assert.False(t, p.Attacking())
	assert.False(t, p.AttackReady())
}
