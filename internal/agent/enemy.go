package agent

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/nav"
)

// World is the shared context an enemy reads during its update.
type World struct {
	Terrain nav.Terrain
	Rng     *rand.Rand
	Peers   []mgl64.Vec3 // living enemies at tick start, the updating enemy included
}

// EnemyAction reports what an enemy did in one update.
type EnemyAction struct {
	Outcome  nav.Outcome
	Attacked bool
	Damage   int
	Killed   bool // the attack brought the target to zero
}

// Enemy is a wave opponent. It spawns frozen, pursues the target once
// released, and strikes on a fixed cooldown while in range.
type Enemy struct {
	kind   EnemyType
	stats  config.EnemyStats
	timers Timers
	steer  *nav.Steering

	pos    mgl64.Vec3
	facing float64
	moving bool

	health   int
	cooldown float64
	frozen   bool

	dead       bool
	deathTimer float64

	damageFlash float64
	attackFlash float64
}

// NewEnemy creates a live, unfrozen enemy of the given type at pos.
func NewEnemy(kind EnemyType, stats config.EnemyStats, pos mgl64.Vec3, params nav.Params, timers Timers) *Enemy {
	return &Enemy{
		kind:   kind,
		stats:  stats,
		timers: timers,
		steer:  nav.NewSteering(params, pos),
		pos:    pos,
		health: stats.Health,
	}
}

func (e *Enemy) Type() EnemyType { return e.kind }
func (e *Enemy) Position() mgl64.Vec3 { return e.pos }
func (e *Enemy) Facing() float64 { return e.facing }
func (e *Enemy) Moving() bool { return e.moving }
func (e *Enemy) Health() int { return e.health }
func (e *Enemy) MaxHealth() int { return e.stats.Health }
func (e *Enemy) Dead() bool { return e.dead }
func (e *Enemy) AttackRange() float64 { return e.stats.AttackRange }
func (e *Enemy) AttackDamage() int { return e.stats.AttackDamage }
func (e *Enemy) AttackReady() bool { return !e.dead && !e.frozen && e.cooldown <= 0 }
func (e *Enemy) Attacking() bool { return e.attackFlash > 0 }
func (e *Enemy) Frozen() bool { return e.frozen }
func (e *Enemy) Flashing() bool { return e.damageFlash > 0 }
func (e *Enemy) Stuck() int { return e.steer.Stuck() }
func (e *Enemy) DeathRemaining() float64 { return e.deathTimer }
func (e *Enemy) SetFrozen(frozen bool) { e.frozen = frozen }
func (e *Enemy) Stats() config.EnemyStats { return e.stats }

// TakeDamage applies a hit. The killing call starts the death sequence.
// Frozen enemies ignore damage.
func (e *Enemy) TakeDamage(amount int) bool {
	if e.dead || e.frozen {
		return false
	}
	killed := applyDamage(&e.health, amount)
	if amount > 0 {
		e.damageFlash = e.timers.Flash
	}
	if killed {
		e.dead = true
		e.moving = false
		e.deathTimer = e.timers.Death
	}
	return killed
}

// Update runs one tick of pursuit and attack timing against target. Dead
// and frozen enemies do nothing.
func (e *Enemy) Update(dt float64, w World, target Target) EnemyAction {
	if e.dead {
		return EnemyAction{Outcome: nav.Blocked}
	}
	if e.frozen {
		e.moving = false
		return EnemyAction{Outcome: nav.Blocked}
	}

	e.cooldown -= dt
	res := e.steer.Step(w.Terrain, w.Rng, nav.Query{
		Position:    e.pos,
		Facing:      e.facing,
		Target:      target.Position(),
		Peers:       w.Peers,
		Speed:       e.stats.Speed,
		AttackRange: e.stats.AttackRange,
		DT:          dt,
	})
	e.pos = res.Position
	e.facing = res.Facing
	e.moving = res.Outcome == nav.Moved

	act := EnemyAction{Outcome: res.Outcome}
	if res.Outcome == nav.InRange && e.cooldown <= 0 && !target.Dead() {
		act.Attacked = true
		act.Damage = e.stats.AttackDamage
		act.Killed = target.TakeDamage(e.stats.AttackDamage)
		e.cooldown = e.stats.Cooldown
		e.attackFlash = e.timers.Flash
	}
	return act
}

// Tick advances the flash timers and, once dead, the death sequence. It
// reports true when the death sequence has finished and the enemy can be
// removed.
func (e *Enemy) Tick(dt float64) (finished bool) {
	decay(&e.damageFlash, dt)
	decay(&e.attackFlash, dt)
	if !e.dead {
		return false
	}
	e.deathTimer -= dt
	return e.deathTimer <= 0
}
