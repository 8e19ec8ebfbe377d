// Package agent holds the combatants: the player and the wave enemies. Both
// expose the same capability interfaces so the session and the viewers can
// treat them uniformly.
package agent

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
)

// Movable is anything with a position on the terrain.
type Movable interface {
	Position() mgl64.Vec3
	Facing() float64
	Moving() bool
}

// Damageable can take hits and die.
type Damageable interface {
	Health() int
	MaxHealth() int
	// TakeDamage subtracts amount, flooring health at 0. It reports true only
	// on the call that brought health to 0.
	TakeDamage(amount int) bool
	Dead() bool
}

// Attacker deals damage in melee range.
type Attacker interface {
	AttackRange() float64
	AttackDamage() int
	AttackReady() bool
	Attacking() bool
}

// Combatant is the full capability set shared by Player and Enemy.
type Combatant interface {
	Movable
	Damageable
	Attacker
}

// Target is what an enemy pursues and hits.
type Target interface {
	Movable
	Damageable
}

var (
	_ Combatant = (*Player)(nil)
	_ Combatant = (*Enemy)(nil)
)

// Timers are the fixed presentation and death durations shared by all agents.
type Timers struct {
	Death float64 // seconds from the killing blow to removal
	Flash float64 // seconds a damage or attack flash stays lit
}

// NewTimers reads the durations from the wave config.
func NewTimers(cfg config.WaveConfig) Timers {
	return Timers{Death: cfg.DeathDuration, Flash: cfg.FlashDuration}
}

// applyDamage is the shared health bookkeeping: floor at zero and report the
// transition to zero exactly once.
func applyDamage(health *int, amount int) (killed bool) {
	if *health <= 0 || amount <= 0 {
		return false
	}
	*health -= amount
	if *health <= 0 {
		*health = 0
		return true
	}
	return false
}

func decay(timer *float64, dt float64) {
	if *timer > 0 {
		*timer -= dt
		if *timer < 0 {
			*timer = 0
		}
	}
}
