// Package wave paces the enemy waves: how many enemies each wave brings, of
// which types, the frozen countdown before they are released, and when a
// wave counts as cleared.
package wave

import (
	"math/rand"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/agent"
	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
)

// Phase is the scheduler state.
type Phase int

const (
	PhaseIdle      Phase = iota // before the first wave
	PhaseCountdown              // enemies spawned and frozen
	PhaseActive                 // enemies released
	PhaseComplete               // wave cleared, waiting for StartWave
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// EventKind names a scheduler event.
type EventKind int

const (
	EventRetry         EventKind = iota // spawn service not ready, start re-armed
	EventStartDropped                   // retries exhausted
	EventWaveSpawned                    // enemies placed, countdown begins
	EventCountdownTick                  // countdown label changed
	EventWaveStarted                    // enemies released
	EventEnemyKilled                    // player damage killed an enemy
	EventWaveCompleted                  // no enemy left alive
)

func (k EventKind) String() string {
	switch k {
	case EventRetry:
		return "start_retry"
	case EventStartDropped:
		return "start_dropped"
	case EventWaveSpawned:
		return "wave_spawned"
	case EventCountdownTick:
		return "countdown"
	case EventWaveStarted:
		return "wave_started"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventWaveCompleted:
		return "wave_completed"
	default:
		return "unknown"
	}
}

// Event is one scheduler notification. Value carries the countdown label,
// the killed enemy type, or the spawned count, depending on Kind.
type Event struct {
	Kind   EventKind
	Wave   int
	Value  string
	Handle arena.Handle // killed enemy, EventEnemyKilled only
}

// SpawnService hands out spawn points once the terrain is built.
type SpawnService interface {
	Ready() bool
	RandomSpawnPoint(rng *rand.Rand) mgl64.Vec3
}

// EnemyCount returns how many enemies wave brings: five, three more per
// wave, and three extra for every completed block of five waves.
func EnemyCount(wave int) int {
	return countFor(config.Default().Waves, wave)
}

func countFor(cfg config.WaveConfig, wave int) int {
	if wave < 1 {
		wave = 1
	}
	bonus := 0
	if cfg.BonusEvery > 0 {
		bonus = (wave - 1) / cfg.BonusEvery * cfg.BonusCount
	}
	return cfg.BaseCount + (wave-1)*cfg.PerWave + bonus
}

// EnemyTypeFor maps a uniform roll in [0,1) to an enemy type for the given
// wave. Later waves shift the mix toward fast and tank enemies.
func EnemyTypeFor(wave int, roll float64) agent.EnemyType {
	var basicBelow, fastBelow float64
	switch {
	case wave <= 2:
		return agent.EnemyBasic
	case wave <= 5:
		basicBelow, fastBelow = 0.6, 0.9
	case wave <= 10:
		basicBelow, fastBelow = 0.4, 0.7
	default:
		basicBelow, fastBelow = 0.3, 0.65
	}
	switch {
	case roll < basicBelow:
		return agent.EnemyBasic
	case roll < fastBelow:
		return agent.EnemyFast
	default:
		return agent.EnemyTank
	}
}

// CountdownLabel renders the countdown state: the remaining whole count, or
// "GO" during the settle delay.
func CountdownLabel(remaining int) string {
	if remaining > 0 {
		return strconv.Itoa(remaining)
	}
	return "GO"
}
