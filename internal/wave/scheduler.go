package wave

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/Jordieee/GPC-Trabajo/internal/agent"
	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/nav"
)

// Scheduler owns the enemies of the current wave and drives the phase
// machine Idle -> Countdown -> Active -> Complete -> Countdown ...
type Scheduler struct {
	cfg    config.Config
	params nav.Params
	timers agent.Timers
	spawns SpawnService
	rng    *rand.Rand
	logger *log.Logger

	enemies *arena.Arena[*agent.Enemy]
	spawned []arena.Handle // enemies of the wave in countdown

	phase     Phase
	wave      int
	kills     int
	remaining int     // countdown numbers still to show; 0 means settling
	timer     float64 // time left on the current countdown step

	pending    bool
	retryTimer float64
	retries    int

	events []Event
}

// NewScheduler returns an idle scheduler at wave 1. spawns may be nil and
// attached later with SetSpawnService. A nil logger discards output.
func NewScheduler(cfg config.Config, spawns SpawnService, rng *rand.Rand, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{
		cfg:     cfg,
		params:  nav.NewParams(cfg.Nav),
		timers:  agent.NewTimers(cfg.Waves),
		spawns:  spawns,
		rng:     rng,
		logger:  logger,
		enemies: arena.New[*agent.Enemy](),
		wave:    1,
	}
}

// SetSpawnService attaches the spawn service once it exists.
func (s *Scheduler) SetSpawnService(sp SpawnService) { s.spawns = sp }

func (s *Scheduler) Phase() Phase { return s.phase }
func (s *Scheduler) Wave() int    { return s.wave }
func (s *Scheduler) Kills() int   { return s.kills }

// Pending reports whether a start is waiting on the spawn service.
func (s *Scheduler) Pending() bool { return s.pending }

// CountdownLabel returns "3", "2", "1" or "GO" during the countdown and ""
// in every other phase.
func (s *Scheduler) CountdownLabel() string {
	if s.phase != PhaseCountdown {
		return ""
	}
	return CountdownLabel(s.remaining)
}

// AliveCount returns how many enemies are not dead.
func (s *Scheduler) AliveCount() int {
	n := 0
	s.enemies.Each(func(_ arena.Handle, e *agent.Enemy) bool {
		if !e.Dead() {
			n++
		}
		return true
	})
	return n
}

// Alive returns a snapshot of the living enemies' handles.
func (s *Scheduler) Alive() []arena.Handle {
	var out []arena.Handle
	s.enemies.Each(func(h arena.Handle, e *agent.Enemy) bool {
		if !e.Dead() {
			out = append(out, h)
		}
		return true
	})
	return out
}

// Enemy resolves a handle.
func (s *Scheduler) Enemy(h arena.Handle) (*agent.Enemy, bool) {
	return s.enemies.Get(h)
}

// Each visits every stored enemy, dying ones included.
func (s *Scheduler) Each(fn func(arena.Handle, *agent.Enemy) bool) {
	s.enemies.Each(fn)
}

// Drain returns and clears the events recorded since the last call.
func (s *Scheduler) Drain() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Scheduler) emit(kind EventKind, value string) {
	s.events = append(s.events, Event{Kind: kind, Wave: s.wave, Value: value})
}

// StartWave begins the countdown for the current wave number. It is a no-op
// while a wave is counting down or active, or while a start is already
// waiting on the spawn service.
func (s *Scheduler) StartWave() {
	if s.phase == PhaseCountdown || s.phase == PhaseActive || s.pending {
		return
	}
	s.tryStart()
}

func (s *Scheduler) tryStart() {
	if s.spawns == nil || !s.spawns.Ready() {
		if s.retries >= s.cfg.Waves.MaxStartRetries {
			s.logger.Warn("spawn service never became ready, dropping wave start", "wave", s.wave, "retries", s.retries)
			s.retries = 0
			s.emit(EventStartDropped, "")
			return
		}
		s.retries++
		s.pending = true
		s.retryTimer = s.cfg.Waves.RetryDelay
		s.logger.Warn("spawn service not ready, retrying", "wave", s.wave, "attempt", s.retries, "delay", s.retryTimer)
		s.emit(EventRetry, "")
		return
	}
	s.retries = 0

	// Leftover corpses from the previous wave go before the new spawn.
	s.enemies.Retain(func(_ arena.Handle, e *agent.Enemy) bool { return !e.Dead() })

	count := countFor(s.cfg.Waves, s.wave)
	s.spawned = s.spawned[:0]
	for i := 0; i < count; i++ {
		pos := s.spawns.RandomSpawnPoint(s.rng)
		kind := EnemyTypeFor(s.wave, s.rng.Float64())
		e := agent.NewEnemy(kind, kind.Stats(s.cfg.Enemies), pos, s.params, s.timers)
		e.SetFrozen(true)
		s.spawned = append(s.spawned, s.enemies.Insert(e))
	}

	s.phase = PhaseCountdown
	s.remaining = s.cfg.Waves.CountdownTicks
	s.timer = s.cfg.Waves.CountdownTick
	if s.remaining <= 0 {
		s.timer = s.cfg.Waves.SettleDelay
	}
	s.logger.Info("wave spawned", "wave", s.wave, "enemies", count)
	s.events = append(s.events, Event{Kind: EventWaveSpawned, Wave: s.wave, Value: CountdownLabel(s.remaining)})
}

// Update advances the retry timer and the countdown by dt.
func (s *Scheduler) Update(dt float64) {
	if s.pending {
		s.retryTimer -= dt
		if s.retryTimer <= 0 {
			s.pending = false
			s.tryStart()
		}
	}

	if s.phase != PhaseCountdown {
		return
	}
	s.timer -= dt
	for s.phase == PhaseCountdown && s.timer <= 0 {
		if s.remaining > 0 {
			s.remaining--
			if s.remaining > 0 {
				s.timer += s.cfg.Waves.CountdownTick
			} else {
				s.timer += s.cfg.Waves.SettleDelay
			}
			s.emit(EventCountdownTick, CountdownLabel(s.remaining))
			continue
		}
		s.release()
	}
}

func (s *Scheduler) release() {
	for _, h := range s.spawned {
		if e, ok := s.enemies.Get(h); ok {
			e.SetFrozen(false)
		}
	}
	s.spawned = s.spawned[:0]
	s.phase = PhaseActive
	s.logger.Info("wave started", "wave", s.wave, "alive", s.AliveCount())
	s.emit(EventWaveStarted, "")
}

// DamageEnemy applies player damage to h and counts the kill. It reports
// true only when this hit killed the enemy. Stale handles, dead enemies and
// enemies still frozen by the countdown are ignored.
func (s *Scheduler) DamageEnemy(h arena.Handle, amount int) bool {
	e, ok := s.enemies.Get(h)
	if !ok || e.Dead() || e.Frozen() {
		return false
	}
	if !e.TakeDamage(amount) {
		return false
	}
	s.kills++
	s.events = append(s.events, Event{Kind: EventEnemyKilled, Wave: s.wave, Value: e.Type().String(), Handle: h})
	return true
}

// AdvanceDeaths ticks every enemy's timers and removes the ones whose death
// sequence finished. It returns how many were removed.
func (s *Scheduler) AdvanceDeaths(dt float64) int {
	return s.enemies.Retain(func(_ arena.Handle, e *agent.Enemy) bool {
		return !e.Tick(dt)
	})
}

// CheckCompletion ends an active wave once no enemy is alive: the wave
// number advances and the scheduler waits for the next StartWave. Corpses
// stay until AdvanceDeaths finishes their death sequence. It reports whether
// the wave completed.
func (s *Scheduler) CheckCompletion() bool {
	if s.phase != PhaseActive || s.AliveCount() > 0 {
		return false
	}
	cleared := s.wave
	s.wave++
	s.phase = PhaseComplete
	s.logger.Info("wave complete", "wave", cleared, "kills", s.kills)
	s.events = append(s.events, Event{Kind: EventWaveCompleted, Wave: cleared})
	return true
}
