// Package sim runs the arena: one Session owns the terrain, the player and
// the wave scheduler and advances them in a fixed per-tick order. The
// package also carries the headless harness and reporter used by tests and
// the batch report command.
package sim

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Jordieee/GPC-Trabajo/internal/agent"
	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/nav"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

// DefaultDT is the fixed tick length used by the viewers and the harness.
const DefaultDT = 1.0 / 60

const playerLabel = "P"

// Intent is the player input for one tick.
type Intent struct {
	Move   mgl64.Vec2 // planar X/Z direction, need not be normalized
	Attack bool       // start a swing if one can start
}

// TickReport summarises one Session.Tick.
type TickReport struct {
	Tick         int
	Phase        wave.Phase
	Wave         int
	Alive        int
	Kills        int
	PlayerHealth int
	DamageTaken  int // by the player this tick
	Swung        bool
	Hits         int // enemies struck by the player this tick
	Killed       int // enemies killed by the player this tick
	Removed      int // enemies whose death sequence ended this tick
	Events       []wave.Event
	GameOver     bool
}

// EnemyView is a read-only copy of one enemy for viewers and reports.
type EnemyView struct {
	Handle    arena.Handle
	Type      string
	Symbol    rune
	Position  mgl64.Vec3
	Facing    float64
	Health    int
	MaxHealth int
	Dead      bool
	Frozen    bool
	Moving    bool
	Attacking bool
	Flashing  bool
}

// Deps are the optional collaborators of a Session. Nil fields get defaults:
// the archipelago built from the config, a discarding logger and a quiet SimLog.
type Deps struct {
	Terrain *terrain.Model
	Logger  *log.Logger
	Log     *SimLog
}

// Session is one run of the game.
type Session struct {
	ID uuid.UUID

	cfg     config.Config
	terrain *terrain.Model
	player  *agent.Player
	waves   *wave.Scheduler
	rng     *rand.Rand
	logger  *log.Logger
	simLog  *SimLog

	tick        int
	elapsed     float64
	damageTaken int
	over        bool
}

// NewSession builds a session from cfg. All randomness, terrain decoration
// included, comes from one generator seeded with cfg.Seed.
func NewSession(cfg config.Config, deps Deps) *Session {
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- gameplay randomness
	terr := deps.Terrain
	if terr == nil {
		terr = terrain.NewArchipelago(cfg.Terrain, rng)
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	simLog := deps.Log
	if simLog == nil {
		simLog = NewSimLog(false)
	}

	id := uuid.New()
	logger = logger.With("session", id.String()[:8])

	start := nav.Snap(terr, mgl64.Vec3{}, cfg.Player.GroundOffset)
	s := &Session{
		ID:      id,
		cfg:     cfg,
		terrain: terr,
		player:  agent.NewPlayer(cfg.Player, start, agent.NewTimers(cfg.Waves)),
		waves:   wave.NewScheduler(cfg, terr, rng, logger),
		rng:     rng,
		logger:  logger,
		simLog:  simLog,
	}
	logger.Debug("session created", "seed", cfg.Seed, "islands", len(terr.Islands()), "obstacles", len(terr.Obstacles()))
	return s
}

func (s *Session) Config() config.Config { return s.cfg }
func (s *Session) Terrain() *terrain.Model { return s.terrain }
func (s *Session) Player() *agent.Player { return s.player }
func (s *Session) Waves() *wave.Scheduler { return s.waves }
func (s *Session) Log() *SimLog { return s.simLog }
func (s *Session) Logger() *log.Logger { return s.logger }
func (s *Session) TickCount() int { return s.tick }
func (s *Session) Elapsed() float64 { return s.elapsed }
func (s *Session) DamageTaken() int { return s.damageTaken }
func (s *Session) GameOver() bool { return s.over }

// StartWave asks the scheduler for the next wave. Ignored after game over.
func (s *Session) StartWave() {
	if s.over {
		return
	}
	s.waves.StartWave()
}

// Enemies returns a view of every stored enemy, dying ones included, in arena order.
func (s *Session) Enemies() []EnemyView {
	var out []EnemyView
	s.waves.Each(func(h arena.Handle, e *agent.Enemy) bool {
		out = append(out, EnemyView{
			Handle:    h,
			Type:      e.Type().String(),
			Symbol:    e.Type().Symbol(),
			Position:  e.Position(),
			Facing:    e.Facing(),
			Health:    e.Health(),
			MaxHealth: e.MaxHealth(),
			Dead:      e.Dead(),
			Frozen:    e.Frozen(),
			Moving:    e.Moving(),
			Attacking: e.Attacking(),
			Flashing:  e.Flashing(),
		})
		return true
	})
	return out
}

func enemyLabel(h arena.Handle) string {
	return "E" + h.String()
}

// Tick advances the session by dt:
//  1. scheduler timers (retry, countdown)
//  2. snapshot of the enemies alive at tick start
//  3. player movement or swing start from the intent
//  4. snapshot enemies pursue and attack the player
//  5. the open swing strikes snapshot enemies still alive
//  6. death sequences advance; finished enemies leave the arena
//  7. wave completion
//  8. game over
//
// After game over every call is a no-op that reports the final state.
func (s *Session) Tick(dt float64, in Intent) TickReport {
	if s.over {
		return s.fill(TickReport{Tick: s.tick})
	}
	s.tick++
	s.elapsed += dt
	tick := s.tick
	rep := TickReport{Tick: tick}

	// 1.
	s.waves.Update(dt)

	// 2.
	handles := s.waves.Alive()
	enemies := make([]*agent.Enemy, 0, len(handles))
	peers := make([]mgl64.Vec3, 0, len(handles))
	for _, h := range handles {
		e, _ := s.waves.Enemy(h)
		enemies = append(enemies, e)
		peers = append(peers, e.Position())
	}

	// 3.
	rep.Swung = s.player.Update(dt, in.Move, in.Attack, s.terrain)
	if rep.Swung {
		s.simLog.Add(tick, playerLabel, "player", "combat", "swing",
			fmt.Sprintf("facing %.2f", s.player.Facing()), s.player.Facing())
	}
	pp := s.player.Position()
	s.simLog.AddVerbose(tick, playerLabel, "player", "move", "position",
		fmt.Sprintf("(%.2f,%.2f,%.2f)", pp[0], pp[1], pp[2]), 0)

	// 4.
	world := agent.World{Terrain: s.terrain, Rng: s.rng, Peers: peers}
	for i, e := range enemies {
		if e.Dead() {
			continue
		}
		act := e.Update(dt, world, s.player)
		label := enemyLabel(handles[i])
		kind := e.Type().String()
		if act.Attacked {
			rep.DamageTaken += act.Damage
			s.simLog.Add(tick, label, kind, "combat", "enemy_attack",
				fmt.Sprintf("hit player for %d", act.Damage), float64(act.Damage))
		}
		if act.Killed {
			s.simLog.Add(tick, label, kind, "combat", "player_killed", "player health reached 0", 0)
		}
		if act.Outcome == nav.Blocked && !e.Frozen() {
			s.simLog.AddVerbose(tick, label, kind, "nav", "blocked",
				fmt.Sprintf("stuck=%d", e.Stuck()), float64(e.Stuck()))
		}
		ep := e.Position()
		s.simLog.AddVerbose(tick, label, kind, "move", "position",
			fmt.Sprintf("(%.2f,%.2f,%.2f)", ep[0], ep[1], ep[2]), 0)
	}
	s.damageTaken += rep.DamageTaken

	// 5.
	cands := make([]agent.Hittable, 0, len(enemies))
	for i, e := range enemies {
		if !e.Dead() && !e.Frozen() {
			cands = append(cands, agent.Hittable{Handle: handles[i], Position: e.Position()})
		}
	}
	for _, h := range s.player.Strike(cands) {
		rep.Hits++
		killed := s.waves.DamageEnemy(h, s.player.AttackDamage())
		e, _ := s.waves.Enemy(h)
		s.simLog.Add(tick, playerLabel, "player", "combat", "player_hit",
			fmt.Sprintf("%s %s health %d", enemyLabel(h), e.Type(), e.Health()), float64(e.Health()))
		if killed {
			rep.Killed++
		}
	}

	// 6.
	rep.Removed = s.waves.AdvanceDeaths(dt)

	// 7.
	s.waves.CheckCompletion()
	rep.Events = s.waves.Drain()
	for _, ev := range rep.Events {
		s.logEvent(tick, ev)
	}

	// 8.
	if s.player.Dead() {
		s.over = true
		s.logger.Warn("player died", "wave", s.waves.Wave(), "kills", s.waves.Kills(), "tick", tick)
		s.simLog.Add(tick, playerLabel, "player", "state", "game_over",
			fmt.Sprintf("wave %d kills %d", s.waves.Wave(), s.waves.Kills()), float64(s.waves.Wave()))
	}
	return s.fill(rep)
}

func (s *Session) fill(rep TickReport) TickReport {
	rep.Phase = s.waves.Phase()
	rep.Wave = s.waves.Wave()
	rep.Alive = s.waves.AliveCount()
	rep.Kills = s.waves.Kills()
	rep.PlayerHealth = s.player.Health()
	rep.GameOver = s.over
	return rep
}

func (s *Session) logEvent(tick int, ev wave.Event) {
	switch ev.Kind {
	case wave.EventEnemyKilled:
		s.simLog.Add(tick, enemyLabel(ev.Handle), ev.Value, "combat", "enemy_killed",
			fmt.Sprintf("%s killed in wave %d", ev.Value, ev.Wave), float64(ev.Wave))
	case wave.EventWaveSpawned:
		n := s.waves.AliveCount()
		s.simLog.Add(tick, "--", "--", "wave", ev.Kind.String(),
			fmt.Sprintf("wave %d: %d enemies frozen", ev.Wave, n), float64(n))
	default:
		s.simLog.Add(tick, "--", "--", "wave", ev.Kind.String(),
			fmt.Sprintf("wave %d %s", ev.Wave, ev.Value), float64(ev.Wave))
	}
}
