package sim

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
)

// TestSim is a headless harness around a Session. It steps at a fixed dt,
// optionally drives the player with the Autopilot, and records a TickReport
// per tick. Used by tests and cmd/headless-report.
type TestSim struct {
	Session  *Session
	SimLog   *SimLog
	Reporter *SimReporter
	DT       float64

	cfg       config.Config
	terrain   *terrain.Model
	logger    *log.Logger
	autopilot *Autopilot
	last      TickReport
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptConfig  simOptionKind = iota // config replacement, applied first
	simOptInfra                        // seed, tuning overrides, logging
	simOptWorld                        // terrain, applied before the session exists
	simOptSession                      // applied to the built session
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the whole tuning document.
func WithConfig(cfg config.Config) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.cfg = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
	}}
}

// WithTuning edits the config in place after WithConfig.
func WithTuning(fn func(*config.Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		fn(&ts.cfg)
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithLogger routes the session's leveled log output.
func WithLogger(l *log.Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.logger = l
	}}
}

// WithDT overrides the fixed tick length.
func WithDT(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithTerrain replaces the generated archipelago.
func WithTerrain(m *terrain.Model) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.terrain = m
	}}
}

// WithAutopilot drives the player; autoWaves also starts every wave.
func WithAutopilot(autoWaves bool) SimOption {
	return SimOption{simOptSession, func(ts *TestSim) {
		ts.autopilot = &Autopilot{AutoWaves: autoWaves}
	}}
}

// WithWaveStarted starts the first wave right after construction.
func WithWaveStarted() SimOption {
	return SimOption{simOptSession, func(ts *TestSim) {
		ts.Session.StartWave()
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Config replacement
//  2. Infrastructure (seed, tuning, logging, dt)
//  3. World (terrain)
//  4. Build the session
//  5. Session options (autopilot, first wave)
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg:    config.Default(),
		SimLog: NewSimLog(false),
		DT:     DefaultDT,
		logger: log.New(io.Discard),
	}
	for _, pass := range []simOptionKind{simOptConfig, simOptInfra, simOptWorld} {
		for _, o := range opts {
			if o.kind == pass {
				o.fn(ts)
			}
		}
	}
	ts.Session = NewSession(ts.cfg, Deps{Terrain: ts.terrain, Logger: ts.logger, Log: ts.SimLog})
	ts.Reporter = NewSimReporter()
	for _, o := range opts {
		if o.kind == simOptSession {
			o.fn(ts)
		}
	}
	return ts
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Session.TickCount()
}

// Last returns the report of the most recent tick.
func (ts *TestSim) Last() TickReport {
	return ts.last
}

// Step advances one tick with an explicit intent, bypassing the autopilot.
func (ts *TestSim) Step(in Intent) TickReport {
	ts.last = ts.Session.Tick(ts.DT, in)
	ts.Reporter.Collect(ts.last)
	return ts.last
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n && !ts.Session.GameOver(); i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Session.TickCount()
		}
		if ts.Session.GameOver() {
			return -1
		}
	}
	return -1
}

func (ts *TestSim) runOneTick() {
	var in Intent
	if ts.autopilot != nil {
		if ts.autopilot.WantsNextWave(ts.Session) {
			ts.Session.StartWave()
		}
		in = ts.autopilot.Intent(ts.Session)
	}
	ts.Step(in)
}

// SimSnapshot is a lightweight state summary at one tick.
type SimSnapshot struct {
	Tick    int
	Wave    int
	Phase   string
	Kills   int
	Player  AgentSnapshot
	Enemies []AgentSnapshot
}

// AgentSnapshot is a lightweight copy of one agent's state.
type AgentSnapshot struct {
	Label  string
	Kind   string
	X, Y   float64 // planar X/Z
	Health int
	Dead   bool
	Frozen bool
}

// Snapshot returns the current state of every agent.
func (ts *TestSim) Snapshot() SimSnapshot {
	s := ts.Session
	p := s.Player()
	pp := p.Position()
	snap := SimSnapshot{
		Tick:   s.TickCount(),
		Wave:   s.Waves().Wave(),
		Phase:  s.Waves().Phase().String(),
		Kills:  s.Waves().Kills(),
		Player: AgentSnapshot{Label: playerLabel, Kind: "player", X: pp[0], Y: pp[2], Health: p.Health(), Dead: p.Dead()},
	}
	for _, e := range s.Enemies() {
		snap.Enemies = append(snap.Enemies, AgentSnapshot{
			Label:  enemyLabel(e.Handle),
			Kind:   e.Type,
			X:      e.Position[0],
			Y:      e.Position[2],
			Health: e.Health,
			Dead:   e.Dead,
			Frozen: e.Frozen,
		})
	}
	return snap
}
