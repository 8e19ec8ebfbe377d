package wave

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jordieee/GPC-Trabajo/internal/agent"
	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
)

func newTestScheduler(t *testing.T, spawns SpawnService) *Scheduler {
	t.Helper()
	return NewScheduler(config.Default(), spawns, rand.New(rand.NewSource(5)), log.New(io.Discard))
}

func archipelago() *terrain.Model {
	return terrain.NewArchipelago(config.Default().Terrain, rand.New(rand.NewSource(1)))
}

// advance runs n scheduler updates of dt each.
func advance(s *Scheduler, n int, dt float64) {
	for i := 0; i < n; i++ {
		s.Update(dt)
	}
}

func killAll(s *Scheduler) {
	for _, h := range s.Alive() {
		s.DamageEnemy(h, 1000)
	}
}

func eventKinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestEnemyCount(t *testing.T) {
	// The every-five bonus first applies at wave 6.
	cases := map[int]int{1: 5, 2: 8, 5: 17, 6: 23, 10: 35, 11: 41, 15: 53, 16: 59}
	for wave, want := range cases {
		assert.Equal(t, want, EnemyCount(wave), "wave %d", wave)
	}
}

func TestEnemyTypeBands(t *testing.T) {
	cases := []struct {
		wave int
		roll float64
		want agent.EnemyType
	}{
		{1, 0.99, agent.EnemyBasic},
		{2, 0.95, agent.EnemyBasic},
		{4, 0.59, agent.EnemyBasic},
		{4, 0.6, agent.EnemyFast},
		{4, 0.89, agent.EnemyFast},
		{4, 0.9, agent.EnemyTank},
		{6, 0.39, agent.EnemyBasic},
		{6, 0.4, agent.EnemyFast},
		{10, 0.7, agent.EnemyTank},
		{11, 0.29, agent.EnemyBasic},
		{11, 0.3, agent.EnemyFast},
		{11, 0.64, agent.EnemyFast},
		{11, 0.65, agent.EnemyTank},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, EnemyTypeFor(c.wave, c.roll), "wave %d roll %v", c.wave, c.roll)
	}
}

func TestCountdownLabel(t *testing.T) {
	assert.Equal(t, "3", CountdownLabel(3))
	assert.Equal(t, "1", CountdownLabel(1))
	assert.Equal(t, "GO", CountdownLabel(0))
}

func TestStartWaveSpawnsFrozen(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	require.Equal(t, PhaseIdle, s.Phase())
	assert.Empty(t, s.CountdownLabel())

	s.StartWave()
	require.Equal(t, PhaseCountdown, s.Phase())
	assert.Equal(t, 5, s.AliveCount())
	assert.Equal(t, "3", s.CountdownLabel())
	s.Each(func(_ arena.Handle, e *agent.Enemy) bool {
		assert.True(t, e.Frozen())
		assert.Equal(t, agent.EnemyBasic, e.Type())
		return true
	})
	assert.Equal(t, []EventKind{EventWaveSpawned}, eventKinds(s.Drain()))
}

func TestCountdownReleasesAfterSettle(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.Drain()

	advance(s, 21, 0.05)
	assert.Equal(t, "2", s.CountdownLabel())
	advance(s, 40, 0.05)
	assert.Equal(t, "GO", s.CountdownLabel())
	advance(s, 9, 0.05)
	assert.Equal(t, PhaseCountdown, s.Phase(), "still settling at 3.5s")

	advance(s, 4, 0.05)
	require.Equal(t, PhaseActive, s.Phase())
	s.Each(func(_ arena.Handle, e *agent.Enemy) bool {
		assert.False(t, e.Frozen())
		return true
	})

	var labels []string
	var kinds []EventKind
	for _, ev := range s.Drain() {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == EventCountdownTick {
			labels = append(labels, ev.Value)
		}
	}
	assert.Equal(t, []string{"2", "1", "GO"}, labels)
	assert.Equal(t, EventWaveStarted, kinds[len(kinds)-1])
}

func TestCountdownSurvivesLargeStep(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.Update(10)
	assert.Equal(t, PhaseActive, s.Phase())
}

func TestStartWaveIsNoOpWhileRunning(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.StartWave()
	assert.Equal(t, 5, s.AliveCount(), "second call during countdown spawns nothing")

	s.Update(10)
	require.Equal(t, PhaseActive, s.Phase())
	s.StartWave()
	assert.Equal(t, 5, s.AliveCount(), "call during an active wave spawns nothing")
	assert.Equal(t, 1, s.Wave())
}

func TestKillsAndCompletion(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.Update(10)
	s.Drain()

	alive := s.Alive()
	require.Len(t, alive, 5)
	assert.False(t, s.DamageEnemy(alive[0], 10), "wounded, not killed")
	assert.True(t, s.DamageEnemy(alive[0], 40))
	assert.False(t, s.DamageEnemy(alive[0], 40), "already dead")
	assert.Equal(t, 1, s.Kills())
	assert.False(t, s.CheckCompletion())

	killAll(s)
	assert.Equal(t, 5, s.Kills())
	assert.Zero(t, s.AliveCount())
	require.True(t, s.CheckCompletion())
	assert.Equal(t, PhaseComplete, s.Phase())
	assert.Equal(t, 2, s.Wave())
	assert.False(t, s.CheckCompletion(), "completion fires once")

	e, ok := s.Enemy(alive[1])
	require.True(t, ok, "corpses outlive completion")
	assert.Positive(t, e.DeathRemaining())
	assert.Zero(t, s.AdvanceDeaths(1.0/60))
	assert.Equal(t, 5, s.AdvanceDeaths(0.5))
	_, ok = s.Enemy(alive[1])
	assert.False(t, ok)

	events := s.Drain()
	last := events[len(events)-1]
	assert.Equal(t, EventWaveCompleted, last.Kind)
	assert.Equal(t, 1, last.Wave)

	s.StartWave()
	assert.Equal(t, PhaseCountdown, s.Phase())
	assert.Equal(t, 8, s.AliveCount())
}

func TestCompletionWaitsForCountdown(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	assert.False(t, s.CheckCompletion(), "a wave cannot complete before it starts")
	s.Update(10)
	killAll(s)
	assert.True(t, s.CheckCompletion())
}

func TestFrozenEnemiesTakeNoDamage(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.Drain()

	for _, h := range s.Alive() {
		assert.False(t, s.DamageEnemy(h, 1000))
		e, _ := s.Enemy(h)
		assert.Equal(t, e.MaxHealth(), e.Health())
	}
	assert.Zero(t, s.Kills())
	assert.Equal(t, 5, s.AliveCount())
	assert.Empty(t, s.Drain(), "no kill events during the countdown")

	s.Update(10)
	h := s.Alive()[0]
	assert.True(t, s.DamageEnemy(h, 1000), "released enemies can be killed")
}

func TestAdvanceDeathsRemovesAfterSequence(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	s.StartWave()
	s.Update(10)
	h := s.Alive()[0]
	require.True(t, s.DamageEnemy(h, 1000))

	assert.Zero(t, s.AdvanceDeaths(0.3))
	_, ok := s.Enemy(h)
	assert.True(t, ok, "still playing the death sequence")
	assert.Equal(t, 1, s.AdvanceDeaths(0.3))
	_, ok = s.Enemy(h)
	assert.False(t, ok)
	assert.Equal(t, 4, s.AliveCount())
}

func TestStartWaveRetriesUntilReady(t *testing.T) {
	s := newTestScheduler(t, nil)
	s.StartWave()
	assert.True(t, s.Pending())
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, []EventKind{EventRetry}, eventKinds(s.Drain()))

	s.StartWave()
	assert.Empty(t, s.Drain(), "a pending start is not re-armed")

	s.Update(0.2)
	assert.True(t, s.Pending(), "still not ready")

	s.SetSpawnService(archipelago())
	s.Update(0.2)
	assert.False(t, s.Pending())
	assert.Equal(t, PhaseCountdown, s.Phase())
	assert.Equal(t, 5, s.AliveCount())
}

func TestStartWaveRetryIsBounded(t *testing.T) {
	s := newTestScheduler(t, terrain.NewBuilder().Build(0.6))
	s.StartWave()
	for i := 0; i < 200 && s.Pending(); i++ {
		s.Update(0.2)
	}
	assert.False(t, s.Pending())
	assert.Equal(t, PhaseIdle, s.Phase())

	events := s.Drain()
	require.NotEmpty(t, events)
	assert.Equal(t, EventStartDropped, events[len(events)-1].Kind)
	assert.Len(t, events, config.Default().Waves.MaxStartRetries+1)

	s.SetSpawnService(archipelago())
	s.StartWave()
	assert.Equal(t, PhaseCountdown, s.Phase(), "a later start works once ready")
}

func TestLaterWavesMixTypes(t *testing.T) {
	s := newTestScheduler(t, archipelago())
	for w := 1; w < 12; w++ {
		s.StartWave()
		s.Update(10)
		killAll(s)
		require.True(t, s.CheckCompletion())
	}
	require.Equal(t, 12, s.Wave())
	s.StartWave()

	seen := map[agent.EnemyType]int{}
	s.Each(func(_ arena.Handle, e *agent.Enemy) bool {
		seen[e.Type()]++
		return true
	})
	assert.Equal(t, EnemyCount(12), s.AliveCount())
	assert.Len(t, seen, 3, "wave 12 brings every type: %v", seen)
}

func TestPhaseAndEventStrings(t *testing.T) {
	assert.Equal(t, "countdown", PhaseCountdown.String())
	assert.Equal(t, "unknown", Phase(9).String())
	assert.Equal(t, "wave_completed", EventWaveCompleted.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
