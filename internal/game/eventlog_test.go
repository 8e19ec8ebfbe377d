package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/sim"
	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

func TestEventLogRingOrder(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(i, SourceWave, fmt.Sprintf("line %d", i))
	}
	require.Equal(t, logMaxEntries, el.Len())

	recent := el.Recent()
	require.Len(t, recent, logMaxEntries)
	assert.Equal(t, 5, recent[0].Tick, "oldest five entries overwritten")
	assert.Equal(t, logMaxEntries+4, recent[len(recent)-1].Tick)
	for i := 1; i < len(recent); i++ {
		assert.Less(t, recent[i-1].Tick, recent[i].Tick)
	}
}

func TestEventLogCollect(t *testing.T) {
	el := NewEventLog()
	el.Collect(sim.TickReport{
		Tick:  10,
		Alive: 5,
		Events: []wave.Event{
			{Kind: wave.EventWaveSpawned, Wave: 1, Value: "3"},
			{Kind: wave.EventCountdownTick, Wave: 1, Value: "2"},
		},
	})
	el.Collect(sim.TickReport{
		Tick:         20,
		Hits:         2,
		DamageTaken:  10,
		PlayerHealth: 90,
		Events: []wave.Event{
			{Kind: wave.EventEnemyKilled, Wave: 1, Value: "fast", Handle: arena.Handle{Index: 3, Gen: 1}},
		},
	})

	recent := el.Recent()
	require.Len(t, recent, 4, "countdown ticks are not logged")
	assert.Equal(t, "wave 1: 5 enemies", recent[0].Message)
	assert.Equal(t, SourceEnemy, recent[1].Source)
	assert.Contains(t, recent[1].Message, "(fast) killed")
	assert.Equal(t, "swing hit 2", recent[2].Message)
	assert.Equal(t, "player -10 hp (90)", recent[3].Message)
}

func TestEventLogGameOver(t *testing.T) {
	el := NewEventLog()
	el.Collect(sim.TickReport{Tick: 99, GameOver: true})
	recent := el.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, SourcePlayer, recent[0].Source)
	assert.Equal(t, "player died", recent[0].Message)
}
