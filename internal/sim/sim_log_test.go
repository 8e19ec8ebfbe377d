package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLog() *SimLog {
	sl := NewSimLog(false)
	sl.Add(1, "--", "--", "wave", "wave_spawned", "wave 1: 5 enemies frozen", 5)
	sl.Add(60, "--", "--", "wave", "countdown", "wave 1 2", 1)
	sl.Add(250, "E0#1", "basic", "combat", "enemy_attack", "hit player for 10", 10)
	sl.Add(251, "P", "player", "combat", "player_hit", "E0#1 basic health 0", 0)
	sl.Add(251, "E0#1", "basic", "combat", "enemy_killed", "basic killed in wave 1", 1)
	sl.AddVerbose(252, "P", "player", "move", "position", "(0,0,0)", 0)
	return sl
}

func TestSimLogFilters(t *testing.T) {
	sl := sampleLog()
	assert.Equal(t, 5, sl.Len(), "verbose entries are dropped when quiet")
	assert.Len(t, sl.Filter("combat", ""), 3)
	assert.Len(t, sl.Filter("", "countdown"), 1)
	assert.Len(t, sl.FilterAgent("E0#1"), 2)
	assert.Len(t, sl.FilterTickRange(60, 250), 2)
	assert.Equal(t, 1, sl.CountCategory("combat", "player_hit"))

	first, ok := sl.FirstOf("combat", "")
	require.True(t, ok)
	assert.Equal(t, 250, first.Tick)
	last, ok := sl.LastOf("combat", "")
	require.True(t, ok)
	assert.Equal(t, "enemy_killed", last.Key)
	_, ok = sl.LastOf("state", "game_over")
	assert.False(t, ok)

	assert.True(t, sl.HasEntry("combat", "enemy_attack", "for 10"))
	assert.False(t, sl.HasEntry("combat", "enemy_attack", "for 99"))
}

func TestSimLogVerbose(t *testing.T) {
	sl := NewSimLog(true)
	sl.AddVerbose(3, "P", "player", "move", "position", "(1,2,3)", 0)
	assert.True(t, sl.Verbose())
	assert.Equal(t, 1, sl.Len())
}

func TestSimLogFormat(t *testing.T) {
	sl := sampleLog()
	out := sl.Format()
	assert.Equal(t, 5, strings.Count(out, "\n"))
	assert.Contains(t, out, "[T=0250] E0#1  combat    enemy_attack     hit player for 10")
	assert.Equal(t, 2, strings.Count(sl.FormatRange(251, 251), "\n"))
}

func TestSimLogSummary(t *testing.T) {
	ts := NewTestSim(WithTerrain(plainIsland(40)), WithWaveStarted())
	ts.RunTicks(3)
	out := ts.SimLog.Summary(ts.Session)
	assert.Contains(t, out, "Wave 1  phase=countdown  alive=5")
	assert.Contains(t, out, "basic=5 fast=0 tank=0 frozen=5")
	assert.NotContains(t, out, "GAME OVER")
}
