package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/sim"
)

func TestClassifyRun(t *testing.T) {
	cases := []struct {
		name    string
		rs      runStats
		outcome string
		reason  string
	}{
		{
			name:    "died",
			rs:      runStats{target: 3, firstSpawnTick: 1, summary: sim.RunSummary{GameOver: true, FinalWave: 2, WavesCleared: 1}},
			outcome: "died",
			reason:  "player_killed_in_wave_2",
		},
		{
			name:    "cleared",
			rs:      runStats{target: 3, firstSpawnTick: 1, summary: sim.RunSummary{FinalWave: 4, WavesCleared: 3}},
			outcome: "cleared",
			reason:  "cleared_3_waves",
		},
		{
			name:    "stalled",
			rs:      runStats{target: 3, firstSpawnTick: -1},
			outcome: "stalled",
			reason:  "no_wave_spawned",
		},
		{
			name:    "timeout",
			rs:      runStats{target: 3, firstSpawnTick: 1, summary: sim.RunSummary{FinalWave: 2, WavesCleared: 1}},
			outcome: "timeout",
			reason:  "wave_2_unfinished",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, reason := classifyRun(tc.rs)
			if outcome != tc.outcome || reason != tc.reason {
				t.Fatalf("expected %s/%s, got %s/%s", tc.outcome, tc.reason, outcome, reason)
			}
		})
	}
}

func TestKillsByTypeAndFirstTick(t *testing.T) {
	entries := []sim.SimLogEntry{
		{Tick: 5, Kind: "--", Category: "wave", Key: "wave_spawned"},
		{Tick: 40, Kind: "basic", Category: "combat", Key: "enemy_killed"},
		{Tick: 41, Kind: "tank", Category: "combat", Key: "enemy_killed"},
		{Tick: 60, Kind: "basic", Category: "combat", Key: "enemy_killed"},
		{Tick: 61, Kind: "basic", Category: "combat", Key: "enemy_attack", Value: "hit player for 10"},
	}

	counts := killsByType(entries)
	if counts["basic"] != 2 || counts["tank"] != 1 || len(counts) != 2 {
		t.Fatalf("unexpected kill counts: %v", counts)
	}
	if got := joinCounts(counts); got != "basic=2,tank=1" {
		t.Fatalf("expected sorted join, got %q", got)
	}
	if got := firstTick(entries, "combat", "enemy_killed", ""); got != 40 {
		t.Fatalf("expected first kill at 40, got %d", got)
	}
	if got := firstTick(entries, "combat", "enemy_attack", "for 10"); got != 61 {
		t.Fatalf("expected first attack at 61, got %d", got)
	}
	if got := firstTick(entries, "state", "game_over", ""); got != -1 {
		t.Fatalf("expected -1 for a missing marker, got %d", got)
	}
}

func TestAverages(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("expected n/a, got %s", got)
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("expected 15.0, got %s", got)
	}
	if got := avg(7, 0); got != 0 {
		t.Fatalf("expected 0 for no runs, got %v", got)
	}
	if got := joinCounts(nil); got != "none" {
		t.Fatalf("expected none, got %s", got)
	}
}

func TestRunAutopilotMarkers(t *testing.T) {
	rs := runAutopilot(1, config.Default(), 7, 1, 600, log.New(io.Discard))
	if rs.sessionID == "" || len(rs.sessionID) != 8 {
		t.Fatalf("expected a short session id, got %q", rs.sessionID)
	}
	if rs.firstSpawnTick != 1 {
		t.Fatalf("autopilot should spawn wave 1 on the first tick, got %d", rs.firstSpawnTick)
	}
	if rs.ticks <= 0 || rs.ticks > 600 {
		t.Fatalf("ticks out of range: %d", rs.ticks)
	}
	if rs.firstReleaseTick >= 0 && rs.firstReleaseTick < rs.firstSpawnTick {
		t.Fatalf("release (%d) before spawn (%d)", rs.firstReleaseTick, rs.firstSpawnTick)
	}
}
