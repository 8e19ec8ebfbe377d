package sim

import (
	"fmt"
	"strings"

	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

// --- Snapshot types ---

// WaveStat is what happened during one wave, from spawn to completion.
type WaveStat struct {
	Wave        int
	SpawnTick   int
	StartTick   int // countdown over, enemies released
	EndTick     int // wave completed; 0 while in progress
	Kills       int
	DamageTaken int
	Swings      int
	Hits        int
	Cleared     bool
}

// Ticks returns how long the wave took from spawn to completion.
func (w WaveStat) Ticks() int {
	if !w.Cleared {
		return 0
	}
	return w.EndTick - w.SpawnTick
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	Ticks           int
	FinalWave       int
	WavesCleared    int
	Kills           int
	DamageTaken     int
	Swings          int
	Hits            int
	HitRate         float64 // hits per swing
	AvgTicksPerWave float64
	GameOver        bool
}

// --- Reporter ---

// SimReporter folds TickReports into per-wave statistics.
type SimReporter struct {
	waves    []WaveStat
	ticks    int
	lastWave int
	gameOver bool
	// Swings and damage before the first spawn are still counted in the summary.
	looseSwings, looseDamage int
}

// NewSimReporter creates an empty reporter.
func NewSimReporter() *SimReporter {
	return &SimReporter{}
}

// Collect records one tick.
func (r *SimReporter) Collect(rep TickReport) {
	r.ticks = rep.Tick
	r.lastWave = rep.Wave
	r.gameOver = rep.GameOver

	cur := r.current()
	if cur != nil {
		cur.DamageTaken += rep.DamageTaken
		cur.Hits += rep.Hits
		cur.Kills += rep.Killed
		if rep.Swung {
			cur.Swings++
		}
	} else {
		r.looseDamage += rep.DamageTaken
		if rep.Swung {
			r.looseSwings++
		}
	}

	for _, ev := range rep.Events {
		switch ev.Kind {
		case wave.EventWaveSpawned:
			r.waves = append(r.waves, WaveStat{Wave: ev.Wave, SpawnTick: rep.Tick})
		case wave.EventWaveStarted:
			if c := r.current(); c != nil {
				c.StartTick = rep.Tick
			}
		case wave.EventWaveCompleted:
			if c := r.current(); c != nil {
				c.EndTick = rep.Tick
				c.Cleared = true
			}
		}
	}
}

// current returns the wave in progress, or nil between waves.
func (r *SimReporter) current() *WaveStat {
	if n := len(r.waves); n > 0 && !r.waves[n-1].Cleared {
		return &r.waves[n-1]
	}
	return nil
}

// Waves returns the collected per-wave stats.
func (r *SimReporter) Waves() []WaveStat {
	return r.waves
}

// Summary aggregates everything collected so far.
func (r *SimReporter) Summary() RunSummary {
	sum := RunSummary{
		Ticks:       r.ticks,
		FinalWave:   r.lastWave,
		GameOver:    r.gameOver,
		Swings:      r.looseSwings,
		DamageTaken: r.looseDamage,
	}
	clearedTicks := 0
	for _, w := range r.waves {
		sum.Kills += w.Kills
		sum.DamageTaken += w.DamageTaken
		sum.Swings += w.Swings
		sum.Hits += w.Hits
		if w.Cleared {
			sum.WavesCleared++
			clearedTicks += w.Ticks()
		}
	}
	if sum.Swings > 0 {
		sum.HitRate = float64(sum.Hits) / float64(sum.Swings)
	}
	if sum.WavesCleared > 0 {
		sum.AvgTicksPerWave = float64(clearedTicks) / float64(sum.WavesCleared)
	}
	return sum
}

// Format returns a human-readable multi-line report.
func (r *SimReporter) Format() string {
	var sb strings.Builder
	sum := r.Summary()
	fmt.Fprintf(&sb, "=== Arena Report (T=%d) ===\n", sum.Ticks)
	for _, w := range r.waves {
		status := "in progress"
		if w.Cleared {
			status = fmt.Sprintf("cleared in %d ticks", w.Ticks())
		}
		fmt.Fprintf(&sb, "  wave %-3d kills=%-3d dmg_taken=%-4d swings=%-4d hits=%-4d %s\n",
			w.Wave, w.Kills, w.DamageTaken, w.Swings, w.Hits, status)
	}
	sb.WriteString(sum.Format())
	return sb.String()
}

// Format returns the summary as a short block.
func (s RunSummary) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "waves_cleared=%d final_wave=%d kills=%d damage_taken=%d\n",
		s.WavesCleared, s.FinalWave, s.Kills, s.DamageTaken)
	fmt.Fprintf(&sb, "swings=%d hits=%d hit_rate=%.2f avg_ticks_per_wave=%.1f\n",
		s.Swings, s.Hits, s.HitRate, s.AvgTicksPerWave)
	if s.GameOver {
		sb.WriteString("result: player died\n")
	} else {
		sb.WriteString("result: survived\n")
	}
	return sb.String()
}
