package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/sim"
)

type runStats struct {
	runIndex  int
	seed      int64
	sessionID string
	ticks     int
	target    int // waves the run tried to clear

	firstSpawnTick   int
	firstReleaseTick int
	firstKillTick    int
	firstDamageTick  int
	deathTick        int

	enemyAttacks int
	playerHits   int
	killsByType  map[string]int

	summary sim.RunSummary
	waves   []sim.WaveStat
}

func main() {
	var runs int
	var waves int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var cfgPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&waves, "waves", 3, "waves to clear before a run stops")
	flag.IntVar(&maxTicks, "max-ticks", 60*60*5, "tick limit per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&cfgPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.BoolVar(&verbose, "v", false, "log scheduler decisions to stderr")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if waves <= 0 {
		fmt.Println("error: -waves must be > 0")
		return
	}
	if maxTicks <= 0 {
		fmt.Println("error: -max-ticks must be > 0")
		return
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "headless", Level: log.WarnLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("runs=%d waves=%d max_ticks=%d seed_base=%d seed_step=%d\n\n", runs, waves, maxTicks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runAutopilot(i+1, cfg, seed, waves, maxTicks, logger)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runAutopilot plays one session with the autopilot until target waves are
// cleared, the player dies, or maxTicks pass.
func runAutopilot(runIndex int, cfg config.Config, seed int64, target, maxTicks int, logger *log.Logger) runStats {
	ts := sim.NewTestSim(
		sim.WithConfig(cfg),
		sim.WithSeed(seed),
		sim.WithLogger(logger),
		sim.WithAutopilot(true),
	)
	ts.RunUntil(func(ts *sim.TestSim) bool {
		return ts.Reporter.Summary().WavesCleared >= target
	}, maxTicks)

	entries := ts.SimLog.Entries()
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		sessionID:        ts.Session.ID.String()[:8],
		ticks:            ts.CurrentTick(),
		target:           target,
		firstSpawnTick:   firstTick(entries, "wave", "wave_spawned", ""),
		firstReleaseTick: firstTick(entries, "wave", "wave_started", ""),
		firstKillTick:    firstTick(entries, "combat", "enemy_killed", ""),
		firstDamageTick:  firstTick(entries, "combat", "enemy_attack", ""),
		deathTick:        firstTick(entries, "state", "game_over", ""),
		enemyAttacks:     ts.SimLog.CountCategory("combat", "enemy_attack"),
		playerHits:       ts.SimLog.CountCategory("combat", "player_hit"),
		killsByType:      killsByType(entries),
		summary:          ts.Reporter.Summary(),
		waves:            ts.Reporter.Waves(),
	}
}

func firstTick(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// killsByType counts enemy_killed entries per enemy type.
func killsByType(entries []sim.SimLogEntry) map[string]int {
	out := map[string]int{}
	for _, e := range entries {
		if e.Category == "combat" && e.Key == "enemy_killed" {
			out[e.Kind]++
		}
	}
	return out
}

// classifyRun names how a run ended and why.
func classifyRun(rs runStats) (string, string) {
	switch {
	case rs.summary.GameOver:
		return "died", fmt.Sprintf("player_killed_in_wave_%d", rs.summary.FinalWave)
	case rs.summary.WavesCleared >= rs.target:
		return "cleared", fmt.Sprintf("cleared_%d_waves", rs.summary.WavesCleared)
	case rs.firstSpawnTick < 0:
		return "stalled", "no_wave_spawned"
	default:
		return "timeout", fmt.Sprintf("wave_%d_unfinished", rs.summary.FinalWave)
	}
}

func printRun(rs runStats) {
	outcome, reason := classifyRun(rs)
	fmt.Printf("--- Run %d (seed=%d session=%s) ---\n", rs.runIndex, rs.seed, rs.sessionID)
	fmt.Printf("outcome=%s reason=%s ticks=%d\n", outcome, reason, rs.ticks)
	fmt.Printf("phase_markers: first_spawn=%d first_release=%d first_kill=%d first_damage=%d death=%d\n",
		rs.firstSpawnTick, rs.firstReleaseTick, rs.firstKillTick, rs.firstDamageTick, rs.deathTick)
	fmt.Printf("combat_totals: enemy_attacks=%d player_hits=%d kills=%s\n",
		rs.enemyAttacks, rs.playerHits, joinCounts(rs.killsByType))
	for _, w := range rs.waves {
		status := "unfinished"
		if w.Cleared {
			status = fmt.Sprintf("%d ticks", w.Ticks())
		}
		fmt.Printf("  wave %-3d kills=%-3d dmg=%-4d swings=%-4d hits=%-4d %s\n",
			w.Wave, w.Kills, w.DamageTaken, w.Swings, w.Hits, status)
	}
	fmt.Print(rs.summary.Format())
	fmt.Println()
}

func printAggregate(all []runStats) {
	outcomes := map[string]int{}
	kinds := map[string]int{}
	totalKills := 0
	totalDamage := 0
	totalCleared := 0
	totalSwings := 0
	totalHits := 0

	firstKills := make([]int, 0, len(all))
	firstDamage := make([]int, 0, len(all))
	deaths := make([]int, 0, len(all))
	waveTicks := map[int][]int{}

	for _, rs := range all {
		outcome, _ := classifyRun(rs)
		outcomes[outcome]++
		for k, n := range rs.killsByType {
			kinds[k] += n
		}
		totalKills += rs.summary.Kills
		totalDamage += rs.summary.DamageTaken
		totalCleared += rs.summary.WavesCleared
		totalSwings += rs.summary.Swings
		totalHits += rs.summary.Hits
		if rs.firstKillTick >= 0 {
			firstKills = append(firstKills, rs.firstKillTick)
		}
		if rs.firstDamageTick >= 0 {
			firstDamage = append(firstDamage, rs.firstDamageTick)
		}
		if rs.deathTick >= 0 {
			deaths = append(deaths, rs.deathTick)
		}
		for _, w := range rs.waves {
			if w.Cleared {
				waveTicks[w.Wave] = append(waveTicks[w.Wave], w.Ticks())
			}
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes=%s\n", n, joinCounts(outcomes))
	fmt.Printf("avg_per_run: waves_cleared=%.1f kills=%.1f damage_taken=%.1f\n",
		avg(totalCleared, n), avg(totalKills, n), avg(totalDamage, n))
	hitRate := 0.0
	if totalSwings > 0 {
		hitRate = float64(totalHits) / float64(totalSwings)
	}
	fmt.Printf("swings=%d hits=%d hit_rate=%.2f kills_by_type=%s\n", totalSwings, totalHits, hitRate, joinCounts(kinds))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_damage=%s death=%s\n",
		avgTickString(firstKills), avgTickString(firstDamage), avgTickString(deaths))

	waveNums := make([]int, 0, len(waveTicks))
	for w := range waveTicks {
		waveNums = append(waveNums, w)
	}
	sort.Ints(waveNums)
	for _, w := range waveNums {
		fmt.Printf("  wave %-3d cleared_by=%d/%d avg_ticks=%s\n", w, len(waveTicks[w]), n, avgTickString(waveTicks[w]))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// joinCounts renders a count map as "a=1,b=2" in key order.
func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
