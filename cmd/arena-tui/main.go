// Command arena-tui plays an arena session in the terminal. The autopilot drives
// the player; the map is an ASCII minimap of the archipelago.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/sim"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

type viewer struct {
	screen tcell.Screen
	ts     *sim.TestSim

	paused bool
	speed  int // sim ticks per frame

	cols, rows int
	proj       projection
	base       [][]cell
}

func newViewer(screen tcell.Screen, ts *sim.TestSim) *viewer {
	v := &viewer{screen: screen, ts: ts, speed: 1}
	v.resize()
	return v
}

// resize recomputes the projection and the terrain layer. Two rows are kept
// for the status lines.
func (v *viewer) resize() {
	w, h := v.screen.Size()
	v.cols, v.rows = max(w, 10), max(h-2, 5)
	v.proj = newProjection(v.ts.Session.Terrain(), v.cols, v.rows)
	v.base = terrainLayer(v.ts.Session.Terrain(), v.proj)
}

// handleInput returns false when the viewer should exit.
func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return true
}

func (v *viewer) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return false
	}
	if key != tcell.KeyRune {
		return true
	}
	switch r {
	case 'q':
		return false
	case 'n':
		v.ts.Session.StartWave()
	case 'p':
		v.paused = !v.paused
	case '+':
		v.speed = min(v.speed*2, 16)
	case '-':
		v.speed = max(v.speed/2, 1)
	}
	return true
}

func (v *viewer) step() {
	if v.paused {
		return
	}
	v.ts.RunTicks(v.speed)
}

func (v *viewer) draw() {
	v.screen.Clear()
	grid := rasterize(v.ts.Session, v.base, v.proj)
	for y, row := range grid {
		for x, c := range row {
			v.screen.SetContent(x, y, c.ch, nil, c.style)
		}
	}
	v.printLine(v.rows, statusLine(v.ts.Session, v.paused, v.speed), tcell.StyleDefault.Bold(true))
	v.printLine(v.rows+1, "q quit  n next wave  p pause  +/- speed", tcell.StyleDefault.Foreground(tcell.ColorGray))
	v.screen.Show()
}

func (v *viewer) printLine(y int, s string, style tcell.Style) {
	x := 0
	for _, r := range s {
		if x >= v.cols {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func statusLine(s *sim.Session, paused bool, speed int) string {
	w := s.Waves()
	line := fmt.Sprintf("wave %d %s  alive=%d kills=%d  hp=%d  T=%d x%d",
		w.Wave(), w.Phase(), w.AliveCount(), w.Kills(), max(s.Player().Health(), 0), s.TickCount(), speed)
	if label := w.CountdownLabel(); label != "" {
		line += "  [" + label + "]"
	}
	if s.GameOver() {
		line += "  GAME OVER"
	} else if paused {
		line += "  PAUSED"
	}
	return line
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.step()
			v.draw()
		}
	}
}

func main() {
	var cfgPath string
	var seed int64
	var autoWaves bool
	var logPath string

	flag.StringVar(&cfgPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed override (0 keeps the config seed)")
	flag.BoolVar(&autoWaves, "auto-waves", true, "start the next wave automatically")
	flag.StringVar(&logPath, "log", "", "write the session log to this file")
	flag.Parse()

	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "arena-tui", Level: log.DebugLevel})

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	ts := sim.NewTestSim(
		sim.WithConfig(cfg),
		sim.WithLogger(logger),
		sim.WithAutopilot(autoWaves),
	)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	v := newViewer(screen, ts)
	v.run()
	screen.Fini()

	fmt.Print(ts.Reporter.Format())
}
