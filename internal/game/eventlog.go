package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Jordieee/GPC-Trabajo/internal/sim"
	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

const (
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 11
)

// EventSource tells the panel which colour to tag a line with.
type EventSource int

const (
	SourceWave EventSource = iota
	SourcePlayer
	SourceEnemy
)

// EventEntry is a single line in the event log.
type EventEntry struct {
	Tick    int
	Source  EventSource
	Message string
}

// EventLog is a ring buffer of recent gameplay events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(tick int, src EventSource, msg string) {
	el.entries[el.head] = EventEntry{Tick: tick, Source: src, Message: msg}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns the number of stored entries.
func (el *EventLog) Len() int {
	return el.count
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Collect turns the interesting parts of a tick report into log lines.
// Countdown ticks are left to the HUD.
func (el *EventLog) Collect(rep sim.TickReport) {
	for _, ev := range rep.Events {
		switch ev.Kind {
		case wave.EventWaveSpawned:
			el.Add(rep.Tick, SourceWave, fmt.Sprintf("wave %d: %d enemies", ev.Wave, rep.Alive))
		case wave.EventWaveStarted:
			el.Add(rep.Tick, SourceWave, fmt.Sprintf("wave %d released", ev.Wave))
		case wave.EventWaveCompleted:
			el.Add(rep.Tick, SourceWave, fmt.Sprintf("wave %d cleared", ev.Wave))
		case wave.EventEnemyKilled:
			el.Add(rep.Tick, SourceEnemy, fmt.Sprintf("E%s (%s) killed", ev.Handle, ev.Value))
		case wave.EventRetry:
			el.Add(rep.Tick, SourceWave, "terrain not ready, retrying")
		case wave.EventStartDropped:
			el.Add(rep.Tick, SourceWave, "wave start dropped")
		}
	}
	if rep.Hits > 0 {
		el.Add(rep.Tick, SourcePlayer, fmt.Sprintf("swing hit %d", rep.Hits))
	}
	if rep.DamageTaken > 0 {
		el.Add(rep.Tick, SourceEnemy, fmt.Sprintf("player -%d hp (%d)", rep.DamageTaken, rep.PlayerHealth))
	}
	if rep.GameOver {
		el.Add(rep.Tick, SourcePlayer, "player died")
	}
}

// Draw renders the log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 70, B: 90, A: 200}, false)

	entries := el.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	const recent = 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 36, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, sourceColor(e.Source), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y)
		y += logLineHeight
	}
}

func sourceColor(src EventSource) color.RGBA {
	switch src {
	case SourcePlayer:
		return color.RGBA{R: 70, G: 170, B: 230, A: 255}
	case SourceEnemy:
		return color.RGBA{R: 220, G: 80, B: 70, A: 255}
	default:
		return color.RGBA{R: 230, G: 200, B: 70, A: 255}
	}
}
