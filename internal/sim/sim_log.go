package sim

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a session.
type SimLogEntry struct {
	Tick     int
	Agent    string  // label e.g. "P", "E3#1", or "--" for global events
	Kind     string  // "player", an enemy type, or "--"
	Category string  // wave, combat, move, nav, state
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] E3#1  combat    enemy_attack     hit player for 10
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-5s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a session. Unlike the viewer's
// EventLog ring buffer it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// steering entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, agent, kind, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Agent:    agent,
		Kind:     kind,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, agent, kind, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, agent, kind, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of recorded entries.
func (sl *SimLog) Len() int {
	return len(sl.entries)
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterAgent returns entries for a specific agent label.
func (sl *SimLog) FilterAgent(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Agent == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		e := sl.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// FirstOf returns the earliest entry matching category+key, or false if none.
func (sl *SimLog) FirstOf(category, key string) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the session state.
func (sl *SimLog) Summary(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d (%.1fs) ---\n", s.TickCount(), s.Elapsed())

	w := s.Waves()
	fmt.Fprintf(&sb, "Wave %d  phase=%s  alive=%d  kills=%d\n", w.Wave(), w.Phase(), w.AliveCount(), w.Kills())

	p := s.Player()
	pos := p.Position()
	fmt.Fprintf(&sb, "Player: health=%d/%d  pos=(%.1f,%.1f)  swinging=%v\n",
		p.Health(), p.MaxHealth(), pos[0], pos[2], p.Attacking())

	byType := map[string]int{}
	frozen := 0
	for _, e := range s.Enemies() {
		if e.Dead {
			continue
		}
		byType[e.Type]++
		if e.Frozen {
			frozen++
		}
	}
	fmt.Fprintf(&sb, "Enemies: basic=%d fast=%d tank=%d frozen=%d\n",
		byType["basic"], byType["fast"], byType["tank"], frozen)
	fmt.Fprintf(&sb, "Events: hits=%d attacks=%d blocked_moves=%d\n",
		sl.CountCategory("combat", "player_hit"), sl.CountCategory("combat", "enemy_attack"), sl.CountCategory("nav", "blocked"))
	if s.GameOver() {
		sb.WriteString("GAME OVER\n")
	}
	return sb.String()
}
