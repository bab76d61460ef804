package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/tacbot/internal/bot"
	"github.com/Garsondee/tacbot/internal/world"
)

// SimLogEntry is one recorded event during a headless match.
type SimLogEntry struct {
	Tick     int
	Agent    string  // agent name, or "--" for world events
	Team     string  // "attackers", "defenders" or "--"
	Category string  // state, task, path, perception, chatter, combat, bomb, world, round
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] alpha    state      idle           hunt
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-8s %-10s %-14s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless match. Unlike the
// thought ring buffer it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. With verbose set, per-tick positions and
// health are recorded as well.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, agent, team, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Agent:    agent,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, agent, team, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, agent, team, category, key, value, numVal)
}

// Record makes SimLog a bot recorder.
func (sl *SimLog) Record(tick int, agent, team, category, key, value string, num float64) {
	sl.Add(tick, agent, team, category, key, value, num)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
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

// FilterAgent returns entries for one agent.
func (sl *SimLog) FilterAgent(name string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Agent == name {
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

// Tally counts the values of entries matching category and key.
func (sl *SimLog) Tally(category, key string) map[string]int {
	out := make(map[string]int)
	for _, e := range sl.Filter(category, key) {
		out[e.Value]++
	}
	return out
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
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

// Summary returns a short human-readable summary of the agents at tick.
func (sl *SimLog) Summary(tick int, agents []*bot.Agent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)

	for _, team := range []world.Team{world.TeamAttackers, world.TeamDefenders} {
		states := map[string]int{}
		alive := 0
		for _, a := range agents {
			if a.Team() == team && a.IsAlive() {
				alive++
				states[a.StateName()]++
			}
		}
		names := make([]string, 0, len(states))
		for s := range states {
			names = append(names, s)
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "%s alive=%d states: ", team, alive)
		for _, s := range names {
			fmt.Fprintf(&sb, "%s=%d  ", s, states[s])
		}
		sb.WriteByte('\n')
	}

	contacts := 0
	for _, a := range agents {
		if !a.IsAlive() {
			continue
		}
		if enemy, ok := a.GetRecognizedEnemy(); ok {
			fmt.Fprintf(&sb, "Contacts: %s -> %s\n", a.Name(), enemy.Name)
			contacts++
		}
	}
	if contacts == 0 {
		sb.WriteString("Contacts: none\n")
	}
	return sb.String()
}
