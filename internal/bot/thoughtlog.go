package bot

import (
	"fmt"

	"github.com/Garsondee/tacbot/internal/world"
)

const thoughtLogEntries = 60

// ThoughtEntry is a single line in the thought log.
type ThoughtEntry struct {
	Tick    int
	Agent   string
	Team    world.Team
	Message string
}

func (e ThoughtEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-10s %s", e.Tick, e.Agent, e.Message)
}

// ThoughtLog is a ring buffer of the most recent agent thoughts, kept for
// inspection after a run.
type ThoughtLog struct {
	entries []ThoughtEntry
	head    int
	count   int
}

// NewThoughtLog creates a thought log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{entries: make([]ThoughtEntry, thoughtLogEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (tl *ThoughtLog) Add(tick int, agent string, team world.Team, msg string) {
	tl.entries[tl.head] = ThoughtEntry{Tick: tick, Agent: agent, Team: team, Message: msg}
	tl.head = (tl.head + 1) % thoughtLogEntries
	if tl.count < thoughtLogEntries {
		tl.count++
	}
}

// Len is the number of entries held.
func (tl *ThoughtLog) Len() int { return tl.count }

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	out := make([]ThoughtEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + thoughtLogEntries) % thoughtLogEntries
		out[i] = tl.entries[idx]
	}
	return out
}
