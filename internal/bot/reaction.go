package bot

import "github.com/Garsondee/tacbot/internal/world"

// reactionQueueCapacity is the depth of the reaction time buffer, in heavy
// updates.
const reactionQueueCapacity = 20

// ReactionEntry is a snapshot of the most dangerous threat at one update.
type ReactionEntry struct {
	Enemy     world.Handle
	Reloading bool
	Shielded  bool
}

// ReactionQueue is a fixed ring of threat snapshots. The newest entry
// overwrites the oldest once the ring is full.
type ReactionQueue struct {
	entries [reactionQueueCapacity]ReactionEntry
	next    int // slot written by the next Push
	count   int
}

// Push records the threat seen at this update.
func (q *ReactionQueue) Push(e ReactionEntry) {
	q.entries[q.next] = e
	q.next = (q.next + 1) % reactionQueueCapacity
	if q.count < reactionQueueCapacity {
		q.count++
	}
}

// Attend returns the entry pushed steps updates before the newest one.
// ok is false when fewer than steps+1 entries were ever pushed.
func (q *ReactionQueue) Attend(steps int) (ReactionEntry, bool) {
	if steps < 0 || steps >= q.count {
		return ReactionEntry{}, false
	}
	idx := q.next - 1 - steps
	for idx < 0 {
		idx += reactionQueueCapacity
	}
	return q.entries[idx], true
}

// Latest is the most recent snapshot.
func (q *ReactionQueue) Latest() (ReactionEntry, bool) { return q.Attend(0) }

// Count is the number of readable entries, at most the capacity.
func (q *ReactionQueue) Count() int { return q.count }

// Capacity is the fixed number of slots.
func (q *ReactionQueue) Capacity() int { return reactionQueueCapacity }

// Reset empties the ring.
func (q *ReactionQueue) Reset() {
	*q = ReactionQueue{}
}

// ReactionSteps converts a reaction time into a number of updates to look
// back, clamped to what the ring can hold.
func ReactionSteps(reactionTime, interval float64) int {
	if interval <= 0 {
		return 0
	}
	rt := reactionTime - interval
	maxRT := reactionQueueCapacity*interval - 0.01
	if rt > maxRT {
		rt = maxRT
	}
	steps := int(rt/interval + 0.5)
	if steps < 0 {
		return 0
	}
	if steps > reactionQueueCapacity-1 {
		return reactionQueueCapacity - 1
	}
	return steps
}
