package world

import "github.com/Garsondee/tacbot/internal/geom"

// EventKind names a bus event.
type EventKind int

const (
	EventWeaponFired EventKind = iota
	EventFootstep
	EventExplosion
	EventDoorMoved
	EventDeath
	EventRoundStart
	EventRoundEnd
	EventBombPickedUp
	EventBombDropped
	EventBombPlanted
	EventBombDefused
	EventBombExploded
	EventHostageFollows
	EventHostageRescued
	EventNavBlocked
	EventNavUnblocked
	EventDamage
)

func (k EventKind) String() string {
	switch k {
	case EventWeaponFired:
		return "weapon_fired"
	case EventFootstep:
		return "footstep"
	case EventExplosion:
		return "explosion"
	case EventDoorMoved:
		return "door_moved"
	case EventDeath:
		return "death"
	case EventRoundStart:
		return "round_start"
	case EventRoundEnd:
		return "round_end"
	case EventBombPickedUp:
		return "bomb_picked_up"
	case EventBombDropped:
		return "bomb_dropped"
	case EventBombPlanted:
		return "bomb_planted"
	case EventBombDefused:
		return "bomb_defused"
	case EventBombExploded:
		return "bomb_exploded"
	case EventHostageFollows:
		return "hostage_follows"
	case EventHostageRescued:
		return "hostage_rescued"
	case EventNavBlocked:
		return "nav_blocked"
	case EventNavUnblocked:
		return "nav_unblocked"
	case EventDamage:
		return "damage"
	default:
		return "unknown"
	}
}

// Event is a fired simulation event.
type Event struct {
	Kind   EventKind
	Time   float64
	Source Handle // shooter, walker, victim, planter
	Other  Handle // killer or attacker, leader for hostages
	Pos    geom.Vec3
	Area   uint32 // nav area for blocked/unblocked events
	Winner Team   // round end
	Loud   bool   // suppressed shots are not loud
}

// busCapacity bounds the pending events between two drains.
const busCapacity = 256

// Bus is a fixed ring of pending events. When full the oldest event is
// overwritten. Single producer, single consumer per tick.
type Bus struct {
	events [busCapacity]Event
	head   int // next to read
	count  int
	lost   int
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Publish queues e.
func (b *Bus) Publish(e Event) {
	tail := (b.head + b.count) % busCapacity
	b.events[tail] = e
	if b.count < busCapacity {
		b.count++
		return
	}
	b.head = (b.head + 1) % busCapacity
	b.lost++
}

// Drain hands every pending event to fn in publish order.
func (b *Bus) Drain(fn func(Event)) {
	for b.count > 0 {
		e := b.events[b.head]
		b.head = (b.head + 1) % busCapacity
		b.count--
		fn(e)
	}
}

// Len returns the number of pending events.
func (b *Bus) Len() int { return b.count }

// Lost returns how many events were overwritten before being drained.
func (b *Bus) Lost() int { return b.lost }
