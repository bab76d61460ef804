// Package world defines the boundary between the bot decision core and the
// simulation it runs in: combatant snapshots, line-of-sight queries, the
// scenario oracle, outbound intents and the event bus.
package world

//go:generate go tool mockgen -destination=./mocks/world_mock.go -package=mocks . World,Controller,Scenario

import "github.com/Garsondee/tacbot/internal/geom"

// Team identifies a side.
type Team int

const (
	TeamNone Team = iota
	TeamAttackers
	TeamDefenders
)

func (t Team) String() string {
	switch t {
	case TeamAttackers:
		return "attackers"
	case TeamDefenders:
		return "defenders"
	default:
		return "none"
	}
}

// Opponent returns the other side, or TeamNone.
func (t Team) Opponent() Team {
	switch t {
	case TeamAttackers:
		return TeamDefenders
	case TeamDefenders:
		return TeamAttackers
	default:
		return TeamNone
	}
}

const (
	StandEyeHeight  = 64.0
	CrouchEyeHeight = 46.0
	StandHeight     = 72.0
	CrouchHeight    = 54.0
)

// Combatant is a read-only snapshot of a player or bot.
type Combatant struct {
	Handle    Handle
	Name      string
	Team      Team
	Bot       bool
	Alive     bool
	Health    int
	Pos       geom.Vec3 // feet
	Velocity  geom.Vec3
	Yaw       float64
	Pitch     float64
	Crouching bool
	Reloading bool
	Shielded  bool
	Sniper    bool // holding a scoped rifle
	HasBomb   bool
	IsVIP     bool
	LastFired float64 // simulation time of the last shot, negative if never
}

// Eye returns the eye position.
func (c Combatant) Eye() geom.Vec3 {
	h := StandEyeHeight
	if c.Crouching {
		h = CrouchEyeHeight
	}
	return c.Pos.Add(geom.V(0, 0, h))
}

// Center returns the torso position.
func (c Combatant) Center() geom.Vec3 {
	h := StandHeight
	if c.Crouching {
		h = CrouchHeight
	}
	return c.Pos.Add(geom.V(0, 0, h*0.5))
}

// Height returns the current hull height.
func (c Combatant) Height() float64 {
	if c.Crouching {
		return CrouchHeight
	}
	return StandHeight
}

// Door is a usable entity that can block a path segment.
type Door struct {
	Handle Handle
	Pos    geom.Vec3
	Open   bool
}

// World answers queries about the live simulation.
type World interface {
	// Combatants returns every combatant, living or dead.
	Combatants() []Combatant
	Combatant(h Handle) (Combatant, bool)
	// LineClear reports whether nothing blocks the segment from->to.
	// Combatants in ignore never block.
	LineClear(from, to geom.Vec3, ignore ...Handle) bool
	// DoorOnSegment returns a door crossing the segment from->to.
	DoorOnSegment(from, to geom.Vec3) (Door, bool)
}
