package world

import (
	"strings"

	"github.com/Garsondee/tacbot/internal/geom"
)

// ScenarioKind is the round objective.
type ScenarioKind int

const (
	ScenarioElimination ScenarioKind = iota
	ScenarioBomb
	ScenarioHostages
	ScenarioEscort
)

func (k ScenarioKind) String() string {
	switch k {
	case ScenarioBomb:
		return "bomb"
	case ScenarioHostages:
		return "hostages"
	case ScenarioEscort:
		return "escort"
	default:
		return "elimination"
	}
}

// ParseScenario maps a name to a ScenarioKind.
func ParseScenario(s string) (ScenarioKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elimination":
		return ScenarioElimination, true
	case "bomb":
		return ScenarioBomb, true
	case "hostages":
		return ScenarioHostages, true
	case "escort":
		return ScenarioEscort, true
	default:
		return ScenarioElimination, false
	}
}

// ZoneKind tags an objective zone.
type ZoneKind int

const (
	ZoneBombsite ZoneKind = iota
	ZoneRescue
	ZoneEscape
)

// Zone is an objective region.
type Zone struct {
	Index  int
	Kind   ZoneKind
	Name   string
	Extent geom.Box
}

// Center returns the zone midpoint at floor height.
func (z Zone) Center() geom.Vec3 {
	c := z.Extent.Center()
	c.Z = z.Extent.Min.Z
	return c
}

// BombState is the lifecycle of the explosive objective.
type BombState int

const (
	BombMoving BombState = iota // carried
	BombLoose                   // dropped on the ground
	BombPlanted
	BombDefused
	BombExploded
)

func (s BombState) String() string {
	switch s {
	case BombMoving:
		return "moving"
	case BombLoose:
		return "loose"
	case BombPlanted:
		return "planted"
	case BombDefused:
		return "defused"
	case BombExploded:
		return "exploded"
	default:
		return "unknown"
	}
}

// BombInfo is the true bomb state.
type BombInfo struct {
	State     BombState
	Pos       geom.Vec3
	Carrier   Handle
	Zone      int     // bombsite index when planted, -1 otherwise
	TimeLeft  float64 // seconds to detonation when planted
	Defuser   Handle
	BlastSize float64
}

// Hostage is the true state of an escort objective.
type Hostage struct {
	Handle  Handle
	Pos     geom.Vec3
	Alive   bool
	Leader  Handle // who it follows, NoHandle when free
	Rescued bool
}

// Scenario is the oracle for round objectives. Bots with imperfect knowledge
// only consult it through their own observations.
type Scenario interface {
	Kind() ScenarioKind
	Zones() []Zone
	Bomb() BombInfo
	Hostages() []Hostage
	Hostage(h Handle) (Hostage, bool)
	RoundOver() bool
	// CanBuy reports whether h may still purchase equipment this round.
	CanBuy(h Handle) bool
}
