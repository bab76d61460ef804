package nav

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
)

// AreaID identifies a nav area. Zero is never a valid id.
type AreaID uint32

// Attr is a set of area attribute bits.
type Attr uint16

const (
	AttrCrouch     Attr = 1 << iota // must crouch to pass
	AttrJump                        // must jump to pass
	AttrWalk                        // precise footing, walk don't run
	AttrAvoid                       // designer hint to route elsewhere
	AttrDamaging                    // fire, gas, radiation
	AttrNoHostages                  // hostages cannot follow through
	AttrStop                        // stop before moving on
)

// StepHeight is the largest rise a combatant walks over without jumping.
const StepHeight = 18.0

// Area is one convex walkable region.
type Area struct {
	ID     AreaID
	Extent geom.Box // Min.Z is the floor height
	Attrs  Attr
	Place  string
}

// Has reports whether every bit in attr is set.
func (a *Area) Has(attr Attr) bool { return a.Attrs&attr == attr }

// Center returns the floor-height midpoint.
func (a *Area) Center() geom.Vec3 {
	c := a.Extent.Center()
	c.Z = a.Extent.Min.Z
	return c
}

func (a *Area) SizeX() float64 { return a.Extent.Max.X - a.Extent.Min.X }
func (a *Area) SizeY() float64 { return a.Extent.Max.Y - a.Extent.Min.Y }

// Contains reports whether p is over the area and not far above or below it.
func (a *Area) Contains(p geom.Vec3) bool {
	if !a.Extent.Contains2D(p) {
		return false
	}
	return math.Abs(p.Z-a.Extent.Min.Z) <= StepHeight*4
}

// ClosestPoint clamps p onto the area floor.
func (a *Area) ClosestPoint(p geom.Vec3) geom.Vec3 {
	return geom.V(
		math.Max(a.Extent.Min.X, math.Min(p.X, a.Extent.Max.X)),
		math.Max(a.Extent.Min.Y, math.Min(p.Y, a.Extent.Max.Y)),
		a.Extent.Min.Z,
	)
}

// How is the traversal mode onto an area.
type How int

const (
	HowWalk How = iota
	HowLadderUp
	HowLadderDown
	HowJump
)

func (h How) String() string {
	switch h {
	case HowWalk:
		return "walk"
	case HowLadderUp:
		return "ladder_up"
	case HowLadderDown:
		return "ladder_down"
	case HowJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Ladder joins two areas vertically.
type Ladder struct {
	ID         uint32
	Bottom     geom.Vec3
	Top        geom.Vec3
	BottomArea AreaID
	TopArea    AreaID
}

// Length is the climb distance.
func (l *Ladder) Length() float64 { return l.Top.Dist(l.Bottom) }

// Connection is a directed edge of the graph.
type Connection struct {
	To     AreaID
	How    How
	Ladder *Ladder
}

// SpotFlags describe a hiding spot.
type SpotFlags uint8

const (
	SpotInCover SpotFlags = 1 << iota
	SpotGoodSniper
	SpotIdealSniper
	SpotExposed
)

// HidingSpot is a precomputed place to hold or ambush from.
type HidingSpot struct {
	ID    uint32
	Pos   geom.Vec3
	Area  AreaID
	Flags SpotFlags
}

// IsSniperSpot reports whether the spot suits a scoped rifle.
func (s *HidingSpot) IsSniperSpot() bool {
	return s.Flags&(SpotGoodSniper|SpotIdealSniper) != 0
}

// ApproachPoint is a place an enemy would come from when approaching an area.
type ApproachPoint struct {
	Area AreaID
	Pos  geom.Vec3
}

// Segment is one hop of a computed route.
type Segment struct {
	Area   *Area
	How    How
	Ladder *Ladder
	Length float64
}
