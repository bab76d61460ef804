package bot

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	checkedSpotCapacity = 64
	spotOccupiedRange   = 50.0
	atHidingSpotRange   = 30.0
	retreatRange        = 1000.0
)

// spotCache remembers when we last looked at hiding spots. It holds at most
// 64 entries and overwrites the oldest.
type spotCache struct {
	ids   [checkedSpotCapacity]uint32
	times [checkedSpotCapacity]float64
	count int
	next  int
}

func (c *spotCache) Reset() { *c = spotCache{} }

// Mark records spot id as checked at now.
func (c *spotCache) Mark(id uint32, now float64) {
	for i := 0; i < c.count; i++ {
		if c.ids[i] == id {
			c.times[i] = now
			return
		}
	}
	c.ids[c.next] = id
	c.times[c.next] = now
	c.next = (c.next + 1) % checkedSpotCapacity
	if c.count < checkedSpotCapacity {
		c.count++
	}
}

// CheckedRecently is true when id was marked within window seconds.
func (c *spotCache) CheckedRecently(id uint32, now, window float64) bool {
	for i := 0; i < c.count; i++ {
		if c.ids[i] == id {
			return now-c.times[i] < window
		}
	}
	return false
}

func (c *spotCache) Len() int { return c.count }

// isSpotOccupied is true when another combatant stands on the spot or
// another agent has claimed it.
func (a *Agent) isSpotOccupied(spot *nav.HidingSpot) bool {
	for _, c := range a.mgr.combatants() {
		if c.Handle == a.self || !c.Alive {
			continue
		}
		if c.Pos.Dist2D(spot.Pos) < spotOccupiedRange {
			return true
		}
	}
	occupied := false
	a.mgr.agents.Each(func(_ world.Handle, other *Agent) {
		if other != a && other.hidingSpot != nil && other.hidingSpot.ID == spot.ID && other.me.Alive {
			occupied = true
		}
	})
	return occupied
}

// isSpotVisibleToEnemy traces from every live enemy we know to the spot.
func (a *Agent) isSpotVisibleToEnemy(spot *nav.HidingSpot) bool {
	target := spot.Pos.Add(geom.V(0, 0, world.CrouchEyeHeight))
	for _, c := range a.mgr.combatants() {
		if !c.Alive || c.Team != a.team.Opponent() {
			continue
		}
		if a.world().LineClear(c.Eye(), target, c.Handle, a.self) {
			return true
		}
	}
	return false
}

// FindHidingSpot picks a random spot reachable within rangeLimit of from
// that nobody holds and no enemy can see. sniper restricts to sniper spots.
func (a *Agent) FindHidingSpot(from geom.Vec3, rangeLimit float64, sniper bool) (*nav.HidingSpot, bool) {
	g := a.graph()
	if g == nil {
		return nil, false
	}
	start := g.NearestArea(from)
	if start == nil {
		return nil, false
	}
	candidates := make([]*nav.HidingSpot, 0, 16)
	for _, spot := range g.HidingSpots() {
		if sniper && !spot.IsSniperSpot() {
			continue
		}
		if spot.Pos.Dist(from) > rangeLimit {
			continue
		}
		if a.isSpotOccupied(spot) || a.isSpotVisibleToEnemy(spot) {
			continue
		}
		area := g.Area(spot.Area)
		if area == nil {
			continue
		}
		d := g.TravelDistance(start, area, nav.DistanceCost)
		if d < 0 || d > rangeLimit {
			continue
		}
		candidates = append(candidates, spot)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[a.rng.Intn(len(candidates))], true
}

// TryToHide moves to a hiding spot near from and holds it. It returns
// false when no spot qualifies.
func (a *Agent) TryToHide(from geom.Vec3, rangeLimit float64, holdTime float64, sniper bool) bool {
	spot, ok := a.FindHidingSpot(from, rangeLimit, sniper)
	if !ok {
		a.think("no hiding spot near %.0f,%.0f", from.X, from.Y)
		return false
	}
	a.Hide(spot, holdTime)
	return true
}

// TryToRetreat hides at a spot away from the current enemy.
func (a *Agent) TryToRetreat(rangeLimit float64) bool {
	spot, ok := a.FindHidingSpot(a.me.Pos, rangeLimit, false)
	if !ok {
		return false
	}
	if enemy, seen := a.GetRecognizedEnemy(); seen {
		// never retreat toward the enemy
		if spot.Pos.Dist(enemy.Pos) < a.me.Pos.Dist(enemy.Pos) {
			return false
		}
	}
	a.think("retreating")
	a.Hide(spot, 3+a.rng.Float64()*3)
	return true
}

// HidingSpot is the spot we are moving to or holding.
func (a *Agent) HidingSpot() *nav.HidingSpot { return a.hidingSpot }

// IsAtHidingSpot is true while we stand on our claimed spot.
func (a *Agent) IsAtHidingSpot() bool {
	return a.hidingSpot != nil && a.me.Pos.Dist2D(a.hidingSpot.Pos) < atHidingSpotRange
}

// --- Approach points ---

// ComputeApproachPoints caches the approach points of our current area.
func (a *Agent) ComputeApproachPoints() {
	a.approachFrom = a.me.Pos
	a.approachValid = true
	a.approach = a.approach[:0]
	if a.lastKnownArea == nil || a.graph() == nil {
		return
	}
	a.approach = append(a.approach, a.graph().ApproachPoints(a.lastKnownArea.ID)...)
}

// ApproachPoints returns the cached approach points.
func (a *Agent) ApproachPoints() []nav.ApproachPoint { return a.approach }

// FindApproachPointNearestPath returns the approach point closest to any
// step of our current path.
func (a *Agent) FindApproachPointNearestPath() (geom.Vec3, bool) {
	if !a.HasPath() {
		return geom.Vec3{}, false
	}
	if !a.approachValid || a.me.Pos.Dist(a.approachFrom) > approachRecompute {
		a.ComputeApproachPoints()
	}
	best := math.Inf(1)
	var pos geom.Vec3
	found := false
	for _, ap := range a.approach {
		for _, step := range a.path[a.pathIndex:] {
			if d := ap.Pos.DistSqr(step.Pos); d < best {
				best, pos, found = d, ap.Pos, true
			}
		}
	}
	return pos, found
}
