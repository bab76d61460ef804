package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

// path following tuning
const (
	maxPathLength      = 256
	maxPathFailures    = 3
	unreachableMemory  = 5.0
	stepInDist         = 5.0
	endWalkRange       = 200.0
	endCloseRange      = 20.0
	giveUpDuration     = 4.0
	jumpCrouchHeight   = 58.0
	fallCloseRange     = 75.0
	doorOpenRange      = 100.0
	friendInTheWayDist = 100.0
	friendSideClear    = 30.0
)

// PathStep is one waypoint of a computed path.
type PathStep struct {
	Area   *nav.Area
	How    nav.How
	Pos    geom.Vec3
	Ladder *nav.Ladder
}

// pathCost builds the cost model for a search starting now.
func (a *Agent) pathCost(route RouteType) *PathCost {
	return &PathCost{
		Graph:             a.graph(),
		Route:             route,
		Team:              a.team,
		AgentIndex:        uint64(a.index),
		Health:            float64(a.me.Health),
		Aggression:        a.profile.Aggression,
		Attacking:         a.IsAttacking(),
		EscortingHostages: a.HostageEscortCount() > 0,
		Danger:            a.mgr.danger,
		Occupancy:         a.mgr.occupancyAt,
		Now:               a.now(),
		JitterBucket:      a.mgr.settings.JitterBucketSeconds,
	}
}

// ComputePath searches a route to goal. It is throttled to one search
// every 0.4 to 0.6 seconds and returns false while throttled, when we are
// off the mesh, or when goal cannot be reached.
func (a *Agent) ComputePath(goal geom.Vec3, route RouteType) bool {
	now := a.now()
	if !a.repathTimer.IsElapsed(now) {
		return false
	}
	a.repathTimer.Start(now, 0.4+a.rng.Float64()*0.2)
	a.DestroyPath()

	g := a.graph()
	if g == nil {
		return false
	}
	start := a.lastKnownArea
	if start == nil {
		return false
	}
	if closest := start.ClosestPoint(a.me.Eye()); closest.Z-a.me.Pos.Z > jumpCrouchHeight {
		// fell off; our last area is above our head
		start = g.NearestArea(a.me.Pos)
		if start == nil {
			return false
		}
		a.lastKnownArea = start
	}

	goalArea := g.NearestArea(goal)
	if goalArea == nil {
		return false
	}
	end := goal
	end.Z = goalArea.ClosestPoint(goal).Z

	if start.ID == goalArea.ID {
		a.buildTrivialPath(start, end)
		return true
	}

	a.mgr.metrics.PathSearch()
	segs, ok := g.ShortestPath(start, goalArea, a.pathCost(route).EdgeCost)
	if !ok || len(segs) == 0 {
		a.think("no path to area %d", goalArea.ID)
		a.mgr.metrics.PathFailed()
		return false
	}
	if len(segs) == 1 {
		a.buildTrivialPath(start, end)
		return true
	}
	if len(segs) > maxPathLength-1 {
		segs = segs[:maxPathLength-1]
	}

	path := make([]PathStep, 0, len(segs)+1)
	path = append(path, PathStep{Area: segs[0].Area, How: nav.HowWalk, Pos: segs[0].Area.Center()})
	for i := 1; i < len(segs); i++ {
		seg := segs[i]
		prev := path[i-1].Pos
		step := PathStep{Area: seg.Area, How: seg.How, Ladder: seg.Ladder}
		switch {
		case seg.Ladder != nil && seg.How == nav.HowLadderUp:
			step.Pos = seg.Ladder.Bottom
		case seg.Ladder != nil && seg.How == nav.HowLadderDown:
			step.Pos = seg.Ladder.Top
		default:
			entry := seg.Area.ClosestPoint(prev)
			into := seg.Area.Center().Sub(entry).Flat()
			if into.Len2D() > stepInDist {
				entry = entry.Add(into.Normalize().Scale(stepInDist))
			}
			step.Pos = entry
		}
		path = append(path, step)
	}
	last := segs[len(segs)-1].Area
	path = append(path, PathStep{Area: last, How: nav.HowWalk, Pos: end})

	a.path = path
	a.pathIndex = 1
	a.goalPos = path[1].Pos
	a.areaEnteredTimestamp = now

	if a.IsSafe() {
		a.initialEncounter = nil
		for _, s := range a.path {
			if g.EarliestOccupyTime(s.Area.ID, a.team) > g.EarliestOccupyTime(s.Area.ID, a.team.Opponent()) {
				a.initialEncounter = s.Area
				break
			}
		}
	}
	a.record("path", "computed", route.String(), float64(len(a.path)))
	return true
}

func (a *Agent) buildTrivialPath(area *nav.Area, goal geom.Vec3) {
	a.path = []PathStep{
		{Area: area, How: nav.HowWalk, Pos: a.me.Pos},
		{Area: area, How: nav.HowWalk, Pos: goal},
	}
	a.pathIndex = 1
	a.goalPos = goal
	a.areaEnteredTimestamp = a.now()
}

// DestroyPath drops the current path.
func (a *Agent) DestroyPath() {
	a.path = a.path[:0]
	a.pathIndex = 0
	a.waitingBehindFriend = false
}

func (a *Agent) HasPath() bool { return len(a.path) > 0 }

// PathLength is the number of steps in the current path.
func (a *Agent) PathLength() int { return len(a.path) }

// Path returns the remaining steps.
func (a *Agent) Path() []PathStep {
	if !a.HasPath() {
		return nil
	}
	return a.path[a.pathIndex:]
}

// PathEndpoint is the final position of the current path.
func (a *Agent) PathEndpoint() (geom.Vec3, bool) {
	if !a.HasPath() {
		return geom.Vec3{}, false
	}
	return a.path[len(a.path)-1].Pos, true
}

// PathDistanceRemaining walks the rest of the path, or -1 without one.
func (a *Agent) PathDistanceRemaining() float64 {
	if !a.HasPath() {
		return -1
	}
	dist := a.me.Pos.Dist(a.path[a.pathIndex].Pos)
	for i := a.pathIndex + 1; i < len(a.path); i++ {
		dist += a.path[i-1].Pos.Dist(a.path[i].Pos)
	}
	return dist
}

// InitialEncounterArea is where we expect to first meet the enemy.
func (a *Agent) InitialEncounterArea() *nav.Area { return a.initialEncounter }

// OnNavBlocked discards a path through a newly blocked area; it is rebuilt
// on the next follow.
func (a *Agent) OnNavBlocked(id nav.AreaID) {
	for _, s := range a.path {
		if s.Area != nil && s.Area.ID == id {
			a.think("path blocked at area %d", id)
			a.DestroyPath()
			a.repathTimer.Invalidate()
			return
		}
	}
}

// UpdatePathMovement steers along the current path.
func (a *Agent) UpdatePathMovement(allowSpeedChange bool) PathResult {
	if !a.HasPath() {
		return PathFailure
	}
	now := a.now()
	me := a.me.Pos

	if a.pathIndex >= len(a.path)-1 {
		d := me.Dist(a.path[len(a.path)-1].Pos)
		if d < endWalkRange && allowSpeedChange && !a.me.Crouching {
			a.Walk()
		}
		if d < endCloseRange {
			a.DestroyPath()
			a.Stop()
			if allowSpeedChange {
				a.Run()
			}
			return EndOfPath
		}
	}

	// advance past areas we have already entered
	if a.lastKnownArea != nil {
		next := a.pathIndex
		for i := a.pathIndex; i < len(a.path)-1; i++ {
			if a.path[i].Area.ID == a.lastKnownArea.ID {
				next = i + 1
			}
		}
		if next > a.pathIndex {
			a.pathIndex = next
			a.areaEnteredTimestamp = now
		}
	}
	if a.pathIndex < len(a.path)-1 && me.Dist2D(a.path[a.pathIndex].Pos) < endCloseRange {
		a.pathIndex++
		a.areaEnteredTimestamp = now
	}
	a.goalPos = a.path[a.pathIndex].Pos

	// crouch through crouch areas
	crouch := a.path[a.pathIndex].Area.Has(nav.AttrCrouch) ||
		(a.lastKnownArea != nil && a.lastKnownArea.Has(nav.AttrCrouch))
	if crouch {
		a.Crouch()
	} else if !a.IsAttacking() {
		a.StandUp()
	}
	if a.path[a.pathIndex].Area.Has(nav.AttrJump) && a.path[a.pathIndex].Pos.Z-me.Z > world.StandHeight*0.25 {
		a.Jump()
	}

	if door, ok := a.world().DoorOnSegment(me, a.goalPos); ok && !door.Open && me.Dist2D(door.Pos) < doorOpenRange {
		a.OpenDoor(door)
		return Progressing
	}

	if !a.IsAttacking() && a.isFriendInTheWay(a.goalPos) {
		if !a.waitingBehindFriend {
			a.waitingBehindFriend = true
			a.politeTimer.Start(now, 5-3*a.profile.Aggression)
		} else if a.politeTimer.IsElapsed(now) {
			a.waitingBehindFriend = false
			a.ResetStuckMonitor()
			a.DestroyPath()
			return Progressing
		}
	} else if a.waitingBehindFriend {
		a.waitingBehindFriend = false
		a.ResetStuckMonitor()
	}

	if !a.waitingBehindFriend {
		a.MoveTowards(a.goalPos)
		if a.stuck.isStuck {
			if a.stuck.stuckFor(now) > wiggleDuration {
				a.think("stuck, giving up")
				a.mgr.metrics.StuckGiveUp()
				a.record("path", "stuck", "", a.stuck.stuckFor(now))
				a.ResetStuckMonitor()
				a.DestroyPath()
				return PathFailure
			}
			a.wiggle()
		}
	} else {
		a.Stop()
	}

	didFall := false
	if a.goalPos.Z-me.Z > jumpCrouchHeight && me.Dist2D(a.goalPos) < fallCloseRange {
		if a.pathIndex < len(a.path)-1 {
			didFall = a.path[a.pathIndex+1].Pos.Z-me.Z > jumpCrouchHeight &&
				a.path[a.pathIndex+1].How != nav.HowLadderUp
		} else {
			didFall = true
		}
	}

	if didFall || now-a.areaEnteredTimestamp > giveUpDuration {
		a.think("giving up on path")
		a.Run()
		a.StandUp()
		a.DestroyPath()
		a.ClearLookAt()
		a.lastKnownArea = nil
		a.updateArea()
		return PathFailure
	}
	return Progressing
}

// isFriendInTheWay is true when a teammate stands close in front of us on
// the way to goal.
func (a *Agent) isFriendInTheWay(goal geom.Vec3) bool {
	me := a.me.Pos
	dir := goal.Sub(me).Flat()
	if dir.Len2D() < 1 {
		return false
	}
	dir = dir.Normalize()
	for _, c := range a.mgr.combatants() {
		if c.Handle == a.self || !c.Alive || c.Team != a.team {
			continue
		}
		to := c.Pos.Sub(me).Flat()
		if to.Len2D() > friendInTheWayDist {
			continue
		}
		along := to.Dot(dir)
		if along <= 0 {
			continue
		}
		side := to.Sub(dir.Scale(along)).Len2D()
		if side > friendSideClear {
			continue
		}
		// a friend moving our way at speed will clear the path
		if c.Velocity.Flat().Dot(dir) > 100 {
			continue
		}
		return true
	}
	return false
}

// followPath moves toward goal, building a path when needed. It allows a
// few failures before giving up with PathFailure.
func (a *Agent) followPath(goal geom.Vec3, route RouteType) PathResult {
	if !a.HasPath() {
		if !a.repathTimer.IsElapsed(a.now()) {
			return Progressing
		}
		if !a.ComputePath(goal, route) {
			return a.pathFailed(goal)
		}
	}
	switch r := a.UpdatePathMovement(true); r {
	case EndOfPath:
		a.pathFailures = 0
		return EndOfPath
	case PathFailure:
		return a.pathFailed(goal)
	default:
		return r
	}
}

func (a *Agent) pathFailed(goal geom.Vec3) PathResult {
	a.pathFailures++
	if a.pathFailures >= maxPathFailures {
		a.pathFailures = 0
		a.Stop()
		a.markUnreachable(goal)
		return PathFailure
	}
	return Progressing
}

// markUnreachable keeps goal's area off our list for a few seconds.
func (a *Agent) markUnreachable(goal geom.Vec3) {
	g := a.graph()
	if g == nil {
		return
	}
	if area := g.NearestArea(goal); area != nil {
		a.unreachable[area.ID] = a.now() + unreachableMemory
		a.think("giving up on area %d for now", area.ID)
	}
}

// IsUnreachable reports whether pos lies in an area we recently failed to
// reach.
func (a *Agent) IsUnreachable(pos geom.Vec3) bool {
	if len(a.unreachable) == 0 {
		return false
	}
	g := a.graph()
	if g == nil {
		return false
	}
	area := g.NearestArea(pos)
	if area == nil {
		return false
	}
	until, ok := a.unreachable[area.ID]
	if !ok {
		return false
	}
	if a.now() >= until {
		delete(a.unreachable, area.ID)
		return false
	}
	return true
}
