package bot

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	entityRepathRange   = 100.0
	noiseCloseRange     = 300.0
	noiseRepathRange    = 100.0
	followNearRange     = 150.0
	followFarRange      = 300.0
	followGiveUp        = 60.0
	followRecheck       = 2.0
	escapeMargin        = 200.0
	hideRecheck         = 2.0
	doorOpenTimeout     = 1.0
	followLeaderWalking = 150.0
)

// --- Move to ---

// moveToState walks to a position and performs the task on arrival.
type moveToState struct {
	goal   geom.Vec3
	route  RouteType
	entity world.Handle
}

func (*moveToState) Name() string { return "move_to" }

func (s *moveToState) OnEnter(a *Agent) {
	a.DestroyPath()
	a.Run()
}

func (s *moveToState) OnUpdate(a *Agent) {
	if s.entity.IsValid() {
		c, ok := a.mgr.lookup(s.entity)
		if !ok || !c.Alive {
			a.Idle()
			return
		}
		if c.Pos.Dist(s.goal) > entityRepathRange {
			s.goal = c.Pos
			a.DestroyPath()
		}
	}

	if a.checkTaskEnRoute() {
		return
	}

	switch a.followPath(s.goal, s.route) {
	case EndOfPath:
		a.arrive(s.goal)
	case PathFailure:
		a.think("cannot reach %.0f,%.0f", s.goal.X, s.goal.Y)
		a.Idle()
	}
}

func (*moveToState) OnExit(a *Agent) {
	a.Run()
}

// checkTaskEnRoute abandons or short-circuits a move when the task changed
// under us. It reports whether the state was replaced.
func (a *Agent) checkTaskEnRoute() bool {
	switch a.task {
	case TaskPlantBomb:
		if !a.me.HasBomb {
			a.Idle()
			return true
		}
		if _, in := a.zoneAt(a.me.Pos, world.ZoneBombsite); in {
			a.setState(&plantBombState{})
			return true
		}
	case TaskDefuseBomb:
		if a.gameState.BombState() != world.BombPlanted {
			a.Idle()
			return true
		}
		if pos, ok := a.gameState.BombPosition(); ok && a.me.Pos.Dist(pos) < defuseRange {
			a.setState(&defuseBombState{})
			return true
		}
	case TaskFindTickingBomb:
		// found it on the way
		if _, ok := a.gameState.BombPosition(); ok {
			a.Idle()
			return true
		}
	case TaskRescueHostages:
		if a.HostageEscortCount() == 0 {
			a.Idle()
			return true
		}
	}
	return false
}

// arrive runs the task at the end of a move.
func (a *Agent) arrive(goal geom.Vec3) {
	switch a.task {
	case TaskPlantBomb:
		if _, in := a.zoneAt(a.me.Pos, world.ZoneBombsite); in && a.me.HasBomb {
			a.setState(&plantBombState{})
			return
		}
	case TaskDefuseBomb:
		a.setState(&defuseBombState{})
		return
	case TaskFindTickingBomb:
		if z, ok := a.zoneAt(goal, world.ZoneBombsite); ok {
			if _, found := a.gameState.BombPosition(); !found {
				a.gameState.ClearBombsite(z.Index)
				a.chatter.BombsiteClear(z.Index)
				a.think("bombsite %s is clear", z.Name)
			}
		}
	case TaskMoveToLastKnownEnemyPosition:
		a.SetLookAt("last enemy", goal.Add(geom.V(0, 0, world.StandEyeHeight)), PriorityLow, 2)
	}
	a.Idle()
}

// --- Hide ---

// hideState moves to a hiding spot and holds it.
type hideState struct {
	spot     *nav.HidingSpot
	holdTime float64
	holding  bool
	hold     timer.Countdown
	recheck  timer.Countdown
}

func (*hideState) Name() string { return "hide" }

func (s *hideState) OnEnter(a *Agent) {
	a.hidingSpot = s.spot
	a.DestroyPath()
	s.holding = false
	s.recheck.Start(a.now(), hideRecheck)
}

func (s *hideState) OnUpdate(a *Agent) {
	now := a.now()

	if s.recheck.IsElapsed(now) {
		s.recheck.Start(now, hideRecheck)
		if a.hideShouldReevaluate() {
			a.Idle()
			return
		}
	}

	if !s.holding {
		if a.isSpotOccupied(s.spot) {
			a.think("hiding spot %d taken", s.spot.ID)
			a.Idle()
			return
		}
		r := Progressing
		if !a.IsAtHidingSpot() {
			r = a.followPath(s.spot.Pos, a.routeForNow())
		}
		switch {
		case r == PathFailure:
			a.Idle()
			return
		case r == EndOfPath || a.IsAtHidingSpot():
			s.holding = true
			s.hold.Start(now, s.holdTime)
			a.DestroyPath()
			a.Stop()
			if a.task == TaskMoveToSniperSpot {
				a.SetTask(TaskSniping, world.NoHandle)
			}
			a.record("hide", "holding", a.place, s.holdTime)
		default:
			return
		}
	}

	a.Stop()
	if a.task == TaskSniping || a.rng.Float64() < 0.01*(1-a.profile.Aggression) {
		a.Crouch()
	}
	if a.disposition == EngageAndInvestigate && a.HeardInterestingNoise() && a.rng.Float64() < a.profile.Aggression {
		a.InvestigateNoise()
		return
	}
	if s.hold.IsElapsed(now) {
		a.Idle()
	}
}

func (*hideState) OnExit(a *Agent) {
	a.hidingSpot = nil
	a.StandUp()
	a.Run()
}

// hideShouldReevaluate is true when a guard task no longer fits the round.
func (a *Agent) hideShouldReevaluate() bool {
	switch a.task {
	case TaskHoldPosition, TaskGuardBombZone, TaskMoveToSniperSpot, TaskSniping, TaskSeekAndDestroy:
		return a.objectiveChanged()
	case TaskGuardLooseBomb:
		return a.gameState.BombState() != world.BombLoose
	case TaskGuardHostages:
		return a.gameState.HaveSomeHostagesBeenTaken() && a.rng.Float64() < 0.5
	case TaskGuardBombDefuser:
		return !a.scenario().Bomb().Defuser.IsValid()
	}
	return false
}

// --- Follow ---

// followState keeps within a band of a leader.
type followState struct {
	leader     world.Handle
	leaderPos  geom.Vec3
	giveUp     timer.Countdown
	recheck    timer.Countdown
	hasLeadPos bool
}

func (*followState) Name() string { return "follow" }

func (s *followState) OnEnter(a *Agent) {
	now := a.now()
	s.giveUp.Start(now, followGiveUp)
	s.recheck.Start(now, followRecheck)
	s.hasLeadPos = false
	a.DestroyPath()
}

func (s *followState) OnUpdate(a *Agent) {
	now := a.now()
	leader, ok := a.mgr.lookup(s.leader)
	if !ok || !leader.Alive || s.giveUp.IsElapsed(now) {
		a.Idle()
		return
	}
	if s.recheck.IsElapsed(now) {
		s.recheck.Start(now, followRecheck)
		if a.objectiveChanged() {
			a.Idle()
			return
		}
	}

	if !s.hasLeadPos || leader.Pos.Dist(s.leaderPos) > entityRepathRange {
		s.leaderPos = leader.Pos
		s.hasLeadPos = true
		a.DestroyPath()
	}

	dist := a.me.Pos.Dist(leader.Pos)
	switch {
	case dist > followFarRange:
		if leader.Velocity.Len2D() < followLeaderWalking {
			a.Walk()
		} else {
			a.Run()
		}
		if a.followPath(leader.Pos, FastestRoute) == PathFailure {
			a.Idle()
		}
	case dist < followNearRange:
		a.DestroyPath()
		a.MoveAwayFrom(leader.Pos)
		a.Walk()
	default:
		a.DestroyPath()
		a.Stop()
		a.SetLookAt("leader view", leader.Eye().Add(geom.Forward(leader.Yaw, 0).Scale(500)), PriorityLow, 1)
	}
}

func (*followState) OnExit(a *Agent) {
	a.followLeader = world.NoHandle
	a.Run()
}

// --- Escape ---

// escapeHazardState runs clear of a hazard and waits for it to end.
type escapeHazardState struct {
	from    geom.Vec3
	radius  float64
	goal    geom.Vec3
	hasGoal bool
	prev    Disposition
}

func (*escapeHazardState) Name() string { return "escape" }

func (s *escapeHazardState) OnEnter(a *Agent) {
	s.prev = a.disposition
	if a.task == TaskEscapeFromBomb {
		a.SetDisposition(IgnoreEnemies)
	}
	a.DestroyPath()
	a.Run()
	a.StandUp()
	s.goal, s.hasGoal = a.escapeGoal(s.from, s.radius+escapeMargin)
}

func (s *escapeHazardState) OnUpdate(a *Agent) {
	if a.hazardOver(s.from, s.radius) {
		a.Idle()
		return
	}
	if !s.hasGoal {
		a.MoveAwayFrom(s.from)
		return
	}
	if a.me.Pos.Dist(s.from) > s.radius+escapeMargin {
		a.DestroyPath()
		a.Stop()
		a.SetLookAt("hazard", s.from, PriorityLow, 1)
		return
	}
	if a.followPath(s.goal, FastestRoute) == PathFailure {
		s.hasGoal = false
	}
}

func (s *escapeHazardState) OnExit(a *Agent) {
	a.SetDisposition(s.prev)
}

// escapeGoal picks the closest area center beyond minDist of from.
func (a *Agent) escapeGoal(from geom.Vec3, minDist float64) (geom.Vec3, bool) {
	g := a.graph()
	if g == nil {
		return geom.Vec3{}, false
	}
	best := math.Inf(1)
	var goal geom.Vec3
	found := false
	for _, area := range g.Areas() {
		if area.Has(nav.AttrDamaging) {
			continue
		}
		c := area.Center()
		if c.Dist(from) < minDist {
			continue
		}
		if d := c.Dist(a.me.Pos); d < best {
			best, goal, found = d, c, true
		}
	}
	return goal, found
}

// hazardOver reports whether the danger we escaped from is gone.
func (a *Agent) hazardOver(from geom.Vec3, radius float64) bool {
	switch a.task {
	case TaskEscapeFromBomb:
		sc := a.scenario()
		return sc == nil || sc.Bomb().State != world.BombPlanted
	case TaskEscapeFromFlames:
		inFire := a.lastKnownArea != nil && a.lastKnownArea.Has(nav.AttrDamaging)
		return !inFire && a.me.Pos.Dist(from) > radius
	}
	return true
}

// --- Investigate ---

// investigateNoiseState walks toward the last heard noise.
type investigateNoiseState struct {
	pos geom.Vec3
}

func (*investigateNoiseState) Name() string { return "investigate_noise" }

func (s *investigateNoiseState) OnEnter(a *Agent) {
	a.DestroyPath()
	s.pos, _ = a.NoisePosition()
	if a.NoiseRange() < noiseCloseRange*2 && a.profile.Aggression < 0.5 {
		a.Walk()
	} else {
		a.Run()
	}
	a.chatter.HeardNoise(s.pos)
}

func (s *investigateNoiseState) OnUpdate(a *Agent) {
	pos, heard := a.NoisePosition()
	if !heard {
		a.Idle()
		return
	}
	if pos.Dist(s.pos) > noiseRepathRange {
		s.pos = pos
		a.DestroyPath()
	}
	if a.NoiseRange() < noiseCloseRange && a.CanSeeNoisePosition() {
		a.think("nothing at the noise")
		a.ForgetNoise()
		a.Idle()
		return
	}
	switch a.followPath(s.pos, SafestRoute) {
	case EndOfPath, PathFailure:
		a.ForgetNoise()
		a.Idle()
	}
}

func (*investigateNoiseState) OnExit(a *Agent) {
	a.Run()
}

// --- Doors ---

// openDoorState presses use on a closed door in our way.
type openDoorState struct {
	door    world.Door
	timeout timer.Countdown
}

func (*openDoorState) Name() string { return "open_door" }

func (s *openDoorState) OnEnter(a *Agent) {
	s.timeout.Start(a.now(), doorOpenTimeout)
}

func (s *openDoorState) OnUpdate(a *Agent) {
	if door, ok := a.world().DoorOnSegment(a.me.Pos, s.door.Pos); ok && door.Handle == s.door.Handle && door.Open {
		a.clearInterrupt()
		return
	}
	if s.timeout.IsElapsed(a.now()) {
		a.clearInterrupt()
		return
	}
	a.Stop()
	a.SetLookAt("door", s.door.Pos, PriorityHigh, 0.5)
	a.UseEntity(s.door.Handle)
}

func (*openDoorState) OnExit(a *Agent) {
	a.ClearLookAt()
}
