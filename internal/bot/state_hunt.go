package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	huntReevaluateTime = 10.0
	huntHideChance     = 0.1
	huntMinGoalRange   = 300.0
	huntClearChance    = 0.25
)

// huntState roams between random areas looking for enemies.
type huntState struct {
	goal       geom.Vec3
	hasGoal    bool
	reevaluate timer.Countdown
}

func (*huntState) Name() string { return "hunt" }

func (s *huntState) OnEnter(a *Agent) {
	a.Run()
	a.StandUp()
	a.DestroyPath()
	s.hasGoal = false
	s.reevaluate.Start(a.now(), huntReevaluateTime)
}

func (s *huntState) OnUpdate(a *Agent) {
	now := a.now()

	if a.disposition == EngageAndInvestigate && a.HeardInterestingNoise() {
		a.InvestigateNoise()
		return
	}

	// the scenario may have moved on since we started roaming
	if s.reevaluate.IsElapsed(now) {
		s.reevaluate.Start(now, huntReevaluateTime)
		if !a.IsRogue() && a.objectiveChanged() {
			a.Idle()
			return
		}
		if !a.IsSafe() && a.rng.Float64() < huntHideChance*(1-a.profile.Aggression) {
			a.SetTask(TaskHoldPosition, world.NoHandle)
			if a.TryToHide(a.me.Pos, guardSpotRange, 5+a.rng.Float64()*5, false) {
				return
			}
			a.SetTask(TaskSeekAndDestroy, world.NoHandle)
		}
	}

	// chase the last enemy we saw when we are the aggressive type
	if !s.hasGoal {
		if pos, ok := a.LastKnownEnemyPosition(); ok && a.TimeSinceLastSawEnemy() < 10 && a.rng.Float64() < a.profile.Aggression {
			s.goal, s.hasGoal = pos, true
		} else if area := a.randomHuntArea(); area != nil {
			s.goal, s.hasGoal = area.Center(), true
		} else {
			a.Stop()
			return
		}
		a.think("hunting toward %.0f,%.0f", s.goal.X, s.goal.Y)
	}

	switch a.followPath(s.goal, a.routeForNow()) {
	case EndOfPath:
		s.hasGoal = false
		if a.TimeSinceLastSawEnemy() > huntReevaluateTime && a.rng.Float64() < huntClearChance {
			a.chatter.Clear(a.place)
		}
		a.Idle()
	case PathFailure:
		s.hasGoal = false
		a.Idle()
	}
}

func (*huntState) OnExit(a *Agent) {
	a.Run()
}

// randomHuntArea picks a random area away from where we stand.
func (a *Agent) randomHuntArea() *nav.Area {
	g := a.graph()
	if g == nil {
		return nil
	}
	areas := g.Areas()
	if len(areas) == 0 {
		return nil
	}
	for range 8 {
		area := areas[a.rng.Intn(len(areas))]
		if area.Has(nav.AttrDamaging) || a.IsUnreachable(area.Center()) {
			continue
		}
		if area.Center().Dist(a.me.Pos) > huntMinGoalRange {
			return area
		}
	}
	if area := areas[a.rng.Intn(len(areas))]; !a.IsUnreachable(area.Center()) {
		return area
	}
	return nil
}

// objectiveChanged is true when the scenario has something more pressing
// for us than roaming.
func (a *Agent) objectiveChanged() bool {
	sc := a.scenario()
	if sc == nil {
		return false
	}
	switch sc.Kind() {
	case world.ScenarioBomb:
		if a.me.HasBomb {
			return true
		}
		switch a.gameState.BombState() {
		case world.BombPlanted:
			return true
		case world.BombLoose:
			return a.gameState.IsLooseBombLocationKnown()
		}
	case world.ScenarioHostages:
		if a.team != a.hostageGuardTeam() {
			return a.HostageEscortCount() > 0
		}
		return a.gameState.HaveSomeHostagesBeenTaken()
	case world.ScenarioEscort:
		return a.me.IsVIP
	}
	return false
}
