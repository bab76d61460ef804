package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	lostSightGiveUp   = 3.0
	retreatCheckTime  = 2.0
	crouchAttackRange = 1000.0
	chaseRange        = 400.0
)

// attackState fights one enemy. It runs as an interrupt and hands control
// back to the primary state when the fight ends.
type attackState struct {
	enemy world.Handle

	started     float64
	lastSeenPos geom.Vec3
	lostSight   timer.Interval
	dodge       timer.Countdown
	dodgeLeft   bool
	crouch      bool
	retreat     timer.Countdown
	calledHelp  bool
}

func (*attackState) Name() string { return "attack" }

func (s *attackState) OnEnter(a *Agent) {
	now := a.now()
	s.started = now
	s.lostSight.Start(now)
	s.calledHelp = false
	s.retreat.Start(now, retreatCheckTime)
	if c, ok := a.mgr.lookup(s.enemy); ok {
		s.lastSeenPos = c.Pos
		// skilled shooters crouch for accuracy at range
		s.crouch = c.Pos.Dist(a.me.Pos) > crouchAttackRange && a.rng.Float64() < a.profile.Skill*0.5
	}
	a.think("attacking %s", s.enemy)
	a.record("combat", "attack", s.enemy.String(), 0)
}

func (s *attackState) OnUpdate(a *Agent) {
	now := a.now()
	enemy, ok := a.mgr.lookup(s.enemy)
	if !ok || !enemy.Alive {
		a.think("target down")
		a.StopAttacking()
		return
	}

	visible, _ := a.IsVisible(enemy, false)
	if visible {
		s.lostSight.Start(now)
		s.lastSeenPos = enemy.Pos
	} else if s.lostSight.IsGreaterThan(now, lostSightGiveUp) {
		a.think("lost sight of %s", s.enemy)
		a.StopAttacking()
		if a.disposition == EngageAndInvestigate && a.rng.Float64() < a.profile.Aggression {
			a.SetTask(TaskMoveToLastKnownEnemyPosition, s.enemy)
			a.MoveTo(s.lastSeenPos, SafestRoute)
		}
		return
	}

	if a.IsOutnumbered() && s.retreat.IsElapsed(now) {
		s.retreat.Start(now, retreatCheckTime)
		if !s.calledHelp {
			if a.attackedTimer.IsLessThan(now, 1) {
				a.chatter.PinnedDown()
			} else {
				a.chatter.NeedBackup()
			}
			s.calledHelp = true
		}
		if a.morale <= MoraleNegative && a.TryToRetreat(retreatRange) {
			a.StopAttacking()
			return
		}
	}

	aim := a.aimPoint(enemy)
	if !visible {
		aim = s.lastSeenPos.Add(geom.V(0, 0, world.StandEyeHeight))
	}
	a.SetLookAt("enemy", aim, PriorityHigh, 0.5)

	tolerance := 2 + (1-a.profile.Skill)*8
	if visible && now-s.started >= a.profile.AttackDelay && a.IsLookingAtPosition(aim, tolerance) &&
		!a.IsRecognizedEnemyProtectedByShield() {
		a.Fire()
	}

	a.attackMovement(s, enemy, visible)
}

// attackMovement dodges while the enemy is in view and closes in when it
// is not.
func (a *Agent) attackMovement(s *attackState, enemy world.Combatant, visible bool) {
	now := a.now()
	dist := enemy.Pos.Dist(a.me.Pos)
	if !visible {
		a.StandUp()
		a.MoveTowards(s.lastSeenPos)
		return
	}
	if s.crouch {
		a.Crouch()
		a.Stop()
		return
	}
	if a.IsRecognizedEnemyReloading() && a.profile.Aggression > 0.5 && dist > chaseRange {
		a.MoveTowards(enemy.Pos)
		return
	}
	if a.profile.Skill < 0.3 {
		a.Stop()
		return
	}
	if s.dodge.IsElapsed(now) {
		s.dodgeLeft = a.rng.Intn(2) == 0
		s.dodge.Start(now, 0.3+a.rng.Float64()*0.7)
	}
	a.Strafe(s.dodgeLeft)
	if dist < closeCombatRange && a.rng.Float64() < 0.05*a.profile.Skill {
		a.Jump()
	}
}

func (*attackState) OnExit(a *Agent) {
	a.Stop()
	a.StandUp()
	a.Run()
	a.ClearLookAt()
}
