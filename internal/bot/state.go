package bot

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

// State is one behavior of the closed state set. OnEnter never changes
// state; transitions happen from OnUpdate.
type State interface {
	OnEnter(a *Agent)
	OnUpdate(a *Agent)
	OnExit(a *Agent)
	Name() string
}

// --- Transitions ---

func (a *Agent) setState(s State) {
	if a.state != nil {
		a.state.OnExit(a)
	}
	prev := "none"
	if a.state != nil {
		prev = a.state.Name()
	}
	a.state = s
	a.stateTimestamp = a.now()
	s.OnEnter(a)
	a.mgr.metrics.StateChange(s.Name())
	a.record("state", prev, s.Name(), 0)
	a.log.Debug().Str("from", prev).Str("to", s.Name()).Str("task", a.task.String()).Msg("state")
}

func (a *Agent) setInterrupt(s State) {
	if a.interrupt != nil {
		a.interrupt.OnExit(a)
	}
	a.interrupt = s
	s.OnEnter(a)
	a.mgr.metrics.StateChange(s.Name())
	a.record("state", "interrupt", s.Name(), 0)
}

func (a *Agent) clearInterrupt() {
	if a.interrupt == nil {
		return
	}
	a.interrupt.OnExit(a)
	a.interrupt = nil
}

// TimeInState is how long the primary state has run.
func (a *Agent) TimeInState() float64 { return a.now() - a.stateTimestamp }

// updateState runs the interrupt when one is active, else the primary
// state.
func (a *Agent) updateState() {
	a.checkHazards()
	if a.interrupt != nil {
		if a.IsIdle() {
			a.Idle()
		}
		a.interrupt.OnUpdate(a)
		return
	}
	if a.state == nil {
		a.Idle()
		return
	}
	a.state.OnUpdate(a)
}

// Idle enters the hub state and dispatches to a concrete state at once.
func (a *Agent) Idle() {
	a.setState(idleState{})
	if a.dispatching {
		return
	}
	a.dispatching = true
	idleState{}.OnUpdate(a)
	a.dispatching = false
}

func (a *Agent) IsIdle() bool {
	_, ok := a.state.(idleState)
	return ok
}

// Hunt roams the map looking for enemies.
func (a *Agent) Hunt() { a.setState(&huntState{}) }

func (a *Agent) IsHunting() bool {
	_, ok := a.state.(*huntState)
	return ok
}

// Attack engages enemy as an interrupt over the primary state.
func (a *Agent) Attack(enemy world.Handle) {
	if s, ok := a.interrupt.(*attackState); ok {
		s.enemy = enemy
		return
	}
	a.setInterrupt(&attackState{enemy: enemy})
}

// StopAttacking resumes the primary state.
func (a *Agent) StopAttacking() {
	if a.IsAttacking() {
		a.clearInterrupt()
	}
}

func (a *Agent) IsAttacking() bool {
	_, ok := a.interrupt.(*attackState)
	return ok
}

// OpenDoor opens door as an interrupt unless we are fighting.
func (a *Agent) OpenDoor(door world.Door) {
	if a.interrupt != nil {
		return
	}
	a.setInterrupt(&openDoorState{door: door})
}

func (a *Agent) IsOpeningDoor() bool {
	_, ok := a.interrupt.(*openDoorState)
	return ok
}

// InvestigateNoise moves to the last heard noise.
func (a *Agent) InvestigateNoise() { a.setState(&investigateNoiseState{}) }

func (a *Agent) IsInvestigatingNoise() bool {
	_, ok := a.state.(*investigateNoiseState)
	return ok
}

// MoveTo walks to pos and performs the current task on arrival.
func (a *Agent) MoveTo(pos geom.Vec3, route RouteType) {
	a.setState(&moveToState{goal: pos, route: route})
}

// MoveToEntity follows a combatant's position, repathing when it moves.
func (a *Agent) MoveToEntity(h world.Handle, route RouteType) {
	if c, ok := a.mgr.lookup(h); ok {
		a.setState(&moveToState{goal: c.Pos, route: route, entity: h})
	}
}

// Hide moves to spot and holds it for holdTime seconds.
func (a *Agent) Hide(spot *nav.HidingSpot, holdTime float64) {
	a.hidingSpot = spot
	a.setState(&hideState{spot: spot, holdTime: holdTime})
}

func (a *Agent) IsHiding() bool {
	_, ok := a.state.(*hideState)
	return ok
}

// Follow keeps near leader.
func (a *Agent) Follow(leader world.Handle) {
	a.followLeader = leader
	a.SetTask(TaskFollow, leader)
	a.setState(&followState{leader: leader})
}

func (a *Agent) IsFollowing() bool {
	_, ok := a.state.(*followState)
	return ok
}

// EscapeFrom runs beyond radius of pos.
func (a *Agent) EscapeFrom(pos geom.Vec3, radius float64) {
	a.setState(&escapeHazardState{from: pos, radius: radius})
}

func (a *Agent) IsEscaping() bool {
	_, ok := a.state.(*escapeHazardState)
	return ok
}

// UseEntityState approaches h at pos and presses use on it.
func (a *Agent) UseEntityState(h world.Handle, pos geom.Vec3) {
	a.setState(&useEntityState{entity: h, pos: pos})
}

// --- Hazards ---

const (
	bombEscapeTime     = 10.0
	defuseTimeWithKit  = 5.0
	defuseTimeNoKit    = 10.0
	defaultBlastRadius = 1000.0
)

// checkHazards starts an escape when a planted bomb is about to blow or
// we stand in a damaging area.
func (a *Agent) checkHazards() {
	if a.IsEscaping() {
		return
	}
	if a.lastKnownArea != nil && a.lastKnownArea.Has(nav.AttrDamaging) {
		a.SetTask(TaskEscapeFromFlames, world.NoHandle)
		radius := math.Max(a.lastKnownArea.SizeX(), a.lastKnownArea.SizeY())
		a.StopAttacking()
		a.EscapeFrom(a.lastKnownArea.Center(), radius)
		return
	}
	sc := a.scenario()
	if sc == nil || sc.Kind() != world.ScenarioBomb {
		return
	}
	b := sc.Bomb()
	if b.State != world.BombPlanted {
		return
	}
	// only sides that know where the bomb is can run from it
	pos, known := a.gameState.BombPosition()
	if !known || a.gameState.BombState() != world.BombPlanted {
		return
	}
	radius := b.BlastSize
	if radius <= 0 {
		radius = defaultBlastRadius
	}
	if a.me.Pos.Dist(pos) > radius {
		return
	}
	leave := false
	switch a.team {
	case world.TeamAttackers:
		leave = b.TimeLeft < bombEscapeTime
	case world.TeamDefenders:
		need := defuseTimeNoKit
		if a.hasDefuseKit() {
			need = defuseTimeWithKit
		}
		travel := a.me.Pos.Dist(pos) / runSpeed
		defusing := b.Defuser == a.self
		leave = b.TimeLeft < need+travel && !(defusing && b.TimeLeft >= need-0.5)
	}
	if leave {
		a.think("bomb about to blow, escaping")
		a.SetTask(TaskEscapeFromBomb, world.NoHandle)
		a.StopAttacking()
		a.EscapeFrom(pos, radius)
	}
}

// runSpeed is the nominal running speed used for estimates.
const runSpeed = 225.0
