package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

// audible ranges and how long a heard noise stays relevant
const (
	gunfireHearingRange   = 2000.0
	footstepHearingRange  = 1100.0
	explosionHearingRange = 2500.0
	doorHearingRange      = 1000.0
	noiseMemory           = 3.0
)

type noiseState struct {
	heard     bool
	pos       geom.Vec3
	area      *nav.Area
	timestamp float64
	priority  Priority
	footstep  bool
	rng       float64 // audible range of the sound that made it
}

// audible describes how far an event carries and how much it matters.
func audible(ev world.Event) (rng float64, pri Priority, footstep, ok bool) {
	switch ev.Kind {
	case world.EventWeaponFired:
		return gunfireHearingRange, PriorityHigh, false, true
	case world.EventFootstep:
		return footstepHearingRange, PriorityLow, true, true
	case world.EventExplosion, world.EventBombExploded:
		return explosionHearingRange, PriorityHigh, false, true
	case world.EventDoorMoved:
		return doorHearingRange, PriorityMedium, false, true
	default:
		return 0, PriorityLow, false, false
	}
}

// OnAudibleEvent turns a bus event into a remembered noise. Only enemy
// sources within range count, and a newer or more important noise replaces
// the one we have.
func (a *Agent) OnAudibleEvent(ev world.Event) {
	if !a.me.Alive {
		return
	}
	rng, pri, footstep, ok := audible(ev)
	if !ok {
		return
	}
	if ev.Source == a.self {
		return
	}
	if src, found := a.mgr.lookup(ev.Source); found && src.Team == a.team {
		return
	}
	if ev.Pos.Dist(a.me.Pos) > rng {
		return
	}
	now := a.now()
	if a.IsNoiseHeard() && pri < a.noise.priority {
		return
	}

	area := (*nav.Area)(nil)
	if g := a.graph(); g != nil {
		area = g.NearestArea(ev.Pos)
	}
	a.noise = noiseState{
		heard:     true,
		pos:       ev.Pos,
		area:      area,
		timestamp: now,
		priority:  pri,
		footstep:  footstep,
		rng:       rng,
	}
	if pri >= PriorityHigh {
		a.BecomeAlert()
	}
}

// IsNoiseHeard is true while a remembered noise is fresh.
func (a *Agent) IsNoiseHeard() bool {
	return a.noise.heard && a.now()-a.noise.timestamp < noiseMemory
}

// NoisePosition returns where the last noise came from.
func (a *Agent) NoisePosition() (geom.Vec3, bool) {
	return a.noise.pos, a.IsNoiseHeard()
}

func (a *Agent) NoiseArea() *nav.Area    { return a.noise.area }
func (a *Agent) NoisePriority() Priority { return a.noise.priority }
func (a *Agent) NoiseRange() float64     { return a.me.Pos.Dist(a.noise.pos) }
func (a *Agent) ForgetNoise()            { a.noise.heard = false }

// CanSeeNoisePosition reports a clear line to where the noise came from.
func (a *Agent) CanSeeNoisePosition() bool {
	return a.IsVisiblePoint(a.noise.pos.Add(geom.V(0, 0, 36)), true)
}

// NoiseInvestigateChance scales by priority, aggression and morale.
func (a *Agent) NoiseInvestigateChance() float64 {
	var base float64
	switch a.noise.priority {
	case PriorityLow:
		base = 0.25
	case PriorityMedium:
		base = 0.5
	default:
		base = 0.8
	}
	chance := base*(0.5+0.5*a.profile.Aggression) + 0.1*float64(a.morale)
	return clamp01(chance)
}

// HeardInterestingNoise rolls whether the current noise is worth checking.
// A faint footstep we cannot see the source of is never interesting.
func (a *Agent) HeardInterestingNoise() bool {
	if !a.IsNoiseHeard() {
		return false
	}
	if a.noise.footstep && a.NoiseRange() > a.noise.rng/3 && !a.CanSeeNoisePosition() {
		return false
	}
	return a.rng.Float64() < a.NoiseInvestigateChance()
}

// CanHearNearbyEnemyGunfire is true when enemy fire was heard within rng.
// rng < 0 means any range.
func (a *Agent) CanHearNearbyEnemyGunfire(rng float64) bool {
	if !a.IsNoiseHeard() || a.noise.priority < PriorityHigh || a.noise.footstep {
		return false
	}
	if rng < 0 {
		return true
	}
	return a.NoiseRange() <= rng
}
