package bot

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// lookState is the agent's current look-at request and the view deltas
// produced for this tick.
type lookState struct {
	active       bool
	desc         string
	spot         geom.Vec3
	priority     Priority
	duration     float64
	started      float64
	clearIfClose bool
	inhibitUntil float64
	yawDelta     float64
	pitchDelta   float64
	viewMoving   bool
}

const (
	lookSpotTolerance   = 10.0
	glanceCheckRange    = 500.0
	recentThreatTime    = 1.0
	lookAroundNoiseNear = 500.0
	minStillTime        = 2.0
	approachRecompute   = 50.0
	halfHumanHeight     = 36.0
	checkedSpotLifetime = 10.0
)

// SetLookAt asks the view to face pos. A lower priority request never
// replaces a higher one that is still active.
func (a *Agent) SetLookAt(desc string, pos geom.Vec3, pri Priority, duration float64) {
	if a.IsBlind() {
		return
	}
	now := a.now()
	if a.isLookActive(now) && a.look.priority > pri {
		return
	}
	if a.isLookActive(now) && a.look.spot.Dist(pos) < lookSpotTolerance {
		a.look.duration = duration
		a.look.started = now
		if a.look.priority < pri {
			a.look.priority = pri
		}
		a.look.desc = desc
		return
	}
	a.look = lookState{
		active:       true,
		desc:         desc,
		spot:         pos,
		priority:     pri,
		duration:     duration,
		started:      now,
		inhibitUntil: a.look.inhibitUntil,
		yawDelta:     a.look.yawDelta,
		pitchDelta:   a.look.pitchDelta,
	}
}

// ClearLookAt drops the current request.
func (a *Agent) ClearLookAt() { a.look.active = false }

func (a *Agent) isLookActive(now float64) bool {
	return a.look.active && (a.look.duration <= 0 || now-a.look.started < a.look.duration)
}

// IsLookingAtSpot reports an active request of at least pri.
func (a *Agent) IsLookingAtSpot(pri Priority) bool {
	return a.isLookActive(a.now()) && a.look.priority >= pri
}

// LookAtDesc names what we are looking at, for logs.
func (a *Agent) LookAtDesc() string {
	if !a.isLookActive(a.now()) {
		return ""
	}
	return a.look.desc
}

// InhibitLookAround stops idle glancing for duration seconds.
func (a *Agent) InhibitLookAround(duration float64) {
	a.look.inhibitUntil = a.now() + duration
}

// IsLookingAtPosition is true when our view points at pos within
// angleTolerance degrees.
func (a *Agent) IsLookingAtPosition(pos geom.Vec3, angleTolerance float64) bool {
	to := pos.Sub(a.me.Eye())
	yaw := a.me.Yaw + a.look.yawDelta
	pitch := a.me.Pitch + a.look.pitchDelta
	if math.Abs(geom.AngleDiff(to.Yaw(), yaw)) > angleTolerance {
		return false
	}
	return math.Abs(geom.AngleDiff(to.Pitch(), pitch)) <= angleTolerance
}

// IsViewMoving is true while the view turned noticeably last tick.
func (a *Agent) IsViewMoving() bool { return a.look.viewMoving }

// maxTurnRate is degrees per second.
func (a *Agent) maxTurnRate() float64 {
	return 360 + 540*a.profile.Skill
}

// updateLookAngles turns the view toward the look target, or along the
// path when there is none.
func (a *Agent) updateLookAngles(dt float64) {
	now := a.now()
	var wantYaw, wantPitch float64
	switch {
	case a.isLookActive(now):
		to := a.look.spot.Sub(a.me.Eye())
		if a.look.clearIfClose && to.Len2D() < 100 {
			a.ClearLookAt()
			return
		}
		wantYaw, wantPitch = to.Yaw(), to.Pitch()
	case a.move.dir != (geom.Vec3{}):
		wantYaw, wantPitch = a.move.dir.Yaw(), 0
	default:
		a.look.viewMoving = false
		return
	}
	if a.look.active && !a.isLookActive(now) {
		a.look.active = false
	}

	step := a.maxTurnRate() * dt
	dy := geom.AngleDiff(wantYaw, a.me.Yaw)
	dp := wantPitch - a.me.Pitch
	a.look.yawDelta = clampAbs(dy, step)
	a.look.pitchDelta = clampAbs(dp, step)
	a.look.viewMoving = math.Abs(a.look.yawDelta) > 1
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// --- Looking around ---

// updateLookAround glances at the last enemy position, nearby noises,
// approach points while holding still, and unchecked hiding spots while
// moving.
func (a *Agent) updateLookAround() {
	now := a.now()
	if a.IsAttacking() {
		return
	}

	if !a.IsNoiseHeard() || a.NoiseRange() > lookAroundNoiseNear {
		if !a.IsLookingAtSpot(PriorityMedium) && a.lastSawEnemy.IsLessThan(now, recentThreatTime) {
			a.ClearLookAt()
			spot := a.lastEnemyPos.Add(geom.V(0, 0, halfHumanHeight))
			a.SetLookAt("last enemy position", spot, PriorityMedium, 2+a.rng.Float64())
			a.look.clearIfClose = true
			return
		}
	}

	if a.IsNoiseHeard() && !a.IsLookingAtSpot(PriorityMedium) && a.NoiseRange() < a.noise.rng {
		a.SetLookAt("noise", a.noise.pos.Add(geom.V(0, 0, halfHumanHeight)), PriorityMedium, 1)
		return
	}

	if now < a.look.inhibitUntil {
		return
	}

	if a.IsAtHidingSpot() || a.IsNotMoving(minStillTime) {
		if a.me.Pos.Dist(a.approachFrom) > approachRecompute || !a.approachValid {
			a.ComputeApproachPoints()
		}
		if !a.lookAroundTimer.IsElapsed(now) {
			return
		}
		if a.IsSniper() {
			a.lookAroundTimer.Start(now, 5+a.rng.Float64()*5)
		} else {
			a.lookAroundTimer.Start(now, 1+a.rng.Float64())
		}
		if spot, ok := a.pickApproachToWatch(); ok {
			a.SetLookAt("approach point", spot.Add(geom.V(0, 0, halfHumanHeight)), PriorityLow, 0)
		}
		return
	}

	if a.IsSafe() || a.IsLookingAtSpot(PriorityLow) {
		return
	}
	a.glanceAtHidingSpots(now)
}

// pickApproachToWatch prefers approach points the enemy could already have
// reached; when none qualify it watches the earliest one.
func (a *Agent) pickApproachToWatch() (geom.Vec3, bool) {
	if len(a.approach) == 0 {
		return geom.Vec3{}, false
	}
	g := a.graph()
	elapsed := a.now() - a.mgr.roundStart
	valid := make([]geom.Vec3, 0, len(a.approach))
	var early geom.Vec3
	earliest := math.Inf(1)
	haveEarly := false
	for _, ap := range a.approach {
		t := g.EarliestOccupyTime(ap.Area, a.team.Opponent())
		if elapsed >= t {
			valid = append(valid, ap.Pos)
		} else if t < earliest {
			earliest, early, haveEarly = t, ap.Pos, true
		}
	}
	if len(valid) > 0 {
		return valid[a.rng.Intn(len(valid))], true
	}
	return early, haveEarly
}

// glanceAtHidingSpots looks at a nearby hiding spot we have not checked
// recently and remembers it as checked.
func (a *Agent) glanceAtHidingSpots(now float64) {
	g := a.graph()
	if g == nil {
		return
	}
	for _, spot := range g.HidingSpots() {
		if spot.Pos.Dist(a.me.Pos) > glanceCheckRange {
			continue
		}
		if a.checked.CheckedRecently(spot.ID, now, checkedSpotLifetime) {
			continue
		}
		eyeSpot := spot.Pos.Add(geom.V(0, 0, halfHumanHeight))
		if !a.IsVisiblePoint(eyeSpot, false) {
			continue
		}
		a.checked.Mark(spot.ID, now)
		a.SetLookAt("hiding spot", eyeSpot, PriorityLow, 0.5+a.rng.Float64()*0.5)
		return
	}
}

// IsNotMoving is true when our speed stayed near zero for minDuration.
func (a *Agent) IsNotMoving(minDuration float64) bool {
	return a.stuck.stillFor(a.now()) >= minDuration
}

// lookAtCombatant is a convenience for states that watch a combatant.
func (a *Agent) lookAtCombatant(desc string, c world.Combatant, pri Priority, duration float64) {
	a.SetLookAt(desc, c.Center(), pri, duration)
}
