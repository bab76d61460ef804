package bot

import (
	"math"
	"sort"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// VisiblePart is a bitmask of the body regions a visibility test found.
type VisiblePart uint8

const (
	PartGut VisiblePart = 1 << iota
	PartHead
	PartLeftSide
	PartRightSide
	PartFeet

	PartNone VisiblePart = 0
)

const (
	viewConeHalfAngle    = 45.0   // degrees, 90° field of view
	lookingAtMeTolerance = 0.7071 // cos 45°
	partSideOffset       = 13.0
	maxThreats           = 16
	recentWatchTime      = 3.0
	closeCombatRange     = 500.0
	justFiredWindow      = 0.5
)

// notice roll tuning; chances are on a 0..100 scale
const (
	noticeQuantum    = 0.25
	noticeCloseRange = 300.0
	noticeFarRange   = 1000.0
	noticeRunSpeed   = 200.0
	noticeWalkSpeed  = 30.0
	noticeAlertBonus = 50.0
	noticeMinChance  = 0.1
)

// partPosition places one body region of c as seen from eye.
func partPosition(c world.Combatant, part VisiblePart, eye geom.Vec3) geom.Vec3 {
	switch part {
	case PartHead:
		return c.Eye().Add(geom.V(0, 0, 4))
	case PartFeet:
		return c.Pos.Add(geom.V(0, 0, 5))
	case PartLeftSide, PartRightSide:
		center := c.Center()
		to := center.Sub(eye).Flat().Normalize()
		side := geom.V(-to.Y, to.X, 0).Scale(partSideOffset)
		if part == PartRightSide {
			side = side.Scale(-1)
		}
		return center.Add(side)
	default:
		return c.Center()
	}
}

// inViewCone is true when p is within the horizontal field of view.
func (a *Agent) inViewCone(p geom.Vec3) bool {
	to := p.Sub(a.me.Eye())
	if to.Len2D() < 1 {
		return true
	}
	return math.Abs(geom.AngleDiff(to.Yaw(), a.me.Yaw)) <= viewConeHalfAngle
}

// IsBeyondMaxVisionDistance applies the configured vision cap; zero means
// unlimited.
func (a *Agent) IsBeyondMaxVisionDistance(p geom.Vec3) bool {
	limit := a.mgr.settings.MaxVisionDistance
	if limit <= 0 {
		return false
	}
	return a.me.Eye().Dist(p) > limit
}

// IsVisiblePoint traces from our eye to p.
func (a *Agent) IsVisiblePoint(p geom.Vec3, testFOV bool) bool {
	if a.IsBlind() {
		return false
	}
	if testFOV && !a.inViewCone(p) {
		return false
	}
	return a.world().LineClear(a.me.Eye(), p, a.self)
}

// IsVisible tests each body region of target and reports which are seen.
func (a *Agent) IsVisible(target world.Combatant, testFOV bool) (bool, VisiblePart) {
	center := target.Center()
	if testFOV && !a.inViewCone(center) {
		return false, PartNone
	}
	if a.IsBeyondMaxVisionDistance(center) {
		return false, PartNone
	}
	if a.IsBlind() {
		return false, PartNone
	}
	eye := a.me.Eye()
	parts := PartNone
	for _, part := range [...]VisiblePart{PartGut, PartHead, PartFeet, PartLeftSide, PartRightSide} {
		p := partPosition(target, part, eye)
		if testFOV && !a.inViewCone(p) {
			continue
		}
		if a.world().LineClear(eye, p, a.self, target.Handle) {
			parts |= part
		}
	}
	return parts != PartNone, parts
}

// IsPlayerLookingAtMe is true when c faces us within tolerance (a cosine).
func (a *Agent) IsPlayerLookingAtMe(c world.Combatant, tolerance float64) bool {
	to := a.me.Center().Sub(c.Eye()).Flat()
	if to.Len2D() < 1 {
		return true
	}
	facing := geom.Forward(c.Yaw, 0).Flat().Normalize()
	return facing.Dot(to.Normalize()) > tolerance
}

// IsSignificantlyCloser is true when test is under 70% of reference's range.
func (a *Agent) IsSignificantlyCloser(test, reference world.Combatant) bool {
	const significant = 0.7
	testRange := a.me.Pos.Dist(test.Pos)
	refRange := a.me.Pos.Dist(reference.Pos)
	return testRange < significant*refRange
}

// didJustFire is true when c fired within the last half second.
func (a *Agent) didJustFire(c world.Combatant) bool {
	return c.LastFired >= 0 && a.now()-c.LastFired < justFiredWindow
}

// IsNoticeable rolls whether a visible target is consciously noticed.
func (a *Agent) IsNoticeable(target world.Combatant, parts VisiblePart) bool {
	if a.didJustFire(target) {
		return true
	}
	if a.IsBeyondMaxVisionDistance(target.Center()) {
		return false
	}

	cover := 0.0
	if parts&PartGut != 0 {
		cover += 40
	}
	if parts&PartHead != 0 {
		cover += 10
	}
	if parts&PartLeftSide != 0 {
		cover += 20
	}
	if parts&PartRightSide != 0 {
		cover += 20
	}
	if parts&PartFeet != 0 {
		cover += 10
	}

	rng := target.Pos.Dist(a.me.Pos)
	var rangeMod float64
	switch {
	case rng < noticeCloseRange:
		rangeMod = 0
	case rng > noticeFarRange:
		rangeMod = 1
	default:
		rangeMod = (rng - noticeCloseRange) / (noticeFarRange - noticeCloseRange)
	}

	speedSq := target.Velocity.LenSqr()
	var closeChance, farChance float64
	switch {
	case speedSq > noticeRunSpeed*noticeRunSpeed:
		return true
	case speedSq > noticeWalkSpeed*noticeWalkSpeed:
		if target.Crouching {
			closeChance, farChance = 90, 60
		} else {
			closeChance, farChance = 100, 75
		}
	default:
		if target.Crouching {
			closeChance, farChance = 80, 5
		} else {
			closeChance, farChance = 100, 10
		}
	}

	disposition := closeChance + (farChance-closeChance)*rangeMod
	chance := disposition * cover / 100
	chance *= 0.5 + 0.5*a.profile.Skill
	if a.IsAlert() {
		chance += noticeAlertBonus
	}
	dt := a.attention.ElapsedTime(a.now())
	if dt > 1 {
		dt = 1
	}
	chance *= dt / noticeQuantum
	if chance < noticeMinChance {
		chance = noticeMinChance
	}
	return a.rng.Float64()*100 < chance
}

// --- Blindness and alertness ---

// Blind prevents seeing anything for duration seconds.
func (a *Agent) Blind(duration float64) {
	a.blindTimer.Start(a.now(), duration)
	a.think("blinded for %.1fs", duration)
	if a.rng.Float64() < 0.333 {
		a.chatter.Say(PhraseBlinded, 1, 0)
	}
}

func (a *Agent) IsBlind() bool {
	return a.blindTimer.HasStarted() && !a.blindTimer.IsElapsed(a.now())
}

// BecomeAlert raises notice chances for the next 10 seconds.
func (a *Agent) BecomeAlert() { a.alertTimer.Start(a.now(), 10) }

func (a *Agent) IsAlert() bool {
	return a.alertTimer.HasStarted() && !a.alertTimer.IsElapsed(a.now())
}

// --- Threat selection ---

type threatInfo struct {
	enemy world.Combatant
	rng   float64
}

// FindMostDangerousThreat picks the single enemy that deserves attention
// right now. It also refreshes the nearby counts, bomber and sniper flags,
// closest visible friend and the enemies' most common place.
func (a *Agent) FindMostDangerousThreat() (world.Combatant, bool) {
	if a.IsBlind() {
		return world.Combatant{}, false
	}
	now := a.now()

	var current world.Handle
	if e, ok := a.reaction.Latest(); ok {
		current = e.Enemy
	}

	a.bomber = world.NoHandle
	a.enemySniperVisible = false
	a.closestFriend = world.NoHandle
	closeFriend := math.Inf(1)

	var sniper world.Combatant
	haveSniper := false
	sniperRange := math.Inf(1)
	sniperFacing := false

	threats := make([]threatInfo, 0, maxThreats)
	enemyTeam := a.team.Opponent()

	for _, c := range a.mgr.combatants() {
		if c.Handle == a.self || !c.Alive {
			continue
		}
		if c.Team != enemyTeam {
			if a.IsVisiblePoint(c.Center(), false) {
				a.watch[c.Handle] = watchInfo{timestamp: now}
				if r := a.me.Pos.DistSqr(c.Pos); r < closeFriend {
					closeFriend = r
					a.closestFriend = c.Handle
				}
			}
			continue
		}

		visible, parts := a.IsVisible(c, true)
		if !visible {
			continue
		}
		if c.Handle != current && !a.IsNoticeable(c, parts) {
			continue
		}
		a.watch[c.Handle] = watchInfo{timestamp: now, isEnemy: true}
		if c.HasBomb {
			a.bomber = c.Handle
		}

		dist := a.me.Pos.Dist(c.Pos)
		if c.Sniper {
			a.enemySniperVisible = true
			facing := a.IsPlayerLookingAtMe(c, lookingAtMeTolerance)
			switch {
			case !haveSniper:
				sniper, sniperRange, sniperFacing, haveSniper = c, dist, facing, true
			case facing && (!sniperFacing || dist < sniperRange):
				sniper, sniperRange, sniperFacing = c, dist, true
			case !facing && !sniperFacing && dist < sniperRange:
				sniper, sniperRange = c, dist
			}
		}
		threats = append(threats, threatInfo{enemy: c, rng: dist})
	}

	sort.SliceStable(threats, func(i, j int) bool { return threats[i].rng < threats[j].rng })
	if len(threats) > maxThreats {
		threats = threats[:maxThreats]
	}

	a.countNearby(now)
	a.trackEnemyPlace(threats)

	if len(threats) == 0 {
		return world.Combatant{}, false
	}

	// keep the current threat unless a new one is much closer
	var currentThreat world.Combatant
	sawCurrent, sawCloser := false, false
	for _, t := range threats {
		if t.enemy.Handle == current {
			sawCurrent = true
			currentThreat = t.enemy
		}
	}
	if sawCurrent {
		for _, t := range threats {
			if t.enemy.Handle != current && a.IsSignificantlyCloser(t.enemy, currentThreat) {
				sawCloser = true
				break
			}
		}
		if !sawCloser {
			return currentThreat, true
		}
	}

	if a.IsSniper() && haveSniper {
		for _, t := range threats {
			if t.rng < closeCombatRange && a.IsPlayerLookingAtMe(t.enemy, lookingAtMeTolerance) {
				return t.enemy, true
			}
		}
		return sniper, true
	}

	for _, t := range threats {
		if a.IsPlayerLookingAtMe(t.enemy, lookingAtMeTolerance) {
			return t.enemy, true
		}
	}
	return threats[0].enemy, true
}

func (a *Agent) countNearby(now float64) {
	prevEnemies := a.nearbyEnemies
	a.nearbyEnemies, a.nearbyFriends = 0, 0
	for h, w := range a.watch {
		if now-w.timestamp >= recentWatchTime {
			delete(a.watch, h)
			continue
		}
		if w.isEnemy {
			a.nearbyEnemies++
		} else {
			a.nearbyFriends++
		}
	}
	if prevEnemies == 0 && a.nearbyEnemies > 0 {
		a.firstSawEnemy = now
	}
}

// trackEnemyPlace remembers the place most of the visible threats stand in.
// Ties go to the place seen first.
func (a *Agent) trackEnemyPlace(threats []threatInfo) {
	g := a.graph()
	if g == nil {
		return
	}
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, t := range threats {
		area := g.NearestArea(t.enemy.Center())
		if area == nil || area.Place == "" {
			continue
		}
		counts[area.Place]++
		if counts[area.Place] > bestCount {
			best, bestCount = area.Place, counts[area.Place]
		}
	}
	a.enemyPlace = best
}

// EnemyPlace is where most of the recently seen enemies stand.
func (a *Agent) EnemyPlace() string { return a.enemyPlace }

// IsEnemySniperVisible reports whether a sniper was seen this update.
func (a *Agent) IsEnemySniperVisible() bool { return a.enemySniperVisible }

// TimeSinceFirstSawEnemy is how long the current batch of enemies has been
// in view.
func (a *Agent) TimeSinceFirstSawEnemy() float64 { return a.now() - a.firstSawEnemy }

// --- Reaction queue ---

func (a *Agent) updateReactionQueue() {
	threat, ok := a.FindMostDangerousThreat()
	a.attention.Start(a.now())
	if ok {
		a.reaction.Push(ReactionEntry{Enemy: threat.Handle, Reloading: threat.Reloading, Shielded: threat.Shielded})
	} else {
		a.reaction.Push(ReactionEntry{})
	}
}

// recognized returns the delayed queue entry.
func (a *Agent) recognized() (ReactionEntry, bool) {
	if a.IsBlind() {
		return ReactionEntry{}, false
	}
	e, ok := a.reaction.Attend(a.attendSteps)
	if !ok || !e.Enemy.IsValid() {
		return ReactionEntry{}, false
	}
	return e, true
}

// GetRecognizedEnemy is the threat we became aware of one reaction time
// ago. A remembered enemy that has since died or left resolves to none.
func (a *Agent) GetRecognizedEnemy() (world.Combatant, bool) {
	e, ok := a.recognized()
	if !ok {
		return world.Combatant{}, false
	}
	c, ok := a.mgr.lookup(e.Enemy)
	if !ok || !c.Alive {
		return world.Combatant{}, false
	}
	return c, true
}

func (a *Agent) IsRecognizedEnemyReloading() bool {
	e, ok := a.recognized()
	return ok && e.Reloading
}

func (a *Agent) IsRecognizedEnemyProtectedByShield() bool {
	e, ok := a.recognized()
	return ok && e.Shielded
}

// RangeToNearestRecognizedEnemy returns a huge value when nobody is
// recognized.
func (a *Agent) RangeToNearestRecognizedEnemy() float64 {
	if c, ok := a.GetRecognizedEnemy(); ok {
		return a.me.Pos.Dist(c.Pos)
	}
	return 99999999.9
}

// --- Enemy memory ---

// updateEnemyMemory remembers where the recognized enemy was last seen and
// announces new contacts.
func (a *Agent) updateEnemyMemory() {
	now := a.now()
	enemy, ok := a.GetRecognizedEnemy()
	if !ok {
		if a.enemyVisible {
			a.enemyVisible = false
		}
		return
	}
	if enemy.Handle != a.lastEnemy {
		a.think("spotted %s", enemy.Name)
		a.record("perception", "spotted", enemy.Name, a.me.Pos.Dist(enemy.Pos))
		a.mgr.metrics.EnemySpotted(a.team.String())
		a.chatter.EnemySpotted()
	}
	a.lastEnemy = enemy.Handle
	a.lastEnemyPos = enemy.Pos
	a.lastSawEnemy.Start(now)
	a.enemyVisible = true
	if enemy.Sniper && a.rng.Float64() < 0.5 {
		a.chatter.SpottedSniper()
	}
	if enemy.HasBomb && a.team == world.TeamDefenders {
		a.chatter.SpottedBomber(enemy)
	}
}

// IsEnemyVisible is true when an enemy was recognized this update.
func (a *Agent) IsEnemyVisible() bool { return a.enemyVisible }

// LastKnownEnemyPosition returns where we last saw our enemy.
func (a *Agent) LastKnownEnemyPosition() (geom.Vec3, bool) {
	return a.lastEnemyPos, a.lastSawEnemy.HasStarted()
}

// TimeSinceLastSawEnemy is huge when we never saw one.
func (a *Agent) TimeSinceLastSawEnemy() float64 {
	return a.lastSawEnemy.ElapsedTime(a.now())
}

// aimPoint picks where to aim on an enemy.
func (a *Agent) aimPoint(c world.Combatant) geom.Vec3 {
	if a.profile.Skill > 0.7 {
		return c.Eye()
	}
	return c.Center()
}
