package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// throttles, in seconds
const (
	sniperWarnInterval   = 60.0
	backupInterval       = 10.0
	noiseReportInterval  = 20.0
	noiseReportChance    = 0.33
	planRepeatTime       = 20.0
	looseBombInterval    = 10.0
	scaredRepeatTime     = 10.0
	escortReportInterval = 10.0
	bomberCloseRange     = 1000.0
	quickRoundTime       = 45.0
	recentEnemyTime      = 10.0
)

// --- Enemies ---

// EnemySpotted reports where the enemies are and, after letting more come
// into view, how many.
func (c *Chatter) EnemySpotted() {
	s := newStatement(c, ReportVisibleEnemies, 10)
	s.AppendPlace(c.agent.EnemyPlace())
	s.AppendContext(AccumulateEnemiesDelay)
	s.AppendContext(CurrentEnemyCount)
	s.AddCondition(IsInCombat)
	c.AddStatement(s, false)
}

// FriendSpottedSniper holds off our own sniper warning.
func (c *Chatter) FriendSpottedSniper() {
	c.warnSniperTimer.Start(c.now(), sniperWarnInterval)
}

// SpottedSniper warns the team about an enemy sniper.
func (c *Chatter) SpottedSniper() {
	if !c.warnSniperTimer.IsElapsed(c.now()) || c.agent.FriendsRemaining() == 0 {
		return
	}
	s := newStatement(c, ReportInformation, 10)
	s.AppendPhrase(PhraseSniperWarning)
	s.AttachMeme(WarnSniperMeme{})
	c.AddStatement(s, false)
}

// Clear reports place free of enemies.
func (c *Chatter) Clear(place string) {
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(place)
	s.AppendPhrase(PhraseClear)
	c.AddStatement(s, false)
}

// KilledMyEnemy is said only when other enemies are still around.
func (c *Chatter) KilledMyEnemy(victim world.Handle) {
	if c.agent.NearbyEnemyCount() <= 1 {
		return
	}
	s := newStatement(c, ReportEnemyAction, 3)
	s.AppendPhrase(PhraseKilledMyEnemy)
	s.SetSubject(victim)
	c.AddStatement(s, false)
}

// EnemiesRemaining counts off the survivors once the area is clear.
func (c *Chatter) EnemiesRemaining() {
	if c.agent.NearbyEnemyCount() > 1 {
		return
	}
	s := newStatement(c, ReportEnemiesRemaining, 5)
	s.AppendContext(RemainingEnemyCount)
	s.SetStartTime(c.now() + 2 + c.agent.rng.Float64()*2)
	c.AddStatement(s, false)
}

// --- Reports ---

// ReportIn asks the team what they see.
func (c *Chatter) ReportIn() {
	s := newStatement(c, ReportRequestInformation, 10)
	s.AppendPhrase(PhraseRequestReport)
	s.AddCondition(RadioSilence)
	s.AttachMeme(RequestReportMeme{})
	c.AddStatement(s, false)
}

// ReportingIn answers a report request with where we are and what we see.
func (c *Chatter) ReportingIn() {
	me := c.agent
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(me.place)

	switch me.task {
	case TaskPlantBomb:
		c.GoingToPlantTheBomb("")
	case TaskDefuseBomb:
		c.Say(PhraseDefusingBomb, 3, 0)
	case TaskGuardLooseBomb:
		if pos, ok := me.gameState.BombPosition(); ok && me.gameState.BombState() == world.BombLoose {
			s.AppendPhrase(PhraseGuardingLooseBomb)
			s.AttachMeme(&BombStatusMeme{State: world.BombLoose, Pos: pos})
		}
	case TaskGuardHostages:
		c.GuardingHostages("", !me.IsAtHidingSpot())
	case TaskGuardHostageRescueZone:
		c.GuardingHostageEscapeZone(!me.IsAtHidingSpot())
	case TaskRescueHostages:
		c.EscortingHostages()
	}

	switch {
	case me.IsAttacking() && me.IsOutnumbered():
		s.AppendPhrase(PhraseHelp)
		s.AttachMeme(&HelpMeme{Place: me.place, Pos: me.me.Pos})
	case me.IsAttacking():
		s.AppendPhrase(PhraseInCombat)
	default:
		s.SetStartTime(c.now() + 2)
		if me.TimeSinceLastSawEnemy() < recentEnemyTime {
			s.AppendPhrase(PhraseEnemySpotted)
		} else {
			s.AppendPhrase(PhraseClear)
		}
	}
	c.AddStatement(s, false)
}

// NeedBackup calls for help, or panics when nobody is left to call. It
// returns false while throttled.
func (c *Chatter) NeedBackup() bool {
	now := c.now()
	if c.needBackupInterval.IsLessThan(now, backupInterval) {
		return false
	}
	c.needBackupInterval.Reset(now)
	me := c.agent
	if me.FriendsRemaining() == 0 {
		c.Scared()
		return true
	}
	s := newStatement(c, ReportRequestHelp, 10)
	s.AppendPlace(me.place)
	s.AppendPhrase(PhraseHelp)
	s.AttachMeme(&HelpMeme{Place: me.place, Pos: me.me.Pos})
	c.AddStatement(s, false)
	return true
}

// PinnedDown is a help request that only stands while we fight.
func (c *Chatter) PinnedDown() {
	now := c.now()
	if c.needBackupInterval.IsLessThan(now, backupInterval) {
		return
	}
	c.needBackupInterval.Reset(now)
	me := c.agent
	s := newStatement(c, ReportRequestHelp, 10)
	s.AppendPlace(me.place)
	s.AppendPhrase(PhrasePinnedDown)
	s.AttachMeme(&HelpMeme{Place: me.place, Pos: me.me.Pos})
	s.AddCondition(IsInCombat)
	c.AddStatement(s, false)
}

// FriendHeardNoise holds off our own noise report.
func (c *Chatter) FriendHeardNoise() {
	c.heardNoiseTimer.Start(c.now(), noiseReportInterval)
}

// HeardNoise occasionally mentions a noise at pos.
func (c *Chatter) HeardNoise(pos geom.Vec3) {
	me := c.agent
	now := c.now()
	if me.gameState.IsRoundOver() || !c.heardNoiseTimer.IsElapsed(now) {
		return
	}
	c.heardNoiseTimer.Start(now, noiseReportInterval)
	// rare, since the whole team may have heard it
	if me.rng.Float64() >= noiseReportChance {
		return
	}
	s := newStatement(c, ReportInformation, 5)
	s.AppendPhrase(PhraseHeardNoise)
	s.SetPlace(me.placeAt(pos))
	s.AttachMeme(HeardNoiseMeme{})
	c.AddStatement(s, false)
}

// Scared is an emote for when we are alone and losing.
func (c *Chatter) Scared() {
	now := c.now()
	if c.scaredInterval.IsLessThan(now, scaredRepeatTime) {
		return
	}
	c.scaredInterval.Reset(now)
	s := newStatement(c, ReportEmote, 1)
	s.AppendPhrase(PhraseScared)
	s.AddCondition(IsInCombat)
	c.AddStatement(s, false)
}

// CelebrateWin waits a moment after the round and maybe gloats.
func (c *Chatter) CelebrateWin() {
	me := c.agent
	s := newStatement(c, ReportEmote, 15)
	s.SetStartTime(c.now() + 2 + me.rng.Float64()*3)
	quick := c.now()-me.mgr.roundStart < quickRoundTime
	roll := me.rng.Float64()
	switch {
	case me.FriendsRemaining() == 0 && quick:
		s.AppendPhrase(PhraseWonRoundQuickly)
	case me.FriendsRemaining() == 0 && roll < 0.333:
		s.AppendPhrase(PhraseLastManStanding)
	case me.FriendsRemaining() > 0 && quick && roll < 0.333:
		s.AppendPhrase(PhraseWonRoundQuickly)
	case me.FriendsRemaining() > 0 && !quick && roll < 0.1:
		s.AppendPhrase(PhraseWonRound)
	}
	c.AddStatement(s, false)
}

// --- Acknowledgements ---

func (c *Chatter) Affirmative() { c.acknowledge(PhraseAffirmative) }
func (c *Chatter) Negative()    { c.acknowledge(PhraseNegative) }

func (c *Chatter) acknowledge(p Phrase) {
	s := newStatement(c, ReportAcknowledge, 3)
	s.AppendPhrase(p)
	c.AddStatement(s, false)
}

// Say queues a single phrase that lives for lifetime seconds, starting
// after delay.
func (c *Chatter) Say(p Phrase, lifetime, delay float64) {
	s := newStatement(c, ReportMyPlan, lifetime)
	s.AppendPhrase(p)
	if delay > 0 {
		s.SetStartTime(c.now() + delay)
	}
	c.AddStatement(s, false)
}

// --- Plans ---

// AnnouncePlan states what we intend to do, no sooner than a couple of
// seconds into the round.
func (c *Chatter) AnnouncePlan(p Phrase, place string) {
	me := c.agent
	if me.gameState.IsRoundOver() {
		return
	}
	s := newStatement(c, ReportMyPlan, 10)
	s.AppendPhrase(p)
	s.SetPlace(place)
	if start := me.mgr.roundStart + 2 + me.rng.Float64(); start > s.start {
		s.SetStartTime(start)
	}
	c.AddStatement(s, false)
}

// planAllowed throttles plan announcements.
func (c *Chatter) planAllowed() bool {
	now := c.now()
	if c.agent.gameState.IsRoundOver() || c.planInterval.IsLessThan(now, planRepeatTime) {
		return false
	}
	c.planInterval.Reset(now)
	return true
}

// GuardingBombsite announces we will defend place.
func (c *Chatter) GuardingBombsite(place string) {
	if c.planAllowed() {
		c.AnnouncePlan(PhraseDefendBombsite, place)
	}
}

// GuardingHostages announces the plan to guard, or that we are guarding.
func (c *Chatter) GuardingHostages(place string, isPlan bool) {
	if !c.planAllowed() {
		return
	}
	if isPlan {
		c.AnnouncePlan(PhraseGuardHostages, place)
		return
	}
	c.Say(PhraseGuardingHostages, 3, 0)
}

// GuardingHostageEscapeZone is the rescue-zone flavor of GuardingHostages.
func (c *Chatter) GuardingHostageEscapeZone(isPlan bool) {
	if !c.planAllowed() {
		return
	}
	if isPlan {
		c.AnnouncePlan(PhraseGuardingHostageEscape, "")
		return
	}
	c.Say(PhraseGuardingHostageEscape, 3, 0)
}

// --- Bomb ---

// GoingToPlantTheBomb asks nearby teammates to follow us to place.
func (c *Chatter) GoingToPlantTheBomb(place string) {
	if c.agent.gameState.IsRoundOver() {
		return
	}
	now := c.now()
	if c.planInterval.IsLessThan(now, planRepeatTime) {
		return
	}
	c.planInterval.Reset(now)
	s := newStatement(c, ReportCriticalEvent, 10)
	s.AppendPhrase(PhraseGoingToPlantBomb)
	s.SetPlace(place)
	s.AttachMeme(FollowMeme{})
	c.AddStatement(s, false)
}

// PlantingTheBomb asks teammates to hold around us.
func (c *Chatter) PlantingTheBomb(place string) {
	me := c.agent
	if me.gameState.IsRoundOver() {
		return
	}
	s := newStatement(c, ReportCriticalEvent, 10)
	s.AppendPhrase(PhrasePlantingBomb)
	s.SetPlace(place)
	s.AttachMeme(&DefendHereMeme{Pos: me.me.Pos})
	c.AddStatement(s, false)
}

// TheyPickedUpTheBomb reports the loose bomb gone, using our position as
// the best guess of the carrier.
func (c *Chatter) TheyPickedUpTheBomb() {
	me := c.agent
	gs := me.gameState
	if gs.IsRoundOver() || gs.BombState() != world.BombLoose {
		return
	}
	gs.UpdateBomber(me.me.Pos)
	s := newStatement(c, ReportInformation, 10)
	s.AppendPhrase(PhraseTheyPickedUpTheBomb)
	s.AttachMeme(&BombStatusMeme{State: world.BombMoving, Pos: me.me.Pos})
	c.AddStatement(s, false)
}

// SpottedBomber reports the carrier unless we already knew roughly where
// they were.
func (c *Chatter) SpottedBomber(bomber world.Combatant) {
	gs := c.agent.gameState
	if gs.BombState() == world.BombMoving {
		if pos, ok := gs.BomberPosition(); ok && pos.Dist(bomber.Pos) < bomberCloseRange {
			return
		}
	}
	gs.UpdateBomber(bomber.Pos)
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(c.agent.placeAt(bomber.Pos))
	s.AppendPhrase(PhraseSpottedBomber)
	s.SetSubject(bomber.Handle)
	s.AttachMeme(&BombStatusMeme{State: world.BombMoving, Pos: bomber.Pos})
	c.AddStatement(s, false)
}

// SpottedLooseBomb tells the team where the dropped bomb lies.
func (c *Chatter) SpottedLooseBomb(pos geom.Vec3) {
	gs := c.agent.gameState
	if gs.IsRoundOver() || gs.IsLooseBombLocationKnown() {
		return
	}
	gs.UpdateLooseBomb(pos)
	now := c.now()
	if !c.spottedLooseBombTimer.IsElapsed(now) {
		return
	}
	c.spottedLooseBombTimer.Start(now, looseBombInterval)
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(c.agent.placeAt(pos))
	s.AppendPhrase(PhraseSpottedLooseBomb)
	s.AttachMeme(&BombStatusMeme{State: world.BombLoose, Pos: pos})
	c.AddStatement(s, false)
}

// GuardingLooseBomb says we are watching the dropped bomb.
func (c *Chatter) GuardingLooseBomb() {
	gs := c.agent.gameState
	pos, ok := gs.BombPosition()
	if !ok || gs.BombState() != world.BombLoose || !c.planAllowed() {
		return
	}
	gs.UpdateLooseBomb(pos)
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(c.agent.placeAt(pos))
	s.AppendPhrase(PhraseGuardingLooseBomb)
	s.AttachMeme(&BombStatusMeme{State: world.BombLoose, Pos: pos})
	c.AddStatement(s, false)
}

// RequestBombLocation asks, once per round, where the bomb is planted.
func (c *Chatter) RequestBombLocation() {
	if c.requestedBombLocation {
		return
	}
	c.requestedBombLocation = true
	s := newStatement(c, ReportRequestInformation, 10)
	s.AppendPhrase(PhraseWhereIsTheBomb)
	s.AttachMeme(WhereBombMeme{})
	c.AddStatement(s, false)
}

// BombsiteClear reports a searched site as empty.
func (c *Chatter) BombsiteClear(zone int) {
	z, ok := c.agent.zoneByIndex(zone)
	if !ok {
		return
	}
	s := newStatement(c, ReportInformation, 10)
	s.AppendPlace(c.agent.placeAt(z.Extent.Center()))
	s.AppendPhrase(PhraseBombsiteClear)
	s.AttachMeme(&BombsiteStatusMeme{Zone: zone})
	c.AddStatement(s, false)
}

// FoundPlantedBomb names the site holding the bomb.
func (c *Chatter) FoundPlantedBomb(zone int) {
	z, ok := c.agent.zoneByIndex(zone)
	if !ok {
		return
	}
	s := newStatement(c, ReportInformation, 3)
	s.AppendPhrase(PhrasePlantedBombPlace)
	s.SetPlace(c.agent.placeAt(z.Extent.Center()))
	s.AttachMeme(&BombsiteStatusMeme{Zone: zone, Planted: true})
	c.AddStatement(s, false)
}

// --- Hostages ---

// HostagesBeingTaken alerts the other guards.
func (c *Chatter) HostagesBeingTaken() {
	if c.agent.gameState.IsRoundOver() {
		return
	}
	s := newStatement(c, ReportInformation, 3)
	s.AppendPhrase(PhraseHostagesBeingTaken)
	s.AttachMeme(HostageBeingTakenMeme{})
	c.AddStatement(s, false)
}

// HostagesTaken tells the guards every hostage is gone.
func (c *Chatter) HostagesTaken() {
	if c.agent.gameState.IsRoundOver() {
		return
	}
	s := newStatement(c, ReportInformation, 3)
	s.AppendPhrase(PhraseHostagesTaken)
	s.AttachMeme(AllHostagesGoneMeme{})
	c.AddStatement(s, false)
}

// EscortingHostages is said every so often while leading hostages.
func (c *Chatter) EscortingHostages() {
	now := c.now()
	if c.agent.gameState.IsRoundOver() || !c.escortingHostageTimer.IsElapsed(now) {
		return
	}
	c.escortingHostageTimer.Start(now, escortReportInterval)
	s := newStatement(c, ReportMyPlan, 5)
	s.AppendPhrase(PhraseEscortingHostages)
	c.AddStatement(s, false)
}

// HostageDown reports a hostage killed.
func (c *Chatter) HostageDown() {
	if c.agent.gameState.IsRoundOver() {
		return
	}
	s := newStatement(c, ReportInformation, 3)
	s.AppendPhrase(PhraseHostageDown)
	c.AddStatement(s, false)
}
