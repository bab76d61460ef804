package bot

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// idleState is the hub: it holds no data and always hands off to a
// concrete state in the same update.
type idleState struct{}

func (idleState) Name() string    { return "idle" }
func (idleState) OnEnter(*Agent)  {}
func (idleState) OnExit(a *Agent) {}

const (
	sniperSpotRange     = 2000.0
	guardSpotRange      = 800.0
	hostageGuardRange   = 750.0
	bombGuardRange      = 600.0
	hideInsteadOfHunt   = 0.2
	minimumHoldTime     = 10.0
	teamworkFollowScale = 0.5
)

func (idleState) OnUpdate(a *Agent) {
	a.hidingSpot = nil
	sc := a.scenario()

	if !a.hasBought && sc != nil && sc.CanBuy(a.self) {
		a.setState(&buyState{})
		return
	}

	if a.disposition == EngageAndInvestigate && a.HeardInterestingNoise() {
		a.InvestigateNoise()
		return
	}

	if !a.IsRogue() && sc != nil {
		var dispatched bool
		switch sc.Kind() {
		case world.ScenarioBomb:
			dispatched = a.idleBomb(sc)
		case world.ScenarioHostages:
			dispatched = a.idleHostages()
		case world.ScenarioEscort:
			dispatched = a.idleEscort()
		}
		if dispatched {
			return
		}
	}

	// snipers camp a sniper spot
	if a.IsSniper() || a.profile.PreferSniper {
		if a.rng.Float64() < 0.7 {
			a.SetTask(TaskMoveToSniperSpot, world.NoHandle)
			if a.TryToHide(a.me.Pos, sniperSpotRange, minimumHoldTime+a.rng.Float64()*20, true) {
				return
			}
		}
	}

	// cautious bots sometimes hold where they are
	if !a.IsSafe() && a.rng.Float64() < hideInsteadOfHunt*(1-a.profile.Aggression) {
		a.SetTask(TaskHoldPosition, world.NoHandle)
		if a.TryToHide(a.me.Pos, guardSpotRange, 5+a.rng.Float64()*10, false) {
			return
		}
	}

	a.SetTask(TaskSeekAndDestroy, world.NoHandle)
	a.Hunt()
}

// --- Zones ---

// zones returns the scenario zones of kind.
func (a *Agent) zones(kind world.ZoneKind) []world.Zone {
	sc := a.scenario()
	if sc == nil {
		return nil
	}
	var out []world.Zone
	for _, z := range sc.Zones() {
		if z.Kind == kind {
			out = append(out, z)
		}
	}
	return out
}

// reachableZones leaves out the zones we recently failed to reach.
func (a *Agent) reachableZones(kind world.ZoneKind) []world.Zone {
	var out []world.Zone
	for _, z := range a.zones(kind) {
		if !a.IsUnreachable(z.Center()) {
			out = append(out, z)
		}
	}
	return out
}

// zoneAt returns the zone of kind containing pos.
func (a *Agent) zoneAt(pos geom.Vec3, kind world.ZoneKind) (world.Zone, bool) {
	for _, z := range a.zones(kind) {
		if z.Extent.Contains2D(pos) {
			return z, true
		}
	}
	return world.Zone{}, false
}

// nearestZone returns the zone of kind closest to pos.
func (a *Agent) nearestZone(pos geom.Vec3, kind world.ZoneKind) (world.Zone, bool) {
	best := math.Inf(1)
	var out world.Zone
	found := false
	for _, z := range a.reachableZones(kind) {
		if d := z.Center().Dist(pos); d < best {
			best, out, found = d, z, true
		}
	}
	return out, found
}

// randomZone picks a zone of kind uniformly.
func (a *Agent) randomZone(kind world.ZoneKind) (world.Zone, bool) {
	zs := a.reachableZones(kind)
	if len(zs) == 0 {
		return world.Zone{}, false
	}
	return zs[a.rng.Intn(len(zs))], true
}

func (a *Agent) zoneByIndex(index int) (world.Zone, bool) {
	sc := a.scenario()
	if sc == nil {
		return world.Zone{}, false
	}
	for _, z := range sc.Zones() {
		if z.Index == index {
			return z, true
		}
	}
	return world.Zone{}, false
}

// routeForNow is fastest while safe and safest afterwards.
func (a *Agent) routeForNow() RouteType {
	if a.IsSafe() {
		return FastestRoute
	}
	return SafestRoute
}

// guardOrMove hides near pos, falling back to walking there.
func (a *Agent) guardOrMove(pos geom.Vec3, rangeLimit, hold float64) {
	if a.TryToHide(pos, rangeLimit, hold, false) {
		return
	}
	a.MoveTo(pos, a.routeForNow())
}

// --- Scenario dispatch ---

func (a *Agent) idleBomb(sc world.Scenario) bool {
	gs := a.gameState
	if a.team == world.TeamAttackers {
		if a.me.HasBomb {
			a.SetTask(TaskPlantBomb, world.NoHandle)
			if _, in := a.zoneAt(a.me.Pos, world.ZoneBombsite); in {
				a.setState(&plantBombState{})
				return true
			}
			site, ok := a.randomZone(world.ZoneBombsite)
			if !ok {
				return false
			}
			a.chatter.GoingToPlantTheBomb(site.Name)
			a.MoveTo(site.Center(), a.routeForNow())
			return true
		}
		switch gs.BombState() {
		case world.BombPlanted:
			if pos, ok := gs.BombPosition(); ok {
				a.SetTask(TaskGuardTickingBomb, world.NoHandle)
				a.guardOrMove(pos, guardSpotRange, minimumHoldTime+a.rng.Float64()*10)
				return true
			}
		case world.BombLoose:
			if gs.IsLooseBombLocationKnown() {
				a.SetTask(TaskPlantBomb, world.NoHandle)
				a.setState(&fetchBombState{})
				return true
			}
		case world.BombMoving:
			carrier := sc.Bomb().Carrier
			if carrier.IsValid() && carrier != a.self && a.rng.Float64() < a.profile.Teamwork*teamworkFollowScale {
				a.Follow(carrier)
				return true
			}
		}
		return false
	}

	switch gs.BombState() {
	case world.BombPlanted:
		if pos, ok := gs.BombPosition(); ok {
			if d := sc.Bomb().Defuser; d.IsValid() && d != a.self {
				a.SetTask(TaskGuardBombDefuser, d)
				a.guardOrMove(pos, bombGuardRange, minimumHoldTime)
				return true
			}
			a.SetTask(TaskDefuseBomb, world.NoHandle)
			a.MoveTo(pos, FastestRoute)
			return true
		}
		a.chatter.RequestBombLocation()
		if zone, ok := gs.NextBombsiteToSearch(); ok {
			if z, found := a.zoneByIndex(zone); found {
				a.SetTask(TaskFindTickingBomb, world.NoHandle)
				a.MoveTo(z.Center(), FastestRoute)
				return true
			}
		}
	case world.BombLoose:
		if pos, ok := gs.BombPosition(); ok {
			a.SetTask(TaskGuardLooseBomb, world.NoHandle)
			a.chatter.GuardingLooseBomb()
			a.guardOrMove(pos, bombGuardRange, minimumHoldTime+a.rng.Float64()*20)
			return true
		}
	}

	// defenders split between holding sites and hunting
	if a.rng.Float64() < 0.5*(1-a.profile.Aggression)+0.2 {
		if site, ok := a.randomZone(world.ZoneBombsite); ok {
			a.SetTask(TaskGuardBombZone, world.NoHandle)
			if a.TryToHide(site.Center(), guardSpotRange, minimumHoldTime+a.rng.Float64()*20, false) {
				a.chatter.GuardingBombsite(site.Name)
				return true
			}
		}
	}
	return false
}

// rescuers are the attackers; the defenders keep the hostages.
func (a *Agent) idleHostages() bool {
	gs := a.gameState
	if a.team != a.hostageGuardTeam() {
		if a.HostageEscortCount() > 0 {
			zone, ok := a.nearestZone(a.me.Pos, world.ZoneRescue)
			if !ok {
				return false
			}
			a.SetTask(TaskRescueHostages, world.NoHandle)
			a.chatter.EscortingHostages()
			a.MoveTo(zone.Center(), SafestRoute)
			return true
		}
		if gs.AreAllHostagesBeingRescued() {
			return false
		}
		if rec, ok := gs.NearestFreeHostage(a.me.Pos); ok {
			a.SetTask(TaskCollectHostages, rec.Handle)
			a.setState(&pickupHostageState{hostage: rec.Handle})
			return true
		}
		return false
	}

	if gs.HaveSomeHostagesBeenTaken() && a.rng.Float64() < 0.5 {
		if zone, ok := a.randomZone(world.ZoneRescue); ok {
			a.SetTask(TaskGuardHostageRescueZone, world.NoHandle)
			a.chatter.GuardingHostageEscapeZone(true)
			a.guardOrMove(zone.Center(), guardSpotRange, minimumHoldTime+a.rng.Float64()*20)
			return true
		}
	}
	if a.rng.Float64() < 1-0.5*a.profile.Aggression {
		if pos, ok := gs.RandomFreeHostagePosition(); ok {
			a.SetTask(TaskGuardHostages, world.NoHandle)
			if a.TryToHide(pos, hostageGuardRange, minimumHoldTime+a.rng.Float64()*20, false) {
				a.chatter.GuardingHostages(a.placeAt(pos), true)
				return true
			}
		}
	}
	return false
}

func (a *Agent) idleEscort() bool {
	if a.me.IsVIP {
		zone, ok := a.nearestZone(a.me.Pos, world.ZoneEscape)
		if !ok {
			return false
		}
		a.SetTask(TaskVIPEscape, world.NoHandle)
		a.MoveTo(zone.Center(), SafestRoute)
		return true
	}
	var vip world.Combatant
	haveVIP := false
	for _, c := range a.mgr.combatants() {
		if c.IsVIP && c.Alive {
			vip, haveVIP = c, true
			break
		}
	}
	if !haveVIP {
		return false
	}
	if vip.Team == a.team {
		if a.rng.Float64() < a.profile.Teamwork {
			a.Follow(vip.Handle)
			return true
		}
		return false
	}
	if a.rng.Float64() < 0.5 {
		if zone, ok := a.randomZone(world.ZoneEscape); ok {
			a.SetTask(TaskGuardVIPEscapeZone, world.NoHandle)
			a.guardOrMove(zone.Center(), guardSpotRange, minimumHoldTime+a.rng.Float64()*20)
			return true
		}
	}
	return false
}
