package sim

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	bombTimer        = 35.0
	bombBlastSize    = 1000.0
	bombKillRadius   = 500.0
	plantTime        = 3.0
	defuseTimeKit    = 5.0
	defuseTimeNoKit  = 10.0
	defuseRange      = 60.0
	pickupRange      = 40.0
	holdGap          = 0.25 // longest pause that still counts as holding a key
	hostageFollowGap = 80.0
	hostageSpeed     = 200.0
)

var prices = map[string]int{
	"rifle":        2700,
	"sniper_rifle": 4750,
	"armor":        650,
	"defuse_kit":   400,
}

// scenario is the objective state of the round.
type scenario struct {
	kind       world.ScenarioKind
	zones      []world.Zone
	bomb       world.BombInfo
	defuseFrom float64
	defuseLast float64
	roundStart float64
	over       bool
	winner     world.Team
	vip        world.Handle
}

func newScenario(w *World) scenario {
	return scenario{
		bomb:       world.BombInfo{State: world.BombMoving, Zone: -1, BlastSize: bombBlastSize},
		roundStart: w.clock.Now(),
	}
}

// SetScenario selects the objective and its zones.
func (w *World) SetScenario(kind world.ScenarioKind, zones []world.Zone) {
	w.kind = kind
	w.zones = zones
	for i := range w.zones {
		w.zones[i].Index = i
	}
}

// GiveBomb hands the bomb to a combatant.
func (w *World) GiveBomb(h world.Handle) bool {
	b, ok := w.body(h)
	if !ok {
		return false
	}
	if prev, ok := w.body(w.bomb.Carrier); ok {
		prev.c.HasBomb = false
	}
	b.c.HasBomb = true
	w.bomb.State = world.BombMoving
	w.bomb.Carrier = h
	w.bomb.Pos = b.c.Pos
	return true
}

// SetVIP marks the escorted combatant.
func (w *World) SetVIP(h world.Handle) bool {
	ok := w.Edit(h, func(c *world.Combatant) { c.IsVIP = true })
	if ok {
		w.vip = h
	}
	return ok
}

// StartRound restarts the round clock and announces it.
func (w *World) StartRound() {
	w.roundStart = w.clock.Now()
	w.over = false
	w.winner = world.TeamNone
	w.publish(world.Event{Kind: world.EventRoundStart})
}

// Winner returns the round winner once the round is over.
func (w *World) Winner() (world.Team, bool) { return w.winner, w.over }

// --- world.Scenario ---

func (w *World) Kind() world.ScenarioKind { return w.kind }
func (w *World) Zones() []world.Zone      { return w.zones }
func (w *World) Bomb() world.BombInfo     { return w.bomb }
func (w *World) RoundOver() bool          { return w.over }

func (w *World) Hostages() []world.Hostage {
	out := make([]world.Hostage, 0, len(w.hostages))
	for _, h := range w.hostages {
		if hs, ok := w.hostage(h); ok {
			out = append(out, *hs)
		}
	}
	return out
}

func (w *World) Hostage(h world.Handle) (world.Hostage, bool) {
	hs, ok := w.hostage(h)
	if !ok {
		return world.Hostage{}, false
	}
	return *hs, true
}

// CanBuy is true for the living during the opening buy window.
func (w *World) CanBuy(h world.Handle) bool {
	b, ok := w.body(h)
	if !ok || !b.c.Alive || w.over {
		return false
	}
	return w.clock.Now()-w.roundStart <= w.cfg.BuyTime
}

// Purchase spends money on item. Only defenders carry defuse kits.
func (w *World) Purchase(h world.Handle, item string) bool {
	price, known := prices[item]
	if !known || !w.CanBuy(h) {
		return false
	}
	b, _ := w.body(h)
	if b.money < price {
		return false
	}
	switch item {
	case "sniper_rifle":
		b.c.Sniper = true
	case "armor":
		b.armor = true
	case "defuse_kit":
		if b.c.Team != world.TeamDefenders {
			return false
		}
		b.kit = true
	}
	b.money -= price
	return true
}

func (w *World) zoneAt(p geom.Vec3, kind world.ZoneKind) (world.Zone, bool) {
	for _, z := range w.zones {
		if z.Kind == kind && z.Extent.Contains2D(p) {
			return z, true
		}
	}
	return world.Zone{}, false
}

// --- Bomb ---

// plant progresses a plant while the carrier keeps the key held inside a
// bombsite.
func (w *World) plant(b *body, now float64) {
	c := &b.c
	if !c.HasBomb || w.kind != world.ScenarioBomb {
		return
	}
	z, ok := w.zoneAt(c.Pos, world.ZoneBombsite)
	if !ok {
		return
	}
	if now-b.plantLast > holdGap {
		b.plantStart = now
	}
	b.plantLast = now
	if now-b.plantStart < plantTime {
		return
	}
	c.HasBomb = false
	w.bomb = world.BombInfo{
		State:     world.BombPlanted,
		Pos:       c.Pos,
		Zone:      z.Index,
		TimeLeft:  bombTimer,
		BlastSize: bombBlastSize,
	}
	w.log.Debug().Str("planter", c.Name).Str("site", z.Name).Msg("bomb planted")
	w.publish(world.Event{Kind: world.EventBombPlanted, Source: c.Handle, Pos: c.Pos})
}

// defuse progresses a defuse while a defender keeps use held at the bomb.
func (w *World) defuse(b *body, now float64) {
	c := &b.c
	if w.bomb.State != world.BombPlanted || c.Team != world.TeamDefenders {
		return
	}
	if c.Pos.Dist2D(w.bomb.Pos) > defuseRange {
		return
	}
	if w.bomb.Defuser != c.Handle || now-w.defuseLast > holdGap {
		w.bomb.Defuser = c.Handle
		w.defuseFrom = now
	}
	w.defuseLast = now
	need := defuseTimeNoKit
	if b.kit {
		need = defuseTimeKit
	}
	if now-w.defuseFrom < need {
		return
	}
	w.bomb.State = world.BombDefused
	w.log.Debug().Str("defuser", c.Name).Msg("bomb defused")
	w.publish(world.Event{Kind: world.EventBombDefused, Source: c.Handle, Pos: w.bomb.Pos})
	w.endRound(world.TeamDefenders)
}

// dropBomb leaves the bomb where its carrier fell.
func (w *World) dropBomb(c *world.Combatant) {
	c.HasBomb = false
	w.bomb.State = world.BombLoose
	w.bomb.Carrier = world.NoHandle
	w.bomb.Pos = c.Pos
	w.publish(world.Event{Kind: world.EventBombDropped, Source: c.Handle, Pos: c.Pos})
}

func (w *World) stepBomb(dt, now float64) {
	switch w.bomb.State {
	case world.BombMoving:
		if b, ok := w.body(w.bomb.Carrier); ok {
			w.bomb.Pos = b.c.Pos
		}
	case world.BombLoose:
		for _, h := range w.combatants {
			b, ok := w.body(h)
			if !ok || !b.c.Alive || b.c.Team != world.TeamAttackers {
				continue
			}
			if b.c.Pos.Dist2D(w.bomb.Pos) <= pickupRange {
				b.c.HasBomb = true
				w.bomb.State = world.BombMoving
				w.bomb.Carrier = h
				w.publish(world.Event{Kind: world.EventBombPickedUp, Source: h, Pos: b.c.Pos})
				break
			}
		}
	case world.BombPlanted:
		if w.bomb.Defuser.IsValid() && now-w.defuseLast > holdGap {
			w.bomb.Defuser = world.NoHandle
		}
		w.bomb.TimeLeft -= dt
		if w.bomb.TimeLeft > 0 {
			return
		}
		w.bomb.TimeLeft = 0
		w.bomb.State = world.BombExploded
		w.publish(world.Event{Kind: world.EventBombExploded, Pos: w.bomb.Pos})
		w.publish(world.Event{Kind: world.EventExplosion, Pos: w.bomb.Pos, Loud: true})
		for _, h := range w.combatants {
			if b, ok := w.body(h); ok && b.c.Alive && b.c.Pos.Dist2D(w.bomb.Pos) <= bombKillRadius {
				w.kill(b, world.NoHandle)
			}
		}
		w.endRound(world.TeamAttackers)
	}
}

// --- Hostages ---

func (w *World) stepHostages(dt float64) {
	for _, h := range w.hostages {
		hs, ok := w.hostage(h)
		if !ok || !hs.Alive || hs.Rescued || !hs.Leader.IsValid() {
			continue
		}
		leader, ok := w.body(hs.Leader)
		if !ok || !leader.c.Alive {
			hs.Leader = world.NoHandle
			continue
		}
		to := leader.c.Pos.Sub(hs.Pos).Flat()
		if d := to.Len(); d > hostageFollowGap {
			step := math.Min(hostageSpeed*dt, d-hostageFollowGap)
			hs.Pos = w.slide(hs.Pos, to.Normalize().Scale(step))
		}
		if _, ok := w.zoneAt(hs.Pos, world.ZoneRescue); ok {
			hs.Rescued = true
			rescuer := hs.Leader
			hs.Leader = world.NoHandle
			w.publish(world.Event{Kind: world.EventHostageRescued, Source: h, Other: rescuer, Pos: hs.Pos})
		}
	}
}

// --- Round ---

func (w *World) stepObjectives(dt, now float64) {
	if w.over {
		return
	}
	switch w.kind {
	case world.ScenarioBomb:
		w.stepBomb(dt, now)
	case world.ScenarioHostages:
		w.stepHostages(dt)
	}
	if !w.over {
		w.checkRoundEnd(now)
	}
}

func (w *World) alive(team world.Team) (alive, total int) {
	for _, h := range w.combatants {
		if b, ok := w.body(h); ok && b.c.Team == team {
			total++
			if b.c.Alive {
				alive++
			}
		}
	}
	return alive, total
}

func (w *World) checkRoundEnd(now float64) {
	switch w.kind {
	case world.ScenarioHostages:
		rescued, living := 0, 0
		for _, h := range w.hostages {
			if hs, ok := w.hostage(h); ok && hs.Alive {
				living++
				if hs.Rescued {
					rescued++
				}
			}
		}
		if living > 0 && rescued == living {
			w.endRound(world.TeamAttackers)
			return
		}
	case world.ScenarioEscort:
		if b, ok := w.body(w.vip); ok {
			if !b.c.Alive {
				w.endRound(b.c.Team.Opponent())
				return
			}
			if _, in := w.zoneAt(b.c.Pos, world.ZoneEscape); in {
				w.endRound(b.c.Team)
				return
			}
		}
	}

	planted := w.kind == world.ScenarioBomb && w.bomb.State == world.BombPlanted
	atk, atkTotal := w.alive(world.TeamAttackers)
	def, defTotal := w.alive(world.TeamDefenders)
	switch {
	case defTotal > 0 && def == 0:
		w.endRound(world.TeamAttackers)
		return
	case atkTotal > 0 && atk == 0 && !planted:
		w.endRound(world.TeamDefenders)
		return
	}

	if w.cfg.RoundTime > 0 && now-w.roundStart >= w.cfg.RoundTime && !planted {
		switch w.kind {
		case world.ScenarioElimination:
			w.endRound(world.TeamNone)
		case world.ScenarioEscort:
			if b, ok := w.body(w.vip); ok {
				w.endRound(b.c.Team.Opponent())
			} else {
				w.endRound(world.TeamDefenders)
			}
		default:
			w.endRound(world.TeamDefenders)
		}
	}
}

func (w *World) endRound(winner world.Team) {
	if w.over {
		return
	}
	w.over = true
	w.winner = winner
	w.log.Debug().Str("winner", winner.String()).Msg("round over")
	w.publish(world.Event{Kind: world.EventRoundEnd, Winner: winner})
}
