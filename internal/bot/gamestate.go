package bot

import (
	"math/rand"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

// Knowledge selects whether a GameState learns by observation or reads the
// scenario oracle directly.
type Knowledge int

const (
	KnowledgeImperfect Knowledge = iota
	KnowledgePerfect
)

// HostageChange is a set of flags produced by ValidateHostagePositions.
// An empty set means nothing new was learned.
type HostageChange uint8

const (
	HostageDied HostageChange = 1 << iota
	HostageGone
	HostagesAllGone
)

func (c HostageChange) Has(f HostageChange) bool { return c&f != 0 }

// hostageValidateInterval rate-limits hostage revalidation to 2/s.
const hostageValidateInterval = 0.5

// hostageVisibleRange is how close a remembered hostage must be to the real
// one to count as still there.
const hostageVisibleRange = 50.0

// HostageRecord is what a bot believes about one hostage.
type HostageRecord struct {
	Handle   world.Handle
	KnownPos geom.Vec3
	IsValid  bool // false once we know it is no longer where we remember
	IsAlive  bool
	IsFree   bool // not following anyone
}

// sighted is the part of an agent the belief model looks through.
type sighted interface {
	IsVisiblePoint(p geom.Vec3, testFOV bool) bool
	Position() geom.Vec3
	Team() world.Team
}

// GameState is one bot's belief about the round objectives.
type GameState struct {
	owner     sighted
	scenario  world.Scenario
	clock     timer.Clock
	rng       *rand.Rand
	knowledge Knowledge

	bombState       world.BombState
	lastSawBomber   timer.Interval
	bomberPos       geom.Vec3
	lastSawLoose    timer.Interval
	looseBombPos    geom.Vec3
	plantedBombsite int
	plantedBombPos  geom.Vec3
	plantedPosKnown bool
	bombsiteClear   []bool
	searchOrder     []int
	searchIndex     int

	hostages        []HostageRecord
	validateTimer   timer.Countdown
	allHostagesGone bool
	hostagesTaken   bool
}

// NewGameState returns a belief for owner. Call Reset at round start.
func NewGameState(owner sighted, scenario world.Scenario, clock timer.Clock, rng *rand.Rand, k Knowledge) *GameState {
	gs := &GameState{
		owner:     owner,
		scenario:  scenario,
		clock:     clock,
		rng:       rng,
		knowledge: k,
	}
	gs.Reset()
	return gs
}

// Knowledge reports the policy in force.
func (gs *GameState) Knowledge() Knowledge { return gs.knowledge }

// SetKnowledge switches policy, for example when a defuser kit grants the
// defending side perfect knowledge.
func (gs *GameState) SetKnowledge(k Knowledge) { gs.knowledge = k }

// Reset forgets everything and re-reads the initial hostage placement,
// which every bot knows at round start.
func (gs *GameState) Reset() {
	gs.bombState = world.BombMoving
	gs.lastSawBomber.Invalidate()
	gs.lastSawLoose.Invalidate()
	gs.plantedBombsite = -1
	gs.plantedPosKnown = false
	gs.searchIndex = 0
	gs.validateTimer.Invalidate()
	gs.allHostagesGone = false
	gs.hostagesTaken = false

	gs.bombsiteClear = gs.bombsiteClear[:0]
	gs.searchOrder = gs.searchOrder[:0]
	gs.hostages = gs.hostages[:0]
	if gs.scenario == nil {
		return
	}
	for _, z := range gs.scenario.Zones() {
		if z.Kind != world.ZoneBombsite {
			continue
		}
		gs.bombsiteClear = append(gs.bombsiteClear, false)
		gs.searchOrder = append(gs.searchOrder, z.Index)
	}
	if gs.rng != nil {
		gs.rng.Shuffle(len(gs.searchOrder), func(i, j int) {
			gs.searchOrder[i], gs.searchOrder[j] = gs.searchOrder[j], gs.searchOrder[i]
		})
	}
	for _, h := range gs.scenario.Hostages() {
		gs.hostages = append(gs.hostages, HostageRecord{
			Handle:   h.Handle,
			KnownPos: h.Pos,
			IsValid:  h.Alive && !h.Rescued,
			IsAlive:  h.Alive,
			IsFree:   h.Leader == world.NoHandle,
		})
	}
}

func (gs *GameState) now() float64 { return gs.clock.Now() }

// IsRoundOver reports whether the round has ended.
func (gs *GameState) IsRoundOver() bool {
	return gs.scenario != nil && gs.scenario.RoundOver()
}

// --- Bomb ---

// BombState returns the believed bomb state.
func (gs *GameState) BombState() world.BombState {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		return gs.scenario.Bomb().State
	}
	return gs.bombState
}

// UpdateBombState records an observed state change.
func (gs *GameState) UpdateBombState(s world.BombState) {
	gs.bombState = s
	switch s {
	case world.BombMoving:
		gs.lastSawLoose.Invalidate()
	case world.BombLoose:
		gs.lastSawBomber.Invalidate()
	}
}

// UpdateBomber records a sighting of the bomb carrier.
func (gs *GameState) UpdateBomber(pos geom.Vec3) {
	gs.bombState = world.BombMoving
	gs.bomberPos = pos
	gs.lastSawBomber.Start(gs.now())
	gs.lastSawLoose.Invalidate()
}

// TimeSinceLastSawBomber is huge when the bomber was never seen.
func (gs *GameState) TimeSinceLastSawBomber() float64 {
	return gs.lastSawBomber.ElapsedTime(gs.now())
}

// BomberPosition is where the carrier was last seen.
func (gs *GameState) BomberPosition() (geom.Vec3, bool) {
	if !gs.lastSawBomber.HasStarted() {
		return geom.Vec3{}, false
	}
	return gs.bomberPos, true
}

// UpdateLooseBomb records the position of a dropped bomb.
func (gs *GameState) UpdateLooseBomb(pos geom.Vec3) {
	gs.bombState = world.BombLoose
	gs.looseBombPos = pos
	gs.lastSawLoose.Start(gs.now())
	gs.lastSawBomber.Invalidate()
}

// IsLooseBombLocationKnown reports whether we know where a dropped bomb lies.
func (gs *GameState) IsLooseBombLocationKnown() bool {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		return gs.scenario.Bomb().State == world.BombLoose
	}
	return gs.bombState == world.BombLoose && gs.lastSawLoose.HasStarted()
}

// UpdatePlantedBomb records the exact position of the planted bomb.
func (gs *GameState) UpdatePlantedBomb(pos geom.Vec3) {
	gs.bombState = world.BombPlanted
	gs.plantedBombPos = pos
	gs.plantedPosKnown = true
	if site, ok := gs.bombsiteAt(pos); ok {
		gs.markPlanted(site)
	}
}

// MarkBombsiteAsPlanted records which site holds the bomb without knowing
// exactly where in it.
func (gs *GameState) MarkBombsiteAsPlanted(zone int) {
	gs.bombState = world.BombPlanted
	gs.markPlanted(zone)
}

func (gs *GameState) markPlanted(zone int) {
	gs.plantedBombsite = zone
	for i, z := range gs.searchOrder {
		if z != zone {
			gs.bombsiteClear[i] = true
		}
	}
}

// IsPlantedBombLocationKnown reports whether we know exactly where the
// planted bomb is.
func (gs *GameState) IsPlantedBombLocationKnown() bool {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		return gs.scenario.Bomb().State == world.BombPlanted
	}
	return gs.bombState == world.BombPlanted && gs.plantedPosKnown
}

// PlantedBombsite returns the zone index holding the bomb, or -1.
func (gs *GameState) PlantedBombsite() int {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		b := gs.scenario.Bomb()
		if b.State == world.BombPlanted {
			return b.Zone
		}
		return -1
	}
	return gs.plantedBombsite
}

// BombPosition returns where we believe the bomb is.
func (gs *GameState) BombPosition() (geom.Vec3, bool) {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		b := gs.scenario.Bomb()
		return b.Pos, true
	}
	switch gs.bombState {
	case world.BombMoving:
		return gs.BomberPosition()
	case world.BombLoose:
		if gs.lastSawLoose.HasStarted() {
			return gs.looseBombPos, true
		}
	case world.BombPlanted:
		if gs.plantedPosKnown {
			return gs.plantedBombPos, true
		}
	}
	return geom.Vec3{}, false
}

// ClearBombsite marks a zone as searched and empty.
func (gs *GameState) ClearBombsite(zone int) {
	for i, z := range gs.searchOrder {
		if z == zone {
			gs.bombsiteClear[i] = true
		}
	}
}

// IsBombsiteClear reports whether zone is known not to hold the bomb.
func (gs *GameState) IsBombsiteClear(zone int) bool {
	if gs.knowledge == KnowledgePerfect && gs.scenario != nil {
		b := gs.scenario.Bomb()
		return b.State != world.BombPlanted || b.Zone != zone
	}
	for i, z := range gs.searchOrder {
		if z == zone {
			return gs.bombsiteClear[i]
		}
	}
	return false
}

// NextBombsiteToSearch returns the next zone not yet cleared, or false when
// every site was searched.
func (gs *GameState) NextBombsiteToSearch() (int, bool) {
	if site := gs.PlantedBombsite(); site >= 0 {
		return site, true
	}
	n := len(gs.searchOrder)
	for k := 0; k < n; k++ {
		i := (gs.searchIndex + k) % n
		if !gs.bombsiteClear[i] {
			gs.searchIndex = i
			return gs.searchOrder[i], true
		}
	}
	return -1, false
}

func (gs *GameState) bombsiteAt(pos geom.Vec3) (int, bool) {
	if gs.scenario == nil {
		return -1, false
	}
	for _, z := range gs.scenario.Zones() {
		if z.Kind == world.ZoneBombsite && z.Extent.Contains2D(pos) {
			return z.Index, true
		}
	}
	return -1, false
}

// IsAtPlantedBombsite reports whether the owner stands in the zone the bomb
// was planted in.
func (gs *GameState) IsAtPlantedBombsite() bool {
	site := gs.PlantedBombsite()
	if site < 0 {
		return false
	}
	at, ok := gs.bombsiteAt(gs.owner.Position())
	return ok && at == site
}

// --- Hostages ---

// Hostages returns the current records.
func (gs *GameState) Hostages() []HostageRecord { return gs.hostages }

func (gs *GameState) record(h world.Handle) *HostageRecord {
	for i := range gs.hostages {
		if gs.hostages[i].Handle == h {
			return &gs.hostages[i]
		}
	}
	return nil
}

// ValidateHostagePositions reconciles remembered hostage positions against
// what the owner can currently see. It runs at most twice a second; calls
// inside the window return no change.
func (gs *GameState) ValidateHostagePositions() HostageChange {
	now := gs.now()
	if !gs.validateTimer.IsElapsed(now) {
		return 0
	}
	gs.validateTimer.Start(now, hostageValidateInterval)
	if gs.scenario == nil {
		return 0
	}

	var change HostageChange
	startValid := 0
	for i := range gs.hostages {
		rec := &gs.hostages[i]
		if !rec.IsValid {
			continue
		}
		startValid++
		actual, exists := gs.scenario.Hostage(rec.Handle)

		if gs.knowledge == KnowledgePerfect {
			if !exists || actual.Rescued {
				rec.IsValid = false
				change |= HostageGone
				continue
			}
			if rec.IsAlive && !actual.Alive {
				change |= HostageDied
			}
			rec.KnownPos = actual.Pos
			rec.IsAlive = actual.Alive
			rec.IsFree = actual.Leader == world.NoHandle
			if !actual.Alive {
				rec.IsValid = false
			}
			continue
		}

		// we can only learn something if we can see where we think it is
		if !gs.owner.IsVisiblePoint(rec.KnownPos.Add(geom.V(0, 0, world.CrouchEyeHeight)), true) {
			continue
		}
		if !exists || actual.Rescued || actual.Pos.Dist(rec.KnownPos) > hostageVisibleRange {
			rec.IsValid = false
			change |= HostageGone
			continue
		}
		rec.KnownPos = actual.Pos
		rec.IsFree = actual.Leader == world.NoHandle
		if rec.IsAlive && !actual.Alive {
			rec.IsAlive = false
			rec.IsValid = false
			change |= HostageDied
		}
	}

	if startValid > 0 && gs.validCount() == 0 && !gs.allHostagesGone {
		gs.allHostagesGone = true
		change |= HostagesAllGone
	}
	return change
}

func (gs *GameState) validCount() int {
	n := 0
	for _, r := range gs.hostages {
		if r.IsValid {
			n++
		}
	}
	return n
}

// UpdateHostage records a direct sighting.
func (gs *GameState) UpdateHostage(h world.Hostage) {
	rec := gs.record(h.Handle)
	if rec == nil {
		gs.hostages = append(gs.hostages, HostageRecord{Handle: h.Handle})
		rec = &gs.hostages[len(gs.hostages)-1]
	}
	rec.KnownPos = h.Pos
	rec.IsAlive = h.Alive
	rec.IsFree = h.Leader == world.NoHandle
	rec.IsValid = h.Alive && !h.Rescued
	if rec.IsValid {
		gs.allHostagesGone = false
	}
}

// NearestFreeHostage returns the closest hostage believed alive and free.
func (gs *GameState) NearestFreeHostage(from geom.Vec3) (HostageRecord, bool) {
	best := -1
	bestDist := 0.0
	for i, r := range gs.hostages {
		if !r.IsValid || !r.IsAlive || !r.IsFree {
			continue
		}
		d := r.KnownPos.DistSqr(from)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return HostageRecord{}, false
	}
	return gs.hostages[best], true
}

// RandomFreeHostagePosition picks uniformly among hostages believed free.
func (gs *GameState) RandomFreeHostagePosition() (geom.Vec3, bool) {
	var free []geom.Vec3
	for _, r := range gs.hostages {
		if r.IsValid && r.IsAlive && r.IsFree {
			free = append(free, r.KnownPos)
		}
	}
	if len(free) == 0 {
		return geom.Vec3{}, false
	}
	if gs.rng == nil {
		return free[0], true
	}
	return free[gs.rng.Intn(len(free))], true
}

// AreAllHostagesBeingRescued is true when every known live hostage is
// following someone.
func (gs *GameState) AreAllHostagesBeingRescued() bool {
	found := false
	for _, r := range gs.hostages {
		if !r.IsValid || !r.IsAlive {
			continue
		}
		found = true
		if r.IsFree {
			return false
		}
	}
	return found
}

// AreAllHostagesGone is true when no record is still valid.
func (gs *GameState) AreAllHostagesGone() bool {
	if gs.allHostagesGone {
		return true
	}
	return len(gs.hostages) > 0 && gs.validCount() == 0
}

// AllHostagesGone is told to us by a teammate.
func (gs *GameState) AllHostagesGone() {
	for i := range gs.hostages {
		gs.hostages[i].IsValid = false
	}
	gs.allHostagesGone = true
}

// HostageWasTaken notes that the enemy started leading hostages away.
func (gs *GameState) HostageWasTaken() { gs.hostagesTaken = true }

// HaveSomeHostagesBeenTaken reports whether HostageWasTaken was called this
// round.
func (gs *GameState) HaveSomeHostagesBeenTaken() bool { return gs.hostagesTaken }
