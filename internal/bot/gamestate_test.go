package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// eyes sees everything, or nothing.
type eyes struct {
	see  bool
	pos  geom.Vec3
	team world.Team
}

func (e eyes) IsVisiblePoint(geom.Vec3, bool) bool { return e.see }
func (e eyes) Position() geom.Vec3                 { return e.pos }
func (e eyes) Team() world.Team                    { return e.team }

func hostageWorld() *fakeWorld {
	w := newFakeWorld()
	w.kind = world.ScenarioHostages
	w.hostages = []world.Hostage{
		{Handle: handleN(50), Pos: geom.V(500, 500, 0), Alive: true},
		{Handle: handleN(51), Pos: geom.V(540, 500, 0), Alive: true},
	}
	return w
}

func newBelief(w *fakeWorld, see bool, k Knowledge) *GameState {
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- simulation randomness
	return NewGameState(eyes{see: see, team: world.TeamDefenders}, w, w.clock, rng, k)
}

func TestValidateHostages_NoChangeWhenNothingMoved(t *testing.T) {
	w := hostageWorld()
	gs := newBelief(w, true, KnowledgeImperfect)
	assert.Zero(t, gs.ValidateHostagePositions())
	w.advance(1)
	assert.Zero(t, gs.ValidateHostagePositions())
}

func TestValidateHostages_ReportsEachLossOnce(t *testing.T) {
	w := hostageWorld()
	gs := newBelief(w, true, KnowledgeImperfect)

	w.hostages[0].Pos = geom.V(1500, 500, 0)
	change := gs.ValidateHostagePositions()
	require.True(t, change.Has(HostageGone))
	assert.False(t, change.Has(HostagesAllGone))

	// inside the rate limit nothing is re-examined
	assert.Zero(t, gs.ValidateHostagePositions())

	w.advance(1)
	assert.Zero(t, gs.ValidateHostagePositions(), "a known loss must not be reported again")

	w.hostages[1].Rescued = true
	w.advance(1)
	change = gs.ValidateHostagePositions()
	assert.True(t, change.Has(HostageGone))
	assert.True(t, change.Has(HostagesAllGone))
	assert.True(t, gs.AreAllHostagesGone())

	w.advance(1)
	assert.Zero(t, gs.ValidateHostagePositions())
}

func TestValidateHostages_BlindOwnerLearnsNothing(t *testing.T) {
	w := hostageWorld()
	gs := newBelief(w, false, KnowledgeImperfect)
	w.hostages[0].Alive = false
	assert.Zero(t, gs.ValidateHostagePositions())
	assert.True(t, gs.Hostages()[0].IsAlive)
}

func TestValidateHostages_PerfectKnowledgeSeesDeath(t *testing.T) {
	w := hostageWorld()
	gs := newBelief(w, false, KnowledgePerfect)
	w.hostages[1].Alive = false
	change := gs.ValidateHostagePositions()
	assert.True(t, change.Has(HostageDied))
	assert.False(t, gs.Hostages()[1].IsValid)
}

func TestBombsiteSearchCoversEverySite(t *testing.T) {
	w := newFakeWorld()
	w.kind = world.ScenarioBomb
	w.zones = []world.Zone{
		{Index: 0, Kind: world.ZoneBombsite, Name: "A"},
		{Index: 1, Kind: world.ZoneBombsite, Name: "B"},
		{Index: 2, Kind: world.ZoneRescue, Name: "exit"},
	}
	gs := newBelief(w, true, KnowledgeImperfect)

	seen := map[int]bool{}
	for {
		zone, ok := gs.NextBombsiteToSearch()
		if !ok {
			break
		}
		require.False(t, seen[zone], "site %d searched twice", zone)
		seen[zone] = true
		gs.ClearBombsite(zone)
	}
	assert.Equal(t, map[int]bool{0: true, 1: true}, seen)

	gs.MarkBombsiteAsPlanted(1)
	assert.Equal(t, 1, gs.PlantedBombsite())
	assert.Equal(t, world.BombPlanted, gs.BombState())
}
