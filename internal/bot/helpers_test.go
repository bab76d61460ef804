package bot

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

// fakeWorld is a minimal world, controller and scenario in one.
type fakeWorld struct {
	clock  *timer.ManualClock
	bodies []world.Combatant
	walls  []geom.Box

	kind     world.ScenarioKind
	zones    []world.Zone
	bomb     world.BombInfo
	hostages []world.Hostage

	said   []world.Utterance
	driven map[world.Handle]int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		clock:  timer.NewManualClock(1),
		bomb:   world.BombInfo{Zone: -1},
		driven: make(map[world.Handle]int),
	}
}

// spawn adds a live combatant facing +X.
func (w *fakeWorld) spawn(name string, team world.Team, pos geom.Vec3) world.Handle {
	h := world.Handle{Index: uint32(len(w.bodies)), Gen: 1}
	w.bodies = append(w.bodies, world.Combatant{
		Handle: h, Name: name, Team: team, Bot: true, Alive: true,
		Health: 100, Pos: pos, LastFired: -1,
	})
	return h
}

func (w *fakeWorld) edit(h world.Handle, fn func(c *world.Combatant)) {
	for i := range w.bodies {
		if w.bodies[i].Handle == h {
			fn(&w.bodies[i])
		}
	}
}

func (w *fakeWorld) Combatants() []world.Combatant { return slices.Clone(w.bodies) }

func (w *fakeWorld) Combatant(h world.Handle) (world.Combatant, bool) {
	for _, c := range w.bodies {
		if c.Handle == h {
			return c, true
		}
	}
	return world.Combatant{}, false
}

func (w *fakeWorld) LineClear(from, to geom.Vec3, _ ...world.Handle) bool {
	for _, b := range w.walls {
		if geom.SegmentHits(from, to, b) {
			return false
		}
	}
	return true
}

func (w *fakeWorld) DoorOnSegment(_, _ geom.Vec3) (world.Door, bool) { return world.Door{}, false }

func (w *fakeWorld) Drive(h world.Handle, _ world.Command)  { w.driven[h]++ }
func (w *fakeWorld) Broadcast(u world.Utterance)            { w.said = append(w.said, u) }
func (w *fakeWorld) Purchase(_ world.Handle, _ string) bool { return false }
func (w *fakeWorld) Kind() world.ScenarioKind               { return w.kind }
func (w *fakeWorld) Zones() []world.Zone                    { return w.zones }
func (w *fakeWorld) Bomb() world.BombInfo                   { return w.bomb }
func (w *fakeWorld) Hostages() []world.Hostage              { return w.hostages }
func (w *fakeWorld) RoundOver() bool                        { return false }
func (w *fakeWorld) CanBuy(_ world.Handle) bool             { return false }
func (w *fakeWorld) phrases() []string                      { return phrasesOf(w.said) }
func (w *fakeWorld) advance(dt float64)                     { w.clock.Advance(dt) }

// env wires the fake as every service.
func (w *fakeWorld) env(g nav.Graph) Env {
	return Env{World: w, Scenario: w, Nav: g, Control: w, Clock: w.clock}
}

func (w *fakeWorld) Hostage(h world.Handle) (world.Hostage, bool) {
	for _, x := range w.hostages {
		if x.Handle == h {
			return x, true
		}
	}
	return world.Hostage{}, false
}

func phrasesOf(us []world.Utterance) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Phrase)
	}
	return out
}

// openMesh is a 1280x1280 grid of 64 unit cells with no cover.
func openMesh() *nav.Mesh {
	return nav.NewGridMesh(nav.GridSpec{Width: 1280, Height: 1280, Cell: 64})
}

// coverMesh has a pillar in the middle, which yields hiding spots.
func coverMesh() *nav.Mesh {
	return nav.NewGridMesh(nav.GridSpec{
		Width: 1280, Height: 1280, Cell: 64,
		Obstacles: []geom.Box{{Min: geom.V(576, 576, 0), Max: geom.V(704, 704, 128)}},
	})
}

// teamPlayer never goes rogue.
func teamPlayer() Profile {
	p := DefaultProfile(DifficultyNormal)
	p.Teamwork = 1
	return p
}

func newTestManager(t *testing.T, w *fakeWorld, g nav.Graph, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewSource(7)))}, opts...) // #nosec G404 -- simulation randomness
	m, err := NewManager(w.env(g), DefaultSettings(), opts...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func addAgent(t *testing.T, m *Manager, h world.Handle, team world.Team, p Profile) *Agent {
	t.Helper()
	ah, err := m.AddAgent(h, team, p)
	if err != nil {
		t.Fatalf("AddAgent: %v", err)
	}
	a, ok := m.Agent(ah)
	if !ok {
		t.Fatal("agent handle does not resolve")
	}
	return a
}
