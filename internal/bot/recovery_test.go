package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

// loner is one attacker at (100,100) on mesh.
func loner(t *testing.T, mesh *nav.Mesh, opts ...Option) (*fakeWorld, *Manager, *Agent) {
	t.Helper()
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, mesh, opts...)
	return w, m, addAgent(t, m, h, world.TeamAttackers, teamPlayer())
}

func TestNavBlocked_PathIsRebuiltAroundArea(t *testing.T) {
	mesh := openMesh()
	_, m, a := loner(t, mesh)
	goal := geom.V(1000, 100, 0)
	require.True(t, a.ComputePath(goal, FastestRoute))

	off := mesh.NearestArea(geom.V(1200, 1200, 0))
	a.OnNavBlocked(off.ID)
	assert.True(t, a.HasPath(), "an area off the route changes nothing")

	mid := a.path[len(a.path)/2].Area
	mesh.SetBlocked(mid.ID, true)
	m.dispatch(world.Event{Kind: world.EventNavBlocked, Area: uint32(mid.ID)})
	assert.False(t, a.HasPath())

	// no throttle wait before the rebuild
	require.True(t, a.ComputePath(goal, FastestRoute))
	for _, s := range a.path {
		assert.NotEqual(t, mid.ID, s.Area.ID)
	}
}

func TestStuckMonitor(t *testing.T) {
	tests := []struct {
		name      string
		dir       geom.Vec3
		speed     float64
		wantStuck bool
	}{
		{"blocked while moving", geom.V(1, 0, 0), 0, true},
		{"standing still on purpose", geom.Vec3{}, 0, false},
		{"making progress", geom.V(1, 0, 0), 200, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, a := loner(t, openMesh())
			const dt = 0.05
			for i := 0; i < 40; i++ {
				a.move.dir = tt.dir
				a.me.Pos.X += tt.speed * dt
				a.stuck.sample(a, dt)
				w.advance(dt)
			}
			assert.Equal(t, tt.wantStuck, a.IsStuck())
		})
	}
}

func TestStuck_WigglesThenGivesUp(t *testing.T) {
	rec := &memoryRecorder{}
	w, _, a := loner(t, openMesh(), WithRecorder(rec))
	require.True(t, a.ComputePath(geom.V(1000, 100, 0), FastestRoute))
	a.stuck.isStuck = true
	a.stuck.stuckAt = a.now()

	w.advance(1)
	require.Equal(t, Progressing, a.UpdatePathMovement(true))
	straight := a.goalPos.Sub(a.me.Pos).Flat().Normalize()
	assert.Less(t, a.move.dir.Dot(straight), 0.9, "wiggling strafes off the straight line")
	assert.True(t, a.HasPath())

	w.advance(wiggleDuration)
	assert.Equal(t, PathFailure, a.UpdatePathMovement(true))
	assert.False(t, a.HasPath())
	assert.False(t, a.IsStuck())

	gaveUp := false
	for _, r := range rec.rows {
		if r.category == "path" && r.key == "stuck" {
			gaveUp = true
		}
	}
	assert.True(t, gaveUp)
}

func TestMoveTo_UnreachableGoalFallsBackToIdle(t *testing.T) {
	mesh := openMesh()
	w, _, a := loner(t, mesh)
	goal := geom.V(1000, 100, 0)
	mesh.SetBlocked(mesh.NearestArea(goal).ID, true)

	a.MoveTo(goal, FastestRoute)
	steps := []struct {
		wantState    string
		wantFailures int
	}{
		{"move_to", 1},
		{"move_to", 2},
		{"hunt", 0},
	}
	for i, step := range steps {
		a.state.OnUpdate(a)
		assert.Equal(t, step.wantState, a.StateName(), "attempt %d", i+1)
		assert.Equal(t, step.wantFailures, a.pathFailures, "attempt %d", i+1)
		// wait out the repath throttle
		w.advance(0.7)
	}

	assert.True(t, a.IsUnreachable(goal), "the failed goal is remembered")
	w.advance(unreachableMemory)
	assert.False(t, a.IsUnreachable(goal), "and forgotten after a while")
}

func TestUnreachableZoneIsSkipped(t *testing.T) {
	w, _, a := loner(t, openMesh())
	siteA := world.Zone{Index: 0, Kind: world.ZoneBombsite, Name: "A", Extent: geom.Box{Min: geom.V(900, 900, 0), Max: geom.V(1100, 1100, 0)}}
	siteB := world.Zone{Index: 1, Kind: world.ZoneBombsite, Name: "B", Extent: geom.Box{Min: geom.V(900, 100, 0), Max: geom.V(1100, 300, 0)}}
	w.zones = []world.Zone{siteA, siteB}

	a.markUnreachable(siteA.Center())
	for i := 0; i < 20; i++ {
		z, ok := a.randomZone(world.ZoneBombsite)
		require.True(t, ok)
		assert.Equal(t, "B", z.Name)
	}
	z, ok := a.nearestZone(geom.V(1000, 1000, 0), world.ZoneBombsite)
	require.True(t, ok)
	assert.Equal(t, "B", z.Name)

	// standing in a zone still counts
	in, ok := a.zoneAt(siteA.Center(), world.ZoneBombsite)
	require.True(t, ok)
	assert.Equal(t, "A", in.Name)
}

func TestRandomHuntArea_SkipsUnreachable(t *testing.T) {
	row := nav.NewGridMesh(nav.GridSpec{Width: 640, Height: 64, Cell: 64})
	_, _, a := loner(t, row)
	open := row.NearestArea(geom.V(608, 32, 0))
	for _, area := range row.Areas() {
		if area.ID != open.ID {
			a.markUnreachable(area.Center())
		}
	}

	for i := 0; i < 50; i++ {
		if area := a.randomHuntArea(); area != nil {
			assert.Equal(t, open.ID, area.ID)
		}
	}
}

func TestFollowPath_ThrottleDoesNotCountAsFailure(t *testing.T) {
	mesh := openMesh()
	_, _, a := loner(t, mesh)
	goal := geom.V(1000, 100, 0)
	mesh.SetBlocked(mesh.NearestArea(goal).ID, true)

	for i := 0; i < 5; i++ {
		assert.Equal(t, Progressing, a.followPath(goal, FastestRoute))
	}
	assert.Equal(t, 1, a.pathFailures)
}

func TestOnAudibleEvent(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		kind      world.EventKind
		pos       geom.Vec3
		wantHeard bool
	}{
		{"enemy gunfire", "tango", world.EventWeaponFired, geom.V(600, 100, 0), true},
		{"teammate gunfire", "bravo", world.EventWeaponFired, geom.V(300, 100, 0), false},
		{"own gunfire", "alpha", world.EventWeaponFired, geom.V(100, 100, 0), false},
		{"enemy out of earshot", "tango", world.EventFootstep, geom.V(1250, 1250, 0), false},
		{"not a sound", "tango", world.EventDamage, geom.V(600, 100, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorld()
			handles := map[string]world.Handle{
				"alpha": w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0)),
				"bravo": w.spawn("bravo", world.TeamAttackers, geom.V(300, 100, 0)),
				"tango": w.spawn("tango", world.TeamDefenders, geom.V(600, 100, 0)),
			}
			m := newTestManager(t, w, openMesh())
			a := addAgent(t, m, handles["alpha"], world.TeamAttackers, teamPlayer())

			a.OnAudibleEvent(world.Event{Kind: tt.kind, Source: handles[tt.source], Pos: tt.pos})
			assert.Equal(t, tt.wantHeard, a.IsNoiseHeard())
		})
	}
}

func TestNoise_HandsOffToInvestigate(t *testing.T) {
	tests := []struct {
		name  string
		enter func(a *Agent)
	}{
		{"from idle", func(a *Agent) { a.Idle() }},
		{"from hunt", func(a *Agent) { a.Hunt(); a.state.OnUpdate(a) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorld()
			h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
			enemy := w.spawn("tango", world.TeamDefenders, geom.V(900, 100, 0))
			m := newTestManager(t, w, openMesh())
			p := teamPlayer()
			p.Aggression = 1
			a := addAgent(t, m, h, world.TeamAttackers, p)
			a.morale = MoraleExcellent

			a.OnAudibleEvent(world.Event{Kind: world.EventWeaponFired, Source: enemy, Pos: geom.V(900, 100, 0)})
			require.True(t, a.IsNoiseHeard())

			tt.enter(a)
			assert.True(t, a.IsInvestigatingNoise(), "state is %s", a.StateName())
		})
	}
}

func TestNoise_TeammateFireKeepsHunting(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	mate := w.spawn("bravo", world.TeamAttackers, geom.V(400, 100, 0))
	m := newTestManager(t, w, openMesh())
	p := teamPlayer()
	p.Aggression = 1
	a := addAgent(t, m, h, world.TeamAttackers, p)
	a.morale = MoraleExcellent

	a.OnAudibleEvent(world.Event{Kind: world.EventWeaponFired, Source: mate, Pos: geom.V(400, 100, 0)})
	a.Idle()
	assert.True(t, a.IsHunting(), "state is %s", a.StateName())
}
