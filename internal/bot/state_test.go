package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func TestIdle_HandsOffInSameUpdate(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())
	require.True(t, a.IsIdle())

	a.Update()
	assert.True(t, a.IsHunting(), "state is %s", a.StateName())
	assert.Equal(t, TaskSeekAndDestroy, a.Task())
}

func TestIdle_NeverRestsAfterDispatch(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	a.Idle()
	assert.False(t, a.IsIdle())
}

func TestTryToHide_FailsWithoutCover(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())
	a.Update()
	before := a.StateName()

	assert.False(t, a.TryToHide(a.Position(), 1000, 10, false))
	assert.Equal(t, before, a.StateName())
	assert.Nil(t, a.HidingSpot())
}

func TestTryToHide_PicksReachableSpot(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(400, 400, 0))
	m := newTestManager(t, w, coverMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	require.True(t, a.TryToHide(a.Position(), 1000, 10, false))
	assert.True(t, a.IsHiding())
	spot := a.HidingSpot()
	require.NotNil(t, spot)
	assert.LessOrEqual(t, spot.Pos.Dist(a.Position()), 1000.0)
}

func TestTryToHide_SkipsSpotHeldByFriend(t *testing.T) {
	w := newFakeWorld()
	ha := w.spawn("alpha", world.TeamAttackers, geom.V(400, 400, 0))
	hb := w.spawn("bravo", world.TeamAttackers, geom.V(420, 400, 0))
	m := newTestManager(t, w, coverMesh())
	a := addAgent(t, m, ha, world.TeamAttackers, teamPlayer())
	b := addAgent(t, m, hb, world.TeamAttackers, teamPlayer())

	for i := 0; i < 10; i++ {
		require.True(t, a.TryToHide(a.Position(), 1000, 10, false))
		require.True(t, b.TryToHide(b.Position(), 1000, 10, false))
		assert.NotEqual(t, a.HidingSpot().ID, b.HidingSpot().ID)
	}
}

func TestIsNoticeable_RunnerAlwaysSeen(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(300, 100, 0))
	w.edit(enemy, func(c *world.Combatant) { c.Velocity = geom.V(0, 250, 0) })
	m := newTestManager(t, w, openMesh())
	p := teamPlayer()
	p.Skill = 1
	a := addAgent(t, m, h, world.TeamAttackers, p)

	target, _ := w.Combatant(enemy)
	for i := 0; i < 50; i++ {
		require.True(t, a.IsNoticeable(target, PartFeet))
	}
}

func TestIsNoticeable_ShooterAlwaysSeen(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(3000, 100, 0))
	w.edit(enemy, func(c *world.Combatant) { c.Crouching = true; c.LastFired = w.clock.Now() })
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	target, _ := w.Combatant(enemy)
	assert.True(t, a.IsNoticeable(target, PartHead))
}

func TestIsVisible_WallBlocks(t *testing.T) {
	w := newFakeWorld()
	w.walls = []geom.Box{{Min: geom.V(200, 0, 0), Max: geom.V(220, 400, 200)}}
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(300, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	target, _ := w.Combatant(enemy)
	visible, parts := a.IsVisible(target, true)
	assert.False(t, visible)
	assert.Equal(t, PartNone, parts)

	w.walls = nil
	visible, parts = a.IsVisible(target, true)
	assert.True(t, visible)
	assert.NotZero(t, parts&PartGut)
}

func TestIsVisible_OutsideViewCone(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(500, 500, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(200, 500, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	target, _ := w.Combatant(enemy)
	visible, _ := a.IsVisible(target, true)
	assert.False(t, visible, "target is behind us")
	visible, _ = a.IsVisible(target, false)
	assert.True(t, visible)
}

func TestMorale_Clamped(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())
	for i := 0; i < 10; i++ {
		a.IncreaseMorale()
	}
	assert.Equal(t, MoraleExcellent, a.Morale())
	for i := 0; i < 10; i++ {
		a.DecreaseMorale()
	}
	assert.Equal(t, MoraleTerrible, a.Morale())
}

func TestDefuse_FollowsBelief(t *testing.T) {
	w := newFakeWorld()
	w.kind = world.ScenarioBomb
	w.bomb = world.BombInfo{State: world.BombMoving, Zone: -1}
	h := w.spawn("delta", world.TeamDefenders, geom.V(400, 400, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamDefenders, teamPlayer())
	a.GameState().SetKnowledge(KnowledgeImperfect)

	// we believe it ticks at our feet even though the world disagrees
	a.GameState().UpdatePlantedBomb(geom.V(410, 400, 0))
	a.setState(&defuseBombState{})
	a.state.OnUpdate(a)
	assert.Equal(t, "defuse_bomb", a.StateName())
	assert.Equal(t, world.ActionUse, a.action)

	a.GameState().UpdateBombState(world.BombDefused)
	a.state.OnUpdate(a)
	assert.NotEqual(t, "defuse_bomb", a.StateName())
}
