package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func zoneBox(x, y, w, h float64) geom.Box {
	return geom.Box{Min: geom.V(x, y, 0), Max: geom.V(x+w, y+h, 256)}
}

func bombWorld(t *testing.T) (*World, world.Handle) {
	t.Helper()
	w := NewWorld(WorldConfig{Width: 2000, Height: 2000, BuyTime: 10, StartMoney: 1000})
	w.SetScenario(world.ScenarioBomb, []world.Zone{
		{Kind: world.ZoneBombsite, Name: "BombsiteA", Extent: zoneBox(1000, 1000, 300, 300)},
	})
	planter := w.Spawn("alpha", world.TeamAttackers, geom.V(1100, 1100, 0), 0)
	require.True(t, w.GiveBomb(planter))
	w.StartRound()
	return w, planter
}

func plantBomb(t *testing.T, w *World, planter world.Handle) {
	t.Helper()
	drive(w, planter, world.Command{Action: world.ActionPlant}, 35)
	require.Equal(t, world.BombPlanted, w.Bomb().State)
}

func TestPlant_RequiresBombsiteAndHold(t *testing.T) {
	w := NewWorld(WorldConfig{Width: 2000, Height: 2000})
	w.SetScenario(world.ScenarioBomb, []world.Zone{
		{Kind: world.ZoneBombsite, Name: "BombsiteA", Extent: zoneBox(1000, 1000, 300, 300)},
	})
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
	w.GiveBomb(h)

	drive(w, h, world.Command{Action: world.ActionPlant}, 40)
	assert.Equal(t, world.BombMoving, w.Bomb().State, "no planting outside a bombsite")

	w.Edit(h, func(c *world.Combatant) { c.Pos = geom.V(1100, 1100, 0) })
	drive(w, h, world.Command{Action: world.ActionPlant}, 20)
	assert.Equal(t, world.BombMoving, w.Bomb().State, "two seconds is not enough")

	// letting go restarts the plant
	drive(w, h, world.Command{}, 5)
	drive(w, h, world.Command{Action: world.ActionPlant}, 20)
	assert.Equal(t, world.BombMoving, w.Bomb().State)

	drive(w, h, world.Command{Action: world.ActionPlant}, 15)
	bomb := w.Bomb()
	assert.Equal(t, world.BombPlanted, bomb.State)
	assert.Equal(t, 0, bomb.Zone)
	assert.InDelta(t, bombTimer, bomb.TimeLeft, 1)

	c, _ := w.Combatant(h)
	assert.False(t, c.HasBomb)
	assert.Contains(t, kinds(w.TakeEvents()), world.EventBombPlanted)
}

func TestGiveBomb_MovesBombBetweenCarriers(t *testing.T) {
	w, first := bombWorld(t)
	second := w.Spawn("bravo", world.TeamAttackers, geom.V(200, 200, 0), 0)

	require.True(t, w.GiveBomb(second))
	a, _ := w.Combatant(first)
	b, _ := w.Combatant(second)
	assert.False(t, a.HasBomb)
	assert.True(t, b.HasBomb)
	assert.Equal(t, second, w.Bomb().Carrier)
}

func TestDefuse_WithKitWinsForDefenders(t *testing.T) {
	w, planter := bombWorld(t)
	def := w.Spawn("bravo", world.TeamDefenders, geom.V(1500, 1500, 0), 0)
	require.True(t, w.Purchase(def, "defuse_kit"))
	plantBomb(t, w, planter)

	w.Edit(def, func(c *world.Combatant) { c.Pos = w.Bomb().Pos.Add(geom.V(30, 0, 0)) })
	drive(w, def, world.Command{Action: world.ActionUse}, 30)
	assert.Equal(t, world.BombPlanted, w.Bomb().State, "a kit still takes five seconds")
	assert.Equal(t, def, w.Bomb().Defuser)

	drive(w, def, world.Command{Action: world.ActionUse}, 25)
	assert.Equal(t, world.BombDefused, w.Bomb().State)
	winner, over := w.Winner()
	assert.True(t, over)
	assert.Equal(t, world.TeamDefenders, winner)
}

func TestDefuse_InterruptedDefuserIsCleared(t *testing.T) {
	w, planter := bombWorld(t)
	def := w.Spawn("bravo", world.TeamDefenders, geom.V(1500, 1500, 0), 0)
	plantBomb(t, w, planter)

	w.Edit(def, func(c *world.Combatant) { c.Pos = w.Bomb().Pos.Add(geom.V(30, 0, 0)) })
	drive(w, def, world.Command{Action: world.ActionUse}, 10)
	require.Equal(t, def, w.Bomb().Defuser)

	drive(w, def, world.Command{}, 5)
	assert.False(t, w.Bomb().Defuser.IsValid())
}

func TestBomb_ExplodesAndKillsNearby(t *testing.T) {
	w, planter := bombWorld(t)
	near := w.Spawn("bravo", world.TeamDefenders, geom.V(1300, 1100, 0), 0)
	far := w.Spawn("charlie", world.TeamDefenders, geom.V(100, 100, 0), 0)
	plantBomb(t, w, planter)
	w.TakeEvents()

	drive(w, planter, world.Command{}, 360)

	assert.Equal(t, world.BombExploded, w.Bomb().State)
	n, _ := w.Combatant(near)
	f, _ := w.Combatant(far)
	assert.False(t, n.Alive)
	assert.True(t, f.Alive)
	winner, over := w.Winner()
	assert.True(t, over)
	assert.Equal(t, world.TeamAttackers, winner)

	got := kinds(w.TakeEvents())
	assert.Contains(t, got, world.EventBombExploded)
	assert.Contains(t, got, world.EventExplosion)
	assert.Contains(t, got, world.EventRoundEnd)
}

func TestBomb_PlantedBombOutlivesAttackers(t *testing.T) {
	w, planter := bombWorld(t)
	w.Spawn("bravo", world.TeamDefenders, geom.V(100, 100, 0), 0)
	plantBomb(t, w, planter)

	require.True(t, w.Kill(planter, world.NoHandle))
	w.Step(0.1)
	assert.False(t, w.RoundOver(), "defenders must still defuse")
}

func TestBomb_DroppedOnDeathAndPickedUp(t *testing.T) {
	w, carrier := bombWorld(t)
	mate := w.Spawn("bravo", world.TeamAttackers, geom.V(1100, 1300, 0), 270)
	w.Spawn("charlie", world.TeamDefenders, geom.V(100, 100, 0), 0)

	require.True(t, w.Kill(carrier, world.NoHandle))
	assert.False(t, w.Kill(carrier, world.NoHandle), "already down")
	bomb := w.Bomb()
	assert.Equal(t, world.BombLoose, bomb.State)
	assert.InDelta(t, 1100, bomb.Pos.Y, 1e-6)

	// walk onto the bomb
	drive(w, mate, world.Command{Forward: 1}, 10)
	assert.Equal(t, world.BombMoving, w.Bomb().State)
	assert.Equal(t, mate, w.Bomb().Carrier)
	c, _ := w.Combatant(mate)
	assert.True(t, c.HasBomb)
	assert.Contains(t, kinds(w.TakeEvents()), world.EventBombPickedUp)
}

func TestHostages_RescueWinsForAttackers(t *testing.T) {
	w := NewWorld(WorldConfig{Width: 1000, Height: 1000})
	w.SetScenario(world.ScenarioHostages, []world.Zone{
		{Kind: world.ZoneRescue, Name: "Rescue", Extent: zoneBox(0, 0, 200, 1000)},
	})
	hs := w.AddHostage(geom.V(500, 500, 0))
	guard := w.Spawn("guard", world.TeamDefenders, geom.V(900, 900, 0), 0)
	rescuer := w.Spawn("alpha", world.TeamAttackers, geom.V(450, 500, 0), 180)

	drive(w, guard, world.Command{Action: world.ActionUse, Target: hs}, 1)
	got, _ := w.Hostage(hs)
	assert.False(t, got.Leader.IsValid(), "defenders do not lead hostages")

	drive(w, rescuer, world.Command{Action: world.ActionUse, Target: hs}, 1)
	got, _ = w.Hostage(hs)
	require.Equal(t, rescuer, got.Leader)

	drive(w, rescuer, world.Command{Forward: 1}, 50)
	got, ok := w.Hostage(hs)
	require.True(t, ok)
	assert.True(t, got.Rescued)
	assert.False(t, got.Leader.IsValid())
	winner, over := w.Winner()
	assert.True(t, over)
	assert.Equal(t, world.TeamAttackers, winner)
	assert.Len(t, w.Hostages(), 1)
}

func TestHostages_LeaderDeathFreesHostage(t *testing.T) {
	w := NewWorld(WorldConfig{Width: 1000, Height: 1000})
	w.SetScenario(world.ScenarioHostages, nil)
	hs := w.AddHostage(geom.V(500, 500, 0))
	rescuer := w.Spawn("alpha", world.TeamAttackers, geom.V(450, 500, 0), 180)
	w.Spawn("bravo", world.TeamAttackers, geom.V(100, 100, 0), 0)
	w.Spawn("guard", world.TeamDefenders, geom.V(900, 900, 0), 0)

	drive(w, rescuer, world.Command{Action: world.ActionUse, Target: hs}, 1)
	require.True(t, w.Kill(rescuer, world.NoHandle))

	got, _ := w.Hostage(hs)
	assert.False(t, got.Leader.IsValid())
}

func TestEscort_VIPOutcomes(t *testing.T) {
	setup := func() (*World, world.Handle) {
		w := NewWorld(WorldConfig{Width: 1000, Height: 1000})
		w.SetScenario(world.ScenarioEscort, []world.Zone{
			{Kind: world.ZoneEscape, Name: "Escape", Extent: zoneBox(800, 0, 200, 1000)},
		})
		vip := w.Spawn("vip", world.TeamAttackers, geom.V(700, 500, 0), 0)
		w.Spawn("guard", world.TeamDefenders, geom.V(100, 100, 0), 0)
		require.True(t, w.SetVIP(vip))
		return w, vip
	}

	t.Run("escape", func(t *testing.T) {
		w, vip := setup()
		drive(w, vip, world.Command{Forward: 1}, 10)
		winner, over := w.Winner()
		assert.True(t, over)
		assert.Equal(t, world.TeamAttackers, winner)
	})

	t.Run("killed", func(t *testing.T) {
		w, vip := setup()
		w.Kill(vip, world.NoHandle)
		w.Step(0.1)
		winner, over := w.Winner()
		assert.True(t, over)
		assert.Equal(t, world.TeamDefenders, winner)
	})
}

func TestRoundEnd_EliminationAndTimeout(t *testing.T) {
	t.Run("elimination", func(t *testing.T) {
		w := NewWorld(WorldConfig{Width: 1000, Height: 1000})
		a := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
		w.Spawn("bravo", world.TeamDefenders, geom.V(900, 900, 0), 0)
		w.StartRound()
		w.Kill(a, world.NoHandle)
		w.Step(0.1)
		winner, over := w.Winner()
		assert.True(t, over)
		assert.Equal(t, world.TeamDefenders, winner)
	})

	t.Run("timeout", func(t *testing.T) {
		w := NewWorld(WorldConfig{Width: 1000, Height: 1000, RoundTime: 5})
		w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
		w.Spawn("bravo", world.TeamDefenders, geom.V(900, 900, 0), 0)
		w.StartRound()
		w.Step(0.1)
		assert.False(t, w.RoundOver())

		w.Clock().Advance(5)
		w.Step(0.1)
		winner, over := w.Winner()
		assert.True(t, over)
		assert.Equal(t, world.TeamNone, winner)
	})

	t.Run("frozen after end", func(t *testing.T) {
		w := NewWorld(WorldConfig{Width: 1000, Height: 1000, RoundTime: 1})
		a := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
		w.Spawn("bravo", world.TeamDefenders, geom.V(900, 900, 0), 0)
		w.Clock().Advance(2)
		w.Step(0.1)
		require.True(t, w.RoundOver())

		drive(w, a, world.Command{Forward: 1}, 5)
		c, _ := w.Combatant(a)
		assert.Equal(t, geom.V(100, 100, 0), c.Pos)
	})
}
