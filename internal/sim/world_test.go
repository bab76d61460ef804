package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func newTestWorld(walls ...geom.Box) *World {
	return NewWorld(WorldConfig{
		Width:      1000,
		Height:     1000,
		Walls:      walls,
		BuyTime:    10,
		StartMoney: 1000,
	})
}

// drive applies cmd to h for n steps of 0.1s.
func drive(w *World, h world.Handle, cmd world.Command, n int) {
	for i := 0; i < n; i++ {
		w.Drive(h, cmd)
		w.Step(0.1)
		w.Clock().Advance(0.1)
	}
}

// aimAt points from's eye at the torso of to.
func aimAt(w *World, from, to world.Handle) {
	tc, _ := w.Combatant(to)
	w.Edit(from, func(c *world.Combatant) {
		d := tc.Center().Sub(c.Eye())
		c.Yaw = d.Yaw()
		c.Pitch = d.Pitch()
	})
}

func kinds(events []world.Event) []world.EventKind {
	out := make([]world.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestStep_RunsForwardAtRunSpeed(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)

	drive(w, h, world.Command{Forward: 1}, 1)

	c, ok := w.Combatant(h)
	require.True(t, ok)
	assert.InDelta(t, 125, c.Pos.X, 1e-6)
	assert.InDelta(t, 100, c.Pos.Y, 1e-6)
	assert.InDelta(t, runSpeed, c.Velocity.Len2D(), 1e-6)
	assert.Contains(t, kinds(w.TakeEvents()), world.EventFootstep)
}

func TestStep_StrafeLeftIsPositiveY(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(500, 500, 0), 0)

	drive(w, h, world.Command{Strafe: 1, Walk: true}, 1)

	c, _ := w.Combatant(h)
	assert.InDelta(t, 500+walkSpeed*0.1, c.Pos.Y, 1e-6)
	assert.Empty(t, w.TakeEvents(), "walking is silent")
}

func TestStep_UndrivenStandsStill(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
	drive(w, h, world.Command{Forward: 1}, 1)
	w.Step(0.1)

	c, _ := w.Combatant(h)
	assert.Zero(t, c.Velocity.Len2D())
}

func TestStep_WallsStopMovement(t *testing.T) {
	wall := geom.Box{Min: geom.V(200, 0, 0), Max: geom.V(300, 1000, 256)}
	w := newTestWorld(wall)
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 500, 0), 0)

	drive(w, h, world.Command{Forward: 1}, 20)

	c, _ := w.Combatant(h)
	assert.LessOrEqual(t, c.Pos.X, 200-bodyRadius)
}

func TestStep_SlidesAlongWall(t *testing.T) {
	wall := geom.Box{Min: geom.V(200, 0, 0), Max: geom.V(300, 1000, 256)}
	w := newTestWorld(wall)
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(180, 500, 0), 45)

	drive(w, h, world.Command{Forward: 1}, 5)

	c, _ := w.Combatant(h)
	assert.LessOrEqual(t, c.Pos.X, 200-bodyRadius)
	assert.Greater(t, c.Pos.Y, 550.0)
}

func TestStep_MapEdgeContainsBodies(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(50, 500, 0), 180)

	drive(w, h, world.Command{Forward: 1}, 10)

	c, _ := w.Combatant(h)
	assert.GreaterOrEqual(t, c.Pos.X, bodyRadius)
}

func TestStep_PitchIsClamped(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)

	drive(w, h, world.Command{PitchDelta: 60, YawDelta: 200}, 3)

	c, _ := w.Combatant(h)
	assert.Equal(t, 89.0, c.Pitch)
	assert.InDelta(t, 600-720, c.Yaw, 1e-6)
}

func TestLineClear_WallsAndDoors(t *testing.T) {
	wall := geom.Box{Min: geom.V(200, 0, 0), Max: geom.V(300, 400, 256)}
	w := newTestWorld(wall)
	d := w.AddDoor(geom.Box{Min: geom.V(200, 400, 0), Max: geom.V(300, 500, 256)})

	assert.False(t, w.LineClear(geom.V(100, 100, 60), geom.V(400, 100, 60)))
	assert.False(t, w.LineClear(geom.V(100, 450, 60), geom.V(400, 450, 60)), "closed door blocks")
	assert.True(t, w.LineClear(geom.V(100, 700, 60), geom.V(400, 700, 60)))

	got, ok := w.DoorOnSegment(geom.V(100, 450, 0), geom.V(400, 450, 0))
	require.True(t, ok)
	assert.Equal(t, d, got.Handle)
	assert.False(t, got.Open)
	assert.Zero(t, got.Pos.Z)

	_, ok = w.DoorOnSegment(geom.V(100, 700, 0), geom.V(400, 700, 0))
	assert.False(t, ok)
}

func TestUse_TogglesDoorWithinReach(t *testing.T) {
	w := newTestWorld()
	d := w.AddDoor(geom.Box{Min: geom.V(200, 400, 0), Max: geom.V(240, 500, 256)})
	far := w.Spawn("far", world.TeamAttackers, geom.V(700, 450, 0), 0)
	near := w.Spawn("near", world.TeamAttackers, geom.V(170, 450, 0), 0)

	drive(w, far, world.Command{Action: world.ActionUse, Target: d}, 1)
	door, _ := w.DoorOnSegment(geom.V(100, 450, 0), geom.V(400, 450, 0))
	assert.False(t, door.Open, "out of reach")

	w.TakeEvents()
	drive(w, near, world.Command{Action: world.ActionUse, Target: d}, 1)
	door, _ = w.DoorOnSegment(geom.V(100, 450, 0), geom.V(400, 450, 0))
	assert.True(t, door.Open)
	assert.True(t, w.LineClear(geom.V(100, 450, 60), geom.V(400, 450, 60)))
	assert.Contains(t, kinds(w.TakeEvents()), world.EventDoorMoved)

	// a second press right away is ignored
	drive(w, near, world.Command{Action: world.ActionUse, Target: d}, 1)
	door, _ = w.DoorOnSegment(geom.V(100, 450, 0), geom.V(400, 450, 0))
	assert.True(t, door.Open)
}

func TestClosedDoorBlocksMovement(t *testing.T) {
	w := newTestWorld()
	w.AddDoor(geom.Box{Min: geom.V(200, 0, 0), Max: geom.V(240, 1000, 256)})
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 500, 0), 0)

	drive(w, h, world.Command{Forward: 1}, 10)

	c, _ := w.Combatant(h)
	assert.LessOrEqual(t, c.Pos.X, 200-bodyRadius)
}

func TestPurchase(t *testing.T) {
	w := newTestWorld()
	atk := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
	def := w.Spawn("bravo", world.TeamDefenders, geom.V(900, 100, 0), 0)
	w.StartRound()

	assert.True(t, w.CanBuy(atk))
	assert.False(t, w.Purchase(atk, "rocket"))
	assert.False(t, w.Purchase(atk, "defuse_kit"), "attackers carry no kit")
	assert.True(t, w.Purchase(def, "defuse_kit"))
	assert.True(t, w.Purchase(atk, "armor"))
	assert.False(t, w.Purchase(atk, "rifle"), "not enough money left")

	b, _ := w.body(atk)
	assert.Equal(t, 350, b.money)
	assert.True(t, b.armor)

	w.Clock().Advance(11)
	assert.False(t, w.CanBuy(def))
	assert.False(t, w.Purchase(def, "armor"))
}

func TestPurchase_SniperRifleMarksCombatant(t *testing.T) {
	w := NewWorld(WorldConfig{Width: 1000, Height: 1000, BuyTime: 10, StartMoney: 5000})
	h := w.Spawn("alpha", world.TeamDefenders, geom.V(100, 100, 0), 0)

	require.True(t, w.Purchase(h, "sniper_rifle"))
	c, _ := w.Combatant(h)
	assert.True(t, c.Sniper)
}

func TestRemove(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
	d := w.AddDoor(geom.Box{Min: geom.V(200, 0, 0), Max: geom.V(240, 100, 256)})

	assert.False(t, w.Remove(d), "only combatants are removed")
	assert.True(t, w.Remove(h))
	_, ok := w.Combatant(h)
	assert.False(t, ok)
	assert.Empty(t, w.Combatants())
}

func TestBroadcastIsRecorded(t *testing.T) {
	w := newTestWorld()
	h := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0), 0)
	w.Broadcast(world.Utterance{Speaker: h, Team: world.TeamAttackers, Phrase: "affirmative"})

	require.Len(t, w.Utterances(), 1)
	assert.Equal(t, "affirmative", w.Utterances()[0].Phrase)
}

// --- Combat ---

func TestFire_KillsTargetInSights(t *testing.T) {
	w := newTestWorld()
	shooter := w.Spawn("alpha", world.TeamAttackers, geom.V(100, 500, 0), 0)
	target := w.Spawn("bravo", world.TeamDefenders, geom.V(300, 500, 0), 180)
	other := w.Spawn("charlie", world.TeamDefenders, geom.V(900, 900, 0), 180)
	aimAt(w, shooter, target)

	drive(w, shooter, world.Command{Action: world.ActionFire}, 20)

	c, _ := w.Combatant(target)
	assert.False(t, c.Alive)
	assert.Zero(t, c.Health)

	events := w.TakeEvents()
	var deaths []world.Event
	for _, e := range events {
		if e.Kind == world.EventDeath {
			deaths = append(deaths, e)
		}
	}
	require.Len(t, deaths, 1)
	assert.Equal(t, target, deaths[0].Source)
	assert.Equal(t, shooter, deaths[0].Other)
	assert.Contains(t, kinds(events), world.EventDamage)
	assert.Contains(t, kinds(events), world.EventWeaponFired)

	o, _ := w.Combatant(other)
	assert.True(t, o.Alive, "only the aimed at target is hit")
}
