package bot

import (
	"testing"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func handleN(i uint32) world.Handle { return world.Handle{Index: i, Gen: 1} }

func TestReactionQueue_OverwritesOldest(t *testing.T) {
	var q ReactionQueue
	for i := uint32(1); i <= 25; i++ {
		q.Push(ReactionEntry{Enemy: handleN(i)})
	}
	if q.Count() != q.Capacity() {
		t.Fatalf("Count = %d, want %d", q.Count(), q.Capacity())
	}
	if e, _ := q.Latest(); e.Enemy != handleN(25) {
		t.Fatalf("Latest = %v", e.Enemy)
	}
	if e, ok := q.Attend(19); !ok || e.Enemy != handleN(6) {
		t.Fatalf("Attend(19) = %v, %v; want entry 6", e.Enemy, ok)
	}
	if _, ok := q.Attend(20); ok {
		t.Fatal("Attend beyond capacity should fail")
	}
}

func TestReactionQueue_AttendNeedsHistory(t *testing.T) {
	var q ReactionQueue
	q.Push(ReactionEntry{Enemy: handleN(1)})
	q.Push(ReactionEntry{Enemy: handleN(2)})
	if _, ok := q.Attend(2); ok {
		t.Fatal("two pushes cannot look back two steps")
	}
	if e, ok := q.Attend(1); !ok || e.Enemy != handleN(1) {
		t.Fatalf("Attend(1) = %v, %v", e.Enemy, ok)
	}
	q.Reset()
	if _, ok := q.Latest(); ok {
		t.Fatal("reset queue still has entries")
	}
}

func TestReactionSteps(t *testing.T) {
	cases := []struct {
		rt, interval float64
		want         int
	}{
		{0, 0.1, 0},
		{0.1, 0.1, 0},
		{0.3, 0.1, 2},
		{0.45, 0.1, 4},
		{5, 0.1, 19},
		{0.3, 0, 0},
	}
	for _, c := range cases {
		if got := ReactionSteps(c.rt, c.interval); got != c.want {
			t.Errorf("ReactionSteps(%v, %v) = %d, want %d", c.rt, c.interval, got, c.want)
		}
	}
}

// A threat becomes recognized exactly attendSteps updates after it was
// first seen.
func TestAgent_RecognitionIsDelayed(t *testing.T) {
	w := newFakeWorld()
	me := w.spawn("alpha", world.TeamAttackers, geom.V(200, 200, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(400, 200, 0))
	w.edit(enemy, func(c *world.Combatant) { c.Velocity = geom.V(250, 0, 0) })

	m := newTestManager(t, w, openMesh())
	p := teamPlayer()
	p.ReactionTime = 0.3
	a := addAgent(t, m, me, world.TeamAttackers, p)
	if a.attendSteps != 2 {
		t.Fatalf("attendSteps = %d, want 2", a.attendSteps)
	}

	for i := 0; i < 2; i++ {
		a.Update()
		if _, ok := a.GetRecognizedEnemy(); ok {
			t.Fatalf("enemy recognized after %d updates", i+1)
		}
		if a.IsAttacking() {
			t.Fatal("attacked before recognizing")
		}
		w.advance(0.1)
	}
	a.Update()
	got, ok := a.GetRecognizedEnemy()
	if !ok || got.Handle != enemy {
		t.Fatalf("expected tango recognized, got %v %v", got.Handle, ok)
	}
	if !a.IsAttacking() {
		t.Fatal("expected an attack once the enemy is recognized")
	}
}

func TestAgent_DeadRecognizedEnemyResolvesToNone(t *testing.T) {
	w := newFakeWorld()
	me := w.spawn("alpha", world.TeamAttackers, geom.V(200, 200, 0))
	enemy := w.spawn("tango", world.TeamDefenders, geom.V(400, 200, 0))
	w.edit(enemy, func(c *world.Combatant) { c.Velocity = geom.V(250, 0, 0) })

	m := newTestManager(t, w, openMesh())
	p := teamPlayer()
	p.ReactionTime = 0
	a := addAgent(t, m, me, world.TeamAttackers, p)
	a.Update()
	if _, ok := a.GetRecognizedEnemy(); !ok {
		t.Fatal("instant reaction should recognize at once")
	}

	w.edit(enemy, func(c *world.Combatant) { c.Alive = false })
	m.snapshot = nil
	if _, ok := a.GetRecognizedEnemy(); ok {
		t.Fatal("a dead enemy must not be recognized")
	}
}
