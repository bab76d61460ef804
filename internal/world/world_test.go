package world

import (
	"strings"
	"testing"
)

func TestArenaHandlesGoStale(t *testing.T) {
	var a Arena[string]
	h1 := a.Insert("alpha")
	h2 := a.Insert("bravo")

	if v, ok := a.Get(h1); !ok || v != "alpha" {
		t.Fatalf("Get(h1) = %q, %v", v, ok)
	}
	if !a.Remove(h1) {
		t.Fatal("Remove(h1) failed")
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("removed handle still resolves")
	}

	h3 := a.Insert("charlie")
	if h3.Index != h1.Index {
		t.Fatalf("expected slot reuse, got index %d", h3.Index)
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle resolves to reused slot")
	}
	if v, _ := a.Get(h3); v != "charlie" {
		t.Fatalf("Get(h3) = %q", v)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}

	seen := 0
	a.Each(func(h Handle, v string) {
		seen++
		if h != h2 && h != h3 {
			t.Fatalf("unexpected handle %v", h)
		}
	})
	if seen != 2 {
		t.Fatalf("Each visited %d", seen)
	}
}

func TestNoHandleNeverResolves(t *testing.T) {
	var a Arena[int]
	a.Insert(1)
	if _, ok := a.Get(NoHandle); ok {
		t.Fatal("NoHandle resolved")
	}
}

func TestBusOverwritesOldest(t *testing.T) {
	b := NewBus()
	for i := 0; i < busCapacity+3; i++ {
		b.Publish(Event{Kind: EventFootstep, Time: float64(i)})
	}
	if b.Len() != busCapacity {
		t.Fatalf("Len = %d", b.Len())
	}
	if b.Lost() != 3 {
		t.Fatalf("Lost = %d", b.Lost())
	}
	first := -1.0
	n := 0
	b.Drain(func(e Event) {
		if n == 0 {
			first = e.Time
		}
		n++
	})
	if first != 3 {
		t.Fatalf("oldest surviving event at %v, want 3", first)
	}
	if b.Len() != 0 || n != busCapacity {
		t.Fatalf("drain left %d, visited %d", b.Len(), n)
	}
}

func TestTeamOpponent(t *testing.T) {
	if TeamAttackers.Opponent() != TeamDefenders || TeamDefenders.Opponent() != TeamAttackers {
		t.Fatal("opponents mismatched")
	}
	if TeamNone.Opponent() != TeamNone {
		t.Fatal("TeamNone has no opponent")
	}
}

func TestParseScenario(t *testing.T) {
	for _, k := range []ScenarioKind{ScenarioElimination, ScenarioBomb, ScenarioHostages, ScenarioEscort} {
		got, ok := ParseScenario(" " + strings.ToUpper(k.String()))
		if !ok || got != k {
			t.Errorf("ParseScenario(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseScenario("ctf"); ok {
		t.Error("ParseScenario(ctf) should fail")
	}
}
