package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func TestThoughtLog_KeepsNewest(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < 65; i++ {
		tl.Add(i, "alpha", world.TeamAttackers, fmt.Sprintf("thought %d", i))
	}
	if tl.Len() != 60 {
		t.Fatalf("Len = %d, want 60", tl.Len())
	}
	got := tl.Recent()
	if got[0].Tick != 5 || got[len(got)-1].Tick != 64 {
		t.Fatalf("window = %d..%d, want 5..64", got[0].Tick, got[len(got)-1].Tick)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Tick <= got[i-1].Tick {
			t.Fatalf("entries out of order at %d", i)
		}
	}
}

func TestThoughtEntry_String(t *testing.T) {
	e := ThoughtEntry{Tick: 7, Agent: "alpha", Message: "spotted tango"}
	s := e.String()
	if !strings.HasPrefix(s, "[T=0007]") || !strings.HasSuffix(s, "spotted tango") {
		t.Fatalf("unexpected format %q", s)
	}
}

func TestAgentThoughtsReachManagerLog(t *testing.T) {
	w := newFakeWorld()
	h := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, h, world.TeamAttackers, teamPlayer())

	a.think("checking %s", "corner")
	recent := m.Thoughts().Recent()
	if len(recent) == 0 || recent[len(recent)-1].Message != "checking corner" {
		t.Fatalf("thought not logged: %v", recent)
	}
}
