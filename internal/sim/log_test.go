package sim

import (
	"strings"
	"testing"
)

func sampleLog() *SimLog {
	sl := NewSimLog(false)
	sl.Add(1, "alpha", "attackers", "state", "idle", "hunt", 0)
	sl.Add(3, "bravo", "defenders", "state", "idle", "hide", 0)
	sl.Add(5, "alpha", "attackers", "chatter", "say", "enemy_spotted", 0)
	sl.Add(9, "alpha", "attackers", "state", "hunt", "attack", 0)
	sl.Record(12, "bravo", "defenders", "path", "computed", "fastest", 14)
	return sl
}

func TestSimLog_Filters(t *testing.T) {
	sl := sampleLog()

	if got := len(sl.Filter("state", "")); got != 3 {
		t.Fatalf("Filter(state) = %d entries, want 3", got)
	}
	if got := sl.CountCategory("state", "idle"); got != 2 {
		t.Fatalf("CountCategory(state, idle) = %d, want 2", got)
	}
	if got := len(sl.FilterAgent("bravo")); got != 2 {
		t.Fatalf("FilterAgent(bravo) = %d entries, want 2", got)
	}
	if got := len(sl.FilterTickRange(3, 9)); got != 3 {
		t.Fatalf("FilterTickRange(3, 9) = %d entries, want 3", got)
	}

	last, ok := sl.LastOf("state", "")
	if !ok || last.Tick != 9 {
		t.Fatalf("LastOf(state) = %+v, %v", last, ok)
	}
	if _, ok := sl.LastOf("bomb", "plant"); ok {
		t.Fatal("LastOf(bomb, plant) should find nothing")
	}

	if !sl.HasEntry("chatter", "say", "spotted") {
		t.Error("HasEntry should match a value substring")
	}
	if sl.HasEntry("chatter", "say", "retreat") {
		t.Error("HasEntry matched a missing value")
	}
}

func TestSimLog_Tally(t *testing.T) {
	sl := sampleLog()
	got := sl.Tally("state", "idle")
	if got["hunt"] != 1 || got["hide"] != 1 || len(got) != 2 {
		t.Fatalf("Tally = %v", got)
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "alpha", "attackers", "move", "position", "(1,1)", 0)
	if len(quiet.Entries()) != 0 {
		t.Fatal("quiet log kept a verbose entry")
	}

	loud := NewSimLog(true)
	loud.AddVerbose(1, "alpha", "attackers", "move", "position", "(1,1)", 0)
	if len(loud.Entries()) != 1 {
		t.Fatal("verbose log dropped an entry")
	}
}

func TestSimLog_Format(t *testing.T) {
	sl := sampleLog()

	line := sl.Entries()[0].String()
	if !strings.HasPrefix(line, "[T=0001] alpha") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.HasSuffix(line, "hunt") {
		t.Fatalf("line should end with the value: %q", line)
	}

	all := sl.Format()
	if strings.Count(all, "\n") != 5 {
		t.Fatalf("Format should print one line per entry:\n%s", all)
	}
	part := sl.FormatRange(10, 20)
	if strings.Count(part, "\n") != 1 || !strings.Contains(part, "fastest") {
		t.Fatalf("FormatRange(10, 20) =\n%s", part)
	}
}
