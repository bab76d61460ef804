package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// squad returns two attackers sharing a radio.
func squad(t *testing.T) (*fakeWorld, *Manager, *Agent, *Agent) {
	t.Helper()
	w := newFakeWorld()
	ha := w.spawn("alpha", world.TeamAttackers, geom.V(100, 100, 0))
	hb := w.spawn("bravo", world.TeamAttackers, geom.V(400, 100, 0))
	m := newTestManager(t, w, openMesh())
	a := addAgent(t, m, ha, world.TeamAttackers, teamPlayer())
	b := addAgent(t, m, hb, world.TeamAttackers, teamPlayer())
	return w, m, a, b
}

func TestChatter_StatementsOrderedByStart(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.Say(PhraseOnMyWay, 10, 2)
	c.Say(PhraseCoveringFriend, 10, 0)
	c.Say(PhraseAffirmative, 10, 1)

	got := c.Statements()
	require.Len(t, got, 3)
	want := []Phrase{PhraseCoveringFriend, PhraseAffirmative, PhraseOnMyWay}
	for i, s := range got {
		assert.Equal(t, want[i], s.Slots()[0].Phrase)
	}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].StartTime(), got[i].StartTime())
	}
}

func TestChatter_DropsRedundantStatement(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.Clear("Market")
	c.Clear("Market")
	c.Clear("Bridge")
	assert.Len(t, c.Statements(), 2)
}

func TestChatter_DropsRepeatedCriticalEvent(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.PlantingTheBomb("Market")
	c.PlantingTheBomb("Market")
	require.Len(t, c.Statements(), 1)
	assert.Equal(t, ReportCriticalEvent, c.Statements()[0].Type())

	c.PlantingTheBomb("Bridge")
	assert.Len(t, c.Statements(), 2)
}

func TestChatter_DropsRepeatedAcknowledgement(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.Affirmative()
	c.Affirmative()
	c.Negative()
	assert.Len(t, c.Statements(), 2)
}

func TestChatter_MustAddSkipsRedundancy(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	first := newStatement(c, ReportCriticalEvent, 10)
	first.AppendPhrase(PhrasePlantingBomb)
	first.SetPlace("Market")
	second := newStatement(c, ReportCriticalEvent, 10)
	second.AppendPhrase(PhrasePlantingBomb)
	second.SetPlace("Market")

	require.True(t, c.AddStatement(first, false))
	assert.False(t, c.AddStatement(second, false))
	assert.True(t, c.AddStatement(second, true))
	assert.Len(t, c.Statements(), 2)
}

func TestChatter_MinimalKeepsOnlyImportant(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.SetVerbosity(ChatterMinimal)
	c.Clear("Market")
	assert.Empty(t, c.Statements())
	c.PinnedDown()
	assert.Len(t, c.Statements(), 1)
}

func TestChatter_OffSaysNothing(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.SetVerbosity(ChatterOff)
	c.Say(PhraseOnMyWay, 10, 0)
	c.Affirmative()
	assert.Empty(t, c.Statements())
}

func TestChatter_ReportRequestReachesTeammate(t *testing.T) {
	w, _, a, b := squad(t)
	a.Chatter().ReportIn()

	for i := 0; i < 4; i++ {
		a.Chatter().Update()
		w.advance(1)
	}

	assert.Contains(t, w.phrases(), string(PhraseRequestReport))
	assert.Empty(t, a.Chatter().Statements())
	got := b.Chatter().Statements()
	require.Len(t, got, 1, "bravo should queue an answer")
	assert.Equal(t, ReportInformation, got[0].Type())
}

func TestChatter_OneSpeakerAtATime(t *testing.T) {
	w, _, a, b := squad(t)
	a.Chatter().Say(PhraseOnMyWay, 10, 0)
	b.Chatter().Say(PhraseCoveringFriend, 10, 0.5)

	a.Chatter().Update()
	b.Chatter().Update()
	w.advance(0.6)
	a.Chatter().Update()
	b.Chatter().Update()

	require.Len(t, w.said, 1)
	assert.Equal(t, string(PhraseOnMyWay), w.said[0].Phrase)
	assert.True(t, a.Chatter().IsTalking())
	assert.False(t, b.Chatter().IsTalking())
}

func TestChatter_DeathDropsPending(t *testing.T) {
	_, _, a, _ := squad(t)
	c := a.Chatter()
	c.Clear("Market")
	c.OnDeath()
	assert.Empty(t, c.Statements())
}

func TestStatement_Redundancy(t *testing.T) {
	_, _, a, b := squad(t)
	ca, cb := a.Chatter(), b.Chatter()

	x := newStatement(ca, ReportInformation, 10)
	x.AppendPlace("Market")
	y := newStatement(cb, ReportInformation, 10)
	y.AppendPlace("Market")
	assert.True(t, x.IsRedundant(y))

	plan := newStatement(ca, ReportMyPlan, 10)
	plan.AppendPhrase(PhraseDefendBombsite)
	plan.AppendPlace("Market")
	other := newStatement(cb, ReportMyPlan, 10)
	other.AppendPhrase(PhraseDefendBombsite)
	other.AppendPlace("Market")
	assert.True(t, plan.IsRedundant(other), "same plan for the same place")
	other.slots[0].Phrase = PhraseOnMyWay
	assert.False(t, plan.IsRedundant(other), "different plans for one place")

	subj := newStatement(ca, ReportEnemyAction, 10)
	subj.SetSubject(handleN(9))
	assert.False(t, subj.IsRedundant(x), "different kinds")
}

func TestStatement_ConvertMatchingPlan(t *testing.T) {
	_, _, a, b := squad(t)
	mine := newStatement(a.Chatter(), ReportMyPlan, 10)
	mine.AppendPhrase(PhraseDefendBombsite)
	mine.SetPlace("A")
	theirs := newStatement(b.Chatter(), ReportMyPlan, 10)
	theirs.AppendPhrase(PhraseDefendBombsite)
	theirs.SetPlace("A")

	mine.Convert(theirs)
	assert.Equal(t, PhraseMeToo, mine.Slots()[0].Phrase)
	assert.Greater(t, mine.StartTime(), theirs.StartTime())
}
