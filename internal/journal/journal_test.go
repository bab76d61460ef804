package journal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open("sqlite", "", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mongo", "", zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestBeginAndFinishMatch(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()

	m, err := j.BeginMatch(ctx, 42, "bomb")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)

	require.NoError(t, j.FinishMatch(ctx, m.ID, 3600, "attackers"))
	got, err := j.Match(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, "bomb", got.Scenario)
	assert.Equal(t, 3600, got.Ticks)
	assert.Equal(t, "attackers", got.Winner)
	require.NotNil(t, got.EndedAt)
}

func TestFinishMatch_Unknown(t *testing.T) {
	j := openTest(t)
	err := j.FinishMatch(context.Background(), uuid.New(), 1, "none")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordEvents_RoundTripInTickOrder(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()
	m, err := j.BeginMatch(ctx, 1, "elimination")
	require.NoError(t, err)
	other, err := j.BeginMatch(ctx, 2, "elimination")
	require.NoError(t, err)

	require.NoError(t, j.RecordEvents(ctx, []EventRecord{
		{MatchID: m.ID, Tick: 9, Agent: "alpha", Category: "state", Key: "idle", Value: "hunt"},
		{MatchID: m.ID, Tick: 3, Agent: "bravo", Category: "chatter", Key: "say", Value: "on_my_way"},
		{MatchID: other.ID, Tick: 1, Agent: "x", Category: "state"},
	}))
	require.NoError(t, j.RecordEvents(ctx, nil))

	events, err := j.Events(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].Tick)
	assert.Equal(t, "hunt", events[1].Value)

	counts, err := j.CountByCategory(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"state": 1, "chatter": 1}, counts)

	all, err := j.Matches(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWriter_FlushesAtLimit(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()
	m, err := j.BeginMatch(ctx, 7, "hostages")
	require.NoError(t, err)

	w := j.Writer(m.ID, 3)
	w.Record(1, "alpha", "attackers", "state", "idle", "hunt", 0)
	w.Record(2, "alpha", "attackers", "path", "computed", "fastest", 12)
	assert.Equal(t, 2, w.Pending())
	w.Record(3, "alpha", "attackers", "chatter", "say", "affirmative", 0)
	assert.Zero(t, w.Pending())

	w.Record(4, "bravo", "defenders", "state", "idle", "hide", 0)
	require.NoError(t, w.Flush(ctx))

	events, err := j.Events(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, 12.0, events[1].NumVal)
	assert.Equal(t, "bravo", events[3].Agent)
}
