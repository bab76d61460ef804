// Package telemetry exposes the bot counters through the global
// OpenTelemetry meter. Without an installed provider every instrument is a
// no-op.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/tacbot/internal/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the decision-core counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ticks        metric.Int64Counter
	updates      metric.Int64Counter
	states       metric.Int64Counter
	spotted      metric.Int64Counter
	pathSearches metric.Int64Counter
	pathFailures metric.Int64Counter
	stuck        metric.Int64Counter
	statements   metric.Int64Counter
	dropped      metric.Int64Counter
	memes        metric.Int64Counter
	busLost      metric.Int64Counter
}

// New creates the counters on the global meter.
func New() (*Metrics, error) {
	m := meter()
	var (
		mt  Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&mt.ticks, "tacbot.ticks", "Scheduler ticks run"},
		{&mt.updates, "tacbot.agent.updates", "Heavy agent updates run"},
		{&mt.states, "tacbot.agent.state_changes", "Behavior state transitions"},
		{&mt.spotted, "tacbot.perception.spotted", "Enemies newly recognized"},
		{&mt.pathSearches, "tacbot.path.searches", "Path searches run"},
		{&mt.pathFailures, "tacbot.path.failures", "Path searches that found no route"},
		{&mt.stuck, "tacbot.path.stuck", "Goals abandoned after a stuck wiggle"},
		{&mt.statements, "tacbot.chatter.statements", "Statements spoken"},
		{&mt.dropped, "tacbot.chatter.dropped", "Statements dropped before being spoken"},
		{&mt.memes, "tacbot.chatter.memes", "Memes interpreted by teammates"},
		{&mt.busLost, "tacbot.bus.lost", "Events overwritten before they were drained"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}
	return &mt, nil
}

func add(c metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(context.Background(), n, metric.WithAttributes(attrs...))
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	add(m.ticks, 1)
}

func (m *Metrics) AgentUpdates(n int) {
	if m == nil || n == 0 {
		return
	}
	add(m.updates, int64(n))
}

// StateChange counts a transition into state.
func (m *Metrics) StateChange(state string) {
	if m == nil {
		return
	}
	add(m.states, 1, attribute.String("state", state))
}

func (m *Metrics) EnemySpotted(team string) {
	if m == nil {
		return
	}
	add(m.spotted, 1, attribute.String("team", team))
}

func (m *Metrics) PathSearch() {
	if m == nil {
		return
	}
	add(m.pathSearches, 1)
}

func (m *Metrics) PathFailed() {
	if m == nil {
		return
	}
	add(m.pathFailures, 1)
}

func (m *Metrics) StuckGiveUp() {
	if m == nil {
		return
	}
	add(m.stuck, 1)
}

// Statement counts a spoken statement by its leading phrase.
func (m *Metrics) Statement(phrase string) {
	if m == nil {
		return
	}
	add(m.statements, 1, attribute.String("phrase", phrase))
}

// StatementDropped counts a statement retired unspoken, by reason.
func (m *Metrics) StatementDropped(reason string) {
	if m == nil {
		return
	}
	add(m.dropped, 1, attribute.String("reason", reason))
}

func (m *Metrics) MemeInterpreted(meme string) {
	if m == nil {
		return
	}
	add(m.memes, 1, attribute.String("meme", meme))
}

func (m *Metrics) BusLost(n int) {
	if m == nil || n <= 0 {
		return
	}
	add(m.busLost, int64(n))
}
