package telemetry

import "testing"

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Tick()
	m.AgentUpdates(3)
	m.StateChange("hunt")
	m.EnemySpotted("attackers")
	m.PathSearch()
	m.PathFailed()
	m.StuckGiveUp()
	m.Statement("EnemySpotted")
	m.StatementDropped("redundant")
	m.MemeInterpreted("help")
	m.BusLost(2)
}

func TestNewOnGlobalMeter(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m == nil {
		t.Fatal("expected metrics")
	}
	m.Tick()
	m.StateChange("idle")
	m.BusLost(0)
}
