package nav

import (
	"math"
	"testing"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

func openGrid() *Mesh {
	return NewGridMesh(GridSpec{Width: 640, Height: 480, Cell: 64})
}

func TestGridMesh_ObstacleRemovesCells(t *testing.T) {
	// Obstacle covers cells (2,2)-(3,3).
	m := NewGridMesh(GridSpec{
		Width: 640, Height: 480, Cell: 64,
		Obstacles: []geom.Box{{Min: geom.V(128, 128, 0), Max: geom.V(256, 256, 100)}},
	})
	cols := 10
	if m.Area(AreaID(2*cols+2+1)) != nil {
		t.Fatal("cell inside obstacle should not be an area")
	}
	if m.Area(AreaID(0+1)) == nil {
		t.Fatal("corner cell should be an area")
	}
	if len(m.HidingSpots()) == 0 {
		t.Fatal("cells around the obstacle should yield hiding spots")
	}
}

func TestNearestArea(t *testing.T) {
	m := openGrid()
	a := m.NearestArea(geom.V(100, 70, 0))
	if a == nil || !m.AreaContains(a, geom.V(100, 70, 0)) {
		t.Fatalf("expected containing area, got %+v", a)
	}
	outside := m.NearestArea(geom.V(-50, -50, 0))
	if outside == nil || outside.ID != 1 {
		t.Fatalf("expected corner area for point off the map, got %+v", outside)
	}
}

func TestShortestPath_Straight(t *testing.T) {
	m := openGrid()
	start := m.NearestArea(geom.V(32, 32, 0))
	goal := m.NearestArea(geom.V(608, 32, 0))
	route, ok := m.ShortestPath(start, goal, DistanceCost)
	if !ok {
		t.Fatal("expected a route")
	}
	if route[0].Area != start || route[len(route)-1].Area != goal {
		t.Fatal("route must begin at start and end at goal")
	}
	if len(route) != 10 {
		t.Fatalf("expected 10 hops along the row, got %d", len(route))
	}
}

func TestShortestPath_RejectedEdgesAreAvoided(t *testing.T) {
	m := openGrid()
	start := m.NearestArea(geom.V(32, 32, 0))
	goal := m.NearestArea(geom.V(608, 32, 0))
	wall := func(to, from *Area, ladder *Ladder, length float64) float64 {
		if from == nil {
			return 0
		}
		c := to.Center()
		if c.X > 280 && c.X < 300 && c.Y < 400 {
			return -1
		}
		return length
	}
	route, ok := m.ShortestPath(start, goal, wall)
	if !ok {
		t.Fatal("expected a detour")
	}
	for _, s := range route {
		c := s.Area.Center()
		if c.X > 280 && c.X < 300 && c.Y < 400 {
			t.Fatalf("route entered rejected area %d", s.Area.ID)
		}
	}
}

func TestShortestPath_DisconnectedGoal(t *testing.T) {
	m := NewMesh()
	a := &Area{ID: 1, Extent: geom.Box{Max: geom.V(50, 50, 0)}}
	b := &Area{ID: 2, Extent: geom.Box{Min: geom.V(500, 500, 0), Max: geom.V(550, 550, 0)}}
	m.AddArea(a)
	m.AddArea(b)
	if _, ok := m.ShortestPath(a, b, DistanceCost); ok {
		t.Fatal("disconnected goal must report no path")
	}
	if d := m.TravelDistance(a, b, DistanceCost); d != -1 {
		t.Fatalf("TravelDistance = %v, want -1", d)
	}
}

func TestShortestPath_BlockedGoal(t *testing.T) {
	m := openGrid()
	start := m.NearestArea(geom.V(32, 32, 0))
	goal := m.NearestArea(geom.V(608, 32, 0))
	m.SetBlocked(goal.ID, true)
	if _, ok := m.ShortestPath(start, goal, DistanceCost); ok {
		t.Fatal("blocked goal must report no path")
	}
	m.SetBlocked(goal.ID, false)
	if _, ok := m.ShortestPath(start, goal, DistanceCost); !ok {
		t.Fatal("unblocked goal should be reachable")
	}
}

func TestLadderConnection(t *testing.T) {
	m := NewMesh()
	low := &Area{ID: 1, Extent: geom.Box{Max: geom.V(100, 100, 0)}}
	high := &Area{ID: 2, Extent: geom.Box{Min: geom.V(0, 0, 200), Max: geom.V(100, 100, 200)}}
	m.AddArea(low)
	m.AddArea(high)
	l := &Ladder{ID: 1, Bottom: geom.V(50, 50, 0), Top: geom.V(50, 50, 200), BottomArea: 1, TopArea: 2}
	m.AddLadder(l)

	route, ok := m.ShortestPath(low, high, DistanceCost)
	if !ok || len(route) != 2 {
		t.Fatalf("expected two-hop ladder route, got %v %v", route, ok)
	}
	if route[1].How != HowLadderUp || route[1].Ladder != l {
		t.Fatalf("expected ladder up, got %v", route[1].How)
	}
	if math.Abs(route[1].Length-200) > 1e-9 {
		t.Fatalf("ladder hop length = %v", route[1].Length)
	}
}

func TestEarliestOccupyTime(t *testing.T) {
	m := openGrid()
	m.SetSpawn(world.TeamAttackers, geom.V(32, 32, 0))
	near := m.NearestArea(geom.V(96, 32, 0))
	far := m.NearestArea(geom.V(608, 416, 0))
	tn := m.EarliestOccupyTime(near.ID, world.TeamAttackers)
	tf := m.EarliestOccupyTime(far.ID, world.TeamAttackers)
	if !(tn < tf) {
		t.Fatalf("near area should be reached first: %v vs %v", tn, tf)
	}
	if !math.IsInf(m.EarliestOccupyTime(near.ID, world.TeamDefenders), 1) {
		t.Fatal("team without spawns never occupies")
	}
}

func TestApproachPointsBounded(t *testing.T) {
	m := NewGridMesh(GridSpec{Width: 2048, Height: 2048, Cell: 64})
	a := m.NearestArea(geom.V(1024, 1024, 0))
	pts := m.ApproachPoints(a.ID)
	if len(pts) == 0 || len(pts) > maxApproachPoints {
		t.Fatalf("approach point count %d out of range", len(pts))
	}
	for _, p := range pts {
		if p.Pos.Dist(a.Center()) > approachRange+1 {
			t.Fatalf("approach point %v beyond range", p.Pos)
		}
	}
}

func TestDangerMap_IncreaseDecayReset(t *testing.T) {
	d := NewDangerMap(1)
	d.Increase(7, world.TeamDefenders, 3)
	if got := d.Danger(7, world.TeamDefenders); got != 3 {
		t.Fatalf("danger = %v", got)
	}
	if d.Danger(7, world.TeamAttackers) != 0 {
		t.Fatal("danger is team scoped")
	}
	d.Decay(1.5)
	if got := d.Danger(7, world.TeamDefenders); got != 1.5 {
		t.Fatalf("after decay = %v", got)
	}
	d.Decay(5)
	if d.Danger(7, world.TeamDefenders) != 0 {
		t.Fatal("danger should drain to zero")
	}
	d.Increase(7, world.TeamDefenders, 1e9)
	if d.Danger(7, world.TeamDefenders) != DangerMax {
		t.Fatal("danger should clamp")
	}
	d.Reset()
	if d.Danger(7, world.TeamDefenders) != 0 {
		t.Fatal("reset should clear")
	}
}
