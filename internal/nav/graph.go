// Package nav is the read-only navigation graph the bots search, plus the
// team danger map layered over it.
package nav

//go:generate go tool mockgen -destination=./mocks/graph_mock.go -package=mocks . Graph

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// CostFunc returns the cost of entering to from from, or a negative value
// when the edge is impassable. from is nil for the start area. length is the
// edge length: the ladder length for ladder hops, otherwise the distance
// between area centers.
type CostFunc func(to, from *Area, ladder *Ladder, length float64) float64

// Graph is the navigation service consumed by the bots.
type Graph interface {
	NearestArea(p geom.Vec3) *Area
	AreaContains(a *Area, p geom.Vec3) bool
	Area(id AreaID) *Area
	Areas() []*Area
	Connections(id AreaID) []Connection
	// ShortestPath searches from start to goal. The first segment is the
	// start area itself. ok is false when goal is unreachable.
	ShortestPath(start, goal *Area, cost CostFunc) (route []Segment, ok bool)
	// TravelDistance is the walked length of the cheapest route, or -1.
	TravelDistance(start, goal *Area, cost CostFunc) float64
	HidingSpots() []*HidingSpot
	ApproachPoints(id AreaID) []ApproachPoint
	// EarliestOccupyTime estimates how soon after round start team can
	// reach the area.
	EarliestOccupyTime(id AreaID, team world.Team) float64
}

// DistanceCost is the plain travel-distance CostFunc.
func DistanceCost(to, from *Area, ladder *Ladder, length float64) float64 {
	if from == nil {
		return 0
	}
	return length
}
