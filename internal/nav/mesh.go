package nav

import (
	"container/heap"
	"math"
	"sort"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// runSpeed converts travel distance into occupy time estimates.
const runSpeed = 225.0

// maxApproachPoints bounds the approach set of one area.
const maxApproachPoints = 16

// approachRange is how far out approach points are sampled.
const approachRange = 700.0

// Mesh is an in-memory Graph.
type Mesh struct {
	areas    map[AreaID]*Area
	order    []*Area
	conns    map[AreaID][]Connection
	spots    []*HidingSpot
	blocked  map[AreaID]bool
	spawns   map[world.Team][]geom.Vec3
	occupy   map[world.Team]map[AreaID]float64
	approach map[AreaID][]ApproachPoint
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{
		areas:    make(map[AreaID]*Area),
		conns:    make(map[AreaID][]Connection),
		blocked:  make(map[AreaID]bool),
		spawns:   make(map[world.Team][]geom.Vec3),
		occupy:   make(map[world.Team]map[AreaID]float64),
		approach: make(map[AreaID][]ApproachPoint),
	}
}

// AddArea registers a. Ids must be unique and non-zero.
func (m *Mesh) AddArea(a *Area) {
	m.areas[a.ID] = a
	m.order = append(m.order, a)
	m.invalidate()
}

// Connect adds a one-way walk edge.
func (m *Mesh) Connect(from, to AreaID, how How) {
	m.conns[from] = append(m.conns[from], Connection{To: to, How: how})
	m.invalidate()
}

// ConnectBoth adds walk edges in both directions.
func (m *Mesh) ConnectBoth(a, b AreaID) {
	m.Connect(a, b, HowWalk)
	m.Connect(b, a, HowWalk)
}

// AddLadder links the ladder's areas both ways.
func (m *Mesh) AddLadder(l *Ladder) {
	m.conns[l.BottomArea] = append(m.conns[l.BottomArea], Connection{To: l.TopArea, How: HowLadderUp, Ladder: l})
	m.conns[l.TopArea] = append(m.conns[l.TopArea], Connection{To: l.BottomArea, How: HowLadderDown, Ladder: l})
	m.invalidate()
}

// AddHidingSpot registers s.
func (m *Mesh) AddHidingSpot(s *HidingSpot) {
	m.spots = append(m.spots, s)
}

// SetSpawn records where team starts, for occupy time estimates.
func (m *Mesh) SetSpawn(team world.Team, positions ...geom.Vec3) {
	m.spawns[team] = positions
	delete(m.occupy, team)
}

// SetBlocked marks an area impassable, or clears the mark.
func (m *Mesh) SetBlocked(id AreaID, blocked bool) {
	if blocked {
		m.blocked[id] = true
	} else {
		delete(m.blocked, id)
	}
}

// IsBlocked reports whether an area is currently impassable.
func (m *Mesh) IsBlocked(id AreaID) bool { return m.blocked[id] }

func (m *Mesh) invalidate() {
	m.occupy = make(map[world.Team]map[AreaID]float64)
	m.approach = make(map[AreaID][]ApproachPoint)
}

func (m *Mesh) Area(id AreaID) *Area { return m.areas[id] }

func (m *Mesh) Areas() []*Area { return m.order }

func (m *Mesh) Connections(id AreaID) []Connection { return m.conns[id] }

func (m *Mesh) HidingSpots() []*HidingSpot { return m.spots }

func (m *Mesh) AreaContains(a *Area, p geom.Vec3) bool {
	return a != nil && a.Contains(p)
}

// NearestArea returns the area containing p, or failing that the area whose
// floor is closest to p.
func (m *Mesh) NearestArea(p geom.Vec3) *Area {
	var best *Area
	bestDist := math.MaxFloat64
	for _, a := range m.order {
		if a.Contains(p) {
			return a
		}
		d := a.ClosestPoint(p).DistSqr(p)
		if d < bestDist {
			best = a
			bestDist = d
		}
	}
	return best
}

// --- A* search ---

type searchNode struct {
	area   *Area
	via    Connection
	length float64
	g, h   float64
	parent *searchNode
	index  int // heap index
}

type openList []*searchNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)        { n := x.(*searchNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

func edgeLength(from, to *Area, c Connection) float64 {
	if c.Ladder != nil {
		return c.Ladder.Length()
	}
	return from.Center().Dist(to.Center())
}

// ShortestPath runs A* with cost, using straight-line distance as the
// heuristic.
func (m *Mesh) ShortestPath(start, goal *Area, cost CostFunc) ([]Segment, bool) {
	if start == nil || goal == nil || m.blocked[goal.ID] {
		return nil, false
	}
	first := cost(start, nil, nil, 0)
	if first < 0 {
		return nil, false
	}
	goalCenter := goal.Center()

	root := &searchNode{area: start, g: first, h: start.Center().Dist(goalCenter)}
	ol := &openList{root}
	heap.Init(ol)

	closed := make(map[AreaID]bool)
	best := map[AreaID]*searchNode{start.ID: root}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*searchNode)
		if cur.area.ID == goal.ID {
			return buildRoute(cur), true
		}
		if closed[cur.area.ID] {
			continue
		}
		closed[cur.area.ID] = true

		for _, c := range m.conns[cur.area.ID] {
			next := m.areas[c.To]
			if next == nil || closed[c.To] || m.blocked[c.To] {
				continue
			}
			length := edgeLength(cur.area, next, c)
			step := cost(next, cur.area, c.Ladder, length)
			if step < 0 {
				continue
			}
			g := cur.g + step
			if prev, ok := best[c.To]; ok && g >= prev.g {
				continue
			}
			node := &searchNode{
				area:   next,
				via:    c,
				length: length,
				g:      g,
				h:      next.Center().Dist(goalCenter),
				parent: cur,
			}
			best[c.To] = node
			heap.Push(ol, node)
		}
	}
	return nil, false
}

func buildRoute(end *searchNode) []Segment {
	var route []Segment
	for n := end; n != nil; n = n.parent {
		how := n.via.How
		if n.parent == nil {
			how = HowWalk
		}
		route = append(route, Segment{Area: n.area, How: how, Ladder: n.via.Ladder, Length: n.length})
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// TravelDistance sums the walked lengths of the cheapest route under cost.
func (m *Mesh) TravelDistance(start, goal *Area, cost CostFunc) float64 {
	if start != nil && goal != nil && start.ID == goal.ID {
		return 0
	}
	route, ok := m.ShortestPath(start, goal, cost)
	if !ok {
		return -1
	}
	total := 0.0
	for _, s := range route {
		total += s.Length
	}
	return total
}

// EarliestOccupyTime floods outward from the team spawns. Areas the team
// cannot reach report +Inf.
func (m *Mesh) EarliestOccupyTime(id AreaID, team world.Team) float64 {
	times, ok := m.occupy[team]
	if !ok {
		times = m.floodOccupy(team)
		m.occupy[team] = times
	}
	if t, ok := times[id]; ok {
		return t
	}
	return math.Inf(1)
}

func (m *Mesh) floodOccupy(team world.Team) map[AreaID]float64 {
	dist := make(map[AreaID]float64)
	ol := &openList{}
	for _, p := range m.spawns[team] {
		a := m.NearestArea(p)
		if a == nil {
			continue
		}
		if _, seen := dist[a.ID]; seen {
			continue
		}
		dist[a.ID] = 0
		heap.Push(ol, &searchNode{area: a})
	}
	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*searchNode)
		if cur.g > dist[cur.area.ID] {
			continue
		}
		for _, c := range m.conns[cur.area.ID] {
			next := m.areas[c.To]
			if next == nil {
				continue
			}
			g := cur.g + edgeLength(cur.area, next, c)
			if prev, ok := dist[c.To]; ok && g >= prev {
				continue
			}
			dist[c.To] = g
			heap.Push(ol, &searchNode{area: next, g: g})
		}
	}
	times := make(map[AreaID]float64, len(dist))
	for id, d := range dist {
		times[id] = d / runSpeed
	}
	return times
}

// ApproachPoints returns the areas on the rim of a breadth-first walk out to
// approachRange, nearest first, at most maxApproachPoints.
func (m *Mesh) ApproachPoints(id AreaID) []ApproachPoint {
	if pts, ok := m.approach[id]; ok {
		return pts
	}
	origin := m.areas[id]
	if origin == nil {
		return nil
	}
	center := origin.Center()

	seen := map[AreaID]bool{id: true}
	queue := []*Area{origin}
	var frontier []*Area
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		atEdge := false
		for _, c := range m.conns[cur.ID] {
			next := m.areas[c.To]
			if next == nil {
				continue
			}
			if next.Center().Dist(center) > approachRange {
				atEdge = true
				continue
			}
			if seen[c.To] {
				continue
			}
			seen[c.To] = true
			queue = append(queue, next)
		}
		if atEdge && cur != origin {
			frontier = append(frontier, cur)
		}
	}
	sort.Slice(frontier, func(i, j int) bool {
		di := frontier[i].Center().DistSqr(center)
		dj := frontier[j].Center().DistSqr(center)
		if di != dj {
			return di < dj
		}
		return frontier[i].ID < frontier[j].ID
	})
	if len(frontier) > maxApproachPoints {
		frontier = frontier[:maxApproachPoints]
	}
	pts := make([]ApproachPoint, len(frontier))
	for i, a := range frontier {
		pts[i] = ApproachPoint{Area: a.ID, Pos: a.Center()}
	}
	m.approach[id] = pts
	return pts
}
