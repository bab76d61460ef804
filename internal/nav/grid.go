package nav

import "github.com/Garsondee/tacbot/internal/geom"

// GridSpec describes a flat map carved into square cells.
type GridSpec struct {
	Width, Height float64
	Cell          float64
	Obstacles     []geom.Box
	Pad           float64 // clearance kept around obstacles
	// Place names a cell by its center. Nil leaves places empty.
	Place func(center geom.Vec3) string
	// Attrs decorates a cell by its center. Nil leaves attributes empty.
	Attrs func(center geom.Vec3) Attr
}

var gridDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// NewGridMesh builds a mesh with one area per walkable cell. A cell that
// overlaps an obstacle (padded by Pad) is left out. Cells touching an
// obstacle become hiding spots; those along the map border also suit
// snipers.
func NewGridMesh(spec GridSpec) *Mesh {
	cols := int(spec.Width / spec.Cell)
	rows := int(spec.Height / spec.Cell)
	blocked := make([]bool, cols*rows)

	for _, b := range spec.Obstacles {
		p := b.Expand(spec.Pad)
		cMinX := max(0, int(p.Min.X/spec.Cell))
		cMinY := max(0, int(p.Min.Y/spec.Cell))
		cMaxX := min(cols-1, int((p.Max.X-1)/spec.Cell))
		cMaxY := min(rows-1, int((p.Max.Y-1)/spec.Cell))
		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				blocked[cy*cols+cx] = true
			}
		}
	}

	isBlocked := func(cx, cy int) bool {
		if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
			return true
		}
		return blocked[cy*cols+cx]
	}
	idOf := func(cx, cy int) AreaID { return AreaID(cy*cols + cx + 1) }

	m := NewMesh()
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if isBlocked(cx, cy) {
				continue
			}
			a := &Area{
				ID: idOf(cx, cy),
				Extent: geom.Box{
					Min: geom.V(float64(cx)*spec.Cell, float64(cy)*spec.Cell, 0),
					Max: geom.V(float64(cx+1)*spec.Cell, float64(cy+1)*spec.Cell, 0),
				},
			}
			c := a.Center()
			if spec.Place != nil {
				a.Place = spec.Place(c)
			}
			if spec.Attrs != nil {
				a.Attrs = spec.Attrs(c)
			}
			m.AddArea(a)
		}
	}

	var spotID uint32
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if isBlocked(cx, cy) {
				continue
			}
			id := idOf(cx, cy)
			cover := 0
			for _, d := range gridDirs {
				nx, ny := cx+d[0], cy+d[1]
				if isBlocked(nx, ny) {
					if d[0] == 0 || d[1] == 0 {
						inside := nx >= 0 && ny >= 0 && nx < cols && ny < rows
						if inside {
							cover++
						}
					}
					continue
				}
				// No diagonal corner-cutting through blocked cells.
				if d[0] != 0 && d[1] != 0 {
					if isBlocked(cx+d[0], cy) || isBlocked(cx, cy+d[1]) {
						continue
					}
				}
				m.Connect(id, idOf(nx, ny), HowWalk)
			}
			if cover == 0 {
				continue
			}
			spotID++
			flags := SpotInCover
			border := cx == 0 || cy == 0 || cx == cols-1 || cy == rows-1
			if border {
				flags |= SpotGoodSniper
				if cover >= 2 {
					flags |= SpotIdealSniper
				}
			}
			m.AddHidingSpot(&HidingSpot{ID: spotID, Pos: m.areas[id].Center(), Area: id, Flags: flags})
		}
	}
	return m
}
