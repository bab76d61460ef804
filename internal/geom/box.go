package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 { return b.Min.Lerp(b.Max, 0.5) }

// Contains reports whether p lies inside the box, faces included.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Contains2D ignores the vertical extent.
func (b Box) Contains2D(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Expand grows the box by pad on every horizontal side.
func (b Box) Expand(pad float64) Box {
	return Box{
		Min: Vec3{b.Min.X - pad, b.Min.Y - pad, b.Min.Z},
		Max: Vec3{b.Max.X + pad, b.Max.Y + pad, b.Max.Z},
	}
}

// SegmentHitT returns the first parameter t in [0,1] where the segment
// a->b enters the box. The bool is false when no hit exists.
func SegmentHitT(a, b Vec3, box Box) (float64, bool) {
	d := b.Sub(a)
	tMin, tMax := 0.0, 1.0

	o := [3]float64{a.X, a.Y, a.Z}
	dir := [3]float64{d.X, d.Y, d.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// SegmentHits reports whether the segment a->b touches the box.
func SegmentHits(a, b Vec3, box Box) bool {
	_, hit := SegmentHitT(a, b, box)
	return hit
}
