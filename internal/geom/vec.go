package geom

import "math"

// Vec3 is a world-space position or direction in game units.
type Vec3 struct {
	X, Y, Z float64
}

// V returns a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3        { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3        { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3   { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64     { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) LenSqr() float64        { return v.Dot(v) }
func (v Vec3) Len() float64           { return math.Sqrt(v.LenSqr()) }
func (v Vec3) Len2D() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec3) Dist(o Vec3) float64    { return v.Sub(o).Len() }
func (v Vec3) DistSqr(o Vec3) float64 { return v.Sub(o).LenSqr() }
func (v Vec3) Dist2D(o Vec3) float64  { return v.Sub(o).Len2D() }

// Normalize returns the unit vector, or the zero vector for a zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{v.X, v.Y, 0} }

// Lerp interpolates between v and o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Yaw returns the heading of v in degrees, 0 along +X, counter-clockwise.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// Pitch returns the elevation of v in degrees, positive looking down.
func (v Vec3) Pitch() float64 {
	return -math.Atan2(v.Z, v.Len2D()) * 180 / math.Pi
}

// Forward returns the unit direction for the given yaw and pitch in degrees.
func Forward(yaw, pitch float64) Vec3 {
	y := yaw * math.Pi / 180
	p := pitch * math.Pi / 180
	cp := math.Cos(p)
	return Vec3{math.Cos(y) * cp, math.Sin(y) * cp, -math.Sin(p)}
}

// NormalizeAngle wraps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// AngleDiff returns the signed shortest turn from b to a in degrees.
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(a - b)
}
