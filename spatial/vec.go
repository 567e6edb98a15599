package spatial

import "math"

// Vec2 is a point or extent in world space.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// DistanceSq returns the squared distance between v and o.
func (v Vec2) DistanceSq(o Vec2) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

// Distance returns the distance between v and o.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Sqrt(v.DistanceSq(o))
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	Min, Max Vec2
}

// Size returns the extent of b.
func (b Bounds) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
