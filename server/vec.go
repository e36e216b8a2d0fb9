package main

import "math"

// normEpsilon is the length below which a vector is treated as zero
const normEpsilon = 1e-9

// Vec2 is a point or direction on the ground plane
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// V2 is shorthand for Vec2{x, y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (a Vec2) Scale(f float64) Vec2 {
	return Vec2{a.X * f, a.Y * f}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func (a Vec2) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

func (a Vec2) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// Dist returns the distance between two points
func (a Vec2) Dist(b Vec2) float64 {
	return b.Sub(a).Len()
}

// TryNormalize returns the unit vector of a, or false when a is too short
// to have a direction.
func (a Vec2) TryNormalize() (Vec2, bool) {
	l := a.Len()
	if l < normEpsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec2{}, false
	}
	return Vec2{a.X / l, a.Y / l}, true
}

// NormalizeOrZero returns the unit vector of a, or the zero vector
func (a Vec2) NormalizeOrZero() Vec2 {
	n, _ := a.TryNormalize()
	return n
}

// Angle returns the heading of a in radians, measured from +X
func (a Vec2) Angle() float64 {
	return math.Atan2(a.Y, a.X)
}

// IsZero reports whether both components are exactly zero
func (a Vec2) IsZero() bool {
	return a.X == 0 && a.Y == 0
}

// ApproxEqual compares two vectors component-wise within eps
func (a Vec2) ApproxEqual(b Vec2, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// Vec3 is used only by the camera projection; the simulation itself is planar.
// Y is up, the ground plane is Y=0 and ground X/Z map to Vec2 X/Y.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(f float64) Vec3 {
	return Vec3{a.X * f, a.Y * f, a.Z * f}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

func (a Vec3) TryNormalize() (Vec3, bool) {
	l := a.Len()
	if l < normEpsilon {
		return Vec3{}, false
	}
	return a.Scale(1 / l), true
}
