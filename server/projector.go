package main

import "math"

// Projector turns a point on a player's screen into a point on the ground
type Projector interface {
	Project(screen Vec2) (Vec2, bool)
}

// CameraRig is a perspective camera as a client reports it. Screen
// coordinates are pixels with the origin at the top-left corner.
type CameraRig struct {
	Eye    Vec3
	Target Vec3
	Up     Vec3
	FovY   float64 // vertical field of view, radians
	Width  float64
	Height float64
}

// Valid reports whether the rig describes a usable camera
func (c CameraRig) Valid() bool {
	if c.Width <= 0 || c.Height <= 0 || c.FovY <= 0 || c.FovY >= math.Pi {
		return false
	}
	fwd, ok := c.Target.Sub(c.Eye).TryNormalize()
	if !ok {
		return false
	}
	_, ok = fwd.Cross(c.Up).TryNormalize()
	return ok
}

// Project casts a ray from the eye through the pixel and intersects it with
// the ground plane Y=0. It fails when the ray runs parallel to the ground or
// away from it.
func (c CameraRig) Project(screen Vec2) (Vec2, bool) {
	fwd, ok := c.Target.Sub(c.Eye).TryNormalize()
	if !ok {
		return Vec2{}, false
	}
	right, ok := fwd.Cross(c.Up).TryNormalize()
	if !ok {
		return Vec2{}, false
	}
	up := right.Cross(fwd)

	ndcX := 2*screen.X/c.Width - 1
	ndcY := 1 - 2*screen.Y/c.Height
	tanHalf := math.Tan(c.FovY / 2)
	aspect := c.Width / c.Height

	dir := fwd.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf))

	if math.Abs(dir.Y) < normEpsilon {
		return Vec2{}, false
	}
	t := -c.Eye.Y / dir.Y
	if t <= 0 {
		return Vec2{}, false
	}
	hit := c.Eye.Add(dir.Scale(t))
	return V2(hit.X, hit.Z), true
}
