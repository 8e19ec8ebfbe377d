// Package geom holds the small amount of vector math shared by the terrain,
// navigation and combat code. The world is Y-up; agents move on the X/Z plane.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerate is the length below which a planar vector has no direction.
const degenerate = 1e-9

// Flat drops the vertical component.
func Flat(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// PlanarDist returns the X/Z distance between a and b, ignoring height.
func PlanarDist(a, b mgl64.Vec3) float64 {
	return math.Hypot(a[0]-b[0], a[2]-b[2])
}

// PlanarDir returns the unit X/Z direction from -> to. ok is false when the
// two points coincide on the plane.
func PlanarDir(from, to mgl64.Vec3) (dir mgl64.Vec3, ok bool) {
	return Unit(mgl64.Vec3{to[0] - from[0], 0, to[2] - from[2]})
}

// Unit normalizes v, reporting false instead of returning NaNs for a zero vector.
func Unit(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < degenerate {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Yaw returns the facing angle of a planar direction. Yaw 0 looks down +Z,
// yaw pi/2 looks down +X.
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir[0], dir[2])
}

// YawVec is the inverse of Yaw: the unit forward vector for a facing angle.
func YawVec(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// HeadingTo returns the yaw that faces from -> to.
func HeadingTo(from, to mgl64.Vec3) float64 {
	return math.Atan2(to[0]-from[0], to[2]-from[2])
}

// Bearing returns the polar angle of to around from, measured from +X toward
// +Z. Points on a circle are laid out as (cos a, sin a) in this convention.
func Bearing(from, to mgl64.Vec3) float64 {
	return math.Atan2(to[2]-from[2], to[0]-from[0])
}

// OnCircle returns the point at polar angle a and distance r around c, at c's height.
func OnCircle(c mgl64.Vec3, a, r float64) mgl64.Vec3 {
	return mgl64.Vec3{c[0] + math.Cos(a)*r, c[1], c[2] + math.Sin(a)*r}
}

// RotateY rotates v on the X/Z plane by angle radians.
func RotateY(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return mgl64.Vec3{v[0]*c - v[2]*s, v[1], v[0]*s + v[2]*c}
}

// NormalizeAngle wraps an angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDelta returns the absolute shortest angular distance between a and b.
func AngleDelta(a, b float64) float64 {
	return math.Abs(NormalizeAngle(a - b))
}
