// math/vec3.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in the aircraft's body frame.
type Vec3 = r3.Vec

var (
	XAxis = Vec3{X: 1}
	YAxis = Vec3{Y: 1}
	ZAxis = Vec3{Z: 1}
)

// Linearly interpolate x of the way between a and b. x==0 corresponds to
// a, x==1 corresponds to b, etc.
func Lerp3(x float64, a, b Vec3) Vec3 {
	return r3.Add(a, r3.Scale(x, r3.Sub(b, a)))
}

// midpoint of a and b
func Mid3(a, b Vec3) Vec3 {
	return r3.Scale(0.5, r3.Add(a, b))
}

func Length3(v Vec3) float64 {
	return r3.Norm(v)
}

func Distance3(a, b Vec3) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Normalize3 returns v scaled to unit length; the zero vector is returned
// unchanged.
func Normalize3(v Vec3) Vec3 {
	l := r3.Norm(v)
	if l == 0 {
		return Vec3{}
	}
	return r3.Scale(1/l, v)
}

// AbsComponents returns v with each component replaced by its absolute value.
func AbsComponents(v Vec3) Vec3 {
	return Vec3{X: gomath.Abs(v.X), Y: gomath.Abs(v.Y), Z: gomath.Abs(v.Z)}
}

// RotateAbout rotates v by angle radians about axis using the right-hand
// rule. axis need not be normalized.
func RotateAbout(v Vec3, angle float64, axis Vec3) Vec3 {
	if angle == 0 || r3.Norm2(axis) == 0 {
		return v
	}
	return r3.Rotate(v, angle, axis)
}

// VectorProjection returns the projection of v onto the direction of onto.
func VectorProjection(v, onto Vec3) Vec3 {
	n2 := r3.Norm2(onto)
	if n2 == 0 {
		return Vec3{}
	}
	return r3.Scale(r3.Dot(v, onto)/n2, onto)
}

// PlaneLineIntersect returns the point where the line through linePoint
// with direction lineDir meets the plane through planePoint with normal
// planeNormal. The second return value is false if the line is parallel
// to the plane.
func PlaneLineIntersect(planeNormal, planePoint, lineDir, linePoint Vec3) (Vec3, bool) {
	den := r3.Dot(planeNormal, lineDir)
	if gomath.Abs(den) < 1e-12 {
		return Vec3{}, false
	}
	t := r3.Dot(planeNormal, r3.Sub(planePoint, linePoint)) / den
	return r3.Add(linePoint, r3.Scale(t, lineDir)), true
}

// Equal3 reports whether each component of a and b is within tol.
func Equal3(a, b Vec3, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

// Bounds returns the axis-aligned box containing all of the given points.
func Bounds(pts ...Vec3) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}
	// r3.Box.Union discards flat boxes, which planar wings produce, so
	// the extents are grown directly.
	b := r3.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = Vec3{X: gomath.Min(b.Min.X, p.X), Y: gomath.Min(b.Min.Y, p.Y), Z: gomath.Min(b.Min.Z, p.Z)}
		b.Max = Vec3{X: gomath.Max(b.Max.X, p.X), Y: gomath.Max(b.Max.Y, p.Y), Z: gomath.Max(b.Max.Z, p.Z)}
	}
	return b
}
