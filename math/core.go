// math/core.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Trig helpers that take angles in degrees; wing geometry is specified
// in degrees throughout.

func Sind(d float64) float64 { return gomath.Sin(Radians(d)) }
func Cosd(d float64) float64 { return gomath.Cos(Radians(d)) }
func Tand(d float64) float64 { return gomath.Tan(Radians(d)) }

func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

func SafeACos(a float64) float64 {
	return gomath.Acos(Clamp(a, -1, 1))
}

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// Sign returns -1, 0, or 1 according to the sign of v.
func Sign[V constraints.Signed | constraints.Float](v V) V {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// InOpenRange reports whether lo < x < hi.
func InOpenRange[T constraints.Ordered](x, lo, hi T) bool {
	return x > lo && x < hi
}

// InClosedRange reports whether lo <= x <= hi.
func InClosedRange[T constraints.Ordered](x, lo, hi T) bool {
	return x >= lo && x <= hi
}

func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}
