// math/math_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDegreesRadians(t *testing.T) {
	for _, d := range []float64{-180, -90, -12.5, 0, 33, 90, 360} {
		if r := Degrees(Radians(d)); !scalar.EqualWithinAbs(r, d, 1e-12) {
			t.Errorf("got %v, expected %v", r, d)
		}
	}
	if v := Sind(30); !scalar.EqualWithinAbs(v, 0.5, 1e-12) {
		t.Errorf("sind(30): got %v, expected 0.5", v)
	}
	if v := Tand(45); !scalar.EqualWithinAbs(v, 1, 1e-12) {
		t.Errorf("tand(45): got %v, expected 1", v)
	}
}

func TestClampSign(t *testing.T) {
	if v := Clamp(1.5, 0., 1.); v != 1 {
		t.Errorf("got %v, expected 1", v)
	}
	if v := Clamp(-3, -2, 2); v != -2 {
		t.Errorf("got %v, expected -2", v)
	}
	if v := SafeASin(1.0000001); v != gomath.Pi/2 {
		t.Errorf("got %v, expected pi/2", v)
	}
	for _, test := range []struct{ v, s float64 }{{-2, -1}, {0, 0}, {0.1, 1}} {
		if s := Sign(test.v); s != test.s {
			t.Errorf("sign(%v): got %v, expected %v", test.v, s, test.s)
		}
	}
	for _, test := range []struct{ v, s int }{{-7, -1}, {0, 0}, {3, 1}} {
		if s := Sign(test.v); s != test.s {
			t.Errorf("sign(%d): got %d, expected %d", test.v, s, test.s)
		}
	}
	if s := Sign(int8(-128)); s != -1 {
		t.Errorf("sign(int8(-128)): got %d, expected -1", s)
	}
	if !InOpenRange(0.5, 0., 1.) || InOpenRange(0., 0., 1.) || !InClosedRange(0., 0., 1.) {
		t.Errorf("range checks are wrong")
	}
}

func TestVec3(t *testing.T) {
	a, b := Vec3{X: 1, Y: 2, Z: 3}, Vec3{X: 3, Y: 2, Z: -1}

	if m := Mid3(a, b); m != (Vec3{X: 2, Y: 2, Z: 1}) {
		t.Errorf("mid: got %v", m)
	}
	if l := Lerp3(0.25, a, b); !Equal3(l, Vec3{X: 1.5, Y: 2, Z: 2}, 1e-12) {
		t.Errorf("lerp: got %v", l)
	}
	if n := Normalize3(Vec3{}); n != (Vec3{}) {
		t.Errorf("normalize zero: got %v", n)
	}
	if p := VectorProjection(Vec3{X: 1, Y: 1, Z: 0}, Vec3{Y: 4}); !Equal3(p, Vec3{Y: 1}, 1e-12) {
		t.Errorf("projection: got %v", p)
	}

	// Quarter turn about z takes x to y.
	if r := RotateAbout(XAxis, gomath.Pi/2, ZAxis); !Equal3(r, YAxis, 1e-12) {
		t.Errorf("rotate: got %v, expected %v", r, YAxis)
	}
	if r := RotateAbout(a, 1, Vec3{}); r != a {
		t.Errorf("rotate about zero axis: got %v", r)
	}
}

func TestPlaneLineIntersect(t *testing.T) {
	p, ok := PlaneLineIntersect(YAxis, Vec3{Y: 2}, Vec3{X: 1, Y: 1}, Vec3{})
	if !ok {
		t.Fatalf("expected an intersection")
	}
	if !Equal3(p, Vec3{X: 2, Y: 2}, 1e-12) {
		t.Errorf("got %v, expected (2,2,0)", p)
	}
	if _, ok := PlaneLineIntersect(YAxis, Vec3{Y: 2}, XAxis, Vec3{}); ok {
		t.Errorf("parallel line should not intersect")
	}
}

func TestBounds(t *testing.T) {
	b := Bounds(Vec3{X: 0, Y: 0}, Vec3{X: 2, Y: 5}, Vec3{X: -1, Y: 3})
	if b.Min != (Vec3{X: -1}) || b.Max != (Vec3{X: 2, Y: 5}) {
		t.Errorf("got %v", b)
	}
}

func TestParseSymmetryPlane(t *testing.T) {
	for _, test := range []struct {
		s     string
		p     SymmetryPlane
		isErr bool
	}{
		{"none", SymmetryNone, false},
		{"0", SymmetryNone, false},
		{"xy", SymmetryXY, false},
		{"1", SymmetryXY, false},
		{"xz", SymmetryXZ, false},
		{"2", SymmetryXZ, false},
		{"yz", SymmetryYZ, false},
		{"3", SymmetryYZ, false},
		{"4", SymmetryNone, true},
		{"zx", SymmetryNone, true},
	} {
		p, err := ParseSymmetryPlane(test.s)
		if p != test.p {
			t.Errorf("%q: got %v, expected %v", test.s, p, test.p)
		}
		if (err != nil) != test.isErr {
			t.Errorf("%q: unexpected error result %v", test.s, err)
		}
	}

	var p SymmetryPlane
	if err := p.UnmarshalJSON([]byte("2")); err != nil || p != SymmetryXZ {
		t.Errorf("legacy integer: got %v %v", p, err)
	}
	if err := p.UnmarshalJSON([]byte(`"yz"`)); err != nil || p != SymmetryYZ {
		t.Errorf("string: got %v %v", p, err)
	}
}

func TestMirror(t *testing.T) {
	q := Quad{
		A: Vec3{X: 0, Y: 0, Z: 0},
		B: Vec3{X: 0.5, Y: 5, Z: 1},
		C: Vec3{X: 2, Y: 5, Z: 1},
		D: Vec3{X: 2, Y: 0, Z: 0},
	}

	p := Vec3{X: 1, Y: 2, Z: 3}
	for _, test := range []struct {
		plane SymmetryPlane
		m     Vec3
	}{
		{SymmetryNone, Vec3{X: 1, Y: 2, Z: 3}},
		{SymmetryXY, Vec3{X: 1, Y: 2, Z: -3}},
		{SymmetryXZ, Vec3{X: 1, Y: -2, Z: 3}},
		{SymmetryYZ, Vec3{X: -1, Y: 2, Z: 3}},
	} {
		if m := test.plane.MirrorPoint(p); m != test.m {
			t.Errorf("%s: got %v, expected %v", test.plane, m, test.m)
		}

		// Mirroring twice is the identity, including the reordering.
		if mm := test.plane.MirrorVertices(test.plane.MirrorVertices(q)); mm != q {
			t.Errorf("%s: mirror round trip got %v, expected %v", test.plane, mm, q)
		}
		r := [4]float64{0.1, 0.2, 0.3, 0.4}
		if rr := test.plane.OrderMirroredRel(test.plane.OrderMirroredRel(r)); rr != r {
			t.Errorf("%s: relative round trip got %v", test.plane, rr)
		}
	}

	// For xz symmetry the mirrored inner edge is built from the original
	// outer edge points.
	m := SymmetryXZ.MirrorVertices(q)
	if m.A != (Vec3{X: 0.5, Y: -5, Z: 1}) || m.D != (Vec3{X: 2, Y: -5, Z: 1}) {
		t.Errorf("xz order: got %v", m)
	}
}
