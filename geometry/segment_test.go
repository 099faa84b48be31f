// geometry/segment_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/wingmesh/wingmesh/math"
)

func vec3(x, y, z float64) *math.Vec3 { return &math.Vec3{X: x, Y: y, Z: z} }

func fp(v float64) *float64 { return &v }

func near3(a, b math.Vec3) bool { return math.Equal3(a, b, 1e-9) }

// rectWing returns an aircraft with a single 5x2 rectangular segment in the
// z=0 plane.
func rectWing(t *testing.T, sym math.SymmetryPlane) (*Aircraft, *Wing, *WingSegment) {
	t.Helper()
	ac := NewAircraft(nil)
	w, err := ac.AddWing("wing")
	if err != nil {
		t.Fatal(err)
	}
	w.Symmetry = sym
	s, err := w.AddSegment("seg")
	if err != nil {
		t.Fatal(err)
	}
	s.Corners = Corners{A: vec3(0, 0, 0), B: vec3(0, 5, 0), C: vec3(2, 5, 0), D: vec3(2, 0, 0)}
	s.Airfoils = SegmentAirfoils{Inner: "NACA0012", Outer: "NACA0012"}
	return ac, w, s
}

func TestSegmentFromCorners(t *testing.T) {
	_, _, s := rectWing(t, math.SymmetryNone)
	if err := s.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Area != 10 {
		t.Errorf("got area %g, expected 10", s.Area)
	}
	p := s.Params
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"span", p.Span, 5}, {"sweep", p.Sweep, 0}, {"dihedral", p.Dihedral, 0},
		{"inner_chord", p.InnerChord, 2}, {"outer_chord", p.OuterChord, 2},
		{"inner_alpha", p.InnerAlpha, 0}, {"outer_beta", p.OuterBeta, 0},
		{"inner_axis", p.InnerAxis, 0.25},
	} {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s: got %g, expected %g", c.name, c.got, c.want)
		}
	}
	if s.Airfoil == nil {
		t.Errorf("airfoil was not imported")
	}
	if len(s.Subdivisions) != 1 {
		t.Errorf("got %d subdivisions, expected 1", len(s.Subdivisions))
	}

	if pt := s.SegmentPoint(0.5, 0.5); !near3(pt, math.Vec3{X: 1, Y: 2.5}) {
		t.Errorf("got midpoint %v, expected (1, 2.5, 0)", pt)
	}
	if n := s.NormalVector(); n.Z >= 0 {
		t.Errorf("got normal %v, expected negative z", n)
	}
	if ax := s.DeformationRotAxis(); ax != math.YAxis {
		t.Errorf("got rotation axis %v, expected Y", ax)
	}
}

func TestSegmentParameterRoundTrip(t *testing.T) {
	for _, alpha := range []float64{0, 3} {
		_, _, s := rectWing(t, math.SymmetryNone)
		s.Corners = Corners{A: vec3(1, 0.5, 0.2)}
		s.Geometry = SegmentGeometry{
			InnerChord: fp(2), InnerAlpha: fp(alpha), InnerBeta: fp(0),
			OuterChord: fp(1), OuterAlpha: fp(alpha), OuterBeta: fp(0),
			Span: fp(4), Sweep: fp(10), Dihedral: fp(5),
		}
		if err := s.Generate(); err != nil {
			t.Fatalf("alpha %g: unexpected error: %v", alpha, err)
		}
		if !near3(s.Vertices.A, *vec3(1, 0.5, 0.2)) {
			t.Errorf("alpha %g: reference point moved to %v", alpha, s.Vertices.A)
		}
		if math.Abs(s.Area-6) > 1e-12 {
			t.Errorf("alpha %g: got area %g, expected 6", alpha, s.Area)
		}

		// Regenerate from the vertices alone.
		v := s.Vertices
		_, _, s2 := rectWing(t, math.SymmetryNone)
		s2.Corners = Corners{A: &v.A, B: &v.B, C: &v.C, D: &v.D}
		if err := s2.Generate(); err != nil {
			t.Fatalf("alpha %g: unexpected error: %v", alpha, err)
		}
		for _, c := range []struct {
			name      string
			got, want float64
		}{
			{"area", s2.Area, s.Area},
			{"span", s2.Params.Span, 4},
			{"sweep", s2.Params.Sweep, 10},
			{"dihedral", s2.Params.Dihedral, 5},
			{"inner_chord", s2.Params.InnerChord, 2},
			{"outer_chord", s2.Params.OuterChord, 1},
			{"inner_alpha", s2.Params.InnerAlpha, alpha},
			{"outer_alpha", s2.Params.OuterAlpha, alpha},
		} {
			if math.Abs(c.got-c.want) > 1e-9 {
				t.Errorf("alpha %g: %s: got %.12g, expected %.12g", alpha, c.name, c.got, c.want)
			}
		}
	}
}

func TestSegmentFromEdges(t *testing.T) {
	// The inner edge of a rectangle plus the outer geometry.
	_, _, s := rectWing(t, math.SymmetryNone)
	s.Corners = Corners{A: vec3(0, 0, 0), D: vec3(2, 0, 0)}
	s.Geometry = SegmentGeometry{
		OuterChord: fp(2), OuterAlpha: fp(0), OuterBeta: fp(0),
		Span: fp(5), Sweep: fp(0), Dihedral: fp(0),
	}
	if err := s.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near3(s.Vertices.B, *vec3(0, 5, 0)) || !near3(s.Vertices.C, *vec3(2, 5, 0)) {
		t.Errorf("got outer edge %v, %v, expected (0, 5, 0), (2, 5, 0)", s.Vertices.B, s.Vertices.C)
	}

	// The same with the outer edge given.
	s.Corners = Corners{B: vec3(0, 5, 0), C: vec3(2, 5, 0)}
	s.Geometry = SegmentGeometry{
		InnerChord: fp(2), InnerAlpha: fp(0), InnerBeta: fp(0),
		Span: fp(5), Sweep: fp(0), Dihedral: fp(0),
	}
	if err := s.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near3(s.Vertices.A, math.Vec3{}) || !near3(s.Vertices.D, *vec3(2, 0, 0)) {
		t.Errorf("got inner edge %v, %v, expected (0, 0, 0), (2, 0, 0)", s.Vertices.A, s.Vertices.D)
	}
}

func TestSegmentOrientation(t *testing.T) {
	full := func(chord, span float64) SegmentGeometry {
		return SegmentGeometry{
			InnerChord: fp(chord), InnerAlpha: fp(0), InnerBeta: fp(0),
			OuterChord: fp(2), OuterAlpha: fp(0), OuterBeta: fp(0),
			Span: fp(span), Sweep: fp(0), Dihedral: fp(0),
		}
	}

	_, _, s := rectWing(t, math.SymmetryNone)
	s.Corners = Corners{A: vec3(0, 0, 0)}
	s.Geometry = full(2, -4)
	if err := s.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A and D stay on the inner edge, which is now at y=-4.
	if s.Vertices.A.Y != -4 || s.Vertices.B.Y != 0 {
		t.Errorf("got A.y=%g B.y=%g, expected -4 and 0", s.Vertices.A.Y, s.Vertices.B.Y)
	}
	if n := s.NormalVector(); n.Z >= 0 {
		t.Errorf("got normal %v, expected negative z", n)
	}
	if s.Area != -8 {
		t.Errorf("got area %g, expected -8", s.Area)
	}

	s.Geometry = full(-2, 4)
	if err := s.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The leading edge stays at the smaller x.
	if s.Vertices.A.X > s.Vertices.D.X {
		t.Errorf("got A %v behind D %v", s.Vertices.A, s.Vertices.D)
	}
}

func TestSegmentErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		setup func(s *WingSegment)
		err   error
	}{
		{"no corners", func(s *WingSegment) { s.Corners = Corners{} }, ErrComponentDefinition},
		{"unsupported corners", func(s *WingSegment) { s.Corners.C, s.Corners.D = nil, nil }, ErrComponentDefinition},
		{"ill-defined", func(s *WingSegment) { s.Corners = Corners{A: vec3(0, 0, 0)} }, ErrComponentDefinition},
		{"alpha range", func(s *WingSegment) { s.Geometry.InnerAlpha = fp(95) }, ErrInvalidValue},
		{"axis range", func(s *WingSegment) { s.Geometry.OuterAxis = fp(1.5) }, ErrInvalidValue},
		{"sweep range", func(s *WingSegment) { s.Geometry.Sweep = fp(90) }, ErrInvalidValue},
		{"nan", func(s *WingSegment) { s.Geometry.Span = fp(gomath.NaN()) }, ErrInvalidType},
		{"inf corner", func(s *WingSegment) { s.Corners.B = vec3(0, gomath.Inf(1), 0) }, ErrInvalidType},
		{"no airfoil", func(s *WingSegment) { s.Airfoils.Outer = "" }, ErrComponentDefinition},
		{"bad airfoil", func(s *WingSegment) { s.Airfoils.Outer = "NACA00" }, nil},
		{"zero span", func(s *WingSegment) { s.Corners.B, s.Corners.C = vec3(0, 0, 0), vec3(2, 0, 0) }, ErrInvalidValue},
		{"vertical chord", func(s *WingSegment) { s.Corners.D = vec3(0, 0, 2) }, ErrInvalidValue},
		{"negative panels", func(s *WingSegment) { s.Panels.NumS = -1 }, ErrInvalidValue},
	} {
		_, _, s := rectWing(t, math.SymmetryNone)
		test.setup(s)
		err := s.Generate()
		if err == nil {
			t.Errorf("%s: expected error", test.name)
		} else if test.err != nil && !errors.Is(err, test.err) {
			t.Errorf("%s: got error %v, expected %v", test.name, err, test.err)
		}
		if s.State {
			t.Errorf("%s: state set after failed generation", test.name)
		}
	}
}

func TestDeformedSegmentPoint(t *testing.T) {
	_, w, s := rectWing(t, math.SymmetryXZ)
	if err := s.Generate(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetDeformedSegmentPoint(0.5, 0.5, false); !errors.Is(err, ErrComponentDefinition) {
		t.Errorf("got %v, expected ErrComponentDefinition without deformation", err)
	}

	zero := DeformationTable{
		Eta: []float64{0, 0.5, 1}, UX: make([]float64, 3), UY: make([]float64, 3),
		UZ: make([]float64, 3), Theta: make([]float64, 3),
	}
	s.Deformation = NewDeformation(zero)
	if _, err := s.GetDeformedSegmentPoint(0.5, 0.5, false); !errors.Is(err, ErrNotGenerated) {
		t.Errorf("got %v, expected ErrNotGenerated before finalizing", err)
	}
	if err := s.FinalizeDeformation(); err != nil {
		t.Fatal(err)
	}
	if s.DeformationMirror != s.Deformation {
		t.Errorf("mirror deformation not defaulted to the main one")
	}
	w.SetDeformed(true)

	for _, eta := range []float64{0, 0.3, 1} {
		for _, xsi := range []float64{0, 0.25, 1} {
			p, err := s.GetDeformedSegmentPoint(eta, xsi, false)
			if err != nil {
				t.Fatal(err)
			}
			if want := s.SegmentPoint(eta, xsi); !near3(p, want) {
				t.Errorf("(%g, %g): got %v, expected %v", eta, xsi, p, want)
			}
			pm, err := s.GetDeformedSegmentPoint(eta, xsi, true)
			if err != nil {
				t.Fatal(err)
			}
			if want := math.SymmetryXZ.MirrorPoint(s.SegmentPoint(eta, xsi)); !near3(pm, want) {
				t.Errorf("(%g, %g) mirrored: got %v, expected %v", eta, xsi, pm, want)
			}
		}
	}

	// Constant twist and displacement.
	theta := 0.1
	s.Deformation = NewDeformation(DeformationTable{
		Eta: []float64{0, 1}, UX: []float64{0.5, 0.5}, UY: []float64{0, 0},
		UZ: []float64{0, 0}, Theta: []float64{theta, theta},
	})
	s.DeformationMirror = nil
	if err := s.FinalizeDeformation(); err != nil {
		t.Fatal(err)
	}
	p, err := s.GetDeformedSegmentPoint(0, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Vec3{X: 0.5 + 2*gomath.Cos(theta), Z: -2 * gomath.Sin(theta)}
	if !near3(p, want) {
		t.Errorf("got twisted trailing edge %v, expected %v", p, want)
	}
}

func TestFinalizeDeformationErrors(t *testing.T) {
	_, _, s := rectWing(t, math.SymmetryNone)
	if err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	if err := s.FinalizeDeformation(); !errors.Is(err, ErrComponentDefinition) {
		t.Errorf("got %v, expected ErrComponentDefinition without deformation", err)
	}

	tbl := DeformationTable{Eta: []float64{0, 1}, UX: []float64{0, 0}, UY: []float64{0, 0},
		UZ: []float64{0, 0}, Theta: []float64{0, 0}}
	s.Deformation = NewDeformation(tbl)
	s.DeformationMirror = NewDeformation(tbl)
	if err := s.FinalizeDeformation(); !errors.Is(err, ErrComponentDefinition) {
		t.Errorf("got %v, expected ErrComponentDefinition for mirror on asymmetric wing", err)
	}

	for _, test := range []struct {
		name string
		tbl  DeformationTable
		err  error
	}{
		{"one station", DeformationTable{Eta: []float64{0}, UX: []float64{0}, UY: []float64{0},
			UZ: []float64{0}, Theta: []float64{0}}, ErrComponentDefinition},
		{"length mismatch", DeformationTable{Eta: []float64{0, 1}, UX: []float64{0}, UY: []float64{0, 0},
			UZ: []float64{0, 0}, Theta: []float64{0, 0}}, ErrComponentDefinition},
		{"not increasing", DeformationTable{Eta: []float64{0.5, 0.5}, UX: []float64{0, 0}, UY: []float64{0, 0},
			UZ: []float64{0, 0}, Theta: []float64{0, 0}}, ErrInvalidValue},
		{"eta range", DeformationTable{Eta: []float64{0, 1.5}, UX: []float64{0, 0}, UY: []float64{0, 0},
			UZ: []float64{0, 0}, Theta: []float64{0, 0}}, ErrInvalidValue},
		{"nan", DeformationTable{Eta: []float64{0, 1}, UX: []float64{0, gomath.NaN()}, UY: []float64{0, 0},
			UZ: []float64{0, 0}, Theta: []float64{0, 0}}, ErrInvalidType},
	} {
		if err := NewDeformation(test.tbl).Finalize(); !errors.Is(err, test.err) {
			t.Errorf("%s: got %v, expected %v", test.name, err, test.err)
		}
	}
}

func TestDeformationTableCopy(t *testing.T) {
	tbl := DeformationTable{Eta: []float64{0, 1}, UX: []float64{0, 1}, UY: []float64{0, 0},
		UZ: []float64{0, 0}, Theta: []float64{0, 0}}
	d := NewDeformation(tbl)
	tbl.UX[1] = 5
	if d.Table().UX[1] != 1 {
		t.Errorf("deformation shares storage with its input table")
	}
	if d.Interpolated() {
		t.Errorf("new deformation reports splines")
	}
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct{ eta, ux float64 }{{-1, 0}, {0, 0}, {0.25, 0.25}, {1, 1}, {2, 1}} {
		u, _, err := d.At(c.eta)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(u.X-c.ux) > 1e-12 {
			t.Errorf("eta %g: got ux %g, expected %g", c.eta, u.X, c.ux)
		}
	}
}

func TestDeformationSplines(t *testing.T) {
	square := func(x float64) float64 { return x * x }
	cube := func(x float64) float64 { return x * x * x }
	for _, test := range []struct {
		name string
		eta  []float64
		f    func(float64) float64
		at   []float64
	}{
		// Three stations reproduce a parabola exactly, four a cubic.
		{"three", []float64{0.2, 0.5, 0.8}, square, []float64{0.2, 0.35, 0.5, 0.7, 0.8}},
		{"four", []float64{0, 1. / 3, 2. / 3, 1}, cube, []float64{0, 0.25, 0.5, 0.9, 1}},
	} {
		n := len(test.eta)
		tbl := DeformationTable{Eta: test.eta, UX: make([]float64, n), UY: make([]float64, n),
			UZ: make([]float64, n), Theta: make([]float64, n)}
		for i, eta := range test.eta {
			tbl.UZ[i] = test.f(eta)
			tbl.Theta[i] = -test.f(eta)
		}
		d := NewDeformation(tbl)
		if err := d.Finalize(); err != nil {
			t.Fatalf("%s: unexpected error: %v", test.name, err)
		}
		for _, eta := range test.at {
			u, theta, err := d.At(eta)
			if err != nil {
				t.Fatal(err)
			}
			if want := test.f(eta); math.Abs(u.Z-want) > 1e-9 || math.Abs(theta+want) > 1e-9 {
				t.Errorf("%s: eta %g: got uz %g theta %g, expected %g", test.name, eta, u.Z, theta, want)
			}
		}
	}

	// Outside the stations the end values are held.
	d := NewDeformation(DeformationTable{Eta: []float64{0.2, 0.5, 0.8}, UX: []float64{1, 0, 1},
		UY: make([]float64, 3), UZ: make([]float64, 3), Theta: make([]float64, 3)})
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct{ eta, ux float64 }{{0, 1}, {0.2, 1}, {0.5, 0}, {1, 1}} {
		if u, _, _ := d.At(c.eta); math.Abs(u.X-c.ux) > 1e-12 {
			t.Errorf("eta %g: got ux %g, expected %g", c.eta, u.X, c.ux)
		}
	}
}

func TestDefaultMirrorDeformation(t *testing.T) {
	_, w, s := rectWing(t, math.SymmetryXZ)
	if err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	w.SetDeformed(true)
	lift := func(uz float64) *Deformation {
		return NewDeformation(DeformationTable{Eta: []float64{0, 1}, UX: []float64{0, 0},
			UY: []float64{0, 0}, UZ: []float64{uz, uz}, Theta: []float64{0, 0}})
	}
	check := func(what string, main, mirror float64) {
		t.Helper()
		for _, side := range []struct {
			mirror bool
			z      float64
		}{{false, main}, {true, mirror}} {
			p, err := s.GetDeformedSegmentPoint(0.5, 0.5, side.mirror)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(p.Z-side.z) > 1e-12 {
				t.Errorf("%s: mirror %v: got z %g, expected %g", what, side.mirror, p.Z, side.z)
			}
		}
	}

	s.Deformation = lift(1)
	if err := s.FinalizeDeformation(); err != nil {
		t.Fatal(err)
	}
	check("defaulted", 1, 1)

	s.Deformation = lift(2)
	if err := s.FinalizeDeformation(); err != nil {
		t.Fatal(err)
	}
	check("replaced main", 2, 2)

	s.DeformationMirror = lift(3)
	if err := s.FinalizeDeformation(); err != nil {
		t.Fatal(err)
	}
	check("explicit mirror", 2, 3)

	s.ClearDeformation()
	if s.Deformation != nil || s.DeformationMirror != nil {
		t.Errorf("deformation not cleared")
	}
}
