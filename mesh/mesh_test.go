// mesh/mesh_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mesh

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/wingmesh/wingmesh/airfoil"
	"github.com/wingmesh/wingmesh/geometry"
	"github.com/wingmesh/wingmesh/math"
)

func vec3(x, y, z float64) *math.Vec3 { return &math.Vec3{X: x, Y: y, Z: z} }

func fp(v float64) *float64 { return &v }

// flapAircraft has a symmetric 5x2 rectangular wing with a flap from
// eta 0.2 to 0.8 behind xsi 0.7.
func flapAircraft(t *testing.T) *geometry.Aircraft {
	t.Helper()
	return cambered(t, "NACA0012")
}

// cambered is flapAircraft with the given inner airfoil; the outer one is
// always NACA0012.
func cambered(t *testing.T, inner string) *geometry.Aircraft {
	t.Helper()
	ac := geometry.NewAircraft(nil)
	w, err := ac.AddWing("wing")
	if err != nil {
		t.Fatal(err)
	}
	w.Symmetry = math.SymmetryXZ
	s, err := w.AddSegment("seg")
	if err != nil {
		t.Fatal(err)
	}
	s.Corners = geometry.Corners{A: vec3(0, 0, 0), B: vec3(0, 5, 0), C: vec3(2, 5, 0), D: vec3(2, 0, 0)}
	s.Airfoils = geometry.SegmentAirfoils{Inner: inner, Outer: "NACA0012"}
	s.Panels.NumC = 4

	c, err := w.AddControl("flap")
	if err != nil {
		t.Fatal(err)
	}
	c.Device = geometry.SurfaceFlap
	c.Deflection, c.DeflectionMirror = fp(10), fp(-5)
	c.SegmentUID = geometry.ControlSegments{Inner: "seg", Outer: "seg"}
	c.Rel = geometry.ControlRel{EtaInner: 0.2, EtaOuter: 0.8, XsiInner: 0.7, XsiOuter: 0.7}
	c.Panels.NumC = 2

	if err := ac.Generate(false); err != nil {
		t.Fatal(err)
	}
	return ac
}

func TestCollect(t *testing.T) {
	ac := flapAircraft(t)
	patches, err := Collect(context.Background(), ac, Options{Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type key struct {
		eta    float64
		kind   geometry.SurfaceKind
		mirror bool
	}
	want := []key{
		{0, geometry.SurfaceSegment, false}, {0, geometry.SurfaceSegment, true},
		{0.2, geometry.SurfaceSegment, false}, {0.2, geometry.SurfaceSegment, true},
		{0.2, geometry.SurfaceFlap, false}, {0.2, geometry.SurfaceFlap, true},
		{0.8, geometry.SurfaceSegment, false}, {0.8, geometry.SurfaceSegment, true},
	}
	if len(patches) != len(want) {
		t.Fatalf("got %d patches, expected %d", len(patches), len(want))
	}
	for i, p := range patches {
		if got := (key{p.EtaA, p.Kind, p.Mirror}); got != want[i] {
			t.Errorf("patch %d: got %+v, expected %+v", i, got, want[i])
		}
		if p.Wing != "wing" || p.Segment != "seg" {
			t.Errorf("patch %d: got %s/%s", i, p.Wing, p.Segment)
		}
		if !math.Equal3(p.Normal, math.Vec3{Z: -1}, 1e-12) {
			t.Errorf("patch %d: got normal %v", i, p.Normal)
		}
	}

	flap, mirr := patches[4], patches[5]
	if flap.Control != "flap" || flap.Deflection != 10 || mirr.Deflection != -5 {
		t.Errorf("got deflections %g, %g for %q", flap.Deflection, mirr.Deflection, flap.Control)
	}
	if flap.NumC != 2 || len(flap.Collocation) != 2 || math.Abs(flap.Collocation[0]-0.8125) > 1e-12 {
		t.Errorf("got flap collocation %v", flap.Collocation)
	}
	if !math.Equal3(flap.HingeInner, math.Vec3{X: 1.4, Y: 1}, 1e-9) ||
		!math.Equal3(flap.HingeAxis, math.Vec3{Y: 3}, 1e-9) {
		t.Errorf("got hinge %v axis %v", flap.HingeInner, flap.HingeAxis)
	}
	if !math.Equal3(mirr.Vertices.A, math.Vec3{X: 1.4, Y: -4}, 1e-9) {
		t.Errorf("got mirrored flap corner %v", mirr.Vertices.A)
	}
	if !math.Equal3(flap.CamberAxis, math.Vec3{Y: -1}, 1e-9) {
		t.Errorf("got camber axis %v", flap.CamberAxis)
	}

	seg := patches[2]
	if seg.Control != "" || seg.NumC != 4 || len(seg.Collocation) != 4 {
		t.Errorf("got segment patch %+v", seg)
	}

	// The result does not depend on the number of workers.
	again, err := Collect(context.Background(), ac, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.EqualFunc(patches, again, func(a, b Patch) bool {
		return a.Vertices == b.Vertices && a.Kind == b.Kind && a.Mirror == b.Mirror
	}) {
		t.Errorf("patch order depends on the worker count")
	}
}

func TestCollectCamber(t *testing.T) {
	patches, err := Collect(context.Background(), flapAircraft(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range patches {
		if len(p.Camber) != len(p.Collocation) {
			t.Fatalf("patch %d: got %d camber values for %d collocation points", i, len(p.Camber), len(p.Collocation))
		}
		for _, c := range p.Camber {
			if math.Abs(c) > 1e-12 {
				t.Errorf("patch %d: got camber %g for a symmetric section", i, c)
			}
		}
	}

	// NACA2412 at the root blends to NACA0012 at the tip.
	patches, err = Collect(context.Background(), cambered(t, "NACA2412"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	root, err := airfoil.NACA4("2412")
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{0, 1, 4, 6} {
		p := patches[i]
		eta := 0.5 * (p.EtaA + p.EtaB)
		for j, xsi := range p.Collocation {
			if want := (1 - eta) * root.CamberAt(xsi); math.Abs(p.Camber[j]-want) > 1e-12 {
				t.Errorf("patch %d: xsi %g: got camber %g, expected %g", i, xsi, p.Camber[j], want)
			}
			if p.Camber[j] <= 0 {
				t.Errorf("patch %d: xsi %g: got camber %g, expected positive", i, xsi, p.Camber[j])
			}
		}
	}
}

func TestCollectErrors(t *testing.T) {
	ac := geometry.NewAircraft(nil)
	if _, err := Collect(context.Background(), ac, Options{}); !errors.Is(err, geometry.ErrNotGenerated) {
		t.Errorf("got %v, expected ErrNotGenerated", err)
	}

	ac = flapAircraft(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, ac, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}

	// Deformed evaluation without finalized deformation.
	w, _ := ac.Wing("wing")
	w.SetDeformed(true)
	if _, err := Collect(context.Background(), ac, Options{}); err == nil {
		t.Errorf("expected error for a deformed wing without deformation")
	}
}

func TestStoreRetrieve(t *testing.T) {
	ac := flapAircraft(t)
	patches, err := Collect(context.Background(), ac, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{CacheDir: t.TempDir()}
	if err := Store(opts, "wing.msgpack.zst", patches); err != nil {
		t.Fatal(err)
	}
	got, when, err := Retrieve(opts, "wing.msgpack.zst")
	if err != nil {
		t.Fatal(err)
	}
	if when.IsZero() {
		t.Errorf("no modification time")
	}
	if len(got) != len(patches) {
		t.Fatalf("got %d patches, expected %d", len(got), len(patches))
	}
	for i := range got {
		a, b := got[i], patches[i]
		if a.Vertices != b.Vertices || a.Kind != b.Kind || a.Mirror != b.Mirror || a.Control != b.Control ||
			a.Deflection != b.Deflection || a.HingeAxis != b.HingeAxis || !slices.Equal(a.Collocation, b.Collocation) {
			t.Errorf("patch %d: got %+v, expected %+v", i, a, b)
		}
	}

	if _, _, err := Retrieve(opts, "missing"); err == nil {
		t.Errorf("expected error for missing patch set")
	}
	if err := Store(opts, "../escape", patches); err == nil {
		t.Errorf("expected error for a non-local name")
	}
}
