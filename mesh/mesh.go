// mesh/mesh.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mesh flattens a generated aircraft into the quadrilateral
// patches a vortex-lattice builder consumes.
package mesh

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/geometry"
	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"
)

// Patch is one subarea on one side of a wing, in absolute coordinates.
type Patch struct {
	Wing        string               `msgpack:"wing"`
	Segment     string               `msgpack:"segment"`
	Subdivision int                  `msgpack:"subdivision"`
	EtaA        float64              `msgpack:"eta_a"`
	EtaB        float64              `msgpack:"eta_b"`
	Kind        geometry.SurfaceKind `msgpack:"kind"`
	Mirror      bool                 `msgpack:"mirror"`
	Vertices    math.Quad            `msgpack:"vertices"`
	// Unit normal AB x AD.
	Normal math.Vec3 `msgpack:"normal"`

	// Set for flap and slat patches only.
	Control    string    `msgpack:"control,omitempty"`
	Deflection float64   `msgpack:"deflection,omitempty"`
	HingeInner math.Vec3 `msgpack:"hinge_inner"`
	HingeOuter math.Vec3 `msgpack:"hinge_outer"`
	HingeAxis  math.Vec3 `msgpack:"hinge_axis"`
	CamberAxis math.Vec3 `msgpack:"camber_axis"`

	NumC        int       `msgpack:"num_c,omitempty"`
	Collocation []float64 `msgpack:"collocation,omitempty"`
	// Mean line height in local chords at each collocation point, taken
	// from the segment's blended airfoil at the subdivision's mid eta.
	Camber []float64 `msgpack:"camber,omitempty"`
}

type Options struct {
	// Workers bounds the number of segments evaluated concurrently; zero
	// means one per CPU.
	Workers int
	// CacheDir is where Store and Retrieve keep patch sets.
	CacheDir string
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Collect returns the patches of every subarea of ac, including the
// mirrored sides of symmetric wings, with the airfoil camber at their
// collocation points. Patches are ordered by wing, segment,
// subdivision (inner to outer), subarea kind and finally side, with the
// mirrored side last. ac is only read.
func Collect(ctx context.Context, ac *geometry.Aircraft, opts Options) ([]Patch, error) {
	if !ac.State {
		return nil, fmt.Errorf("aircraft %q: %w", ac.UID, geometry.ErrNotGenerated)
	}
	lg := ac.Logger()
	start := time.Now()

	type job struct {
		w *geometry.Wing
		s *geometry.WingSegment
	}
	var jobs []job
	for w, s := range ac.AllSegments() {
		jobs = append(jobs, job{w, s})
	}

	results := make([][]Patch, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.workers())
	for i, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := segmentPatches(j.w, j.s)
			if err != nil {
				return fmt.Errorf("wing %q: segment %q: %w", j.w.UID, j.s.UID, err)
			}
			results[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	patches := slices.Concat(results...)
	lg.Info("collected patches", "aircraft", ac.UID, "patches", len(patches), "segments", len(jobs),
		"elapsed", time.Since(start))
	return patches, nil
}

func segmentPatches(w *geometry.Wing, s *geometry.WingSegment) ([]Patch, error) {
	if !s.State {
		return nil, geometry.ErrNotGenerated
	}
	sides := []bool{false}
	if w.Symmetry.IsSymmetric() {
		sides = append(sides, true)
	}

	var patches []Patch
	for _, sd := range s.SpanwiseSubdivisions() {
		subareas := slices.SortedStableFunc(slices.Values(sd.Subareas), func(a, b *geometry.Subarea) int {
			return cmp.Compare(a.Kind, b.Kind)
		})
		for _, sa := range subareas {
			for _, mirror := range sides {
				p, err := makePatch(w, s, sd, sa, mirror)
				if err != nil {
					return nil, err
				}
				patches = append(patches, p)
			}
		}
	}
	return patches, nil
}

func makePatch(w *geometry.Wing, s *geometry.WingSegment, sd *geometry.Subdivision, sa *geometry.Subarea,
	mirror bool) (Patch, error) {
	q, err := sa.AbsVertices(mirror)
	if err != nil {
		return Patch{}, err
	}
	p := Patch{
		Wing:        w.UID,
		Segment:     s.UID,
		Subdivision: sd.Index,
		EtaA:        sd.EtaA,
		EtaB:        sd.EtaB,
		Kind:        sa.Kind,
		Mirror:      mirror,
		Vertices:    q,
		Normal:      math.Normalize3(r3.Cross(r3.Sub(q.B, q.A), r3.Sub(q.D, q.A))),
		NumC:        s.Panels.NumC,
	}

	if dev := sa.Device; dev != nil {
		c := dev.Control
		p.Control = c.UID
		if c.Deflection != nil {
			p.Deflection = *c.Deflection
		}
		if mirror && c.DeflectionMirror != nil {
			p.Deflection = *c.DeflectionMirror
		}
		if c.Panels.NumC > 0 {
			p.NumC = c.Panels.NumC
		}

		if p.HingeInner, p.HingeOuter, err = sa.AbsHingeVertices(mirror); err != nil {
			return Patch{}, err
		}
		p.HingeAxis = r3.Sub(p.HingeOuter, p.HingeInner)
		if p.CamberAxis, err = sa.AbsCamberLineRotAxis(mirror); err != nil {
			return Patch{}, err
		}
	}

	p.Collocation = sa.CollocationXsi(p.NumC)
	if s.Airfoil != nil {
		eta := 0.5 * (sd.EtaA + sd.EtaB)
		for _, xsi := range p.Collocation {
			p.Camber = append(p.Camber, s.Airfoil.CamberAt(eta, xsi))
		}
	}
	return p, nil
}

// Store saves a patch set under name in the cache directory.
func Store(opts Options, name string, patches []Patch) error {
	return util.ObjectCache{Dir: opts.CacheDir}.Store(name, patches)
}

// Retrieve loads a patch set saved with Store and returns the time it was
// stored.
func Retrieve(opts Options, name string) ([]Patch, time.Time, error) {
	var patches []Patch
	t, err := util.ObjectCache{Dir: opts.CacheDir}.Retrieve(name, &patches)
	if err != nil {
		return nil, time.Time{}, err
	}
	return patches, t, nil
}
