// geometry/report.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"io"

	"github.com/goforj/godump"
	"github.com/iancoleman/orderedmap"

	"github.com/wingmesh/wingmesh/math"
)

type AircraftSummary struct {
	UID     string
	Version string
	Area    float64
	Size    float64
	Wings   []WingSummary
}

type WingSummary struct {
	UID        string
	Symmetry   math.SymmetryPlane
	Span       float64
	Area       float64
	Continuous bool
	Deformed   bool
	Segments   []SegmentSummary
	Controls   []ControlSummary
}

type SegmentSummary struct {
	UID          string
	Vertices     math.Quad
	Params       SegmentParams
	Area         float64
	Position     Position
	Subdivisions []SubdivisionSummary
}

type SubdivisionSummary struct {
	Index                  int
	EtaA, EtaB, EtaC, EtaD float64
	Subareas               []SubareaSummary
}

type SubareaSummary struct {
	Kind                   SurfaceKind
	XsiA, XsiB, XsiC, XsiD float64
	Control                string
	XsiH1, XsiH2           float64
}

type ControlSummary struct {
	UID              string
	Device           SurfaceKind
	Deflection       float64
	DeflectionMirror float64
	Inner, Outer     string
}

// Summary returns a snapshot of the generated state of the aircraft.
// Subdivisions are listed inner to outer.
func (ac *Aircraft) Summary() AircraftSummary {
	sum := AircraftSummary{UID: ac.UID, Version: ac.Version, Area: ac.Area, Size: ac.Size}
	for _, w := range ac.Wings.All() {
		ws := WingSummary{
			UID:        w.UID,
			Symmetry:   w.Symmetry,
			Span:       w.Span,
			Area:       w.Area,
			Continuous: w.Continuous,
			Deformed:   w.IsDeformed(),
		}
		for _, s := range w.Segments.All() {
			ss := SegmentSummary{UID: s.UID, Vertices: s.Vertices, Params: s.Params, Area: s.Area, Position: s.Position}
			for _, sd := range s.SpanwiseSubdivisions() {
				sds := SubdivisionSummary{Index: sd.Index, EtaA: sd.EtaA, EtaB: sd.EtaB, EtaC: sd.EtaC, EtaD: sd.EtaD}
				for _, sa := range sd.Subareas {
					sas := SubareaSummary{Kind: sa.Kind, XsiA: sa.XsiA, XsiB: sa.XsiB, XsiC: sa.XsiC, XsiD: sa.XsiD}
					if sa.Device != nil {
						sas.XsiH1, sas.XsiH2 = sa.Device.XsiH1, sa.Device.XsiH2
						if sa.Device.Control != nil {
							sas.Control = sa.Device.Control.UID
						}
					}
					sds.Subareas = append(sds.Subareas, sas)
				}
				ss.Subdivisions = append(ss.Subdivisions, sds)
			}
			ws.Segments = append(ws.Segments, ss)
		}
		for _, c := range w.Controls.All() {
			cs := ControlSummary{UID: c.UID, Device: c.Device, Inner: c.SegmentUID.Inner, Outer: c.SegmentUID.Outer}
			if c.Deflection != nil {
				cs.Deflection = *c.Deflection
			}
			if c.DeflectionMirror != nil {
				cs.DeflectionMirror = *c.DeflectionMirror
			}
			ws.Controls = append(ws.Controls, cs)
		}
		sum.Wings = append(sum.Wings, ws)
	}
	return sum
}

func vec(v math.Vec3) []float64 { return []float64{v.X, v.Y, v.Z} }

// Report returns the main aircraft values as a JSON object whose keys
// keep a fixed order: aircraft values first, then per wing and segment.
func (ac *Aircraft) Report() *orderedmap.OrderedMap {
	sum := ac.Summary()

	r := orderedmap.New()
	r.Set("uid", sum.UID)
	r.Set("version", sum.Version)
	r.Set("area", sum.Area)
	r.Set("size", sum.Size)

	var wings []*orderedmap.OrderedMap
	for _, w := range sum.Wings {
		wm := orderedmap.New()
		wm.Set("uid", w.UID)
		wm.Set("symmetry", w.Symmetry.String())
		wm.Set("span", w.Span)
		wm.Set("area", w.Area)
		wm.Set("continuous", w.Continuous)

		var segs []*orderedmap.OrderedMap
		for _, s := range w.Segments {
			sm := orderedmap.New()
			sm.Set("uid", s.UID)
			sm.Set("area", s.Area)
			sm.Set("span", s.Params.Span)
			sm.Set("sweep", s.Params.Sweep)
			sm.Set("dihedral", s.Params.Dihedral)
			sm.Set("inner_chord", s.Params.InnerChord)
			sm.Set("outer_chord", s.Params.OuterChord)
			sm.Set("position", []float64{s.Position.Inner, s.Position.Outer})
			sm.Set("vertices", [][]float64{vec(s.Vertices.A), vec(s.Vertices.B), vec(s.Vertices.C), vec(s.Vertices.D)})
			sm.Set("subdivisions", len(s.Subdivisions))
			segs = append(segs, sm)
		}
		wm.Set("segments", segs)

		var ctrls []*orderedmap.OrderedMap
		for _, c := range w.Controls {
			cm := orderedmap.New()
			cm.Set("uid", c.UID)
			cm.Set("device", c.Device.String())
			cm.Set("deflection", c.Deflection)
			cm.Set("deflection_mirror", c.DeflectionMirror)
			ctrls = append(ctrls, cm)
		}
		wm.Set("controls", ctrls)
		wings = append(wings, wm)
	}
	r.Set("wings", wings)
	return r
}

// DumpSummary writes a human-readable dump of Summary to w.
func (ac *Aircraft) DumpSummary(w io.Writer) {
	godump.Fdump(w, ac.Summary())
}
