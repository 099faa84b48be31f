// geometry/control.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"

	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"
)

type ControlSegments struct {
	Inner string `json:"inner"`
	Outer string `json:"outer"`
}

// ControlRel locates a control on its segments: eta on the inner and outer
// segment, and the chordwise xsi of the device boundary at both ends.
type ControlRel struct {
	EtaInner float64 `json:"eta_inner"`
	EtaOuter float64 `json:"eta_outer"`
	XsiInner float64 `json:"xsi_inner"`
	XsiOuter float64 `json:"xsi_outer"`
}

type ControlHinge struct {
	XsiInner float64 `json:"xsi_inner"`
	XsiOuter float64 `json:"xsi_outer"`
}

type ControlPanels struct {
	NumC int `json:"num_c,omitempty"`
}

// WingControl is a flap or slat. Deflections are in degrees.
type WingControl struct {
	UID              string          `json:"uid"`
	Device           SurfaceKind     `json:"device"`
	Deflection       *float64        `json:"deflection"`
	DeflectionMirror *float64        `json:"deflection_mirror,omitempty"`
	SegmentUID       ControlSegments `json:"segment_uid"`
	Rel              ControlRel      `json:"rel_vertices"`
	// Hinge defaults to the device boundary if not given.
	Hinge  *ControlHinge `json:"rel_hinge_vertices,omitempty"`
	Panels ControlPanels `json:"panels"`

	State bool `json:"-"`

	wing *Wing
}

func (c *WingControl) Wing() *Wing { return c.wing }

func (c *WingControl) segments() (inner, outer *WingSegment, err error) {
	var ok bool
	if inner, ok = c.wing.Segments.Get(c.SegmentUID.Inner); !ok {
		return nil, nil, fmt.Errorf("control %q: inner segment %q: %w", c.UID, c.SegmentUID.Inner, ErrUnknownComponent)
	}
	if outer, ok = c.wing.Segments.Get(c.SegmentUID.Outer); !ok {
		return nil, nil, fmt.Errorf("control %q: outer segment %q: %w", c.UID, c.SegmentUID.Outer, ErrUnknownComponent)
	}
	return
}

// Check validates the control definition. A missing mirrored deflection
// on a symmetric wing is set to Deflection.
func (c *WingControl) Check() error {
	lg := c.wing.logger()
	var e util.ErrorLogger
	defer e.CheckDepth(e.CurrentDepth())
	e.Push("control " + c.UID)
	defer e.Pop()

	if !c.Device.IsDevice() {
		e.Error(fmt.Errorf("'device' must be \"flap\" or \"slat\", got %q: %w", c.Device, ErrInvalidValue))
	}

	for _, v := range []struct {
		name string
		v    float64
	}{
		{"eta_inner", c.Rel.EtaInner}, {"eta_outer", c.Rel.EtaOuter},
		{"xsi_inner", c.Rel.XsiInner}, {"xsi_outer", c.Rel.XsiOuter},
	} {
		checkParam(&e, v.name, &v.v, unitInterval, "between 0 and 1")
	}
	if c.Hinge != nil {
		checkParam(&e, "hinge xsi_inner", &c.Hinge.XsiInner, unitInterval, "between 0 and 1")
		checkParam(&e, "hinge xsi_outer", &c.Hinge.XsiOuter, unitInterval, "between 0 and 1")
	}

	inner, innerOK := c.wing.Segments.Get(c.SegmentUID.Inner)
	outer, outerOK := c.wing.Segments.Get(c.SegmentUID.Outer)
	if !innerOK {
		e.Error(fmt.Errorf("inner segment %q: %w", c.SegmentUID.Inner, ErrUnknownComponent))
	}
	if !outerOK {
		e.Error(fmt.Errorf("outer segment %q: %w", c.SegmentUID.Outer, ErrUnknownComponent))
	}
	if innerOK && outerOK {
		if inner == outer && c.Rel.EtaOuter <= c.Rel.EtaInner {
			e.Error(fmt.Errorf("'eta_outer' must be greater than 'eta_inner': %w", ErrInvalidValue))
		}
		if c.wing.Segments.Index(outer.UID) < c.wing.Segments.Index(inner.UID) {
			e.Error(fmt.Errorf("outer segment %q precedes inner segment %q: %w", outer.UID, inner.UID,
				ErrComponentDefinition))
		}
	}

	if c.Deflection == nil {
		e.Error(fmt.Errorf("'deflection' is not defined: %w", ErrComponentDefinition))
	} else {
		checkParam(&e, "deflection", c.Deflection, angle90, "between -90 and +90 degrees")
	}

	sym := c.wing.Symmetry.IsSymmetric()
	switch {
	case c.DeflectionMirror == nil && sym:
		lg.Warnf("control %q: 'deflection_mirror' is not set, but wing has symmetry. Will use 'deflection'", c.UID)
		if c.Deflection != nil {
			d := *c.Deflection
			c.DeflectionMirror = &d
		}
	case c.DeflectionMirror != nil && !sym:
		lg.Warnf("control %q: 'deflection_mirror' is set, but wing has no symmetry. Value will be ignored", c.UID)
	case c.DeflectionMirror != nil:
		checkParam(&e, "deflection_mirror", c.DeflectionMirror, angle90, "between -90 and +90 degrees")
	}

	if c.Panels.NumC < 0 {
		e.Error(fmt.Errorf("'num_c' must be positive: %w", ErrInvalidValue))
	}

	return e.Err(ErrComponentDefinition)
}

func (c *WingControl) hinge() ControlHinge {
	if c.Hinge != nil {
		return *c.Hinge
	}
	return ControlHinge{XsiInner: c.Rel.XsiInner, XsiOuter: c.Rel.XsiOuter}
}

// AbsVertices returns the undeformed outline of the control.
func (c *WingControl) AbsVertices() (math.Quad, error) {
	inner, outer, err := c.segments()
	if err != nil {
		return math.Quad{}, err
	}
	r := c.Rel
	switch c.Device {
	case SurfaceFlap:
		return math.Quad{
			A: inner.SegmentPoint(r.EtaInner, r.XsiInner),
			B: outer.SegmentPoint(r.EtaOuter, r.XsiOuter),
			C: outer.SegmentPoint(r.EtaOuter, 1),
			D: inner.SegmentPoint(r.EtaInner, 1),
		}, nil
	case SurfaceSlat:
		return math.Quad{
			A: inner.SegmentPoint(r.EtaInner, 0),
			B: outer.SegmentPoint(r.EtaOuter, 0),
			C: outer.SegmentPoint(r.EtaOuter, r.XsiOuter),
			D: inner.SegmentPoint(r.EtaInner, r.XsiInner),
		}, nil
	default:
		return math.Quad{}, fmt.Errorf("control %q: unknown device type %s: %w", c.UID, c.Device, ErrInvalidValue)
	}
}

// AbsHingeVertices returns the undeformed inner and outer hinge points.
func (c *WingControl) AbsHingeVertices() (pInner, pOuter math.Vec3, err error) {
	inner, outer, err := c.segments()
	if err != nil {
		return
	}
	h := c.hinge()
	return inner.SegmentPoint(c.Rel.EtaInner, h.XsiInner), outer.SegmentPoint(c.Rel.EtaOuter, h.XsiOuter), nil
}

// apply carves the control out of the segments it spans. On a single
// segment the device boundary follows the straight line between its ends;
// across several segments xsi is interpolated linearly in the wing's
// spanwise position at the segment borders.
func (c *WingControl) apply() error {
	inner, outer, err := c.segments()
	if err != nil {
		return err
	}
	var h1, h2 *float64
	if c.Hinge != nil {
		h1, h2 = &c.Hinge.XsiInner, &c.Hinge.XsiOuter
	}
	if inner == outer {
		_, err := inner.AddSubdivisionForControl(c.Rel.EtaInner, c.Rel.EtaOuter, c, c.Rel.XsiInner, c.Rel.XsiOuter, h1, h2)
		return err
	}

	segs := c.wing.Segments.Values()
	i0, i1 := c.wing.Segments.Index(inner.UID), c.wing.Segments.Index(outer.UID)
	pos := func(s *WingSegment, eta float64) float64 {
		return s.Position.Inner + eta*(s.Position.Outer-s.Position.Inner)
	}
	p0, p1 := pos(inner, c.Rel.EtaInner), pos(outer, c.Rel.EtaOuter)
	hg := c.hinge()
	at := func(p float64) (xsi, h float64) {
		f := 0.0
		if p1 != p0 {
			f = (p - p0) / (p1 - p0)
		}
		return c.Rel.XsiInner + f*(c.Rel.XsiOuter-c.Rel.XsiInner), hg.XsiInner + f*(hg.XsiOuter-hg.XsiInner)
	}

	for i := i0; i <= i1; i++ {
		s := segs[i]
		etaA, etaB := 0.0, 1.0
		if i == i0 {
			etaA = c.Rel.EtaInner
		}
		if i == i1 {
			etaB = c.Rel.EtaOuter
		}
		if etaB-etaA < MinEtaLimit {
			c.wing.logger().Debugf("control %q: skipping segment %q (eta %.3f to %.3f)", c.UID, s.UID, etaA, etaB)
			continue
		}
		x1, hh1 := at(pos(s, etaA))
		x2, hh2 := at(pos(s, etaB))
		if i == i0 {
			x1, hh1 = c.Rel.XsiInner, hg.XsiInner
		}
		if i == i1 {
			x2, hh2 = c.Rel.XsiOuter, hg.XsiOuter
		}
		if c.Hinge == nil {
			// keep the hinge-defaulting behaviour of the single segment case
			if _, err := s.AddSubdivisionForControl(etaA, etaB, c, x1, x2, nil, nil); err != nil {
				return err
			}
		} else if _, err := s.AddSubdivisionForControl(etaA, etaB, c, x1, x2, &hh1, &hh2); err != nil {
			return err
		}
	}
	return nil
}
