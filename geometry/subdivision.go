// geometry/subdivision.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/math"
)

// Subdivision is a spanwise slice of a segment. EtaA and EtaB lie on the
// segment's leading edge, EtaD and EtaC on its trailing edge.
type Subdivision struct {
	Index                  int
	EtaA, EtaB, EtaC, EtaD float64
	// Subareas in the order they were added; the segment subarea is
	// always first.
	Subareas []*Subarea

	segment *WingSegment
}

func newSubdivision(s *WingSegment, idx int, etaA, etaB, etaC, etaD float64) *Subdivision {
	sd := &Subdivision{Index: idx, EtaA: etaA, EtaB: etaB, EtaC: etaC, EtaD: etaD, segment: s}
	sd.Subareas = []*Subarea{{Kind: SurfaceSegment, XsiA: 0, XsiB: 0, XsiC: 1, XsiD: 1, subdivision: sd}}
	return sd
}

func (sd *Subdivision) Segment() *WingSegment { return sd.segment }

// Subarea returns the subarea of the given kind or nil if there is none.
func (sd *Subdivision) Subarea(k SurfaceKind) *Subarea {
	for _, sa := range sd.Subareas {
		if sa.Kind == k {
			return sa
		}
	}
	return nil
}

func (sd *Subdivision) isDeformed() bool {
	return sd.segment.wing != nil && sd.segment.wing.IsDeformed()
}

// AbsVertices returns the corners of the subdivision in the global frame.
// For a deformed wing the deformed segment surface is evaluated.
func (sd *Subdivision) AbsVertices(mirror bool) (math.Quad, error) {
	s := sd.segment
	sym := s.symmetry()

	if sd.isDeformed() {
		var q [4]math.Vec3
		for i, rel := range [4][2]float64{{sd.EtaA, 0}, {sd.EtaB, 0}, {sd.EtaC, 1}, {sd.EtaD, 1}} {
			p, err := s.GetDeformedSegmentPoint(rel[0], rel[1], mirror)
			if err != nil {
				return math.Quad{}, err
			}
			q[i] = p
		}
		quad := math.Quad{A: q[0], B: q[1], C: q[2], D: q[3]}
		if mirror {
			quad = sym.OrderMirrored(quad)
		}
		return quad, nil
	}

	v := s.Vertices
	quad := math.Quad{
		A: math.Lerp3(sd.EtaA, v.A, v.B),
		B: math.Lerp3(sd.EtaB, v.A, v.B),
		C: math.Lerp3(sd.EtaC, v.D, v.C),
		D: math.Lerp3(sd.EtaD, v.D, v.C),
	}
	if mirror {
		quad = sym.MirrorVertices(quad)
	}
	return quad, nil
}

// addSubarea adds a flap or slat subarea for ctrl spanning xsi1 (inner
// edge) to xsi2 (outer edge) and shrinks the segment subarea to the
// remaining chord.
func (sd *Subdivision) addSubarea(ctrl *WingControl, xsi1, xsi2, h1, h2 float64) (*Subarea, error) {
	kind := ctrl.Device
	if !kind.IsDevice() {
		return nil, fmt.Errorf("unknown device type %s: %w", kind, ErrInvalidValue)
	}
	if sd.Subarea(kind) != nil {
		return nil, fmt.Errorf("subdivision already has a %s subarea: %w", kind, ErrInvalidValue)
	}
	for _, xsi := range []float64{xsi2, xsi1} {
		if xsi <= 0 || xsi >= 1 {
			return nil, fmt.Errorf("xsi must be in range (0, 1), got %.2e: %w", xsi, ErrInvalidValue)
		}
	}
	for _, xsi := range []float64{h1, h2} {
		if xsi < 0 || xsi > 1 {
			return nil, fmt.Errorf("hinge xsi must be in range [0, 1], got %.2e: %w", xsi, ErrInvalidValue)
		}
	}
	if slat := sd.Subarea(SurfaceSlat); slat != nil {
		if slat.XsiD+MinXsiLimit > xsi1 || slat.XsiC+MinXsiLimit > xsi2 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, ErrOverlappingSubareas)
		}
	}
	if flap := sd.Subarea(SurfaceFlap); flap != nil {
		if xsi1+MinXsiLimit > flap.XsiA || xsi2+MinXsiLimit > flap.XsiB {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, ErrOverlappingSubareas)
		}
	}

	seg := sd.Subareas[0]
	sa := &Subarea{
		Kind:        kind,
		Device:      &Device{XsiH1: h1, XsiH2: h2, Control: ctrl},
		subdivision: sd,
	}
	switch kind {
	case SurfaceSlat:
		sa.XsiA, sa.XsiB, sa.XsiC, sa.XsiD = 0, 0, xsi2, xsi1
		seg.XsiA, seg.XsiB = xsi1, xsi2
	case SurfaceFlap:
		sa.XsiA, sa.XsiB, sa.XsiC, sa.XsiD = xsi1, xsi2, 1, 1
		seg.XsiC, seg.XsiD = xsi2, xsi1
	}
	sd.Subareas = append(sd.Subareas, sa)
	return sa, nil
}

// updateSubarea moves the inner edge of an existing device subarea along
// with the segment subarea next to it.
func (sd *Subdivision) updateSubarea(kind SurfaceKind, xsi1, xsi2, h1, h2 float64) {
	sa, seg := sd.Subarea(kind), sd.Subareas[0]
	if sa == nil {
		return
	}
	switch kind {
	case SurfaceSlat:
		sa.XsiC, sa.XsiD = xsi2, xsi1
		seg.XsiA, seg.XsiB = xsi1, xsi2
	case SurfaceFlap:
		sa.XsiA, sa.XsiB = xsi1, xsi2
		seg.XsiC, seg.XsiD = xsi2, xsi1
	}
	sa.Device.XsiH1, sa.Device.XsiH2 = h1, h2
}

// deviceEdge returns the device's chordwise boundary xsi on the inner and
// outer edge of the subdivision.
func (sa *Subarea) deviceEdge() (inner, outer float64) {
	if sa.Kind == SurfaceSlat {
		return sa.XsiD, sa.XsiC
	}
	return sa.XsiA, sa.XsiB
}

// XsiInterpol returns the xsi at eta of the straight line through the
// segment points (etaInner, xsiInner) and (etaOuter, xsiOuter). The line
// is intersected with the chord line at eta; xsi is then the relative
// distance of the intersection from the leading edge.
func XsiInterpol(v math.Quad, etaInner, xsiInner, etaOuter, xsiOuter, eta float64) float64 {
	point := func(eta, xsi float64) math.Vec3 {
		return math.Lerp3(xsi, math.Lerp3(eta, v.A, v.B), math.Lerp3(eta, v.D, v.C))
	}
	pInner, pOuter := point(etaInner, xsiInner), point(etaOuter, xsiOuter)
	pUpper, pLower := point(eta, 0), point(eta, 1)

	segNormal := r3.Cross(r3.Sub(v.B, v.A), r3.Sub(v.D, v.A))
	planeNormal := r3.Cross(segNormal, r3.Sub(pLower, pUpper))
	p, ok := math.PlaneLineIntersect(planeNormal, pUpper, r3.Sub(pInner, pOuter), pInner)
	chord := math.Distance3(pLower, pUpper)
	if !ok || chord == 0 {
		if etaOuter == etaInner {
			return xsiInner
		}
		return xsiInner + (eta-etaInner)/(etaOuter-etaInner)*(xsiOuter-xsiInner)
	}
	return math.Distance3(p, pUpper) / chord
}

func (s *WingSegment) xsiInterpol(etaInner, xsiInner, etaOuter, xsiOuter, eta float64) float64 {
	return XsiInterpol(s.Vertices, etaInner, xsiInner, etaOuter, xsiOuter, eta)
}

// subdivisionAt returns the subdivision with EtaA <= eta < EtaB and
// whether eta lies on its inner border.
func (s *WingSegment) subdivisionAt(eta float64) (*Subdivision, bool) {
	for _, sd := range s.Subdivisions {
		if sd.EtaA-etaEps <= eta && eta < sd.EtaB-etaEps {
			return sd, math.Abs(eta-sd.EtaA) <= etaEps
		}
	}
	return nil, false
}

// outerNeighbour returns the subdivision that starts at eta.
func (s *WingSegment) outerNeighbour(eta float64) *Subdivision {
	eta += MinEtaLimit / 10
	minDiff := 1.0
	var nb *Subdivision
	for _, sd := range s.Subdivisions {
		if diff := eta - sd.EtaA; diff >= 0 && diff < minDiff {
			minDiff, nb = diff, sd
		}
	}
	return nb
}

// AddSubdivision splits the subdivision containing etaA along the line
// from etaA on the leading edge to etaD on the trailing edge and returns
// the new, outer part. No split happens within MinEtaLimit of an existing
// border, the segment tip included; the subdivision starting at that
// border (at the tip, the one ending there) is returned instead.
// Device subareas of the split subdivision are carried over to both parts.
//
// etaA must be in (0, 1). If the aircraft's IgnoreInvalidEta option is
// set, a nil subdivision and nil error are returned for other values.
func (s *WingSegment) AddSubdivision(etaA, etaD float64) (*Subdivision, error) {
	lg := s.logger()
	if etaA <= 0 || etaA >= 1 {
		lg.Warnf("segment %q: cannot add subdivision at eta = %.3f", s.UID, etaA)
		if s.options().IgnoreInvalidEta {
			return nil, nil
		}
		return nil, fmt.Errorf("segment %q: eta %g must be in range (0, 1): %w", s.UID, etaA, ErrInvalidValue)
	}

	prev, onBorder := s.subdivisionAt(etaA)
	if prev == nil {
		return nil, fmt.Errorf("segment %q: no subdivision at eta %g: %w", s.UID, etaA, ErrNotGenerated)
	}
	if onBorder {
		lg.Debugf("segment %q: subdivision exists at eta = %.3f", s.UID, etaA)
		return prev, nil
	}
	if etaA-prev.EtaA < MinEtaLimit {
		lg.Debugf("segment %q: refusing to subdivide close to existing border (delta eta = %.3f)",
			s.UID, etaA-prev.EtaA)
		return prev, nil
	}
	if prev.EtaB-etaA < MinEtaLimit {
		lg.Debugf("segment %q: refusing to subdivide close to existing border (delta eta = %.3f)",
			s.UID, prev.EtaB-etaA)
		// At the tip there is no outer neighbour and the sliver stays with prev.
		if nb := s.outerNeighbour(prev.EtaB); prev.EtaB < 1 && nb != nil {
			return nb, nil
		}
		return prev, nil
	}

	sd := newSubdivision(s, len(s.Subdivisions), etaA, prev.EtaB, prev.EtaC, etaD)
	s.Subdivisions = append(s.Subdivisions, sd)

	etaAPrev, etaBPrev := prev.EtaA, prev.EtaB
	prev.EtaB, prev.EtaC = etaA, etaD

	for _, kind := range []SurfaceKind{SurfaceFlap, SurfaceSlat} {
		sa := prev.Subarea(kind)
		if sa == nil {
			continue
		}
		x1, x2 := sa.deviceEdge()
		h1, h2 := sa.Device.XsiH1, sa.Device.XsiH2
		x := s.xsiInterpol(etaAPrev, x1, etaBPrev, x2, etaA)
		h := s.xsiInterpol(etaAPrev, h1, etaBPrev, h2, etaA)
		if _, err := sd.addSubarea(sa.Device.Control, x, x2, h, h2); err != nil {
			return nil, fmt.Errorf("segment %q: %w", s.UID, err)
		}
		prev.updateSubarea(kind, x1, x, h1, h)
	}

	lg.Debug("added subdivision", "segment", s.UID, "index", sd.Index, "eta_a", etaA, "eta_d", etaD)
	return sd, nil
}

type subdivisionSpan struct {
	sd             *Subdivision
	xsi1, xsi2     float64
	hinge1, hinge2 float64
}

// AddSubdivisionForControl carves the region of ctrl between etaA and
// etaB out of the segment. Subdivisions are split at etaA and etaB as
// needed and each subdivision in between gets a device subarea from xsi1
// to xsi2 (hinge h1 to h2) interpolated at its borders. A nil hinge
// defaults to the device's xsi.
func (s *WingSegment) AddSubdivisionForControl(etaA, etaB float64, ctrl *WingControl, xsi1, xsi2 float64,
	h1, h2 *float64) ([]*Subdivision, error) {
	lg := s.logger()
	hinge1, hinge2 := xsi1, xsi2
	if h1 != nil {
		hinge1 = *h1
	} else {
		lg.Warnf("segment %q: hinge position xsi_h1 is not defined (assuming xsi1)", s.UID)
	}
	if h2 != nil {
		hinge2 = *h2
	} else {
		lg.Warnf("segment %q: hinge position xsi_h2 is not defined (assuming xsi2)", s.UID)
	}
	if etaB-etaA < MinEtaLimit {
		return nil, fmt.Errorf("segment %q: control %q spans only %.3g in eta: %w", s.UID, ctrl.UID,
			etaB-etaA, ErrInvalidValue)
	}
	if len(s.Subdivisions) == 0 {
		return nil, fmt.Errorf("segment %q: %w", s.UID, ErrNotGenerated)
	}

	var sd1 *Subdivision
	if etaA <= etaEps {
		sd1 = s.Subdivisions[0]
	} else {
		var err error
		if sd1, err = s.AddSubdivision(etaA, etaA); err != nil {
			return nil, err
		} else if sd1 == nil {
			return nil, fmt.Errorf("segment %q: no subdivision at eta %g: %w", s.UID, etaA, ErrInvalidValue)
		}
	}

	spans := []subdivisionSpan{{sd: sd1, xsi1: xsi1, xsi2: xsi2, hinge1: hinge1, hinge2: hinge2}}
	// splitAt cuts the control line at eta, the outer border of the last
	// span, and starts a new span in nb.
	splitAt := func(eta float64, nb *Subdivision) {
		x := s.xsiInterpol(etaA, xsi1, etaB, xsi2, eta)
		h := s.xsiInterpol(etaA, hinge1, etaB, hinge2, eta)
		last := &spans[len(spans)-1]
		last.xsi2, last.hinge2 = x, h
		spans = append(spans, subdivisionSpan{sd: nb, xsi1: x, xsi2: xsi2, hinge1: h, hinge2: hinge2})
	}
	split := func(eta float64) error {
		sd, err := s.AddSubdivision(eta, eta)
		if err == nil && sd == nil {
			err = fmt.Errorf("segment %q: no subdivision at eta %g: %w", s.UID, eta, ErrInvalidValue)
		}
		return err
	}

	switch {
	case math.Abs(etaB-sd1.EtaB) <= etaEps:
	case etaB < sd1.EtaB:
		if err := split(etaB); err != nil {
			return nil, err
		}
	default:
		for n := 0; etaB > spans[len(spans)-1].sd.EtaB+etaEps; n++ {
			if n > int(1/MinEtaLimit) {
				lg.Errorf("segment %q: too many loops", s.UID)
				return nil, fmt.Errorf("segment %q: %w", s.UID, ErrTooManyLoops)
			}
			border := spans[len(spans)-1].sd.EtaB
			nb := s.outerNeighbour(border)
			if nb == nil || nb == spans[len(spans)-1].sd {
				return nil, fmt.Errorf("segment %q: no subdivision beyond eta %g: %w", s.UID, border, ErrNotGenerated)
			}
			splitAt(border, nb)
		}

		last := spans[len(spans)-1]
		if etaB < last.sd.EtaB-etaEps {
			if etaB-last.sd.EtaA < MinEtaLimit {
				// The control would only cover a sliver of the last
				// subdivision.
				spans = spans[:len(spans)-1]
			} else if err := split(etaB); err != nil {
				return nil, err
			}
		}
	}

	sds := make([]*Subdivision, 0, len(spans))
	for _, sp := range spans {
		if _, err := sp.sd.addSubarea(ctrl, sp.xsi1, sp.xsi2, sp.hinge1, sp.hinge2); err != nil {
			return nil, fmt.Errorf("segment %q: control %q: %w", s.UID, ctrl.UID, err)
		}
		sds = append(sds, sp.sd)
	}
	return sds, nil
}
