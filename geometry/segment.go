// geometry/segment.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"
	gomath "math"
	"slices"
	"strings"

	"github.com/wingmesh/wingmesh/airfoil"
	"github.com/wingmesh/wingmesh/log"
	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"

	"gonum.org/v1/gonum/spatial/r3"
)

// Corners holds the user-provided corner points of a segment. Any subset
// matching one of the supported definitions ("a", "b", "c", "d", "ad",
// "bc", "abcd") may be given; the rest are derived by Generate.
type Corners struct {
	A *math.Vec3 `json:"a,omitempty"`
	B *math.Vec3 `json:"b,omitempty"`
	C *math.Vec3 `json:"c,omitempty"`
	D *math.Vec3 `json:"d,omitempty"`
}

// provided returns the names of the set corners in alphabetical order.
func (c Corners) provided() string {
	var s strings.Builder
	for i, p := range []*math.Vec3{c.A, c.B, c.C, c.D} {
		if p != nil {
			s.WriteByte("abcd"[i])
		}
	}
	return s.String()
}

func (c Corners) get(name byte) math.Vec3 {
	switch name {
	case 'a':
		return *c.A
	case 'b':
		return *c.B
	case 'c':
		return *c.C
	default:
		return *c.D
	}
}

var supportedCorners = []string{"a", "b", "c", "d", "ad", "bc", "abcd"}

// SegmentGeometry holds the optional geometric parameters of a segment.
// Angles are in degrees, axis values are chord fractions.
type SegmentGeometry struct {
	InnerChord *float64 `json:"inner_chord,omitempty"`
	InnerAlpha *float64 `json:"inner_alpha,omitempty"`
	InnerBeta  *float64 `json:"inner_beta,omitempty"`
	InnerAxis  *float64 `json:"inner_axis,omitempty"`
	OuterChord *float64 `json:"outer_chord,omitempty"`
	OuterAlpha *float64 `json:"outer_alpha,omitempty"`
	OuterBeta  *float64 `json:"outer_beta,omitempty"`
	OuterAxis  *float64 `json:"outer_axis,omitempty"`
	Span       *float64 `json:"span,omitempty"`
	Sweep      *float64 `json:"sweep,omitempty"`
	Dihedral   *float64 `json:"dihedral,omitempty"`
}

func (g SegmentGeometry) haveInner() bool {
	return g.InnerChord != nil && g.InnerAlpha != nil && g.InnerBeta != nil
}

func (g SegmentGeometry) haveOuter() bool {
	return g.OuterChord != nil && g.OuterAlpha != nil && g.OuterBeta != nil
}

func (g SegmentGeometry) haveSpanwise() bool {
	return g.Span != nil && g.Sweep != nil && g.Dihedral != nil
}

// requiredCorners returns the corner definitions that, together with the
// set parameters, fully determine the segment.
func (g SegmentGeometry) requiredCorners() []string {
	switch {
	case g.haveInner() && g.haveOuter() && g.haveSpanwise():
		return supportedCorners
	case g.haveOuter() && g.haveSpanwise():
		return []string{"ad", "abcd"}
	case g.haveInner() && g.haveSpanwise():
		return []string{"bc", "abcd"}
	default:
		return []string{"abcd"}
	}
}

// SegmentParams is the complete set of geometric parameters of a
// generated segment.
type SegmentParams struct {
	InnerChord float64 `json:"inner_chord"`
	InnerAlpha float64 `json:"inner_alpha"`
	InnerBeta  float64 `json:"inner_beta"`
	InnerAxis  float64 `json:"inner_axis"`
	OuterChord float64 `json:"outer_chord"`
	OuterAlpha float64 `json:"outer_alpha"`
	OuterBeta  float64 `json:"outer_beta"`
	OuterAxis  float64 `json:"outer_axis"`
	Span       float64 `json:"span"`
	Sweep      float64 `json:"sweep"`
	Dihedral   float64 `json:"dihedral"`
}

const defaultAxis = 0.25

type SegmentAirfoils struct {
	Inner string `json:"inner"`
	Outer string `json:"outer"`
}

// Panels holds discretisation counts; zero means not set.
type Panels struct {
	NumC int `json:"num_c,omitempty"`
	NumS int `json:"num_s,omitempty"`
}

// Position is the normalized spanwise station of a segment's inner and
// outer edge within its wing.
type Position struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// WingSegment is a quadrilateral piece of a wing. A and D are on the
// inner edge, B and C on the outer edge; A and B are on the leading edge.
type WingSegment struct {
	UID      string          `json:"uid"`
	Corners  Corners         `json:"vertices"`
	Geometry SegmentGeometry `json:"geometry"`
	Airfoils SegmentAirfoils `json:"airfoils"`
	Panels   Panels          `json:"panels"`

	// Set by Generate.
	Vertices     math.Quad      `json:"-"`
	Params       SegmentParams  `json:"-"`
	Area         float64        `json:"-"`
	Airfoil      *airfoil.Morph `json:"-"`
	Subdivisions []*Subdivision `json:"-"`
	State        bool           `json:"-"`
	// Set by Wing.Generate.
	Position Position `json:"-"`

	// Deformation fields for the main and the mirrored side. A nil
	// DeformationMirror on a symmetric wing is replaced by Deformation
	// when the fields are finalized. ClearDeformation resets both.
	Deformation       *Deformation `json:"-"`
	DeformationMirror *Deformation `json:"-"`

	wing *Wing
	// The Deformation that DeformationMirror was defaulted to, if any.
	defaultMirror *Deformation
}

func (s *WingSegment) Wing() *Wing { return s.wing }

func (s *WingSegment) logger() *log.Logger {
	if s.wing == nil || s.wing.aircraft == nil {
		return nil
	}
	return s.wing.aircraft.lg
}

func (s *WingSegment) options() Options {
	if s.wing == nil || s.wing.aircraft == nil {
		return Options{}
	}
	return s.wing.aircraft.Options
}

func (s *WingSegment) symmetry() math.SymmetryPlane {
	if s.wing == nil {
		return math.SymmetryNone
	}
	return s.wing.Symmetry
}

func checkParam(e *util.ErrorLogger, name string, v *float64, inRange func(float64) bool, what string) {
	if v == nil {
		return
	}
	if !math.IsFinite(*v) {
		e.Error(fmt.Errorf("%q must be a finite number: %w", name, ErrInvalidType))
	} else if inRange != nil && !inRange(*v) {
		e.Error(fmt.Errorf("%q must be %s, got %g: %w", name, what, *v, ErrInvalidValue))
	}
}

func angle90(v float64) bool     { return math.InClosedRange(v, -90, 90) }
func unitInterval(v float64) bool { return math.InClosedRange(v, 0, 1) }

func (s *WingSegment) check(e *util.ErrorLogger) {
	for i, p := range []*math.Vec3{s.Corners.A, s.Corners.B, s.Corners.C, s.Corners.D} {
		if p != nil && !(math.IsFinite(p.X) && math.IsFinite(p.Y) && math.IsFinite(p.Z)) {
			e.Error(fmt.Errorf("vertex %q must have finite coordinates: %w", "abcd"[i:i+1], ErrInvalidType))
		}
	}

	g := s.Geometry
	checkParam(e, "inner_chord", g.InnerChord, nil, "")
	checkParam(e, "outer_chord", g.OuterChord, nil, "")
	checkParam(e, "inner_alpha", g.InnerAlpha, angle90, "between -90 and +90 degrees")
	checkParam(e, "outer_alpha", g.OuterAlpha, angle90, "between -90 and +90 degrees")
	checkParam(e, "inner_beta", g.InnerBeta, angle90, "between -90 and +90 degrees")
	checkParam(e, "outer_beta", g.OuterBeta, angle90, "between -90 and +90 degrees")
	checkParam(e, "inner_axis", g.InnerAxis, unitInterval, "between 0 and 1")
	checkParam(e, "outer_axis", g.OuterAxis, unitInterval, "between 0 and 1")
	checkParam(e, "span", g.Span, nil, "")
	checkParam(e, "sweep", g.Sweep, func(v float64) bool { return math.InOpenRange(v, -90, 90) },
		"between -90 and +90 degrees (exclusive)")
	checkParam(e, "dihedral", g.Dihedral, func(v float64) bool { return v > -180 && v <= 180 },
		"in (-180, 180] degrees")

	if s.Airfoils.Inner == "" {
		e.Error(fmt.Errorf("inner wing profile is not defined: %w", ErrComponentDefinition))
	}
	if s.Airfoils.Outer == "" {
		e.Error(fmt.Errorf("outer wing profile is not defined: %w", ErrComponentDefinition))
	}

	if s.Panels.NumC < 0 {
		e.Error(fmt.Errorf("num_c must be positive: %w", ErrInvalidValue))
	}
	if s.Panels.NumS < 0 {
		e.Error(fmt.Errorf("num_s must be positive: %w", ErrInvalidValue))
	}
}

// edge describes the chord line of a segment edge relative to its
// leading-edge point.
type edge struct {
	rel                 math.Vec3
	r, cosB, sinB, tanA float64
}

func edgeFromParams(chord, alpha, beta float64) edge {
	tanA := math.Tand(alpha)
	cosB, sinB := math.Cosd(beta), math.Sind(beta)
	r := chord / gomath.Sqrt(1+tanA*tanA*cosB*cosB)
	return edge{
		rel:  math.Vec3{X: r * cosB, Y: r * sinB, Z: -r * cosB * tanA},
		r:    r,
		cosB: cosB,
		sinB: sinB,
		tanA: tanA,
	}
}

// edgeFromPoints derives the chord, alpha and beta of the edge running
// from le to te.
func edgeFromPoints(le, te math.Vec3) (e edge, chord, alpha, beta float64, err error) {
	e.rel = r3.Sub(te, le)
	e.r = gomath.Hypot(e.rel.X, e.rel.Y)
	if e.r == 0 {
		err = fmt.Errorf("edge has no extent in the x-y plane: %w", ErrInvalidValue)
		return
	}
	chord = r3.Norm(e.rel)
	e.cosB, e.sinB = e.rel.X/e.r, e.rel.Y/e.r
	beta = math.Degrees(gomath.Asin(e.sinB))
	alpha = -math.Degrees(gomath.Atan2(e.rel.Z, e.r*e.cosB))
	e.tanA = math.Tand(alpha)
	return
}

// axisOffset returns the y and z offset of the edge's leading-edge point
// with respect to its dihedral axis point.
func (e edge) axisOffset(axis float64) (y, z float64) {
	return e.r * axis * e.sinB, e.r * axis * e.cosB * e.tanA
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Generate validates the segment definition and computes its vertices,
// complete geometry, area and airfoil. The subdivisions are reset to the
// single subdivision covering the whole segment.
func (s *WingSegment) Generate() error {
	lg := s.logger()
	s.State = false

	var e util.ErrorLogger
	e.Push("segment " + s.UID)
	s.check(&e)
	e.Pop()
	if e.HaveErrors() {
		return e.Err(ErrComponentDefinition)
	}

	provided := s.Corners.provided()
	if provided == "" {
		return fmt.Errorf("segment %q: no reference point provided: %w", s.UID, ErrComponentDefinition)
	}
	if !slices.Contains(supportedCorners, provided) {
		return fmt.Errorf("segment %q: unsupported segment definition %q: %w", s.UID, provided, ErrComponentDefinition)
	}
	lg.Info("reference points provided", "segment", s.UID, "points", provided)
	if !slices.Contains(s.Geometry.requiredCorners(), provided) {
		return fmt.Errorf("segment %q: geometric properties of segment ill-defined: %w", s.UID, ErrComponentDefinition)
	}

	if err := s.derive(provided); err != nil {
		return fmt.Errorf("segment %q: %w", s.UID, err)
	}
	s.Area = 0.5 * s.Params.Span * (s.Params.InnerChord + s.Params.OuterChord)
	lg.Debug("generated segment", "segment", s.UID, "vertices", s.Vertices, "area", s.Area)

	var im *airfoil.Importer
	if s.wing != nil && s.wing.aircraft != nil {
		im = s.wing.aircraft.Airfoils
	}
	if im == nil {
		im = airfoil.NewImporter(0, lg)
	}
	m, err := im.ImportMorph(s.Airfoils.Inner, s.Airfoils.Outer)
	if err != nil {
		return fmt.Errorf("segment %q: %w", s.UID, err)
	}
	s.Airfoil = m

	s.resetSubdivisions()
	s.State = true
	return nil
}

func (s *WingSegment) derive(provided string) error {
	g := s.Geometry
	p := SegmentParams{
		InnerChord: deref(g.InnerChord, 0),
		InnerAlpha: deref(g.InnerAlpha, 0),
		InnerBeta:  deref(g.InnerBeta, 0),
		InnerAxis:  deref(g.InnerAxis, defaultAxis),
		OuterChord: deref(g.OuterChord, 0),
		OuterAlpha: deref(g.OuterAlpha, 0),
		OuterBeta:  deref(g.OuterBeta, 0),
		OuterAxis:  deref(g.OuterAxis, defaultAxis),
		Span:       deref(g.Span, 0),
		Sweep:      deref(g.Sweep, 0),
		Dihedral:   deref(g.Dihedral, 0),
	}
	has := func(c byte) bool { return strings.IndexByte(provided, c) != -1 }

	var inner, outer edge
	var err error
	if has('a') && has('d') {
		inner, p.InnerChord, p.InnerAlpha, p.InnerBeta, err = edgeFromPoints(*s.Corners.A, *s.Corners.D)
		if err != nil {
			return fmt.Errorf("inner %w", err)
		}
	} else {
		inner = edgeFromParams(p.InnerChord, p.InnerAlpha, p.InnerBeta)
	}
	if has('b') && has('c') {
		outer, p.OuterChord, p.OuterAlpha, p.OuterBeta, err = edgeFromPoints(*s.Corners.B, *s.Corners.C)
		if err != nil {
			return fmt.Errorf("outer %w", err)
		}
	} else {
		outer = edgeFromParams(p.OuterChord, p.OuterAlpha, p.OuterBeta)
	}

	aiy, aiz := inner.axisOffset(p.InnerAxis)
	aoy, aoz := outer.axisOffset(p.OuterAxis)
	axsY, axsZ := aoy-aiy, aoz-aiz

	if provided == "abcd" {
		c := s.Corners
		ab := r3.Sub(*c.B, *c.A)
		// span measured at the leading edge, dihedral along the axis
		p.Span = gomath.Hypot(ab.Y, ab.Z)
		if p.Span == 0 {
			return fmt.Errorf("segment has zero span: %w", ErrInvalidValue)
		}
		p.Sweep = math.Degrees(gomath.Atan2(ab.X, p.Span))
		p.Dihedral = math.Degrees(gomath.Atan2(ab.Z+axsZ, ab.Y+axsY))
		s.Vertices = math.Quad{A: *c.A, B: *c.B, C: *c.C, D: *c.D}
		s.Params = p
		return nil
	}

	if p.Span == 0 {
		return fmt.Errorf("segment has zero span: %w", ErrInvalidValue)
	}
	cosD, sinD := math.Cosd(p.Dihedral), math.Sind(p.Dihedral)
	axr := (axsZ*cosD - axsY*sinD) / p.Span
	if math.Abs(axr) > 1 {
		return fmt.Errorf("axis offset %g exceeds span %g: %w", axr*p.Span, p.Span, ErrInvalidValue)
	}
	// effective dihedral of the leading edge
	dihAx := math.Radians(p.Dihedral) - gomath.Asin(axr)
	off := math.Vec3{
		X: p.Span * math.Tand(p.Sweep),
		Y: p.Span * gomath.Cos(dihAx),
		Z: p.Span * gomath.Sin(dihAx),
	}

	rel := math.Quad{A: math.Vec3{}, B: off, C: r3.Add(off, outer.rel), D: inner.rel}
	relPt := map[byte]math.Vec3{'a': rel.A, 'b': rel.B, 'c': rel.C, 'd': rel.D}
	ref := provided[0]
	shift := r3.Sub(s.Corners.get(ref), relPt[ref])
	q := math.Quad{
		A: r3.Add(rel.A, shift),
		B: r3.Add(rel.B, shift),
		C: r3.Add(rel.C, shift),
		D: r3.Add(rel.D, shift),
	}

	// Restore A, D inner and A, B leading for inverted definitions.
	if p.Span < 0 {
		q = math.Quad{A: q.B, B: q.A, C: q.D, D: q.C}
	}
	if math.Abs(p.Dihedral) > 90 {
		q = math.Quad{A: q.B, B: q.A, C: q.D, D: q.C}
	}
	for _, flip := range []bool{p.InnerChord < 0, math.Abs(p.InnerAlpha) > 90, math.Abs(p.InnerBeta) > 90} {
		if flip {
			q.A, q.D = q.D, q.A
		}
	}
	for _, flip := range []bool{p.OuterChord < 0, math.Abs(p.OuterAlpha) > 90, math.Abs(p.OuterBeta) > 90} {
		if flip {
			q.B, q.C = q.C, q.B
		}
	}

	s.Vertices = q
	s.Params = p
	return nil
}

func (s *WingSegment) resetSubdivisions() {
	s.Subdivisions = []*Subdivision{newSubdivision(s, 0, 0, 1, 1, 0)}
}

// SegmentPoint returns the undeformed point at the relative coordinates
// (eta, xsi) of the segment.
func (s *WingSegment) SegmentPoint(eta, xsi float64) math.Vec3 {
	upper := math.Lerp3(eta, s.Vertices.A, s.Vertices.B)
	lower := math.Lerp3(eta, s.Vertices.D, s.Vertices.C)
	return math.Lerp3(xsi, upper, lower)
}

// NormalVector returns the (unnormalized) normal AB x AD.
func (s *WingSegment) NormalVector() math.Vec3 {
	v := s.Vertices
	return r3.Cross(r3.Sub(v.B, v.A), r3.Sub(v.D, v.A))
}

// MainDirection is perpendicular to the inner chord within the segment
// plane, pointing spanwise.
func (s *WingSegment) MainDirection() math.Vec3 {
	v := s.Vertices
	return r3.Cross(r3.Sub(v.D, v.A), s.NormalVector())
}

// DeformationRotAxis returns the global axis about which the twist of a
// deformed segment is applied: Y for mostly horizontal segments and Z
// otherwise.
func (s *WingSegment) DeformationRotAxis() math.Vec3 {
	m := s.MainDirection()
	if r3.Dot(m, math.YAxis) > r3.Dot(m, math.ZAxis) {
		return math.YAxis
	}
	return math.ZAxis
}

// deformation returns the field used for the main or the mirrored side.
func (s *WingSegment) deformation(mirror bool) *Deformation {
	if mirror && s.DeformationMirror != nil {
		return s.DeformationMirror
	}
	if mirror && !s.symmetry().IsSymmetric() {
		return nil
	}
	return s.Deformation
}

// GetDeformedSegmentPoint returns the point at (eta, xsi) of the deformed
// segment. The chord line through eta is translated by the interpolated
// displacement and twisted about DeformationRotAxis.
func (s *WingSegment) GetDeformedSegmentPoint(eta, xsi float64, mirror bool) (math.Vec3, error) {
	d := s.deformation(mirror)
	if d == nil {
		return math.Vec3{}, fmt.Errorf("segment %q: no deformation: %w", s.UID, ErrComponentDefinition)
	}
	u, theta, err := d.At(eta)
	if err != nil {
		return math.Vec3{}, fmt.Errorf("segment %q: %w", s.UID, err)
	}

	v := s.Vertices
	upper := math.Lerp3(eta, v.A, v.B)
	lower := math.Lerp3(eta, v.D, v.C)
	u2l := math.RotateAbout(r3.Sub(lower, upper), theta, s.DeformationRotAxis())
	if mirror {
		sym := s.symmetry()
		upper = sym.MirrorPoint(upper)
		u2l = sym.MirrorPoint(u2l)
	}
	return r3.Add(r3.Add(upper, u), r3.Scale(xsi, u2l)), nil
}

func (s *WingSegment) ClearDeformation() {
	s.Deformation, s.DeformationMirror, s.defaultMirror = nil, nil, nil
}

// FinalizeDeformation fits the interpolating splines of the segment's
// deformation tables. A mirrored side that was defaulted to an earlier
// main deformation follows the current one.
func (s *WingSegment) FinalizeDeformation() error {
	lg := s.logger()
	if s.Deformation == nil {
		return fmt.Errorf("segment %q: no deformation defined: %w", s.UID, ErrComponentDefinition)
	}
	if err := s.Deformation.Finalize(); err != nil {
		return fmt.Errorf("segment %q: %w", s.UID, err)
	}

	if s.DeformationMirror != nil && s.DeformationMirror == s.defaultMirror {
		s.DeformationMirror = nil
	}
	s.defaultMirror = nil
	if s.symmetry().IsSymmetric() {
		if s.DeformationMirror == nil {
			lg.Warnf("segment %q: no mirrored deformation given, using main deformation", s.UID)
			s.DeformationMirror = s.Deformation
			s.defaultMirror = s.Deformation
		} else if err := s.DeformationMirror.Finalize(); err != nil {
			return fmt.Errorf("segment %q: mirror: %w", s.UID, err)
		}
	} else if s.DeformationMirror != nil {
		return fmt.Errorf("segment %q: mirrored deformation given for a wing without symmetry: %w",
			s.UID, ErrComponentDefinition)
	}
	return nil
}
