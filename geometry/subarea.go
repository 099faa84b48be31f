// geometry/subarea.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"encoding/json"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/math"
)

// SurfaceKind tags a subarea as plain wing surface or as part of a
// control device.
type SurfaceKind int

const (
	SurfaceSegment SurfaceKind = iota
	SurfaceFlap
	SurfaceSlat
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceSegment:
		return "segment"
	case SurfaceFlap:
		return "flap"
	case SurfaceSlat:
		return "slat"
	default:
		return fmt.Sprintf("SurfaceKind(%d)", int(k))
	}
}

// IsDevice reports whether k is a control device kind.
func (k SurfaceKind) IsDevice() bool {
	return k == SurfaceFlap || k == SurfaceSlat
}

func ParseSurfaceKind(s string) (SurfaceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "segment":
		return SurfaceSegment, nil
	case "flap":
		return SurfaceFlap, nil
	case "slat":
		return SurfaceSlat, nil
	default:
		return SurfaceSegment, fmt.Errorf("%q: unknown surface type: %w", s, ErrInvalidType)
	}
}

func (k SurfaceKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SurfaceKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var err error
	*k, err = ParseSurfaceKind(s)
	return err
}

// Device holds the data only flap and slat subareas carry.
type Device struct {
	// Relative hinge positions on the inner (H1) and outer (H2) edge.
	XsiH1, XsiH2 float64
	Control      *WingControl
}

// Subarea is a chordwise part of a subdivision. XsiA and XsiD lie on the
// subdivision's inner edge, XsiB and XsiC on its outer edge; A and B are
// the leading corners.
type Subarea struct {
	Kind                   SurfaceKind
	XsiA, XsiB, XsiC, XsiD float64
	// Device is non-nil exactly for flap and slat subareas.
	Device *Device

	subdivision *Subdivision
}

func (sa *Subarea) Subdivision() *Subdivision { return sa.subdivision }

func (sa *Subarea) symmetry() math.SymmetryPlane {
	return sa.subdivision.segment.symmetry()
}

// RelLength returns the mean chordwise extent of the subarea.
func (sa *Subarea) RelLength() float64 {
	return 0.5 * ((sa.XsiC + sa.XsiD) - (sa.XsiA + sa.XsiB))
}

func (sa *Subarea) mirroredXsi() [4]float64 {
	switch sym := sa.symmetry(); sym {
	case math.SymmetryYZ:
		// the chordwise direction is reversed as well
		return [4]float64{1 - sa.XsiD, 1 - sa.XsiC, 1 - sa.XsiB, 1 - sa.XsiA}
	default:
		return sym.OrderMirroredRel([4]float64{sa.XsiA, sa.XsiB, sa.XsiC, sa.XsiD})
	}
}

// AbsVertices returns the corners of the subarea in the global frame,
// deformed if the wing currently is.
func (sa *Subarea) AbsVertices(mirror bool) (math.Quad, error) {
	sd, err := sa.subdivision.AbsVertices(mirror)
	if err != nil {
		return math.Quad{}, err
	}
	x := [4]float64{sa.XsiA, sa.XsiB, sa.XsiC, sa.XsiD}
	if mirror {
		x = sa.mirroredXsi()
	}
	return math.Quad{
		A: math.Lerp3(x[0], sd.A, sd.D),
		B: math.Lerp3(x[1], sd.B, sd.C),
		C: math.Lerp3(x[2], sd.B, sd.C),
		D: math.Lerp3(x[3], sd.A, sd.D),
	}, nil
}

// AbsHingeVertices returns the inner and outer hinge points of a flap or
// slat subarea.
func (sa *Subarea) AbsHingeVertices(mirror bool) (inner, outer math.Vec3, err error) {
	if sa.Device == nil {
		return inner, outer, fmt.Errorf("%s subarea has no hinge: %w", sa.Kind, ErrInvalidType)
	}
	sd, err := sa.subdivision.AbsVertices(mirror)
	if err != nil {
		return inner, outer, err
	}
	h1, h2 := sa.Device.XsiH1, sa.Device.XsiH2
	if mirror {
		switch sa.symmetry() {
		case math.SymmetryXZ:
			h1, h2 = h2, h1
		case math.SymmetryYZ:
			h1, h2 = 1-h1, 1-h2
		}
	}
	return math.Lerp3(h1, sd.A, sd.D), math.Lerp3(h2, sd.B, sd.C), nil
}

func (sa *Subarea) AbsHingeAxis(mirror bool) (math.Vec3, error) {
	inner, outer, err := sa.AbsHingeVertices(mirror)
	if err != nil {
		return math.Vec3{}, err
	}
	return r3.Sub(outer, inner), nil
}

// AbsCamberLineRotAxisVertices returns the corner A of the subarea and the
// point one unit away from it along the axis about which the camber line
// is rotated. The axis is normal to AD and lies in the subarea plane.
func (sa *Subarea) AbsCamberLineRotAxisVertices(mirror bool) (inner, outer math.Vec3, err error) {
	q, err := sa.AbsVertices(mirror)
	if err != nil {
		return inner, outer, err
	}
	ab, ad := r3.Sub(q.B, q.A), r3.Sub(q.D, q.A)
	axis := r3.Cross(r3.Cross(ab, ad), ad)
	return q.A, r3.Add(q.A, math.Normalize3(axis)), nil
}

func (sa *Subarea) AbsCamberLineRotAxis(mirror bool) (math.Vec3, error) {
	inner, outer, err := sa.AbsCamberLineRotAxisVertices(mirror)
	if err != nil {
		return math.Vec3{}, err
	}
	return r3.Sub(outer, inner), nil
}

// CollocationXsi returns the chordwise positions of the collocation
// points of n equally spaced panels, each at 3/4 of its panel's chord.
func (sa *Subarea) CollocationXsi(n int) []float64 {
	if n <= 0 {
		return nil
	}
	midAB := 0.5 * (sa.XsiA + sa.XsiB)
	midCD := 0.5 * (sa.XsiC + sa.XsiD)
	xsi := make([]float64, n)
	for i := range xsi {
		xsi[i] = midAB + (float64(i)+0.75)/float64(n)*(midCD-midAB)
	}
	return xsi
}
