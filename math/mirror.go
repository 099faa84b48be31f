// math/mirror.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidSymmetry = errors.New("Invalid symmetry plane")

// SymmetryPlane identifies the plane a symmetric wing is mirrored across.
// The numeric values match the legacy integer encoding used by older
// aircraft definitions.
type SymmetryPlane int

const (
	SymmetryNone SymmetryPlane = iota
	SymmetryXY                 // mirror by negating z
	SymmetryXZ                 // mirror by negating y
	SymmetryYZ                 // mirror by negating x
)

func (s SymmetryPlane) String() string {
	switch s {
	case SymmetryNone:
		return "none"
	case SymmetryXY:
		return "xy"
	case SymmetryXZ:
		return "xz"
	case SymmetryYZ:
		return "yz"
	default:
		return "symmetry(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseSymmetryPlane accepts "none", "xy", "xz", "yz" as well as the
// legacy "0" through "3".
func ParseSymmetryPlane(s string) (SymmetryPlane, error) {
	switch s {
	case "none", "0", "":
		return SymmetryNone, nil
	case "xy", "1":
		return SymmetryXY, nil
	case "xz", "2":
		return SymmetryXZ, nil
	case "yz", "3":
		return SymmetryYZ, nil
	default:
		return SymmetryNone, fmt.Errorf("%q: %w", s, ErrInvalidSymmetry)
	}
}

func (s SymmetryPlane) IsSymmetric() bool {
	return s == SymmetryXY || s == SymmetryXZ || s == SymmetryYZ
}

func (s SymmetryPlane) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either a string or a legacy integer.
func (s *SymmetryPlane) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%s: %w", string(b), ErrInvalidSymmetry)
		}
		str = strconv.Itoa(n)
	}
	var err error
	*s, err = ParseSymmetryPlane(str)
	return err
}

// MirrorPoint reflects p across the symmetry plane. Points of wings
// without symmetry are returned unchanged.
func (s SymmetryPlane) MirrorPoint(p Vec3) Vec3 {
	switch s {
	case SymmetryXY:
		p.Z = -p.Z
	case SymmetryXZ:
		p.Y = -p.Y
	case SymmetryYZ:
		p.X = -p.X
	}
	return p
}

// Quad holds the four corners of a wing patch. A and D lie on the inner
// edge, B and C on the outer edge; A and B are on the leading edge.
type Quad struct {
	A, B, C, D Vec3
}

func (q Quad) Corners() [4]Vec3 {
	return [4]Vec3{q.A, q.B, q.C, q.D}
}

// OrderMirrored permutes the corners of a quad whose points were mirrored
// individually so that the mirrored quad keeps a winding consistent with
// the original's panel normal.
func (s SymmetryPlane) OrderMirrored(q Quad) Quad {
	switch s {
	case SymmetryXZ:
		return Quad{A: q.B, B: q.A, C: q.D, D: q.C}
	case SymmetryYZ:
		return Quad{A: q.D, B: q.C, C: q.B, D: q.A}
	default:
		return q
	}
}

// MirrorVertices mirrors each corner of q and then reorders them.
func (s SymmetryPlane) MirrorVertices(q Quad) Quad {
	m := Quad{
		A: s.MirrorPoint(q.A),
		B: s.MirrorPoint(q.B),
		C: s.MirrorPoint(q.C),
		D: s.MirrorPoint(q.D),
	}
	return s.OrderMirrored(m)
}

// Relative coordinate quadruples (xsi or eta values for the corners a,
// b, c, d) follow the same permutation as the points themselves.

func (s SymmetryPlane) OrderMirroredRel(r [4]float64) [4]float64 {
	switch s {
	case SymmetryXZ:
		return [4]float64{r[1], r[0], r[3], r[2]}
	case SymmetryYZ:
		return [4]float64{r[3], r[2], r[1], r[0]}
	default:
		return r
	}
}
