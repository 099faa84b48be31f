// geometry/wing.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/log"
	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"
)

// Wing is an ordered sequence of segments, inner to outer, together with
// the control devices attached to them.
type Wing struct {
	UID      string                                `json:"uid"`
	Symmetry math.SymmetryPlane                    `json:"symmetry"`
	Segments util.OrderedMap[string, *WingSegment] `json:"-"`
	Controls util.OrderedMap[string, *WingControl] `json:"-"`

	// Set by Generate.
	Span       float64 `json:"-"`
	Area       float64 `json:"-"`
	Continuous bool    `json:"-"`
	State      bool    `json:"-"`

	isDeformed, wasDeformed bool
	aircraft                *Aircraft
}

func (w *Wing) Aircraft() *Aircraft { return w.aircraft }

func (w *Wing) logger() *log.Logger {
	if w.aircraft == nil {
		return nil
	}
	return w.aircraft.lg
}

func (w *Wing) IsDeformed() bool  { return w.isDeformed }
func (w *Wing) WasDeformed() bool { return w.wasDeformed }

// SetDeformed switches deformed evaluation of the wing on or off. Once a
// wing has been deformed it stays marked as such in WasDeformed.
func (w *Wing) SetDeformed(d bool) {
	w.isDeformed = d
	if d {
		w.wasDeformed = true
	}
}

func (w *Wing) AddSegment(uid string) (*WingSegment, error) {
	if uid == "" {
		return nil, fmt.Errorf("wing %q: empty segment uid: %w", w.UID, ErrComponentDefinition)
	} else if w.Segments.Has(uid) {
		return nil, fmt.Errorf("wing %q: segment %q already exists: %w", w.UID, uid, ErrDuplicateUID)
	}
	s := &WingSegment{UID: uid, wing: w}
	s.resetSubdivisions()
	w.Segments.Set(uid, s)
	return s, nil
}

func (w *Wing) AddControl(uid string) (*WingControl, error) {
	if uid == "" {
		return nil, fmt.Errorf("wing %q: empty control uid: %w", w.UID, ErrComponentDefinition)
	} else if w.Controls.Has(uid) {
		return nil, fmt.Errorf("wing %q: control %q already exists: %w", w.UID, uid, ErrDuplicateUID)
	}
	c := &WingControl{UID: uid, wing: w}
	w.Controls.Set(uid, c)
	return c, nil
}

// Generate generates all segments, assigns their spanwise positions,
// checks the continuity of the wing and carves out the controls.
func (w *Wing) Generate() error {
	lg := w.logger()
	w.State = false
	if w.Symmetry < math.SymmetryNone || w.Symmetry > math.SymmetryYZ {
		return fmt.Errorf("wing %q: symmetry %d must be 0, 1, 2 or 3: %w", w.UID, int(w.Symmetry), ErrInvalidValue)
	}

	w.Span, w.Area = 0, 0
	for uid, s := range w.Segments.All() {
		lg.Debugf("generating segment %q", uid)
		if err := s.Generate(); err != nil {
			return fmt.Errorf("wing %q: %w", w.UID, err)
		}
		w.Span += math.Abs(s.Params.Span)
		w.Area += s.Area
	}

	if w.Span > 0 {
		pos := 0.0
		for _, s := range w.Segments.All() {
			s.Position.Inner = pos / w.Span
			pos += s.Params.Span
			s.Position.Outer = pos / w.Span
		}
	}

	w.Continuous = w.checkContinuity()
	if !w.Continuous {
		lg.Warnf("wing %q is discontinuous", w.UID)
	}

	for uid, c := range w.Controls.All() {
		lg.Debugf("applying control %q", uid)
		c.State = false
		if err := c.Check(); err != nil {
			return fmt.Errorf("wing %q: %w", w.UID, err)
		}
		if err := c.apply(); err != nil {
			return fmt.Errorf("wing %q: %w", w.UID, err)
		}
		c.State = true
	}

	w.State = true
	return nil
}

func unitOrZero(v math.Vec3) math.Vec3 {
	return math.Normalize3(math.AbsComponents(v))
}

// checkContinuity tests whether neighbouring segments share an edge. Edge
// directions are compared ignoring orientation, so this is a collinearity
// test rather than one of coincidence.
func (w *Wing) checkContinuity() bool {
	lg := w.logger()
	segs := w.Segments.Values()
	near := func(a, b math.Vec3) bool { return r3.Norm(r3.Sub(a, b)) < Tol }

	continuous := true
	for i := 0; i+1 < len(segs); i++ {
		v1, v2 := segs[i].Vertices, segs[i+1].Vertices
		dir := func(from, to math.Vec3) math.Vec3 { return unitOrZero(r3.Sub(to, from)) }

		a1d1, b1c1 := dir(v1.A, v1.D), dir(v1.B, v1.C)
		a2d2, b2c2 := dir(v2.A, v2.D), dir(v2.B, v2.C)

		ok := false
		switch {
		case near(a2d2, b1c1):
			ok = near(a2d2, dir(v1.B, v2.D)) || near(a2d2, dir(v1.C, v2.D))
			if ok {
				lg.Debugf("wing %q: edge %d-%d is continuous (root-to-tip)", w.UID, i, i+1)
			}
		case near(b2c2, a1d1):
			ok = near(b2c2, dir(v1.A, v2.C)) || near(b2c2, dir(v1.D, v2.C))
			if ok {
				lg.Debugf("wing %q: edge %d-%d is continuous (tip-to-root)", w.UID, i, i+1)
			}
		case near(b2c2, b1c1):
			ok = near(b2c2, dir(v1.B, v2.C)) || near(b2c2, dir(v1.C, v2.C))
			if ok {
				lg.Debugf("wing %q: edge %d-%d is continuous (with discontinuous normal)", w.UID, i, i+1)
			}
		case near(a2d2, a1d1):
			ok = near(a2d2, dir(v1.A, v2.D)) || near(a2d2, dir(v1.D, v2.D))
			if ok {
				lg.Debugf("wing %q: edge %d-%d is continuous (with discontinuous normal)", w.UID, i, i+1)
			}
		}
		if !ok {
			lg.Warnf("wing %q: edge %d-%d is discontinuous", w.UID, i, i+1)
		}
		continuous = continuous && ok
	}
	return continuous
}

// CheckDeformationContinuity returns an error if the displacement or twist
// at the border of two neighbouring segments differ, on either side of a
// symmetric wing.
func (w *Wing) CheckDeformationContinuity() error {
	w.logger().Infof("wing %q: checking continuity of wing deformation", w.UID)
	segs := w.Segments.Values()
	for i := 0; i+1 < len(segs); i++ {
		inner, outer := segs[i], segs[i+1]
		sides := []bool{false}
		if w.Symmetry.IsSymmetric() {
			sides = append(sides, true)
		}
		for _, mirror := range sides {
			di, do := inner.deformation(mirror), outer.deformation(mirror)
			if di == nil || do == nil {
				return fmt.Errorf("wing %q: segments %q, %q: deformation missing: %w", w.UID, inner.UID, outer.UID,
					ErrComponentDefinition)
			}
			ui, ti, err := di.At(1)
			if err != nil {
				return fmt.Errorf("wing %q: segment %q: %w", w.UID, inner.UID, err)
			}
			uo, to, err := do.At(0)
			if err != nil {
				return fmt.Errorf("wing %q: segment %q: %w", w.UID, outer.UID, err)
			}
			side := "non-mirrored"
			if mirror {
				side = "mirrored"
			}
			for _, c := range []struct {
				name   string
				vi, vo float64
			}{{"ux", ui.X, uo.X}, {"uy", ui.Y, uo.Y}, {"uz", ui.Z, uo.Z}, {"theta", ti, to}} {
				if c.vi != c.vo {
					return fmt.Errorf("wing %q: deformation (%q) on %s wing is not continuous between segments (%q, %q): %w",
						w.UID, c.name, side, inner.UID, outer.UID, ErrComponentDefinition)
				}
			}
		}
	}
	return nil
}
