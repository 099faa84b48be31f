// geometry/aircraft.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/airfoil"
	"github.com/wingmesh/wingmesh/log"
	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"
)

// Refs are the aircraft reference values used to normalize aerodynamic
// coefficients.
type Refs struct {
	Area    *float64   `json:"area"`
	Span    *float64   `json:"span"`
	Chord   *float64   `json:"chord"`
	GCenter *math.Vec3 `json:"gcenter"`
	RCenter *math.Vec3 `json:"rcenter"`
}

// Aircraft is the root of the geometry hierarchy.
type Aircraft struct {
	UID     string
	Version string
	Refs    Refs
	Wings   util.OrderedMap[string, *Wing]
	Options Options
	// Airfoils resolves the airfoil definitions of all segments.
	Airfoils *airfoil.Importer

	// Set by Generate.
	Area float64
	// Size is the diagonal of the bounding box of the aircraft including
	// the mirrored sides of symmetric wings and the origin.
	Size  float64
	BBox  r3.Box
	State bool

	lg *log.Logger
}

const (
	defaultUID     = "AIRCRAFT"
	defaultVersion = "VERSION0"
)

func NewAircraft(lg *log.Logger) *Aircraft {
	ac := &Aircraft{lg: lg}
	ac.Reset()
	return ac
}

func (ac *Aircraft) Logger() *log.Logger { return ac.lg }

// Reset removes all wings and resets the identifiers and reference
// values to their defaults.
func (ac *Aircraft) Reset() {
	ac.UID = defaultUID
	ac.Version = defaultVersion
	ac.Refs = Refs{}
	ac.Wings.Clear()
	ac.Area, ac.Size, ac.BBox = 0, 0, r3.Box{}
	ac.State = false
	if ac.Airfoils == nil {
		ac.Airfoils = airfoil.NewImporter(0, ac.lg)
	}
}

func (ac *Aircraft) AddWing(uid string) (*Wing, error) {
	if uid == "" {
		return nil, fmt.Errorf("empty wing uid: %w", ErrComponentDefinition)
	} else if ac.Wings.Has(uid) {
		return nil, fmt.Errorf("wing %q is already defined: %w", uid, ErrDuplicateUID)
	}
	w := &Wing{UID: uid, aircraft: ac}
	ac.Wings.Set(uid, w)
	return w, nil
}

func (ac *Aircraft) Wing(uid string) (*Wing, bool) {
	return ac.Wings.Get(uid)
}

// Generate generates all wings and computes the aircraft's area and size.
// If check is set the reference values are validated first.
func (ac *Aircraft) Generate(check bool) error {
	ac.lg.Debugf("generating aircraft %q", ac.UID)
	ac.State = false

	if ac.UID == "" {
		return fmt.Errorf("aircraft uid is not defined: %w", ErrComponentDefinition)
	}
	if ac.Version == "" {
		return fmt.Errorf("aircraft %q: version is not defined: %w", ac.UID, ErrComponentDefinition)
	}
	if check {
		if err := ac.CheckRefs(); err != nil {
			return err
		}
	}
	if err := ac.checkUIDs(); err != nil {
		return err
	}

	ac.Area = 0
	pts := []math.Vec3{{}}
	for uid, w := range ac.Wings.All() {
		ac.lg.Debugf("generating wing %q", uid)
		if err := w.Generate(); err != nil {
			return fmt.Errorf("aircraft %q: %w", ac.UID, err)
		}
		ac.Area += w.Area
		for _, s := range w.Segments.All() {
			for _, p := range s.Vertices.Corners() {
				pts = append(pts, p)
				if w.Symmetry.IsSymmetric() {
					pts = append(pts, w.Symmetry.MirrorPoint(p))
				}
			}
		}
	}
	ac.BBox = math.Bounds(pts...)
	ac.Size = r3.Norm(r3.Sub(ac.BBox.Max, ac.BBox.Min))

	ac.State = true
	return nil
}

// checkUIDs ensures that segment uids are unique across the aircraft and
// distinct from the wing uids.
func (ac *Aircraft) checkUIDs() error {
	seen := make(map[string]string)
	for uid := range ac.Wings.All() {
		seen[uid] = "wing"
	}
	for wuid, w := range ac.Wings.All() {
		for suid := range w.Segments.All() {
			if what, ok := seen[suid]; ok {
				return fmt.Errorf("wing %q: segment %q has the same uid as a %s: %w", wuid, suid, what,
					ErrComponentDefinition)
			}
			seen[suid] = "segment"
		}
	}
	return nil
}

// CheckRefs validates the reference values, reporting all problems at once.
func (ac *Aircraft) CheckRefs() error {
	ac.lg.Info("checking reference values")

	var e util.ErrorLogger
	defer e.CheckDepth(e.CurrentDepth())
	e.Push("aircraft " + ac.UID)
	defer e.Pop()
	e.Push("refs")
	defer e.Pop()

	for _, c := range []struct {
		name string
		p    *math.Vec3
	}{{"gcenter", ac.Refs.GCenter}, {"rcenter", ac.Refs.RCenter}} {
		if c.p == nil {
			e.Error(fmt.Errorf("%q is not defined: %w", c.name, ErrComponentDefinition))
		} else if !math.IsFinite(c.p.X) || !math.IsFinite(c.p.Y) || !math.IsFinite(c.p.Z) {
			e.Error(fmt.Errorf("%q must have finite coordinates: %w", c.name, ErrInvalidType))
		}
	}
	for _, c := range []struct {
		name string
		v    *float64
	}{{"area", ac.Refs.Area}, {"span", ac.Refs.Span}, {"chord", ac.Refs.Chord}} {
		if c.v == nil {
			e.Error(fmt.Errorf("%q is not defined: %w", c.name, ErrComponentDefinition))
		} else {
			checkParam(&e, c.name, c.v, func(v float64) bool { return v >= 0 }, "positive")
		}
	}

	return e.Err(ErrComponentDefinition)
}

func (ac *Aircraft) HasDeformedWings() bool {
	for _, w := range ac.Wings.All() {
		if w.IsDeformed() {
			return true
		}
	}
	return false
}

func (ac *Aircraft) TurnOffAllDeformation() {
	for _, w := range ac.Wings.All() {
		w.isDeformed = false
	}
}

// TurnOnAllDeformation re-enables deformation of the wings that have
// been deformed before.
func (ac *Aircraft) TurnOnAllDeformation() {
	for _, w := range ac.Wings.All() {
		if w.WasDeformed() {
			w.isDeformed = true
		}
	}
}
