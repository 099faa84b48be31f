// deform/deform.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package deform loads precomputed spanwise deformation fields and
// installs them on the segments of a generated aircraft.
package deform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wingmesh/wingmesh/geometry"
	"github.com/wingmesh/wingmesh/math"
	"github.com/wingmesh/wingmesh/util"
)

var ErrInvalidDeformation = errors.New("Invalid deformation definition")

// Station is the deformation at one eta: the displacement ux, uy, uz
// followed by the twist vector tx, ty, tz (radians).
type Station struct {
	Eta    float64   `json:"eta"`
	Deform []float64 `json:"deform"`
}

// Entry is the deformation of one side of one segment.
type Entry struct {
	Wing    string    `json:"wing"`
	Segment string    `json:"segment"`
	Mirror  bool      `json:"mirror"`
	Deform  []Station `json:"deform"`
}

// Load decodes a deformation document: a JSON list of entries. Unknown
// keys and values of the wrong type are reported together.
func Load(r io.Reader) ([]Entry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var e util.ErrorLogger
	e.Push("deformation")
	util.CheckJSON[[]Entry](b, &e)
	e.Pop()
	if e.HaveErrors() {
		return nil, e.Err(ErrInvalidDeformation)
	}

	var entries []Entry
	if err := util.UnmarshalJSONBytes(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidDeformation)
	}
	return entries, nil
}

func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Table converts the stations of an entry to the raw deformation table of
// s. The twist vector is projected on the segment's rotation axis; its
// signed length is the twist angle.
func Table(s *geometry.WingSegment, stations []Station) (geometry.DeformationTable, error) {
	axis := s.DeformationRotAxis()

	var t geometry.DeformationTable
	for i, st := range stations {
		if len(st.Deform) != 6 {
			return geometry.DeformationTable{}, fmt.Errorf("segment %q: station %d: expected 6 deformation values, got %d: %w",
				s.UID, i, len(st.Deform), ErrInvalidDeformation)
		}
		d := st.Deform
		proj := math.VectorProjection(math.Vec3{X: d[3], Y: d[4], Z: d[5]}, axis)

		t.Eta = append(t.Eta, st.Eta)
		t.UX = append(t.UX, d[0])
		t.UY = append(t.UY, d[1])
		t.UZ = append(t.UZ, d[2])
		t.Theta = append(t.Theta, math.Sign(r3.Dot(proj, axis))*r3.Norm(proj))
	}
	return t, nil
}

// Apply installs the deformation entries on the segments of ac and marks
// their wings deformed. Earlier deformation of those wings is dropped. The deformation of every segment of a deformed
// wing is then finalized; if check is set the deformation must also be
// continuous across segment borders.
func Apply(ac *geometry.Aircraft, entries []Entry, check bool) error {
	lg := ac.Logger()
	if !ac.State {
		return fmt.Errorf("aircraft %q: %w", ac.UID, geometry.ErrNotGenerated)
	}
	lg.Infof("applying %d deformation entries", len(entries))

	// The entries replace all earlier deformation of the wings they name.
	cleared := make(map[*geometry.Wing]bool)
	for _, en := range entries {
		w, ok := ac.Wing(en.Wing)
		if !ok {
			return fmt.Errorf("deformation: wing %q: %w", en.Wing, geometry.ErrUnknownComponent)
		}
		if !cleared[w] {
			for _, s := range w.Segments.Values() {
				s.ClearDeformation()
			}
			cleared[w] = true
		}
		s, ok := w.Segments.Get(en.Segment)
		if !ok {
			return fmt.Errorf("deformation: wing %q: segment %q: %w", en.Wing, en.Segment,
				geometry.ErrUnknownComponent)
		}

		t, err := Table(s, en.Deform)
		if err != nil {
			return fmt.Errorf("deformation: wing %q: %w", en.Wing, err)
		}
		w.SetDeformed(true)
		if en.Mirror {
			s.DeformationMirror = geometry.NewDeformation(t)
		} else {
			s.Deformation = geometry.NewDeformation(t)
		}
		lg.Debug("installed deformation", "wing", en.Wing, "segment", en.Segment, "mirror", en.Mirror,
			"stations", t.Len())
	}

	for w, s := range ac.AllSegments() {
		if !w.IsDeformed() {
			continue
		}
		if err := s.FinalizeDeformation(); err != nil {
			return fmt.Errorf("deformation: wing %q: %w", w.UID, err)
		}
	}

	if !check {
		lg.Warn("Skipping deformation check (there may be discontinuities)")
		return nil
	}
	for _, w := range ac.Wings.All() {
		if w.IsDeformed() {
			if err := w.CheckDeformationContinuity(); err != nil {
				return err
			}
		}
	}
	return nil
}
