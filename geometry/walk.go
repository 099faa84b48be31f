// geometry/walk.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"cmp"
	"iter"
	"slices"
)

// AllSegments yields each segment of the aircraft with its wing, in
// definition order.
func (ac *Aircraft) AllSegments() iter.Seq2[*Wing, *WingSegment] {
	return func(yield func(*Wing, *WingSegment) bool) {
		for _, w := range ac.Wings.All() {
			for _, s := range w.Segments.All() {
				if !yield(w, s) {
					return
				}
			}
		}
	}
}

func (ac *Aircraft) AllControls() iter.Seq2[*Wing, *WingControl] {
	return func(yield func(*Wing, *WingControl) bool) {
		for _, w := range ac.Wings.All() {
			for _, c := range w.Controls.All() {
				if !yield(w, c) {
					return
				}
			}
		}
	}
}

// AllSubdivisions yields every subdivision of the aircraft, segment by
// segment, in creation order.
func (ac *Aircraft) AllSubdivisions() iter.Seq[*Subdivision] {
	return func(yield func(*Subdivision) bool) {
		for _, s := range ac.AllSegments() {
			for _, sd := range s.Subdivisions {
				if !yield(sd) {
					return
				}
			}
		}
	}
}

func (ac *Aircraft) AllSubareas() iter.Seq2[*Subdivision, *Subarea] {
	return func(yield func(*Subdivision, *Subarea) bool) {
		for sd := range ac.AllSubdivisions() {
			for _, sa := range sd.Subareas {
				if !yield(sd, sa) {
					return
				}
			}
		}
	}
}

// SpanwiseSubdivisions returns the segment's subdivisions ordered from
// the inner to the outer edge.
func (s *WingSegment) SpanwiseSubdivisions() []*Subdivision {
	return slices.SortedFunc(slices.Values(s.Subdivisions), func(a, b *Subdivision) int {
		return cmp.Compare(a.EtaA, b.EtaA)
	})
}
