// geometry/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import "errors"

var (
	ErrComponentDefinition = errors.New("Component definition error")
	ErrInvalidValue        = errors.New("Invalid value")
	ErrInvalidType         = errors.New("Invalid type")
	ErrOverlappingSubareas = errors.New("Refusing to create overlapping subareas")
	ErrTooManyLoops        = errors.New("Too many loops")
	ErrDuplicateUID        = errors.New("Duplicate uid")
	ErrUnknownComponent    = errors.New("Unknown component")
	ErrNotGenerated        = errors.New("Component has not been generated")
)

const (
	// Tol is the tolerance used when comparing edge directions of
	// adjacent segments.
	Tol = 1e-2
	// MinXsiLimit is the smallest chordwise gap allowed between a slat
	// and a flap in the same subdivision.
	MinXsiLimit = 0.01
	// MinEtaLimit is the smallest spanwise width of a subdivision.
	MinEtaLimit = 0.01

	// etaEps is used when comparing eta values that should coincide.
	etaEps = 1e-9
)

// Options holds the settings that modify how geometry is generated.
type Options struct {
	// IgnoreInvalidEta makes AddSubdivision log a warning and return nil
	// rather than failing when asked to split at eta outside (0, 1).
	IgnoreInvalidEta bool
}
