// airfoil/airfoil.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package airfoil provides wing section shapes: NACA 4-digit sections,
// sections read from coordinate files, and linear blends of two sections
// across a wing segment.
package airfoil

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/wingmesh/wingmesh/math"
)

var (
	ErrInvalidDefinition  = errors.New("Airfoil definition is neither a file nor a NACA code")
	ErrInvalidNACA        = errors.New("Invalid NACA 4-digit code")
	ErrInvalidCoordinates = errors.New("Invalid airfoil coordinates")
)

// Point is a chord-normalized section coordinate: X runs from 0 at the
// leading edge to 1 at the trailing edge.
type Point struct {
	X, Y float64
}

// Airfoil is a section shape given as upper and lower surface points,
// each ordered from leading to trailing edge.
type Airfoil struct {
	Name  string
	Upper []Point
	Lower []Point

	upper, lower interp.PiecewiseLinear
}

// New returns an Airfoil for the given surfaces. Each surface needs at
// least two points with strictly increasing X.
func New(name string, upper, lower []Point) (*Airfoil, error) {
	a := &Airfoil{Name: name, Upper: upper, Lower: lower}
	if err := fitSurface(&a.upper, upper); err != nil {
		return nil, fmt.Errorf("%s: upper surface: %w", name, err)
	}
	if err := fitSurface(&a.lower, lower); err != nil {
		return nil, fmt.Errorf("%s: lower surface: %w", name, err)
	}
	return a, nil
}

func fitSurface(pl *interp.PiecewiseLinear, pts []Point) error {
	if len(pts) < 2 {
		return fmt.Errorf("%d points: %w", len(pts), ErrInvalidCoordinates)
	}
	xs, ys := make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		if !math.IsFinite(p.X) || !math.IsFinite(p.Y) {
			return fmt.Errorf("point %d not finite: %w", i, ErrInvalidCoordinates)
		}
		if i > 0 && p.X <= pts[i-1].X {
			return fmt.Errorf("x not increasing at point %d: %w", i, ErrInvalidCoordinates)
		}
		xs[i], ys[i] = p.X, p.Y
	}
	return pl.Fit(xs, ys)
}

// UpperAt returns the upper surface ordinate at chord station x. Values
// outside the surface's range are clamped to its end points.
func (a *Airfoil) UpperAt(x float64) float64 { return a.upper.Predict(x) }

func (a *Airfoil) LowerAt(x float64) float64 { return a.lower.Predict(x) }

// CamberAt returns the mean line ordinate at chord station x.
func (a *Airfoil) CamberAt(x float64) float64 {
	return 0.5 * (a.UpperAt(x) + a.LowerAt(x))
}

func (a *Airfoil) ThicknessAt(x float64) float64 {
	return a.UpperAt(x) - a.LowerAt(x)
}

// MaxThickness returns the largest thickness found over n evenly spaced
// stations.
func (a *Airfoil) MaxThickness(n int) float64 {
	var t float64
	for i := range n {
		t = max(t, a.ThicknessAt(float64(i)/float64(max(n-1, 1))))
	}
	return t
}

// Morph blends two sections linearly across a segment: eta 0 gives the
// inner section and eta 1 the outer one.
type Morph struct {
	Inner, Outer *Airfoil
}

func NewMorph(inner, outer *Airfoil) *Morph {
	return &Morph{Inner: inner, Outer: outer}
}

func (m *Morph) blend(eta float64, f func(*Airfoil) float64) float64 {
	eta = math.Clamp(eta, 0, 1)
	return (1-eta)*f(m.Inner) + eta*f(m.Outer)
}

func (m *Morph) UpperAt(eta, x float64) float64 {
	return m.blend(eta, func(a *Airfoil) float64 { return a.UpperAt(x) })
}

func (m *Morph) LowerAt(eta, x float64) float64 {
	return m.blend(eta, func(a *Airfoil) float64 { return a.LowerAt(x) })
}

func (m *Morph) CamberAt(eta, x float64) float64 {
	return m.blend(eta, func(a *Airfoil) float64 { return a.CamberAt(x) })
}

// Camber returns n+1 mean line points of the blended section at eta,
// evenly spaced in x.
func (m *Morph) Camber(eta float64, n int) []Point {
	pts := make([]Point, n+1)
	for i := range pts {
		x := float64(i) / float64(n)
		pts[i] = Point{X: x, Y: m.CamberAt(eta, x)}
	}
	return pts
}
