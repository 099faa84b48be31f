// geometry/deformation.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geometry

import (
	"fmt"

	"github.com/brunoga/deep"
	"gonum.org/v1/gonum/interp"

	"github.com/wingmesh/wingmesh/math"
)

// DeformationTable is the raw spanwise deformation of a segment: for each
// eta, the displacement (UX, UY, UZ) and the twist Theta in radians about
// the segment's rotation axis.
type DeformationTable struct {
	Eta   []float64 `json:"eta" msgpack:"eta"`
	UX    []float64 `json:"ux" msgpack:"ux"`
	UY    []float64 `json:"uy" msgpack:"uy"`
	UZ    []float64 `json:"uz" msgpack:"uz"`
	Theta []float64 `json:"theta" msgpack:"theta"`
}

func (t DeformationTable) Len() int { return len(t.Eta) }

func (t DeformationTable) validate() error {
	n := len(t.Eta)
	if n < 2 {
		return fmt.Errorf("deformation needs at least two eta stations, got %d: %w", n, ErrComponentDefinition)
	}
	for _, c := range [][]float64{t.UX, t.UY, t.UZ, t.Theta} {
		if len(c) != n {
			return fmt.Errorf("deformation columns have different lengths: %w", ErrComponentDefinition)
		}
		for _, v := range c {
			if !math.IsFinite(v) {
				return fmt.Errorf("deformation value %v is not finite: %w", v, ErrInvalidType)
			}
		}
	}
	for i, eta := range t.Eta {
		if !math.InClosedRange(eta, 0, 1) {
			return fmt.Errorf("deformation eta %g outside [0, 1]: %w", eta, ErrInvalidValue)
		}
		if i > 0 && eta <= t.Eta[i-1] {
			return fmt.Errorf("deformation eta values must be strictly increasing: %w", ErrInvalidValue)
		}
	}
	return nil
}

// Deformation is either a raw table or, after Finalize, a set of splines
// fitted to it. Evaluation is only possible once finalized.
type Deformation struct {
	raw    DeformationTable
	spline *deformationSplines
}

type deformationSplines struct {
	ux, uy, uz, theta interp.Predictor
}

// NewDeformation takes a private copy of t.
func NewDeformation(t DeformationTable) *Deformation {
	return &Deformation{raw: deep.MustCopy(t)}
}

// Table returns a copy of the raw deformation table.
func (d *Deformation) Table() DeformationTable {
	return deep.MustCopy(d.raw)
}

func (d *Deformation) Interpolated() bool {
	return d.spline != nil
}

func fitColumn(eta, v []float64) (interp.Predictor, error) {
	var p interp.FittablePredictor
	switch len(eta) {
	case 2:
		p = &interp.PiecewiseLinear{}
	case 3:
		// The not-a-knot conditions leave a single parabola through three
		// points; gonum's solver is singular there.
		p = &parabola{}
	default:
		p = &interp.NotAKnotCubic{}
	}
	if err := p.Fit(eta, v); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidValue)
	}
	return p, nil
}

// parabola interpolates three points with a quadratic in Newton form.
type parabola struct {
	x          [3]float64
	c0, c1, c2 float64
}

func (p *parabola) Fit(xs, ys []float64) error {
	if len(xs) != 3 || len(ys) != 3 {
		return fmt.Errorf("parabola needs 3 points, got %d", len(xs))
	}
	if !(xs[0] < xs[1] && xs[1] < xs[2]) {
		return fmt.Errorf("parabola abscissas not strictly increasing")
	}
	copy(p.x[:], xs)
	d01 := (ys[1] - ys[0]) / (xs[1] - xs[0])
	d12 := (ys[2] - ys[1]) / (xs[2] - xs[1])
	p.c0, p.c1, p.c2 = ys[0], d01, (d12-d01)/(xs[2]-xs[0])
	return nil
}

// Predict holds the end values outside the fitted range, like the gonum
// predictors.
func (p *parabola) Predict(x float64) float64 {
	x = math.Clamp(x, p.x[0], p.x[2])
	return p.c0 + (x-p.x[0])*(p.c1+(x-p.x[1])*p.c2)
}

// Finalize fits not-a-knot cubic splines to each column: a straight line
// for two stations and a parabola for three. Calling it again refits from
// the raw table.
func (d *Deformation) Finalize() error {
	if err := d.raw.validate(); err != nil {
		return err
	}
	var s deformationSplines
	for _, c := range []struct {
		p *interp.Predictor
		v []float64
	}{{&s.ux, d.raw.UX}, {&s.uy, d.raw.UY}, {&s.uz, d.raw.UZ}, {&s.theta, d.raw.Theta}} {
		p, err := fitColumn(d.raw.Eta, c.v)
		if err != nil {
			return err
		}
		*c.p = p
	}
	d.spline = &s
	return nil
}

// At returns the displacement and twist at eta. Outside the table's eta
// range the values at the nearest end are held.
func (d *Deformation) At(eta float64) (math.Vec3, float64, error) {
	if d.spline == nil {
		return math.Vec3{}, 0, fmt.Errorf("deformation has not been finalized: %w", ErrNotGenerated)
	}
	s := d.spline
	return math.Vec3{X: s.ux.Predict(eta), Y: s.uy.Predict(eta), Z: s.uz.Predict(eta)}, s.theta.Predict(eta), nil
}
