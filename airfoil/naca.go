// airfoil/naca.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airfoil

import (
	"fmt"
	gomath "math"
	"strings"
)

const nacaPoints = 61

// NACA4 returns the NACA 4-digit section for the given digits (e.g.
// "2412"). Thickness is added normal to the chord line and the trailing
// edge is closed.
func NACA4(digits string) (*Airfoil, error) {
	digits = strings.TrimSpace(digits)
	if len(digits) != 4 {
		return nil, fmt.Errorf("%q: %w", digits, ErrInvalidNACA)
	}
	var d [4]int
	for i, ch := range digits {
		if ch < '0' || ch > '9' {
			return nil, fmt.Errorf("%q: %w", digits, ErrInvalidNACA)
		}
		d[i] = int(ch - '0')
	}

	m := float64(d[0]) / 100
	p := float64(d[1]) / 10
	t := float64(10*d[2]+d[3]) / 100
	if t == 0 {
		return nil, fmt.Errorf("%q: zero thickness: %w", digits, ErrInvalidNACA)
	}
	if m != 0 && p == 0 {
		return nil, fmt.Errorf("%q: camber without camber position: %w", digits, ErrInvalidNACA)
	}

	camber := func(x float64) float64 {
		switch {
		case m == 0:
			return 0
		case x < p:
			return m / (p * p) * (2*p*x - x*x)
		default:
			return m / ((1 - p) * (1 - p)) * ((1 - 2*p) + 2*p*x - x*x)
		}
	}
	thickness := func(x float64) float64 {
		return 5 * t * (0.2969*gomath.Sqrt(x) - 0.1260*x - 0.3516*x*x +
			0.2843*x*x*x - 0.1036*x*x*x*x)
	}

	upper := make([]Point, nacaPoints)
	lower := make([]Point, nacaPoints)
	for i := range nacaPoints {
		// cosine spacing clusters points at both edges
		x := 0.5 * (1 - gomath.Cos(gomath.Pi*float64(i)/float64(nacaPoints-1)))
		yc, yt := camber(x), thickness(x)
		upper[i] = Point{X: x, Y: yc + yt}
		lower[i] = Point{X: x, Y: yc - yt}
	}

	return New("NACA"+digits, upper, lower)
}
