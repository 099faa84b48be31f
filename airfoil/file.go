// airfoil/file.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airfoil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Load reads a coordinate file; see Parse.
func Load(path string) (*Airfoil, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(f, name)
}

// Parse reads airfoil coordinates in either Selig format (one contour
// from the trailing edge over the upper surface and back along the
// lower one) or Lednicer format (point counts followed by each surface
// from the leading edge). An optional non-numeric first line is taken as
// the section name. Coordinates are normalized to unit chord.
func Parse(r io.Reader, name string) (*Airfoil, error) {
	var rows [][2]float64

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f := strings.Fields(strings.ReplaceAll(line, ",", " "))
		var xy [2]float64
		var err error
		if len(f) == 2 {
			if xy[0], err = strconv.ParseFloat(f[0], 64); err == nil {
				xy[1], err = strconv.ParseFloat(f[1], 64)
			}
		}
		if len(f) != 2 || err != nil {
			if len(rows) == 0 && lineno == 1 {
				name = line
				continue
			}
			return nil, fmt.Errorf("%s: line %d: %q: %w", name, lineno, line, ErrInvalidCoordinates)
		}
		rows = append(rows, xy)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("%s: only %d points: %w", name, len(rows), ErrInvalidCoordinates)
	}

	var upper, lower []Point
	if rows[0][0] > 1.5 && rows[0][1] > 1.5 {
		nu, nl := int(rows[0][0]), int(rows[0][1])
		rows = rows[1:]
		if nu+nl != len(rows) || nu < 2 || nl < 2 {
			return nil, fmt.Errorf("%s: expected %d+%d points, found %d: %w", name, nu, nl,
				len(rows), ErrInvalidCoordinates)
		}
		upper, lower = toPoints(rows[:nu]), toPoints(rows[nu:])
	} else {
		le := 0
		for i, r := range rows {
			if r[0] < rows[le][0] {
				le = i
			}
		}
		upper = toPoints(rows[:le+1])
		slices.Reverse(upper)
		lower = toPoints(rows[le:])
	}

	normalize(upper, lower)
	return New(name, upper, lower)
}

func toPoints(rows [][2]float64) []Point {
	p := make([]Point, len(rows))
	for i, r := range rows {
		p[i] = Point{X: r[0], Y: r[1]}
	}
	return p
}

// normalize translates the leading edge to x=0 and scales both surfaces
// to unit chord.
func normalize(upper, lower []Point) {
	xmin, xmax := upper[0].X, upper[0].X
	for _, s := range [][]Point{upper, lower} {
		for _, p := range s {
			xmin, xmax = min(xmin, p.X), max(xmax, p.X)
		}
	}
	if xmin == 0 && xmax == 1 || xmax == xmin {
		return
	}
	c := xmax - xmin
	for _, s := range [][]Point{upper, lower} {
		for i := range s {
			s[i] = Point{X: (s[i].X - xmin) / c, Y: s[i].Y / c}
		}
	}
}
