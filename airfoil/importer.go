// airfoil/importer.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airfoil

import (
	"fmt"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/wingmesh/wingmesh/log"
)

// Importer resolves airfoil definitions, which are either a path to a
// coordinate file or a NACA 4-digit code such as "NACA2412". Parsed
// sections are cached by definition, so segments sharing a section share
// one *Airfoil.
type Importer struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Airfoil]
	lg    *log.Logger
}

const defaultImporterSize = 64

func NewImporter(size int, lg *log.Logger) *Importer {
	if size <= 0 {
		size = defaultImporterSize
	}
	c, err := lru.New[string, *Airfoil](size)
	if err != nil {
		// only fails for non-positive sizes
		panic(err)
	}
	return &Importer{cache: c, lg: lg}
}

func (im *Importer) Import(def string) (*Airfoil, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if a, ok := im.cache.Get(def); ok {
		return a, nil
	}

	var a *Airfoil
	var err error
	if fi, serr := os.Stat(def); serr == nil && fi.Mode().IsRegular() {
		im.lg.Infof("Importing airfoil from file: %q", def)
		a, err = Load(def)
	} else if up := strings.ToUpper(strings.TrimSpace(def)); strings.HasPrefix(up, "NACA") {
		im.lg.Infof("Importing airfoil from NACA definition (%s)", up)
		a, err = NACA4(strings.TrimPrefix(up, "NACA"))
	} else {
		return nil, fmt.Errorf("%q: %w", def, ErrInvalidDefinition)
	}
	if err != nil {
		return nil, err
	}

	im.cache.Add(def, a)
	return a, nil
}

// ImportMorph imports both sections of a segment and blends them.
func (im *Importer) ImportMorph(inner, outer string) (*Morph, error) {
	ia, err := im.Import(inner)
	if err != nil {
		return nil, fmt.Errorf("inner: %w", err)
	}
	oa, err := im.Import(outer)
	if err != nil {
		return nil, fmt.Errorf("outer: %w", err)
	}
	return NewMorph(ia, oa), nil
}

func (im *Importer) Len() int {
	return im.cache.Len()
}
