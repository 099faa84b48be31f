// util/cache.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrInvalidCachePath = errors.New("Invalid cache path")

// ObjectCache stores msgpack-encoded, zstd-compressed objects in files
// under Dir. An empty Dir means the user's cache directory.
type ObjectCache struct {
	Dir string
}

func (c ObjectCache) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", ErrInvalidCachePath
	}
	dir := c.Dir
	if dir == "" {
		cd, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cd, "wingmesh")
	}
	return filepath.Join(dir, name), nil
}

func (c ObjectCache) Store(name string, obj any) error {
	path, err := c.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}

	if err := msgpack.NewEncoder(zw).Encode(obj); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Retrieve decodes the named object into obj and returns the time it was
// stored.
func (c ObjectCache) Retrieve(name string, obj any) (time.Time, error) {
	path, err := c.path(name)
	if err != nil {
		return time.Time{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return time.Time{}, err
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		return time.Time{}, err
	}
	defer zr.Close()

	return fi.ModTime(), msgpack.NewDecoder(zr).Decode(obj)
}

func (c ObjectCache) Remove(name string) error {
	path, err := c.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
