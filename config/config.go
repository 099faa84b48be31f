// config/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wingmesh/wingmesh/geometry"
	"github.com/wingmesh/wingmesh/log"
	"github.com/wingmesh/wingmesh/mesh"
	"github.com/wingmesh/wingmesh/util"
)

var ErrInvalidConfig = errors.New("Invalid configuration")

// Config holds the engine settings. Keys missing from a configuration
// file keep the values from Default.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogDir    string `json:"log_dir"`
	LogStderr bool   `json:"log_stderr"`

	IgnoreInvalidEta bool `json:"ignore_invalid_eta"`
	// DeformationCheck enables the continuity check of loaded
	// deformation fields.
	DeformationCheck bool `json:"deformation_check"`

	Workers  int    `json:"workers"`
	CacheDir string `json:"cache_dir"`
}

func Default() Config {
	return Config{
		LogLevel:         "info",
		DeformationCheck: true,
	}
}

func Load(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	var e util.ErrorLogger
	e.Push("config")
	util.CheckJSON[Config](b, &e)
	e.Pop()
	if e.HaveErrors() {
		return Config{}, e.Err(ErrInvalidConfig)
	}

	c := Default()
	if err := util.UnmarshalJSONBytes(b, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", err, ErrInvalidConfig)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	var e util.ErrorLogger
	e.Push("config")
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		e.Error(err)
	}
	if c.Workers < 0 {
		e.ErrorString("\"workers\" must not be negative, got %d", c.Workers)
	}
	e.Pop()
	return e.Err(ErrInvalidConfig)
}

func (c Config) NewLogger() *log.Logger {
	return log.New(c.LogLevel, c.LogDir, c.LogStderr)
}

func (c Config) GeometryOptions() geometry.Options {
	return geometry.Options{IgnoreInvalidEta: c.IgnoreInvalidEta}
}

func (c Config) MeshOptions() mesh.Options {
	return mesh.Options{Workers: c.Workers, CacheDir: c.CacheDir}
}

// NewAircraft returns an empty aircraft using the configured geometry
// options.
func (c Config) NewAircraft(lg *log.Logger) *geometry.Aircraft {
	ac := geometry.NewAircraft(lg)
	ac.Options = c.GeometryOptions()
	return ac
}
