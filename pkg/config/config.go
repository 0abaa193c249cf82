// Lockmith
// Copyright (c) 2026 The Lockmith Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Lockmith.
//
// Lockmith is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Lockmith is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Lockmith.  If not, see <http://www.gnu.org/licenses/>.

// Package config holds the on-disk configuration for the lockstress tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/lockmith/lockmith/internal/syncutil"
	"github.com/lockmith/lockmith/pkg/locking"
)

const (
	SchemaVersion = 1
	CfgEnv        = "LOCKMITH_CFG"
	CfgFile       = "lockstress.toml"
)

type Values struct {
	Stress       Stress `toml:"stress,omitempty"`
	ConfigSchema int    `toml:"config_schema"`
	DebugLogging bool   `toml:"debug_logging"`
}

type Stress struct {
	Policy        string `toml:"policy"`
	SlowThreshold string `toml:"slow_threshold"`
	Workers       int    `toml:"workers"`
	Iterations    int    `toml:"iterations"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Stress: Stress{
		Policy:        "propagate",
		SlowThreshold: "100ms",
		Workers:       8,
		Iterations:    1000,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file under configDir, creating it with the
// given defaults first if it does not exist. The LOCKMITH_CFG environment
// variable overrides the file path.
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top, so fields
	// absent from the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals

	return nil
}

func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := toml.Marshal(c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(c.cfgPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = v
}

func (c *Instance) Workers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Stress.Workers <= 0 {
		return c.defaults.Stress.Workers
	}
	return c.vals.Stress.Workers
}

func (c *Instance) Iterations() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Stress.Iterations <= 0 {
		return c.defaults.Stress.Iterations
	}
	return c.vals.Stress.Iterations
}

// Policy parses the configured lock policy, falling back to the default
// on an unknown value.
func (c *Instance) Policy() locking.Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, err := locking.ParsePolicy(c.vals.Stress.Policy)
	if err != nil {
		log.Warn().Err(err).Msg("invalid policy in config, using propagate")
		return locking.PolicyPropagate
	}
	return p
}

// SlowThreshold parses the configured slow-acquisition threshold, falling
// back to the default on an invalid duration.
func (c *Instance) SlowThreshold() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := time.ParseDuration(c.vals.Stress.SlowThreshold)
	if err != nil || d <= 0 {
		log.Warn().
			Str("slow_threshold", c.vals.Stress.SlowThreshold).
			Msg("invalid slow threshold in config, using default")

		d, err = time.ParseDuration(c.defaults.Stress.SlowThreshold)
		if err != nil || d <= 0 {
			return 100 * time.Millisecond
		}
	}
	return d
}
