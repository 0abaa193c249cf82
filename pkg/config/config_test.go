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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockmith/lockmith/pkg/locking"
)

func TestNewConfig_CreatesDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	require.NoError(t, err, "default config file should be written")

	assert.Equal(t, 8, cfg.Workers())
	assert.Equal(t, 1000, cfg.Iterations())
	assert.Equal(t, locking.PolicyPropagate, cfg.Policy())
	assert.Equal(t, 100*time.Millisecond, cfg.SlowThreshold())
	assert.False(t, cfg.DebugLogging())
}

func TestNewConfig_EnvOverridesPath(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "elsewhere", "my.toml")
	t.Setenv(CfgEnv, custom)

	_, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(custom)
	assert.NoError(t, err, "config should be created at the env path")
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	t.Setenv(CfgEnv, "")

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.True(t, reloaded.DebugLogging())
}

func TestConfig_FileValuesOverrideDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")

	dir := t.TempDir()
	data := []byte(`config_schema = 1

[stress]
workers = 32
policy = "silent"
slow_threshold = "5ms"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Workers())
	assert.Equal(t, locking.PolicySilent, cfg.Policy())
	assert.Equal(t, 5*time.Millisecond, cfg.SlowThreshold())
	// absent fields keep their defaults
	assert.Equal(t, 1000, cfg.Iterations())
}

func TestConfig_SchemaMismatch(t *testing.T) {
	t.Setenv(CfgEnv, "")

	dir := t.TempDir()
	data := []byte("config_schema = 99\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	assert.Error(t, err)
}

func TestConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv(CfgEnv, "")

	dir := t.TempDir()
	data := []byte(`config_schema = 1

[stress]
workers = 0
iterations = -5
policy = "loud"
slow_threshold = "sometime"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers())
	assert.Equal(t, 1000, cfg.Iterations())
	assert.Equal(t, locking.PolicyPropagate, cfg.Policy())
	assert.Equal(t, 100*time.Millisecond, cfg.SlowThreshold())
}
