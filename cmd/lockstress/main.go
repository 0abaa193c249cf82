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

// lockstress hammers the locking primitives from a pool of contending
// goroutines and reports contention statistics. It doubles as a smoke
// test for the whole public surface: Mutex, RecursiveMutex, Guard, Owner
// and the lockwatch wrapper all sit on the hot path.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lockmith/lockmith/pkg/config"
	"github.com/lockmith/lockmith/pkg/locking"
	"github.com/lockmith/lockmith/pkg/lockwatch"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	workers := flag.Int("workers", 0, "contending goroutines (0 = config default)")
	iterations := flag.Int("iterations", 0, "lock/unlock cycles per goroutine (0 = config default)")
	recursive := flag.Bool("recursive", false, "stress the reentrant mutex with nested acquisitions")
	policyFlag := flag.String("policy", "", "error policy: propagate or silent (default from config)")
	configDir := flag.String("config-dir", "", "config directory (default: user config dir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	dir := *configDir
	if dir == "" {
		ucd, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to find user config dir: %w", err)
		}
		dir = filepath.Join(ucd, "lockmith")
	}

	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	if err != nil {
		return err
	}

	if *debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	nWorkers := cfg.Workers()
	if *workers > 0 {
		nWorkers = *workers
	}
	nIters := cfg.Iterations()
	if *iterations > 0 {
		nIters = *iterations
	}

	policy := cfg.Policy()
	if *policyFlag != "" {
		policy, err = locking.ParsePolicy(*policyFlag)
		if err != nil {
			return err
		}
	}

	var inner locking.Lockable
	if *recursive {
		inner = locking.NewRecursiveMutex(locking.WithPolicy(policy))
	} else {
		m, err := locking.NewMutex(locking.WithPolicy(policy))
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		inner = m
	}

	traced := lockwatch.Wrap(inner, "stress",
		lockwatch.WithSlowThreshold(cfg.SlowThreshold()))

	log.Info().
		Int("workers", nWorkers).
		Int("iterations", nIters).
		Bool("recursive", *recursive).
		Stringer("policy", policy).
		Msg("starting stress run")

	start := time.Now()

	var counter int
	g := new(errgroup.Group)
	for i := 0; i < nWorkers; i++ {
		g.Go(func() error {
			owner := locking.Defer(traced)
			for j := 0; j < nIters; j++ {
				switch {
				case j%2 == 0:
					// guard path: scoped acquisition
					err := locking.Do(traced, func() error {
						if *recursive {
							// nested acquisition through the wrapper
							return locking.Do(traced, func() error {
								counter++
								return nil
							})
						}
						counter++
						return nil
					})
					if err != nil {
						return err
					}
				default:
					// owner path: explicit acquire and release
					if err := owner.Lock(); err != nil {
						return err
					}
					counter++
					if err := owner.Unlock(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("stress run failed: %w", err)
	}
	elapsed := time.Since(start)

	want := nWorkers * nIters
	if counter != want {
		return fmt.Errorf("lost updates: counted %d, want %d", counter, want)
	}

	stats := traced.Stats()
	log.Info().
		Uint64("acquisitions", stats.Acquisitions).
		Uint64("contentions", stats.Contentions).
		Uint64("releases", stats.Releases).
		Dur("max_wait", stats.MaxWait).
		Dur("total_wait", stats.TotalWait).
		Dur("elapsed", elapsed).
		Msg("stress run complete")

	fmt.Printf("OK: %d workers x %d iterations, %d updates in %s\n",
		nWorkers, nIters, counter, elapsed.Round(time.Millisecond))

	return nil
}
