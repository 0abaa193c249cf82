// Lockmith
// Copyright (c) 2025 The Lockmith Project Contributors.
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

package locking

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// A Guard holds a lock for exactly one scope: Hold acquires, a deferred
// Release releases on every exit path. A Guard is bound to the scope that
// created it; it is not transferable, and copying one is flagged by
// go vet. For transferable ownership use Owner.
type Guard struct {
	_ noCopy
	m Lockable
}

// Hold acquires m and returns a Guard for it. If the acquisition fails no
// guard is produced and the failure is propagated.
//
//	g, err := locking.Hold(m)
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
func Hold(m Lockable) (*Guard, error) {
	if m == nil {
		return nil, ErrNoMutex
	}
	if err := m.Lock(); err != nil {
		return nil, fmt.Errorf("failed to hold mutex: %w", err)
	}
	return &Guard{m: m}, nil
}

// Release unlocks the guarded mutex unconditionally. Teardown never
// surfaces errors: a failed release is logged and swallowed.
func (g *Guard) Release() {
	if err := g.m.Unlock(); err != nil {
		log.Debug().Err(err).Msg("guard release failed")
	}
}

// Do runs fn while holding m, releasing on every exit path including a
// panic unwinding out of fn.
func Do(m Lockable, fn func() error) error {
	g, err := Hold(m)
	if err != nil {
		return err
	}
	defer g.Release()
	return fn()
}
