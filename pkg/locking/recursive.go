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
	"sync/atomic"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog/log"
)

// A RecursiveMutex is a reentrant mutual exclusion lock: the goroutine
// that holds it may lock it again without blocking, and must unlock it
// once per acquisition before another goroutine can take it.
//
// The holder is identified by goroutine id, the same mechanism go-deadlock
// uses. The depth counter is only ever touched by the current holder, so
// it needs no synchronization of its own; handover happens through the
// channel-token handle.
type RecursiveMutex struct {
	slot   chan struct{}
	owner  atomic.Int64
	depth  int
	policy Policy
}

// NewRecursiveMutex returns an unlocked reentrant mutex. Construction
// cannot fail: invalid options are replaced with defaults and logged.
func NewRecursiveMutex(opts ...Option) *RecursiveMutex {
	o, err := newOptions(opts)
	if err != nil {
		log.Warn().Err(err).Msg("invalid recursive mutex options, using defaults")
		o = defaultOptions()
	}

	m := &RecursiveMutex{
		slot:   make(chan struct{}, 1),
		policy: o.policy,
	}
	m.slot <- struct{}{}

	return m
}

// Lock acquires the lock, blocking indefinitely if another goroutine
// holds it. A goroutine that already holds the lock acquires it again
// immediately; that is success, not an error.
func (m *RecursiveMutex) Lock() error {
	me := goid.Get()
	if m.owner.Load() == me {
		m.depth++
		return nil
	}

	<-m.slot
	m.owner.Store(me)
	m.depth = 1

	return nil
}

// TryLock acquires the lock without blocking and reports whether it
// succeeded. It always succeeds for the goroutine that already holds the
// lock.
func (m *RecursiveMutex) TryLock() bool {
	me := goid.Get()
	if m.owner.Load() == me {
		m.depth++
		return true
	}

	select {
	case <-m.slot:
		m.owner.Store(me)
		m.depth = 1
		return true
	default:
		return false
	}
}

// Unlock undoes one Lock or successful TryLock by the holding goroutine.
// The lock is released to other goroutines only when every nested
// acquisition has been undone. It fails with ErrUnlock if the calling
// goroutine does not hold the lock.
func (m *RecursiveMutex) Unlock() error {
	me := goid.Get()
	if m.owner.Load() != me {
		return m.policy.resolve(ErrUnlock)
	}

	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.slot <- struct{}{}
	}

	return nil
}
