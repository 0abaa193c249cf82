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

import "sync"

// A Mutex is a non-reentrant mutual exclusion lock backed by a
// channel-token handle: a buffered channel of capacity one holds a single
// token while the mutex is unlocked, and acquiring the lock means taking
// the token. There is no separate locked flag; the lock state lives
// entirely in the handle.
//
// A Mutex is not bound to a particular goroutine: any goroutine may
// release a held lock, and ErrUnlock means "not locked" rather than
// "locked by someone else". Use Owner for per-call-site ownership
// tracking.
type Mutex struct {
	slot      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	policy    Policy
}

// NewMutex allocates the native handle and returns an unlocked mutex.
// It fails with ErrInit if the options are invalid.
func NewMutex(opts ...Option) (*Mutex, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	m := &Mutex{
		slot:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		policy: o.policy,
	}
	m.slot <- struct{}{}

	return m, nil
}

// Lock blocks the calling goroutine indefinitely until the lock is
// acquired. It fails with ErrAbandoned (an ErrLock) if the mutex is
// closed before or while waiting.
func (m *Mutex) Lock() error {
	select {
	case <-m.done:
		return m.policy.resolve(ErrAbandoned)
	default:
	}

	select {
	case <-m.slot:
		return nil
	case <-m.done:
		return m.policy.resolve(ErrAbandoned)
	}
}

// TryLock acquires the lock without blocking and reports whether it
// succeeded. It never fails; a closed mutex simply cannot be acquired.
func (m *Mutex) TryLock() bool {
	select {
	case <-m.done:
		return false
	default:
	}

	select {
	case <-m.slot:
		return true
	default:
		return false
	}
}

// Unlock releases the lock. It fails with ErrUnlock if the mutex is not
// locked.
func (m *Mutex) Unlock() error {
	select {
	case m.slot <- struct{}{}:
		return nil
	default:
		return m.policy.resolve(ErrUnlock)
	}
}

// Close tears down the handle, waking any blocked Lock calls with
// ErrAbandoned. It is unconditional and idempotent, and does not check
// whether the lock is currently held; closing a held mutex is a caller
// error whose effect on waiters is exactly the abandonment they will be
// reported.
func (m *Mutex) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	return nil
}
