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

// OwnerState is an Owner's position in its lifecycle. The tagged state
// replaces the owns-flag-plus-nullable-pointer pair so that illegal
// combinations (owning a lock with no mutex bound) cannot be represented.
type OwnerState uint8

const (
	// StateEmpty means no mutex is bound.
	StateEmpty OwnerState = iota
	// StateReleased means a mutex is bound but not currently held.
	StateReleased
	// StateHeld means the bound mutex's lock is held.
	StateHeld
)

func (s OwnerState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReleased:
		return "released"
	case StateHeld:
		return "held"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// An Owner tracks responsibility for one lock acquisition and can hand
// that responsibility between call sites: it may be returned from a
// factory, stored, transferred with Move or TakeFrom, or stripped of its
// binding with Release.
//
// An Owner never owns the mutex object itself, only the locked state of
// the mutex for part of its own lifetime. Owners are single-goroutine
// objects: the state field is not synchronized, so an Owner must not be
// shared between goroutines, and moving one across goroutines requires
// external synchronization such as sending it over a channel.
type Owner struct {
	m     Lockable
	state OwnerState
}

// Acquire locks m and returns an Owner holding it. If the acquisition
// fails no owner is produced and the failure is propagated.
func Acquire(m Lockable) (*Owner, error) {
	if m == nil {
		return nil, ErrNoMutex
	}
	if err := m.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire mutex: %w", err)
	}
	return &Owner{m: m, state: StateHeld}, nil
}

// NewOwner returns an empty Owner with no mutex bound.
func NewOwner() *Owner {
	return &Owner{}
}

// Defer binds m without locking it, so the acquisition can happen later
// via Lock or TryLock.
func Defer(m Lockable) *Owner {
	if m == nil {
		return &Owner{}
	}
	return &Owner{m: m, state: StateReleased}
}

// Lock acquires the bound mutex. It fails with ErrAlreadyOwned if the
// owner already holds the lock and with ErrNoMutex if none is bound; in
// both cases the mutex is not touched.
func (o *Owner) Lock() error {
	switch o.state {
	case StateHeld:
		return ErrAlreadyOwned
	case StateEmpty:
		return ErrNoMutex
	case StateReleased:
	}

	if err := o.m.Lock(); err != nil {
		return err
	}
	o.state = StateHeld

	return nil
}

// TryLock attempts to acquire the bound mutex without blocking and
// reports whether it succeeded. The same usage errors apply as for Lock.
func (o *Owner) TryLock() (bool, error) {
	switch o.state {
	case StateHeld:
		return false, ErrAlreadyOwned
	case StateEmpty:
		return false, ErrNoMutex
	case StateReleased:
	}

	if !o.m.TryLock() {
		return false, nil
	}
	o.state = StateHeld

	return true, nil
}

// Unlock releases the held lock, leaving the mutex bound for a later
// re-acquisition. It fails with ErrNotOwned if the owner does not hold
// the lock; the mutex is not touched. If the mutex itself fails to
// release, the error is propagated and the owner still considers the lock
// held.
func (o *Owner) Unlock() error {
	if o.state != StateHeld {
		return ErrNotOwned
	}

	if err := o.m.Unlock(); err != nil {
		return err
	}
	o.state = StateReleased

	return nil
}

// Release drops the binding without unlocking and returns the mutex,
// transferring responsibility for any held lock to the caller. The owner
// becomes empty. It never fails.
func (o *Owner) Release() Lockable {
	m := o.m
	o.m = nil
	o.state = StateEmpty
	return m
}

// Move transfers the binding and lock state to a fresh Owner, leaving the
// receiver empty. The total number of held locks across both owners is
// unchanged. It never fails.
func (o *Owner) Move() *Owner {
	moved := &Owner{m: o.m, state: o.state}
	o.m = nil
	o.state = StateEmpty
	return moved
}

// TakeFrom releases the receiver's held lock, if any, then steals src's
// binding and state, leaving src empty. Taking from itself is a no-op.
// If releasing the receiver's lock fails, nothing is transferred.
func (o *Owner) TakeFrom(src *Owner) error {
	if o == src {
		return nil
	}

	if o.state == StateHeld {
		if err := o.m.Unlock(); err != nil {
			return fmt.Errorf("failed to release before transfer: %w", err)
		}
	}

	o.m = src.m
	o.state = src.state
	src.m = nil
	src.state = StateEmpty

	return nil
}

// Close releases the held lock, if any, and is a no-op otherwise. It is
// the teardown path and never surfaces errors; defer it wherever an
// Owner's scope ends.
func (o *Owner) Close() {
	if o.state != StateHeld {
		return
	}
	if err := o.m.Unlock(); err != nil {
		log.Debug().Err(err).Msg("owner close failed to release lock")
	}
	o.state = StateReleased
}

// Owns reports whether the owner currently holds its lock.
func (o *Owner) Owns() bool {
	return o.state == StateHeld
}

// State returns the owner's lifecycle state.
func (o *Owner) State() OwnerState {
	return o.state
}
