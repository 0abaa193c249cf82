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

// Package locking provides mutual-exclusion primitives with explicit
// lifecycle and ownership reporting: a non-reentrant Mutex, a reentrant
// RecursiveMutex, a scope-bound Guard and a transferable Owner.
//
// Unlike the standard library's sync.Mutex, every misuse these types can
// detect (releasing an unlocked mutex, re-acquiring through an owner that
// already holds its lock, acquiring a closed mutex) is reported as a typed
// error instead of a panic or silent corruption. How strictly errors are
// surfaced is decided once at construction time via WithPolicy.
package locking

// Lockable is the capability set Guard and Owner require of a lock. Mutex,
// RecursiveMutex and lockwatch.Traced all satisfy it.
type Lockable interface {
	// Lock blocks until the lock is acquired.
	Lock() error
	// Unlock releases the lock.
	Unlock() error
	// TryLock acquires the lock without blocking and reports whether it
	// succeeded. It never fails.
	TryLock() bool
}

// noCopy triggers go vet's copylocks check when a Guard is copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
