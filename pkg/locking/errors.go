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
	"errors"
	"fmt"
)

var (
	// ErrInit is returned when a primitive cannot be constructed.
	ErrInit = errors.New("failed to create mutex")

	// ErrLock is returned when a blocking acquire ends abnormally.
	ErrLock = errors.New("failed to lock mutex")

	// ErrAbandoned reports that the mutex was closed before or while the
	// caller was waiting for it. It matches errors.Is against both itself
	// and ErrLock.
	ErrAbandoned = fmt.Errorf("%w: mutex closed", ErrLock)

	// ErrUnlock is returned when a release is attempted on a mutex that is
	// not locked.
	ErrUnlock = errors.New("failed to release mutex")

	// ErrAlreadyOwned is returned by Owner.Lock and Owner.TryLock when the
	// owner already holds its lock. The underlying mutex is not touched.
	ErrAlreadyOwned = errors.New("lock already owned")

	// ErrNotOwned is returned by Owner.Unlock when the owner does not hold
	// its lock. The underlying mutex is not touched.
	ErrNotOwned = errors.New("no lock to release")

	// ErrNoMutex is returned by operations on an empty Owner or a nil
	// Lockable.
	ErrNoMutex = errors.New("no mutex bound")
)
