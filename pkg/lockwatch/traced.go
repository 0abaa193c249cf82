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

// Package lockwatch wraps any locking.Lockable with contention
// accounting and slow-acquisition logging.
package lockwatch

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lockmith/lockmith/internal/syncutil"
	"github.com/lockmith/lockmith/pkg/locking"
)

// DefaultSlowThreshold is the wait duration above which a contended
// acquisition is logged as slow.
const DefaultSlowThreshold = 100 * time.Millisecond

// Snapshot is a point-in-time copy of a Traced mutex's counters.
type Snapshot struct {
	// Acquisitions counts successful Lock and TryLock calls.
	Acquisitions uint64
	// Contentions counts acquisitions that had to wait.
	Contentions uint64
	// TryFailures counts TryLock calls that found the lock held.
	TryFailures uint64
	// Releases counts successful Unlock calls.
	Releases uint64
	// MaxWait is the longest wait observed on a contended acquisition.
	MaxWait time.Duration
	// TotalWait is the summed wait across contended acquisitions.
	TotalWait time.Duration
}

// Traced delegates to an inner Lockable and records how it is used. It
// satisfies locking.Lockable itself, so Guard and Owner can wrap a traced
// mutex transparently.
type Traced struct {
	inner  locking.Lockable
	clock  clockwork.Clock
	name   string
	logger zerolog.Logger
	slow   time.Duration

	mu    syncutil.Mutex
	stats Snapshot
}

var _ locking.Lockable = (*Traced)(nil)

// Option configures a Traced wrapper.
type Option func(*Traced)

// WithClock substitutes the wait-measuring clock; tests pass a
// clockwork fake.
func WithClock(c clockwork.Clock) Option {
	return func(t *Traced) {
		t.clock = c
	}
}

// WithLogger routes slow-acquisition warnings to a specific logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Traced) {
		t.logger = l
	}
}

// WithSlowThreshold overrides DefaultSlowThreshold.
func WithSlowThreshold(d time.Duration) Option {
	return func(t *Traced) {
		t.slow = d
	}
}

// Wrap instruments inner under the given name.
func Wrap(inner locking.Lockable, name string, opts ...Option) *Traced {
	t := &Traced{
		inner:  inner,
		clock:  clockwork.NewRealClock(),
		name:   name,
		logger: log.Logger,
		slow:   DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lock acquires the inner lock, recording whether the acquisition was
// contended and how long it waited. Waits at or above the slow threshold
// are logged as warnings.
func (t *Traced) Lock() error {
	if t.inner.TryLock() {
		t.record(0, false)
		return nil
	}

	start := t.clock.Now()
	if err := t.inner.Lock(); err != nil {
		return err
	}
	wait := t.clock.Since(start)

	if wait >= t.slow {
		t.logger.Warn().
			Str("mutex", t.name).
			Dur("wait", wait).
			Msg("slow lock acquisition")
	}
	t.record(wait, true)

	return nil
}

// TryLock attempts the inner lock without blocking.
func (t *Traced) TryLock() bool {
	ok := t.inner.TryLock()

	t.mu.Lock()
	if ok {
		t.stats.Acquisitions++
	} else {
		t.stats.TryFailures++
	}
	t.mu.Unlock()

	return ok
}

// Unlock releases the inner lock.
func (t *Traced) Unlock() error {
	if err := t.inner.Unlock(); err != nil {
		return err
	}

	t.mu.Lock()
	t.stats.Releases++
	t.mu.Unlock()

	return nil
}

// Name returns the name the mutex was wrapped under.
func (t *Traced) Name() string {
	return t.name
}

// Stats returns a copy of the counters.
func (t *Traced) Stats() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func (t *Traced) record(wait time.Duration, contended bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Acquisitions++
	if contended {
		t.stats.Contentions++
		t.stats.TotalWait += wait
		if wait > t.stats.MaxWait {
			t.stats.MaxWait = wait
		}
	}
}
