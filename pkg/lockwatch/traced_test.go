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

package lockwatch

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockmith/lockmith/pkg/locking"
)

func newTracedMutex(t *testing.T, opts ...Option) (*Traced, *locking.Mutex) {
	t.Helper()
	m, err := locking.NewMutex()
	require.NoError(t, err)
	return Wrap(m, "test", opts...), m
}

func TestTraced_Name(t *testing.T) {
	t.Parallel()

	tr, _ := newTracedMutex(t)
	assert.Equal(t, "test", tr.Name())
}

func TestTraced_UncontendedLock(t *testing.T) {
	t.Parallel()

	tr, _ := newTracedMutex(t)

	require.NoError(t, tr.Lock())
	require.NoError(t, tr.Unlock())

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Acquisitions)
	assert.Equal(t, uint64(0), stats.Contentions)
	assert.Equal(t, uint64(1), stats.Releases)
	assert.Equal(t, time.Duration(0), stats.MaxWait)
}

func TestTraced_TryLockCounters(t *testing.T) {
	t.Parallel()

	tr, _ := newTracedMutex(t)

	assert.True(t, tr.TryLock())
	assert.False(t, tr.TryLock())

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Acquisitions)
	assert.Equal(t, uint64(1), stats.TryFailures)

	require.NoError(t, tr.Unlock())
}

func TestTraced_UnlockErrorPropagates(t *testing.T) {
	t.Parallel()

	tr, _ := newTracedMutex(t)

	err := tr.Unlock()
	assert.ErrorIs(t, err, locking.ErrUnlock)

	stats := tr.Stats()
	assert.Equal(t, uint64(0), stats.Releases, "failed release must not be counted")
}

func TestTraced_ContendedLockRecordsWait(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	clock := clockwork.NewFakeClock()

	tr, m := newTracedMutex(t,
		WithClock(clock),
		WithLogger(logger),
		WithSlowThreshold(100*time.Millisecond),
	)

	require.NoError(t, m.Lock())

	waiting := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(waiting)
		done <- tr.Lock()
	}()

	<-waiting
	time.Sleep(100 * time.Millisecond) // let the waiter block on the inner lock
	clock.Advance(250 * time.Millisecond)
	require.NoError(t, m.Unlock())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("contended lock never completed")
	}

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Acquisitions)
	assert.Equal(t, uint64(1), stats.Contentions)
	assert.Equal(t, 250*time.Millisecond, stats.MaxWait)
	assert.Equal(t, 250*time.Millisecond, stats.TotalWait)

	assert.Contains(t, buf.String(), "slow lock acquisition")
	assert.Contains(t, buf.String(), `"mutex":"test"`)

	require.NoError(t, tr.Unlock())
}

func TestTraced_FastContentionNotLoggedAsSlow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	clock := clockwork.NewFakeClock()

	tr, m := newTracedMutex(t,
		WithClock(clock),
		WithLogger(logger),
		WithSlowThreshold(time.Hour),
	)

	require.NoError(t, m.Lock())

	waiting := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(waiting)
		done <- tr.Lock()
	}()

	<-waiting
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, m.Unlock())
	require.NoError(t, <-done)

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Contentions)
	assert.NotContains(t, buf.String(), "slow lock acquisition")

	require.NoError(t, tr.Unlock())
}

func TestTraced_WorksWithGuardAndOwner(t *testing.T) {
	t.Parallel()

	tr, _ := newTracedMutex(t)

	err := locking.Do(tr, func() error { return nil })
	require.NoError(t, err)

	o, err := locking.Acquire(tr)
	require.NoError(t, err)
	require.NoError(t, o.Unlock())

	stats := tr.Stats()
	assert.Equal(t, uint64(2), stats.Acquisitions)
	assert.Equal(t, uint64(2), stats.Releases)
}

func TestTraced_WrapsRecursiveMutex(t *testing.T) {
	t.Parallel()

	tr := Wrap(locking.NewRecursiveMutex(), "reentrant")

	require.NoError(t, tr.Lock())
	require.NoError(t, tr.Lock())
	require.NoError(t, tr.Unlock())
	require.NoError(t, tr.Unlock())

	stats := tr.Stats()
	assert.Equal(t, uint64(2), stats.Acquisitions)
	assert.Equal(t, uint64(2), stats.Releases)
}
