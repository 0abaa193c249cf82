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

import "fmt"

// Option configures a Mutex or RecursiveMutex at construction time.
type Option func(*options)

type options struct {
	policy Policy
}

func defaultOptions() options {
	return options{policy: PolicyPropagate}
}

// WithPolicy selects the primitive's error policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

func newOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.policy.valid() {
		return options{}, fmt.Errorf("%w: unknown policy %d", ErrInit, int(o.policy))
	}
	return o, nil
}
