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

// Policy decides, once at construction time, how a primitive surfaces
// failures. It replaces the compile-time error-suppression switch found in
// older C-style lock libraries with an explicit runtime choice.
type Policy int

const (
	// PolicyPropagate surfaces every failure as a typed error to the
	// immediate caller. This is the default.
	PolicyPropagate Policy = iota

	// PolicySilent swallows failures: operations report success and the
	// error is only logged at debug level. Invariants are on trust; misuse
	// goes undetected.
	PolicySilent
)

func (p Policy) String() string {
	switch p {
	case PolicyPropagate:
		return "propagate"
	case PolicySilent:
		return "silent"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a config or flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "propagate", "":
		return PolicyPropagate, nil
	case "silent":
		return PolicySilent, nil
	default:
		return PolicyPropagate, fmt.Errorf("unknown lock policy: %q", s)
	}
}

func (p Policy) valid() bool {
	return p == PolicyPropagate || p == PolicySilent
}

// resolve applies the policy to an operation's outcome.
func (p Policy) resolve(err error) error {
	if err == nil || p != PolicySilent {
		return err
	}
	log.Debug().Err(err).Msg("lock error suppressed by silent policy")
	return nil
}
