// Copyright 2026 The dtstream Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package parallelizer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config selects and sizes a Parallelizer strategy.
type Config struct {
	Strategy     string
	ParallelSize int
}

// Bind registers the parallelizer's flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(
		&c.Strategy,
		"parallelizer",
		"serial",
		"fan-out strategy: serial, round_robin, or hash")
	flags.IntVar(
		&c.ParallelSize,
		"parallelSize",
		1,
		"number of sinker workers the parallelizer fans out across")
}

// Preflight validates the configuration.
func (c *Config) Preflight() error {
	if c.ParallelSize <= 0 {
		return errors.New("parallelSize must be positive")
	}
	switch c.Strategy {
	case "serial", "round_robin", "hash":
	default:
		return errors.Errorf("unknown parallelizer strategy %q", c.Strategy)
	}
	return nil
}

// Build constructs the Parallelizer named by c.Strategy. keyCols is
// only consulted for the hash strategy.
func (c *Config) Build(keyCols []string) (Parallelizer, error) {
	switch c.Strategy {
	case "serial":
		return Serial{}, nil
	case "round_robin":
		return RoundRobin{}, nil
	case "hash":
		return Hash{KeyCols: keyCols}, nil
	default:
		return nil, fmt.Errorf("unknown parallelizer strategy %q", c.Strategy)
	}
}
