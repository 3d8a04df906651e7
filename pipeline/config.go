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

package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config carries the pipeline driver's user-visible tuning knobs: a
// Bind(*pflag.FlagSet) method plus a Preflight() error validation
// pass.
type Config struct {
	BatchSinkIntervalSecs  int
	CheckpointIntervalSecs int
}

// Bind registers the driver's flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.IntVar(
		&c.BatchSinkIntervalSecs,
		"batchSinkIntervalSecs",
		3,
		"minimum time between drains of the bounded queue, unless the queue fills first")
	flags.IntVar(
		&c.CheckpointIntervalSecs,
		"checkpointIntervalSecs",
		10,
		"minimum time between logging and committing the current replication position")
}

// Preflight validates the configuration and reports the first problem
// found.
func (c *Config) Preflight() error {
	if c.BatchSinkIntervalSecs <= 0 {
		return errors.New("batchSinkIntervalSecs must be positive")
	}
	if c.CheckpointIntervalSecs <= 0 {
		return errors.New("checkpointIntervalSecs must be positive")
	}
	return nil
}

// BatchSinkInterval returns the configured drain interval as a
// time.Duration, for wiring directly into Driver.BatchSinkInterval.
func (c *Config) BatchSinkInterval() time.Duration {
	return time.Duration(c.BatchSinkIntervalSecs) * time.Second
}

// CheckpointInterval returns the configured checkpoint interval as a
// time.Duration, for wiring directly into Driver.CheckpointInterval.
func (c *Config) CheckpointInterval() time.Duration {
	return time.Duration(c.CheckpointIntervalSecs) * time.Second
}
