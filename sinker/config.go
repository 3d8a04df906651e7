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

package sinker

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// BatchConfig is the shared batch-size tuning knob every row-batch
// sinker (starrocks, mysql, postgres, mongo) binds.
type BatchConfig struct {
	BatchSize int
}

// Bind registers the batch-size flag.
func (c *BatchConfig) Bind(flags *pflag.FlagSet) {
	flags.IntVar(
		&c.BatchSize,
		"batchSize",
		DefaultBatchSize,
		"maximum rows per stream-load request or per batched write")
}

// Preflight validates the configuration.
func (c *BatchConfig) Preflight() error {
	if c.BatchSize <= 0 {
		return errors.New("batchSize must be positive")
	}
	return nil
}
