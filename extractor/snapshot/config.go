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

package snapshot

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the snapshot extractor's tuning knob.
type Config struct {
	SliceSize int
}

// Bind registers the slice-size flag.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.IntVar(
		&c.SliceSize,
		"sliceSize",
		DefaultSliceSize,
		"rows fetched per ordered slice-scan query")
}

// Preflight validates the configuration.
func (c *Config) Preflight() error {
	if c.SliceSize <= 0 {
		return errors.New("sliceSize must be positive")
	}
	return nil
}
