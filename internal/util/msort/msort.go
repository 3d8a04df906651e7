// Copyright 2023 The Cockroach Authors
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

// Package msort contains utility functions for sorting and
// de-duplicating batches of row mutations.
package msort

import "github.com/dtstream/dtstream/internal/meta"

// UniqueByKey implements a "last one wins" approach to removing rows
// with duplicate keys from the input slice. If two rows share the
// same key, the one appearing later in x is kept.
//
// The modified slice is returned.
//
// This is used as an optional pre-parallelize collapsing step for the
// Hash strategy (see parallelizer.Hash's CollapseUpdates option); it
// is off by default because the per-key ordering invariant normally
// requires delivering every update, not just the latest.
func UniqueByKey(x []meta.RowData, key func(meta.RowData) string) []meta.RowData {
	// For any given key, track the index in the slice that holds data
	// for that key.
	seenIdx := make(map[string]int, len(x))

	// Iterate backwards, keeping the first (i.e. latest in source
	// order) occurrence of each key and discarding the rest.
	dest := len(x)
	for src := len(x) - 1; src >= 0; src-- {
		k := key(x[src])
		if _, found := seenIdx[k]; found {
			continue
		}
		dest--
		seenIdx[k] = dest
		x[dest] = x[src]
	}

	// Return the compacted view of the slice.
	return x[dest:]
}
