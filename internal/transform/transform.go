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

// Package transform defines the pluggable reshaping hook applied
// between drain and parallelize on the DML path. The embedded script
// runtime that would power a real transformation language lives
// elsewhere; only the interface and a couple of native Go
// implementations live here.
package transform

import "github.com/dtstream/dtstream/internal/meta"

// Hook is a pure function from one batch of rows to another. Errors
// propagate to the pipeline driver and abort the tick.
type Hook interface {
	Transform(rows []meta.RowData) ([]meta.RowData, error)
}

// HookFunc adapts a plain function to Hook.
type HookFunc func(rows []meta.RowData) ([]meta.RowData, error)

// Transform implements Hook.
func (f HookFunc) Transform(rows []meta.RowData) ([]meta.RowData, error) { return f(rows) }

// Chain applies hooks in order, threading the output of one into the
// input of the next.
func Chain(hooks ...Hook) Hook {
	return HookFunc(func(rows []meta.RowData) ([]meta.RowData, error) {
		var err error
		for _, h := range hooks {
			rows, err = h.Transform(rows)
			if err != nil {
				return nil, err
			}
		}
		return rows, nil
	})
}

// DropColumns returns a Hook that removes the named columns from
// every row's Before and After maps, a common reshaping need (e.g.
// stripping a source-only audit column before it reaches the target).
func DropColumns(cols ...string) Hook {
	return HookFunc(func(rows []meta.RowData) ([]meta.RowData, error) {
		for i := range rows {
			for _, c := range cols {
				delete(rows[i].Before, c)
				delete(rows[i].After, c)
			}
		}
		return rows, nil
	})
}
