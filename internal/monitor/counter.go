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

package monitor

// CounterType enumerates the counters tracked by Monitor. Sinkers
// may add their own counters beyond this set by
// calling AddCounter with a custom CounterType value above
// counterTypeSinkerBase.
type CounterType int

const (
	BufferSize CounterType = iota
	Records
	RecordsPerQuery
	RtPerQuery
	SerialWrites
	SinkedCount

	counterTypeSinkerBase
)

// batched tracks a counter that accumulates both a value sum and a
// sample count, so that RecordsPerQuery/RtPerQuery can report an
// average per drain cycle.
type batched struct {
	sum    int64
	weight int64
}
