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

package rerror

import (
	"errors"
	"testing"
)

func TestAsConnectionErrorUnwraps(t *testing.T) {
	err := NewConnectionError("db:5432", errors.New("refused"))
	ce, ok := AsConnectionError(err)
	if !ok {
		t.Fatalf("expected to recognize a *ConnectionError")
	}
	if ce.Addr != "db:5432" {
		t.Fatalf("expected addr db:5432, got %q", ce.Addr)
	}
	if ce.Unwrap().Error() != "refused" {
		t.Fatalf("expected Unwrap to return the underlying cause, got %v", ce.Unwrap())
	}
}

func TestAsDecodeErrorRejectsUnrelatedError(t *testing.T) {
	if _, ok := AsDecodeError(errors.New("boom")); ok {
		t.Fatalf("expected a plain error not to unwrap as *DecodeError")
	}
}

func TestEachConstructorProducesDistinctRecognizableKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		as   func(error) bool
	}{
		{"config", NewConfigError("bad"), func(e error) bool { _, ok := AsConfigError(e); return ok }},
		{"metadata", NewMetadataError("bad"), func(e error) bool { _, ok := AsMetadataError(e); return ok }},
		{"decode", NewDecodeError("col", "bad"), func(e error) bool { _, ok := AsDecodeError(e); return ok }},
		{"sink", NewSinkError("kafka", "bad"), func(e error) bool { _, ok := AsSinkError(e); return ok }},
		{"unexpected", NewUnexpected("bad"), func(e error) bool { _, ok := AsUnexpected(e); return ok }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.as(c.err) {
				t.Fatalf("expected %s error to be recognized by its As* helper", c.name)
			}
		})
	}
}
