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

package stdpool

import (
	"context"
	sqldriver "database/sql/driver"
	"errors"
	"testing"
)

func TestIsMySQLStartupError(t *testing.T) {
	if !isMySQLStartupError(sqldriver.ErrBadConn) {
		t.Fatalf("expected ErrBadConn to be recognized as a startup error")
	}
	if !isMySQLStartupError(context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded to be recognized as a startup error")
	}
	if isMySQLStartupError(errors.New("syntax error")) {
		t.Fatalf("expected an unrelated error not to be treated as a startup error")
	}
}
