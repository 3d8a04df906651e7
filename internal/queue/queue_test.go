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

package queue

import "testing"

func TestPushPopOrder(t *testing.T) {
	q := New[int](4)
	for i := 1; i <= 4; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := q.Push(5); err != ErrFull {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	for i := 1; i <= 4; i++ {
		v, err := q.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if v != i {
			t.Fatalf("expected %d, got %d", i, v)
		}
	}
	if _, err := q.Pop(); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestWrapAround(t *testing.T) {
	q := New[int](3)
	q.Push(1)
	q.Push(2)
	q.Pop()
	q.Push(3)
	q.Push(4)
	got := q.DrainAll(0)
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestIsFullIsEmpty(t *testing.T) {
	q := New[int](2)
	if !q.IsEmpty() {
		t.Fatal("expected empty queue")
	}
	q.Push(1)
	q.Push(2)
	if !q.IsFull() {
		t.Fatal("expected full queue")
	}
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}
}

func TestDrainAllLimitsToMax(t *testing.T) {
	q := New[int](5)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	got := q.DrainAll(2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
	if q.Len() != 3 {
		t.Fatalf("expected 3 remaining, got %d", q.Len())
	}
}
