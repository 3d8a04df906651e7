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

package extractor

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
)

// ErrChaos is the error injected by WithChaos.
var ErrChaos = errors.New("chaos")

// WithChaos wraps delegate so that Extract fails with ErrChaos with
// probability prob, for exercising the pipeline driver's error
// propagation path without a live, flaky source. delegate
// is returned unwrapped if prob <= 0.
func WithChaos(delegate Extractor, prob float32) Extractor {
	if prob <= 0 {
		return delegate
	}
	return &chaosExtractor{delegate: delegate, prob: prob}
}

type chaosExtractor struct {
	delegate Extractor
	prob     float32
}

func (c *chaosExtractor) Extract(ctx context.Context, sink *queue.Queue[meta.DtItem]) error {
	if rand.Float32() < c.prob {
		return errors.WithMessage(ErrChaos, "extract")
	}
	return c.delegate.Extract(ctx, sink)
}

func (c *chaosExtractor) Close() error {
	return c.delegate.Close()
}
