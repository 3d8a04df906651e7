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
	"math/rand"

	"github.com/pkg/errors"

	"github.com/dtstream/dtstream/internal/meta"
)

// ErrChaos is the error injected by WithChaos.
var ErrChaos = errors.New("chaos")

// WithChaos wraps delegate so that every capability method fails with
// ErrChaos with probability prob, for exercising the pipeline driver's
// abort-the-tick behavior without a flaky live
// target. delegate is returned unwrapped if prob <= 0.
func WithChaos(delegate Sinker, prob float32) Sinker {
	if prob <= 0 {
		return delegate
	}
	return &chaosSinker{delegate: delegate, prob: prob}
}

type chaosSinker struct {
	delegate Sinker
	prob     float32
}

func (c *chaosSinker) roll(op string) error {
	if rand.Float32() < c.prob {
		return errors.WithMessage(ErrChaos, op)
	}
	return nil
}

func (c *chaosSinker) SinkDml(data []meta.RowData) error {
	if err := c.roll("SinkDml"); err != nil {
		return err
	}
	return c.delegate.SinkDml(data)
}

func (c *chaosSinker) SinkDdl(data []meta.DdlData) error {
	if err := c.roll("SinkDdl"); err != nil {
		return err
	}
	return c.delegate.SinkDdl(data)
}

func (c *chaosSinker) SinkRaw(data []meta.DtData) error {
	if err := c.roll("SinkRaw"); err != nil {
		return err
	}
	return c.delegate.SinkRaw(data)
}

func (c *chaosSinker) RefreshMeta(data []meta.DdlData) error {
	if err := c.roll("RefreshMeta"); err != nil {
		return err
	}
	return c.delegate.RefreshMeta(data)
}

func (c *chaosSinker) Close() error {
	return c.delegate.Close()
}
