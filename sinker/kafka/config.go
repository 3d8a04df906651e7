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

package kafka

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the Kafka sinker's producer configuration.
type Config struct {
	Brokers          []string
	QueueTimeoutSecs int
}

// Bind registers the Kafka sinker's flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.Brokers, "kafkaBrokers", nil, "comma-separated list of Kafka broker addresses")
	flags.IntVar(&c.QueueTimeoutSecs, "queueTimeoutSecs", 30, "seconds the producer waits for a batch's delivery reports")
}

// Preflight validates the configuration.
func (c *Config) Preflight() error {
	if len(c.Brokers) == 0 {
		return errors.New("kafkaBrokers unset")
	}
	if c.QueueTimeoutSecs <= 0 {
		return errors.New("queueTimeoutSecs must be positive")
	}
	return nil
}
