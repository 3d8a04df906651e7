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

package pgcdc

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the PostgreSQL logical-replication extractor's connection
// and slot configuration.
type Config struct {
	URL         string
	SlotName    string
	Publication string

	// StartLSN seeds replication on first run, before any committed
	// position has been recorded by Syncer; later runs resume from
	// Syncer.Committed() instead (see Extractor.Extract).
	StartLSN string
}

// Bind registers the CDC extractor's flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.URL, "pgUrl", "", "PostgreSQL connection string for the replication connection")
	flags.StringVar(&c.SlotName, "slotName", "", "the logical replication slot to stream from")
	flags.StringVar(&c.Publication, "publication", "", "the PostgreSQL publication to subscribe to")
	flags.StringVar(&c.StartLSN, "startLsn", "", "the LSN to start replication from on a cold start (H/H hex), ignored once a committed position exists")
}

// Preflight validates the configuration.
func (c *Config) Preflight() error {
	if c.URL == "" {
		return errors.New("pgUrl unset")
	}
	if c.SlotName == "" {
		return errors.New("slotName unset")
	}
	if c.Publication == "" {
		return errors.New("publication unset")
	}
	return nil
}
