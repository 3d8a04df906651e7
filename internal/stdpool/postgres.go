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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dtstream/dtstream/internal/stopper"
)

// OpenPostgres opens a pgxpool.Pool against connectString, following
// the same lifecycle pattern as OpenMySQL: the pool is closed when the
// stopper context stops, and the server version is logged once
// connected.
func OpenPostgres(ctx *stopper.Context, connectString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connectString)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse postgres connection string")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not open postgres pool")
	}

	ctx.Go(func() error {
		<-ctx.Stopping()
		pool.Close()
		return nil
	})

	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, "could not ping postgres")
	}

	var version string
	if err := pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		log.WithError(err).Warn("could not query postgres server_version")
	} else {
		log.Infof("connected to postgres, version %s", version)
	}

	return pool, nil
}
