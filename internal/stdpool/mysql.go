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

// Package stdpool creates standardized database connection pools for
// both extractors and sinkers: a MySQL opener for the snapshot and
// sink sides and a Postgres opener (postgres.go) for the CDC side.
package stdpool

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql" // register driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dtstream/dtstream/internal/stopper"
)

// Options tunes pool construction, such as retrying while the
// database is still starting up.
type Options struct {
	WaitForStartup bool
	MaxOpenConns   int
	MaxIdleConns   int
}

// OpenMySQL opens a *sql.DB against u, retrying while the server is
// still accepting connections but not yet ready if opts.WaitForStartup
// is set. The pool is closed once the stopper context begins
// stopping.
func OpenMySQL(ctx *stopper.Context, connectString string, u *url.URL, opts Options) (*sql.DB, error) {
	path := "/"
	if u.Path != "" {
		path = u.Path
	}
	mySQLString := fmt.Sprintf("%s@tcp(%s)%s?%s", u.User.String(), u.Host, path, "sql_mode=ansi")

	log.Info(connectString)
	db, err := sql.Open("mysql", mySQLString)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	ctx.Go(func() error {
		<-ctx.Stopping()
		if err := db.Close(); err != nil {
			log.WithError(errors.WithStack(err)).Warn("could not close database connection")
		}
		return nil
	})

ping:
	if err := db.PingContext(ctx); err != nil {
		if opts.WaitForStartup && isMySQLStartupError(err) {
			log.WithError(err).Info("waiting for database to become ready")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(10 * time.Second):
				goto ping
			}
		}
		return nil, errors.Wrap(err, "could not ping the database")
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION();").Scan(&version); err != nil {
		return nil, errors.Wrap(err, "could not query version")
	}
	log.Infof("connected to mysql, version %s", version)

	return db, nil
}

func isMySQLStartupError(err error) bool {
	return errors.Is(err, sqldriver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded)
}
