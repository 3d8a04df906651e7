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

// Package rerror defines the typed error taxonomy used throughout the
// replication engine. Each kind is a concrete struct implementing
// error, recognized after wrapping via errors.As.
package rerror

import "github.com/pkg/errors"

// ConfigError indicates invalid configuration discovered at startup.
// It is always fatal to the process that discovers it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

// NewConfigError wraps reason as a *ConfigError.
func NewConfigError(reason string) error { return &ConfigError{Reason: reason} }

// AsConfigError unwraps err looking for a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var e *ConfigError
	return e, errors.As(err, &e)
}

// ConnectionError indicates a transport failure to a source or target.
// It is fatal for the owning task; a supervisor may choose to restart.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return "connection error to " + e.Addr + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewConnectionError wraps err as a *ConnectionError for addr.
func NewConnectionError(addr string, err error) error {
	return &ConnectionError{Addr: addr, Err: err}
}

// AsConnectionError unwraps err looking for a *ConnectionError.
func AsConnectionError(err error) (*ConnectionError, bool) {
	var e *ConnectionError
	return e, errors.As(err, &e)
}

// MetadataError indicates an unknown relation OID, column, or type OID.
// The current event cannot be decoded without this metadata.
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string { return "metadata error: " + e.Reason }

// NewMetadataError wraps reason as a *MetadataError.
func NewMetadataError(reason string) error { return &MetadataError{Reason: reason} }

// AsMetadataError unwraps err looking for a *MetadataError.
func AsMetadataError(err error) (*MetadataError, bool) {
	var e *MetadataError
	return e, errors.As(err, &e)
}

// DecodeError indicates malformed column bytes. Fatal for the current
// batch only.
type DecodeError struct {
	Column string
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode error on column " + e.Column + ": " + e.Reason
}

// NewDecodeError constructs a *DecodeError for column.
func NewDecodeError(column, reason string) error {
	return &DecodeError{Column: column, Reason: reason}
}

// AsDecodeError unwraps err looking for a *DecodeError.
func AsDecodeError(err error) (*DecodeError, bool) {
	var e *DecodeError
	return e, errors.As(err, &e)
}

// SinkError indicates downstream rejection: an HTTP non-200, a
// non-success response body, or a delivery failure from a message
// broker. Fatal for the current batch; the pipeline driver does not
// advance positions when this is returned.
type SinkError struct {
	Target string
	Reason string
}

func (e *SinkError) Error() string {
	return "sink error on " + e.Target + ": " + e.Reason
}

// NewSinkError constructs a *SinkError for target.
func NewSinkError(target, reason string) error {
	return &SinkError{Target: target, Reason: reason}
}

// AsSinkError unwraps err looking for a *SinkError.
func AsSinkError(err error) (*SinkError, bool) {
	var e *SinkError
	return e, errors.As(err, &e)
}

// PreCheckError is reserved for the (out-of-scope) precheck
// subsystem's startup validation failures.
type PreCheckError struct {
	Reason string
}

func (e *PreCheckError) Error() string { return "precheck error: " + e.Reason }

// Unexpected indicates an invariant violation, such as receiving an
// UnchangedToast column value in a CDC tuple.
type Unexpected struct {
	Reason string
}

func (e *Unexpected) Error() string { return "unexpected: " + e.Reason }

// NewUnexpected constructs an *Unexpected error.
func NewUnexpected(reason string) error { return &Unexpected{Reason: reason} }

// AsUnexpected unwraps err looking for an *Unexpected.
func AsUnexpected(err error) (*Unexpected, bool) {
	var e *Unexpected
	return e, errors.As(err, &e)
}
