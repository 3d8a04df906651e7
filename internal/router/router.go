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

// Package router resolves a (schema, table) pair to a destination
// topic, used by the Kafka sinker.
package router

import "fmt"

// Router maps (schema, table) pairs to topic names. An explicit rule
// takes precedence; otherwise a default naming scheme is used.
type Router struct {
	rules map[string]string
}

// New returns a Router with no explicit rules; GetTopic falls back to
// "schema.table" for every pair until a rule is added.
func New() *Router {
	return &Router{rules: make(map[string]string)}
}

// AddRule registers an explicit (schema, table) -> topic mapping.
func (r *Router) AddRule(schema, tb, topic string) {
	r.rules[key(schema, tb)] = topic
}

func key(schema, tb string) string { return schema + "." + tb }

// GetTopic returns the configured topic for (schema, tb), or
// "schema.tb" if no rule matches.
func (r *Router) GetTopic(schema, tb string) string {
	if topic, ok := r.rules[key(schema, tb)]; ok {
		return topic
	}
	return fmt.Sprintf("%s.%s", schema, tb)
}
