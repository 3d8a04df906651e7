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

package starrocks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dtstream/dtstream/internal/meta"
)

type capturedRequest struct {
	method  string
	path    string
	headers http.Header
	body    []map[string]interface{}
	user    string
	pass    string
}

func newTestSinker(t *testing.T, handler func(capturedRequest) (int, string)) (*Sinker, *httptest.Server) {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		user, pass, _ := r.BasicAuth()
		status, msg := handler(capturedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			headers: r.Header,
			body:    body,
			user:    user,
			pass:    pass,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"Status":"` + msg + `"}`))
	}))

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("bad test server url: %v", err)
	}
	host, port, _ := strings.Cut(u.Host, ":")

	s := New(host, port, "loader", "secret", 100, nil)
	return s, srv
}

func TestSendDataUsesStreamLoadContractForInsert(t *testing.T) {
	var captured capturedRequest
	s, srv := newTestSinker(t, func(r capturedRequest) (int, string) {
		captured = r
		return http.StatusOK, "Success"
	})
	defer srv.Close()

	rows := []meta.RowData{
		{
			Schema: "public",
			Tb:     "accounts",
			Type:   meta.RowTypeInsert,
			After:  map[string]meta.ColValue{"id": {Kind: meta.KindLong, Long: 1}},
		},
	}
	if _, err := s.sendData(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", captured.method)
	}
	if !strings.HasSuffix(captured.path, "/api/public/accounts/_stream_load") {
		t.Fatalf("unexpected stream-load path: %s", captured.path)
	}
	if captured.headers.Get("format") != "json" || captured.headers.Get("strip_outer_array") != "true" {
		t.Fatalf("missing required stream-load headers: %v", captured.headers)
	}
	if captured.headers.Get("columns") != "" {
		t.Fatalf("expected no __op header override on an insert batch, got %q", captured.headers.Get("columns"))
	}
	if captured.user != "loader" || captured.pass != "secret" {
		t.Fatalf("expected basic auth loader/secret, got %s/%s", captured.user, captured.pass)
	}
	if len(captured.body) != 1 {
		t.Fatalf("expected one row in the load body, got %d", len(captured.body))
	}
}

func TestSendDataSetsDeleteOpHeader(t *testing.T) {
	var captured capturedRequest
	s, srv := newTestSinker(t, func(r capturedRequest) (int, string) {
		captured = r
		return http.StatusOK, "Success"
	})
	defer srv.Close()

	rows := []meta.RowData{
		{
			Schema: "public",
			Tb:     "accounts",
			Type:   meta.RowTypeDelete,
			Before: map[string]meta.ColValue{"id": {Kind: meta.KindLong, Long: 1}},
		},
	}
	if _, err := s.sendData(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.headers.Get("columns") != "__op='delete'" {
		t.Fatalf("expected the delete op header, got %q", captured.headers.Get("columns"))
	}
}

func TestSendDataNonSuccessStatusIsSinkError(t *testing.T) {
	s, srv := newTestSinker(t, func(r capturedRequest) (int, string) {
		return http.StatusOK, "Fail"
	})
	defer srv.Close()

	rows := []meta.RowData{
		{Schema: "public", Tb: "accounts", Type: meta.RowTypeInsert, After: map[string]meta.ColValue{"id": {}}},
	}
	if _, err := s.sendData(rows); err == nil {
		t.Fatalf("expected an error when stream-load reports a non-Success status")
	}
}

func TestSendDataHttpErrorStatusIsSinkError(t *testing.T) {
	s, srv := newTestSinker(t, func(r capturedRequest) (int, string) {
		return http.StatusInternalServerError, "ignored"
	})
	defer srv.Close()

	rows := []meta.RowData{
		{Schema: "public", Tb: "accounts", Type: meta.RowTypeInsert, After: map[string]meta.ColValue{"id": {}}},
	}
	if _, err := s.sendData(rows); err == nil {
		t.Fatalf("expected an error on HTTP %d", http.StatusInternalServerError)
	}
}
