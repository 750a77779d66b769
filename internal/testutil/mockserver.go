// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides common test helpers for sofusers
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// MockServer wraps an httptest server that imitates the users endpoint
// and counts the requests it receives.
type MockServer struct {
	*httptest.Server
	requests atomic.Int32
}

// RequestCount returns the number of requests served so far.
func (m *MockServer) RequestCount() int {
	return int(m.requests.Load())
}

// NewMockServer creates a server around handler. It is closed on test
// cleanup.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewUsersServer answers every request with users startID..endID.
func NewUsersServer(t *testing.T, startID, endID int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		WriteUsersResponse(w, GenerateUsersResponse(startID, endID, false))
	})
}

// NewErrorServer creates a mock server that always returns statusCode with
// body.
func NewErrorServer(t *testing.T, statusCode int, body string) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	})
}

// NewTransientErrorServer creates a mock server that fails failCount times
// with errorCode and then serves users 1..10.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int) *MockServer {
	t.Helper()
	var m *MockServer
	m = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if m.RequestCount() <= failCount {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}
		WriteUsersResponse(w, GenerateUsersResponse(1, 10, false))
	})
	return m
}

// GenerateUsersResponse builds an API wrapper object holding users with
// ids startID..endID.
func GenerateUsersResponse(startID, endID int, hasMore bool) map[string]interface{} {
	items := make([]map[string]interface{}, 0)

	for i := startID; i <= endID; i++ {
		items = append(items, map[string]interface{}{
			"user_id":          i,
			"account_id":       100000 + i,
			"display_name":     fmt.Sprintf("user%d", i),
			"reputation":       i * 7,
			"location":         fmt.Sprintf("City %d", i),
			"user_type":        "registered",
			"last_access_date": 1700000000 + i,
		})
	}

	return map[string]interface{}{
		"items":           items,
		"has_more":        hasMore,
		"quota_max":       10000,
		"quota_remaining": 9999,
	}
}

// WriteUsersResponse encodes response as JSON.
func WriteUsersResponse(w http.ResponseWriter, response map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(response)
}

// AssertUsersRequest validates the path and fixed parameters of a users
// request.
func AssertUsersRequest(t *testing.T, r *http.Request, site string) {
	t.Helper()
	if r.URL.Path != "/users" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != http.MethodGet {
		t.Errorf("Expected GET method, got: %s", r.Method)
	}
	if got := r.URL.Query().Get("site"); got != site {
		t.Errorf("site = %q, want %q", got, site)
	}
}
