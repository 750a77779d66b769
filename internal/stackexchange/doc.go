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

// Package stackexchange provides a client for the Stack Exchange REST API
// users endpoint. It issues one paginated GET per call, decodes the wire
// payload into fully-typed UserRecord values with documented defaults for
// missing fields, and turns transport and HTTP failures into typed errors.
//
// The package includes:
//   - A Client interface for fetching one page of users
//   - A REST implementation built on net/http
//   - A RetryClient adding bounded exponential backoff
//   - A Fetcher that never fails, returning an empty page plus a diagnostic
//   - A MockClient for tests
//
// Basic usage:
//
//	client := stackexchange.NewRESTClient(stackexchange.RESTConfig{
//	    Endpoint: "https://api.stackexchange.com/2.2",
//	    Site:     "stackoverflow",
//	    Timeout:  30 * time.Second,
//	})
//	users, diag := stackexchange.NewFetcher(client, logger).Fetch(ctx, 1, 50, stackexchange.OrderDesc)
//	if diag != "" {
//	    // Report diag to the user
//	}
package stackexchange
