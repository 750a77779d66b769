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

// Package main implements the sofusers command-line interface.
// It browses Stack Overflow users through the Stack Exchange API, keeps a
// persistent set of bookmarked users, and exports the last displayed list
// to a tab-separated .sofusers file.
//
// The CLI supports:
//   - An interactive numbered menu (the default, or "browse")
//   - One-shot fetches with optional export
//   - Adding, removing and listing bookmarks
//   - A file or SQLite bookmark store
//
// Usage:
//
//	sofusers [browse] [flags]
//	sofusers fetch --page 2 --page-size 50 --order asc --output users
//	sofusers bookmark add 22656
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Request rejected by the API
//   - 3: Network error
package main
