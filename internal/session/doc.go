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

// Package session owns the state of one browsing session: the snapshot of
// users that was last displayed and the set of bookmarked user ids.
//
// The snapshot is replaced wholesale by each non-empty fetch or filter and
// is the only source for exports and bookmark intersection. An empty
// replacement is ignored so that a failed fetch never erases the last good
// working set.
//
// Bookmark mutations are written through to a bookmarks.Store before they
// return. If the write fails the in-memory change is reverted, so the set
// held by the session always equals what was last saved.
package session
