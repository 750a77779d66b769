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

// Package bookmarks persists the set of bookmarked user ids between runs.
//
// Two Store implementations are provided. FileStore keeps the set in a
// small JSON document written atomically with a write-to-temp-and-rename
// pattern, carrying a schema version and a SHA256 checksum so a damaged
// file is detected instead of silently misread. SQLiteStore keeps the set
// in a SQLite table and replaces it inside a single transaction.
//
// In both stores a failed Save leaves the previously saved set intact, and
// Load on a store that was never written returns an empty set.
//
// Example usage:
//
//	store := bookmarks.NewFileStore(filepath.Join(stateDir, "bookmarks.json"))
//	set, err := store.Load(ctx)
//	set.Add("22656")
//	err = store.Save(ctx, set)
package bookmarks
