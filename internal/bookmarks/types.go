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

package bookmarks

import (
	"context"
	"sort"
	"time"
)

// Store loads and saves a bookmark Set.
type Store interface {
	// Load returns the saved set, or an empty set if nothing was saved yet.
	Load(ctx context.Context) (Set, error)

	// Save replaces the saved set with s.
	Save(ctx context.Context, s Set) error
}

// Set is a set of string-normalized user ids.
type Set map[string]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was newly added.
func (s Set) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s Set) Remove(id string) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s)
}

// IDs returns the ids in lexical order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// CurrentVersion is the current bookmark file schema version.
// Increment this when making breaking changes to the document structure.
const CurrentVersion = 1

// document is the on-disk form used by FileStore.
type document struct {
	// Version indicates the schema version of this file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the document (excluding this field).
	Checksum string `json:"checksum"`

	// SavedAt records when the set was written.
	SavedAt time.Time `json:"saved_at"`

	// UserIDs holds the bookmarked ids in lexical order.
	UserIDs []string `json:"user_ids"`
}
