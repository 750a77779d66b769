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
	"fmt"
)

// UnavailableStore stands in for a backend that could not be opened. Load
// and Save both fail with the open error, so a session built on it starts
// with no bookmarks and reports every mutation as unsaved.
type UnavailableStore struct {
	err error
}

// NewUnavailableStore returns a store that always fails with err.
func NewUnavailableStore(err error) *UnavailableStore {
	return &UnavailableStore{err: err}
}

// Load always returns the open error.
func (u *UnavailableStore) Load(ctx context.Context) (Set, error) {
	return nil, fmt.Errorf("bookmark store not open: %w", u.err)
}

// Save always returns the open error.
func (u *UnavailableStore) Save(ctx context.Context, s Set) error {
	return fmt.Errorf("bookmark store not open: %w", u.err)
}
