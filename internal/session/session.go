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

package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sirseerhq/sofusers/internal/bookmarks"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/logging"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// Session is the single owner of the snapshot and the bookmark set. All
// methods are safe for concurrent use; each one runs as a single critical
// section.
type Session struct {
	mu        sync.Mutex
	snapshot  []stackexchange.UserRecord
	bookmarks bookmarks.Set
	store     bookmarks.Store
	logger    logging.Logger
}

// New loads the bookmark set from store. A load failure is logged and the
// session starts with no bookmarks, as on a first run.
func New(ctx context.Context, store bookmarks.Store, logger logging.Logger) *Session {
	set, err := store.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "could not load bookmarks, starting with none", "error", err)
		set = bookmarks.NewSet()
	}

	return &Session{
		bookmarks: set,
		store:     store,
		logger:    logger,
	}
}

// NormalizeID returns the canonical string form of a user id: surrounding
// space is dropped and integers are re-formatted so "0042" and "42" match
// the form produced by UserRecord.Key.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil {
		return strconv.Itoa(n)
	}
	return id
}

// SetSnapshot replaces the snapshot with a copy of users and reports
// whether it did. An empty users leaves the current snapshot untouched.
func (s *Session) SetSnapshot(users []stackexchange.UserRecord) bool {
	if len(users) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = append([]stackexchange.UserRecord(nil), users...)
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() []stackexchange.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]stackexchange.UserRecord(nil), s.snapshot...)
}

// SortedSnapshot stably sorts the stored snapshot by numeric user id in
// the given order and returns a copy of the result. The stored order
// changes, so later exports reuse it.
func (s *Session) SortedSnapshot(order stackexchange.SortOrder) []stackexchange.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	stackexchange.SortByUserID(s.snapshot, order)
	return append([]stackexchange.UserRecord(nil), s.snapshot...)
}

// Bookmark adds id and persists the set. Adding an id that is already
// present is a no-op and does not touch the store.
func (s *Session) Bookmark(ctx context.Context, id string) error {
	id = NormalizeID(id)
	if id == "" {
		return fmt.Errorf("user id cannot be empty: %w", apperrors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bookmarks.Add(id) {
		return nil
	}
	if err := s.store.Save(ctx, s.bookmarks); err != nil {
		s.bookmarks.Remove(id)
		s.logger.Error(ctx, "failed to save bookmarks", "user_id", id, "error", err)
		return fmt.Errorf("bookmark %s: %w: %w", id, apperrors.ErrPersistence, err)
	}

	s.logger.Debug(ctx, "bookmarked user", "user_id", id, "bookmarks", s.bookmarks.Len())
	return nil
}

// Unbookmark removes id and persists the set. If id is not bookmarked it
// returns ErrNotBookmarked without touching the store.
func (s *Session) Unbookmark(ctx context.Context, id string) error {
	id = NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bookmarks.Remove(id) {
		return fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotBookmarked)
	}

	if err := s.store.Save(ctx, s.bookmarks); err != nil {
		s.bookmarks.Add(id)
		s.logger.Error(ctx, "failed to save bookmarks", "user_id", id, "error", err)
		return fmt.Errorf("unbookmark %s: %w: %w", id, apperrors.ErrPersistence, err)
	}

	s.logger.Debug(ctx, "unbookmarked user", "user_id", id, "bookmarks", s.bookmarks.Len())
	return nil
}

// BookmarkedFromSnapshot returns the snapshot members that are bookmarked,
// in snapshot order. It returns ErrNoBookmarks when no ids are bookmarked
// at all, and ErrNoBookmarkedInSnapshot when none of them are in the
// snapshot.
func (s *Session) BookmarkedFromSnapshot() ([]stackexchange.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bookmarks.Len() == 0 {
		return nil, apperrors.ErrNoBookmarks
	}

	var matched []stackexchange.UserRecord
	for _, u := range s.snapshot {
		if s.bookmarks.Has(u.Key()) {
			matched = append(matched, u)
		}
	}
	if len(matched) == 0 {
		return nil, apperrors.ErrNoBookmarkedInSnapshot
	}
	return matched, nil
}

// IsBookmarked reports whether id is in the bookmark set.
func (s *Session) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookmarks.Has(NormalizeID(id))
}

// Bookmarks returns the bookmarked ids in lexical order.
func (s *Session) Bookmarks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookmarks.IDs()
}
