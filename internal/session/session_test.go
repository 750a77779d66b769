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
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/sofusers/internal/bookmarks"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/export"
	"github.com/sirseerhq/sofusers/internal/logging"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
	"github.com/sirseerhq/sofusers/internal/testutil"
)

// memStore is an in-memory bookmarks.Store that records every save.
type memStore struct {
	mu      sync.Mutex
	saved   bookmarks.Set
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(ctx context.Context) (bookmarks.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return bookmarks.NewSet(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, s bookmarks.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = s.Clone()
	return nil
}

func (m *memStore) persisted() bookmarks.Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return bookmarks.NewSet()
	}
	return m.saved.Clone()
}

func newTestSession(t *testing.T, store bookmarks.Store) *Session {
	t.Helper()
	return New(context.Background(), store, logging.Discard())
}

func ids(users []stackexchange.UserRecord) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.UserID
	}
	return out
}

func TestNew_LoadsBookmarks(t *testing.T) {
	store := &memStore{saved: bookmarks.NewSet("1", "2")}
	s := newTestSession(t, store)

	assert.Equal(t, []string{"1", "2"}, s.Bookmarks())
}

func TestNew_LoadFailureStartsEmpty(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt")}
	s := newTestSession(t, store)

	assert.Empty(t, s.Bookmarks())
	require.NoError(t, s.Bookmark(context.Background(), "5"))
	assert.True(t, store.persisted().Has("5"))
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"  42 ", "42"},
		{"0042", "42"},
		{"abc", "abc"},
		{" ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.in), "NormalizeID(%q)", tt.in)
	}
}

func TestSetSnapshot(t *testing.T) {
	s := newTestSession(t, &memStore{})
	users := stackexchange.GenerateTestUsers(3)

	assert.True(t, s.SetSnapshot(users))
	assert.Equal(t, []int{1, 2, 3}, ids(s.Snapshot()))

	users[0].UserID = 99
	assert.Equal(t, 1, s.Snapshot()[0].UserID, "session must keep its own copy")

	assert.False(t, s.SetSnapshot(nil))
	assert.False(t, s.SetSnapshot([]stackexchange.UserRecord{}))
	assert.Equal(t, []int{1, 2, 3}, ids(s.Snapshot()), "empty replacement must be ignored")

	assert.True(t, s.SetSnapshot(stackexchange.GenerateTestUsers(1)))
	assert.Equal(t, []int{1}, ids(s.Snapshot()), "snapshots are replaced, not merged")
}

func TestSortedSnapshot(t *testing.T) {
	s := newTestSession(t, &memStore{})
	s.SetSnapshot([]stackexchange.UserRecord{
		{UserID: 3, DisplayName: "c"},
		{UserID: 1, DisplayName: "a1"},
		{UserID: 2},
		{UserID: 1, DisplayName: "a2"},
	})

	asc := s.SortedSnapshot(stackexchange.OrderAsc)
	assert.Equal(t, []int{1, 1, 2, 3}, ids(asc))
	assert.Equal(t, "a1", asc[0].DisplayName, "sort must be stable")
	assert.Equal(t, "a2", asc[1].DisplayName, "sort must be stable")
	assert.Equal(t, ids(asc), ids(s.Snapshot()), "stored snapshot is sorted in place")

	desc := s.SortedSnapshot(stackexchange.OrderDesc)
	assert.Equal(t, []int{3, 2, 1, 1}, ids(desc))
}

func TestBookmark(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, store)
	ctx := context.Background()

	require.NoError(t, s.Bookmark(ctx, " 42 "))
	assert.True(t, s.IsBookmarked("42"))
	assert.True(t, store.persisted().Equal(bookmarks.NewSet("42")))
	assert.Equal(t, 1, store.saves)

	require.NoError(t, s.Bookmark(ctx, "42"))
	assert.Equal(t, []string{"42"}, s.Bookmarks())
	assert.Equal(t, 1, store.saves, "re-bookmarking an existing id must not write")

	err := s.Bookmark(ctx, "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 1, store.saves)
}

func TestUnbookmark(t *testing.T) {
	store := &memStore{saved: bookmarks.NewSet("1", "2")}
	s := newTestSession(t, store)
	ctx := context.Background()

	require.NoError(t, s.Unbookmark(ctx, "1"))
	assert.Equal(t, []string{"2"}, s.Bookmarks())
	assert.True(t, store.persisted().Equal(bookmarks.NewSet("2")))
	assert.Equal(t, 1, store.saves)

	err := s.Unbookmark(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrNotBookmarked)
	assert.Equal(t, 1, store.saves, "absent id must not touch the store")
}

func TestBookmarkThenUnbookmark_NetEffect(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		id      string
	}{
		{"absent before", []string{"7"}, "9"},
		{"present before", []string{"7", "9"}, "9"},
		{"empty set", nil, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{saved: bookmarks.NewSet(tt.initial...)}
			s := newTestSession(t, store)
			ctx := context.Background()

			require.NoError(t, s.Bookmark(ctx, tt.id))
			require.NoError(t, s.Unbookmark(ctx, tt.id))

			want := bookmarks.NewSet(tt.initial...)
			want.Remove(tt.id)
			assert.Equal(t, want.IDs(), s.Bookmarks())
			assert.True(t, store.persisted().Equal(want))
		})
	}
}

func TestSaveFailureRevertsMutation(t *testing.T) {
	store := &memStore{saved: bookmarks.NewSet("1")}
	s := newTestSession(t, store)
	ctx := context.Background()
	store.saveErr = errors.New("disk full")

	err := s.Bookmark(ctx, "2")
	require.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{"1"}, s.Bookmarks())

	require.NoError(t, s.Bookmark(ctx, "1"), "re-adding skips the store")
	assert.Equal(t, []string{"1"}, s.Bookmarks())

	err = s.Unbookmark(ctx, "1")
	require.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Equal(t, []string{"1"}, s.Bookmarks())

	assert.True(t, store.persisted().Equal(bookmarks.NewSet("1")))
}

func TestBookmarkedFromSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("no bookmarks", func(t *testing.T) {
		s := newTestSession(t, &memStore{})
		_, err := s.BookmarkedFromSnapshot()
		assert.ErrorIs(t, err, apperrors.ErrNoBookmarks)
	})

	t.Run("no bookmarks is reported before empty snapshot", func(t *testing.T) {
		s := newTestSession(t, &memStore{})
		s.SetSnapshot(stackexchange.GenerateTestUsers(3))
		_, err := s.BookmarkedFromSnapshot()
		assert.ErrorIs(t, err, apperrors.ErrNoBookmarks)
	})

	t.Run("none in snapshot", func(t *testing.T) {
		s := newTestSession(t, &memStore{saved: bookmarks.NewSet("500")})
		s.SetSnapshot(stackexchange.GenerateTestUsers(3))
		_, err := s.BookmarkedFromSnapshot()
		assert.ErrorIs(t, err, apperrors.ErrNoBookmarkedInSnapshot)
	})

	t.Run("ordered subsequence", func(t *testing.T) {
		s := newTestSession(t, &memStore{})
		s.SetSnapshot([]stackexchange.UserRecord{{UserID: 9}, {UserID: 4}, {UserID: 7}, {UserID: 1}})
		require.NoError(t, s.Bookmark(ctx, "1"))
		require.NoError(t, s.Bookmark(ctx, "9"))
		require.NoError(t, s.Bookmark(ctx, "12345"))

		got, err := s.BookmarkedFromSnapshot()
		require.NoError(t, err)
		assert.Equal(t, []int{9, 1}, ids(got))
	})
}

func TestConcurrentBookmarks(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = s.Bookmark(ctx, strings.Repeat("1", id+1))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Bookmarks(), 20)
	assert.True(t, store.persisted().Equal(bookmarks.NewSet(s.Bookmarks()...)))
}

// TestEndToEnd walks a full session: fetch 50 users, bookmark one, try to
// unbookmark an id that was never bookmarked, and export descending.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	server := testutil.NewUsersServer(t, 1, 50)
	client := stackexchange.NewRESTClient(stackexchange.RESTConfig{
		Endpoint: server.URL,
		Site:     "stackoverflow",
		Timeout:  5 * time.Second,
	})
	fetcher := stackexchange.NewFetcher(client, logging.Discard())

	store := bookmarks.NewFileStore(filepath.Join(dir, "bookmarks.json"))
	s := newTestSession(t, store)

	users, diag := fetcher.Fetch(ctx, 1, 50, stackexchange.OrderDesc)
	require.Empty(t, diag)
	require.Len(t, users, 50)
	require.True(t, s.SetSnapshot(users))

	require.NoError(t, s.Bookmark(ctx, "42"))
	assert.ErrorIs(t, s.Unbookmark(ctx, "99"), apperrors.ErrNotBookmarked)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, persisted.IDs())

	exp := export.New(logging.Discard(), export.WithDir(dir), export.WithLocation(time.UTC))
	path, err := exp.Export(ctx, s.SortedSnapshot(stackexchange.OrderDesc), "out", stackexchange.OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.sofusers"), path)

	file := testutil.ReadExport(t, path)
	assert.Equal(t, 50, file.Count)
	for i, id := range file.UserIDs() {
		assert.Equal(t, strconv.Itoa(50-i), id, "row %d", i+1)
	}

	marked, err := s.BookmarkedFromSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids(marked))
}

func TestFailedFetchKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, &memStore{})
	s.SetSnapshot(stackexchange.GenerateTestUsers(10))

	failing := stackexchange.NewFetcher(stackexchange.NewMockClientWithOptions(stackexchange.WithNetworkFailure()), logging.Discard())
	users, diag := failing.Fetch(ctx, 1, 10, stackexchange.OrderDesc)
	assert.Empty(t, users)
	assert.NotEmpty(t, diag)

	assert.False(t, s.SetSnapshot(users))
	assert.Len(t, s.Snapshot(), 10)
}
