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
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t, filepath.Join(t.TempDir(), "state", "bookmarks.db"))

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	require.NoError(t, store.Save(ctx, NewSet("10", "20", "30")))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "30"}, loaded.IDs())

	require.NoError(t, store.Save(ctx, NewSet("20", "40")))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20", "40"}, loaded.IDs())

	require.NoError(t, store.Save(ctx, NewSet()))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookmarks.db")

	first, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, NewSet("22656")))
	require.NoError(t, first.Close())

	second := openTestSQLiteStore(t, path)
	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Has("22656"))
	assert.Equal(t, 1, loaded.Len())
}

func TestSQLiteStore_SaveFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM keep_bookmarks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO keep_bookmarks").WithArgs("1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR IGNORE INTO bookmarks").WithArgs("1").WillReturnError(boom)
	mock.ExpectRollback()

	err = NewSQLiteStore(db).Save(context.Background(), NewSet("1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id FROM bookmarks").WillReturnError(errors.New("no such table: bookmarks"))

	_, err = NewSQLiteStore(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query bookmarks")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow("7").AddRow("3")
	mock.ExpectQuery("SELECT user_id FROM bookmarks").WillReturnRows(rows)

	set, err := NewSQLiteStore(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "7"}, set.IDs())
}
