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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailableStore_FailsWithOpenError(t *testing.T) {
	ctx := context.Background()
	notADir := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	_, openErr := OpenSQLiteStore(ctx, filepath.Join(notADir, "bookmarks.db"))
	require.Error(t, openErr)

	var store Store = NewUnavailableStore(openErr)

	set, err := store.Load(ctx)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, openErr)

	assert.ErrorIs(t, store.Save(ctx, NewSet("1")), openErr)
}
