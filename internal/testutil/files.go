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

package testutil

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"testing"
)

// exportHeader mirrors export.ColumnHeader. It is repeated here because the
// export package's own tests import testutil.
const exportHeader = "UserID\tAccountID\tDisplayName\tUserAge\tReputation\tLocation\tUserType\tLastAccessDate"

const exportCountPrefix = "Total Count of Users Fetched: "

// ExportFile is a parsed .sofusers file.
type ExportFile struct {
	Count int
	Rows  [][]string
}

// UserIDs returns the first column of every row in file order.
func (e ExportFile) UserIDs() []string {
	ids := make([]string, len(e.Rows))
	for i, row := range e.Rows {
		ids[i] = row[0]
	}
	return ids
}

// ReadExport parses a .sofusers file and fails the test unless it has a
// count line, the column header, and exactly Count rows of eight columns.
func ReadExport(t *testing.T, path string) ExportFile {
	t.Helper()

	lines := readLines(t, path)
	if len(lines) < 2 {
		t.Fatalf("%s: want count and header lines, got %q", path, lines)
	}

	countText, ok := strings.CutPrefix(lines[0], exportCountPrefix)
	if !ok {
		t.Fatalf("%s: bad count line %q", path, lines[0])
	}
	count, err := strconv.Atoi(countText)
	if err != nil {
		t.Fatalf("%s: bad count %q: %v", path, countText, err)
	}
	if lines[1] != exportHeader {
		t.Fatalf("%s: bad column header %q", path, lines[1])
	}

	file := ExportFile{Count: count}
	for i, line := range lines[2:] {
		cols := strings.Split(line, "\t")
		if len(cols) != 8 {
			t.Fatalf("%s: row %d has %d columns: %q", path, i+1, len(cols), line)
		}
		file.Rows = append(file.Rows, cols)
	}
	if len(file.Rows) != count {
		t.Fatalf("%s: count line says %d users, found %d rows", path, count, len(file.Rows))
	}
	return file
}

// readLines returns the lines of path without the trailing empty element.
func readLines(t *testing.T, path string) []string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// AssertFileExists fails the test if path is missing.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

// AssertFileNotExists fails the test if path exists or cannot be checked.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected %s to be absent, stat error: %v", path, err)
	}
}
