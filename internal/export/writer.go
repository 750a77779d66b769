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

package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// ColumnHeader is the second line of every export.
const ColumnHeader = "UserID\tAccountID\tDisplayName\tUserAge\tReputation\tLocation\tUserType\tLastAccessDate"

// TimeLayout renders LastAccessDate.
const TimeLayout = "2006-01-02 15:04:05"

// Writer streams export lines to an io.Writer. Output is buffered until
// Flush.
type Writer struct {
	mu    sync.Mutex
	out   *bufio.Writer
	loc   *time.Location
	count int
}

// NewWriter returns a Writer that renders times in loc. A nil loc means
// time.Local.
func NewWriter(w io.Writer, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.Local
	}
	return &Writer{
		out: bufio.NewWriter(w),
		loc: loc,
	}
}

// WriteHeader writes the count line and the column header.
func (w *Writer) WriteHeader(total int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.out, "Total Count of Users Fetched: %d\n%s\n", total, ColumnHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Write writes one user line.
func (w *Writer) Write(u stackexchange.UserRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.WriteString(FormatRow(u, w.loc) + "\n"); err != nil {
		return fmt.Errorf("failed to write user %d: %w", u.UserID, err)
	}
	w.count++
	return nil
}

// Count returns the number of user lines written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// FormatRow renders u as one tab-separated line without the trailing
// newline.
func FormatRow(u stackexchange.UserRecord, loc *time.Location) string {
	fields := []string{
		strconv.Itoa(u.UserID),
		intOrNull(u.AccountID),
		sanitize(u.DisplayName),
		intOrNull(u.Age),
		intOrNull(u.Reputation),
		stringOrNull(u.Location),
		u.UserType,
		u.LastAccess(loc).Format(TimeLayout),
	}
	return strings.Join(fields, "\t")
}

func intOrNull(v *int) string {
	if v == nil {
		return stackexchange.NullValue
	}
	return strconv.Itoa(*v)
}

func stringOrNull(v *string) string {
	if v == nil || *v == "" {
		return stackexchange.NullValue
	}
	return sanitize(*v)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
