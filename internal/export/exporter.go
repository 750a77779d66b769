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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/logging"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// Extension is appended to export file names that lack it.
const Extension = ".sofusers"

// Exporter writes snapshots to .sofusers files.
type Exporter struct {
	dir    string
	loc    *time.Location
	logger logging.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDir resolves relative file names against dir instead of the working
// directory.
func WithDir(dir string) Option {
	return func(e *Exporter) {
		e.dir = dir
	}
}

// WithLocation sets the zone LastAccessDate is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(e *Exporter) {
		e.loc = loc
	}
}

// New returns an Exporter that renders local times into the working
// directory unless configured otherwise.
func New(logger logging.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		loc:    time.Local,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName appends Extension to name unless it already ends with it.
func FileName(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

// Export sorts a copy of users by id in the given order and writes it to
// fileName. It returns the path written. An empty users returns
// ErrNothingToExport without touching the filesystem.
func (e *Exporter) Export(ctx context.Context, users []stackexchange.UserRecord, fileName string, order stackexchange.SortOrder) (string, error) {
	if len(users) == 0 {
		return "", apperrors.ErrNothingToExport
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", fmt.Errorf("file name cannot be empty: %w", apperrors.ErrInvalidInput)
	}

	path := FileName(fileName)
	if e.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}

	sorted := append([]stackexchange.UserRecord(nil), users...)
	stackexchange.SortByUserID(sorted, order)

	if err := e.writeAtomic(path, sorted); err != nil {
		e.logger.Error(ctx, "export failed", "path", path, "error", err)
		return "", err
	}

	e.logger.Debug(ctx, "exported users", "path", path, "count", len(sorted), "order", string(order))
	return path, nil
}

func (e *Exporter) writeAtomic(path string, users []stackexchange.UserRecord) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := NewWriter(tmp, e.loc)
	if err = w.WriteHeader(len(users)); err != nil {
		return err
	}
	for _, u := range users {
		if err = w.Write(u); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set export permissions: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
