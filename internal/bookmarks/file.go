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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps the bookmark set in a JSON file.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the file at path. The file and its
// directory are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads and validates the bookmark file. A missing file is the normal
// first-run condition and yields an empty set with no error.
func (f *FileStore) Load(ctx context.Context) (Set, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("failed to read bookmark file %s: %w", f.path, err)
	}

	var doc document
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("bookmark file is corrupted (invalid JSON): %w", unmarshalErr)
	}

	if doc.Version != CurrentVersion {
		return nil, fmt.Errorf("bookmark file version (%d) is incompatible with current version (%d)",
			doc.Version, CurrentVersion)
	}

	savedChecksum := doc.Checksum
	calculatedChecksum, err := calculateChecksum(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if savedChecksum != calculatedChecksum {
		return nil, fmt.Errorf("bookmark file is corrupted (checksum mismatch)")
	}

	return NewSet(doc.UserIDs...), nil
}

// Save atomically replaces the bookmark file with s. It writes a temporary
// file in the same directory, syncs it, and renames it over the old file,
// so a failure at any step leaves the previous contents untouched.
func (f *FileStore) Save(ctx context.Context, s Set) error {
	doc := &document{
		Version: CurrentVersion,
		SavedAt: f.now().UTC(),
		UserIDs: s.IDs(),
	}

	checksum, err := calculateChecksum(doc)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	doc.Checksum = checksum

	dir := filepath.Dir(f.path)
	if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create bookmark directory: %w", mkdirErr)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary bookmark file: %w", err)
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary bookmark file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempFile, 0o600); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to set bookmark file permissions: %w", err)
	}

	if err := os.Rename(tempFile, f.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// calculateChecksum computes the SHA256 hash of the document content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(doc *document) (string, error) {
	docCopy := *doc
	docCopy.Checksum = ""

	data, err := json.Marshal(docCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
