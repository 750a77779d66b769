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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrNetworkFailure indicates a transport-level problem (DNS, connection
	// reset, timeout) while talking to the Stack Exchange API.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRemoteRejected indicates the API answered with a non-2xx status.
	// Maps to exit code 2.
	ErrRemoteRejected = errors.New("request rejected by remote api")

	// ErrPersistence indicates the bookmark store could not be read or written.
	ErrPersistence = errors.New("bookmark store unavailable")

	// ErrInvalidInput indicates a page, page size, sort order or user id
	// that failed validation before reaching the session.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNothingToExport is returned when an export is requested before any
	// users have been displayed.
	ErrNothingToExport = errors.New("no users to save, display users first")

	// ErrNotBookmarked is returned when removing an id that is not in the
	// bookmark set.
	ErrNotBookmarked = errors.New("user is not bookmarked")

	// ErrNoBookmarks is returned when the bookmark set is empty.
	ErrNoBookmarks = errors.New("no users are bookmarked")

	// ErrNoBookmarkedInSnapshot is returned when bookmarks exist but none of
	// them appear in the last displayed list.
	ErrNoBookmarkedInSnapshot = errors.New("no bookmarked users in the last displayed list")
)
