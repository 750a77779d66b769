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

package stackexchange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/sirseerhq/sofusers/internal/errors"
)

// MaxPageSize is the largest page the API serves. Larger requests are
// clamped silently.
const MaxPageSize = 100

// MissingUserID is substituted when a wire record has no user_id.
const MissingUserID = -1

// NullValue is the placeholder used for absent display and text fields.
const NullValue = "Null"

// UserRecord is one user from the users endpoint. Optional fields are
// pointers so an absent value can be told apart from zero. Values are
// never modified after decoding.
type UserRecord struct {
	UserID         int
	AccountID      *int
	DisplayName    string
	Reputation     *int
	Age            *int
	Location       *string
	UserType       string
	LastAccessDate int64 // epoch seconds
}

// Key returns the string form of the user id. Bookmark membership is always
// tested against this value.
func (u UserRecord) Key() string {
	return strconv.Itoa(u.UserID)
}

// LastAccess returns LastAccessDate as a time in loc.
func (u UserRecord) LastAccess(loc *time.Location) time.Time {
	return time.Unix(u.LastAccessDate, 0).In(loc)
}

// SortOrder is the API sort direction.
type SortOrder string

// Supported sort orders.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder validates user input. Case and surrounding spaces are
// ignored.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("sort order must be asc or desc, got %q: %w", s, apperrors.ErrInvalidInput)
	}
}

// FetchOptions configures one page request.
type FetchOptions struct {
	// Page is 1-based. Callers validate positivity.
	Page int

	// PageSize is clamped to MaxPageSize.
	PageSize int

	// Order is passed through to the API.
	Order SortOrder
}

// UserPage is one decoded page of users plus the wrapper fields the API
// returns alongside them.
type UserPage struct {
	Users          []UserRecord
	HasMore        bool
	QuotaRemaining int

	// Backoff is the number of seconds the API asks clients to wait before
	// calling the same method again. Zero when absent.
	Backoff int
}

// SortByUserID stably sorts users in place by numeric UserID. Any order
// other than OrderDesc sorts ascending.
func SortByUserID(users []UserRecord, order SortOrder) {
	if order == OrderDesc {
		sort.SliceStable(users, func(i, j int) bool { return users[i].UserID > users[j].UserID })
		return
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
}
