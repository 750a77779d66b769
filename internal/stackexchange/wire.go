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

// wireUser mirrors the subset of the API user object that is consumed.
type wireUser struct {
	UserID         *int    `json:"user_id"`
	AccountID      *int    `json:"account_id"`
	DisplayName    *string `json:"display_name"`
	Reputation     *int    `json:"reputation"`
	Age            *int    `json:"age"`
	Location       *string `json:"location"`
	UserType       *string `json:"user_type"`
	LastAccessDate *int64  `json:"last_access_date"`
}

// wireResponse is the common API wrapper object.
type wireResponse struct {
	Items          []wireUser `json:"items"`
	HasMore        bool       `json:"has_more"`
	QuotaRemaining int        `json:"quota_remaining"`
	Backoff        int        `json:"backoff"`
}

// decodeUser maps a wire record to a UserRecord, substituting the
// documented default for every absent field.
func decodeUser(w wireUser) UserRecord {
	u := UserRecord{
		UserID:      MissingUserID,
		AccountID:   w.AccountID,
		DisplayName: NullValue,
		Reputation:  w.Reputation,
		Age:         w.Age,
		UserType:    NullValue,
	}
	if w.UserID != nil {
		u.UserID = *w.UserID
	}
	if w.DisplayName != nil {
		u.DisplayName = *w.DisplayName
	}
	if w.Location != nil && *w.Location != "" {
		loc := *w.Location
		u.Location = &loc
	}
	if w.UserType != nil {
		u.UserType = *w.UserType
	}
	if w.LastAccessDate != nil {
		u.LastAccessDate = *w.LastAccessDate
	}
	return u
}

func decodePage(resp *wireResponse) *UserPage {
	users := make([]UserRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		users = append(users, decodeUser(item))
	}
	return &UserPage{
		Users:          users,
		HasMore:        resp.HasMore,
		QuotaRemaining: resp.QuotaRemaining,
		Backoff:        resp.Backoff,
	}
}
