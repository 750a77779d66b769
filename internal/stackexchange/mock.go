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
	"context"
	"fmt"

	apperrors "github.com/sirseerhq/sofusers/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Users to return
	Users []UserRecord

	// Error to return
	Error error

	// Behavior flags
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount int
	LastOpts  FetchOptions
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Users: GenerateTestUsers(3),
	}
}

// FetchUsers implements the Client interface
func (m *MockClient) FetchUsers(ctx context.Context, opts FetchOptions) (*UserPage, error) {
	m.CallCount++
	m.LastOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("%w: dial tcp: i/o timeout", apperrors.ErrNetworkFailure)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	users := make([]UserRecord, len(m.Users))
	copy(users, m.Users)
	return &UserPage{Users: users}, nil
}

// GenerateTestUsers creates n users with ids 1..n and every optional
// field populated.
func GenerateTestUsers(n int) []UserRecord {
	users := make([]UserRecord, 0, n)
	for i := 1; i <= n; i++ {
		accountID := 1000 + i
		reputation := i * 10
		location := fmt.Sprintf("City %d", i)
		users = append(users, UserRecord{
			UserID:         i,
			AccountID:      &accountID,
			DisplayName:    fmt.Sprintf("user%d", i),
			Reputation:     &reputation,
			Location:       &location,
			UserType:       "registered",
			LastAccessDate: 1700000000 + int64(i),
		})
	}
	return users
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithUsers sets specific users to return
func WithUsers(users []UserRecord) MockClientOption {
	return func(m *MockClient) {
		m.Users = users
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithNetworkFailure makes the client simulate a transport failure
func WithNetworkFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailNetwork = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
