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
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/sofusers/internal/apierror"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/logging"
	"github.com/sirseerhq/sofusers/internal/testutil"
)

func TestFetcher_Success(t *testing.T) {
	mock := NewMockClientWithOptions(WithUsers(GenerateTestUsers(5)))
	fetcher := NewFetcher(mock, logging.Discard())

	users, diag := fetcher.Fetch(context.Background(), 3, 5, OrderAsc)

	assert.Empty(t, diag)
	assert.Len(t, users, 5)
	assert.Equal(t, 1, mock.CallCount)
	assert.Equal(t, FetchOptions{Page: 3, PageSize: 5, Order: OrderAsc}, mock.LastOpts)
}

func TestFetcher_ClampsPageSize(t *testing.T) {
	mock := NewMockClient()
	fetcher := NewFetcher(mock, logging.Discard())

	fetcher.Fetch(context.Background(), 1, 250, OrderDesc)

	assert.Equal(t, MaxPageSize, mock.LastOpts.PageSize)
}

func TestFetcher_TransportFailure(t *testing.T) {
	mock := NewMockClientWithOptions(WithNetworkFailure())
	fetcher := NewFetcher(mock, logging.Discard())

	users, diag := fetcher.Fetch(context.Background(), 1, 10, OrderDesc)

	assert.Empty(t, users)
	assert.True(t, strings.HasPrefix(diag, "Error fetching users:"), "diag = %q", diag)
	assert.Contains(t, diag, "network connection failed")
}

func TestFetcher_RemoteRejection(t *testing.T) {
	body := `{"error_id":502,"error_name":"throttle_violation","error_message":"too many requests from this IP"}`
	mock := NewMockClientWithOptions(WithError(&apierror.StatusError{StatusCode: http.StatusBadGateway, Body: body}))
	fetcher := NewFetcher(mock, logging.Discard())

	users, diag := fetcher.Fetch(context.Background(), 1, 10, OrderDesc)

	assert.Empty(t, users)
	assert.True(t, strings.HasPrefix(diag, "HTTP error: "+body), "diag = %q", diag)
	assert.Contains(t, diag, "throttled")
}

func TestFetcher_EndToEndWithRetry(t *testing.T) {
	server := testutil.NewTransientErrorServer(t, 2, http.StatusServiceUnavailable)

	rest := NewRESTClient(RESTConfig{Endpoint: server.URL, Site: "stackoverflow", Timeout: 5 * time.Second})
	retry := NewRetryClient(rest, fastRetryConfig(3), logging.Discard())
	fetcher := NewFetcher(retry, logging.Discard())

	users, diag := fetcher.Fetch(context.Background(), 1, 10, OrderDesc)

	require.Empty(t, diag)
	assert.Len(t, users, 10)
	assert.Equal(t, 3, server.RequestCount())
}

func TestFetcher_EmptyPageIsNotAFailure(t *testing.T) {
	mock := NewMockClientWithOptions(WithUsers(nil))
	fetcher := NewFetcher(mock, logging.Discard())

	users, diag := fetcher.Fetch(context.Background(), 999, 100, OrderDesc)

	assert.Empty(t, users)
	assert.Empty(t, diag)
}

func TestFetcher_FetchPageReturnsClassifiedError(t *testing.T) {
	fetcher := NewFetcher(NewMockClientWithOptions(WithNetworkFailure()), logging.Discard())

	page, err := fetcher.FetchPage(context.Background(), 1, 10, OrderDesc)

	assert.Nil(t, page)
	require.ErrorIs(t, err, apperrors.ErrNetworkFailure)
}
