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
	"errors"
	"fmt"
	"strings"

	"github.com/sirseerhq/sofusers/internal/apierror"
	"github.com/sirseerhq/sofusers/internal/logging"
)

// Fetcher adapts a Client to the never-failing fetch contract used by the
// interactive session: a failed call yields an empty slice and a one-line
// diagnostic instead of an error.
type Fetcher struct {
	client    Client
	inspector apierror.Inspector
	logger    logging.Logger
}

// NewFetcher creates a Fetcher around client.
func NewFetcher(client Client, logger logging.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		inspector: apierror.NewInspector(),
		logger:    logger,
	}
}

// Fetch requests one page. pageSize is clamped to MaxPageSize. On failure
// the returned slice is empty and diag describes what went wrong; diag is
// empty on success, even when the page itself has no users.
func (f *Fetcher) Fetch(ctx context.Context, page, pageSize int, order SortOrder) (users []UserRecord, diag string) {
	result, err := f.FetchPage(ctx, page, pageSize, order)
	if err != nil {
		return nil, f.describe(err)
	}
	return result.Users, ""
}

// FetchPage is Fetch for callers that need the classified error, such as
// one-shot commands mapping failures to exit codes.
func (f *Fetcher) FetchPage(ctx context.Context, page, pageSize int, order SortOrder) (*UserPage, error) {
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	result, err := f.client.FetchUsers(ctx, FetchOptions{
		Page:     page,
		PageSize: pageSize,
		Order:    order,
	})
	if err != nil {
		f.logger.Error(ctx, "fetch users failed", "page", page, "page_size", pageSize, "error", err)
		return nil, err
	}

	f.logger.Debug(ctx, "fetched users",
		"page", page, "page_size", pageSize, "order", order,
		"count", len(result.Users), "has_more", result.HasMore,
		"quota_remaining", result.QuotaRemaining)

	return result, nil
}

func (f *Fetcher) describe(err error) string {
	var statusErr *apierror.StatusError
	if errors.As(err, &statusErr) {
		msg := fmt.Sprintf("HTTP error: %s", strings.TrimSpace(statusErr.Body))
		if f.inspector.IsThrottleError(err) {
			msg += " (request throttled, try again later)"
		}
		return msg
	}
	return fmt.Sprintf("Error fetching users: %v", err)
}
