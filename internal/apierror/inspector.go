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

package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	apperrors "github.com/sirseerhq/sofusers/internal/errors"
)

// StatusError is returned when the API answers with a non-2xx status.
// Body holds the (size limited) response body, which the Stack Exchange API
// fills with a JSON error_id/error_name/error_message triple.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, body)
}

// Unwrap lets errors.Is match ErrRemoteRejected.
func (e *StatusError) Unwrap() error {
	return apperrors.ErrRemoteRejected
}

// Inspector provides methods to classify API errors.
type Inspector interface {
	// IsNetworkError returns true for transport-level failures.
	IsNetworkError(err error) bool

	// IsThrottleError returns true when the API refused the call because of
	// request throttling or exhausted quota.
	IsThrottleError(err error) bool

	// IsRetryable returns true when repeating the same request may succeed.
	IsRetryable(err error) bool
}

// StackExchangeInspector implements Inspector for errors produced by the
// stackexchange package.
type StackExchangeInspector struct{}

// NewInspector creates a new StackExchangeInspector.
func NewInspector() Inspector {
	return &StackExchangeInspector{}
}

// IsNetworkError checks the error chain for ErrNetworkFailure or a net.Error,
// then falls back to matching well-known messages.
func (i *StackExchangeInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperrors.ErrNetworkFailure) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsThrottleError checks for HTTP 429 or the API's throttle_violation error.
func (i *StackExchangeInspector) IsThrottleError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "throttle_violation") ||
		strings.Contains(errStr, "too many requests")
}

// IsRetryable reports whether err is a transient network failure or a
// gateway-type status. Context cancellation is never retryable.
func (i *StackExchangeInspector) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return IsRetryableStatusCode(statusErr.StatusCode)
	}
	return i.IsNetworkError(err)
}

// IsRetryableStatusCode checks if an HTTP status code should trigger a retry.
func IsRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
