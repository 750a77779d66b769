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
	"math"
	"sync"
	"time"

	"github.com/sirseerhq/sofusers/internal/apierror"
	"github.com/sirseerhq/sofusers/internal/logging"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Client with retry logic for transient network errors
// and gateway statuses using exponential backoff. It also honours the
// backoff field the API returns, delaying the next call accordingly.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector apierror.Inspector
	logger    logging.Logger

	// wait blocks for d or until ctx is done. Replaced in tests.
	wait func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	notBefore time.Time
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig, logger logging.Logger) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: apierror.NewInspector(),
		logger:    logger,
		wait:      sleepContext,
	}
}

// FetchUsers implements the Client interface with retry logic
func (r *RetryClient) FetchUsers(ctx context.Context, opts FetchOptions) (*UserPage, error) {
	if err := r.honourBackoff(ctx); err != nil {
		return nil, err
	}

	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		page, err := r.client.FetchUsers(ctx, opts)
		if err == nil {
			r.recordBackoff(page.Backoff)
			return page, nil
		}

		lastErr = err

		// Don't retry on non-retryable errors
		if !r.inspector.IsRetryable(err) {
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, err
		}

		if attempt == r.config.MaxRetries {
			break
		}

		backoff := r.calculateBackoff(attempt)
		r.logger.Warn(ctx, "transient api failure, retrying",
			"error", err, "backoff", backoff, "attempt", attempt+1, "max_retries", r.config.MaxRetries)

		if err := r.wait(ctx, backoff); err != nil {
			return nil, lastErr
		}
	}

	if r.config.MaxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// honourBackoff waits out a backoff requested by a previous response.
func (r *RetryClient) honourBackoff(ctx context.Context) error {
	r.mu.Lock()
	d := time.Until(r.notBefore)
	r.mu.Unlock()

	if d <= 0 {
		return nil
	}
	r.logger.Info(ctx, "api requested backoff, waiting", "wait", d.Round(time.Second))
	return r.wait(ctx, d)
}

func (r *RetryClient) recordBackoff(seconds int) {
	if seconds <= 0 {
		return
	}
	r.mu.Lock()
	r.notBefore = time.Now().Add(time.Duration(seconds) * time.Second)
	r.mu.Unlock()
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// ±10% jitter
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
