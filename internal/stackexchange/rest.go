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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/sofusers/internal/apierror"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
)

const (
	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 10 << 20

	// maxErrorBodyBytes bounds the body quoted in a StatusError.
	maxErrorBodyBytes = 4 << 10
)

// RESTConfig configures a RESTClient.
type RESTConfig struct {
	// Endpoint is the API root, e.g. https://api.stackexchange.com/2.2.
	Endpoint string

	// Site is the site parameter, e.g. stackoverflow.
	Site string

	// Key is the optional application key.
	Key string

	// Timeout bounds every request, including reading the body.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// RESTClient implements Client against the users endpoint.
type RESTClient struct {
	httpClient *http.Client
	endpoint   string
	site       string
	key        string
}

// NewRESTClient creates a client with a bounded timeout and a transport
// that stamps the User-Agent header.
func NewRESTClient(cfg RESTConfig) *RESTClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &RESTClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &userAgentTransport{
				userAgent: cfg.UserAgent,
				base:      transport,
			},
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		site:     cfg.Site,
		key:      cfg.Key,
	}
}

// FetchUsers issues exactly one GET {endpoint}/users request.
func (c *RESTClient) FetchUsers(ctx context.Context, opts FetchOptions) (*UserPage, error) {
	pageSize := opts.PageSize
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	if c.key != "" {
		params.Set("key", c.key)
	}
	params.Set("order", string(opts.Order))
	params.Set("site", c.site)
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("pagesize", strconv.Itoa(pageSize))

	reqURL := c.endpoint + "/users?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &apierror.StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var wire wireResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&wire); err != nil {
		var netErr net.Error
		if ctx.Err() != nil || errors.As(err, &netErr) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrNetworkFailure, err)
		}
		return nil, fmt.Errorf("invalid response body: %v: %w", err, apperrors.ErrRemoteRejected)
	}

	return decodePage(&wire), nil
}

// userAgentTransport adds standard headers to every request.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
