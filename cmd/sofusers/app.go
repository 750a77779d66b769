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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/sirseerhq/sofusers/internal/bookmarks"
	"github.com/sirseerhq/sofusers/internal/config"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/export"
	"github.com/sirseerhq/sofusers/internal/logging"
	"github.com/sirseerhq/sofusers/internal/session"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// Terminal seams, replaced in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	key        string
	askKey     bool
	stateDir   string
	store      string
	verbose    bool
}

// app wires the components one command run needs.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	fetcher  *stackexchange.Fetcher
	session  *session.Session
	exporter *export.Exporter
	loc      *time.Location
	closers  []func() error
}

// newApp loads configuration, applies flag overrides and opens the
// bookmark store. Prompts for --ask-key are written to prompt.
func newApp(ctx context.Context, opts *globalOptions, logOut, prompt io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logOut, opts.verbose).With("session_id", uuid.NewString())

	key, err := resolveAPIKey(opts, cfg, prompt)
	if err != nil {
		return nil, err
	}

	store, closeStore := openStore(ctx, cfg, logger)

	rest := stackexchange.NewRESTClient(stackexchange.RESTConfig{
		Endpoint:  cfg.API.Endpoint,
		Site:      cfg.API.Site,
		Key:       key,
		Timeout:   cfg.API.Timeout,
		UserAgent: "sofusers/" + version,
	})
	client := stackexchange.NewRetryClient(rest, &stackexchange.RetryConfig{
		MaxRetries:     cfg.Retry.MaxRetries,
		InitialBackoff: cfg.Retry.InitialBackoff,
		MaxBackoff:     cfg.Retry.MaxBackoff,
	}, logger)

	logger.Debug(ctx, "starting",
		"version", version,
		"endpoint", cfg.API.Endpoint,
		"site", cfg.API.Site,
		"store", cfg.Store.Backend,
		"bookmarks_path", cfg.BookmarksPath(),
		"anonymous", key == "")

	a := &app{
		cfg:      cfg,
		logger:   logger,
		fetcher:  stackexchange.NewFetcher(client, logger),
		session:  session.New(ctx, store, logger),
		exporter: export.New(logger),
		loc:      time.Local,
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	return a, nil
}

func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.stateDir != "" {
		cfg.Defaults.StateDir = opts.stateDir
	}
	if opts.store != "" {
		cfg.Store.Backend = strings.ToLower(opts.store)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveAPIKey picks the key from --key, an interactive prompt, or the
// configured environment variable, in that order.
func resolveAPIKey(opts *globalOptions, cfg *config.Config, prompt io.Writer) (string, error) {
	if opts.key != "" {
		return opts.key, nil
	}
	if !opts.askKey {
		return cfg.APIKey(), nil
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("--ask-key needs an interactive terminal: %w", apperrors.ErrInvalidInput)
	}

	fmt.Fprint(prompt, "Enter API key (empty for anonymous access): ")
	key, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(key)), nil
}

// openStore opens the configured backend. A backend that cannot be opened
// is replaced by an UnavailableStore so the session still starts, with no
// bookmarks and every save failing.
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (bookmarks.Store, func() error) {
	path := cfg.BookmarksPath()

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := bookmarks.OpenSQLiteStore(ctx, path)
		if err != nil {
			logger.Warn(ctx, "bookmark database unavailable, bookmarks will not be saved",
				"path", path, "error", err)
			return bookmarks.NewUnavailableStore(err), nil
		}
		return store, store.Close
	default:
		return bookmarks.NewFileStore(path), nil
	}
}

// close releases resources held by the app.
func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
