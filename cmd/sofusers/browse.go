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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sofusers/internal/display"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/session"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

const menuText = `
Menu:
1. Fetch and display Stack Overflow users
2. Save users to file (Specify sort order: asc or desc)
3. Bookmark a user
4. Unbookmark a user
5. Display bookmarked users
6. Exit`

func newBrowseCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Start the interactive menu",
		Long: `Start the interactive menu. Users fetched in option 1 become the working
list that options 2 and 5 operate on. Bookmarks are saved as soon as they
change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowseCommand(cmd, opts)
		},
	}
}

func runBrowseCommand(cmd *cobra.Command, opts *globalOptions) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.close()

	m := &menu{
		app: a,
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return m.run(cmd.Context())
}

// menu is the numbered read-eval-print loop. Every failure is reported to
// out and control returns to the menu; only end of input, option 6 or a
// cancelled context end the loop.
type menu struct {
	app *app
	in  *bufio.Reader
	out io.Writer
}

func (m *menu) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("Enter your choice")
		if err != nil {
			return m.endOfInput(err)
		}

		switch choice {
		case "1":
			err = m.fetchAndDisplay(ctx)
		case "2":
			err = m.save(ctx)
		case "3":
			err = m.bookmark(ctx)
		case "4":
			err = m.unbookmark(ctx)
		case "5":
			err = m.displayBookmarked()
		case "6":
			fmt.Fprintln(m.out, "Exiting the program.")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please enter a valid option.")
		}

		if err != nil {
			return m.endOfInput(err)
		}
	}
}

// endOfInput turns EOF into a clean exit and passes other read errors up.
func (m *menu) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(m.out)
		return nil
	}
	return err
}

// prompt writes label and reads one trimmed line. A final line without a
// newline is still returned.
func (m *menu) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(m.out, label+": "); err != nil {
		return "", err
	}
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *menu) fetchAndDisplay(ctx context.Context) error {
	pageInput, err := m.prompt("Enter the page number")
	if err != nil {
		return err
	}
	sizeInput, err := m.prompt(fmt.Sprintf("Enter the number of users per page (Max number of users per page = %d)", stackexchange.MaxPageSize))
	if err != nil {
		return err
	}

	page, err := parsePositive("page number", pageInput)
	if err != nil {
		m.reportInvalid(err)
		return nil
	}
	pageSize, err := parsePositive("page size", sizeInput)
	if err != nil {
		m.reportInvalid(err)
		return nil
	}

	order := stackexchange.SortOrder(m.app.cfg.Defaults.Order)
	users, diag := m.app.fetcher.Fetch(ctx, page, pageSize, order)
	if diag != "" {
		fmt.Fprintln(m.out, diag)
	}

	m.app.session.SetSnapshot(users)
	return display.Users(m.out, users, m.app.loc)
}

func (m *menu) save(ctx context.Context) error {
	fileName, err := m.prompt("Enter the file name to save users")
	if err != nil {
		return err
	}
	orderInput, err := m.prompt("Enter sort order (asc or desc)")
	if err != nil {
		return err
	}

	order, err := stackexchange.ParseSortOrder(orderInput)
	if err != nil {
		m.reportInvalid(err)
		return nil
	}

	path, err := m.app.exporter.Export(ctx, m.app.session.SortedSnapshot(order), fileName, order)
	switch {
	case errors.Is(err, apperrors.ErrNothingToExport):
		fmt.Fprintln(m.out, "No users to save. Display users first.")
	case errors.Is(err, apperrors.ErrInvalidInput):
		m.reportInvalid(err)
	case err != nil:
		fmt.Fprintf(m.out, "Error saving users to file: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Saved %d users to %s\n", len(m.app.session.Snapshot()), path)
	}
	return nil
}

func (m *menu) bookmark(ctx context.Context) error {
	id, err := m.prompt("Enter the user ID to bookmark")
	if err != nil {
		return err
	}

	switch err := m.app.session.Bookmark(ctx, id); {
	case errors.Is(err, apperrors.ErrInvalidInput):
		m.reportInvalid(err)
	case err != nil:
		fmt.Fprintf(m.out, "Could not save bookmark: %v\n", err)
	default:
		fmt.Fprintf(m.out, "User with ID %s has been bookmarked.\n", session.NormalizeID(id))
	}
	return nil
}

func (m *menu) unbookmark(ctx context.Context) error {
	id, err := m.prompt("Enter the user ID to unbookmark")
	if err != nil {
		return err
	}

	switch err := m.app.session.Unbookmark(ctx, id); {
	case errors.Is(err, apperrors.ErrNotBookmarked):
		fmt.Fprintf(m.out, "User with ID %s is not bookmarked.\n", session.NormalizeID(id))
	case err != nil:
		fmt.Fprintf(m.out, "Could not save bookmark: %v\n", err)
	default:
		fmt.Fprintf(m.out, "User with ID %s has been unbookmarked.\n", session.NormalizeID(id))
	}
	return nil
}

func (m *menu) displayBookmarked() error {
	users, err := m.app.session.BookmarkedFromSnapshot()
	switch {
	case errors.Is(err, apperrors.ErrNoBookmarks):
		fmt.Fprintln(m.out, "No users are bookmarked.")
		return nil
	case errors.Is(err, apperrors.ErrNoBookmarkedInSnapshot):
		fmt.Fprintln(m.out, "No bookmarked users in the last displayed list.")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(m.out, "Bookmarked Users:")
	m.app.session.SetSnapshot(users)
	return display.Users(m.out, users, m.app.loc)
}

func (m *menu) reportInvalid(err error) {
	fmt.Fprintf(m.out, "Invalid input: %v\n", err)
}

// parsePositive parses a strictly positive integer named what.
func parsePositive(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer, got %q: %w", what, s, apperrors.ErrInvalidInput)
	}
	return n, checkPositive(what, n)
}

func checkPositive(what string, n int) error {
	if n < 1 {
		return fmt.Errorf("%s must be a positive integer, got %d: %w", what, n, apperrors.ErrInvalidInput)
	}
	return nil
}
