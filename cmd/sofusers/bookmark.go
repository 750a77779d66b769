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

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sofusers/internal/display"
	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/sirseerhq/sofusers/internal/session"
)

func newBookmarkCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage bookmarked users",
	}

	withApp := func(run func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return run(cmd.Context(), a, cmd.OutOrStdout(), args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <user-id>...",
			Short: "Bookmark one or more users",
			Args:  cobra.MinimumNArgs(1),
			RunE:  withApp(runBookmarkAdd),
		},
		&cobra.Command{
			Use:     "remove <user-id>...",
			Aliases: []string{"rm"},
			Short:   "Remove one or more bookmarks",
			Args:    cobra.MinimumNArgs(1),
			RunE:    withApp(runBookmarkRemove),
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List bookmarked user ids",
			Args:    cobra.NoArgs,
			RunE:    withApp(runBookmarkList),
		},
	)

	return cmd
}

func runBookmarkAdd(ctx context.Context, a *app, out io.Writer, ids []string) error {
	for _, id := range ids {
		if err := a.session.Bookmark(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "User with ID %s has been bookmarked.\n", session.NormalizeID(id))
	}
	return nil
}

// runBookmarkRemove removes every id it can and reports ids that were not
// bookmarked. Only a store failure is returned as an error.
func runBookmarkRemove(ctx context.Context, a *app, out io.Writer, ids []string) error {
	for _, id := range ids {
		err := a.session.Unbookmark(ctx, id)
		switch {
		case errors.Is(err, apperrors.ErrNotBookmarked):
			fmt.Fprintf(out, "User with ID %s is not bookmarked.\n", session.NormalizeID(id))
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "User with ID %s has been unbookmarked.\n", session.NormalizeID(id))
		}
	}
	return nil
}

func runBookmarkList(_ context.Context, a *app, out io.Writer, _ []string) error {
	return display.IDs(out, a.session.Bookmarks())
}
