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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sofusers/internal/display"
	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// fetchOptions are the flags of the fetch command.
type fetchOptions struct {
	page     int
	pageSize int
	order    string
	output   string
}

func newFetchCommand(opts *globalOptions) *cobra.Command {
	var fo fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and display one page of users",
		Long: `Fetch one page of Stack Overflow users and print it as a table.

With --output the page is also saved to a .sofusers file, sorted by user id
in the requested order. The extension is added when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			return runFetch(cmd.Context(), a, cmd.OutOrStdout(), fo)
		},
	}

	cmd.Flags().IntVar(&fo.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&fo.pageSize, "page-size", 0, "Users per page, at most 100 (default from config)")
	cmd.Flags().StringVar(&fo.order, "order", "", "Sort order: asc or desc (default from config)")
	cmd.Flags().StringVarP(&fo.output, "output", "o", "", "Also save the users to this .sofusers file")

	return cmd
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, a *app, out io.Writer, fo fetchOptions) error {
	if fo.pageSize == 0 {
		fo.pageSize = a.cfg.Defaults.PageSize
	}
	if fo.order == "" {
		fo.order = a.cfg.Defaults.Order
	}

	if err := checkPositive("page", fo.page); err != nil {
		return err
	}
	if err := checkPositive("page size", fo.pageSize); err != nil {
		return err
	}
	order, err := stackexchange.ParseSortOrder(fo.order)
	if err != nil {
		return err
	}

	result, err := a.fetcher.FetchPage(ctx, fo.page, fo.pageSize, order)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	if err := display.Users(out, result.Users, a.loc); err != nil {
		return err
	}

	if fo.output == "" {
		return nil
	}

	a.session.SetSnapshot(result.Users)
	path, err := a.exporter.Export(ctx, a.session.SortedSnapshot(order), fo.output, order)
	if err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	fmt.Fprintf(out, "Saved %d users to %s\n", len(result.Users), path)
	return nil
}
