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
	"os"
	"os/signal"

	apperrors "github.com/sirseerhq/sofusers/internal/errors"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "sofusers",
		Short: "Browse, bookmark and export Stack Overflow users",
		Long: `sofusers fetches pages of Stack Overflow users from the Stack Exchange API,
displays them as a table, keeps a persistent set of bookmarked users and
saves the last displayed list to a tab-separated .sofusers file.

Run without a subcommand to start the interactive menu.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowseCommand(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.key, "key", "", "Stack Exchange API key (overrides the key_env variable)")
	flags.BoolVar(&opts.askKey, "ask-key", false, "Prompt for the API key without echoing it")
	flags.StringVar(&opts.stateDir, "state-dir", "", "Directory holding the bookmark store")
	flags.StringVar(&opts.store, "store", "", "Bookmark store backend: file or sqlite")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(
		newBrowseCommand(opts),
		newFetchCommand(opts),
		newBookmarkCommand(opts),
	)

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, apperrors.ErrRemoteRejected) {
		return 2
	}

	if errors.Is(err, apperrors.ErrNetworkFailure) {
		return 3
	}

	return 1
}
