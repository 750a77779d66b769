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

// Package display renders users as an aligned table for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirseerhq/sofusers/internal/stackexchange"
)

// NoUsersMessage is printed instead of an empty table.
const NoUsersMessage = "No users to display."

// TimeLayout renders LastAccessDate.
const TimeLayout = "2006-01-02 15:04:05"

// Users writes users as a table with a 1-based row number. Times are
// rendered in loc, or time.Local when loc is nil.
func Users(w io.Writer, users []stackexchange.UserRecord, loc *time.Location) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, NoUsersMessage)
		return err
	}
	if loc == nil {
		loc = time.Local
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "User Number\tName\tUserID\tReputation\tLastAccessDate")
	for i, u := range users {
		reputation := stackexchange.NullValue
		if u.Reputation != nil {
			reputation = strconv.Itoa(*u.Reputation)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			i+1,
			strings.ReplaceAll(u.DisplayName, "\t", " "),
			u.UserID,
			reputation,
			u.LastAccess(loc).Format(TimeLayout))
	}
	return tw.Flush()
}

// IDs writes one bookmarked id per line, or a notice when there are none.
func IDs(w io.Writer, ids []string) error {
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "No users are bookmarked.")
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
