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

// Package export writes a snapshot of users to a tab-separated .sofusers
// file.
//
// The file starts with a count line and a column header, followed by one
// line per user:
//
//	Total Count of Users Fetched: 2
//	UserID	AccountID	DisplayName	UserAge	Reputation	Location	UserType	LastAccessDate
//	42	1042	Jane	Null	1200	Berlin	registered	2023-11-14 22:13:20
//
// Absent values are written as "Null". Tabs inside names and locations are
// replaced by spaces so every line keeps eight columns. Times are rendered
// in the exporter's location, which defaults to time.Local.
//
// Exports are written to a temporary file in the destination directory and
// renamed into place, so a failed export never leaves a partial file.
package export
