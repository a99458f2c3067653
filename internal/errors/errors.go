// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errors provides typed, user-facing errors for the lineagectl CLI.
//
// Every error carries a short title, a detail line explaining what went wrong,
// and a hint telling the user what to try next. FatalError renders one of
// these consistently and exits the process with status 1.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind classifies a CLI-facing error for JSON output and exit-code handling.
type Kind string

const (
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
	KindPermission Kind = "permission"
	KindDatabase   Kind = "database"
	KindInput      Kind = "input"
	KindParse      Kind = "parse"
	KindNetwork    Kind = "network"
)

// CLIError is a structured error meant to be surfaced directly to a terminal user.
type CLIError struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Hint   string `json:"hint,omitempty"`
	Err    error  `json:"-"`
}

func (e *CLIError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *CLIError) Unwrap() error { return e.Err }

func newError(kind Kind, title, detail, hint string, err error) *CLIError {
	return &CLIError{Kind: kind, Title: title, Detail: detail, Hint: hint, Err: err}
}

// NewConfigError reports a problem reading, parsing, or validating configuration.
func NewConfigError(title, detail, hint string, err error) *CLIError {
	return newError(KindConfig, title, detail, hint, err)
}

// NewInternalError reports a bug or unexpected condition in lineagectl itself.
func NewInternalError(title, detail, hint string, err error) *CLIError {
	return newError(KindInternal, title, detail, hint, err)
}

// NewPermissionError reports a filesystem permission failure.
func NewPermissionError(title, detail, hint string, err error) *CLIError {
	return newError(KindPermission, title, detail, hint, err)
}

// NewDatabaseError reports a failure loading or querying the in-memory lineage database.
func NewDatabaseError(title, detail, hint string, err error) *CLIError {
	return newError(KindDatabase, title, detail, hint, err)
}

// NewInputError reports invalid user-supplied input (flags, arguments).
func NewInputError(title, detail, hint string) *CLIError {
	return newError(KindInput, title, detail, hint, nil)
}

// NewParseError reports a malformed line in a lineage trace file.
func NewParseError(title, detail, hint string, err error) *CLIError {
	return newError(KindParse, title, detail, hint, err)
}

// NewNetworkError is reserved for symmetry with the CLI error taxonomy;
// lineagectl is a batch loader and never makes network calls itself.
func NewNetworkError(title, detail, hint string, err error) *CLIError {
	return newError(KindNetwork, title, detail, hint, err)
}

// FatalError prints err to stderr (as JSON when asJSON is true) and exits with status 1.
// A plain, non-*CLIError is wrapped as an internal error before printing.
func FatalError(err error, asJSON bool) {
	cliErr, ok := err.(*CLIError)
	if !ok {
		cliErr = NewInternalError("Unexpected error", err.Error(), "", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(cliErr)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Title)
	if cliErr.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", cliErr.Detail)
	}
	if cliErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", cliErr.Hint)
	}
	os.Exit(1)
}
