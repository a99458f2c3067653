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

// Package ui provides colored terminal output helpers shared by the
// lineagectl subcommands.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	Green = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

// InitColors enables or disables colored output. Colors are disabled when
// noColor is set, when NO_COLOR is present in the environment, or when
// stdout is not a terminal.
func InitColors(noColor bool) {
	isTerminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if noColor || os.Getenv("NO_COLOR") != "" || !isTerminal {
		color.NoColor = true
	}
}

// Header prints a bold section title followed by an underline of '=' characters.
func Header(title string) {
	_, _ = Bold.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
}

// SubHeader prints a bold subsection title.
func SubHeader(title string) {
	_, _ = Bold.Println(title)
}

// Label renders a bold field label for "Label: value" lines.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText renders text in a faint/dim style, for secondary information.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText renders an integer count in bold, for emphasis in summaries.
func CountText(n int) string {
	return Bold.Sprint(n)
}
