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

// Package main implements lineagectl, a batch loader and query CLI for
// lineage traces.
//
// lineagectl ingests directories of ".lineage" trace files into an
// in-memory, content-addressed relational model (traces, trace items,
// instructions, creations, dedups, literals, and lineage edges) and
// answers analytical queries over the loaded dataset within a single
// process invocation.
//
// # Quick Start
//
// Initialize a project configuration:
//
//	cd /path/to/traces
//	lineagectl init --project-id demo
//
// Ingest a directory of trace files:
//
//	lineagectl load ./traces --op-info ./op_info.csv
//
// Summarize what was loaded:
//
//	lineagectl stats
//
// Run a built-in query:
//
//	lineagectl query totals
//	lineagectl query long-ops --min-ms 50
//	lineagectl query exec-types
//	lineagectl query compare --trace1 0 --trace2 1
//
// # Commands
//
//	init     Create .lineagectl.yaml configuration
//	load     Ingest every .lineage file in a directory, once per invocation
//	stats    Summarize per-trace item counts from a fresh load
//	query    Run a built-in analysis query against a fresh load
//
// Global flags:
//
//	--version      Show version information and exit
//	--json         Output in JSON format (for applicable commands)
//	--no-color     Disable color output (respects NO_COLOR env var)
//	-v, --verbose  Increase verbosity (-v for info, -vv for debug)
//	-q, --quiet    Suppress non-essential output
//	--config PATH  Path to .lineagectl.yaml configuration file
//
// # Configuration
//
// lineagectl is configured through a local .lineagectl.yaml file, written
// by init and discovered by walking up from the current directory when
// --config is not given. It names the trace directory and the optional
// op_info reference file so that load/stats/query can be run without
// repeating flags.
//
// # Process Model
//
// Each invocation of load/stats/query performs its own ingestion pass over
// the configured trace directory; the CLI holds no server-side state
// between commands. Concurrency and persistence beyond a single process's
// in-memory tables are explicitly out of scope, per the ingestion core's
// design.
//
// See lineagectl --help for complete usage information.
package main
