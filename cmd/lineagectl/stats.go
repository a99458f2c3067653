// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/jorineg/lineagetrace/internal/errors"
	"github.com/jorineg/lineagetrace/internal/ui"
	"github.com/jorineg/lineagetrace/pkg/query"
)

// runStats executes the 'stats' CLI command: loads the configured trace
// directory fresh and prints per-trace item counts alongside the overall
// table sizes, the same load CompareTotalOperations draws from.
//
// Examples:
//
//	lineagectl stats
//	lineagectl --json stats
func runStats(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: lineagectl stats [options]

Description:
  Ingest the configured trace directory and summarize table sizes and
  per-trace operation counts.

Examples:
  lineagectl stats
  lineagectl --json stats
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := resolveConfig(configPath, globals)
	traceDir := resolveTraceDir(cfg, nil)
	db, err := loadDataset(cfg, traceDir, cfg.OpInfo, nil, globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	t := db.Tables
	q := query.New(&t)
	perTrace := q.CompareTotalOperations()

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{
			"tables": map[string]int{
				"trace":              len(t.Trace),
				"trace_item":         len(t.TraceItem),
				"instruction":        len(t.Instruction),
				"creation":           len(t.Creation),
				"create_var_creation": len(t.CreateVarCreation),
				"rand_creation":      len(t.RandCreation),
				"seq_creation":       len(t.SeqCreation),
				"dedup":              len(t.Dedup),
				"literal":            len(t.Literal),
				"lineage":            len(t.Lineage),
			},
			"per_trace": perTrace,
		})
		return
	}

	ui.Header("Table sizes")
	fmt.Printf("%s %d\n", ui.Label("trace:"), len(t.Trace))
	fmt.Printf("%s %d\n", ui.Label("trace_item:"), len(t.TraceItem))
	fmt.Printf("%s %d\n", ui.Label("instruction:"), len(t.Instruction))
	fmt.Printf("%s %d\n", ui.Label("creation:"), len(t.Creation))
	fmt.Printf("%s %d\n", ui.Label("create_var_creation:"), len(t.CreateVarCreation))
	fmt.Printf("%s %d\n", ui.Label("rand_creation:"), len(t.RandCreation))
	fmt.Printf("%s %d\n", ui.Label("seq_creation:"), len(t.SeqCreation))
	fmt.Printf("%s %d\n", ui.Label("dedup:"), len(t.Dedup))
	fmt.Printf("%s %d\n", ui.Label("literal:"), len(t.Literal))
	fmt.Printf("%s %d\n", ui.Label("lineage:"), len(t.Lineage))

	fmt.Println()
	ui.SubHeader("Per-trace operation counts")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRACE\tFILE\tCOUNT")
	for _, r := range perTrace {
		fmt.Fprintf(w, "%d\t%s\t%d\n", r.TraceID, r.File, r.Count)
	}
	w.Flush()
}
