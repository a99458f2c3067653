// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jorineg/lineagetrace/internal/errors"
	"github.com/jorineg/lineagetrace/pkg/query"
)

// runQuery executes the 'query' CLI command: loads the configured trace
// directory fresh, then runs one of the built-in analysis queries against
// it.
//
// Subcommands:
//
//	totals                         Trace item counts per trace
//	long-ops --min-ms N            Longest operation per trace above N ms
//	instr-count                    Matching instruction count per trace
//	exec-types                     Execution time totals by type per trace
//	compare --trace1 A --trace2 B  First differing item between two traces
//
// Examples:
//
//	lineagectl query totals
//	lineagectl query long-ops --min-ms 50
//	lineagectl query instr-count --op-code add
//	lineagectl query exec-types
//	lineagectl query compare --trace1 0 --trace2 1 --by value
func runQuery(args []string, configPath string, globals GlobalFlags) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: lineagectl query <totals|long-ops|instr-count|exec-types|compare> [options]")
		os.Exit(1)
	}
	name := args[0]
	rest := args[1:]

	cfg := resolveConfig(configPath, globals)
	traceDir := resolveTraceDir(cfg, nil)
	db, err := loadDataset(cfg, traceDir, cfg.OpInfo, nil, globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	q := query.New(&db.Tables)

	switch name {
	case "totals":
		runQueryTotals(q, globals)
	case "long-ops":
		runQueryLongOps(q, rest, globals)
	case "instr-count":
		runQueryInstrCount(q, rest, globals)
	case "exec-types":
		runQueryExecTypes(q, globals)
	case "compare":
		runQueryCompare(q, rest, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown query: %s\n", name)
		os.Exit(1)
	}
}

func selectFlags(fs *flag.FlagSet) *query.SelectOptions {
	opts := &query.SelectOptions{}
	fs.StringVar(&opts.OpCode, "op-code", "", "Restrict to this op_code")
	fs.StringVar(&opts.Group, "group", "", "Restrict to this op_info group")
	fs.StringVar(&opts.CPType, "cp-type", "", "Restrict to this op_info cp_type")
	return opts
}

func runQueryTotals(q *query.Query, globals GlobalFlags) {
	rows := q.CompareTotalOperations()
	if globals.JSON {
		emitJSON(rows)
		return
	}
	w := newTabwriter()
	fmt.Fprintln(w, "TRACE\tFILE\tDATE\tCOUNT")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.TraceID, r.File, r.Date.Format("2006-01-02T15:04:05Z07:00"), r.Count)
	}
	w.Flush()
}

func runQueryLongOps(q *query.Query, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query long-ops", flag.ExitOnError)
	minMS := fs.Float64("min-ms", 0, "Minimum execution time in milliseconds")
	opts := selectFlags(fs)
	mustParse(fs, args)

	rows, err := q.FindLongOperations(msToDuration(*minMS), *opts)
	if err != nil {
		errors.FatalError(errors.NewInputError("Invalid query options", err.Error(), "Use only one of --op-code, --group, or --cp-type"), globals.JSON)
	}
	if globals.JSON {
		emitJSON(rows)
		return
	}
	w := newTabwriter()
	fmt.Fprintln(w, "TRACE\tITEM\tOP_CODE\tEXEC_TIME_MS")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\n", r.TraceID, r.ItemID, r.OpCode, durationToMS(r.ExecutionTime))
	}
	w.Flush()
}

func runQueryInstrCount(q *query.Query, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query instr-count", flag.ExitOnError)
	opts := selectFlags(fs)
	mustParse(fs, args)

	counts, err := q.CompareInstructionCount(*opts)
	if err != nil {
		errors.FatalError(errors.NewInputError("Invalid query options", err.Error(), "Use only one of --op-code, --group, or --cp-type"), globals.JSON)
	}
	if globals.JSON {
		emitJSON(counts)
		return
	}
	w := newTabwriter()
	fmt.Fprintln(w, "TRACE\tCOUNT")
	for _, id := range sortedIntKeys(counts) {
		fmt.Fprintf(w, "%d\t%d\n", id, counts[id])
	}
	w.Flush()
}

func runQueryExecTypes(q *query.Query, globals GlobalFlags) {
	totals := q.ListExecutionTypes()
	if globals.JSON {
		emitJSON(totals)
		return
	}
	w := newTabwriter()
	fmt.Fprintln(w, "TRACE\tEXEC_TYPE\tTOTAL_MS")
	for _, id := range sortedIntKeys(totals) {
		byType := totals[id]
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "%d\t%s\t%.2f\n", id, t, durationToMS(byType[t]))
		}
	}
	w.Flush()
}

func runQueryCompare(q *query.Query, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query compare", flag.ExitOnError)
	trace1 := fs.Int("trace1", -1, "First trace id")
	trace2 := fs.Int("trace2", -1, "Second trace id")
	by := fs.String("by", "lineage", "Compare by 'lineage' or 'value'")
	mustParse(fs, args)

	if *trace1 < 0 || *trace2 < 0 {
		errors.FatalError(errors.NewInputError("Missing trace ids", "Both --trace1 and --trace2 are required", "lineagectl query compare --trace1 0 --trace2 1"), globals.JSON)
	}

	divergence, err := q.CompareTracesByID(*trace1, *trace2, query.CompareBy(*by))
	if err != nil {
		errors.FatalError(errors.NewInputError("Invalid compare options", err.Error(), "Use --by lineage or --by value"), globals.JSON)
	}

	result := map[string]interface{}{"trace1": *trace1, "trace2": *trace2, "by": *by}
	if divergence == nil {
		result["equal"] = true
	} else {
		result["equal"] = false
		result["first_divergence"] = *divergence
	}

	if globals.JSON {
		emitJSON(result)
		return
	}
	if divergence == nil {
		fmt.Printf("traces %d and %d are identical up to the shorter trace's length\n", *trace1, *trace2)
	} else {
		fmt.Printf("traces %d and %d first diverge at item position %d\n", *trace1, *trace2, *divergence)
	}
}

func mustParse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
}

func newTabwriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func emitJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func durationToMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
