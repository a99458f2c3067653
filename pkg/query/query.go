// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package query implements read-only analysis over a finalized lineage
// dataset: per-trace operation counts, long-running operations, execution
// type breakdowns, and trace-to-trace comparisons.
package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/jorineg/lineagetrace/pkg/lineage"
)

// Query answers analytical questions against a single finalized
// lineage.Tables snapshot. It holds no mutable state and is safe for
// concurrent read use.
type Query struct {
	tables *lineage.Tables

	traceByID   map[int]lineage.Trace
	instrByHash map[string]lineage.Instruction
}

// New builds a Query over tables, indexing traces and instructions by their
// keys for the joins the analysis methods below perform.
func New(tables *lineage.Tables) *Query {
	q := &Query{
		tables:      tables,
		traceByID:   make(map[int]lineage.Trace, len(tables.Trace)),
		instrByHash: make(map[string]lineage.Instruction, len(tables.Instruction)),
	}
	for _, t := range tables.Trace {
		q.traceByID[t.ID] = t
	}
	for _, i := range tables.Instruction {
		q.instrByHash[i.ValueHash] = i
	}
	return q
}

// TraceOperationCount is one row of CompareTotalOperations.
type TraceOperationCount struct {
	TraceID int
	File    string
	Date    time.Time
	Count   int
}

// CompareTotalOperations counts trace_item rows per trace, joined with the
// trace's file and date, sorted by count descending.
func (q *Query) CompareTotalOperations() []TraceOperationCount {
	counts := make(map[int]int)
	for _, ti := range q.tables.TraceItem {
		counts[ti.TraceID]++
	}
	rows := make([]TraceOperationCount, 0, len(counts))
	for traceID, count := range counts {
		t := q.traceByID[traceID]
		rows = append(rows, TraceOperationCount{TraceID: traceID, File: t.File, Date: t.Date, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].TraceID < rows[j].TraceID
	})
	return rows
}

// InstructionItem is a trace_item joined with its instruction and op_info
// row, the shape SelectOperator filters and the rest of the instruction
// queries below build on.
type InstructionItem struct {
	TraceID       int
	ItemID        int
	OpCode        string
	ExecutionType string
	ExecutionTime time.Duration
	Group         string
	CPType        string
}

// instructionItems joins trace_item, instruction, and op_info the way the
// Python QueryInterface's pandas joins do, silently dropping any
// instruction whose op_code has no op_info row (an inner join). When no
// op_info table is loaded, every instruction is kept, with empty Group and
// CPType.
func (q *Query) instructionItems() []InstructionItem {
	items := make([]InstructionItem, 0, len(q.tables.TraceItem))
	for _, ti := range q.tables.TraceItem {
		if ti.Type != lineage.KindInstruction {
			continue
		}
		instr, ok := q.instrByHash[ti.ValueHash]
		if !ok {
			continue
		}
		var op lineage.OpInfo
		if q.tables.OpInfo != nil {
			op, ok = q.tables.OpInfo[instr.OpCode]
			if !ok {
				continue
			}
		}
		items = append(items, InstructionItem{
			TraceID:       ti.TraceID,
			ItemID:        ti.ID,
			OpCode:        instr.OpCode,
			ExecutionType: instr.ExecutionType,
			ExecutionTime: ti.ExecutionTime,
			Group:         op.Group,
			CPType:        op.CPType,
		})
	}
	return items
}

// SelectOptions narrows an instruction-item set. At most one of OpCode,
// Group, or CPType may be set; setting Type alongside any of them is
// rejected the same way the source forbids combining selectors.
type SelectOptions struct {
	Type   string // one of INSTRUCTION, DEDUP, LITERAL, CREATION; empty means unfiltered
	OpCode string
	Group  string
	CPType string
}

var selectableTypes = map[string]bool{
	"INSTRUCTION": true, "DEDUP": true, "LITERAL": true, "CREATION": true,
}

func (o SelectOptions) validate() error {
	if o.Type != "" && (o.OpCode != "" || o.Group != "" || o.CPType != "") {
		return fmt.Errorf("multiple operator selectors not possible")
	}
	if o.Type != "" && !selectableTypes[o.Type] {
		return fmt.Errorf("invalid type %q", o.Type)
	}
	set := 0
	for _, v := range []string{o.OpCode, o.Group, o.CPType} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("multiple operator selectors not possible")
	}
	return nil
}

// SelectOperator filters items by OpCode, Group and CPType. Type is
// validated but not filtered on: InstructionItem carries no type column, so
// every item passes whatever Type is set to.
func SelectOperator(items []InstructionItem, opts SelectOptions) ([]InstructionItem, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	out := make([]InstructionItem, 0, len(items))
	for _, it := range items {
		if opts.OpCode != "" && it.OpCode != opts.OpCode {
			continue
		}
		if opts.Group != "" && it.Group != opts.Group {
			continue
		}
		if opts.CPType != "" && it.CPType != opts.CPType {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// LongOperation is the single longest-running matched instruction in a
// trace, reported by FindLongOperations.
type LongOperation struct {
	TraceID       int
	ItemID        int
	OpCode        string
	ExecutionTime time.Duration
}

// FindLongOperations returns, per trace, the longest-running instruction
// exceeding minTime, restricted by opts. Traces with no qualifying
// instruction are omitted.
func (q *Query) FindLongOperations(minTime time.Duration, opts SelectOptions) ([]LongOperation, error) {
	items, err := SelectOperator(q.instructionItems(), opts)
	if err != nil {
		return nil, err
	}
	longest := make(map[int]LongOperation)
	for _, it := range items {
		if it.ExecutionTime <= minTime {
			continue
		}
		cur, ok := longest[it.TraceID]
		if !ok || it.ExecutionTime > cur.ExecutionTime {
			longest[it.TraceID] = LongOperation{
				TraceID: it.TraceID, ItemID: it.ItemID, OpCode: it.OpCode, ExecutionTime: it.ExecutionTime,
			}
		}
	}
	out := make([]LongOperation, 0, len(longest))
	for _, v := range longest {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TraceID < out[j].TraceID })
	return out, nil
}

// CompareInstructionCount counts matching instruction items per trace.
func (q *Query) CompareInstructionCount(opts SelectOptions) (map[int]int, error) {
	items, err := SelectOperator(q.instructionItems(), opts)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for _, it := range items {
		counts[it.TraceID]++
	}
	return counts, nil
}

// ListExecutionTypes sums execution_time per (trace_id, execution_type).
func (q *Query) ListExecutionTypes() map[int]map[string]time.Duration {
	totals := make(map[int]map[string]time.Duration)
	for _, it := range q.instructionItems() {
		byType, ok := totals[it.TraceID]
		if !ok {
			byType = make(map[string]time.Duration)
			totals[it.TraceID] = byType
		}
		byType[it.ExecutionType] += it.ExecutionTime
	}
	return totals
}

// CompareBy selects which fingerprint CompareTracesByID/Date diff on.
type CompareBy string

const (
	CompareByLineage CompareBy = "lineage"
	CompareByValue   CompareBy = "value"
)

// CompareTracesByID compares two traces item-by-item in ingestion order and
// returns the 0-based position of the first differing item, or nil if every
// position up to the shorter trace's length matches and the traces are the
// same length. A length mismatch counts as a difference at the shorter
// trace's length.
func (q *Query) CompareTracesByID(id1, id2 int, by CompareBy) (*int, error) {
	if by != CompareByLineage && by != CompareByValue {
		return nil, fmt.Errorf("compare_by must be either %q or %q", CompareByLineage, CompareByValue)
	}

	items1 := q.traceItemsOrdered(id1)
	items2 := q.traceItemsOrdered(id2)

	minLen := len(items1)
	if len(items2) < minLen {
		minLen = len(items2)
	}

	for i := 0; i < minLen; i++ {
		var a, b string
		if by == CompareByLineage {
			a, b = items1[i].LineageHash, items2[i].LineageHash
		} else {
			a, b = items1[i].ValueHash, items2[i].ValueHash
		}
		if a != b {
			return &i, nil
		}
	}
	if len(items1) != len(items2) {
		return &minLen, nil
	}
	return nil, nil
}

// CompareTracesByDate resolves date1/date2 to trace ids by exact match
// against each Trace's Date, then delegates to CompareTracesByID.
func (q *Query) CompareTracesByDate(date1, date2 time.Time, by CompareBy) (*int, error) {
	id1, ok1 := q.traceIDByDate(date1)
	id2, ok2 := q.traceIDByDate(date2)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("no trace found for date")
	}
	return q.CompareTracesByID(id1, id2, by)
}

func (q *Query) traceIDByDate(d time.Time) (int, bool) {
	for _, t := range q.tables.Trace {
		if t.Date.Equal(d) {
			return t.ID, true
		}
	}
	return 0, false
}

// traceItemsOrdered returns traceID's items in ingestion order (the order
// they were appended to the table), matching how the source's row-ordered
// DataFrame comparison behaves rather than sorting by item id.
func (q *Query) traceItemsOrdered(traceID int) []lineage.TraceItem {
	items := make([]lineage.TraceItem, 0)
	for _, ti := range q.tables.TraceItem {
		if ti.TraceID == traceID {
			items = append(items, ti)
		}
	}
	return items
}
