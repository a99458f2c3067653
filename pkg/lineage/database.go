// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

// itemRef is the subset of a TraceItem the id→item lookup needs to resolve
// later I/D input references without retaining the whole buffer entry.
type itemRef struct {
	ValueHash   string
	LineageHash string
}

// Database accumulates append-only buffers while ingesting trace files and
// finalizes them into deduplicated tables. It is not safe for concurrent
// mutation; a caller wanting parallel ingestion should give each worker its
// own Database and Merge the results (see Merge).
type Database struct {
	rng     RNGSource
	metrics *Metrics

	currentDedupPatch string // empty means "outside any patch block"

	itemLookup map[int]itemRef

	traceBuffer             []Trace
	traceItemBuffer         []TraceItem
	instructionBuffer       []Instruction
	dedupBuffer             []Dedup
	creationBuffer          []Creation
	randCreationBuffer      []RandCreation
	createVarCreationBuffer []CreateVarCreation
	seqCreationBuffer       []SeqCreation
	literalBuffer           []Literal
	lineageBuffer           []LineageEdge

	Tables Tables
}

// Tables holds the finalized, deduplicated relational model produced by
// Finalize. Zero value is an empty set of tables.
type Tables struct {
	Trace             []Trace
	TraceItem         []TraceItem
	Instruction       []Instruction
	Dedup             []Dedup
	Creation          []Creation
	RandCreation      []RandCreation
	CreateVarCreation []CreateVarCreation
	SeqCreation       []SeqCreation
	Literal           []Literal
	Lineage           []LineageEdge
	OpInfo            map[string]OpInfo
}

// NewDatabase returns an empty Database using the given RNG source for
// execution_time and execution_type sampling. Pass NewDefaultRNG() in
// production, or a deterministic stub in tests.
func NewDatabase(rng RNGSource) *Database {
	return &Database{
		rng:        rng,
		itemLookup: make(map[int]itemRef),
	}
}

// Finalize converts the accumulated buffers into deduplicated tables,
// replacing any tables from a previous Finalize call, and clears the
// buffers and the id→item lookup.
func (db *Database) Finalize() {
	db.Tables.Trace = append([]Trace(nil), db.traceBuffer...)
	db.Tables.TraceItem = append([]TraceItem(nil), db.traceItemBuffer...)
	db.Tables.Instruction = dedupBy(db.instructionBuffer, func(i Instruction) string { return i.ValueHash })
	db.Tables.Dedup = dedupBy(db.dedupBuffer, func(d Dedup) string { return d.ValueHash })
	db.Tables.Creation = dedupBy(db.creationBuffer, func(c Creation) string { return c.ValueHash })
	db.Tables.RandCreation = dedupBy(db.randCreationBuffer, func(r RandCreation) string { return r.ValueHash })
	db.Tables.CreateVarCreation = dedupBy(db.createVarCreationBuffer, func(c CreateVarCreation) string { return c.ValueHash })
	db.Tables.SeqCreation = dedupBy(db.seqCreationBuffer, func(s SeqCreation) string { return s.ValueHash })
	db.Tables.Literal = dedupBy(db.literalBuffer, func(l Literal) string { return l.ValueHash })
	db.Tables.Lineage = dedupBy(db.lineageBuffer, func(e LineageEdge) string { return e.ValueHash + "\x00" + e.IsInputForValueHash })

	db.instructionBuffer = nil
	db.dedupBuffer = nil
	db.creationBuffer = nil
	db.randCreationBuffer = nil
	db.createVarCreationBuffer = nil
	db.seqCreationBuffer = nil
	db.literalBuffer = nil
	db.lineageBuffer = nil
	db.traceItemBuffer = nil
	db.traceBuffer = nil
	db.itemLookup = make(map[int]itemRef)
}

// dedupBy collapses rows sharing the same key, keeping the first occurrence.
func dedupBy[T any](rows []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}

// Merge combines other's finalized Tables into db's, value_hash-keyed tables
// deduping first-writer-wins by merge order, trace ids remapped to a
// contiguous range starting after db's existing traces. Both Databases must
// already be finalized. This implements the merge contract spec'd for any
// caller parallelizing ingestion across multiple Database instances.
func (db *Database) Merge(other *Tables) {
	traceIDOffset := len(db.Tables.Trace)

	for _, t := range other.Trace {
		t.ID += traceIDOffset
		db.Tables.Trace = append(db.Tables.Trace, t)
	}
	for _, ti := range other.TraceItem {
		ti.TraceID += traceIDOffset
		db.Tables.TraceItem = append(db.Tables.TraceItem, ti)
	}

	db.Tables.Instruction = dedupBy(append(db.Tables.Instruction, other.Instruction...), func(i Instruction) string { return i.ValueHash })
	db.Tables.Dedup = dedupBy(append(db.Tables.Dedup, other.Dedup...), func(d Dedup) string { return d.ValueHash })
	db.Tables.Creation = dedupBy(append(db.Tables.Creation, other.Creation...), func(c Creation) string { return c.ValueHash })
	db.Tables.RandCreation = dedupBy(append(db.Tables.RandCreation, other.RandCreation...), func(r RandCreation) string { return r.ValueHash })
	db.Tables.CreateVarCreation = dedupBy(append(db.Tables.CreateVarCreation, other.CreateVarCreation...), func(c CreateVarCreation) string { return c.ValueHash })
	db.Tables.SeqCreation = dedupBy(append(db.Tables.SeqCreation, other.SeqCreation...), func(s SeqCreation) string { return s.ValueHash })
	db.Tables.Literal = dedupBy(append(db.Tables.Literal, other.Literal...), func(l Literal) string { return l.ValueHash })
	db.Tables.Lineage = dedupBy(append(db.Tables.Lineage, other.Lineage...), func(e LineageEdge) string { return e.ValueHash + "\x00" + e.IsInputForValueHash })

	if db.Tables.OpInfo == nil && other.OpInfo != nil {
		db.Tables.OpInfo = other.OpInfo
	}
}
