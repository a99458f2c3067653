// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lineage implements the ingestion and in-memory relational model
// for lineage traces: grammar records flow through a hasher and an item
// loader into append-only buffers, which a Database finalizes into
// deduplicated tables keyed by content-addressed hashes.
package lineage

import (
	"time"

	"github.com/jorineg/lineagetrace/pkg/grammar"
)

// ItemKind is the long-form name of a TraceItem's underlying record type.
type ItemKind string

const (
	KindInstruction ItemKind = "INSTRUCTION"
	KindCreation    ItemKind = "CREATION"
	KindLiteral     ItemKind = "LITERAL"
	KindDedup       ItemKind = "DEDUP"
)

var itemKindByTag = map[grammar.Type]ItemKind{
	grammar.TypeInstruction: KindInstruction,
	grammar.TypeCreation:    KindCreation,
	grammar.TypeLiteral:     KindLiteral,
	grammar.TypeDedup:       KindDedup,
}

// Trace is one ingested file.
type Trace struct {
	ID                 int
	Date               time.Time
	File               string
	Name               string
	Description        string
	TotalExecutionTime time.Duration
}

// TraceItem is one parsed "(id) (type) representation" record.
type TraceItem struct {
	TraceID        int
	ID             int
	Type           ItemKind
	ValueHash      string
	LineageHash    string
	DedupPatchName string // empty when the item is outside any patch block
	MemSize        *int64 // always nil; no producer of this core ever sets it
	ExecutionTime  time.Duration
}

// Instruction is keyed by value_hash.
type Instruction struct {
	ValueHash        string
	OpCode           string
	SpecialValueBits *int
	ExecutionType    string
}

// Dedup is keyed by value_hash.
type Dedup struct {
	ValueHash string
	DedupName string
}

// Creation is keyed by value_hash.
type Creation struct {
	ValueHash      string
	ExecutionType  string
	CreationMethod string // rand, createvar, seq, or in
	DedupIn        *int
}

// RandCreation is the rand-method sub-entity, keyed by value_hash.
type RandCreation struct {
	ValueHash   string
	PDF         string
	OtherParams []grammar.Param
}

// CreateVarCreation is the createvar-method sub-entity, keyed by value_hash.
type CreateVarCreation struct {
	ValueHash     string
	Function      string
	FileName      string
	FileOverwrite bool
	DataType      string
	Format        string
	OtherParams   []grammar.Param
}

// SeqCreation is the seq-method sub-entity, keyed by value_hash.
type SeqCreation struct {
	ValueHash   string
	OtherParams []grammar.Param
}

// Literal is keyed by value_hash.
type Literal struct {
	ValueHash string
	Value     string
	DataType  string
	ValueType string
	Flag      bool
}

// LineageEdge is one (input, consumer) pair for an instruction or dedup,
// keyed by the composite (ValueHash, IsInputForValueHash).
type LineageEdge struct {
	ValueHash           string // the input's value_hash
	IsInputForValueHash string // the consumer's value_hash
}

// OpInfo is one row of the externally supplied op_code reference table,
// keyed by OpCode.
type OpInfo struct {
	OpCode    string
	NumInputs int
	Group     string
	CPType    string
}
