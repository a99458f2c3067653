// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"testing"

	"github.com/jorineg/lineagetrace/pkg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecord_MissingReferenceIsFatal(t *testing.T) {
	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	rec := &grammar.Record{
		Kind:        grammar.KindItem,
		ID:          2,
		Type:        grammar.TypeInstruction,
		Instruction: &grammar.InstructionRepr{OpCode: "add", Inputs: []int{1}},
	}
	err := db.LoadRecord(0, rec)
	require.Error(t, err)
	var missing *MissingReferenceError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.ID)
}

func TestLoadRecord_InvalidBooleanFlagIsFatal(t *testing.T) {
	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	rec := &grammar.Record{
		Kind:    grammar.KindItem,
		ID:      1,
		Type:    grammar.TypeLiteral,
		Literal: &grammar.LiteralRepr{Value: "1", DataType: "SCALAR", ValueType: "INT64", Flag: "maybe"},
	}
	err := db.LoadRecord(0, rec)
	require.Error(t, err)
	var invalid *InvalidBooleanError
	assert.ErrorAs(t, err, &invalid)
}

func TestLoadRecord_PlaceholderCreationStoresInMethod(t *testing.T) {
	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	n := 7
	rec := &grammar.Record{
		Kind:     grammar.KindItem,
		ID:       1,
		Type:     grammar.TypeCreation,
		Creation: &grammar.CreationRepr{DedupIn: &n, Placeholder: "IN#7"},
	}
	require.NoError(t, db.LoadRecord(0, rec))
	db.Finalize()

	require.Len(t, db.Tables.Creation, 1)
	got := db.Tables.Creation[0]
	assert.Equal(t, "in", got.CreationMethod)
	require.NotNil(t, got.DedupIn)
	assert.Equal(t, 7, *got.DedupIn)

	// Placeholder creations carry no params, so none of the method sub-tables
	// gain a row.
	assert.Empty(t, db.Tables.RandCreation)
	assert.Empty(t, db.Tables.CreateVarCreation)
	assert.Empty(t, db.Tables.SeqCreation)
}

func TestLoadRecord_PatchScopingAcrossRecords(t *testing.T) {
	db := NewDatabase(&fixedRNG{seq: []float64{0.1, 0.2, 0.3}})

	require.NoError(t, db.LoadRecord(0, &grammar.Record{Kind: grammar.KindPatchStart, PatchID: "p1"}))
	require.NoError(t, db.LoadRecord(0, &grammar.Record{
		Kind: grammar.KindItem, ID: 1, Type: grammar.TypeLiteral,
		Literal: &grammar.LiteralRepr{Value: "1", DataType: "SCALAR", ValueType: "INT64", Flag: "true"},
	}))
	require.NoError(t, db.LoadRecord(0, &grammar.Record{Kind: grammar.KindPatchEnd}))
	require.NoError(t, db.LoadRecord(0, &grammar.Record{
		Kind: grammar.KindItem, ID: 2, Type: grammar.TypeLiteral,
		Literal: &grammar.LiteralRepr{Value: "2", DataType: "SCALAR", ValueType: "INT64", Flag: "true"},
	}))

	db.Finalize()

	var insidePatch, outsidePatch TraceItem
	for _, ti := range db.Tables.TraceItem {
		if ti.ID == 1 {
			insidePatch = ti
		}
		if ti.ID == 2 {
			outsidePatch = ti
		}
	}
	assert.Equal(t, "p1", insidePatch.DedupPatchName)
	assert.Equal(t, "", outsidePatch.DedupPatchName)
}

func TestExtractPDF_OnlyFirstMatchRemoved(t *testing.T) {
	params := []grammar.Param{
		{Value: "1"},
		{PDF: "uniform"},
		{PDF: "normal"},
		{Value: "2"},
	}
	pdf, rest := extractPDF(params)
	assert.Equal(t, "uniform", pdf)
	require.Len(t, rest, 3)
	assert.Equal(t, "1", rest[0].Value)
	assert.Equal(t, "normal", rest[1].PDF)
	assert.Equal(t, "2", rest[2].Value)
}
