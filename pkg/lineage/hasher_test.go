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

func literalRecord(value string) *grammar.Record {
	return &grammar.Record{
		Kind: grammar.KindItem,
		Type: grammar.TypeLiteral,
		Literal: &grammar.LiteralRepr{
			Value: value, DataType: "SCALAR", ValueType: "INT64", Flag: "true",
		},
	}
}

func TestValueLineageHash_LiteralValueLineageSplit(t *testing.T) {
	a := literalRecord("1")
	b := literalRecord("2")

	vA, err := ValueHash(a, nil)
	require.NoError(t, err)
	vB, err := ValueHash(b, nil)
	require.NoError(t, err)
	assert.NotEqual(t, vA, vB, "distinct literal values must produce distinct value_hash")

	lA, err := LineageHash(a, nil)
	require.NoError(t, err)
	lB, err := LineageHash(b, nil)
	require.NoError(t, err)
	assert.Equal(t, lA, lB, "literals share lineage_hash regardless of value")
}

func TestValueHash_Deterministic(t *testing.T) {
	rec := literalRecord("7")
	v1, err := ValueHash(rec, nil)
	require.NoError(t, err)
	v2, err := ValueHash(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestLineageHash_InstructionExcludesSpecialValueBits(t *testing.T) {
	bits := 42
	withBits := &grammar.Record{
		Type:        grammar.TypeInstruction,
		Instruction: &grammar.InstructionRepr{OpCode: "add", Inputs: []int{1, 2}, SpecialValueBits: &bits},
	}
	withoutBits := &grammar.Record{
		Type:        grammar.TypeInstruction,
		Instruction: &grammar.InstructionRepr{OpCode: "add", Inputs: []int{1, 2}},
	}
	inputs := []InputFingerprint{{ValueHash: "a", LineageHash: "la"}, {ValueHash: "b", LineageHash: "lb"}}

	lWith, err := LineageHash(withBits, inputs)
	require.NoError(t, err)
	lWithout, err := LineageHash(withoutBits, inputs)
	require.NoError(t, err)
	assert.Equal(t, lWith, lWithout, "special_value_bits must not affect lineage_hash")

	vWith, err := ValueHash(withBits, inputs)
	require.NoError(t, err)
	vWithout, err := ValueHash(withoutBits, inputs)
	require.NoError(t, err)
	assert.NotEqual(t, vWith, vWithout, "special_value_bits must affect value_hash")
}

func TestLineageHash_CreationExcludesParams(t *testing.T) {
	a := &grammar.Record{
		Type: grammar.TypeCreation,
		Creation: &grammar.CreationRepr{
			ExecutionType: "CP", CreationMethod: "seq",
			Params: &grammar.ParamGroup{OtherParams: []grammar.Param{{Value: "1"}}},
		},
	}
	b := &grammar.Record{
		Type: grammar.TypeCreation,
		Creation: &grammar.CreationRepr{
			ExecutionType: "CP", CreationMethod: "seq",
			Params: &grammar.ParamGroup{OtherParams: []grammar.Param{{Value: "999"}}},
		},
	}

	lA, err := LineageHash(a, nil)
	require.NoError(t, err)
	lB, err := LineageHash(b, nil)
	require.NoError(t, err)
	assert.Equal(t, lA, lB, "creation lineage_hash must ignore params")

	vA, err := ValueHash(a, nil)
	require.NoError(t, err)
	vB, err := ValueHash(b, nil)
	require.NoError(t, err)
	assert.NotEqual(t, vA, vB, "creation value_hash must reflect params")
}

func TestLineageHash_CreationPlaceholderUsesRawToken(t *testing.T) {
	n := 3
	rec := &grammar.Record{
		Type:     grammar.TypeCreation,
		Creation: &grammar.CreationRepr{DedupIn: &n, Placeholder: "IN#3"},
	}
	l, err := LineageHash(rec, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, l)

	other := &grammar.Record{
		Type:     grammar.TypeCreation,
		Creation: &grammar.CreationRepr{ExecutionType: "CP", CreationMethod: "in"},
	}
	lOther, err := LineageHash(other, nil)
	require.NoError(t, err)
	assert.NotEqual(t, l, lOther, "placeholder lineage_hash uses the raw IN#<n> token, not the word \"in\"")
}
