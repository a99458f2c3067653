// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_RemapsTraceIDsAndDedupesValueHashes(t *testing.T) {
	left := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	require.NoError(t, left.LoadFile("testdata/test1.lineage"))
	left.Finalize()

	right := NewDatabase(&fixedRNG{seq: []float64{0.2}})
	require.NoError(t, right.LoadFile("testdata/test1.lineage")) // same content, shared value_hashes
	right.Finalize()

	left.Merge(&right.Tables)

	require.Len(t, left.Tables.Trace, 2)
	assert.Equal(t, 0, left.Tables.Trace[0].ID)
	assert.Equal(t, 1, left.Tables.Trace[1].ID, "the merged-in trace is remapped past left's existing traces")

	for _, ti := range left.Tables.TraceItem {
		assert.Contains(t, []int{0, 1}, ti.TraceID)
	}
	assert.Len(t, left.Tables.TraceItem, 16, "trace items are never deduplicated across a merge")

	// Both sides loaded the same file, so every per-value-hash table stays
	// at the single-database count after merge.
	assert.Len(t, left.Tables.Instruction, 4)
	assert.Len(t, left.Tables.Creation, 2)
	assert.Len(t, left.Tables.Literal, 2)
	assert.Len(t, left.Tables.Lineage, 8)
}
