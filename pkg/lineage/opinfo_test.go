// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOpInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "op_info.csv")
	content := "op_code;num_inputs;group;cp_type\nadd;2;arithmetic;CP\nmul;2;arithmetic;CP\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	require.NoError(t, db.LoadOpInfo(path))

	require.Len(t, db.Tables.OpInfo, 2)
	add := db.Tables.OpInfo["add"]
	assert.Equal(t, 2, add.NumInputs)
	assert.Equal(t, "arithmetic", add.Group)
	assert.Equal(t, "CP", add.CPType)
}

func TestLoadOpInfo_MalformedRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "op_info.csv")
	content := "op_code;num_inputs;group;cp_type\nadd;notanumber;arithmetic;CP\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	err := db.LoadOpInfo(path)
	assert.Error(t, err)
}
