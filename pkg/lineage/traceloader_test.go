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

func TestLoadFile_ParseErrorCarriesFileAndLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.lineage")
	require.NoError(t, os.WriteFile(path, []byte("(1)(L)only-two·fields\n"), 0o644))

	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	err := db.LoadFile(path)
	require.Error(t, err)

	var fileErr *TraceFileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, path, fileErr.File)
	assert.Equal(t, 1, fileErr.Line)
}

func TestLoadFile_AssignsSequentialTraceIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lineage"), []byte("(1)(L)1·SCALAR·INT64·true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lineage"), []byte("(1)(L)2·SCALAR·INT64·true\n"), 0o644))

	db := NewDatabase(&fixedRNG{seq: []float64{0.1, 0.2}})
	require.NoError(t, db.LoadDirectory(dir))

	require.Len(t, db.Tables.Trace, 2)
	assert.Equal(t, 0, db.Tables.Trace[0].ID)
	assert.Equal(t, 1, db.Tables.Trace[1].ID)
	assert.Equal(t, "a.lineage", db.Tables.Trace[0].Name)
	assert.Equal(t, "b.lineage", db.Tables.Trace[1].Name)
}

func TestLoadDirectory_IgnoresNonLineageFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lineage"), []byte("(1)(L)1·SCALAR·INT64·true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a trace\n"), 0o644))

	db := NewDatabase(&fixedRNG{seq: []float64{0.1}})
	require.NoError(t, db.LoadDirectory(dir))

	assert.Len(t, db.Tables.Trace, 1)
}
