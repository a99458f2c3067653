// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jorineg/lineagetrace/pkg/grammar"
)

// TraceFileError wraps a load failure with the file and line that produced
// it, so a caller reporting to a terminal or a log can point at the exact
// spot in the input that needs fixing.
type TraceFileError struct {
	File string
	Line int
	Err  error
}

func (e *TraceFileError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *TraceFileError) Unwrap() error { return e.Err }

// LoadFile ingests a single ".lineage" trace file: it reserves the next
// sequential trace id, appends the Trace row (file modification time as the
// trace date, base name as the trace name), resets the current dedup-patch
// state to "outside any patch", and streams the file's records through
// LoadRecord in order.
func (db *Database) LoadFile(path string) error {
	start := time.Now()
	err := db.loadFile(path)
	if db.metrics != nil {
		db.metrics.fileLoadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			db.metrics.loadErrors.Inc()
		} else {
			db.metrics.filesLoaded.Inc()
		}
	}
	return err
}

func (db *Database) loadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	traceID := len(db.traceBuffer)
	db.traceBuffer = append(db.traceBuffer, Trace{
		ID:   traceID,
		Date: info.ModTime().UTC(),
		File: path,
		Name: filepath.Base(path),
	})
	db.currentDedupPatch = ""

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		rec, err := grammar.Parse(lineNum, line)
		if err != nil {
			return &TraceFileError{File: path, Line: lineNum, Err: err}
		}
		if err := db.LoadRecord(traceID, rec); err != nil {
			return &TraceFileError{File: path, Line: lineNum, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// LoadDirectory ingests every ".lineage" file directly under dir, in
// lexical filename order, then finalizes the accumulated buffers into
// db.Tables.
func (db *Database) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lineage" {
			continue
		}
		names = append(names, e.Name())
	}

	for _, name := range names {
		if err := db.LoadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	db.Finalize()
	return nil
}
