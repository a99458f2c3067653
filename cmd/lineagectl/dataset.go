// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/jorineg/lineagetrace/internal/config"
	"github.com/jorineg/lineagetrace/internal/errors"
	"github.com/jorineg/lineagetrace/pkg/lineage"
)

// resolveConfig loads .lineagectl.yaml from configPath, or by upward search
// when configPath is empty, surfacing a config error through the standard
// fatal-error path rather than returning a bare error.
func resolveConfig(configPath string, globals GlobalFlags) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	return cfg
}

// loadDataset builds a fresh Database and ingests traceDir into it,
// optionally loading an op_info reference table first. It reports progress
// on stderr unless globals suppress it.
func loadDataset(cfg *config.Config, traceDir, opInfoPath string, metrics *lineage.Metrics, globals GlobalFlags) (*lineage.Database, error) {
	db := lineage.NewDatabase(lineage.NewDefaultRNG())
	if metrics != nil {
		db = db.WithMetrics(metrics)
	}

	if opInfoPath != "" {
		logInfo(globals, "loading op_info reference from %s", opInfoPath)
		if err := db.LoadOpInfo(opInfoPath); err != nil {
			return nil, errors.NewDatabaseError(
				"Cannot load op_info reference",
				err.Error(),
				"Check that the op_info file uses 'op_code;num_inputs;group;cp_type' rows",
				err,
			)
		}
	}

	if !globals.Quiet {
		fmt.Fprintf(os.Stderr, "Loading traces from %s\n", traceDir)
	}

	if err := db.LoadDirectory(traceDir); err != nil {
		return nil, errors.NewDatabaseError(
			"Failed to load trace directory",
			err.Error(),
			"Check the trace files for malformed records and re-run",
			err,
		)
	}

	return db, nil
}

// resolveTraceDir resolves the effective trace directory: a positional
// argument wins over the configured trace_dir. Relative paths are resolved
// against the current working directory, matching how the path was
// originally given to 'init' or the command line.
func resolveTraceDir(cfg *config.Config, args []string) string {
	dir := cfg.TraceDir
	if len(args) > 0 {
		dir = args[0]
	}
	return dir
}
