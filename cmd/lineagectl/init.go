// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/jorineg/lineagetrace/internal/config"
	"github.com/jorineg/lineagetrace/internal/errors"
	"github.com/jorineg/lineagetrace/internal/ui"
)

// initFlags holds parsed flags for the init command.
type initFlags struct {
	force     bool
	projectID string
	traceDir  string
	opInfo    string
}

// runInit executes the 'init' CLI command, creating a .lineagectl.yaml
// configuration file in the current directory.
//
// Flags:
//   - --force: Overwrite an existing configuration file (default: false)
//   - --project-id: Project identifier (default: directory name)
//   - --trace-dir: Directory to scan for .lineage files (default: "traces")
//   - --op-info: Path to the semicolon-separated op_info reference file
//
// Examples:
//
//	lineagectl init
//	lineagectl init --project-id demo --trace-dir ./traces
func runInit(args []string, globals GlobalFlags) {
	flags := parseInitFlags(args)

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"This is unexpected. Please report this issue if it persists",
			err,
		), globals.JSON)
	}

	configPath := config.Path(cwd)
	if _, err := os.Stat(configPath); err == nil && !flags.force {
		errors.FatalError(errors.NewInputError(
			"Configuration already exists",
			fmt.Sprintf("%s already exists in this directory", configPath),
			"Use 'lineagectl init --force' to overwrite the existing configuration",
		), globals.JSON)
	}

	projectID := flags.projectID
	if projectID == "" {
		projectID = filepath.Base(cwd)
	}

	cfg := config.Default(projectID)
	if flags.traceDir != "" {
		cfg.TraceDir = flags.traceDir
	}
	if flags.opInfo != "" {
		cfg.OpInfo = flags.opInfo
	}

	if err := config.Save(cfg, configPath); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if !globals.Quiet {
		ui.Header("Configuration created")
		fmt.Printf("%s %s\n", ui.Label("path"), configPath)
		fmt.Printf("%s %s\n", ui.Label("project_id"), cfg.ProjectID)
		fmt.Printf("%s %s\n", ui.Label("trace_dir"), cfg.TraceDir)
		if cfg.OpInfo != "" {
			fmt.Printf("%s %s\n", ui.Label("op_info"), cfg.OpInfo)
		}
		fmt.Println()
		fmt.Println(ui.DimText("Next: lineagectl load " + cfg.TraceDir))
	}
}

func parseInitFlags(args []string) initFlags {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var f initFlags
	fs.BoolVar(&f.force, "force", false, "Overwrite existing configuration")
	fs.StringVar(&f.projectID, "project-id", "", "Project identifier (default: directory name)")
	fs.StringVar(&f.traceDir, "trace-dir", "", "Directory to scan for .lineage files (default: traces)")
	fs.StringVar(&f.opInfo, "op-info", "", "Path to the op_info reference file (default: op_info.csv)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: lineagectl init [options]

Description:
  Create a .lineagectl.yaml configuration file for the current directory,
  naming the trace directory and optional op_info reference file that
  'lineagectl load', 'lineagectl stats', and 'lineagectl query' read by
  default.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  lineagectl init
  lineagectl init --project-id demo --trace-dir ./traces
  lineagectl init --force
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return f
}
