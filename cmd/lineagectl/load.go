// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jorineg/lineagetrace/internal/errors"
	"github.com/jorineg/lineagetrace/internal/ui"
	"github.com/jorineg/lineagetrace/pkg/lineage"
)

type loadFlags struct {
	opInfo      string
	metricsAddr string
}

// runLoad executes the 'load' CLI command: ingests every ".lineage" file in
// a directory into a fresh in-memory Database and prints a load summary.
//
// Flags:
//   - --op-info: Path to the op_info reference file (overrides config)
//   - --metrics-addr: Serve Prometheus metrics on this address during and
//     after the load, until interrupted
//
// Examples:
//
//	lineagectl load ./traces
//	lineagectl load ./traces --op-info ./op_info.csv
//	lineagectl load --metrics-addr :9090
func runLoad(args []string, configPath string, globals GlobalFlags) {
	flags, positional := parseLoadFlags(args)
	cfg := resolveConfig(configPath, globals)

	opInfoPath := flags.opInfo
	if opInfoPath == "" {
		opInfoPath = cfg.OpInfo
	}
	traceDir := resolveTraceDir(cfg, positional)

	var metrics *lineage.Metrics
	if flags.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		metrics = lineage.NewMetrics(registry)
		serveMetrics(registry, flags.metricsAddr, globals)
	}

	db, err := loadDataset(cfg, traceDir, opInfoPath, metrics, globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	printLoadSummary(db, globals)

	if flags.metricsAddr != "" {
		if !globals.Quiet {
			fmt.Printf("\nServing metrics at http://%s/metrics (Ctrl+C to exit)\n", flags.metricsAddr)
		}
		waitForInterrupt()
	}
}

func printLoadSummary(db *lineage.Database, globals GlobalFlags) {
	if globals.Quiet {
		return
	}
	t := db.Tables
	ui.Header("Load complete")
	fmt.Printf("%s %d\n", ui.Label("trace:"), len(t.Trace))
	fmt.Printf("%s %d\n", ui.Label("trace_item:"), len(t.TraceItem))
	fmt.Printf("%s %d\n", ui.Label("instruction:"), len(t.Instruction))
	fmt.Printf("%s %d\n", ui.Label("creation:"), len(t.Creation))
	fmt.Printf("%s %d\n", ui.Label("dedup:"), len(t.Dedup))
	fmt.Printf("%s %d\n", ui.Label("literal:"), len(t.Literal))
	fmt.Printf("%s %d\n", ui.Label("lineage:"), len(t.Lineage))
}

func serveMetrics(reg *prometheus.Registry, addr string, globals GlobalFlags) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logDebug(globals, "metrics server stopped: %v", err)
		}
	}()
}

func waitForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func parseLoadFlags(args []string) (loadFlags, []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	var f loadFlags
	fs.StringVar(&f.opInfo, "op-info", "", "Path to the op_info reference file (default: from config)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: lineagectl load [dir] [options]

Description:
  Ingest every ".lineage" file directly under dir (or the configured
  trace_dir when omitted) into a fresh in-memory database and print a
  summary of the resulting table sizes.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  lineagectl load ./traces
  lineagectl load ./traces --op-info ./op_info.csv
  lineagectl load --metrics-addr :9090
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return f, fs.Args()
}
