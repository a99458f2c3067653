// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are optional ingestion counters, wired into a Database via
// WithMetrics. A nil Metrics (the default) means LoadFile/LoadDirectory
// skip all instrumentation, so tests and one-off CLI runs don't need a
// registry.
type Metrics struct {
	filesLoaded      prometheus.Counter
	recordsLoaded    prometheus.Counter
	loadErrors       prometheus.Counter
	fileLoadDuration prometheus.Histogram
}

// NewMetrics registers ingestion counters on reg and returns a Metrics
// ready to pass to Database.WithMetrics. Call it once per process and share
// the *registry* (github.com/prometheus/client_golang/prometheus/promhttp
// serves whatever reg you hand it) the way the CLI's --metrics-addr flag
// does for its /metrics endpoint.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		filesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "lineagetrace_files_loaded_total",
			Help: "Trace files successfully ingested.",
		}),
		recordsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "lineagetrace_records_loaded_total",
			Help: "Trace records (L/C/I/D items) successfully ingested.",
		}),
		loadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "lineagetrace_load_errors_total",
			Help: "Trace file loads that aborted with a parse or reference error.",
		}),
		fileLoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineagetrace_file_load_duration_seconds",
			Help:    "Wall-clock time to ingest a single trace file.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// WithMetrics attaches m to db; subsequent LoadFile/LoadDirectory calls
// report through it. Passing nil disables instrumentation.
func (db *Database) WithMetrics(m *Metrics) *Database {
	db.metrics = m
	return db
}
