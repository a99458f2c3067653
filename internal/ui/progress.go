// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressConfig controls whether and how progress bars are rendered.
type ProgressConfig struct {
	Enabled bool
	Quiet   bool
}

// NewProgressConfig derives a ProgressConfig from CLI-wide output flags.
// Progress bars are suppressed whenever quiet or JSON output is requested,
// since a bar writing to stderr while the caller pipes JSON from stdout is
// merely noisy, not wrong, but still not what a scripted caller wants.
func NewProgressConfig(quiet bool) ProgressConfig {
	return ProgressConfig{Enabled: !quiet, Quiet: quiet}
}

// NewProgressBar creates a progress bar over total items with the given
// description, or a no-op writer-backed bar when progress is disabled.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return progressbar.NewOptions64(total, progressbar.OptionSetWriter(io.Discard))
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
