// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the lineagectl project configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorineg/lineagetrace/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	FileName      = ".lineagectl.yaml"
	configVersion = "1"
)

// Config represents the .lineagectl.yaml project configuration file.
type Config struct {
	Version   string `yaml:"version"`
	ProjectID string `yaml:"project_id"`
	TraceDir  string `yaml:"trace_dir"`
	OpInfo    string `yaml:"op_info,omitempty"`
	Output    OutputConfig `yaml:"output,omitempty"`
}

// OutputConfig holds the output preferences stored in the configuration
// file. No command reads it: 'lineagectl query' and 'lineagectl stats' take
// JSON output from the global --json flag only.
type OutputConfig struct {
	JSON bool `yaml:"json,omitempty"`
}

// Default returns sensible defaults for a project identified by projectID.
func Default(projectID string) *Config {
	return &Config{
		Version:   configVersion,
		ProjectID: projectID,
		TraceDir:  "traces",
		OpInfo:    "op_info.csv",
	}
}

// Path returns the configuration file path within dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads configuration from configPath, or discovers .lineagectl.yaml by
// walking up from the current directory when configPath is empty.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = find()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed - the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or run 'lineagectl init --force' to recreate", configPath),
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Run 'lineagectl init --force' to regenerate the configuration file",
			nil,
		)
	}

	return &cfg, nil
}

// Save writes cfg to configPath as YAML, creating parent directories as needed.
func Save(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions or run with appropriate privileges",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}

	return nil
}

// find searches for .lineagectl.yaml in the current directory and its
// ancestors, returning the first match.
func find() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		)
	}

	for {
		candidate := Path(dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.NewConfigError(
		"Configuration not found",
		"No .lineagectl.yaml file found in current directory or any parent directory",
		"Run 'lineagectl init' to create a new configuration",
		nil,
	)
}
