// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config holds the per-session scan configuration: supplied by the
// CLI, optionally overridden by a plscan.config.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no --config flag is given.
const DefaultConfigFile = "plscan.config.yaml"

// Defaults applied by DefaultSessionConfig.
const (
	// DefaultThreshold is the minimum significant word-run length.
	DefaultThreshold = 3

	// DefaultModuleSuffix classifies which walked files are source modules.
	DefaultModuleSuffix = ".pm"

	// DefaultWorkers is the gather parallelism (sequential by default).
	DefaultWorkers = 1
)

// Configuration errors surfaced before traversal begins.
var (
	// ErrNoSearchRoots indicates the session has nothing to scan.
	ErrNoSearchRoots = errors.New("no search roots configured")

	// ErrNegativeThreshold indicates an invalid extraction threshold.
	ErrNegativeThreshold = errors.New("extraction threshold must be non-negative")
)

// SessionConfig configures one scan session.
//
// Description:
//
//	All fields are optional in the YAML file; a missing file is not an
//	error (zero-config works out of the box, roots come from the CLI).
//	ExtractionThreshold distinguishes "unset" (defaults to 3) from an
//	explicit 0, which admits every non-empty candidate.
type SessionConfig struct {
	// SearchRoots is the ordered list of directories to scan.
	SearchRoots []string

	// ExtractionThreshold is the minimum length of a contiguous word-
	// character run a candidate must contain to be admitted.
	ExtractionThreshold int

	// ModuleSuffix selects which files are gathered, by filename suffix.
	ModuleSuffix string

	// Verbose enables per-file debug logging.
	Verbose bool

	// Workers bounds gather parallelism. 1 means sequential.
	Workers int

	// Output is the report file path. Empty means stdout.
	Output string
}

// DefaultSessionConfig returns the zero-config defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ExtractionThreshold: DefaultThreshold,
		ModuleSuffix:        DefaultModuleSuffix,
		Workers:             DefaultWorkers,
	}
}

// fileConfig mirrors SessionConfig for YAML decoding. Pointer fields
// distinguish "unset" from explicit zero values.
type fileConfig struct {
	SearchRoots         []string `yaml:"search_roots"`
	ExtractionThreshold *int     `yaml:"extraction_threshold"`
	ModuleSuffix        *string  `yaml:"module_suffix"`
	Verbose             *bool    `yaml:"verbose"`
	Workers             *int     `yaml:"workers"`
	Output              *string  `yaml:"output"`
}

// Load reads a config file and merges it over the defaults.
//
// Description:
//
//	An empty path or a missing file yields the defaults with no error.
//	Only a file that exists but cannot be read or parsed is an error.
//
// Inputs:
//
//	path - Config file path. May be empty.
//
// Outputs:
//
//	SessionConfig - Defaults overlaid with whatever the file sets.
//	error - Non-nil only if the file exists but is unreadable or invalid.
func Load(path string) (SessionConfig, error) {
	cfg := DefaultSessionConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(fc.SearchRoots) > 0 {
		cfg.SearchRoots = fc.SearchRoots
	}
	if fc.ExtractionThreshold != nil {
		cfg.ExtractionThreshold = *fc.ExtractionThreshold
	}
	if fc.ModuleSuffix != nil {
		cfg.ModuleSuffix = *fc.ModuleSuffix
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}

	return cfg, nil
}

// Validate surfaces degenerate configuration before traversal begins.
func (c SessionConfig) Validate() error {
	if len(c.SearchRoots) == 0 {
		return ErrNoSearchRoots
	}
	if c.ExtractionThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeThreshold, c.ExtractionThreshold)
	}
	if c.ModuleSuffix == "" {
		return errors.New("module suffix must not be empty")
	}
	return nil
}
