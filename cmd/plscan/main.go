// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// plscan walks trees of Perl modules and prints the sorted set of
// declared identifiers usable as autocompletion candidates.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kelpworks/plscan/services/scan"
	"github.com/kelpworks/plscan/services/scan/config"
	"github.com/kelpworks/plscan/services/scan/report"
)

// Flag values for the root command.
var (
	configPath    string
	thresholdFlag int
	suffixFlag    string
	outputFlag    string
	verboseFlag   bool
	workersFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "plscan [flags] <search-root> [<search-root>...]",
	Short: "Extract autocompletion identifiers from Perl module trees",
	Long: `plscan scans one or more directory trees for Perl modules, collects the
package, variable, and subroutine names they declare, filters out names
whose longest unbroken word run falls below the threshold, and writes the
deduplicated, sorted result one identifier per line.

Search roots come from the command line or from the config file; flags
given explicitly override config file values.`,
	SilenceUsage: true,
	RunE:         runScan,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile,
		"Path to the YAML config file (missing file is not an error)")
	rootCmd.Flags().IntVarP(&thresholdFlag, "threshold", "t", config.DefaultThreshold,
		"Minimum unbroken word-character run a name needs to be reported (0 admits everything)")
	rootCmd.Flags().StringVar(&suffixFlag, "suffix", config.DefaultModuleSuffix,
		"File name suffix that marks a Perl module")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"Write the report to this file instead of stdout")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Log every gathered file")
	rootCmd.Flags().IntVarP(&workersFlag, "workers", "w", config.DefaultWorkers,
		"Number of files to gather concurrently")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		cfg.SearchRoots = args
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ExtractionThreshold = thresholdFlag
	}
	if cmd.Flags().Changed("suffix") {
		cfg.ModuleSuffix = suffixFlag
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputFlag
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verboseFlag
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workersFlag
	}

	setupLogging(cfg.Verbose)

	session, err := scan.NewSession(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := session.Run(ctx); err != nil {
		return err
	}

	var sink report.Sink
	if cfg.Output != "" {
		sink = &report.FileSink{Path: cfg.Output}
	} else {
		sink = &report.WriterSink{W: os.Stdout}
	}
	return report.Write(session.Set(), sink)
}

// setupLogging sends logs to stderr so the report on stdout stays clean.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
