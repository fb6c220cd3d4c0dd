// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report renders the gathered identifier set for the editor.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kelpworks/plscan/services/scan/index"
)

// Sink consumes the rendered report: a sequence of lines, each terminated
// by a newline when serialized. A failing sink is fatal to the report
// operation (the error propagates to the caller), never to the scan that
// produced the set.
type Sink interface {
	Write(lines []string) error
}

// Write renders the set as its sorted membership and hands it to the sink.
func Write(set *index.IdentifierSet, sink Sink) error {
	if set == nil {
		return errors.New("report: nil identifier set")
	}
	if sink == nil {
		return errors.New("report: nil sink")
	}
	return sink.Write(set.Sorted())
}

// FileSink writes the report to a file, truncating any previous content.
type FileSink struct {
	Path string
}

// Write opens the file in truncate mode, writes every line newline-
// terminated, and closes it. Open, write, and close failures all propagate.
func (s *FileSink) Write(lines []string) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("opening report file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("writing report file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// WriterSink writes the report to an io.Writer (typically stdout).
type WriterSink struct {
	W io.Writer
}

func (s *WriterSink) Write(lines []string) error {
	w := bufio.NewWriter(s.W)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// MemorySink collects report lines in memory, for tests and embedding.
//
// Thread Safety: safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func (s *MemorySink) Write(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append([]string(nil), lines...)
	return nil
}

// Lines returns a copy of the last written report.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
