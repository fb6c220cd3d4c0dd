// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kelpworks/plscan/services/scan/index"
)

func populatedSet() *index.IdentifierSet {
	set := index.NewIdentifierSet()
	set.Admit("walrus")
	set.Admit("Acme::Widget")
	set.Admit("spin")
	return set
}

func TestWrite_SortedNewlineTerminated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(populatedSet(), &WriterSink{W: &buf}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Acme::Widget\nspin\nwalrus\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWrite_EmptySetWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(index.NewIdentifierSet(), &WriterSink{W: &buf}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty report, got %q", buf.String())
	}
}

func TestFileSink_TruncatesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "complete.txt")
	if err := os.WriteFile(path, []byte("stale content that is much longer than the new report\n"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	if err := Write(populatedSet(), &FileSink{Path: path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	want := "Acme::Widget\nspin\nwalrus\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}

func TestFileSink_OpenFailurePropagates(t *testing.T) {
	sink := &FileSink{Path: filepath.Join(t.TempDir(), "missing", "dir", "out.txt")}
	if err := Write(populatedSet(), sink); err == nil {
		t.Error("expected an error for unwritable report path")
	}
}

func TestMemorySink_KeepsCopy(t *testing.T) {
	sink := &MemorySink{}
	if err := Write(populatedSet(), sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := sink.Lines()
	if len(lines) != 3 || lines[0] != "Acme::Widget" {
		t.Errorf("unexpected lines: %v", lines)
	}

	lines[0] = "mutated"
	if sink.Lines()[0] != "Acme::Widget" {
		t.Error("Lines() must return a copy")
	}
}

func TestWrite_NilArguments(t *testing.T) {
	if err := Write(nil, &MemorySink{}); err == nil {
		t.Error("expected error for nil set")
	}
	if err := Write(populatedSet(), nil); err == nil {
		t.Error("expected error for nil sink")
	}
}
