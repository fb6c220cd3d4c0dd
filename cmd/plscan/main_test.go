// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandWritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")
	fixture := filepath.Join("..", "..", "test", "fixtures", "sample-perl-project")

	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "no-such-config.yaml"),
		"--output", out,
		fixture,
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)

	if !strings.HasSuffix(got, "\n") {
		t.Error("report is not newline terminated")
	}
	for _, name := range []string{"Acme::Widget", "Greeter", "set_language"} {
		if !strings.Contains(got, name+"\n") {
			t.Errorf("report missing %q:\n%s", name, got)
		}
	}
	if strings.Contains(got, "Should::Not::Appear") {
		t.Errorf("report includes script identifiers:\n%s", got)
	}
	if strings.Contains(got, "id\n") {
		t.Errorf("report includes a name below the default threshold:\n%s", got)
	}
}

func TestRootCommandFailsOnMissingRoot(t *testing.T) {
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "no-such-config.yaml"),
		filepath.Join(t.TempDir(), "missing-root"),
	})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() succeeded with a missing search root")
	}
}
