// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// fixtureDir returns the checked-in sample Perl project.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("..", "..", "test", "fixtures", "sample-perl-project")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("fixture directory not found: %v", err)
	}
	return dir
}

func TestSessionAgainstSampleProject(t *testing.T) {
	s, summary := runSession(t, testConfig(fixtureDir(t)))

	// Two .pm files; bin/helper.pl is excluded by the default suffix.
	if summary.FilesGathered != 2 {
		t.Errorf("FilesGathered = %d, want 2", summary.FilesGathered)
	}
	if summary.FilesSkipped != 0 {
		t.Errorf("FilesSkipped = %d, want 0", summary.FilesSkipped)
	}

	// "id" falls below the default threshold; "Ghost::After::End" sits
	// past __END__; nothing from helper.pl may appear.
	want := []string{
		"Acme::Widget",
		"DefaultGreeting",
		"Greeter",
		"class",
		"greet",
		"lang",
		"name",
		"previous",
		"self",
		"set_language",
		"spin",
		"translations",
	}
	if got := s.Set().Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestSessionSampleProjectWithScriptSuffix(t *testing.T) {
	cfg := testConfig(fixtureDir(t))
	cfg.ModuleSuffix = ".pl"

	s, summary := runSession(t, cfg)

	if summary.FilesGathered != 1 {
		t.Errorf("FilesGathered = %d, want 1", summary.FilesGathered)
	}
	want := []string{"Should::Not::Appear", "ignored_by_default_suffix"}
	if got := s.Set().Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}
