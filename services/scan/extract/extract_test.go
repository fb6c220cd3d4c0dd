// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extract

import (
	"context"
	"testing"

	"github.com/kelpworks/plscan/services/scan/ast"
)

const extractTestSource = `package Net::Probe;

our $VERSION = '0.9';
my ($host, @ports, %results);

sub probe_all { }
sub probe_all { }
`

func parseFixture(t *testing.T) *ast.ParseResult {
	t.Helper()
	result, err := ast.NewPerlParser().Parse(context.Background(), []byte(extractTestSource), "Probe.pm")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return result
}

func TestNamespaces_AsWritten(t *testing.T) {
	got := Namespaces(parseFixture(t))
	if len(got) != 1 || got[0] != "Net::Probe" {
		t.Errorf("expected [Net::Probe], got %v", got)
	}
}

func TestVariables_SigilStripped(t *testing.T) {
	got := Variables(parseFixture(t))
	want := []string{"VERSION", "host", "ports", "results"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variable[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSubroutines_DuplicatesKept(t *testing.T) {
	// Dedup is the identifier set's job, not the extractor's.
	got := Subroutines(parseFixture(t))
	if len(got) != 2 || got[0] != "probe_all" || got[1] != "probe_all" {
		t.Errorf("expected duplicate probe_all candidates, got %v", got)
	}
}

func TestCandidates_AllThreeStreams(t *testing.T) {
	got := Candidates(parseFixture(t))
	want := []string{"Net::Probe", "VERSION", "host", "ports", "results", "probe_all", "probe_all"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}
