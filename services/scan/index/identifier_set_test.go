// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package index

import (
	"sort"
	"sync"
	"testing"
)

func TestIdentifierSet_AdmitIsIdempotent(t *testing.T) {
	set := NewIdentifierSet()

	if !set.Admit("frobnicate") {
		t.Error("first admit should report a new member")
	}
	if set.Admit("frobnicate") {
		t.Error("second admit should report an existing member")
	}
	if set.Len() != 1 {
		t.Errorf("expected 1 member, got %d", set.Len())
	}
}

func TestIdentifierSet_EmptyCandidateIgnored(t *testing.T) {
	set := NewIdentifierSet()
	if set.Admit("") {
		t.Error("empty candidate must not be admitted")
	}
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d members", set.Len())
	}
}

func TestIdentifierSet_SortedHasNoDuplicates(t *testing.T) {
	set := NewIdentifierSet()
	for _, id := range []string{"beta", "alpha", "beta", "Gamma", "alpha"} {
		set.Admit(id)
	}

	sorted := set.Sorted()
	want := []string{"Gamma", "alpha", "beta"} // byte order: uppercase first
	if len(sorted) != len(want) {
		t.Fatalf("expected %v, got %v", want, sorted)
	}
	for i := range want {
		if sorted[i] != want[i] {
			t.Errorf("sorted[%d]: expected %q, got %q", i, want[i], sorted[i])
		}
	}
	if !sort.StringsAreSorted(sorted) {
		t.Errorf("Sorted() output is not sorted: %v", sorted)
	}
}

func TestIdentifierSet_AllReturnsCopy(t *testing.T) {
	set := NewIdentifierSet()
	set.Admit("keep")

	all := set.All()
	all[0] = "mutated"

	if got := set.Sorted(); len(got) != 1 || got[0] != "keep" {
		t.Errorf("mutating All() output must not affect the set, got %v", got)
	}
}

func TestIdentifierSet_ConcurrentAdmit(t *testing.T) {
	set := NewIdentifierSet()
	ids := []string{"one", "two", "three", "four", "five"}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				set.Admit(id)
			}
		}()
	}
	wg.Wait()

	if set.Len() != len(ids) {
		t.Errorf("expected %d members after concurrent admits, got %d", len(ids), set.Len())
	}
}

func TestIdentifierSet_Reset(t *testing.T) {
	set := NewIdentifierSet()
	set.Admit("gone")
	set.Reset()
	if set.Len() != 0 {
		t.Errorf("expected empty set after Reset, got %d members", set.Len())
	}
}
