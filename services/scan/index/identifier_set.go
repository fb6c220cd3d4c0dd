// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package index holds the session-wide deduplicated identifier set.
package index

import (
	"sort"
	"sync"
)

// IdentifierSet is the aggregate, deduplicated collection of admitted
// completion identifiers for one scan session.
//
// Description:
//
//	Membership is built by repeated Admit calls, which are idempotent:
//	admitting the same string twice has no additional effect. Because
//	admission is idempotent and membership is unordered, the final
//	Sorted() output is independent of the order files were gathered in.
//
// Thread Safety:
//
//	IdentifierSet is safe for concurrent use. The parallel gather mode
//	relies on this to preserve order-independence.
//
// Ownership:
//
//	One set is owned by one session; it is mutated by the gather pipeline
//	and read by the reporter once gathering finishes.
type IdentifierSet struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewIdentifierSet creates a new empty identifier set.
func NewIdentifierSet() *IdentifierSet {
	return &IdentifierSet{
		members: make(map[string]struct{}),
	}
}

// Admit inserts a candidate into the set.
//
// Outputs:
//   - bool: true if the candidate was not already a member. Empty
//     candidates are ignored and return false.
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (s *IdentifierSet) Admit(candidate string) bool {
	if candidate == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[candidate]; exists {
		return false
	}
	s.members[candidate] = struct{}{}
	return true
}

// Len returns the current membership count.
func (s *IdentifierSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// All returns the current membership in unspecified order. The returned
// slice is a copy; mutating it does not affect the set.
func (s *IdentifierSet) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.members))
	for m := range s.members {
		members = append(members, m)
	}
	return members
}

// Sorted returns the membership ordered lexicographically by byte value,
// the order the report is emitted in.
func (s *IdentifierSet) Sorted() []string {
	members := s.All()
	sort.Strings(members)
	return members
}

// Reset removes all members. Not used by the gather pipeline; provided for
// callers that reuse a set across sessions in tests.
func (s *IdentifierSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make(map[string]struct{})
}
