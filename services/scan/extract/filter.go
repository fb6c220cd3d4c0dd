// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extract

// DefaultThreshold is the minimum significant word-run length applied when
// the caller does not configure one.
const DefaultThreshold = 3

// Admit reports whether a candidate passes the minimum-length rule.
//
// Description:
//
//	A candidate is admitted iff it contains at least one contiguous run of
//	word characters (ASCII letters, digits, underscore) of length >=
//	threshold, anywhere in the string. This is deliberately NOT a total-
//	length check: "Foo::Bar" passes threshold 3 because the run "Foo"
//	qualifies, while "ab" fails it because no run reaches 3. The unanchored
//	substring-run semantics is inherited from the tool this scanner
//	replaces and is relied on by editor integrations; do not change it to
//	mean "len(candidate) >= threshold".
//
//	A threshold <= 0 admits every non-empty candidate. The empty string is
//	never admitted.
func Admit(candidate string, threshold int) bool {
	if candidate == "" {
		return false
	}
	if threshold <= 0 {
		return true
	}

	run := 0
	for i := 0; i < len(candidate); i++ {
		if isWordByte(candidate[i]) {
			run++
			if run >= threshold {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// isWordByte reports whether c is an ASCII letter, digit, or underscore.
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
