// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extract produces raw completion candidates from a parsed file and
// decides which of them are admitted into the identifier set.
package extract

import "github.com/kelpworks/plscan/services/scan/ast"

// Namespaces returns one candidate per package declaration, the fully
// qualified namespace name as written (scope separators included).
func Namespaces(res *ast.ParseResult) []string {
	decls := res.Namespaces()
	candidates := make([]string, 0, len(decls))
	for _, d := range decls {
		candidates = append(candidates, d.Name)
	}
	return candidates
}

// Variables returns one candidate per declared variable, with the leading
// sigil removed: a declaration introducing $foo yields "foo".
func Variables(res *ast.ParseResult) []string {
	decls := res.Variables()
	candidates := make([]string, 0, len(decls))
	for _, d := range decls {
		candidates = append(candidates, stripSigil(d.Name))
	}
	return candidates
}

// Subroutines returns one candidate per named subroutine definition.
func Subroutines(res *ast.ParseResult) []string {
	decls := res.Subroutines()
	candidates := make([]string, 0, len(decls))
	for _, d := range decls {
		candidates = append(candidates, d.Name)
	}
	return candidates
}

// Candidates returns all three candidate streams concatenated. Duplicates
// are not removed here; dedup happens at identifier-set admission.
func Candidates(res *ast.ParseResult) []string {
	candidates := Namespaces(res)
	candidates = append(candidates, Variables(res)...)
	candidates = append(candidates, Subroutines(res)...)
	return candidates
}

// stripSigil removes a leading $, @, or % storage-class marker.
func stripSigil(name string) string {
	if len(name) > 0 && (name[0] == '$' || name[0] == '@' || name[0] == '%') {
		return name[1:]
	}
	return name
}
