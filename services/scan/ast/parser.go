// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ast turns raw Perl source into a queryable declaration tree.
//
// The package exposes a single parser (PerlParser) that scans a source file
// for the three declaration kinds the completion pipeline cares about:
// package statements, variable declarations, and subroutine definitions.
// Everything else in the file is skipped. The resulting ParseResult answers
// "all declarations of kind K" queries and never fails once constructed.
package ast

import "errors"

// Size limits applied before parsing.
const (
	// DefaultMaxFileSize is the maximum file size accepted by a parser
	// unless overridden with WithMaxFileSize. 10 MB.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	// WarnFileSize is the size above which a parse logs a warning. 1 MB.
	WarnFileSize = 1 * 1024 * 1024
)

// Sentinel errors returned by Parse. Callers match with errors.Is.
var (
	// ErrFileTooLarge indicates the content exceeds the parser's size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrInvalidContent indicates the content is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

// DeclKind classifies a declaration found in a source file.
type DeclKind string

// Declaration kinds. These are the only node kinds the tree records.
const (
	// DeclKindPackage is a namespace declaration: `package Foo::Bar;`.
	DeclKindPackage DeclKind = "package"

	// DeclKindVariable is a lexical or global variable declaration
	// introduced by my, our, local, or state. The recorded name keeps
	// its sigil ($foo, @items, %opts) exactly as written.
	DeclKindVariable DeclKind = "variable"

	// DeclKindSub is a named subroutine definition: `sub frobnicate {...}`.
	// Anonymous subs are not recorded.
	DeclKindSub DeclKind = "sub"
)

// Declaration is one declaration statement found in a source file.
//
// Name is recorded as written in the source: package names may contain the
// `::` scope separator, variable names keep their leading sigil. Stripping
// the sigil is the extractor's job, not the parser's.
type Declaration struct {
	Kind DeclKind
	Name string

	// Line is the 1-based source line the declaration starts on.
	Line int
}

// ParseResult is the queryable parsed representation of one source file.
//
// Description:
//
//	A ParseResult is total: the query methods return empty slices (never an
//	error) for kinds with no matches. It is immutable after Parse returns
//	and therefore safe for concurrent reads.
type ParseResult struct {
	// FilePath is the path handed to Parse, for logging and error reporting.
	FilePath string

	// Language is the canonical language name ("perl").
	Language string

	// Hash is the hex-encoded SHA-256 of the raw content.
	Hash string

	// ParsedAtMilli is the parse timestamp in Unix milliseconds.
	ParsedAtMilli int64

	// Declarations holds every recorded declaration in source order.
	Declarations []Declaration

	// Errors holds non-fatal notes collected during the scan
	// (e.g. an unterminated POD block). A non-empty Errors slice does
	// not invalidate the declarations that were recorded.
	Errors []string
}

// byKind returns all declarations of the given kind in source order.
func (r *ParseResult) byKind(kind DeclKind) []Declaration {
	decls := make([]Declaration, 0)
	for _, d := range r.Declarations {
		if d.Kind == kind {
			decls = append(decls, d)
		}
	}
	return decls
}

// Namespaces returns all package declarations in source order.
func (r *ParseResult) Namespaces() []Declaration {
	return r.byKind(DeclKindPackage)
}

// Variables returns all variable declarations in source order. One
// declaration statement introducing several variables (`my ($a, $b)`)
// yields one Declaration per variable.
func (r *ParseResult) Variables() []Declaration {
	return r.byKind(DeclKindVariable)
}

// Subroutines returns all named subroutine definitions in source order.
func (r *ParseResult) Subroutines() []Declaration {
	return r.byKind(DeclKindSub)
}

// Validate checks structural invariants of the result.
//
// Outputs:
//
//	error - Non-nil if the result is malformed (empty file path, a
//	        declaration with an empty name or non-positive line).
func (r *ParseResult) Validate() error {
	if r.FilePath == "" {
		return errors.New("parse result has empty file path")
	}
	for _, d := range r.Declarations {
		if d.Name == "" {
			return errors.New("declaration with empty name")
		}
		if d.Line < 1 {
			return errors.New("declaration with non-positive line")
		}
	}
	return nil
}
