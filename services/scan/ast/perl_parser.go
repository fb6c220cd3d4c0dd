// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// PerlParserOption configures a PerlParser instance.
type PerlParserOption func(*PerlParser)

// WithMaxFileSize sets the maximum file size the parser will accept.
//
// Parameters:
//   - bytes: Maximum file size in bytes. Must be positive.
//
// Example:
//
//	parser := NewPerlParser(WithMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithMaxFileSize(bytes int64) PerlParserOption {
	return func(p *PerlParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// PerlParser extracts declarations from Perl source code.
//
// Description:
//
//	PerlParser performs a declaration-level scan: it recognizes package
//	statements, named subroutine definitions, and variable declarations
//	(my/our/local/state), and skips comments, POD blocks, quoted strings,
//	and everything after __END__ or __DATA__. The scan is error-tolerant:
//	syntactically odd input yields fewer declarations, not a failure.
//
// Thread Safety:
//
//	PerlParser instances are safe for concurrent use. Parse keeps all scan
//	state on the stack of each call.
//
// Example:
//
//	parser := NewPerlParser()
//	result, err := parser.Parse(ctx, []byte("package Foo::Bar;"), "Bar.pm")
//	if err != nil {
//	    return err
//	}
//	for _, d := range result.Namespaces() {
//	    fmt.Println(d.Name)
//	}
type PerlParser struct {
	maxFileSize int64
}

// NewPerlParser creates a new PerlParser with the given options.
//
// Outputs:
//   - *PerlParser: Configured parser instance, never nil.
//
// Thread Safety:
//
//	The returned PerlParser is safe for concurrent use.
func NewPerlParser(opts ...PerlParserOption) *PerlParser {
	p := &PerlParser{
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse extracts declarations from Perl source code.
//
// Description:
//
//	Parse validates the content (size, UTF-8), records a content hash, and
//	scans for declarations. The result is never nil on success and answers
//	kind queries without error even when no declarations were found.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after the scan.
//   - content: Raw Perl source bytes. Must be valid UTF-8.
//   - filePath: Path to the file (for logging and error reporting).
//
// Outputs:
//   - *ParseResult: Extracted declarations and metadata. Never nil on success.
//   - error: Non-nil for complete failures:
//   - ErrFileTooLarge: Content exceeds maxFileSize
//   - ErrInvalidContent: Content is not valid UTF-8
//   - Context errors: Context was canceled or timed out
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *PerlParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	ctx, span := startParseSpan(ctx, "perl", filePath, len(content))
	defer span.End()

	start := time.Now()

	// Check context before starting
	if err := ctx.Err(); err != nil {
		recordParseMetrics("perl", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	// Validate file size
	if int64(len(content)) > p.maxFileSize {
		recordParseMetrics("perl", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	// Log warning for large files
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	// Validate UTF-8
	if !utf8.Valid(content) {
		recordParseMetrics("perl", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// Compute hash before scanning (captures input)
	hash := sha256.Sum256(content)

	result := &ParseResult{
		FilePath:      filePath,
		Language:      "perl",
		Hash:          hex.EncodeToString(hash[:]),
		ParsedAtMilli: time.Now().UnixMilli(),
		Declarations:  make([]Declaration, 0),
		Errors:        make([]string, 0),
	}

	scanDeclarations(content, result)

	// Check context after scanning
	if err := ctx.Err(); err != nil {
		recordParseMetrics("perl", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled after scan: %w", err)
	}

	if err := result.Validate(); err != nil {
		recordParseMetrics("perl", time.Since(start), 0, false)
		return nil, fmt.Errorf("result validation failed: %w", err)
	}

	setParseSpanResult(span, len(result.Declarations), len(result.Errors))
	recordParseMetrics("perl", time.Since(start), len(result.Declarations), true)

	return result, nil
}

// Language returns the canonical language name for this parser.
func (p *PerlParser) Language() string {
	return "perl"
}

// Extensions returns the file extensions this parser handles.
func (p *PerlParser) Extensions() []string {
	return []string{".pm", ".pl"}
}

// scanner walks Perl source once, byte by byte, recording declarations.
//
// Quote-like operators (q//, qw//, m//, s///) and heredoc bodies are scanned
// as ordinary code; a declaration keyword inside one of them can produce a
// stray candidate. The downstream set is deduplicating and the report is a
// completion word list, so stray candidates are harmless.
type scanner struct {
	src  []byte
	i    int
	line int
	res  *ParseResult
}

// scanDeclarations scans src and appends declarations and notes to res.
func scanDeclarations(src []byte, res *ParseResult) {
	s := &scanner{src: src, line: 1, res: res}
	s.run()
}

var podCut = []byte("=cut")

func (s *scanner) run() {
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch {
		case c == '\n':
			s.line++
			s.i++
		case c == '=' && s.atLineStart() && s.i+1 < len(s.src) && isIdentStart(s.src[s.i+1]):
			s.skipPod()
		case c == '#':
			s.skipToEOL()
		case c == '\'' || c == '"' || c == '`':
			s.skipString(c)
		case c == '$' || c == '@' || c == '%':
			// Consume the sigil and the following name so that variable
			// uses like $my or $package are never keyword-matched.
			s.i++
			if s.i < len(s.src) && isWordByte(s.src[s.i]) {
				s.readName()
			}
		case isIdentStart(c):
			atStart := s.atLineStart()
			word := s.readName()
			switch word {
			case "package":
				s.scanPackage()
			case "sub":
				s.scanSub()
			case "my", "our", "local", "state":
				s.scanVariables()
			case "__END__", "__DATA__":
				if atStart {
					s.i = len(s.src)
				}
			}
		default:
			s.i++
		}
	}
}

// atLineStart reports whether the current byte is at column 0.
func (s *scanner) atLineStart() bool {
	return s.i == 0 || s.src[s.i-1] == '\n'
}

// skipToEOL advances to (but not past) the next newline.
func (s *scanner) skipToEOL() {
	for s.i < len(s.src) && s.src[s.i] != '\n' {
		s.i++
	}
}

// skipPod skips a POD block: a `=word` directive at column 0 through the
// line starting with `=cut`. An unterminated block consumes the rest of the
// file and leaves a note on the result.
func (s *scanner) skipPod() {
	podLine := s.line
	// Step past the opening directive line first so an opening `=pod`
	// is not itself tested against `=cut`.
	s.skipToEOL()
	for s.i < len(s.src) {
		if s.src[s.i] == '\n' {
			s.line++
			s.i++
			continue
		}
		if s.atLineStart() && bytes.HasPrefix(s.src[s.i:], podCut) {
			s.skipToEOL()
			return
		}
		s.skipToEOL()
	}
	s.res.Errors = append(s.res.Errors,
		fmt.Sprintf("unterminated POD block starting at line %d", podLine))
}

// skipString skips a quoted string, honoring backslash escapes. Perl strings
// may span lines. An unterminated string consumes the rest of the file.
func (s *scanner) skipString(quote byte) {
	s.i++ // opening quote
	for s.i < len(s.src) {
		c := s.src[s.i]
		s.i++
		switch {
		case c == '\\':
			if s.i < len(s.src) {
				if s.src[s.i] == '\n' {
					s.line++
				}
				s.i++
			}
		case c == '\n':
			s.line++
		case c == quote:
			return
		}
	}
}

// skipSpaceAndComments advances over whitespace (including newlines) and
// line comments.
func (s *scanner) skipSpaceAndComments() {
	for s.i < len(s.src) {
		switch c := s.src[s.i]; {
		case c == '\n':
			s.line++
			s.i++
		case c == ' ' || c == '\t' || c == '\r':
			s.i++
		case c == '#':
			s.skipToEOL()
		default:
			return
		}
	}
}

// readName reads an identifier, allowing `::` separators between word runs
// so that `Foo::Bar::Baz` is consumed as one name.
func (s *scanner) readName() string {
	start := s.i
	for s.i < len(s.src) {
		c := s.src[s.i]
		if isWordByte(c) {
			s.i++
			continue
		}
		if c == ':' && s.i+2 < len(s.src) && s.src[s.i+1] == ':' && isWordByte(s.src[s.i+2]) {
			s.i += 2
			continue
		}
		break
	}
	return string(s.src[start:s.i])
}

// scanPackage records a package declaration. Handles the statement form
// (`package Foo::Bar;`), the versioned form (`package Foo::Bar v1.2;`),
// and the block form (`package Foo::Bar { ... }`): all three start with
// the keyword followed by the namespace name.
func (s *scanner) scanPackage() {
	line := s.line
	s.skipSpaceAndComments()
	if s.i >= len(s.src) || !isIdentStart(s.src[s.i]) {
		return
	}
	s.record(DeclKindPackage, s.readName(), line)
}

// scanSub records a named subroutine definition. Anonymous subs
// (`sub { ... }`) have no name and are not recorded.
func (s *scanner) scanSub() {
	line := s.line
	s.skipSpaceAndComments()
	if s.i >= len(s.src) || !isIdentStart(s.src[s.i]) {
		return
	}
	s.record(DeclKindSub, s.readName(), line)
}

// scanVariables records the variable name(s) introduced by a my/our/local/
// state declaration. A parenthesized list (`my ($a, @b, %c)`) yields one
// declaration per name; the single form records the first variable only
// (anything after `=` is an expression, not a declaration).
func (s *scanner) scanVariables() {
	line := s.line
	s.skipSpaceAndComments()
	if s.i >= len(s.src) {
		return
	}

	if s.src[s.i] == '(' {
		s.i++
		depth := 1
		for s.i < len(s.src) && depth > 0 {
			switch c := s.src[s.i]; {
			case c == '(':
				depth++
				s.i++
			case c == ')':
				depth--
				s.i++
			case c == '\n':
				s.line++
				s.i++
			case c == '#':
				s.skipToEOL()
			case c == '$' || c == '@' || c == '%':
				s.i++
				if s.i < len(s.src) && isWordByte(s.src[s.i]) {
					s.record(DeclKindVariable, string(c)+s.readName(), s.line)
				}
			default:
				s.i++
			}
		}
		return
	}

	if c := s.src[s.i]; c == '$' || c == '@' || c == '%' {
		s.i++
		if s.i < len(s.src) && isWordByte(s.src[s.i]) {
			s.record(DeclKindVariable, string(c)+s.readName(), line)
		}
	}
}

func (s *scanner) record(kind DeclKind, name string, line int) {
	s.res.Declarations = append(s.res.Declarations, Declaration{
		Kind: kind,
		Name: name,
		Line: line,
	})
}

// isWordByte reports whether c is a word character: ASCII letter, digit,
// or underscore.
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// isIdentStart reports whether c can start an identifier.
func isIdentStart(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
