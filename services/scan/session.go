// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package scan orchestrates one gather session: walking the search roots,
// parsing each unique module file, and admitting filtered candidates into
// the session's identifier set.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kelpworks/plscan/services/scan/ast"
	"github.com/kelpworks/plscan/services/scan/config"
	"github.com/kelpworks/plscan/services/scan/extract"
	"github.com/kelpworks/plscan/services/scan/index"
)

// Session owns one scan: a config, a parser, the identifier set being
// built, and the set of file identities already gathered.
//
// Description:
//
//	A Session is single-use: construct, Run once, read the set, discard.
//	Neither the identifier set nor the seen set persists across sessions.
//
// Invariant:
//
//	The final set is a pure function of the distinct reachable files and
//	the extraction threshold: admission is idempotent, dedup is by
//	canonical file identity, so traversal order and gather parallelism
//	cannot change the reported membership.
type Session struct {
	id     string
	cfg    config.SessionConfig
	parser *ast.PerlParser
	set    *index.IdentifierSet

	mu   sync.Mutex
	seen map[string]struct{}

	gathered atomic.Int64
	skipped  atomic.Int64
}

// Summary reports what one Run did.
type Summary struct {
	FilesGathered int
	FilesSkipped  int
	Identifiers   int
	Duration      time.Duration
}

// NewSession validates the config and creates a session.
//
// Outputs:
//   - *Session: Ready to Run. Never nil on success.
//   - error: Configuration errors (no search roots, negative threshold).
func NewSession(cfg config.SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		parser: ast.NewPerlParser(),
		set:    index.NewIdentifierSet(),
		seen:   make(map[string]struct{}),
	}, nil
}

// ID returns the session identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

// Set returns the identifier set the session gathers into. Read it after
// Run returns.
func (s *Session) Set() *index.IdentifierSet {
	return s.set
}

// Run walks every search root and gathers each unique module file once.
//
// Description:
//
//	A file that cannot be read or parsed is logged and skipped; it never
//	discards identifiers already gathered from other files or aborts the
//	session. Only a missing search root or a canceled context is fatal.
//
// Thread Safety:
//
//	Run must be called once per session, from one goroutine. Internally it
//	may gather files in parallel (cfg.Workers > 1).
func (s *Session) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	slog.Info("scan session starting",
		slog.String("session_id", s.id),
		slog.Int("roots", len(s.cfg.SearchRoots)),
		slog.Int("threshold", s.cfg.ExtractionThreshold),
		slog.Int("workers", s.cfg.Workers))

	files, err := s.collectFiles()
	if err != nil {
		return Summary{}, err
	}

	if s.cfg.Workers <= 1 {
		for _, path := range files {
			if err := s.gatherFile(ctx, path); err != nil {
				return Summary{}, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Workers)
		for _, path := range files {
			path := path
			g.Go(func() error {
				return s.gatherFile(gctx, path)
			})
		}
		if err := g.Wait(); err != nil {
			return Summary{}, err
		}
	}

	summary := Summary{
		FilesGathered: int(s.gathered.Load()),
		FilesSkipped:  int(s.skipped.Load()),
		Identifiers:   s.set.Len(),
		Duration:      time.Since(start),
	}

	slog.Info("scan session finished",
		slog.String("session_id", s.id),
		slog.Int("files_gathered", summary.FilesGathered),
		slog.Int("files_skipped", summary.FilesSkipped),
		slog.Int("identifiers", summary.Identifiers),
		slog.Duration("duration", summary.Duration))

	return summary, nil
}

// collectFiles walks the roots in order and returns each unique module
// file once, deduplicated by canonical identity. Unreadable entries are
// logged and skipped; a missing or non-directory root is fatal.
func (s *Session) collectFiles() ([]string, error) {
	var files []string

	for _, root := range s.cfg.SearchRoots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("search root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("search root %s is not a directory", root)
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("skipping unreadable entry",
					slog.String("session_id", s.id),
					slog.String("path", path),
					slog.String("error", err.Error()))
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), s.cfg.ModuleSuffix) {
				return nil
			}
			if !d.Type().IsRegular() {
				// Symlinked module files count if they resolve to a
				// regular file; everything else (fifos, sockets) does not.
				if d.Type()&fs.ModeSymlink == 0 {
					return nil
				}
				target, serr := os.Stat(path)
				if serr != nil || !target.Mode().IsRegular() {
					return nil
				}
			}

			identity, ierr := fileIdentity(path)
			if ierr != nil {
				slog.Warn("cannot resolve file identity",
					slog.String("session_id", s.id),
					slog.String("path", path),
					slog.String("error", ierr.Error()))
				return nil
			}
			if !s.markSeen(identity) {
				recordFileOutcome("duplicate")
				slog.Debug("file already gathered in this session",
					slog.String("session_id", s.id),
					slog.String("path", path))
				return nil
			}

			files = append(files, path)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", root, walkErr)
		}
	}

	return files, nil
}

// gatherFile runs the per-file pipeline: read, parse, extract, filter,
// admit. Read and parse failures are recoverable (log, count, continue);
// only context cancellation propagates.
func (s *Session) gatherFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		s.skipped.Add(1)
		recordFileOutcome("skipped")
		slog.Warn("skipping unreadable file",
			slog.String("session_id", s.id),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil
	}

	result, err := s.parser.Parse(ctx, content, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.skipped.Add(1)
		recordFileOutcome("skipped")
		slog.Warn("skipping unparsable file",
			slog.String("session_id", s.id),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil
	}

	admitted := 0
	for _, candidate := range extract.Candidates(result) {
		if !extract.Admit(candidate, s.cfg.ExtractionThreshold) {
			continue
		}
		if s.set.Admit(candidate) {
			admitted++
		}
	}

	s.gathered.Add(1)
	recordFileOutcome("gathered")
	recordIdentifiersAdmitted(admitted)

	if s.cfg.Verbose {
		slog.Debug("gathered file",
			slog.String("session_id", s.id),
			slog.String("file", path),
			slog.Int("declarations", len(result.Declarations)),
			slog.Int("admitted", admitted))
	}

	return nil
}

// markSeen check-and-inserts a file identity into the session's seen set.
// Returns true if the identity was not seen before.
func (s *Session) markSeen(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[identity]; ok {
		return false
	}
	s.seen[identity] = struct{}{}
	return true
}

// fileIdentity returns the canonical identity of a file: the absolute,
// symlink-resolved path. If symlink resolution fails, the absolute path is
// used so an unreadable link degrades to per-path dedup instead of failing.
func fileIdentity(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
