// Package scan implements the streaming identifier scanner: a tree
// walker that feeds every regular file through a chunked reader, textual
// and binary matchers over each chunk, and an open-addressing set that
// deduplicates identifiers across the whole walk.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	xerrors "github.com/guidscan/guidscan/internal/errors"
)

// Session owns one walk: the deduplication set, the counters, and the
// match channel. Create with NewSession, consume the channel returned by
// Start, then call Wait for the summary.
type Session struct {
	opts Options
	log  zerolog.Logger

	mu    sync.Mutex
	set   *Set
	stats Stats
	seen  map[uint64]struct{}

	matches chan Match
	done    chan struct{}
	err     error
}

// NewSession prepares a session with normalized options.
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		opts: opts,
		log:  opts.Logger.With().Str("component", "scan").Logger(),
		set:  NewSet(),
		seen: make(map[uint64]struct{}),
	}
}

// Start launches the walk rooted at root and returns the match channel.
// Matches are sent as they are found (only when Options.Locations is
// set) and the channel is closed when the walk finishes. Start must be
// called exactly once per session.
func (s *Session) Start(ctx context.Context, root string) <-chan Match {
	s.matches = make(chan Match, 64)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		defer close(s.matches)
		s.err = s.run(ctx, root)
	}()
	return s.matches
}

// Wait blocks until the walk completes and returns the summary. The only
// walk-level failures are an inaccessible root and cancellation;
// per-entry errors are logged and skipped.
func (s *Session) Wait() (*Summary, error) {
	<-s.done
	if s.err != nil {
		return nil, s.err
	}
	return &Summary{Stats: s.stats, uniqueSet: s.set}, nil
}

func (s *Session) run(ctx context.Context, root string) error {
	info, err := os.Lstat(root)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	switch {
	case info.Mode().IsRegular():
		g.Go(func() error { return s.scanFile(gctx, root) })
	case info.IsDir():
		s.walkDir(gctx, g, root)
	default:
		// Symlinked or otherwise irregular roots are never traversed,
		// matching the directory-entry rule below.
		s.log.Warn().Str("path", root).Msg("root is not a regular file or directory")
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// walkDir enumerates one directory. Enumeration failures and odd entries
// are skipped, never fatal. Symlinks are not followed at any depth so a
// cyclic tree still terminates.
func (s *Session) walkDir(ctx context.Context, g *errgroup.Group, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn().Err(err).Str("dir", dir).Msg("cannot enumerate directory")
		return
	}

	for _, ent := range entries {
		if ctx.Err() != nil {
			return
		}
		path := filepath.Join(dir, ent.Name())
		t := ent.Type()
		switch {
		case t&fs.ModeSymlink != 0:
			s.log.Debug().Str("path", path).Msg("skipping symlink")
		case t.IsDir():
			if s.opts.Recursive {
				s.walkDir(ctx, g, path)
			}
		case t.IsRegular():
			g.Go(func() error { return s.scanFile(ctx, path) })
		default:
			s.log.Debug().Str("path", path).Msg("skipping irregular entry")
		}
	}
}

// scanFile scans one regular file. Counters for the file are accumulated
// locally and merged in one step, so the summary never reflects a
// half-scanned file.
func (s *Session) scanFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("cannot open file")
		s.mu.Lock()
		s.stats.FilesSkipped++
		s.mu.Unlock()
		return nil
	}
	defer xerrors.DeferClose(s.log, f, "closing scanned file")

	var local Stats
	local.FilesScanned = 1

	hit := func(m Match) {
		if m.Kind == KindText {
			local.TextHits++
		} else {
			local.BinaryHits++
		}
		s.mu.Lock()
		s.set.Insert(m.ID)
		s.mu.Unlock()
		if s.opts.Locations {
			select {
			case s.matches <- m:
			case <-ctx.Done():
			}
		}
	}

	n, digest, err := scanReader(ctx, f, path, s.opts, hit)
	local.BytesScanned = uint64(n)

	s.mu.Lock()
	if n > 0 {
		if _, dup := s.seen[digest]; dup {
			local.DuplicateFiles = 1
		} else {
			s.seen[digest] = struct{}{}
		}
	}
	s.stats.add(local)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.Warn().Err(err).Str("path", path).Msg("read failed, file skipped")
	}
	return nil
}
