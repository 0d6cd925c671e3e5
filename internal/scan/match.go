package scan

import (
	"iter"

	"github.com/guidscan/guidscan/internal/guid"
)

// Kind tells which detector produced a match.
type Kind string

const (
	KindText         Kind = "text"
	KindBinaryStrict Kind = "binary-strict"
	KindBinaryLoose  Kind = "binary-loose"
)

// Match is one detection. Matches are ephemeral: they are emitted as
// found and not retained by the engine beyond folding the identifier
// into the session's set.
type Match struct {
	ID     guid.GUID `json:"guid" header:"GUID"`
	Kind   Kind      `json:"kind" header:"KIND"`
	Path   string    `json:"path" header:"PATH"`
	Offset int64     `json:"offset" header:"OFFSET"`
}

// Stats are the aggregate counters of one walk. All counters are
// monotonically increasing for the lifetime of a session.
type Stats struct {
	FilesScanned   uint64 `json:"files_scanned"`
	BytesScanned   uint64 `json:"bytes_scanned"`
	TextHits       uint64 `json:"text_hits"`
	BinaryHits     uint64 `json:"binary_hits"`
	FilesSkipped   uint64 `json:"files_skipped"`
	DuplicateFiles uint64 `json:"duplicate_files"`
}

func (s *Stats) add(o Stats) {
	s.FilesScanned += o.FilesScanned
	s.BytesScanned += o.BytesScanned
	s.TextHits += o.TextHits
	s.BinaryHits += o.BinaryHits
	s.FilesSkipped += o.FilesSkipped
	s.DuplicateFiles += o.DuplicateFiles
}

// Summary is the final result of a walk: the counters plus the
// deduplicated identifiers.
type Summary struct {
	Stats Stats

	uniqueSet *Set
}

// Unique yields every distinct identifier found, in unspecified order.
func (s *Summary) Unique() iter.Seq[guid.GUID] {
	if s.uniqueSet == nil {
		return func(yield func(guid.GUID) bool) {}
	}
	return s.uniqueSet.All()
}

// UniqueCount returns the number of distinct identifiers found.
func (s *Summary) UniqueCount() int {
	if s.uniqueSet == nil {
		return 0
	}
	return s.uniqueSet.Len()
}
