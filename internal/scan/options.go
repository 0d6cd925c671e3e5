package scan

import (
	"github.com/rs/zerolog"

	"github.com/guidscan/guidscan/internal/guid"
)

// Default buffer geometry for the chunk reader. The overlap must hold the
// longest textual pattern (38 bytes) so a match straddling a chunk
// boundary is seen whole in the following iteration.
const (
	DefaultChunkSize = 4 << 20
	DefaultOverlap   = 64
)

// Options configures a scan session. The zero value is not usable; start
// from DefaultOptions. Options are passed down the call chain explicitly;
// nothing in the engine mutates shared option state.
type Options struct {
	// Recursive descends into subdirectories when the root is a directory.
	Recursive bool

	// Text enables the textual 8-4-4-4-12 matcher.
	Text bool

	// Binary enables the raw 16-byte heuristic matcher.
	Binary bool

	// Strict restricts the binary matcher to windows whose version nibble
	// is also plausible, trading recall for a lower false-positive rate.
	// Every window the strict tier accepts, the loose tier accepts too.
	Strict bool

	// Locations emits a Match on the session channel for every hit.
	// Unique identifiers are collected regardless.
	Locations bool

	// ChunkSize is the number of new bytes read per buffer refill.
	ChunkSize int

	// Overlap is the number of trailing bytes carried over between
	// refills. Clamped to at least the longest textual pattern.
	Overlap int

	// Workers bounds concurrent per-file scans. 1 reproduces the fully
	// sequential behavior of the original tool.
	Workers int

	// Logger receives skip/enumeration diagnostics.
	Logger zerolog.Logger
}

// DefaultOptions returns the options used by a plain "scan <path>":
// textual matching only, non-recursive, sequential.
func DefaultOptions() Options {
	return Options{
		Text:      true,
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
		Workers:   1,
		Logger:    zerolog.Nop(),
	}
}

// withDefaults normalizes out-of-range values instead of erroring, so a
// partially filled Options literal behaves sensibly.
func (o Options) withDefaults() Options {
	if !o.Text && !o.Binary {
		o.Text = true
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Overlap <= 0 {
		o.Overlap = DefaultOverlap
	}
	if o.Overlap < guid.BracedLen {
		o.Overlap = guid.BracedLen
	}
	if o.ChunkSize < o.Overlap {
		o.ChunkSize = o.Overlap
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}
