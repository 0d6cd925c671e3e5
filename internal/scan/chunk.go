package scan

import (
	"context"
	"io"

	"github.com/zeebo/xxh3"

	"github.com/guidscan/guidscan/internal/guid"
)

// scanReader streams r through a bounded buffer: each iteration reads up
// to ChunkSize new bytes after the carried-over overlap, runs the enabled
// matchers over the valid region, then slides the trailing Overlap bytes
// to the front. Per-matcher resume offsets (absolute file positions)
// guarantee a pattern straddling a refill boundary is detected exactly
// once: positions already fully attempted are never revisited, and
// positions deferred for lack of lookahead reappear inside the overlap.
//
// Returns the number of bytes read and an xxh3 digest of the file
// content. Bytes read before a mid-file error still contribute.
func scanReader(ctx context.Context, r io.Reader, path string, o Options, hit func(Match)) (int64, uint64, error) {
	buf := make([]byte, o.Overlap+o.ChunkSize)
	digest := xxh3.New()

	var (
		base     int64 // absolute file offset of buf[0]
		carried  int
		total    int64
		textNext int64
		binNext  int64
	)

	for {
		if err := ctx.Err(); err != nil {
			return total, digest.Sum64(), err
		}

		n, rerr := io.ReadFull(r, buf[carried:carried+o.ChunkSize])
		final := rerr == io.EOF || rerr == io.ErrUnexpectedEOF
		valid := carried + n
		total += int64(n)
		_, _ = digest.Write(buf[carried:valid])

		if o.Text {
			textNext = textPass(buf[:valid], base, textNext, final, path, hit)
		}
		if o.Binary {
			binNext = binPass(buf[:valid], base, binNext, o.Strict, path, hit)
		}

		if final {
			return total, digest.Sum64(), nil
		}
		if rerr != nil {
			return total, digest.Sum64(), rerr
		}

		keep := o.Overlap
		if keep > valid {
			keep = valid
		}
		copy(buf[:keep], buf[valid-keep:valid])
		base += int64(valid - keep)
		carried = keep
	}
}

// textPass attempts the textual matcher at every candidate position from
// the resume offset. On success the cursor advances by the full consumed
// length, so inner substrings of a matched span are never re-reported; on
// failure it advances by one. When more input may follow, positions
// without room for the longest pattern are deferred to the next
// iteration rather than half-attempted.
func textPass(b []byte, base, next int64, final bool, path string, hit func(Match)) int64 {
	valid := len(b)
	p := int(next - base)
	if p < 0 {
		p = 0
	}
	for p < valid {
		rem := valid - p
		if rem < guid.DashedLen || (!final && rem < guid.BracedLen) {
			break
		}
		if textCandidate(b[p]) {
			if g, consumed, ok := matchText(b[p:valid]); ok {
				hit(Match{ID: g, Kind: KindText, Path: path, Offset: base + int64(p)})
				p += consumed
				continue
			}
		}
		p++
	}
	return base + int64(p)
}

// binPass tries every byte offset as a 16-byte window start, sliding by
// one even across accepted windows: overlapping identifiers are plausible
// in raw memory dumps, and each qualifying window is reported.
func binPass(b []byte, base, next int64, strict bool, path string, hit func(Match)) int64 {
	kind := KindBinaryLoose
	if strict {
		kind = KindBinaryStrict
	}

	valid := len(b)
	p := int(next - base)
	if p < 0 {
		p = 0
	}
	for p < valid {
		if valid-p < guid.Size {
			break
		}
		if g, ok := matchBinary(b[p:], strict); ok {
			hit(Match{ID: g, Kind: kind, Path: path, Offset: base + int64(p)})
		}
		p++
	}
	return base + int64(p)
}
