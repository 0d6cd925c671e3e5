package scan

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidscan/guidscan/internal/guid"
	"github.com/guidscan/guidscan/internal/testutil"
)

// runReader scans data with the given options and collects every match.
func runReader(t *testing.T, data []byte, opts Options) ([]Match, int64, uint64) {
	t.Helper()

	ctx, cancel := testutil.NewTestContext()
	defer cancel()

	var matches []Match
	n, digest, err := scanReader(ctx, bytes.NewReader(data), "test-input", opts.withDefaults(), func(m Match) {
		matches = append(matches, m)
	})
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	return matches, n, digest
}

func smallChunkOptions() Options {
	o := DefaultOptions()
	o.ChunkSize = 256
	o.Overlap = 64
	return o
}

func TestScanReader_FindsTextualForms(t *testing.T) {
	want := guid.MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	data := []byte("prefix {6F9619FF-8B86-D011-B42D-00C04FC964FF} middle 6f9619ff-8b86-d011-b42d-00c04fc964ff end")

	matches, _, _ := runReader(t, data, smallChunkOptions())

	require.Len(t, matches, 2)
	assert.Equal(t, want, matches[0].ID)
	assert.Equal(t, KindText, matches[0].Kind)
	assert.Equal(t, int64(7), matches[0].Offset)
	assert.Equal(t, want, matches[1].ID)
	assert.Equal(t, int64(53), matches[1].Offset)
}

func TestScanReader_NoPartialAcceptance(t *testing.T) {
	// An unclosed brace does not downgrade to an unbraced match starting
	// at the brace.
	data := []byte("{6F9619FF-8B86-D011-B42D-00C04FC964FF and nothing else")
	matches, _, _ := runReader(t, data, smallChunkOptions())

	// The hex run after the brace is itself a well-formed unbraced match.
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].Offset)
}

func TestScanReader_ExactlyOnceAcrossChunkBoundary(t *testing.T) {
	opts := smallChunkOptions()
	token := []byte("{6F9619FF-8B86-D011-B42D-00C04FC964FF}")

	// Slide the pattern across the first refill boundary; each placement
	// must be reported exactly once at its true offset.
	for delta := -len(token) - 5; delta <= 5; delta++ {
		pos := opts.ChunkSize + delta
		data := bytes.Repeat([]byte{'.'}, opts.ChunkSize*3)
		copy(data[pos:], token)

		matches, _, _ := runReader(t, data, opts)
		require.Len(t, matches, 1, "delta %d", delta)
		assert.Equal(t, int64(pos), matches[0].Offset, "delta %d", delta)
	}
}

func TestScanReader_PatternNearEndOfOddSizedFile(t *testing.T) {
	opts := smallChunkOptions()
	token := []byte("{6F9619FF-8B86-D011-B42D-00C04FC964FF}")

	// Pattern starts ten bytes before the chunk boundary and the file ends
	// in a short final chunk: the first pass lacks lookahead and must
	// defer, then complete the match against the overlap.
	pos := opts.ChunkSize - 10
	data := bytes.Repeat([]byte{'.'}, pos+len(token)+1)
	copy(data[pos:], token)

	matches, _, _ := runReader(t, data, opts)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(pos), matches[0].Offset)
}

// cleanBinaryGUID has exactly one byte with the 10 variant marker (the
// tail's first byte), so adjacent copies and zero filler cannot produce
// accidental window acceptances.
func cleanBinaryGUID() guid.GUID {
	return guid.GUID{
		Data1: 0x11111111,
		Data2: 0x2222,
		Data3: 0x4333,
		Data4: [8]byte{0x84, 1, 2, 3, 4, 5, 6, 7},
	}
}

func TestScanReader_BinaryWindowAcrossBoundary(t *testing.T) {
	opts := smallChunkOptions()
	opts.Text = false
	opts.Binary = true

	want := cleanBinaryGUID()
	raw := want.Bytes()

	pos := opts.ChunkSize - guid.Size/2 // straddles the refill
	data := make([]byte, opts.ChunkSize*2)
	copy(data[pos:], raw[:])

	matches, _, _ := runReader(t, data, opts)
	require.Len(t, matches, 1)
	assert.Equal(t, want, matches[0].ID)
	assert.Equal(t, KindBinaryLoose, matches[0].Kind)
	assert.Equal(t, int64(pos), matches[0].Offset)
}

func TestScanReader_BinarySlidesByOneAfterMatch(t *testing.T) {
	opts := DefaultOptions()
	opts.Text = false
	opts.Binary = true

	raw := cleanBinaryGUID().Bytes()

	// Two adjacent copies: every window starting inside the first match is
	// still attempted, and both copies are reported.
	data := append(raw[:], raw[:]...)
	matches, _, _ := runReader(t, data, opts)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(0), matches[0].Offset)
	assert.Equal(t, int64(guid.Size), matches[1].Offset)
}

func TestScanReader_BinaryReportsOverlappingWindows(t *testing.T) {
	opts := DefaultOptions()
	opts.Text = false
	opts.Binary = true

	// Every byte carries the variant marker, so every full window
	// qualifies under the loose tier.
	data := bytes.Repeat([]byte{0x88}, guid.Size+2)
	matches, _, _ := runReader(t, data, opts)

	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, int64(i), m.Offset)
	}
}

func TestScanReader_DigestStableAcrossGeometry(t *testing.T) {
	data := bytes.Repeat([]byte("6F9619FF-8B86-D011-B42D-00C04FC964FF\n"), 100)

	a := smallChunkOptions()
	b := smallChunkOptions()
	b.ChunkSize = 1024

	matchesA, _, digestA := runReader(t, data, a)
	matchesB, _, digestB := runReader(t, data, b)
	assert.Equal(t, digestA, digestB, "digest depends on content only, not chunking")
	assert.Equal(t, len(matchesA), len(matchesB), "match count depends on content only, not chunking")
}

func TestScanReader_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := scanReader(ctx, bytes.NewReader(make([]byte, 1024)), "test-input",
		DefaultOptions().withDefaults(), func(Match) {})
	assert.ErrorIs(t, err, context.Canceled)
}
