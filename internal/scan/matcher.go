package scan

import (
	"github.com/guidscan/guidscan/internal/guid"
)

// matchText attempts a textual identifier at the start of p: braced
// (38 bytes) or unbraced (36 bytes) 8-4-4-4-12 hex. It returns the
// decoded identifier and the number of bytes consumed. A `{` that is not
// closed at byte 37 falls through to the unbraced attempt, which then
// fails on the brace itself; there is no partial acceptance.
func matchText(p []byte) (guid.GUID, int, bool) {
	if len(p) >= guid.BracedLen && p[0] == '{' && p[37] == '}' {
		if g, ok := guid.DecodeDashed(p[1:37]); ok {
			return g, guid.BracedLen, true
		}
		return guid.GUID{}, 0, false
	}
	if len(p) >= guid.DashedLen {
		if g, ok := guid.DecodeDashed(p); ok {
			return g, guid.DashedLen, true
		}
	}
	return guid.GUID{}, 0, false
}

// textCandidate is the cheap prefilter applied before matchText: a match
// can only start on an opening brace or a hex digit.
func textCandidate(c byte) bool {
	return c == '{' || guid.IsHexDigit(c)
}

// matchBinary interprets the first 16 bytes of p as the raw memory layout
// of an identifier and applies the structural plausibility checks.
//
// Loose tier: the tail's first byte carries the 10 variant marker.
// Strict tier: additionally the version nibble lies in [1, 5].
// Strict accepts a subset of what loose accepts.
func matchBinary(p []byte, strict bool) (guid.GUID, bool) {
	if len(p) < guid.Size {
		return guid.GUID{}, false
	}
	var b [guid.Size]byte
	copy(b[:], p)
	g := guid.FromBytes(b)

	if g.Variant() != guid.VariantRFC4122 {
		return guid.GUID{}, false
	}
	if strict {
		if v := g.Version(); v < 1 || v > 5 {
			return guid.GUID{}, false
		}
	}
	return g, true
}
