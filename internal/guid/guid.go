// Package guid implements the 128-bit structured identifier value type:
// parsing of the common textual forms, canonical rendering, and the raw
// in-memory layout used by binary scanning.
package guid

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// GUID is a 128-bit structured identifier split into the conventional
// 32/16/16-bit fields plus an 8-byte tail. It has value semantics and
// compares by exact byte equality.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Size is the raw in-memory size of a GUID in bytes.
const Size = 16

// Textual lengths of the canonical 8-4-4-4-12 form.
const (
	DashedLen = 36
	BracedLen = 38
)

// Variant constants returned by Variant.
const (
	VariantNCS       = 0 // top bit 0
	VariantRFC4122   = 1 // top bits 10
	VariantMicrosoft = 2 // top bits 110
	VariantFuture    = 3 // top bits 111
)

// Parse accepts the three common textual forms:
//
//	{6F9619FF-8B86-D011-B42D-00C04FC964FF}  braced, 38 chars
//	6F9619FF-8B86-D011-B42D-00C04FC964FF    dashed, 36 chars
//	6F9619FF8B86D011B42D00C04FC964FF        bare, 32 hex chars
//
// Hex digits may be upper or lower case.
func Parse(s string) (GUID, error) {
	switch len(s) {
	case BracedLen:
		if s[0] != '{' || s[37] != '}' {
			return GUID{}, fmt.Errorf("guid: malformed braced form %q", s)
		}
		g, ok := DecodeDashed([]byte(s[1:37]))
		if !ok {
			return GUID{}, fmt.Errorf("guid: malformed braced form %q", s)
		}
		return g, nil
	case DashedLen:
		g, ok := DecodeDashed([]byte(s))
		if !ok {
			return GUID{}, fmt.Errorf("guid: malformed dashed form %q", s)
		}
		return g, nil
	case 32:
		var b strings.Builder
		b.Grow(DashedLen)
		for i, c := range []byte(s) {
			if hexVal(c) < 0 {
				return GUID{}, fmt.Errorf("guid: malformed hex form %q", s)
			}
			if i == 8 || i == 12 || i == 16 || i == 20 {
				b.WriteByte('-')
			}
			b.WriteByte(c)
		}
		g, ok := DecodeDashed([]byte(b.String()))
		if !ok {
			return GUID{}, fmt.Errorf("guid: malformed hex form %q", s)
		}
		return g, nil
	default:
		return GUID{}, fmt.Errorf("guid: unrecognized form %q", s)
	}
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// DecodeDashed decodes exactly 36 bytes of 8-4-4-4-12 hex at the start of
// p. Any non-hex, non-dash byte rejects the whole candidate; there is no
// partial acceptance. The scanner calls this on raw byte windows.
func DecodeDashed(p []byte) (GUID, bool) {
	if len(p) < DashedLen {
		return GUID{}, false
	}
	for i := 0; i < DashedLen; i++ {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if p[i] != '-' {
				return GUID{}, false
			}
			continue
		}
		if hexVal(p[i]) < 0 {
			return GUID{}, false
		}
	}

	var g GUID
	g.Data1 = uint32(hexN(p[0:8]))
	g.Data2 = uint16(hexN(p[9:13]))
	g.Data3 = uint16(hexN(p[14:18]))

	// Groups four and five concatenate into the tail, one byte per hex pair.
	d4 := uint16(hexN(p[19:23]))
	g.Data4[0] = byte(d4 >> 8)
	g.Data4[1] = byte(d4)
	for i := 0; i < 6; i++ {
		hi := hexVal(p[24+i*2])
		lo := hexVal(p[24+i*2+1])
		g.Data4[2+i] = byte(hi<<4 | lo)
	}
	return g, true
}

// hexN folds validated hex digits into an integer, big-endian per group.
func hexN(p []byte) uint64 {
	var v uint64
	for _, c := range p {
		v = v<<4 | uint64(hexVal(c))
	}
	return v
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// IsHexDigit reports whether c can appear in the body of a textual GUID.
func IsHexDigit(c byte) bool {
	return hexVal(c) >= 0
}

// String renders the dashed uppercase 8-4-4-4-12 form.
func (g GUID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1],
		g.Data4[2], g.Data4[3], g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// Braced renders the brace-enclosed canonical form.
func (g GUID) Braced() string {
	return "{" + g.String() + "}"
}

// StructForm renders a C-style struct initializer, matching the layout the
// identifier is declared with in component IDLs.
func (g GUID) StructForm() string {
	return fmt.Sprintf("{0x%08X, 0x%04X, 0x%04X, {0x%02X,0x%02X,0x%02X,0x%02X,0x%02X,0x%02X,0x%02X,0x%02X}}",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// ByteForm renders the raw memory layout as a comma-separated byte list.
func (g GUID) ByteForm() string {
	b := g.Bytes()
	parts := make([]string, Size)
	for i, c := range b {
		parts[i] = fmt.Sprintf("0x%02X", c)
	}
	return strings.Join(parts, ",")
}

// Bytes returns the raw in-memory layout: the first three fields in native
// byte order, the tail verbatim.
func (g GUID) Bytes() [Size]byte {
	var b [Size]byte
	binary.NativeEndian.PutUint32(b[0:4], g.Data1)
	binary.NativeEndian.PutUint16(b[4:6], g.Data2)
	binary.NativeEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// FromBytes decodes the raw in-memory layout produced by Bytes.
func FromBytes(b [Size]byte) GUID {
	var g GUID
	g.Data1 = binary.NativeEndian.Uint32(b[0:4])
	g.Data2 = binary.NativeEndian.Uint16(b[4:6])
	g.Data3 = binary.NativeEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:])
	return g
}

// Variant classifies the tail marker bits (the top bits of Data4[0]).
func (g GUID) Variant() int {
	b := g.Data4[0]
	switch {
	case b&0x80 == 0:
		return VariantNCS
	case b&0xC0 == 0x80:
		return VariantRFC4122
	case b&0xE0 == 0xC0:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// Version returns the version nibble (the high nibble of Data3).
func (g GUID) Version() int {
	return int(g.Data3 >> 12)
}

// IsZero reports whether g is the all-zero identifier.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// MarshalText renders the dashed form; with UnmarshalText it makes GUIDs
// usable as JSON and YAML values.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText parses any of the forms accepted by Parse.
func (g *GUID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
