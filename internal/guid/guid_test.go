package guid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Braced(t *testing.T) {
	g, err := Parse("{6F9619FF-8B86-D011-B42D-00C04FC964FF}")
	require.NoError(t, err)

	assert.Equal(t, uint32(0x6F9619FF), g.Data1)
	assert.Equal(t, uint16(0x8B86), g.Data2)
	assert.Equal(t, uint16(0xD011), g.Data3)
	assert.Equal(t, [8]byte{0xB4, 0x2D, 0x00, 0xC0, 0x4F, 0xC9, 0x64, 0xFF}, g.Data4)
}

func TestParse_Dashed(t *testing.T) {
	g, err := Parse("6f9619ff-8b86-d011-b42d-00c04fc964ff")
	require.NoError(t, err)
	assert.Equal(t, "6F9619FF-8B86-D011-B42D-00C04FC964FF", g.String())
}

func TestParse_BareHex(t *testing.T) {
	g, err := Parse("6F9619FF8B86D011B42D00C04FC964FF")
	require.NoError(t, err)
	assert.Equal(t, "{6F9619FF-8B86-D011-B42D-00C04FC964FF}", g.Braced())
}

func TestParse_Rejects(t *testing.T) {
	cases := []string{
		"",
		"6F9619FF-8B86-D011-B42D-00C04FC964F",    // 35 chars
		"6F9619FF-8B86-D011-B42D-00C04FC964FFF",  // 37 chars
		"{6F9619FF-8B86-D011-B42D-00C04FC964FF",  // missing close brace
		"6F9619FF-8B86-D011-B42D-00C04FC964FF}",  // stray close brace
		"6F9619FF_8B86_D011_B42D_00C04FC964FF",   // wrong separators
		"6F9619FG-8B86-D011-B42D-00C04FC964FF",   // non-hex digit
		"6F9619FF8B86D011B42D00C04FC964FG",       // non-hex in bare form
		"{6F9619FF-8B86-D011-B42D-00C04FC964FX}", // non-hex in braced form
	}
	for _, s := range cases {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParse_RoundTripsUUIDs(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := uuid.NewString()
		g, err := Parse(s)
		require.NoError(t, err)

		back, err := Parse(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, back)

		back, err = Parse(g.Braced())
		require.NoError(t, err)
		assert.Equal(t, g, back)
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	g := MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.Equal(t, g, FromBytes(g.Bytes()))

	// The tail is stored verbatim regardless of byte order.
	b := g.Bytes()
	assert.Equal(t, g.Data4[:], b[8:])
}

func TestVariantVersion(t *testing.T) {
	// uuid.New produces RFC 4122 version-4 values.
	g := MustParse(uuid.NewString())
	assert.Equal(t, VariantRFC4122, g.Variant())
	assert.Equal(t, 4, g.Version())

	var zero GUID
	assert.True(t, zero.IsZero())
	assert.Equal(t, VariantNCS, zero.Variant())
	assert.Equal(t, 0, zero.Version())
}

func TestTextMarshaling(t *testing.T) {
	g := MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")

	text, err := g.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "6F9619FF-8B86-D011-B42D-00C04FC964FF", string(text))

	var back GUID
	require.NoError(t, back.UnmarshalText([]byte("{6f9619ff-8b86-d011-b42d-00c04fc964ff}")))
	assert.Equal(t, g, back)

	assert.Error(t, back.UnmarshalText([]byte("nope")))
}

func TestStructForm(t *testing.T) {
	g := MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.Equal(t,
		"{0x6F9619FF, 0x8B86, 0xD011, {0xB4,0x2D,0x00,0xC0,0x4F,0xC9,0x64,0xFF}}",
		g.StructForm())
}
