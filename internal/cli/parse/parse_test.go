package parse

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runParse(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewParseCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestParseCmd_Table(t *testing.T) {
	out, err := runParse(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	require.NoError(t, err)

	assert.Contains(t, out, "{6F9619FF-8B86-D011-B42D-00C04FC964FF}")
	assert.Contains(t, out, "6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.Contains(t, out, "{0x6F9619FF, 0x8B86, 0xD011,")
	assert.Contains(t, out, "variant : 1")
	assert.Contains(t, out, "version : 13")
}

func TestParseCmd_JSON(t *testing.T) {
	out, err := runParse(t, "{6F9619FF-8B86-D011-B42D-00C04FC964FF}", "--format", "json")
	require.NoError(t, err)

	var got forms
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "6F9619FF-8B86-D011-B42D-00C04FC964FF", got.Dashed)
	assert.Equal(t, "{6F9619FF-8B86-D011-B42D-00C04FC964FF}", got.Braced)
	assert.Equal(t, 1, got.Variant)
}

func TestParseCmd_RejectsMalformed(t *testing.T) {
	_, err := runParse(t, "{6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.Error(t, err)
}

func TestParseCmd_RejectsUnknownFormat(t *testing.T) {
	_, err := runParse(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", "--format", "csv")
	assert.Error(t, err)
}
