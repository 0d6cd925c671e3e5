package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidscan/guidscan/internal/guid"
	"github.com/guidscan/guidscan/internal/testutil"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(filepath.Join(t.TempDir(), "catalog.db"), testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func TestCatalog_PutAndLookup(t *testing.T) {
	cat := openTestCatalog(t)
	g := guid.MustParse("{6F9619FF-8B86-D011-B42D-00C04FC964FF}")

	require.NoError(t, cat.Put(CategoryCLSID, g, Record{Name: "SQLOLEDB", Server: "sqloledb.dll"}))
	require.NoError(t, cat.Put(CategoryAppID, g, Record{Name: "SQLOLEDB AppID"}))

	entries, err := cat.Lookup(g)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Categories come back in fixed lookup order.
	assert.Equal(t, CategoryCLSID, entries[0].Category)
	assert.Equal(t, "SQLOLEDB", entries[0].Record.Name)
	assert.Equal(t, "sqloledb.dll", entries[0].Record.Server)
	assert.Equal(t, CategoryAppID, entries[1].Category)
}

func TestCatalog_LookupMiss(t *testing.T) {
	cat := openTestCatalog(t)

	entries, err := cat.Lookup(guid.MustParse("11111111-2222-3333-4444-555555555555"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCatalog_PutReplaces(t *testing.T) {
	cat := openTestCatalog(t)
	g := guid.MustParse("11111111-2222-3333-4444-555555555555")

	require.NoError(t, cat.Put(CategoryInterface, g, Record{Name: "old"}))
	require.NoError(t, cat.Put(CategoryInterface, g, Record{Name: "new"}))

	entries, err := cat.Lookup(g)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Record.Name)
}

func TestCatalog_EnumWithLimit(t *testing.T) {
	cat := openTestCatalog(t)

	for i := 0; i < 5; i++ {
		g := guid.GUID{Data1: uint32(i + 1), Data4: [8]byte{0x80}}
		require.NoError(t, cat.Put(CategoryTypeLib, g, Record{Name: "lib"}))
	}

	all, err := cat.Enum(CategoryTypeLib, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	limited, err := cat.Enum(CategoryTypeLib, 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	empty, err := cat.Enum(CategoryCLSID, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("registry")
	assert.Error(t, err)
}

const snapshotYAML = `
clsid:
  "{6F9619FF-8B86-D011-B42D-00C04FC964FF}":
    name: SQLOLEDB
    server: sqloledb.dll
    progid: SQLOLEDB.1
interface:
  "00000000-0000-0000-C000-000000000046":
    name: IUnknown
`

func TestCatalog_ImportSnapshot(t *testing.T) {
	cat := openTestCatalog(t)

	n, err := cat.Import(strings.NewReader(snapshotYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := cat.Lookup(guid.MustParse("{6F9619FF-8B86-D011-B42D-00C04FC964FF}"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SQLOLEDB", entries[0].Record.Name)
	assert.Equal(t, "SQLOLEDB.1", entries[0].Record.ProgID)

	// Dashed keys are canonicalized to the braced form on storage.
	iface, err := cat.Enum(CategoryInterface, 0)
	require.NoError(t, err)
	require.Len(t, iface, 1)
	assert.Equal(t, "IUnknown", iface[0].Record.Name)
}

func TestCatalog_ImportIsTransactional(t *testing.T) {
	cat := openTestCatalog(t)

	bad := `
clsid:
  "{6F9619FF-8B86-D011-B42D-00C04FC964FF}":
    name: kept-only-if-commit
  "not-an-identifier":
    name: broken
`
	_, err := cat.Import(strings.NewReader(bad))
	require.Error(t, err)

	// The well-formed record was not committed either.
	entries, err := cat.Enum(CategoryCLSID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCatalog_ImportRejectsUnknownCategory(t *testing.T) {
	cat := openTestCatalog(t)

	_, err := cat.Import(strings.NewReader("registry:\n  \"{6F9619FF-8B86-D011-B42D-00C04FC964FF}\":\n    name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}
