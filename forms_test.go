package edgar

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFormsCatalog(t *testing.T) {
	catalog := LoadFormsCatalog(discardLogger())
	require.NotEmpty(t, catalog)

	desc, ok := catalog.Lookup("10-K")
	require.True(t, ok)
	assert.Equal(t, "Annual report pursuant to Section 13 or 15(d)", desc)

	// Quoted field with a comma
	desc, ok = catalog.Lookup("8-K")
	require.True(t, ok)
	assert.Equal(t, "Current report, items 1 through 9", desc)

	// File order is preserved
	assert.Equal(t, "1-A", catalog[0].Code)

	_, ok = catalog.Lookup("NONEXISTENT-FORM")
	assert.False(t, ok)
}

func TestLoadFormsCatalogFile(t *testing.T) {
	// The bundled table on disk matches the embedded copy
	fromDisk := LoadFormsCatalogFile(FormsCatalogPath, discardLogger())
	assert.Equal(t, LoadFormsCatalog(discardLogger()), fromDisk)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	missing := LoadFormsCatalogFile(filepath.Join(t.TempDir(), "nope.csv"), logger)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
	assert.Contains(t, logs.String(), "error reading the forms catalog")
}

func TestParseFormsCatalog(t *testing.T) {
	catalog, err := ParseFormsCatalog(strings.NewReader("Form,Description\n10-Q, Quarterly report\nS-1,Registration\n"))
	require.NoError(t, err)
	assert.Equal(t, FormsCatalog{
		{Code: "10-Q", Description: "Quarterly report"},
		{Code: "S-1", Description: "Registration"},
	}, catalog)

	_, err = ParseFormsCatalog(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseFormsCatalog(strings.NewReader("Form\n10-K\n"))
	assert.Error(t, err)

	// Ragged rows are a parse failure
	_, err = ParseFormsCatalog(strings.NewReader("Form,Description\n10-K\n"))
	assert.Error(t, err)
}

func TestLoadFormsCatalogFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sec_forms.csv")
	require.NoError(t, os.WriteFile(path, []byte("Form,Description\n\"unterminated,x\n"), 0644))

	catalog := LoadFormsCatalogFile(path, discardLogger())
	assert.Empty(t, catalog)
}
