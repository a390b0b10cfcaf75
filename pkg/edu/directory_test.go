package edu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDirectory_Lookup(t *testing.T) {
	dir, err := NewDefaultDirectory()
	require.NoError(t, err)
	assert.Greater(t, dir.Len(), 0)

	school, ok := dir.Lookup("mit.edu")
	require.True(t, ok)
	assert.Equal(t, "mit", school.ID)
	assert.Equal(t, "Massachusetts Institute of Technology", FormatSchoolName(school.Name))

	school, ok = dir.Lookup("CS.MIT.EDU")
	require.True(t, ok)
	assert.Equal(t, "mit", school.ID)

	_, ok = dir.Lookup("random.edu")
	assert.False(t, ok)

	_, ok = dir.Lookup("")
	assert.False(t, ok)
}

func TestParseDirectory_RejectsDuplicateDomain(t *testing.T) {
	data := []byte(`
schools:
  - id: a
    name: A
    domains: [a.edu]
  - id: b
    name: B
    domains: [A.edu]
`)

	_, err := ParseDirectory(data)
	assert.Error(t, err)
}

func TestParseDirectory_RejectsMissingID(t *testing.T) {
	_, err := ParseDirectory([]byte("schools:\n  - name: Nameless\n    domains: [x.edu]\n"))
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schools:\n  - id: rice\n    name: Rice University\n    domains: [rice.edu]\n"), 0o600))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Len())
	assert.ElementsMatch(t, []string{"rice.edu"}, dir.KnownDomains())

	_, err = LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNilDirectory(t *testing.T) {
	var dir *Directory

	_, ok := dir.Lookup("mit.edu")
	assert.False(t, ok)
	assert.Equal(t, 0, dir.Len())
}
