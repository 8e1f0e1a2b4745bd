package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yml", `
verbose: true
format: json
duplicates:
  recursive: false
  min_size: 1K
  extensions: [".jpg", ".png"]
  ai: true
organize:
  mode: date
  execute: true
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.True(t, f.Verbose)
	assert.Equal(t, "json", f.Format)
	require.NotNil(t, f.Duplicates.Recursive)
	assert.False(t, *f.Duplicates.Recursive)
	assert.Equal(t, "1K", f.Duplicates.MinSize)
	assert.Equal(t, []string{".jpg", ".png"}, f.Duplicates.Extensions)
	require.NotNil(t, f.Duplicates.AI)
	assert.True(t, *f.Duplicates.AI)
	assert.Equal(t, "date", f.Organize.Mode)
	require.NotNil(t, f.Organize.Execute)
	assert.True(t, *f.Organize.Execute)
}

func TestLoadAbsentFieldsStayNil(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yml", "verbose: false\n")

	f, err := Load(path)
	require.NoError(t, err)

	assert.Nil(t, f.Duplicates.Recursive, "absent bool must stay nil, not become false")
	assert.Nil(t, f.Rename.Execute)
	assert.Empty(t, f.Duplicates.Extensions)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yml", "format: xml\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yml", "вербос: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindPrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yml", "")

	assert.Equal(t, path, Find(dir))
}

func TestFindYamlExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".simpletools.yaml", "")

	assert.Equal(t, path, Find(dir))
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	f, err := LoadDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &File{}, f)
}
