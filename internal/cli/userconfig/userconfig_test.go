package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedServer_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STOREFRONT_CONFIG_DIR", "")

	selected, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Empty(t, selected)

	require.NoError(t, SetSelectedServer("http://localhost:8080"))

	selected, err = GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", selected)

	_, err = os.Stat(filepath.Join(home, ".config", "storefront", "config.json"))
	require.NoError(t, err)
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOREFRONT_CONFIG_DIR", dir)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)
}

func TestLastEmail_PerServer(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG_DIR", t.TempDir())

	require.NoError(t, RememberEmail("http://a.test/", "ana@example.com"))
	require.NoError(t, RememberEmail("http://b.test", "bo@example.com"))
	require.NoError(t, SetSelectedServer("http://a.test"))

	email, err := LastEmail("http://a.test")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email, "trailing slash is ignored")

	email, err = LastEmail("http://b.test")
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", email)

	email, err = LastEmail("http://c.test")
	require.NoError(t, err)
	assert.Empty(t, email)

	selected, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://a.test", selected, "remembering emails keeps the selection")
}

func TestLoad_CorruptFile(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG_DIR", t.TempDir())

	path, err := GetConfigPath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err = Load()
	require.Error(t, err)
}
