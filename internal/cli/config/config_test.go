package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash", input: " https://shop.example.com/ ", want: "https://shop.example.com"},
		{name: "path kept", input: "https://example.com/api/", want: "https://example.com/api"},
		{name: "missing scheme", input: "localhost:8080", wantErr: true},
		{name: "ftp", input: "ftp://example.com", wantErr: true},
		{name: "no host", input: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Servers: []Server{
		{URL: "http://a.test", Alias: "a"},
		{URL: "http://b.test", Alias: "a"},
	}}
	require.Error(t, cfg.Validate())

	cfg.Servers[1].Alias = "b"
	require.NoError(t, cfg.Validate())

	cfg.Servers[1].URL = "b.test"
	require.Error(t, cfg.Validate())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, Save(path, DefaultConfig()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, ConfigFileName), DefaultConfig()))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, resolve(t, filepath.Join(root, ConfigFileName)), resolve(t, path))

	cfg, err := LoadFromCurrentDir()
	require.NoError(t, err)
	assert.Len(t, cfg.Servers, 1)
}

func TestFindConfigFile_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := FindConfigFile()
	require.Error(t, err)
}

func TestGetServerByURLOrAlias(t *testing.T) {
	cfg := &Config{Servers: []Server{
		{URL: "http://a.test", Alias: "staging"},
		{URL: "http://b.test", Alias: "prod"},
	}}

	s, err := cfg.GetServerByURLOrAlias("http://b.test/")
	require.NoError(t, err)
	assert.Equal(t, "prod", s.Alias)

	s, err = cfg.GetServerByURLOrAlias("staging")
	require.NoError(t, err)
	assert.Equal(t, "http://a.test", s.URL)

	_, err = cfg.GetServerByURLOrAlias("dev")
	require.Error(t, err)

	_, err = cfg.GetServerByAlias("prod")
	require.NoError(t, err)

	_, err = (&Config{}).GetDefaultServer()
	require.Error(t, err)
}

// resolve follows symlinks so temp dirs compare equal on macOS
func resolve(t *testing.T, path string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(filepath.Dir(path))
	require.NoError(t, err)
	return filepath.Join(dir, filepath.Base(path))
}
