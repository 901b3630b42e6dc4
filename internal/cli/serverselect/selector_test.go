package serverselect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/userconfig"
)

func twoServers() *config.Config {
	return &config.Config{Servers: []config.Server{
		{URL: "http://staging.test", Alias: "staging"},
		{URL: "http://prod.test", Alias: "prod"},
	}}
}

func TestResolveServer_ExplicitAlias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server, err := ResolveServer(twoServers(), "prod", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "http://prod.test", server.URL)

	_, err = ResolveServer(twoServers(), "dev", &bytes.Buffer{})
	require.Error(t, err)
}

func TestResolveServer_UsesSelection(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("http://staging.test"))

	server, err := ResolveServer(twoServers(), "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "staging", server.Alias)
}

func TestResolveServer_SingleServerIsRemembered(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("http://gone.test"))

	cfg := &config.Config{Servers: []config.Server{{URL: "http://only.test", Alias: "only"}}}
	server, err := ResolveServer(cfg, "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "only", server.Alias)

	selected, err := userconfig.GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://only.test", selected)
}

func TestPromptServerSelection_Empty(t *testing.T) {
	_, err := PromptServerSelection(&config.Config{})
	require.Error(t, err)
}
