package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, 10*time.Second, cfg.Search.HTTPTimeout())
	assert.Equal(t, "b_algo", cfg.Search.Selectors.Result)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reagent.yaml")

	data := `
max_iterations: 3
llm:
  model: gpt-4o-mini
search:
  endpoint: https://search.example.com/q
  timeout_seconds: 5
  selectors:
    result: result-block
    heading: h3
    caption: result-caption
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxIterations)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://search.example.com/q", cfg.Search.Endpoint)
	assert.Equal(t, "h3", cfg.Search.Selectors.Heading)
	// Untouched fields keep their defaults.
	assert.Equal(t, float32(0.7), cfg.LLM.Temperature)
}

func TestLoadReplacesSearchParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reagent.yaml")

	data := `
search:
  params:
    cc: CN
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// User-supplied params replace the defaults; no leftover form/rdr/lq.
	assert.Equal(t, map[string]string{"cc": "CN"}, cfg.Search.Params)
	// Fields absent from the file still keep their defaults.
	assert.Equal(t, "https://www.bing.com/search", cfg.Search.Endpoint)
	assert.Equal(t, "b_algo", cfg.Search.Selectors.Result)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reagent.yaml")

	require.NoError(t, os.WriteFile(path, []byte("max_iterations: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Search.Endpoint = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadMCPServerName(t *testing.T) {
	cfg := Default()
	cfg.MCP.Servers = []MCPServerConfig{{Name: "Files", Command: "mcp-files"}}
	assert.Error(t, cfg.Validate())

	cfg.MCP.Servers = []MCPServerConfig{{Name: "files", Command: "mcp-files"}}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsDuplicateMCPServers(t *testing.T) {
	cfg := Default()
	cfg.MCP.Servers = []MCPServerConfig{
		{Name: "files", Command: "a"},
		{Name: "files", Command: "b"},
	}
	assert.Error(t, cfg.Validate())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("REAGENT_TEST_TOKEN", "tok123")

	assert.Equal(t, "Bearer tok123", ExpandEnv("Bearer ${REAGENT_TEST_TOKEN}"))
	assert.Equal(t, "tok123", ExpandEnv("$REAGENT_TEST_TOKEN"))
	assert.Equal(t, "", ExpandEnv("${REAGENT_TEST_UNSET_VAR}"))
}

func TestExpandEnvMap(t *testing.T) {
	t.Setenv("REAGENT_TEST_TOKEN", "tok123")

	m := ExpandEnvMap(map[string]string{"auth": "${REAGENT_TEST_TOKEN}", "plain": "x"})
	assert.Equal(t, map[string]string{"auth": "tok123", "plain": "x"}, m)

	assert.Nil(t, ExpandEnvMap(nil))
}
