package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "files_read_file", normalizeName("files_read-file"))
	assert.Equal(t, "web_fetch", normalizeName("Web_Fetch"))
	assert.Equal(t, "srv_tool_", normalizeName("srv_tool2"))
}

func TestSingleInputProperty(t *testing.T) {
	assert.Equal(t, "input", singleInputProperty(nil))

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
	}
	assert.Equal(t, "query", singleInputProperty(schema))

	multi := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "string"},
		},
	}
	assert.Equal(t, "input", singleInputProperty(multi))
}

func TestBuildArguments(t *testing.T) {
	tc := &toolCapability{argField: "query"}

	assert.Equal(t, map[string]any{"query": "plain text"}, tc.buildArguments("plain text"))
	assert.Equal(t, map[string]any{"path": "/tmp"}, tc.buildArguments(`{"path": "/tmp"}`))
	// Broken JSON falls back to plain-text wrapping.
	assert.Equal(t, map[string]any{"query": "{not json"}, tc.buildArguments("{not json"))
}
