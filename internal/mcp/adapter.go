package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolCapability adapts one MCP tool to the plain-text capability contract.
// The directive argument becomes the tool's input: a JSON object argument is
// passed through as-is, anything else is wrapped under the tool's single
// input property (or "input" when the schema doesn't pin one down).
type toolCapability struct {
	client   *Client
	tool     *mcp.Tool
	name     string // namespaced and normalized, e.g. "files_read_file"
	argField string
}

func newToolCapability(client *Client, tool *mcp.Tool) *toolCapability {
	return &toolCapability{
		client:   client,
		tool:     tool,
		name:     normalizeName(client.Name() + "_" + tool.Name),
		argField: singleInputProperty(tool.InputSchema),
	}
}

// normalizeName maps an MCP tool name onto the directive grammar ([a-z_]+).
func normalizeName(name string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(name) {
		if ch >= 'a' && ch <= 'z' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// singleInputProperty returns the schema's only property name, or "input"
// when the schema is missing or has several properties.
func singleInputProperty(schema any) string {
	if schema == nil {
		return "input"
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return "input"
	}

	var parsed struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Properties) != 1 {
		return "input"
	}

	for name := range parsed.Properties {
		return name
	}
	return "input"
}

func (t *toolCapability) Name() string {
	return t.name
}

func (t *toolCapability) Description() string {
	desc := t.tool.Description
	if desc == "" {
		desc = fmt.Sprintf("Tool provided by the %s MCP server", t.client.Name())
	}
	return desc
}

func (t *toolCapability) Example() string {
	return fmt.Sprintf("%s: <%s>", t.name, t.argField)
}

// Execute calls the MCP server. All faults are converted into failure
// strings at this boundary.
func (t *toolCapability) Execute(ctx context.Context, argument string) string {
	args := t.buildArguments(argument)

	result, err := t.client.CallTool(ctx, t.tool.Name, args)
	if err != nil {
		return fmt.Sprintf("%s failed: %v", t.name, err)
	}

	if result.IsError {
		detail := formatContent(result.Content)
		if detail == "" {
			detail = "tool returned an error"
		}
		return fmt.Sprintf("%s failed: %s", t.name, detail)
	}

	return formatContent(result.Content)
}

func (t *toolCapability) buildArguments(argument string) map[string]any {
	trimmed := strings.TrimSpace(argument)
	if strings.HasPrefix(trimmed, "{") {
		var args map[string]any
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return args
		}
	}

	return map[string]any{t.argField: argument}
}

// formatContent flattens an MCP content array into observation text.
func formatContent(content []mcp.Content) string {
	var parts []string

	for _, item := range content {
		switch c := item.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)

		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s]", c.MIMEType))

		case *mcp.AudioContent:
			parts = append(parts, fmt.Sprintf("[Audio: %s]", c.MIMEType))

		default:
			data, err := json.Marshal(item)
			if err != nil {
				parts = append(parts, fmt.Sprintf("[Unknown content type: %T]", item))
			} else {
				parts = append(parts, string(data))
			}
		}
	}

	return strings.Join(parts, "\n")
}
