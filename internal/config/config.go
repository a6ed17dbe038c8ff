package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete reagent configuration. It is loaded once at
// startup and shared read-only with every component of a run.
type Config struct {
	MaxIterations int          `yaml:"max_iterations"`
	LLM           LLMConfig    `yaml:"llm"`
	Search        SearchConfig `yaml:"search"`
	MCP           MCPConfig    `yaml:"mcp"`
}

// LLMConfig configures the completion source.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig configures the search capability: where to send queries,
// which fixed parameters to attach, and which markup structure to read
// results out of. Selectors are configuration rather than code because the
// backend's markup changes independently of the loop logic.
type SearchConfig struct {
	Endpoint       string            `yaml:"endpoint"`
	Params         map[string]string `yaml:"params"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Selectors      SelectorConfig    `yaml:"selectors"`
}

// SelectorConfig names the structural pattern of a search result page:
// a container class per result block, a heading tag inside it, and a
// caption class whose first paragraph holds the snippet.
type SelectorConfig struct {
	Result  string `yaml:"result"`
	Heading string `yaml:"heading"`
	Caption string `yaml:"caption"`
}

// UnmarshalYAML fills the struct over its current (default) values, except
// that a params mapping in the document replaces the default parameters
// outright — otherwise defaults like "form" could never be removed.
func (s *SearchConfig) UnmarshalYAML(value *yaml.Node) error {
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "params" {
			s.Params = nil
			break
		}
	}

	type rawSearchConfig SearchConfig
	return value.Decode((*rawSearchConfig)(s))
}

// MCPConfig lists external MCP servers whose tools are registered as
// additional capabilities at startup.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig defines a single stdio MCP server.
type MCPServerConfig struct {
	Name     string            `yaml:"name"`
	Command  string            `yaml:"command"`
	Args     []string          `yaml:"args"`
	Env      map[string]string `yaml:"env"`
	Disabled bool              `yaml:"disabled"`
}

// Default returns the built-in configuration used when no file is found.
func Default() *Config {
	return &Config{
		MaxIterations: 10,
		LLM: LLMConfig{
			Model:       "gpt-4-turbo",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Search: SearchConfig{
			Endpoint: "https://www.bing.com/search",
			Params: map[string]string{
				"form": "QBRE",
				"rdr":  "1",
				"lq":   "0",
			},
			TimeoutSeconds: 10,
			Selectors: SelectorConfig{
				Result:  "b_algo",
				Heading: "h2",
				Caption: "b_caption",
			},
		},
	}
}

// Load reads and parses a YAML config file. Missing fields fall back to
// the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads config with fallback to default locations.
// Checks: ./reagent.yaml, ./configs/reagent.yaml,
// ~/.config/reagent/reagent.yaml, /etc/reagent/reagent.yaml.
func LoadWithDefaults() (*Config, error) {
	locations := []string{
		"./reagent.yaml",
		"./configs/reagent.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "reagent", "reagent.yaml"))
	}

	locations = append(locations, "/etc/reagent/reagent.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	// No config found - run on defaults (not an error)
	return Default(), nil
}

// HTTPTimeout returns the search transport timeout as a duration.
func (s SearchConfig) HTTPTimeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks config correctness.
func (c *Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}

	if c.Search.Endpoint == "" {
		return fmt.Errorf("search endpoint is required")
	}
	if u, err := url.Parse(c.Search.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("search endpoint %q is not a valid URL", c.Search.Endpoint)
	}

	if c.Search.TimeoutSeconds <= 0 {
		return fmt.Errorf("search timeout_seconds must be positive, got %d", c.Search.TimeoutSeconds)
	}

	if c.Search.Selectors.Result == "" || c.Search.Selectors.Heading == "" || c.Search.Selectors.Caption == "" {
		return fmt.Errorf("search selectors (result, heading, caption) are all required")
	}

	// Check for duplicate server names
	names := make(map[string]bool)
	for i, server := range c.MCP.Servers {
		if server.Name == "" {
			return fmt.Errorf("mcp server #%d: name cannot be empty", i+1)
		}

		if names[server.Name] {
			return fmt.Errorf("duplicate mcp server name: %s", server.Name)
		}
		names[server.Name] = true

		if err := server.Validate(); err != nil {
			return fmt.Errorf("mcp server %s: %w", server.Name, err)
		}
	}

	return nil
}

// Validate checks a single MCP server config.
func (s *MCPServerConfig) Validate() error {
	// Server names become part of capability names, which must match the
	// directive grammar ([a-z_]+).
	for _, ch := range s.Name {
		if !(ch >= 'a' && ch <= 'z' || ch == '_') {
			return fmt.Errorf("server name %q contains invalid character %q (only lowercase letters and underscore allowed)", s.Name, string(ch))
		}
	}

	if s.Command == "" {
		return fmt.Errorf("command is required")
	}

	return nil
}
