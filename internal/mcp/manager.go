package mcp

import (
	"context"
	"fmt"

	"reagent/internal/capability"
	"reagent/internal/config"
)

// Manager connects configured MCP servers and registers their tools as
// capabilities. All registration happens before the run starts; the
// registry stays read-only afterwards.
type Manager struct {
	clients  map[string]*Client
	registry *capability.Registry
}

func NewManager(registry *capability.Registry) *Manager {
	return &Manager{
		clients:  make(map[string]*Client),
		registry: registry,
	}
}

// Initialize connects every enabled server from config, registering each of
// its tools. Servers are started one at a time; a partial failure is
// tolerated as long as at least one server came up.
func (m *Manager) Initialize(ctx context.Context, cfg config.MCPConfig) error {
	var errs []error
	started := 0

	for _, serverCfg := range cfg.Servers {
		if serverCfg.Disabled {
			continue
		}

		if err := m.startServer(ctx, serverCfg); err != nil {
			errs = append(errs, fmt.Errorf("server %s: %w", serverCfg.Name, err))
			continue
		}
		started++
	}

	if len(errs) > 0 && started == 0 {
		return fmt.Errorf("all MCP servers failed to initialize: %v", errs)
	}
	if len(errs) > 0 {
		return fmt.Errorf("some MCP servers failed (loaded %d/%d): %v", started, started+len(errs), errs)
	}

	return nil
}

func (m *Manager) startServer(ctx context.Context, serverCfg config.MCPServerConfig) error {
	client, err := NewClient(ctx, serverCfg.Name, serverCfg.Command, serverCfg.Args, config.ExpandEnvMap(serverCfg.Env))
	if err != nil {
		return err
	}

	for _, tool := range client.Tools() {
		adapter := newToolCapability(client, tool)

		if err := m.registry.Register(adapter); err != nil {
			client.Close()
			return fmt.Errorf("failed to register capability %s: %w", adapter.Name(), err)
		}
	}

	m.clients[serverCfg.Name] = client
	return nil
}

// CapabilityCount reports how many MCP-backed capabilities were registered.
func (m *Manager) CapabilityCount() int {
	n := 0
	for _, client := range m.clients {
		n += len(client.Tools())
	}
	return n
}

// Close shuts down all server sessions.
func (m *Manager) Close() error {
	var errs []error

	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("server %s: %w", name, err))
		}
	}

	m.clients = make(map[string]*Client)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing servers: %v", errs)
	}
	return nil
}
