package capability

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps capability names to implementations. It is populated once
// at configuration time and read-only for the duration of a run.
type Registry struct {
	capabilities map[string]Capability
	mu           sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
	}
}

func (r *Registry) Register(c Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.capabilities[name]; exists {
		return fmt.Errorf("capability %s already registered", name)
	}

	r.capabilities[name] = c
	return nil
}

func (r *Registry) Get(name string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.capabilities[name]
	if !exists {
		return nil, fmt.Errorf("capability %s not found", name)
	}

	return c, nil
}

func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capabilities := make([]Capability, 0, len(r.capabilities))
	for _, c := range r.capabilities {
		capabilities = append(capabilities, c)
	}

	sort.Slice(capabilities, func(i, j int) bool {
		return capabilities[i].Name() < capabilities[j].Name()
	})
	return capabilities
}

func (r *Registry) Names() []string {
	capabilities := r.List()
	names := make([]string, len(capabilities))
	for i, c := range capabilities {
		names[i] = c.Name()
	}
	return names
}

// PromptSection renders the "available actions" block of the system prompt
// from the registered capabilities, so the prompt and the dispatch table
// can never disagree about what the agent may call.
func (r *Registry) PromptSection() string {
	capabilities := r.List()
	if len(capabilities) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range capabilities {
		b.WriteString(c.Name())
		b.WriteString(":\n")
		if ex := c.Example(); ex != "" {
			b.WriteString("e.g. ")
			b.WriteString(ex)
			b.WriteString("\n")
		}
		b.WriteString(c.Description())
		if i < len(capabilities)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
