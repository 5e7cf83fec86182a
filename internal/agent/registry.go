package agent

import (
	"fmt"

	"github.com/dilcore/template-agent/internal/entity"
)

// Agent type identifiers known to the registry.
const (
	TypeModuleBuilder          = "module-builder"
	TypeModuleBuilderStreaming = "module-builder-streaming"
	TypePersona                = "persona"
)

// Registry resolves agent type identifiers to the instances built at
// startup. It is populated once during dependency wiring and read-only
// afterwards.
type Registry struct {
	agents map[string]any
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]any)}
}

// Register binds an agent instance to a type identifier. Re-registering a
// type is a wiring bug.
func (r *Registry) Register(agentType string, instance any) error {
	if _, exists := r.agents[agentType]; exists {
		return fmt.Errorf("agent type %q already registered", agentType)
	}
	r.agents[agentType] = instance
	return nil
}

// Get returns the agent registered under the given type.
func (r *Registry) Get(agentType string) (any, error) {
	instance, ok := r.agents[agentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownAgent, agentType)
	}
	return instance, nil
}

// Types lists the registered agent type identifiers.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.agents))
	for agentType := range r.agents {
		types = append(types, agentType)
	}
	return types
}
