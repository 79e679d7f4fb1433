package registry

import (
	"sort"
	"sync"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/result"
)

// ScopeHandler is the interface each governance group type handler must
// implement.
type ScopeHandler interface {
	GroupType() diagram.GroupType
	// Apply records what g contributes to the scope of a service inside it.
	Apply(g *diagram.ParsedGroup, scope *result.ResourceScope)
}

// Default is the global handler registry.
var Default = New()

// Registry holds scope handlers keyed by group type.
type Registry struct {
	mu       sync.RWMutex
	handlers map[diagram.GroupType]ScopeHandler
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[diagram.GroupType]ScopeHandler)}
}

// Register adds h under its group type, replacing any earlier handler.
func (r *Registry) Register(h ScopeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.GroupType()] = h
}

// Get returns the handler for the group type, or nil and false.
func (r *Registry) Get(t diagram.GroupType) (ScopeHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[t]
	return h, ok
}

// ListSupportedTypes returns all registered group types in containment order.
func (r *Registry) ListSupportedTypes() []diagram.GroupType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]diagram.GroupType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if pi, pj := types[i].Precedence(), types[j].Precedence(); pi != pj {
			return pi < pj
		}
		return types[i] < types[j]
	})
	return types
}
