package strategy

import (
	"fmt"
	"slices"
)

// Registry maps strategy names to instances. It is filled once by NewRegistry
// and never mutated afterwards, so concurrent lookups need no locking.
type Registry struct {
	byName map[string]Strategy
	names  []string
}

// NewRegistry builds a registry from the given strategies.
// Returns an error when two strategies share a name.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{byName: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		if _, dup := r.byName[s.Name()]; dup {
			return nil, fmt.Errorf("duplicate strategy name %q", s.Name())
		}
		r.byName[s.Name()] = s
		r.names = append(r.names, s.Name())
	}
	slices.Sort(r.names)
	return r, nil
}

// DefaultRegistry returns a registry with every built-in strategy.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewSimpleStrategy(),
		NewAssetRebalanceStrategy(),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Get looks up a strategy by name. The boolean is false for unknown names.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// List returns all strategies ordered by name.
func (r *Registry) List() []Strategy {
	out := make([]Strategy, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
