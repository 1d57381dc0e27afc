package schema

import (
	"fmt"
	"sort"
)

// Registry holds the component schemas and prefab definitions for one
// protocol. It is built once during startup and only read afterwards.
type Registry struct {
	byID    map[uint16]Component
	byName  map[string]Component
	prefabs map[string][]uint16
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[uint16]Component),
		byName:  make(map[string]Component),
		prefabs: make(map[string][]uint16),
	}
}

func (r *Registry) Register(c Component) error {
	if _, ok := r.byID[c.ID()]; ok {
		return fmt.Errorf("component id %d already registered", c.ID())
	}
	if _, ok := r.byName[c.Name()]; ok {
		return fmt.Errorf("component %q already registered", c.Name())
	}
	r.byID[c.ID()] = c
	r.byName[c.Name()] = c
	return nil
}

// RegisterPrefab declares the networked component set a prefab type spawns
// with.
func (r *Registry) RegisterPrefab(name string, ids ...uint16) error {
	if _, ok := r.prefabs[name]; ok {
		return fmt.Errorf("prefab %q already registered", name)
	}
	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			return fmt.Errorf("prefab %q component %d: %w", name, id, ErrUnknownComponent)
		}
	}
	r.prefabs[name] = append([]uint16(nil), ids...)
	return nil
}

func (r *Registry) Component(id uint16) (Component, bool) {
	c, ok := r.byID[id]
	return c, ok
}

func (r *Registry) ComponentByName(name string) (Component, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Prefab returns the component schemas registered for a prefab type.
func (r *Registry) Prefab(name string) ([]Component, bool) {
	ids, ok := r.prefabs[name]
	if !ok {
		return nil, false
	}
	out := make([]Component, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, true
}

// PrefabNames returns the registered prefab names in sorted order.
func (r *Registry) PrefabNames() []string {
	names := make([]string, 0, len(r.prefabs))
	for name := range r.prefabs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
