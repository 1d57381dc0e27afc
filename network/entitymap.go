package network

import (
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// EntityMap is the bidirectional binding between authoritative entity ids
// and local entity handles. Both directions are always updated together.
type EntityMap struct {
	byID     map[esync.NetworkId]donburi.Entity
	byEntity map[donburi.Entity]esync.NetworkId
}

func NewEntityMap() *EntityMap {
	return &EntityMap{
		byID:     make(map[esync.NetworkId]donburi.Entity),
		byEntity: make(map[donburi.Entity]esync.NetworkId),
	}
}

// Set binds id to entity. Any previous binding of either side is dropped.
func (m *EntityMap) Set(id esync.NetworkId, entity donburi.Entity) {
	if old, ok := m.byID[id]; ok {
		delete(m.byEntity, old)
	}
	if old, ok := m.byEntity[entity]; ok {
		delete(m.byID, old)
	}
	m.byID[id] = entity
	m.byEntity[entity] = id
}

func (m *EntityMap) Entity(id esync.NetworkId) (donburi.Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

func (m *EntityMap) ID(entity donburi.Entity) (esync.NetworkId, bool) {
	id, ok := m.byEntity[entity]
	return id, ok
}

// Remove drops the binding for id and returns the entity it was bound to.
func (m *EntityMap) Remove(id esync.NetworkId) (donburi.Entity, bool) {
	e, ok := m.byID[id]
	if !ok {
		return e, false
	}
	delete(m.byID, id)
	delete(m.byEntity, e)
	return e, true
}

func (m *EntityMap) RemoveEntity(entity donburi.Entity) (esync.NetworkId, bool) {
	id, ok := m.byEntity[entity]
	if !ok {
		return id, false
	}
	delete(m.byEntity, entity)
	delete(m.byID, id)
	return id, true
}

func (m *EntityMap) Len() int { return len(m.byID) }

func (m *EntityMap) Clear() {
	clear(m.byID)
	clear(m.byEntity)
}

// Each calls fn for every binding until fn returns false.
func (m *EntityMap) Each(fn func(id esync.NetworkId, entity donburi.Entity) bool) {
	for id, e := range m.byID {
		if !fn(id, e) {
			return
		}
	}
}
