package archetypes

import (
	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/tags"
	"github.com/yohamta/donburi"
)

// Local component layers added on top of the synced components of a
// spawned prefab.
var (
	Player = newArchetype(
		tags.Player,
		components.Transform,
		components.Movement,
		components.NetworkState,
		components.Health,
	)
	LocalPlayer = newArchetype(
		tags.LocalPlayer,
		components.PlayerInput,
		components.CameraTarget,
	)
	Enemy = newArchetype(
		tags.Enemy,
		components.Transform,
		components.Movement,
		components.NetworkState,
		components.Health,
	)
	Collectible = newArchetype(
		tags.Collectible,
		components.Transform,
		components.Collectible,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

// Attach adds every component of the archetype that entry lacks. Existing
// components keep their values.
func (a *archetype) Attach(entry *donburi.Entry) {
	for _, c := range a.components {
		if !entry.HasComponent(c) {
			entry.AddComponent(c)
		}
	}
}
