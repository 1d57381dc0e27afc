package protocol

import (
	"github.com/automoto/lawnmower-mp/shared/netcomponents"
	"github.com/automoto/lawnmower-mp/shared/schema"
)

// Schema ID constants. IDs below 10 are left free for framework use.
const (
	SyncIDPlayer      uint16 = 10
	SyncIDEnemy       uint16 = 11
	SyncIDCollectible uint16 = 12
)

// Prefab type names carried by SPAWN messages.
const (
	PrefabPlayer      = "Player"
	PrefabEnemy       = "Enemy"
	PrefabCollectible = "Collectible"
)

// RegisterComponents registers every synced component and prefab into reg.
// Client and simulation owner must register the same tables.
func RegisterComponents(reg *schema.Registry) error {
	player, err := schema.NewComponent(SyncIDPlayer, "PlayerComponent", netcomponents.Player, netcomponents.PlayerFields...)
	if err != nil {
		return err
	}
	if err := reg.Register(player); err != nil {
		return err
	}

	enemy, err := schema.NewComponent(SyncIDEnemy, "EnemyComponent", netcomponents.Enemy, netcomponents.EnemyFields...)
	if err != nil {
		return err
	}
	if err := reg.Register(enemy); err != nil {
		return err
	}

	collectible, err := schema.NewComponent(SyncIDCollectible, "CollectibleComponent", netcomponents.Collectible, netcomponents.CollectibleFields...)
	if err != nil {
		return err
	}
	if err := reg.Register(collectible); err != nil {
		return err
	}

	if err := reg.RegisterPrefab(PrefabPlayer, SyncIDPlayer); err != nil {
		return err
	}
	if err := reg.RegisterPrefab(PrefabEnemy, SyncIDEnemy); err != nil {
		return err
	}
	return reg.RegisterPrefab(PrefabCollectible, SyncIDCollectible)
}

// NewRegistry returns a registry with all components registered.
func NewRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	if err := RegisterComponents(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
