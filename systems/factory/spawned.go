package factory

import (
	"github.com/automoto/lawnmower-mp/archetypes"
	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/config"
	"github.com/automoto/lawnmower-mp/interpolation"
	"github.com/automoto/lawnmower-mp/shared/netcomponents"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/yohamta/donburi"
)

const cameraLookAhead = 100

// SetupSpawned attaches the local components of a spawned prefab and seeds
// them from the synced data. Components already present are left alone, so
// a repeated spawn for the same entity is harmless. It reports whether the
// entity is the local player and whether the prefab was recognized.
func SetupSpawned(entry *donburi.Entry, prefab, localPlayerID string, tuning config.Tuning) (isLocal, ok bool) {
	switch prefab {
	case protocol.PrefabPlayer:
		return setupPlayer(entry, localPlayerID, tuning), true
	case protocol.PrefabEnemy:
		setupEnemy(entry, tuning)
		return false, true
	case protocol.PrefabCollectible:
		setupCollectible(entry)
		return false, true
	}
	return false, false
}

func setupPlayer(entry *donburi.Entry, localPlayerID string, tuning config.Tuning) bool {
	if !entry.HasComponent(netcomponents.Player) {
		return false
	}
	p := *netcomponents.Player.Get(entry)
	isLocal := localPlayerID != "" && p.PlayerID == localPlayerID
	fresh := !entry.HasComponent(components.Transform)

	archetypes.Player.Attach(entry)
	if isLocal {
		archetypes.LocalPlayer.Attach(entry)
		components.CameraTarget.SetValue(entry, components.CameraTargetData{LookAhead: cameraLookAhead})
	}
	if !fresh {
		ns := components.NetworkState.Get(entry)
		ns.IsLocal = isLocal
		ns.InterpolationEnabled = tuning.Interp.Enabled && !isLocal
		return isLocal
	}

	components.Transform.SetValue(entry, components.TransformData{X: p.X, Y: p.Y, Rotation: p.Rotation})
	components.Movement.SetValue(entry, components.MovementData{MaxSpeed: tuning.Movement.PlayerMaxSpeed})
	components.NetworkState.SetValue(entry, newNetworkState(tuning, isLocal, p.PlayerID, p.PlayerName))
	components.Health.SetValue(entry, components.HealthData{Current: p.Health, Max: p.Health})
	return isLocal
}

func setupEnemy(entry *donburi.Entry, tuning config.Tuning) {
	if !entry.HasComponent(netcomponents.Enemy) {
		return
	}
	e := *netcomponents.Enemy.Get(entry)
	fresh := !entry.HasComponent(components.Transform)

	archetypes.Enemy.Attach(entry)
	if !fresh {
		return
	}

	components.Transform.SetValue(entry, components.TransformData{X: e.X, Y: e.Y, Rotation: e.Rotation})
	components.Movement.SetValue(entry, components.MovementData{MaxSpeed: float64(e.Speed)})
	components.NetworkState.SetValue(entry, newNetworkState(tuning, false, "", ""))
	components.Health.SetValue(entry, components.HealthData{Current: e.Health, Max: e.Health})
}

func setupCollectible(entry *donburi.Entry) {
	if !entry.HasComponent(netcomponents.Collectible) {
		return
	}
	c := *netcomponents.Collectible.Get(entry)
	fresh := !entry.HasComponent(components.Transform)

	archetypes.Collectible.Attach(entry)
	if !fresh {
		return
	}

	components.Transform.SetValue(entry, components.TransformData{X: c.X, Y: c.Y})
	components.Collectible.SetValue(entry, components.CollectibleData{
		Kind:  PickupKind(netcomponents.CollectibleType(c.CollectibleType)),
		Value: c.Value,
	})
}

// PickupKind maps a synced collectible type to its local pickup effect.
// Unknown types fall back to an air strike.
func PickupKind(t netcomponents.CollectibleType) components.PickupKind {
	switch t {
	case netcomponents.CollectibleHealthPack:
		return components.PickupHealth
	case netcomponents.CollectibleSpeedBoost:
		return components.PickupSpeed
	case netcomponents.CollectibleDamageBoost:
		return components.PickupDamage
	}
	return components.PickupAirStrike
}

func newNetworkState(tuning config.Tuning, isLocal bool, playerID, playerName string) components.NetworkStateData {
	return components.NetworkStateData{
		PlayerID:             playerID,
		PlayerName:           playerName,
		IsLocal:              isLocal,
		InterpolationEnabled: tuning.Interp.Enabled && !isLocal,
		InterpolationSpeed:   tuning.Interp.InterpolationSpeed,
		Buffer: interpolation.NewSnapshotBuffer[interpolation.TransformState](
			tuning.Interp.SnapshotCapacity, tuning.Interp.Delay),
	}
}
