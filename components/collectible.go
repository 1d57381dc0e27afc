package components

import "github.com/yohamta/donburi"

type PickupKind int

const (
	PickupAirStrike PickupKind = iota
	PickupHealth
	PickupSpeed
	PickupDamage
)

// CollectibleData is the local pickup view of a synced collectible.
type CollectibleData struct {
	Kind  PickupKind
	Value int
}

var Collectible = donburi.NewComponentType[CollectibleData]()
