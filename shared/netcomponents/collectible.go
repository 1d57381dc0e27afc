package netcomponents

import (
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/yohamta/donburi"
)

type CollectibleType int

const (
	CollectibleAirStrike CollectibleType = iota
	CollectibleHealthPack
	CollectibleSpeedBoost
	CollectibleDamageBoost
)

type CollectibleData struct {
	X, Y            float64
	CollectibleType int
	Value           int
	IsCollected     int // 0 or 1, kept as uint8 on the wire
}

var Collectible = donburi.NewComponentType[CollectibleData]()

var CollectibleFields = []schema.Field[CollectibleData]{
	{Name: "x", Type: schema.Float32, Ref: func(c *CollectibleData) any { return &c.X }},
	{Name: "y", Type: schema.Float32, Ref: func(c *CollectibleData) any { return &c.Y }},
	{Name: "collectibleType", Type: schema.Uint8, Ref: func(c *CollectibleData) any { return &c.CollectibleType }},
	{Name: "value", Type: schema.Uint8, Ref: func(c *CollectibleData) any { return &c.Value }},
	{Name: "isCollected", Type: schema.Uint8, Ref: func(c *CollectibleData) any { return &c.IsCollected }},
}
