package netcomponents

import (
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/yohamta/donburi"
)

// PlayerData is the authoritative player state written by the simulation
// owner. The client only mirrors it.
type PlayerData struct {
	PlayerID   string
	PlayerName string

	X, Y     float64
	Rotation float64 // radians
	VX, VY   float64

	Health  int
	Score   int
	Kills   int
	Deaths  int
	IsReady bool
}

var Player = donburi.NewComponentType[PlayerData]()

var PlayerFields = []schema.Field[PlayerData]{
	{Name: "playerId", Type: schema.String, Ref: func(p *PlayerData) any { return &p.PlayerID }},
	{Name: "playerName", Type: schema.String, Ref: func(p *PlayerData) any { return &p.PlayerName }},
	{Name: "x", Type: schema.Float32, Ref: func(p *PlayerData) any { return &p.X }},
	{Name: "y", Type: schema.Float32, Ref: func(p *PlayerData) any { return &p.Y }},
	{Name: "rotation", Type: schema.Float32, Ref: func(p *PlayerData) any { return &p.Rotation }},
	{Name: "vx", Type: schema.Float32, Ref: func(p *PlayerData) any { return &p.VX }},
	{Name: "vy", Type: schema.Float32, Ref: func(p *PlayerData) any { return &p.VY }},
	{Name: "health", Type: schema.Uint16, Ref: func(p *PlayerData) any { return &p.Health }},
	{Name: "score", Type: schema.Uint16, Ref: func(p *PlayerData) any { return &p.Score }},
	{Name: "kills", Type: schema.Uint8, Ref: func(p *PlayerData) any { return &p.Kills }},
	{Name: "deaths", Type: schema.Uint8, Ref: func(p *PlayerData) any { return &p.Deaths }},
	{Name: "isReady", Type: schema.Bool, Ref: func(p *PlayerData) any { return &p.IsReady }},
}
