package netcomponents

import (
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/yohamta/donburi"
)

type EnemyType int

const (
	EnemyRedChaser EnemyType = iota
	EnemyFastRunner
	EnemyTank
)

type EnemyData struct {
	X, Y     float64
	Rotation float64
	VX, VY   float64

	Health         int
	Speed          int
	EnemyType      int
	TargetPlayerID string
}

var Enemy = donburi.NewComponentType[EnemyData]()

var EnemyFields = []schema.Field[EnemyData]{
	{Name: "x", Type: schema.Float32, Ref: func(e *EnemyData) any { return &e.X }},
	{Name: "y", Type: schema.Float32, Ref: func(e *EnemyData) any { return &e.Y }},
	{Name: "rotation", Type: schema.Float32, Ref: func(e *EnemyData) any { return &e.Rotation }},
	{Name: "vx", Type: schema.Float32, Ref: func(e *EnemyData) any { return &e.VX }},
	{Name: "vy", Type: schema.Float32, Ref: func(e *EnemyData) any { return &e.VY }},
	{Name: "health", Type: schema.Uint16, Ref: func(e *EnemyData) any { return &e.Health }},
	{Name: "speed", Type: schema.Uint8, Ref: func(e *EnemyData) any { return &e.Speed }},
	{Name: "enemyType", Type: schema.Uint8, Ref: func(e *EnemyData) any { return &e.EnemyType }},
	{Name: "targetPlayerId", Type: schema.String, Ref: func(e *EnemyData) any { return &e.TargetPlayerID }},
}
