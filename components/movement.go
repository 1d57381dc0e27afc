package components

import "github.com/yohamta/donburi"

// MovementData holds the input direction and resulting velocity of an
// entity. For remote entities VelX/VelY are derived from authoritative data.
type MovementData struct {
	InputX, InputY float64
	VelX, VelY     float64
	MaxSpeed       float64 // units/s
}

var Movement = donburi.NewComponentType[MovementData]()
