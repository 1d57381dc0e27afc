package components

import "github.com/yohamta/donburi"

// TransformData is the locally rendered pose of an entity.
type TransformData struct {
	X, Y     float64
	Rotation float64 // radians
}

var Transform = donburi.NewComponentType[TransformData]()
