package components

import "github.com/yohamta/donburi"

// CameraTargetData marks the entity the camera follows.
type CameraTargetData struct {
	LookAhead float64 // units ahead of the heading
}

var CameraTarget = donburi.NewComponentType[CameraTargetData]()
