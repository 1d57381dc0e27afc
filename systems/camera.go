package systems

import (
	"math"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/yohamta/donburi"
)

// CameraFocus returns the point the camera should center on: the camera
// target's position pushed ahead along its heading.
func CameraFocus(world donburi.World) (x, y float64, ok bool) {
	entry, ok := components.CameraTarget.First(world)
	if !ok || !entry.HasComponent(components.Transform) {
		return 0, 0, false
	}
	tr := components.Transform.Get(entry)
	ahead := components.CameraTarget.Get(entry).LookAhead
	return tr.X + math.Cos(tr.Rotation)*ahead, tr.Y + math.Sin(tr.Rotation)*ahead, true
}
