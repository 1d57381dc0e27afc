package interpolation

import "github.com/automoto/lawnmower-mp/shared/gamemath"

// TransformState is the interpolated part of a remote entity.
type TransformState struct {
	X, Y       float64
	Rotation   float64
	VelX, VelY float64
}

// Interpolate blends position and velocity linearly and rotation along the
// shorter arc. t=0 yields from and t=1 yields to exactly.
func Interpolate(from, to TransformState, t float64) TransformState {
	return TransformState{
		X:        gamemath.Lerp(from.X, to.X, t),
		Y:        gamemath.Lerp(from.Y, to.Y, t),
		Rotation: gamemath.LerpAngle(from.Rotation, to.Rotation, t),
		VelX:     gamemath.Lerp(from.VelX, to.VelX, t),
		VelY:     gamemath.Lerp(from.VelY, to.VelY, t),
	}
}
