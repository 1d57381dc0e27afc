package systems

import (
	"math"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/network"
	"github.com/yohamta/donburi/ecs"
)

// aimDistance is how far ahead of the player a shot is aimed.
const aimDistance = 200

// InputSource produces the local player's input each tick.
type InputSource interface {
	Poll(now time.Time) (dx, dy float64, shoot bool)
}

// NewInputSystem returns an ECS system that polls src, feeds the local
// player's Movement for prediction and sends the input when it changes or
// the resend interval elapses. Pressing shoot also fires one shot along the
// player's heading.
func NewInputSystem(session *network.Session, src InputSource, clock *Clock) func(*ecs.ECS) {
	resend := session.Tuning().Network.InputResendInterval

	return func(e *ecs.ECS) {
		entry, ok := session.LocalEntity()
		if !ok || !entry.HasComponent(components.PlayerInput) {
			return
		}
		in := components.PlayerInput.Get(entry)
		in.DX, in.DY, in.Shoot = src.Poll(clock.Now)

		if entry.HasComponent(components.Movement) {
			mv := components.Movement.Get(entry)
			mv.InputX, mv.InputY = in.DX, in.DY
		}

		if in.Shoot && !in.ShootHeld && entry.HasComponent(components.Transform) {
			tr := components.Transform.Get(entry)
			tx := tr.X + math.Cos(tr.Rotation)*aimDistance
			ty := tr.Y + math.Sin(tr.Rotation)*aimDistance
			if err := session.SendShoot(tx, ty); err != nil {
				session.Logger().Debugw("send shoot failed", "error", err)
			}
		}
		in.ShootHeld = in.Shoot

		if !in.Changed() && clock.Now.Sub(in.SentAt) < resend {
			return
		}
		if err := session.SendInput(in.DX, in.DY, in.Shoot, clock.Now); err != nil {
			session.Logger().Debugw("send input failed", "error", err)
			return
		}
		in.SentDX, in.SentDY, in.SentShoot = in.DX, in.DY, in.Shoot
		in.SentAt = clock.Now
	}
}
