package systems

import (
	"math"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/config"
	"github.com/automoto/lawnmower-mp/interpolation"
	"github.com/automoto/lawnmower-mp/network"
	"github.com/automoto/lawnmower-mp/shared/gamemath"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// MovementResolver advances every entity with Transform and Movement by one
// tick. The local player is predicted from input with the reconciler's
// correction folded in. Remote entities follow their snapshot buffer, hold
// the newest sample when the buffer cannot bracket the render time, and
// approach the last authoritative pose when there are no samples at all.
type MovementResolver struct {
	move       config.MovementConfig
	reconciler *network.Reconciler
}

func NewMovementResolver(move config.MovementConfig, reconciler *network.Reconciler) *MovementResolver {
	return &MovementResolver{move: move, reconciler: reconciler}
}

func (m *MovementResolver) Update(world donburi.World, dt float64, now time.Time) {
	components.Movement.Each(world, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Transform) {
			return
		}
		tr := components.Transform.Get(entry)
		mv := components.Movement.Get(entry)

		if !entry.HasComponent(components.NetworkState) {
			m.integrate(tr, mv, dt)
			return
		}
		ns := components.NetworkState.Get(entry)
		switch {
		case ns.IsLocal:
			m.applyCorrection(entry, tr, dt)
			m.integrate(tr, mv, dt)
		case ns.InterpolationEnabled:
			m.interpolate(tr, mv, ns, dt, now)
		default:
			if ns.HasAuthority {
				tr.X, tr.Y, tr.Rotation = ns.AuthX, ns.AuthY, ns.AuthRotation
				mv.VelX, mv.VelY = ns.AuthVX, ns.AuthVY
			}
		}
	})
}

func (m *MovementResolver) applyCorrection(entry *donburi.Entry, tr *components.TransformData, dt float64) {
	if m.reconciler == nil {
		return
	}
	if e, ok := m.reconciler.Entity(); !ok || e != entry.Entity() {
		return
	}
	dx, dy := m.reconciler.ApplyCorrection(dt)
	tr.X += dx
	tr.Y += dy
}

// integrate moves along the normalized input at MaxSpeed. Input inside the
// deadzone stops the entity.
func (m *MovementResolver) integrate(tr *components.TransformData, mv *components.MovementData, dt float64) {
	nx, ny, length := gamemath.Normalize(mv.InputX, mv.InputY)
	if length <= m.move.InputDeadzone {
		mv.VelX, mv.VelY = 0, 0
		return
	}
	mv.VelX, mv.VelY = nx*mv.MaxSpeed, ny*mv.MaxSpeed
	tr.X += mv.VelX * dt
	tr.Y += mv.VelY * dt
	m.turn(tr, mv, dt)
}

func (m *MovementResolver) interpolate(tr *components.TransformData, mv *components.MovementData, ns *components.NetworkStateData, dt float64, now time.Time) {
	if ns.Buffer != nil {
		if prev, next, t, ok := ns.Buffer.InterpolationSnapshots(now); ok {
			setPose(tr, mv, interpolation.Interpolate(prev.State, next.State, t))
			return
		}
		if latest, ok := ns.Buffer.Latest(); ok {
			setPose(tr, mv, latest.State)
			return
		}
	}
	if !ns.HasAuthority {
		return
	}

	factor := math.Min(1, dt*ns.InterpolationSpeed)
	dx := (ns.AuthX - tr.X) * factor
	dy := (ns.AuthY - tr.Y) * factor
	tr.X += dx
	tr.Y += dy
	if dt <= 0 {
		return
	}
	mv.VelX, mv.VelY = dx/dt, dy/dt
	m.turn(tr, mv, dt)
}

func setPose(tr *components.TransformData, mv *components.MovementData, s interpolation.TransformState) {
	tr.X, tr.Y, tr.Rotation = s.X, s.Y, s.Rotation
	mv.VelX, mv.VelY = s.VelX, s.VelY
}

// turn rotates toward the heading of the current velocity when moving fast
// enough for the heading to be meaningful.
func (m *MovementResolver) turn(tr *components.TransformData, mv *components.MovementData, dt float64) {
	if mv.VelX*mv.VelX+mv.VelY*mv.VelY <= m.move.MinTurnSpeedSq {
		return
	}
	target := math.Atan2(mv.VelY, mv.VelX)
	tr.Rotation = gamemath.TurnToward(tr.Rotation, target, m.move.TurnRate, dt, m.move.RotationEpsilon)
}

func NewMovementSystem(resolver *MovementResolver, clock *Clock) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		resolver.Update(e.World, clock.DT, clock.Now)
	}
}
