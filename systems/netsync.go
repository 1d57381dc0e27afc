package systems

import (
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/network"
	"github.com/automoto/lawnmower-mp/shared/netcomponents"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/automoto/lawnmower-mp/systems/factory"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewNetSyncSystem returns an ECS system that decodes the session's queued
// sync frames, sets up spawned entities and routes authoritative state to
// the reconciler or the snapshot buffers. It must run before the movement
// system in the same tick.
func NewNetSyncSystem(session *network.Session, clock *Clock) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		ApplySync(session, session.Step(clock.Now), clock.Now)
	}
}

// ApplySync applies decode results to the session's world.
func ApplySync(session *network.Session, results []network.Result, now time.Time) {
	world := session.World()
	for _, res := range results {
		switch {
		case res.Spawned != nil:
			if !world.Valid(res.Spawned.Entity) {
				continue
			}
			entry := world.Entry(res.Spawned.Entity)
			setupSpawned(session, entry, res.Spawned.PrefabType)
			mirror(session, entry, now, false)
		case res.Op == protocol.OpFull || res.Op == protocol.OpDelta:
			for _, entity := range res.Updated {
				if world.Valid(entity) {
					mirror(session, world.Entry(entity), now, true)
				}
			}
		}
	}
	promoteLocalPlayer(session)
}

func setupSpawned(session *network.Session, entry *donburi.Entry, prefab string) {
	isLocal, ok := factory.SetupSpawned(entry, prefab, session.PlayerID(), session.Tuning())
	if !ok {
		session.Logger().Warnw("unknown prefab type", "prefab", prefab)
		return
	}
	if isLocal {
		session.SetLocalEntity(entry.Entity())
		session.Logger().Infow("local player spawned", "player_id", session.PlayerID())
	}
}

// promoteLocalPlayer covers a join acceptance that arrives after the
// player's own spawn.
func promoteLocalPlayer(session *network.Session) {
	if _, ok := session.LocalEntity(); ok {
		return
	}
	self := session.PlayerID()
	if self == "" {
		return
	}
	var found *donburi.Entry
	netcomponents.Player.Each(session.World(), func(entry *donburi.Entry) {
		if found == nil && netcomponents.Player.Get(entry).PlayerID == self {
			found = entry
		}
	})
	if found != nil {
		setupSpawned(session, found, protocol.PrefabPlayer)
	}
}

// mirror copies synced state into the local components. reconcile is false
// for the initial spawn state, which already seeded the local transform.
func mirror(session *network.Session, entry *donburi.Entry, now time.Time, reconcile bool) {
	switch {
	case entry.HasComponent(netcomponents.Player):
		p := netcomponents.Player.Get(entry)
		if entry.HasComponent(components.Health) {
			components.Health.Get(entry).Current = p.Health
		}
		route(session, entry, p.X, p.Y, p.Rotation, p.VX, p.VY, now, reconcile)
	case entry.HasComponent(netcomponents.Enemy):
		en := netcomponents.Enemy.Get(entry)
		if entry.HasComponent(components.Health) {
			components.Health.Get(entry).Current = en.Health
		}
		route(session, entry, en.X, en.Y, en.Rotation, en.VX, en.VY, now, reconcile)
	case entry.HasComponent(netcomponents.Collectible):
		c := netcomponents.Collectible.Get(entry)
		if entry.HasComponent(components.Transform) {
			tr := components.Transform.Get(entry)
			tr.X, tr.Y = c.X, c.Y
		}
		if entry.HasComponent(components.Collectible) {
			components.Collectible.Get(entry).Value = c.Value
		}
	}
}

func route(session *network.Session, entry *donburi.Entry, x, y, rotation, vx, vy float64, now time.Time, reconcile bool) {
	if !entry.HasComponent(components.NetworkState) {
		if entry.HasComponent(components.Transform) {
			tr := components.Transform.Get(entry)
			tr.X, tr.Y, tr.Rotation = x, y, rotation
		}
		return
	}

	ns := components.NetworkState.Get(entry)
	ns.AuthX, ns.AuthY, ns.AuthRotation = x, y, rotation
	ns.AuthVX, ns.AuthVY = vx, vy
	ns.HasAuthority = true

	if !ns.IsLocal {
		if ns.Buffer != nil {
			ns.Buffer.Push(now, ns.AuthState())
		}
		return
	}
	if !reconcile {
		return
	}

	outcome := session.Reconciler().Reconcile(entry, x, y, rotation)
	if outcome == network.OutcomeHard {
		var predErr float64
		if rec, ok := session.History().Latest(); ok {
			predErr = session.History().PredictionError(rec.Input.Seq, x, y)
		}
		session.Logger().Debugw("hard correction", "x", x, "y", y, "prediction_error", predErr)
	}
}
