package systems

import (
	"testing"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/config"
	"github.com/automoto/lawnmower-mp/network"
	"github.com/automoto/lawnmower-mp/shared/netcomponents"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/leap-fish/necs/esync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type recordingSender struct {
	sent []any
}

func (r *recordingSender) SendMessage(msg any) error {
	r.sent = append(r.sent, msg)
	return nil
}

type syncFixture struct {
	session *network.Session
	sender  *recordingSender
	enc     *protocol.Encoder
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	reg, err := protocol.NewRegistry()
	require.NoError(t, err)
	sender := &recordingSender{}
	return &syncFixture{
		session: network.NewSession(donburi.NewWorld(), reg, sender, config.Defaults(), nil),
		sender:  sender,
		enc:     protocol.NewEncoder(reg),
	}
}

func (f *syncFixture) spawn(t *testing.T, id uint32, prefab string, v protocol.Value) {
	t.Helper()
	frame, err := f.enc.Spawn(id, prefab, v)
	require.NoError(t, err)
	f.session.Enqueue(frame)
}

func (f *syncFixture) delta(t *testing.T, id uint32, v protocol.Value) {
	t.Helper()
	frame, err := f.enc.Delta(protocol.EntityState{EntityID: id, Values: []protocol.Value{v}})
	require.NoError(t, err)
	f.session.Enqueue(frame)
}

func (f *syncFixture) tick(now time.Time) {
	ApplySync(f.session, f.session.Step(now), now)
}

func (f *syncFixture) entry(t *testing.T, id uint32) *donburi.Entry {
	t.Helper()
	entity, ok := f.session.Entities().Entity(esync.NetworkId(id))
	require.True(t, ok)
	return f.session.World().Entry(entity)
}

func player(p netcomponents.PlayerData, fields ...string) protocol.Value {
	return protocol.Value{ComponentID: protocol.SyncIDPlayer, Data: p, Fields: fields}
}

func TestApplySyncRoutesLocalAndRemote(t *testing.T) {
	f := newSyncFixture(t)
	f.session.SetPlayerID("me")

	f.spawn(t, 1, protocol.PrefabPlayer, player(netcomponents.PlayerData{PlayerID: "me", X: 100, Y: 100, Health: 100}))
	f.spawn(t, 2, protocol.PrefabPlayer, player(netcomponents.PlayerData{PlayerID: "them", X: 0, Health: 100}))
	f.tick(t0)

	local, ok := f.session.LocalEntity()
	require.True(t, ok)
	assert.Equal(t, f.entry(t, 1).Entity(), local.Entity())

	remote := components.NetworkState.Get(f.entry(t, 2))
	assert.False(t, remote.IsLocal)
	assert.Equal(t, 1, remote.Buffer.Len(), "spawn state is the first sample")

	f.delta(t, 1, player(netcomponents.PlayerData{X: 110}, "x"))
	f.delta(t, 2, player(netcomponents.PlayerData{X: 20, Health: 40}, "x", "health"))
	f.tick(t0.Add(50 * time.Millisecond))

	assert.Equal(t, 2, remote.Buffer.Len())
	latest, _ := remote.Buffer.Latest()
	assert.Equal(t, 20.0, latest.State.X)
	assert.Equal(t, 40, components.Health.Get(f.entry(t, 2)).Current)

	rec := f.session.Reconciler()
	assert.Equal(t, network.Correcting, rec.State())
	px, _ := rec.Pending()
	assert.InDelta(t, 10, px, 1e-6)
	assert.Equal(t, 100.0, components.Transform.Get(local).X, "local transform is corrected over time, not overwritten")
}

func TestApplySyncHardCorrectsLocal(t *testing.T) {
	f := newSyncFixture(t)
	f.session.SetPlayerID("me")
	f.spawn(t, 1, protocol.PrefabPlayer, player(netcomponents.PlayerData{PlayerID: "me", X: 100, Y: 100}))
	f.tick(t0)

	f.delta(t, 1, player(netcomponents.PlayerData{X: 300, Rotation: 1}, "x", "rotation"))
	f.tick(t0)

	local, _ := f.session.LocalEntity()
	tr := components.Transform.Get(local)
	assert.Equal(t, 300.0, tr.X)
	assert.Equal(t, 1.0, tr.Rotation)
}

func TestApplySyncPromotesLateJoin(t *testing.T) {
	f := newSyncFixture(t)
	f.spawn(t, 1, protocol.PrefabPlayer, player(netcomponents.PlayerData{PlayerID: "me"}))
	f.tick(t0)
	_, ok := f.session.LocalEntity()
	require.False(t, ok)

	f.session.SetPlayerID("me")
	f.tick(t0)

	local, ok := f.session.LocalEntity()
	require.True(t, ok)
	assert.True(t, components.NetworkState.Get(local).IsLocal)
	assert.True(t, local.HasComponent(components.PlayerInput))
}

func TestApplySyncEnemyAndCollectible(t *testing.T) {
	f := newSyncFixture(t)
	f.spawn(t, 5, protocol.PrefabEnemy, protocol.Value{
		ComponentID: protocol.SyncIDEnemy, Data: netcomponents.EnemyData{X: 1, Health: 30, Speed: 80},
	})
	f.spawn(t, 6, protocol.PrefabCollectible, protocol.Value{
		ComponentID: protocol.SyncIDCollectible, Data: netcomponents.CollectibleData{X: 4, Y: 4, Value: 1},
	})
	f.tick(t0)

	f.delta(t, 5, protocol.Value{ComponentID: protocol.SyncIDEnemy, Data: netcomponents.EnemyData{X: 9, Health: 10}, Fields: []string{"x", "health"}})
	f.delta(t, 6, protocol.Value{ComponentID: protocol.SyncIDCollectible, Data: netcomponents.CollectibleData{X: 8}, Fields: []string{"x"}})
	f.tick(t0.Add(50 * time.Millisecond))

	enemy := f.entry(t, 5)
	assert.Equal(t, 2, components.NetworkState.Get(enemy).Buffer.Len())
	assert.Equal(t, 10, components.Health.Get(enemy).Current)

	pickup := f.entry(t, 6)
	assert.Equal(t, components.TransformData{X: 8, Y: 4}, *components.Transform.Get(pickup))
}
