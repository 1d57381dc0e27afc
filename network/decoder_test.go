package network

import (
	"testing"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/shared/netcomponents"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/automoto/lawnmower-mp/shared/wire"
	"github.com/leap-fish/necs/esync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

var t0 = time.Unix(1_700_000_000, 0)

type decodeFixture struct {
	world    donburi.World
	entities *EntityMap
	dec      *Decoder
	enc      *protocol.Encoder
}

func newDecodeFixture(t *testing.T) *decodeFixture {
	t.Helper()
	reg, err := protocol.NewRegistry()
	require.NoError(t, err)
	entities := NewEntityMap()
	return &decodeFixture{
		world:    donburi.NewWorld(),
		entities: entities,
		dec:      NewDecoder(reg, entities, nil, 0.05),
		enc:      protocol.NewEncoder(reg),
	}
}

func playerValue(p netcomponents.PlayerData, fields ...string) protocol.Value {
	return protocol.Value{ComponentID: protocol.SyncIDPlayer, Data: p, Fields: fields}
}

func (f *decodeFixture) spawnPlayer(t *testing.T, id uint32, p netcomponents.PlayerData) *donburi.Entry {
	t.Helper()
	frame, err := f.enc.Spawn(id, protocol.PrefabPlayer, playerValue(p))
	require.NoError(t, err)
	res := f.dec.Decode(f.world, frame, t0)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Spawned)
	return f.world.Entry(res.Spawned.Entity)
}

func TestSpawnRegistersEntity(t *testing.T) {
	f := newDecodeFixture(t)
	entry := f.spawnPlayer(t, 42, netcomponents.PlayerData{PlayerID: "p1", X: 50, Y: 60, Health: 100})

	got, ok := f.entities.Entity(42)
	require.True(t, ok)
	assert.Equal(t, entry.Entity(), got)

	p := netcomponents.Player.Get(entry)
	assert.Equal(t, "p1", p.PlayerID)
	assert.Equal(t, 50.0, p.X)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, esync.NetworkId(42), *esync.GetNetworkId(entry))
}

func TestSpawnThenDespawnLeavesNothing(t *testing.T) {
	f := newDecodeFixture(t)
	entry := f.spawnPlayer(t, 42, netcomponents.PlayerData{PlayerID: "p1"})
	entity := entry.Entity()

	res := f.dec.Decode(f.world, f.enc.Despawn(42), t0)
	require.NoError(t, res.Err)
	assert.Equal(t, []esync.NetworkId{42}, res.Despawned)

	assert.False(t, f.world.Valid(entity))
	assert.Equal(t, 0, f.entities.Len())
	_, ok := f.entities.ID(entity)
	assert.False(t, ok)
}

func TestDeltaKeepsAbsentFields(t *testing.T) {
	f := newDecodeFixture(t)
	entry := f.spawnPlayer(t, 1, netcomponents.PlayerData{PlayerID: "p1", X: 10, Y: 20, Health: 100, Score: 3})

	full, err := f.enc.Full(protocol.EntityState{EntityID: 1, Values: []protocol.Value{
		playerValue(netcomponents.PlayerData{PlayerID: "p1", X: 11, Y: 21, Health: 90, Score: 4}),
	}})
	require.NoError(t, err)
	require.NoError(t, f.dec.Decode(f.world, full, t0).Err)

	delta, err := f.enc.Delta(protocol.EntityState{EntityID: 1, Values: []protocol.Value{
		playerValue(netcomponents.PlayerData{X: 12.5}, "x"),
	}})
	require.NoError(t, err)
	res := f.dec.Decode(f.world, delta, t0)
	require.NoError(t, res.Err)
	assert.Equal(t, []donburi.Entity{entry.Entity()}, res.Updated)

	p := netcomponents.Player.Get(entry)
	assert.Equal(t, 12.5, p.X)
	assert.Equal(t, 21.0, p.Y)
	assert.Equal(t, 90, p.Health)
	assert.Equal(t, 4, p.Score)
	assert.Equal(t, "p1", p.PlayerID)
}

func TestStaleReferenceIsSkipped(t *testing.T) {
	f := newDecodeFixture(t)
	entry := f.spawnPlayer(t, 1, netcomponents.PlayerData{X: 1})

	delta, err := f.enc.Delta(
		protocol.EntityState{EntityID: 99, Values: []protocol.Value{playerValue(netcomponents.PlayerData{X: 7, Y: 7}, "x", "y")}},
		protocol.EntityState{EntityID: 1, Values: []protocol.Value{playerValue(netcomponents.PlayerData{X: 5}, "x")}},
	)
	require.NoError(t, err)

	res := f.dec.Decode(f.world, delta, t0)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 5.0, netcomponents.Player.Get(entry).X)
	assert.Equal(t, int64(1), f.dec.Metrics().Stale)
	assert.Equal(t, 1, f.entities.Len())
}

func TestDespawnUnknownIsNoop(t *testing.T) {
	f := newDecodeFixture(t)
	f.spawnPlayer(t, 1, netcomponents.PlayerData{})

	res := f.dec.Decode(f.world, f.enc.Despawn(77), t0)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Despawned)
	assert.Equal(t, 1, f.entities.Len())
}

func TestDespawnFallsBackToNetworkIdLookup(t *testing.T) {
	f := newDecodeFixture(t)
	entity := f.world.Create(esync.NetworkIdComponent, netcomponents.Player)
	esync.NetworkIdComponent.SetValue(f.world.Entry(entity), esync.NetworkId(5))

	res := f.dec.Decode(f.world, f.enc.Despawn(5), t0)
	require.NoError(t, res.Err)
	assert.Equal(t, []esync.NetworkId{5}, res.Despawned)
	assert.False(t, f.world.Valid(entity))
}

func TestDespawnTrailingPartialID(t *testing.T) {
	f := newDecodeFixture(t)
	a := f.spawnPlayer(t, 1, netcomponents.PlayerData{}).Entity()

	frame := append(f.enc.Despawn(1), 0x02, 0x00)
	res := f.dec.Decode(f.world, frame, t0)
	require.ErrorIs(t, res.Err, wire.ErrShortBuffer)
	assert.False(t, f.world.Valid(a), "ids before the corruption point are applied")
	assert.Equal(t, int64(1), f.dec.Metrics().Corruptions)
}

func TestTruncatedSpawnCreatesNothing(t *testing.T) {
	f := newDecodeFixture(t)
	frame, err := f.enc.Spawn(9, protocol.PrefabPlayer, playerValue(netcomponents.PlayerData{PlayerName: "mower"}))
	require.NoError(t, err)

	for cut := 0; cut < len(frame); cut++ {
		res := f.dec.Decode(f.world, frame[:cut], t0)
		require.Error(t, res.Err, "cut at %d", cut)
		assert.Nil(t, res.Spawned)
	}
	assert.Equal(t, 0, f.entities.Len())
}

func TestTruncatedFullKeepsEarlierEntities(t *testing.T) {
	f := newDecodeFixture(t)
	a := f.spawnPlayer(t, 1, netcomponents.PlayerData{X: 1})
	b := f.spawnPlayer(t, 2, netcomponents.PlayerData{X: 2})

	full, err := f.enc.Full(
		protocol.EntityState{EntityID: 1, Values: []protocol.Value{playerValue(netcomponents.PlayerData{X: 100})}},
		protocol.EntityState{EntityID: 2, Values: []protocol.Value{playerValue(netcomponents.PlayerData{X: 200})}},
	)
	require.NoError(t, err)

	res := f.dec.Decode(f.world, full[:len(full)-2], t0)
	require.Error(t, res.Err)
	assert.Equal(t, 100.0, netcomponents.Player.Get(a).X)
	assert.Equal(t, 2.0, netcomponents.Player.Get(b).X, "partially parsed entity is not committed")
}

func TestUnknownOpAndEmptyFrame(t *testing.T) {
	f := newDecodeFixture(t)

	res := f.dec.Decode(f.world, []byte{9, 1, 2}, t0)
	require.ErrorIs(t, res.Err, protocol.ErrUnknownOp)

	res = f.dec.Decode(f.world, nil, t0)
	require.ErrorIs(t, res.Err, ErrEmptyFrame)
}

func TestUnknownSchemaStopsFrame(t *testing.T) {
	f := newDecodeFixture(t)
	f.spawnPlayer(t, 1, netcomponents.PlayerData{})

	w := wire.NewWriter(16)
	w.Uint8(uint8(protocol.OpDelta))
	w.Uint32(1)
	w.Uvarint(1)
	w.Uvarint(500)
	w.Uvarint(0)

	res := f.dec.Decode(f.world, w.Bytes(), t0)
	require.ErrorIs(t, res.Err, schema.ErrUnknownComponent)
}

func TestUnknownPrefab(t *testing.T) {
	f := newDecodeFixture(t)
	w := wire.NewWriter(16)
	w.Uint8(uint8(protocol.OpSpawn))
	w.Uint32(3)
	w.String("Tractor")
	w.Uvarint(0)

	res := f.dec.Decode(f.world, w.Bytes(), t0)
	require.ErrorIs(t, res.Err, ErrUnknownPrefab)
	assert.Equal(t, 0, f.entities.Len())
}

func TestDuplicateSpawnReusesEntity(t *testing.T) {
	f := newDecodeFixture(t)
	first := f.spawnPlayer(t, 4, netcomponents.PlayerData{X: 1}).Entity()
	second := f.spawnPlayer(t, 4, netcomponents.PlayerData{X: 2})

	assert.Equal(t, first, second.Entity())
	assert.Equal(t, 2.0, netcomponents.Player.Get(second).X)
	assert.Equal(t, 1, f.entities.Len())
}

func TestDecodeTouchesNetworkState(t *testing.T) {
	f := newDecodeFixture(t)
	entry := f.spawnPlayer(t, 1, netcomponents.PlayerData{})
	entry.AddComponent(components.NetworkState)

	later := t0.Add(time.Second)
	delta, err := f.enc.Delta(protocol.EntityState{EntityID: 1, Values: []protocol.Value{
		playerValue(netcomponents.PlayerData{Health: 5}, "health"),
	}})
	require.NoError(t, err)
	require.NoError(t, f.dec.Decode(f.world, delta, later).Err)

	assert.Equal(t, later, components.NetworkState.Get(entry).LastAuthoritativeUpdate)
}

func TestMetricsSnapshot(t *testing.T) {
	f := newDecodeFixture(t)
	f.spawnPlayer(t, 1, netcomponents.PlayerData{})
	f.dec.Decode(f.world, f.enc.Despawn(1), t0)

	snap := f.dec.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap["messages"])
	assert.Equal(t, int64(1), snap["spawns"])
	assert.Equal(t, int64(1), snap["despawns"])
}
