package network

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/logging"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/automoto/lawnmower-mp/shared/wire"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

var (
	ErrEmptyFrame    = errors.New("network: empty sync frame")
	ErrUnknownPrefab = errors.New("network: unknown prefab type")
)

// staleSampleMin is the number of entity records seen before the stale
// ratio is considered meaningful.
const staleSampleMin = 50

// SpawnResult identifies the entity created (or reused) by a SPAWN frame.
type SpawnResult struct {
	Entity     donburi.Entity
	EntityID   esync.NetworkId
	PrefabType string
}

// Result describes what one sync frame did to the world. Err reports
// corruption; whatever was applied before the corruption point stays
// applied.
type Result struct {
	Op        protocol.SyncOp
	Spawned   *SpawnResult
	Updated   []donburi.Entity
	Despawned []esync.NetworkId
	Skipped   int // stale records discarded
	Err       error
}

// Decoder applies sync frames to a donburi world, keeping an EntityMap in
// step with spawns and despawns.
type Decoder struct {
	reg      *schema.Registry
	entities *EntityMap
	logger   *zap.SugaredLogger
	metrics  *DecodeMetrics

	staleRatioWarn float64
	staleWarned    bool
}

func NewDecoder(reg *schema.Registry, entities *EntityMap, logger *zap.SugaredLogger, staleRatioWarn float64) *Decoder {
	return &Decoder{
		reg:            reg,
		entities:       entities,
		logger:         logging.OrNop(logger),
		metrics:        &DecodeMetrics{},
		staleRatioWarn: staleRatioWarn,
	}
}

func (d *Decoder) Metrics() *DecodeMetrics { return d.metrics }

// Decode applies one sync frame. now stamps NetworkState.LastAuthoritativeUpdate
// on every entity the frame touches.
func (d *Decoder) Decode(world donburi.World, data []byte, now time.Time) Result {
	d.metrics.incMessages()

	if len(data) == 0 {
		return d.corrupt(Result{}, ErrEmptyFrame)
	}

	res := Result{Op: protocol.SyncOp(data[0])}
	r := wire.NewReader(data[1:])

	switch res.Op {
	case protocol.OpFull, protocol.OpDelta:
		d.snapshot(world, r, now, &res)
	case protocol.OpSpawn:
		d.spawn(world, r, now, &res)
	case protocol.OpDespawn:
		d.despawn(world, r, &res)
	default:
		res.Err = fmt.Errorf("op %d: %w", data[0], protocol.ErrUnknownOp)
	}

	if res.Err != nil {
		return d.corrupt(res, res.Err)
	}
	return res
}

func (d *Decoder) corrupt(res Result, err error) Result {
	d.metrics.incCorruptions()
	d.logger.Warnw("corrupt sync frame", "op", res.Op, "error", err)
	res.Err = err
	return res
}

func (d *Decoder) snapshot(world donburi.World, r *wire.Reader, now time.Time, res *Result) {
	for r.Remaining() > 0 {
		raw, err := r.Uint32()
		if err != nil {
			res.Err = fmt.Errorf("%s entity id: %w", res.Op, err)
			return
		}
		id := esync.NetworkId(raw)

		entry := d.lookup(world, id)
		applies, err := d.componentSet(r, entry)
		if err != nil {
			res.Err = fmt.Errorf("%s entity %d: %w", res.Op, id, err)
			return
		}

		if entry == nil {
			res.Skipped++
			d.metrics.incStale()
			d.logger.Debugw("stale entity reference", "op", res.Op, "entity_id", id)
			continue
		}

		for _, apply := range applies {
			apply(entry)
		}
		touch(entry, now)
		res.Updated = append(res.Updated, entry.Entity())
		d.metrics.incUpdates()
	}
	d.checkStaleRatio()
}

func (d *Decoder) spawn(world donburi.World, r *wire.Reader, now time.Time, res *Result) {
	raw, err := r.Uint32()
	if err != nil {
		res.Err = fmt.Errorf("spawn entity id: %w", err)
		return
	}
	id := esync.NetworkId(raw)

	prefab, err := r.String()
	if err != nil {
		res.Err = fmt.Errorf("spawn %d prefab: %w", id, err)
		return
	}
	schemas, ok := d.reg.Prefab(prefab)
	if !ok {
		res.Err = fmt.Errorf("spawn %d %q: %w", id, prefab, ErrUnknownPrefab)
		return
	}

	entry := d.lookup(world, id)
	applies, err := d.componentSet(r, entry)
	if err != nil {
		res.Err = fmt.Errorf("spawn %d: %w", id, err)
		return
	}

	if entry == nil {
		ctypes := make([]donburi.IComponentType, 0, len(schemas)+1)
		ctypes = append(ctypes, esync.NetworkIdComponent)
		for _, s := range schemas {
			ctypes = append(ctypes, s.Type())
		}
		entity := world.Create(ctypes...)
		entry = world.Entry(entity)
		esync.NetworkIdComponent.SetValue(entry, id)
		d.entities.Set(id, entity)
	} else {
		d.logger.Debugw("spawn for mapped entity, reusing", "entity_id", id, "prefab", prefab)
	}

	for _, apply := range applies {
		apply(entry)
	}
	touch(entry, now)
	d.metrics.incSpawns()

	res.Spawned = &SpawnResult{
		Entity:     entry.Entity(),
		EntityID:   id,
		PrefabType: prefab,
	}
}

func (d *Decoder) despawn(world donburi.World, r *wire.Reader, res *Result) {
	for r.Remaining() > 0 {
		raw, err := r.Uint32()
		if err != nil {
			res.Err = fmt.Errorf("despawn: trailing %d bytes: %w", r.Remaining(), err)
			return
		}
		id := esync.NetworkId(raw)

		entity, ok := d.entities.Remove(id)
		if !ok {
			entity = esync.FindByNetworkId(world, id)
			d.entities.RemoveEntity(entity)
		}
		if !world.Valid(entity) {
			d.logger.Debugw("despawn for unknown entity", "entity_id", id)
			continue
		}
		world.Remove(entity)
		res.Despawned = append(res.Despawned, id)
		d.metrics.incDespawns()
	}
}

// lookup resolves id to a live entry. A binding whose entity was destroyed
// elsewhere is dropped.
func (d *Decoder) lookup(world donburi.World, id esync.NetworkId) *donburi.Entry {
	entity, ok := d.entities.Entity(id)
	if !ok {
		return nil
	}
	if !world.Valid(entity) {
		d.entities.Remove(id)
		return nil
	}
	return world.Entry(entity)
}

// componentSet stages every component of a set against prior. prior may be
// nil, in which case the payload is parsed onto zero values.
func (d *Decoder) componentSet(r *wire.Reader, prior *donburi.Entry) ([]schema.Apply, error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("component count: %w", err)
	}
	if n > uint64(r.Remaining()) {
		return nil, fmt.Errorf("component count %d: %w", n, wire.ErrShortBuffer)
	}

	applies := make([]schema.Apply, 0, n)
	for i := uint64(0); i < n; i++ {
		sid, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("schema id: %w", err)
		}
		if sid > math.MaxUint16 {
			return nil, fmt.Errorf("schema %d: %w", sid, schema.ErrUnknownComponent)
		}
		c, ok := d.reg.Component(uint16(sid))
		if !ok {
			return nil, fmt.Errorf("schema %d: %w", sid, schema.ErrUnknownComponent)
		}
		apply, err := c.Decode(r, prior)
		if err != nil {
			return nil, err
		}
		applies = append(applies, apply)
	}
	return applies, nil
}

func (d *Decoder) checkStaleRatio() {
	if d.staleRatioWarn <= 0 {
		return
	}
	ratio, total := d.metrics.StaleRatio()
	if total < staleSampleMin {
		return
	}
	switch {
	case ratio > d.staleRatioWarn && !d.staleWarned:
		d.staleWarned = true
		d.logger.Warnw("stale entity references above threshold, updates may be arriving before spawns",
			"ratio", ratio, "threshold", d.staleRatioWarn, "records", total)
	case ratio <= d.staleRatioWarn:
		d.staleWarned = false
	}
}

func touch(entry *donburi.Entry, now time.Time) {
	if entry.HasComponent(components.NetworkState) {
		components.NetworkState.Get(entry).LastAuthoritativeUpdate = now
	}
}
