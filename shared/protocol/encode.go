package protocol

import (
	"fmt"

	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/automoto/lawnmower-mp/shared/wire"
)

// Value is one component value to put on the wire. Fields selects a sparse
// subset for DELTA frames; nil means every field.
type Value struct {
	ComponentID uint16
	Data        any
	Fields      []string
}

// EntityState pairs an entity id with the component values to encode for it.
type EntityState struct {
	EntityID uint32
	Values   []Value
}

// Encoder builds sync frames from a schema registry. It is the simulation
// owner's half of the protocol and is used by tests and tooling on the
// client side.
type Encoder struct {
	reg *schema.Registry
}

func NewEncoder(reg *schema.Registry) *Encoder {
	return &Encoder{reg: reg}
}

func (e *Encoder) Full(entities ...EntityState) ([]byte, error) {
	return e.snapshot(OpFull, entities, false)
}

// Delta encodes only the listed fields of each value.
func (e *Encoder) Delta(entities ...EntityState) ([]byte, error) {
	return e.snapshot(OpDelta, entities, true)
}

func (e *Encoder) Spawn(entityID uint32, prefabType string, values ...Value) ([]byte, error) {
	w := wire.NewWriter(64)
	w.Uint8(uint8(OpSpawn))
	w.Uint32(entityID)
	w.String(prefabType)
	if err := e.componentSet(w, values, false); err != nil {
		return nil, fmt.Errorf("spawn %d: %w", entityID, err)
	}
	return w.Bytes(), nil
}

func (e *Encoder) Despawn(entityIDs ...uint32) []byte {
	w := wire.NewWriter(1 + 4*len(entityIDs))
	w.Uint8(uint8(OpDespawn))
	for _, id := range entityIDs {
		w.Uint32(id)
	}
	return w.Bytes()
}

func (e *Encoder) snapshot(op SyncOp, entities []EntityState, sparse bool) ([]byte, error) {
	w := wire.NewWriter(128)
	w.Uint8(uint8(op))
	for _, ent := range entities {
		w.Uint32(ent.EntityID)
		if err := e.componentSet(w, ent.Values, sparse); err != nil {
			return nil, fmt.Errorf("%s entity %d: %w", op, ent.EntityID, err)
		}
	}
	return w.Bytes(), nil
}

func (e *Encoder) componentSet(w *wire.Writer, values []Value, sparse bool) error {
	w.Uvarint(uint64(len(values)))
	for _, v := range values {
		c, ok := e.reg.Component(v.ComponentID)
		if !ok {
			return fmt.Errorf("component %d: %w", v.ComponentID, schema.ErrUnknownComponent)
		}
		fields := v.Fields
		if !sparse {
			fields = nil
		} else if fields == nil {
			fields = []string{}
		}
		w.Uvarint(uint64(v.ComponentID))
		if err := c.Encode(w, v.Data, fields); err != nil {
			return err
		}
	}
	return nil
}
