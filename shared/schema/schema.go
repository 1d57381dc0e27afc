// Package schema maps component fields to wire types. Each synced component
// registers an explicit, ordered field table; the same table drives both the
// client decoder and the encoder used by the simulation owner.
package schema

import (
	"errors"
	"fmt"

	"github.com/automoto/lawnmower-mp/shared/wire"
	"github.com/yohamta/donburi"
)

var (
	ErrUnknownComponent = errors.New("schema: unknown component")
	ErrUnknownField     = errors.New("schema: unknown field")
)

// WireType is the on-wire representation of a single field.
type WireType uint8

const (
	Bool WireType = iota
	Uint8
	Uint16
	Uint32
	Float32
	String
)

func (t WireType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case String:
		return "string"
	}
	return fmt.Sprintf("WireType(%d)", uint8(t))
}

// Field describes one synced field of T. Ref must return a pointer into the
// given value: *bool for Bool, *int for the unsigned types, *float64 for
// Float32 and *string for String.
type Field[T any] struct {
	Name string
	Type WireType
	Ref  func(*T) any
}

// Apply commits a staged decode onto an entry.
type Apply func(entry *donburi.Entry)

// Component is the type-erased view of a registered component schema.
type Component interface {
	ID() uint16
	Name() string
	Type() donburi.IComponentType
	NumFields() int
	FieldIndex(name string) (int, bool)

	// Decode reads a field set. Fields absent from the set keep the values
	// currently on prior (zero values when prior is nil or lacks the
	// component). Nothing is written until the returned Apply runs.
	Decode(r *wire.Reader, prior *donburi.Entry) (Apply, error)

	// Encode writes a field set for value (T or *T). A nil fields slice
	// writes every field in table order.
	Encode(w *wire.Writer, value any, fields []string) error
}

type component[T any] struct {
	id     uint16
	name   string
	ctype  *donburi.ComponentType[T]
	fields []Field[T]
	index  map[string]int
}

// NewComponent builds a schema and checks every field accessor against its
// declared wire type.
func NewComponent[T any](id uint16, name string, ctype *donburi.ComponentType[T], fields ...Field[T]) (Component, error) {
	if len(fields) > 256 {
		return nil, fmt.Errorf("component %s: %d fields exceeds 256", name, len(fields))
	}
	c := &component[T]{
		id:     id,
		name:   name,
		ctype:  ctype,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	var zero T
	for i, f := range fields {
		if _, dup := c.index[f.Name]; dup {
			return nil, fmt.Errorf("component %s: duplicate field %q", name, f.Name)
		}
		if !accepts(f.Type, f.Ref(&zero)) {
			return nil, fmt.Errorf("component %s: field %q accessor does not match %s", name, f.Name, f.Type)
		}
		c.index[f.Name] = i
	}
	return c, nil
}

func (c *component[T]) ID() uint16                   { return c.id }
func (c *component[T]) Name() string                 { return c.name }
func (c *component[T]) Type() donburi.IComponentType { return c.ctype }
func (c *component[T]) NumFields() int               { return len(c.fields) }

func (c *component[T]) FieldIndex(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

func (c *component[T]) Decode(r *wire.Reader, prior *donburi.Entry) (Apply, error) {
	var staged T
	if prior != nil && prior.Valid() && prior.HasComponent(c.ctype) {
		staged = *c.ctype.Get(prior)
	}

	n, err := r.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("%s field count: %w", c.name, err)
	}
	if n > uint64(len(c.fields)) {
		return nil, fmt.Errorf("%s: %d fields, schema has %d: %w", c.name, n, len(c.fields), ErrUnknownField)
	}
	for i := uint64(0); i < n; i++ {
		idx, err := r.Uint8()
		if err != nil {
			return nil, fmt.Errorf("%s field index: %w", c.name, err)
		}
		if int(idx) >= len(c.fields) {
			return nil, fmt.Errorf("%s field %d: %w", c.name, idx, ErrUnknownField)
		}
		f := c.fields[idx]
		if err := readValue(r, f.Type, f.Ref(&staged)); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", c.name, f.Name, err)
		}
	}

	return func(entry *donburi.Entry) {
		if !entry.HasComponent(c.ctype) {
			entry.AddComponent(c.ctype)
		}
		c.ctype.SetValue(entry, staged)
	}, nil
}

func (c *component[T]) Encode(w *wire.Writer, value any, fields []string) error {
	var v *T
	switch x := value.(type) {
	case T:
		v = &x
	case *T:
		v = x
	default:
		return fmt.Errorf("%s: cannot encode %T", c.name, value)
	}

	if fields == nil {
		w.Uvarint(uint64(len(c.fields)))
		for i, f := range c.fields {
			w.Uint8(uint8(i))
			writeValue(w, f.Type, f.Ref(v))
		}
		return nil
	}

	idx := make([]int, 0, len(fields))
	for _, name := range fields {
		i, ok := c.index[name]
		if !ok {
			return fmt.Errorf("%s.%s: %w", c.name, name, ErrUnknownField)
		}
		idx = append(idx, i)
	}
	w.Uvarint(uint64(len(idx)))
	for _, i := range idx {
		f := c.fields[i]
		w.Uint8(uint8(i))
		writeValue(w, f.Type, f.Ref(v))
	}
	return nil
}
