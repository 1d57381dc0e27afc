package schema

import (
	"fmt"
	"math"

	"github.com/automoto/lawnmower-mp/shared/wire"
)

func accepts(t WireType, ref any) bool {
	switch t {
	case Bool:
		_, ok := ref.(*bool)
		return ok
	case Uint8, Uint16, Uint32:
		_, ok := ref.(*int)
		return ok
	case Float32:
		_, ok := ref.(*float64)
		return ok
	case String:
		_, ok := ref.(*string)
		return ok
	}
	return false
}

// readValue assumes accepts(t, ref) was checked at registration.
func readValue(r *wire.Reader, t WireType, ref any) error {
	switch t {
	case Bool:
		v, err := r.Bool()
		if err != nil {
			return err
		}
		*ref.(*bool) = v
	case Uint8:
		v, err := r.Uint8()
		if err != nil {
			return err
		}
		*ref.(*int) = int(v)
	case Uint16:
		v, err := r.Uint16()
		if err != nil {
			return err
		}
		*ref.(*int) = int(v)
	case Uint32:
		v, err := r.Uint32()
		if err != nil {
			return err
		}
		*ref.(*int) = int(v)
	case Float32:
		v, err := r.Float32()
		if err != nil {
			return err
		}
		*ref.(*float64) = float64(v)
	case String:
		v, err := r.String()
		if err != nil {
			return err
		}
		*ref.(*string) = v
	default:
		return fmt.Errorf("unsupported wire type %s", t)
	}
	return nil
}

func writeValue(w *wire.Writer, t WireType, ref any) {
	switch t {
	case Bool:
		w.Bool(*ref.(*bool))
	case Uint8:
		w.Uint8(uint8(clampUint(*ref.(*int), math.MaxUint8)))
	case Uint16:
		w.Uint16(uint16(clampUint(*ref.(*int), math.MaxUint16)))
	case Uint32:
		w.Uint32(uint32(clampUint(*ref.(*int), math.MaxUint32)))
	case Float32:
		w.Float32(float32(*ref.(*float64)))
	case String:
		w.String(*ref.(*string))
	}
}

func clampUint(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
