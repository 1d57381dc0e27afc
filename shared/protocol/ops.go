package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrUnknownOp = errors.New("protocol: unknown sync op")

// SyncOp is the first byte of every sync frame.
type SyncOp uint8

const (
	OpFull SyncOp = iota
	OpDelta
	OpSpawn
	OpDespawn
)

func (op SyncOp) String() string {
	switch op {
	case OpFull:
		return "FULL"
	case OpDelta:
		return "DELTA"
	case OpSpawn:
		return "SPAWN"
	case OpDespawn:
		return "DESPAWN"
	}
	return fmt.Sprintf("SyncOp(%d)", uint8(op))
}

func (op SyncOp) Valid() bool { return op <= OpDespawn }

// PeekEntityID reads the entity id of a SPAWN frame (bytes 1-4) without
// decoding the rest.
func PeekEntityID(frame []byte) (uint32, bool) {
	if len(frame) < 5 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(frame[1:5]), true
}
