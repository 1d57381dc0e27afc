package components

import (
	"time"

	"github.com/automoto/lawnmower-mp/interpolation"
	"github.com/yohamta/donburi"
)

// NetworkStateData is the client-side view of a synced entity: whether it is
// driven locally, the last authoritative pose mirrored from the sync stream,
// and the snapshot history used to render it when remote.
type NetworkStateData struct {
	PlayerID   string
	PlayerName string
	IsLocal    bool
	IsHost     bool

	AuthX, AuthY   float64
	AuthRotation   float64
	AuthVX, AuthVY float64
	HasAuthority   bool // at least one authoritative update mirrored

	LastAuthoritativeUpdate time.Time

	InterpolationEnabled bool
	InterpolationSpeed   float64 // legacy approach rate when the buffer cannot bracket
	Buffer               *interpolation.SnapshotBuffer[interpolation.TransformState]
}

// AuthState returns the mirrored authoritative pose.
func (n *NetworkStateData) AuthState() interpolation.TransformState {
	return interpolation.TransformState{
		X:        n.AuthX,
		Y:        n.AuthY,
		Rotation: n.AuthRotation,
		VelX:     n.AuthVX,
		VelY:     n.AuthVY,
	}
}

var NetworkState = donburi.NewComponentType[NetworkStateData]()
