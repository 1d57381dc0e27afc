package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// PlayerInputData is the local player's input this tick plus the last
// vector actually sent, so unchanged input is not resent every frame.
type PlayerInputData struct {
	DX, DY float64
	Shoot  bool

	SentDX, SentDY float64
	SentShoot      bool
	SentAt         time.Time

	ShootHeld bool // shoot was down last tick
}

// Changed reports whether the current input differs from the last sent one.
func (p *PlayerInputData) Changed() bool {
	return p.DX != p.SentDX || p.DY != p.SentDY || p.Shoot != p.SentShoot
}

var PlayerInput = donburi.NewComponentType[PlayerInputData]()
