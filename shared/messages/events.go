package messages

// SyncFrame carries one binary sync message (FULL, DELTA, SPAWN, DESPAWN).
type SyncFrame struct {
	Data []byte
}

// ErrorNotice is sent by the server before it drops a client, e.g. on kick.
type ErrorNotice struct {
	Message string
}

// ShootEvent is broadcast when any player fires.
type ShootEvent struct {
	PlayerID  string
	X, Y      float64
	Angle     float64
	Timestamp int64 // Unix ms
}

type Target struct {
	X, Y float64
}

// AirStrikeEvent is broadcast when an air strike is triggered.
type AirStrikeEvent struct {
	Targets         []Target
	WarningTime     float64 // seconds
	ExplosionRadius float64
	ExplosionDamage int
}

// CollectEvent is broadcast when a collectible is picked up.
type CollectEvent struct {
	PlayerID        string
	CollectibleType int
	Value           int
}

// PlayerDeathEvent is broadcast when a player dies.
type PlayerDeathEvent struct {
	PlayerID string
	KillerID string
}
