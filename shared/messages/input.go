package messages

// InputMsg is sent to the simulation owner whenever the local input vector
// changes. DX and DY are normalized to roughly [-1, 1].
type InputMsg struct {
	DX    float64
	DY    float64
	Shoot bool
	Seq   uint32 // Incrementing ID for reconciliation diagnostics
}

// ShootMsg asks the simulation owner to fire toward a world position.
type ShootMsg struct {
	TargetX float64
	TargetY float64
}

// EnemyHitMsg reports a local hit on an enemy, addressed by its
// authoritative entity id.
type EnemyHitMsg struct {
	EnemyID uint32
	Damage  int
}
