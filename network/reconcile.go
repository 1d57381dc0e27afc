package network

import (
	"math"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/config"
	"github.com/yohamta/donburi"
)

type CorrectionState int

const (
	Predicting CorrectionState = iota
	Correcting
)

func (s CorrectionState) String() string {
	if s == Correcting {
		return "correcting"
	}
	return "predicting"
}

// Outcome is what a reconciliation decided to do.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSmooth
	OutcomeHard
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSmooth:
		return "smooth"
	case OutcomeHard:
		return "hard"
	}
	return "none"
}

// Reconciler corrects the locally predicted entity toward authoritative
// positions. Small divergence is decayed away over several ticks; large
// divergence snaps.
type Reconciler struct {
	cfg config.ReconcileConfig

	entity donburi.Entity
	bound  bool

	pendingX, pendingY float64
	state              CorrectionState
}

func NewReconciler(cfg config.ReconcileConfig) *Reconciler {
	return &Reconciler{cfg: cfg}
}

func (r *Reconciler) State() CorrectionState { return r.state }

// Pending returns the correction still to be applied.
func (r *Reconciler) Pending() (x, y float64) { return r.pendingX, r.pendingY }

// Entity returns the entity the pending correction belongs to.
func (r *Reconciler) Entity() (donburi.Entity, bool) { return r.entity, r.bound }

// Reset drops the pending correction and the entity binding.
func (r *Reconciler) Reset() {
	r.pendingX, r.pendingY = 0, 0
	r.state = Predicting
	r.bound = false
}

// ApplyCorrection returns the share of the pending correction to add to
// the predicted position this tick and removes it from the remainder.
func (r *Reconciler) ApplyCorrection(dt float64) (dx, dy float64) {
	if r.state != Correcting {
		return 0, 0
	}
	factor := math.Min(1, dt*r.cfg.CorrectionSpeed)
	dx, dy = r.pendingX*factor, r.pendingY*factor
	r.pendingX -= dx
	r.pendingY -= dy
	if math.Abs(r.pendingX) < r.cfg.SettleEpsilon && math.Abs(r.pendingY) < r.cfg.SettleEpsilon {
		r.pendingX, r.pendingY = 0, 0
		r.state = Predicting
	}
	return dx, dy
}

// Reconcile compares the authoritative pose with the entity's predicted
// Transform. An entity the reconciler was not tracking starts from a zeroed
// correction.
func (r *Reconciler) Reconcile(entry *donburi.Entry, authX, authY, authRotation float64) Outcome {
	if !r.bound || r.entity != entry.Entity() {
		r.Reset()
		r.entity = entry.Entity()
		r.bound = true
	}

	if !entry.HasComponent(components.Transform) {
		entry.AddComponent(components.Transform)
		r.snap(entry, components.Transform.Get(entry), authX, authY, authRotation)
		return OutcomeHard
	}
	tr := components.Transform.Get(entry)

	dx, dy := authX-tr.X, authY-tr.Y
	d := math.Hypot(dx, dy)

	switch {
	case d < r.cfg.NoiseFloor:
		return OutcomeNone
	case d <= r.cfg.HardThreshold():
		r.pendingX, r.pendingY = dx, dy
		r.state = Correcting
		return OutcomeSmooth
	default:
		r.snap(entry, tr, authX, authY, authRotation)
		return OutcomeHard
	}
}

func (r *Reconciler) snap(entry *donburi.Entry, tr *components.TransformData, x, y, rotation float64) {
	tr.X, tr.Y, tr.Rotation = x, y, rotation
	r.pendingX, r.pendingY = 0, 0
	r.state = Predicting
	if entry.HasComponent(components.NetworkState) {
		if buf := components.NetworkState.Get(entry).Buffer; buf != nil {
			buf.Clear()
		}
	}
}
