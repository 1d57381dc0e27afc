package config

import (
	"errors"
	"fmt"
	"time"
)

// ReconcileConfig tunes prediction reconciliation for the local player.
type ReconcileConfig struct {
	Threshold                float64 `json:"threshold"`                // smooth-correction threshold (units)
	HardCorrectionMultiplier float64 `json:"hardCorrectionMultiplier"` // divergence > Threshold*this snaps
	CorrectionSpeed          float64 `json:"correctionSpeed"`          // decay rate of the pending correction (1/s)
	NoiseFloor               float64 `json:"noiseFloor"`               // divergence below this is ignored
	SettleEpsilon            float64 `json:"settleEpsilon"`            // per-axis remainder treated as zero
}

// HardThreshold is the distance above which a correction snaps.
func (c ReconcileConfig) HardThreshold() float64 {
	return c.Threshold * c.HardCorrectionMultiplier
}

// InterpConfig tunes buffered interpolation of remote entities.
type InterpConfig struct {
	Enabled            bool          `json:"enabled"`
	Delay              time.Duration `json:"delay"`              // render time lags now by this much
	SnapshotCapacity   int           `json:"snapshotCapacity"`   // samples kept per entity
	InterpolationSpeed float64       `json:"interpolationSpeed"` // legacy exponential approach rate (1/s)
}

// MovementConfig tunes per-tick integration.
type MovementConfig struct {
	PlayerMaxSpeed  float64 `json:"playerMaxSpeed"`  // units/s
	InputDeadzone   float64 `json:"inputDeadzone"`   // input vectors shorter than this are ignored
	TurnRate        float64 `json:"turnRate"`        // rad/s per rad of heading error
	MinTurnSpeedSq  float64 `json:"minTurnSpeedSq"`  // speed² under which rotation is left alone
	RotationEpsilon float64 `json:"rotationEpsilon"` // heading errors at or below this are ignored
}

// NetworkConfig tunes the client loop and outbound traffic.
type NetworkConfig struct {
	TickRate            int           `json:"tickRate"`
	InputResendInterval time.Duration `json:"inputResendInterval"`
	StaleRatioWarn      float64       `json:"staleRatioWarn"` // stale references per decoded entity that trigger a warning
}

// Tuning groups every tunable parameter of the sync core.
type Tuning struct {
	Reconcile ReconcileConfig `json:"reconcile"`
	Interp    InterpConfig    `json:"interp"`
	Movement  MovementConfig  `json:"movement"`
	Network   NetworkConfig   `json:"network"`
}

// Net is the process-wide default tuning. Components take a Tuning value
// explicitly; Net is only read at construction time.
var Net Tuning

func init() {
	Net = Defaults()
}

func Defaults() Tuning {
	return Tuning{
		Reconcile: ReconcileConfig{
			Threshold:                5.0,
			HardCorrectionMultiplier: 3,
			CorrectionSpeed:          15.0,
			NoiseFloor:               0.1,
			SettleEpsilon:            0.01,
		},
		Interp: InterpConfig{
			Enabled:            true,
			Delay:              100 * time.Millisecond,
			SnapshotCapacity:   30,
			InterpolationSpeed: 10,
		},
		Movement: MovementConfig{
			PlayerMaxSpeed:  180,
			InputDeadzone:   0.1,
			TurnRate:        8,
			MinTurnSpeedSq:  100,
			RotationEpsilon: 0.001,
		},
		Network: NetworkConfig{
			TickRate:            60,
			InputResendInterval: 50 * time.Millisecond,
			StaleRatioWarn:      0.05,
		},
	}
}

var ErrInvalidTuning = errors.New("invalid tuning")

func (t Tuning) Validate() error {
	var errs []error
	if t.Reconcile.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("reconcile.threshold must be > 0, got %v", t.Reconcile.Threshold))
	}
	if t.Reconcile.HardCorrectionMultiplier < 1 {
		errs = append(errs, fmt.Errorf("reconcile.hardCorrectionMultiplier must be >= 1, got %v", t.Reconcile.HardCorrectionMultiplier))
	}
	if t.Reconcile.CorrectionSpeed <= 0 {
		errs = append(errs, fmt.Errorf("reconcile.correctionSpeed must be > 0, got %v", t.Reconcile.CorrectionSpeed))
	}
	if t.Reconcile.NoiseFloor < 0 || t.Reconcile.NoiseFloor >= t.Reconcile.HardThreshold() {
		errs = append(errs, fmt.Errorf("reconcile.noiseFloor %v out of range", t.Reconcile.NoiseFloor))
	}
	if t.Interp.Delay < 0 {
		errs = append(errs, fmt.Errorf("interp.delay must be >= 0, got %v", t.Interp.Delay))
	}
	if t.Interp.SnapshotCapacity < 2 {
		errs = append(errs, fmt.Errorf("interp.snapshotCapacity must be >= 2, got %d", t.Interp.SnapshotCapacity))
	}
	if t.Movement.PlayerMaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("movement.playerMaxSpeed must be >= 0, got %v", t.Movement.PlayerMaxSpeed))
	}
	if t.Network.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("network.tickRate must be > 0, got %d", t.Network.TickRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTuning, errors.Join(errs...))
	}
	return nil
}

// TickInterval is the simulation step derived from TickRate.
func (t Tuning) TickInterval() time.Duration {
	return time.Second / time.Duration(t.Network.TickRate)
}
