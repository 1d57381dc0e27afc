package game

import (
	"context"
	"time"

	"github.com/automoto/lawnmower-mp/network"
	"github.com/automoto/lawnmower-mp/systems"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

const statusInterval = 5 * time.Second

// Loop runs the client tick on a single goroutine: input, sync, movement.
type Loop struct {
	session *network.Session
	ecs     *ecs.ECS
	clock   *systems.Clock
	logger  *zap.SugaredLogger

	tickRate   int
	lastStatus time.Time
}

func NewLoop(session *network.Session, input systems.InputSource) *Loop {
	tuning := session.Tuning()
	clock := &systems.Clock{}

	e := ecs.NewECS(session.World())
	e.AddSystem(systems.NewInputSystem(session, input, clock))
	e.AddSystem(systems.NewNetSyncSystem(session, clock))
	e.AddSystem(systems.NewMovementSystem(systems.NewMovementResolver(tuning.Movement, session.Reconciler()), clock))

	return &Loop{
		session:  session,
		ecs:      e,
		clock:    clock,
		logger:   session.Logger().Named("loop"),
		tickRate: tuning.Network.TickRate,
	}
}

// Run ticks until ctx is done or the session is lost. It returns the loss
// reason, or nil when ctx ended first.
func (l *Loop) Run(ctx context.Context) *network.SessionLost {
	ticker := time.NewTicker(time.Second / time.Duration(l.tickRate))
	defer ticker.Stop()

	l.logger.Infow("loop started", "tick_rate", l.tickRate)

	for {
		select {
		case <-ctx.Done():
			l.session.Close()
			<-l.session.Lost()
			return nil
		case lost := <-l.session.Lost():
			l.logger.Infow("loop stopped", "reason", lost.Reason)
			return &lost
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}

// Tick runs one tick at now.
func (l *Loop) Tick(now time.Time) {
	l.clock.Advance(now)
	l.ecs.Update()
	l.drainEvents()

	if now.Sub(l.lastStatus) >= statusInterval {
		l.lastStatus = now
		l.logStatus()
	}
}

func (l *Loop) drainEvents() {
	for _, evt := range l.session.DrainShootEvents() {
		l.logger.Debugw("remote shot", "player_id", evt.PlayerID, "x", evt.X, "y", evt.Y, "angle", evt.Angle)
	}
	for _, evt := range l.session.DrainAirStrikeEvents() {
		l.logger.Infow("air strike", "targets", len(evt.Targets), "warning_s", evt.WarningTime)
	}
	for _, evt := range l.session.DrainCollectEvents() {
		l.logger.Debugw("collected", "player_id", evt.PlayerID, "type", evt.CollectibleType, "value", evt.Value)
	}
	for _, evt := range l.session.DrainPlayerDeathEvents() {
		l.logger.Infow("player died", "player_id", evt.PlayerID, "killer_id", evt.KillerID)
	}
}

func (l *Loop) logStatus() {
	fields := []any{"entities", l.session.Entities().Len(), "reconcile", l.session.Reconciler().State().String()}
	if x, y, ok := systems.CameraFocus(l.session.World()); ok {
		fields = append(fields, "focus_x", x, "focus_y", y)
	}
	for k, v := range l.session.Metrics().Snapshot() {
		fields = append(fields, k, v)
	}
	l.logger.Infow("status", fields...)
}
