package network

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/automoto/lawnmower-mp/config"
	"github.com/automoto/lawnmower-mp/logging"
	"github.com/automoto/lawnmower-mp/shared/messages"
	"github.com/automoto/lawnmower-mp/shared/schema"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

var (
	ErrNotConnected  = errors.New("network: not connected")
	ErrSessionClosed = errors.New("network: session closed")
)

// Sender delivers outbound control messages to the simulation owner.
type Sender interface {
	SendMessage(msg any) error
}

// SessionLost is emitted once when the session ends.
type SessionLost struct {
	Reason string
	Kicked bool
}

// Session owns the client side of one connection: the entity map, the
// decoder, the reconciler and the queues fed by the transport. Enqueue,
// Kick, Lose and the Push* methods may be called from any goroutine;
// everything else runs on the tick goroutine.
type Session struct {
	world  donburi.World
	sender Sender
	tuning config.Tuning
	logger *zap.SugaredLogger

	entities   *EntityMap
	decoder    *Decoder
	reconciler *Reconciler
	history    PredictionBuffer
	seq        uint32

	mu       sync.Mutex
	inbox    [][]byte
	playerID string
	closed   bool
	lost     *SessionLost

	lostCh   chan SessionLost
	lostOnce sync.Once

	shootCh     chan messages.ShootEvent
	airStrikeCh chan messages.AirStrikeEvent
	collectCh   chan messages.CollectEvent
	deathCh     chan messages.PlayerDeathEvent

	local      donburi.Entity
	localBound bool
}

func NewSession(world donburi.World, reg *schema.Registry, sender Sender, tuning config.Tuning, logger *zap.SugaredLogger) *Session {
	logger = logging.OrNop(logger)
	entities := NewEntityMap()
	return &Session{
		world:       world,
		sender:      sender,
		tuning:      tuning,
		logger:      logger,
		entities:    entities,
		decoder:     NewDecoder(reg, entities, logger.Named("decoder"), tuning.Network.StaleRatioWarn),
		reconciler:  NewReconciler(tuning.Reconcile),
		lostCh:      make(chan SessionLost, 1),
		shootCh:     make(chan messages.ShootEvent, 16),
		airStrikeCh: make(chan messages.AirStrikeEvent, 4),
		collectCh:   make(chan messages.CollectEvent, 8),
		deathCh:     make(chan messages.PlayerDeathEvent, 8),
	}
}

func (s *Session) World() donburi.World       { return s.world }
func (s *Session) Tuning() config.Tuning      { return s.tuning }
func (s *Session) Entities() *EntityMap       { return s.entities }
func (s *Session) Reconciler() *Reconciler    { return s.reconciler }
func (s *Session) History() *PredictionBuffer { return &s.history }
func (s *Session) Metrics() *DecodeMetrics    { return s.decoder.Metrics() }
func (s *Session) Lost() <-chan SessionLost   { return s.lostCh }
func (s *Session) Logger() *zap.SugaredLogger { return s.logger }

// SetSender replaces the outbound path. Call before the first tick.
func (s *Session) SetSender(sender Sender) {
	s.sender = sender
}

// SetPlayerID records the id the simulation owner assigned to this client.
func (s *Session) SetPlayerID(id string) {
	s.mu.Lock()
	s.playerID = id
	s.mu.Unlock()
}

func (s *Session) PlayerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID
}

// SetLocalEntity marks entity as the locally predicted player.
func (s *Session) SetLocalEntity(entity donburi.Entity) {
	s.local = entity
	s.localBound = true
}

// LocalEntity returns the local player entity while it is alive.
func (s *Session) LocalEntity() (*donburi.Entry, bool) {
	if !s.localBound || !s.world.Valid(s.local) {
		return nil, false
	}
	return s.world.Entry(s.local), true
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Enqueue queues a sync frame for the next Step. Frames arriving after the
// session ended are dropped.
func (s *Session) Enqueue(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.inbox = append(s.inbox, frame)
}

// Step decodes every queued frame in arrival order. If the session was
// lost since the last Step, it tears down instead and returns nil.
func (s *Session) Step(now time.Time) []Result {
	s.mu.Lock()
	lost := s.lost
	frames := s.inbox
	s.inbox = nil
	s.mu.Unlock()

	if lost != nil {
		s.teardown(*lost)
		return nil
	}

	results := make([]Result, 0, len(frames))
	for _, frame := range frames {
		res := s.decoder.Decode(s.world, frame, now)
		if res.Spawned != nil {
			s.logger.Debugw("entity spawned",
				"entity_id", res.Spawned.EntityID, "prefab", res.Spawned.PrefabType)
		}
		results = append(results, res)
	}
	return results
}

// Kick ends the session after a kick notice. Safe from any goroutine; the
// world is cleared on the next Step.
func (s *Session) Kick(reason string) {
	s.markLost(SessionLost{Reason: reason, Kicked: true})
}

// Lose ends the session after a disconnect. Safe from any goroutine.
func (s *Session) Lose(reason string) {
	s.markLost(SessionLost{Reason: reason})
}

// Close ends the session and clears the world immediately. Tick goroutine
// only.
func (s *Session) Close() {
	s.markLost(SessionLost{Reason: "closed"})
	s.mu.Lock()
	lost := *s.lost
	s.mu.Unlock()
	s.teardown(lost)
}

func (s *Session) markLost(l SessionLost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.lost = &l
	s.inbox = nil
}

func (s *Session) teardown(l SessionLost) {
	s.lostOnce.Do(func() {
		var doomed []donburi.Entity
		s.entities.Each(func(_ esync.NetworkId, e donburi.Entity) bool {
			doomed = append(doomed, e)
			return true
		})
		esync.NetworkEntityQuery.Each(s.world, func(entry *donburi.Entry) {
			doomed = append(doomed, entry.Entity())
		})
		for _, e := range doomed {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
		}
		s.entities.Clear()
		s.reconciler.Reset()
		s.history.Clear()
		s.localBound = false

		s.logger.Infow("session ended", "reason", l.Reason, "kicked", l.Kicked,
			"metrics", s.decoder.Metrics().Snapshot())
		s.lostCh <- l
	})
}

// SendInput sends the current input vector and records it with the local
// predicted position.
func (s *Session) SendInput(dx, dy float64, shoot bool, now time.Time) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	if s.sender == nil {
		return ErrNotConnected
	}
	s.seq++
	msg := messages.InputMsg{DX: dx, DY: dy, Shoot: shoot, Seq: s.seq}
	if err := s.sender.SendMessage(msg); err != nil {
		return fmt.Errorf("send input %d: %w", msg.Seq, err)
	}

	var px, py float64
	if entry, ok := s.LocalEntity(); ok && entry.HasComponent(components.Transform) {
		tr := components.Transform.Get(entry)
		px, py = tr.X, tr.Y
	}
	s.history.Store(msg, px, py, now)
	return nil
}

func (s *Session) SendShoot(targetX, targetY float64) error {
	return s.send(messages.ShootMsg{TargetX: targetX, TargetY: targetY})
}

// SendEnemyHit reports a hit on a local enemy entity. Entities without an
// authoritative id are ignored.
func (s *Session) SendEnemyHit(entity donburi.Entity, damage int) error {
	id, ok := s.entities.ID(entity)
	if !ok {
		s.logger.Debugw("enemy hit on unmapped entity", "entity", entity)
		return nil
	}
	return s.send(messages.EnemyHitMsg{EnemyID: uint32(id), Damage: damage})
}

func (s *Session) send(msg any) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	if s.sender == nil {
		return ErrNotConnected
	}
	if err := s.sender.SendMessage(msg); err != nil {
		return fmt.Errorf("send %T: %w", msg, err)
	}
	return nil
}

func (s *Session) PushShoot(evt messages.ShootEvent)             { push(s.shootCh, evt) }
func (s *Session) PushAirStrike(evt messages.AirStrikeEvent)     { push(s.airStrikeCh, evt) }
func (s *Session) PushCollect(evt messages.CollectEvent)         { push(s.collectCh, evt) }
func (s *Session) PushPlayerDeath(evt messages.PlayerDeathEvent) { push(s.deathCh, evt) }

// DrainShootEvents returns pending shoot events from other players.
func (s *Session) DrainShootEvents() []messages.ShootEvent {
	self := s.PlayerID()
	events := drainChan(s.shootCh)
	out := events[:0]
	for _, evt := range events {
		if evt.PlayerID != self {
			out = append(out, evt)
		}
	}
	return out
}

func (s *Session) DrainAirStrikeEvents() []messages.AirStrikeEvent {
	return drainChan(s.airStrikeCh)
}

func (s *Session) DrainCollectEvents() []messages.CollectEvent {
	return drainChan(s.collectCh)
}

func (s *Session) DrainPlayerDeathEvents() []messages.PlayerDeathEvent {
	return drainChan(s.deathCh)
}

// push drops the event when the queue is full.
func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
