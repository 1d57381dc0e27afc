package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/automoto/lawnmower-mp/logging"
	"github.com/automoto/lawnmower-mp/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"go.uber.org/zap"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	}
	return "disconnected"
}

// Client is the websocket transport for a Session. Router callbacks run on
// necs goroutines; they only touch the session through its goroutine-safe
// methods. All shared fields are protected by mu.
type Client struct {
	session *Session
	logger  *zap.SugaredLogger

	mu        sync.RWMutex
	state     ClientState
	lastError error
	roomID    string
	conn      *websocket.Conn
}

func NewClient(session *Session, logger *zap.SugaredLogger) *Client {
	return &Client{
		session: session,
		logger:  logging.OrNop(logger),
		state:   StateDisconnected,
	}
}

// Connect dials address in a background goroutine and sends join once the
// socket is up.
func (c *Client) Connect(address string, join messages.JoinGame) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.logger.Infow("connected", "address", address)
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(join); err != nil {
			c.setError(fmt.Errorf("send join: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.logger.Infow("join accepted", "player_id", msg.PlayerID, "room", msg.RoomID)
		c.session.SetPlayerID(msg.PlayerID)
		c.mu.Lock()
		c.roomID = msg.RoomID
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.SyncFrame) {
		c.session.Enqueue(msg.Data)
	})

	router.On(func(_ *router.NetworkClient, evt messages.ShootEvent) {
		c.session.PushShoot(evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.AirStrikeEvent) {
		c.session.PushAirStrike(evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.CollectEvent) {
		c.session.PushCollect(evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.PlayerDeathEvent) {
		c.session.PushPlayerDeath(evt)
	})

	router.On(func(_ *router.NetworkClient, msg messages.ErrorNotice) {
		c.logger.Warnw("server error notice", "message", msg.Message)
		c.session.Kick(msg.Message)
		go c.Disconnect()
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.logger.Infow("disconnected", "error", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()

		reason := "disconnected"
		if err != nil {
			reason = err.Error()
		}
		c.session.Lose(reason)
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.logger.Warnw("router error", "error", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
			c.session.Lose(err.Error())
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// SendMessage implements Sender.
func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.logger.Errorw("client error", "error", err)
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
