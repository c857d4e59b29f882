// Package transport implements the WebSocket connection registry and
// HTTP handler the core's out-ports are wired to. It is adapted from
// the teacher's session package: client send/receive pumps keyed by
// connection identity, generalized here to key by PlayerId instead of
// a monotonic counter, since every notification in this system is
// addressed to a specific player rather than fanned out by symbol
// subscription.
package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one connected player's WebSocket session.
type Client struct {
	PlayerId ids.PlayerId
	Conn     *websocket.Conn

	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Dropped counts notifications dropped because the send buffer was
	// full, mirroring the teacher's fire-and-forget backpressure policy.
	Dropped uint64 // accessed via atomic

	mu    sync.Mutex
	lobby *ids.LobbyId // set while the player is seated in a lobby
}

// SetLobby records the lobby the player most recently readied up in,
// so a later disconnect can be reported to that lobby.
func (c *Client) SetLobby(id ids.LobbyId) {
	c.mu.Lock()
	c.lobby = &id
	c.mu.Unlock()
}

// ClearLobby forgets the tracked lobby. The connection handler does
// not call it, so a client keeps the last lobby it readied up in until
// the connection closes.
func (c *Client) ClearLobby() {
	c.mu.Lock()
	c.lobby = nil
	c.mu.Unlock()
}

// Lobby returns the tracked lobby, if any.
func (c *Client) Lobby() (ids.LobbyId, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lobby == nil {
		return ids.LobbyId{}, false
	}
	return *c.lobby, true
}

func NewClient(pid ids.PlayerId, conn *websocket.Conn) *Client {
	return &Client{
		PlayerId: pid,
		Conn:     conn,
		sendCh:   make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Send enqueues data for delivery. Returns false if the buffer is
// full, after counting the drop in Dropped and the dropped-sends
// metric; per the GameEventNotifier contract this is fire-and-forget,
// so the message is discarded rather than retried.
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		metrics.IncDropped()
		return false
	}
}

func (c *Client) SendCh() <-chan []byte { return c.sendCh }
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}
